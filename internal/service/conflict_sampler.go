package service

import (
	"context"
	"time"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// DefaultSampleWeeks is how many leading occurrences of a pattern are pre-flighted.
const DefaultSampleWeeks = 4

type availabilityOracle interface {
	CheckAvailability(ctx context.Context, date time.Time, slotID, classID, roomID, lecturerID int64) (models.ConflictVerdict, error)
}

// SampleWindow is the semester range a pattern is sampled in.
type SampleWindow struct {
	Start    time.Time
	End      time.Time
	Holidays HolidaySet
	Weeks    int
}

// ConflictSampler pre-flights the first weeks of a recurrence pattern against committed lessons.
// Its result is advisory; the committer enforces the real guarantee.
type ConflictSampler struct {
	oracle  availabilityOracle
	metrics *MetricsService
}

// NewConflictSampler constructs a sampler on top of an availability oracle.
func NewConflictSampler(oracle availabilityOracle, metrics *MetricsService) *ConflictSampler {
	return &ConflictSampler{oracle: oracle, metrics: metrics}
}

// SampleConflicts checks the first window.Weeks dates of the pattern. Any oracle error aborts
// sampling so an unreachable store is never reported as conflict-free.
func (s *ConflictSampler) SampleConflicts(ctx context.Context, classID, lecturerID int64, pattern models.RecurrencePattern, window SampleWindow) ([]models.Conflict, error) {
	weeks := window.Weeks
	if weeks <= 0 {
		weeks = DefaultSampleWeeks
	}
	dates := ExpandWeekday(pattern.Weekday, window.Start, window.End, window.Holidays)
	if len(dates) > weeks {
		dates = dates[:weeks]
	}

	var conflicts []models.Conflict
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		verdict, err := s.oracle.CheckAvailability(ctx, date, pattern.SlotID, classID, pattern.RoomID, lecturerID)
		if err != nil {
			return nil, err
		}
		if !verdict.Busy() {
			continue
		}
		day := date.Format(models.DateLayout)
		types := verdict.Types()
		conflicts = append(conflicts, models.Conflict{
			Date:          day,
			Weekday:       pattern.Weekday,
			SlotID:        pattern.SlotID,
			RoomID:        pattern.RoomID,
			ConflictTypes: types,
			Message:       models.DescribeConflict(day, pattern.SlotID, types),
		})
	}
	s.metrics.RecordSampledConflicts(len(conflicts))
	return conflicts, nil
}

// SampleGroup samples every pattern of a submission group and concatenates the results.
func (s *ConflictSampler) SampleGroup(ctx context.Context, group models.SubmissionGroup, window SampleWindow) ([]models.Conflict, error) {
	conflicts := make([]models.Conflict, 0)
	for _, pattern := range group.Patterns {
		found, err := s.SampleConflicts(ctx, group.ClassID, group.LecturerID, pattern, window)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, found...)
	}
	return conflicts, nil
}
