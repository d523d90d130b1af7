package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type fakeLessonStore struct {
	lessons []models.Lesson
	err     error
	calls   int
}

func (f *fakeLessonStore) CheckAvailability(_ context.Context, date time.Time, slotID, classID, roomID, lecturerID int64) (models.ConflictVerdict, error) {
	f.calls++
	if f.err != nil {
		return models.ConflictVerdict{}, f.err
	}
	var verdict models.ConflictVerdict
	day := date.Format(models.DateLayout)
	for _, lesson := range f.lessons {
		if lesson.Date.Format(models.DateLayout) != day || lesson.SlotID != slotID {
			continue
		}
		verdict.IsClassBusy = verdict.IsClassBusy || lesson.ClassID == classID
		verdict.IsRoomBusy = verdict.IsRoomBusy || lesson.RoomID == roomID
		verdict.IsLecturerBusy = verdict.IsLecturerBusy || lesson.LecturerID == lecturerID
	}
	return verdict, nil
}

func TestAvailabilityServiceReportsIndependentDimensions(t *testing.T) {
	store := &fakeLessonStore{lessons: []models.Lesson{
		{ClassID: 5, RoomID: 10, LecturerID: 3, SlotID: 2, Date: mustDate(t, "2024-01-08")},
	}}
	svc := NewAvailabilityService(store, nil, nil)

	verdict, err := svc.CheckAvailability(context.Background(), mustDate(t, "2024-01-08"), 2, 5, 99, 3)
	require.NoError(t, err)
	assert.True(t, verdict.IsClassBusy)
	assert.False(t, verdict.IsRoomBusy)
	assert.True(t, verdict.IsLecturerBusy)

	free, err := svc.CheckAvailability(context.Background(), mustDate(t, "2024-01-08"), 3, 5, 10, 3)
	require.NoError(t, err)
	assert.False(t, free.Busy())
}

func TestAvailabilityServiceFailureIsUnavailable(t *testing.T) {
	svc := NewAvailabilityService(&fakeLessonStore{err: errors.New("timeout")}, nil, nil)

	verdict, err := svc.CheckAvailability(context.Background(), mustDate(t, "2024-01-08"), 1, 1, 1, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
	assert.False(t, verdict.Busy())
}

func TestSampleConflictsChecksOnlyLeadingWeeks(t *testing.T) {
	store := &fakeLessonStore{lessons: []models.Lesson{
		{ClassID: 9, RoomID: 10, LecturerID: 8, SlotID: 2, Date: mustDate(t, "2024-01-08")},
		{ClassID: 9, RoomID: 11, LecturerID: 3, SlotID: 2, Date: mustDate(t, "2024-01-29")},
		{ClassID: 9, RoomID: 10, LecturerID: 8, SlotID: 2, Date: mustDate(t, "2024-03-04")},
	}}
	sampler := NewConflictSampler(NewAvailabilityService(store, nil, nil), nil)
	window := SampleWindow{
		Start:    mustDate(t, "2024-01-01"),
		End:      mustDate(t, "2024-03-31"),
		Holidays: NewHolidaySet([]models.Holiday{{Date: mustDate(t, "2024-01-15")}}),
	}
	pattern := models.RecurrencePattern{Weekday: 2, SlotID: 2, RoomID: 10}

	conflicts, err := sampler.SampleConflicts(context.Background(), 5, 3, pattern, window)
	require.NoError(t, err)

	assert.Equal(t, DefaultSampleWeeks, store.calls)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "2024-01-08", conflicts[0].Date)
	assert.Equal(t, []models.ConflictType{models.ConflictRoom}, conflicts[0].ConflictTypes)
	assert.Equal(t, "2024-01-08 slot 2: room already booked", conflicts[0].Message)
	assert.Equal(t, "2024-01-29", conflicts[1].Date)
	assert.Equal(t, []models.ConflictType{models.ConflictLecturer}, conflicts[1].ConflictTypes)
	assert.Equal(t, 2, conflicts[1].Weekday)
}

func TestSampleConflictsAbortsOnOracleError(t *testing.T) {
	sampler := NewConflictSampler(NewAvailabilityService(&fakeLessonStore{err: errors.New("down")}, nil, nil), nil)
	window := SampleWindow{Start: mustDate(t, "2024-01-01"), End: mustDate(t, "2024-03-31"), Weeks: 2}

	conflicts, err := sampler.SampleConflicts(context.Background(), 5, 3, models.RecurrencePattern{Weekday: 3, SlotID: 1, RoomID: 1}, window)
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
	assert.Nil(t, conflicts)
}

func TestSampleGroupConcatenatesPatterns(t *testing.T) {
	store := &fakeLessonStore{lessons: []models.Lesson{
		{ClassID: 5, RoomID: 1, LecturerID: 1, SlotID: 1, Date: mustDate(t, "2024-01-02")},
		{ClassID: 7, RoomID: 2, LecturerID: 3, SlotID: 4, Date: mustDate(t, "2024-01-05")},
	}}
	sampler := NewConflictSampler(NewAvailabilityService(store, nil, nil), nil)
	group := models.SubmissionGroup{
		SemesterID: 1, ClassID: 5, LecturerID: 3,
		Patterns: []models.RecurrencePattern{
			{Weekday: 3, SlotID: 1, RoomID: 9},
			{Weekday: 6, SlotID: 4, RoomID: 2},
		},
	}
	window := SampleWindow{Start: mustDate(t, "2024-01-01"), End: mustDate(t, "2024-03-31"), Weeks: 1}

	conflicts, err := sampler.SampleGroup(context.Background(), group, window)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, []models.ConflictType{models.ConflictClass}, conflicts[0].ConflictTypes)
	assert.Equal(t, []models.ConflictType{models.ConflictRoom, models.ConflictLecturer}, conflicts[1].ConflictTypes)
}
