package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type lessonLister interface {
	List(ctx context.Context, filter models.LessonFilter) ([]models.LessonDetail, int, error)
}

type groupSampler interface {
	SampleGroup(ctx context.Context, group models.SubmissionGroup, window SampleWindow) ([]models.Conflict, error)
}

// ScheduleService drives the interactive create-schedule flow.
type ScheduleService struct {
	lookups     lookupProvider
	sampler     groupSampler
	committer   batchCommitter
	lessons     lessonLister
	oracle      availabilityOracle
	validator   *validator.Validate
	sampleWeeks int
	location    *time.Location
	logger      *zap.Logger
}

// ScheduleServiceDeps bundles the collaborators of ScheduleService.
type ScheduleServiceDeps struct {
	Lookups     lookupProvider
	Sampler     groupSampler
	Committer   batchCommitter
	Lessons     lessonLister
	Oracle      availabilityOracle
	Validator   *validator.Validate
	SampleWeeks int
	Location    *time.Location
	Logger      *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(deps ScheduleServiceDeps) *ScheduleService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.SampleWeeks <= 0 {
		deps.SampleWeeks = DefaultSampleWeeks
	}
	return &ScheduleService{
		lookups:     deps.Lookups,
		sampler:     deps.Sampler,
		committer:   deps.Committer,
		lessons:     deps.Lessons,
		oracle:      deps.Oracle,
		validator:   deps.Validator,
		sampleWeeks: deps.SampleWeeks,
		location:    deps.Location,
		logger:      deps.Logger,
	}
}

// Check pre-flights a submission group over its first sample weeks. The result is advisory.
func (s *ScheduleService) Check(ctx context.Context, req dto.CheckScheduleRequest) (*dto.CheckScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	tables, err := s.lookups.Tables(ctx, req.SemesterID)
	if err != nil {
		return nil, err
	}
	if !classInTables(tables, req.ClassID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class does not belong to the semester")
	}

	weeks := req.SampleWeeks
	if weeks <= 0 {
		weeks = s.sampleWeeks
	}
	conflicts, err := s.sampler.SampleGroup(ctx, req.SubmissionGroup, SampleWindow{
		Start:    tables.Semester.StartDate,
		End:      tables.Semester.EndDate,
		Holidays: NewHolidaySet(tables.Holidays),
		Weeks:    weeks,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CheckScheduleResponse{SampleWeeks: weeks, Conflicts: conflicts}, nil
}

// Create commits one or more submission groups. Per-group failures are reported in the summary.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.CommitSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	summary := s.committer.Commit(ctx, req.Groups)
	return &summary, nil
}

// ListLessons returns committed lessons with pagination metadata.
func (s *ScheduleService) ListLessons(ctx context.Context, filter models.LessonFilter) ([]models.LessonDetail, *models.Pagination, error) {
	lessons, total, err := s.lessons.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return lessons, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Availability checks one candidate lesson.
func (s *ScheduleService) Availability(ctx context.Context, q dto.AvailabilityQuery) (models.ConflictVerdict, error) {
	if err := s.validator.Struct(q); err != nil {
		return models.ConflictVerdict{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query")
	}
	date, err := time.ParseInLocation(models.DateLayout, q.Date, s.location)
	if err != nil {
		return models.ConflictVerdict{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	return s.oracle.CheckAvailability(ctx, date, q.SlotID, q.ClassID, q.RoomID, q.LecturerID)
}

func classInTables(tables models.LookupTables, classID int64) bool {
	for _, class := range tables.Classes {
		if class.ID == classID {
			return true
		}
	}
	return false
}
