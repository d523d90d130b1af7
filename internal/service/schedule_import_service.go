package service

import (
	"context"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
	applog "github.com/noah-isme/class-schedule-api/pkg/logger"
)

type lookupProvider interface {
	Tables(ctx context.Context, semesterID int64) (models.LookupTables, error)
}

type patternSampler interface {
	SampleConflicts(ctx context.Context, classID, lecturerID int64, pattern models.RecurrencePattern, window SampleWindow) ([]models.Conflict, error)
}

type batchCommitter interface {
	Commit(ctx context.Context, groups []models.SubmissionGroup) dto.CommitSummary
}

// ImportOptions configures the spreadsheet import flow.
type ImportOptions struct {
	Validator   ValidatorOptions
	SampleWeeks int
}

// ScheduleImportService validates and commits spreadsheet schedule imports.
type ScheduleImportService struct {
	lookups   lookupProvider
	sampler   patternSampler
	committer batchCommitter
	parser    *SpreadsheetParser
	validator *validator.Validate
	opts      ImportOptions
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewScheduleImportService wires the import flow.
func NewScheduleImportService(lookups lookupProvider, sampler patternSampler, committer batchCommitter, parser *SpreadsheetParser, validate *validator.Validate, opts ImportOptions, metrics *MetricsService, logger *zap.Logger) *ScheduleImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if parser == nil {
		parser = NewSpreadsheetParser(0)
	}
	return &ScheduleImportService{
		lookups:   lookups,
		sampler:   sampler,
		committer: committer,
		parser:    parser,
		validator: validate,
		opts:      opts,
		metrics:   metrics,
		logger:    logger,
	}
}

// ParseFile reads import rows from an uploaded workbook.
func (s *ScheduleImportService) ParseFile(reader io.Reader) ([]dto.ImportRow, error) {
	return s.parser.Parse(reader)
}

// Validate annotates every expanded row with its verdict. With CheckConflicts set, valid rows
// are also sampled against committed lessons; those conflicts are advisory and do not change
// the verdict.
func (s *ScheduleImportService) Validate(ctx context.Context, req dto.ValidateImportRequest) (*dto.ImportReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}
	tables, err := s.lookups.Tables(ctx, req.SemesterID)
	if err != nil {
		return nil, err
	}

	rows := ValidateBatch(req.Rows, NewIdentifierResolver(tables), s.opts.Validator)
	if req.CheckConflicts {
		window := SampleWindow{
			Start:    tables.Semester.StartDate,
			End:      tables.Semester.EndDate,
			Holidays: NewHolidaySet(tables.Holidays),
			Weeks:    s.opts.SampleWeeks,
		}
		for i := range rows {
			resolved, ok := rows[i].Resolved()
			if !rows[i].ValidMapping || !ok {
				continue
			}
			pattern := models.RecurrencePattern{Weekday: rows[i].Weekday, SlotID: resolved.SlotID, RoomID: resolved.RoomID}
			conflicts, err := s.sampler.SampleConflicts(ctx, resolved.ClassID, resolved.LecturerID, pattern, window)
			if err != nil {
				return nil, err
			}
			rows[i].Conflicts = conflicts
		}
	}

	valid := CountValid(rows)
	s.metrics.RecordImportRows(valid, len(rows)-valid)
	return &dto.ImportReport{
		SemesterID: req.SemesterID,
		Total:      len(rows),
		Valid:      valid,
		Invalid:    len(rows) - valid,
		Rows:       rows,
	}, nil
}

// Commit re-validates the rows, drops invalid ones and commits the rest grouped by class and
// lecturer.
func (s *ScheduleImportService) Commit(ctx context.Context, req dto.CommitImportRequest) (*dto.CommitSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}
	tables, err := s.lookups.Tables(ctx, req.SemesterID)
	if err != nil {
		return nil, err
	}

	rows := ValidateBatch(req.Rows, NewIdentifierResolver(tables), s.opts.Validator)
	groups, skipped := GroupValidRows(req.SemesterID, rows)
	if len(groups) == 0 {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "no valid rows to commit"), rows)
	}

	summary := s.committer.Commit(ctx, groups)
	summary.SkippedRows = skipped
	applog.WithContext(ctx, s.logger).Info("schedule import committed",
		zap.String("batch_id", summary.BatchID),
		zap.Int64("semester_id", req.SemesterID),
		zap.Int("groups", summary.Total),
		zap.Int("skipped_rows", len(skipped)))
	return &summary, nil
}

// GroupValidRows folds valid rows into submission groups keyed by class and lecturer, in order
// of first appearance. It also returns the sorted, distinct row numbers that were left out.
func GroupValidRows(semesterID int64, rows []models.ValidatedRow) ([]models.SubmissionGroup, []int) {
	type groupKey struct {
		class    int64
		lecturer int64
	}
	index := make(map[groupKey]int)
	var groups []models.SubmissionGroup
	skippedSet := make(map[int]struct{})

	for _, row := range rows {
		resolved, ok := row.Resolved()
		if !row.ValidMapping || !ok {
			skippedSet[row.RowNumber] = struct{}{}
			continue
		}
		key := groupKey{class: resolved.ClassID, lecturer: resolved.LecturerID}
		pos, exists := index[key]
		if !exists {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, models.SubmissionGroup{
				SemesterID: semesterID,
				ClassID:    resolved.ClassID,
				LecturerID: resolved.LecturerID,
			})
		}
		groups[pos].Patterns = append(groups[pos].Patterns, models.RecurrencePattern{
			Weekday: row.Weekday,
			SlotID:  resolved.SlotID,
			RoomID:  resolved.RoomID,
		})
	}

	skipped := make([]int, 0, len(skippedSet))
	for n := range skippedSet {
		skipped = append(skipped, n)
	}
	sort.Ints(skipped)
	return groups, skipped
}
