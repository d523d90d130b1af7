package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type staticLookups struct {
	tables models.LookupTables
	err    error
}

func (s staticLookups) Tables(context.Context, int64) (models.LookupTables, error) {
	return s.tables, s.err
}

type capturingCommitter struct {
	groups []models.SubmissionGroup
}

func (c *capturingCommitter) Commit(_ context.Context, groups []models.SubmissionGroup) dto.CommitSummary {
	c.groups = groups
	summary := dto.CommitSummary{BatchID: "batch-1", Total: len(groups)}
	for _, g := range groups {
		summary.Results = append(summary.Results, dto.GroupResult{ClassID: g.ClassID, Success: true, Status: dto.GroupStatusCreated})
		summary.Succeeded++
	}
	return summary
}

func importTables(t *testing.T) models.LookupTables {
	tables := resolverTables()
	tables.Semester = models.Semester{ID: 1, StartDate: mustDate(t, "2024-01-01"), EndDate: mustDate(t, "2024-03-31")}
	tables.Holidays = []models.Holiday{{SemesterID: 1, Date: mustDate(t, "2024-01-15")}}
	return tables
}

func newImportService(t *testing.T, store *fakeLessonStore, committer batchCommitter) *ScheduleImportService {
	sampler := NewConflictSampler(NewAvailabilityService(store, nil, nil), nil)
	return NewScheduleImportService(staticLookups{tables: importTables(t)}, sampler, committer, nil, nil,
		ImportOptions{Validator: ValidatorOptions{StrictDaySlot: true}, SampleWeeks: 4}, nil, nil)
}

func TestImportValidateReportsVerdictsAndConflicts(t *testing.T) {
	store := &fakeLessonStore{lessons: []models.Lesson{
		{ClassID: 99, RoomID: 101, LecturerID: 8, SlotID: 7, Date: mustDate(t, "2024-01-08")},
	}}
	svc := newImportService(t, store, &capturingCommitter{})

	report, err := svc.Validate(context.Background(), dto.ValidateImportRequest{
		SemesterID:     1,
		CheckConflicts: true,
		Rows: []dto.ImportRow{
			{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "1", DayOfWeek: "2", RoomName: "101"},
			{RowNumber: 3, ClassName: "SE1802", LecturerRef: "ghost", Slot: "3", DayOfWeek: "4", RoomName: "102"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Valid)
	assert.Equal(t, 1, report.Invalid)
	require.Len(t, report.Rows[0].Conflicts, 1)
	assert.Equal(t, "2024-01-08", report.Rows[0].Conflicts[0].Date)
	assert.True(t, report.Rows[0].ValidMapping)
	assert.Equal(t, []string{models.FieldLecturer}, report.Rows[1].MissingFields())
	assert.Empty(t, report.Rows[1].Conflicts)
}

func TestImportValidateWithoutConflictCheckSkipsOracle(t *testing.T) {
	store := &fakeLessonStore{}
	svc := newImportService(t, store, &capturingCommitter{})

	_, err := svc.Validate(context.Background(), dto.ValidateImportRequest{
		SemesterID: 1,
		Rows:       []dto.ImportRow{{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "1", DayOfWeek: "2", RoomName: "101"}},
	})
	require.NoError(t, err)
	assert.Zero(t, store.calls)
}

func TestImportValidateRejectsEmptyPayload(t *testing.T) {
	svc := newImportService(t, &fakeLessonStore{}, &capturingCommitter{})

	_, err := svc.Validate(context.Background(), dto.ValidateImportRequest{SemesterID: 1})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestImportValidatePropagatesLookupFailure(t *testing.T) {
	svc := NewScheduleImportService(staticLookups{err: appErrors.Clone(appErrors.ErrUnavailable, "lookup down")},
		nil, &capturingCommitter{}, nil, nil, ImportOptions{}, nil, nil)

	_, err := svc.Validate(context.Background(), dto.ValidateImportRequest{
		SemesterID: 1,
		Rows:       []dto.ImportRow{{RowNumber: 2}},
	})
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestImportCommitGroupsValidRowsByClassAndLecturer(t *testing.T) {
	committer := &capturingCommitter{}
	svc := newImportService(t, &fakeLessonStore{}, committer)

	summary, err := svc.Commit(context.Background(), dto.CommitImportRequest{
		SemesterID: 1,
		Rows: []dto.ImportRow{
			{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "1,3", DayOfWeek: "2", RoomName: "101"},
			{RowNumber: 3, ClassName: "SE1802", LecturerRef: "anguyen", Slot: "1", DayOfWeek: "4", RoomName: "102"},
			{RowNumber: 4, ClassName: "SE1801", LecturerRef: "JS01", Slot: "2", DayOfWeek: "5", RoomName: "Lab A"},
			{RowNumber: 5, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "4", DayOfWeek: "6", RoomName: "Nowhere"},
		},
	})
	require.NoError(t, err)
	require.Len(t, committer.groups, 2)

	first := committer.groups[0]
	assert.Equal(t, int64(11), first.ClassID)
	assert.Equal(t, int64(3), first.LecturerID)
	assert.Equal(t, int64(1), first.SemesterID)
	require.Len(t, first.Patterns, 3)
	assert.Equal(t, models.RecurrencePattern{Weekday: 2, SlotID: 7, RoomID: 101}, first.Patterns[0])
	assert.Equal(t, models.RecurrencePattern{Weekday: 2, SlotID: 9, RoomID: 101}, first.Patterns[1])
	assert.Equal(t, models.RecurrencePattern{Weekday: 5, SlotID: 41, RoomID: 210}, first.Patterns[2])

	assert.Equal(t, int64(12), committer.groups[1].ClassID)
	assert.Equal(t, []int{5}, summary.SkippedRows)
	assert.Equal(t, 2, summary.Succeeded)
}

func TestImportCommitWithNoValidRows(t *testing.T) {
	committer := &capturingCommitter{}
	svc := newImportService(t, &fakeLessonStore{}, committer)

	_, err := svc.Commit(context.Background(), dto.CommitImportRequest{
		SemesterID: 1,
		Rows: []dto.ImportRow{
			{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "1", DayOfWeek: "2", RoomName: "101"},
			{RowNumber: 3, ClassName: "SE1802", LecturerRef: "anguyen", Slot: "1", DayOfWeek: "2", RoomName: "102"},
		},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Nil(t, committer.groups)
}
