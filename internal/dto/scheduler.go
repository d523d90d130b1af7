package dto

import "github.com/noah-isme/class-schedule-api/internal/models"

// ImportRow is one raw spreadsheet row: Class | Subject | Lecturer | Slot | DayOfWeek | Room.
// Slot may hold a comma-separated list of slot numbers.
type ImportRow struct {
	RowNumber   int    `json:"rowNumber"`
	ClassName   string `json:"className"`
	SubjectCode string `json:"subjectCode"`
	LecturerRef string `json:"lecturer"`
	Slot        string `json:"slot"`
	DayOfWeek   string `json:"dayOfWeek"`
	RoomName    string `json:"room"`
}

// ValidateImportRequest asks for per-row verdicts on an import batch.
type ValidateImportRequest struct {
	SemesterID     int64       `json:"semesterId" form:"semesterId" validate:"required"`
	Rows           []ImportRow `json:"rows" validate:"required,min=1"`
	CheckConflicts bool        `json:"checkConflicts" form:"checkConflicts"`
}

// CommitImportRequest commits the valid rows of an import batch.
type CommitImportRequest struct {
	SemesterID int64       `json:"semesterId" validate:"required"`
	Rows       []ImportRow `json:"rows" validate:"required,min=1"`
}

// ImportReport carries one verdict per expanded row.
type ImportReport struct {
	SemesterID int64                 `json:"semesterId"`
	Total      int                   `json:"total"`
	Valid      int                   `json:"valid"`
	Invalid    int                   `json:"invalid"`
	Rows       []models.ValidatedRow `json:"rows"`
}

// CheckScheduleRequest pre-flights one submission group against committed lessons.
type CheckScheduleRequest struct {
	models.SubmissionGroup
	SampleWeeks int `json:"sampleWeeks" validate:"omitempty,min=1,max=52"`
}

// CheckScheduleResponse lists advisory conflicts found in the sampled weeks.
type CheckScheduleResponse struct {
	SampleWeeks int               `json:"sampleWeeks"`
	Conflicts   []models.Conflict `json:"conflicts"`
}

// CreateScheduleRequest commits one or more submission groups.
type CreateScheduleRequest struct {
	Groups []models.SubmissionGroup `json:"groups" validate:"required,min=1,dive"`
}

// Group commit outcomes.
const (
	GroupStatusCreated  = "CREATED"
	GroupStatusConflict = "CONFLICT"
	GroupStatusError    = "ERROR"
)

// GroupResult is the outcome of committing one submission group.
type GroupResult struct {
	SemesterID     int64                    `json:"semesterId"`
	ClassID        int64                    `json:"classId"`
	LecturerID     int64                    `json:"lecturerId"`
	Success        bool                     `json:"success"`
	Status         string                   `json:"status"`
	Message        string                   `json:"message"`
	LessonsCreated int                      `json:"lessonsCreated"`
	Collisions     []models.LessonCollision `json:"collisions,omitempty"`
}

// CommitSummary aggregates group outcomes; one failing group never hides the others.
type CommitSummary struct {
	BatchID     string        `json:"batchId"`
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Results     []GroupResult `json:"results"`
	SkippedRows []int         `json:"skippedRows,omitempty"`
}

// SemesterOption is a semester entry of the schedule options payload.
type SemesterOption struct {
	SemesterID int64  `json:"semesterId"`
	Name       string `json:"name"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// ClassOption is a class entry of the schedule options payload.
type ClassOption struct {
	ClassID   int64  `json:"classId"`
	ClassName string `json:"className"`
}

// ScheduleOptions feeds the create-schedule form.
type ScheduleOptions struct {
	Semesters         []SemesterOption        `json:"semesters"`
	ClassesBySemester map[int64][]ClassOption `json:"classesBySemester"`
}

// AvailabilityQuery is the candidate lesson checked by the availability endpoint.
type AvailabilityQuery struct {
	Date       string `form:"date" validate:"required,datetime=2006-01-02"`
	SlotID     int64  `form:"slotId" validate:"required"`
	ClassID    int64  `form:"classId" validate:"required"`
	RoomID     int64  `form:"roomId" validate:"required"`
	LecturerID int64  `form:"lecturerId" validate:"required"`
}

// LessonExportQuery selects the lessons rendered into a timetable file.
type LessonExportQuery struct {
	SemesterID int64  `form:"semesterId" validate:"required"`
	ClassID    int64  `form:"classId" validate:"required"`
	Format     string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
