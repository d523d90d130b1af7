package models

import "encoding/json"

// Import field names reported when a spreadsheet value cannot be resolved.
const (
	FieldClass     = "Class"
	FieldLecturer  = "Lecturer"
	FieldSlot      = "Slot"
	FieldRoom      = "Room"
	FieldDayOfWeek = "DayOfWeek"
)

// Resolution is the outcome of mapping a row's human identifiers to internal IDs.
// It is either Resolved or Unresolved.
type Resolution interface {
	resolution()
}

// Resolved carries every internal ID needed to commit the row.
type Resolved struct {
	ClassID    int64 `json:"classId"`
	SubjectID  int64 `json:"subjectId"`
	LecturerID int64 `json:"lecturerId"`
	SlotID     int64 `json:"slotId"`
	RoomID     int64 `json:"roomId"`
}

// Unresolved lists the fields that could not be mapped.
type Unresolved struct {
	MissingFields []string `json:"missingFields"`
}

func (Resolved) resolution() {}

func (Unresolved) resolution() {}

// ValidatedRow is one expanded spreadsheet row together with its verdict.
type ValidatedRow struct {
	RowNumber       int
	ClassName       string
	SubjectCode     string
	LecturerRef     string
	Weekday         int
	Slot            int
	RoomName        string
	Resolution      Resolution
	DuplicateInFile bool
	DaySlotConflict bool
	ValidMapping    bool
	Conflicts       []Conflict
}

// Resolved returns the resolved IDs when the row mapped completely.
func (r ValidatedRow) Resolved() (Resolved, bool) {
	res, ok := r.Resolution.(Resolved)
	return res, ok
}

// MissingFields returns the unresolved field names, if any.
func (r ValidatedRow) MissingFields() []string {
	if res, ok := r.Resolution.(Unresolved); ok {
		return res.MissingFields
	}
	return nil
}

// MarshalJSON flattens the resolution variant for API consumers.
func (r ValidatedRow) MarshalJSON() ([]byte, error) {
	type payload struct {
		RowNumber       int        `json:"rowNumber"`
		ClassName       string     `json:"className"`
		SubjectCode     string     `json:"subjectCode,omitempty"`
		LecturerRef     string     `json:"lecturerRef"`
		Weekday         int        `json:"weekday"`
		Slot            int        `json:"slot"`
		RoomName        string     `json:"roomName"`
		Resolved        *Resolved  `json:"resolved,omitempty"`
		MissingFields   []string   `json:"missingFields,omitempty"`
		DuplicateInFile bool       `json:"duplicateInFile"`
		DaySlotConflict bool       `json:"daySlotConflict"`
		ValidMapping    bool       `json:"validMapping"`
		Conflicts       []Conflict `json:"conflicts,omitempty"`
	}
	out := payload{
		RowNumber:       r.RowNumber,
		ClassName:       r.ClassName,
		SubjectCode:     r.SubjectCode,
		LecturerRef:     r.LecturerRef,
		Weekday:         r.Weekday,
		Slot:            r.Slot,
		RoomName:        r.RoomName,
		MissingFields:   r.MissingFields(),
		DuplicateInFile: r.DuplicateInFile,
		DaySlotConflict: r.DaySlotConflict,
		ValidMapping:    r.ValidMapping,
		Conflicts:       r.Conflicts,
	}
	if res, ok := r.Resolved(); ok {
		out.Resolved = &res
	}
	return json.Marshal(out)
}
