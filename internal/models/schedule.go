package models

import (
	"fmt"
	"strings"
)

// Weekday bounds for the 2=Monday … 8=Sunday encoding used by imports and patterns.
const (
	WeekdayMonday = 2
	WeekdaySunday = 8
)

// RecurrencePattern is a weekly rule that has not been materialised into lessons yet.
type RecurrencePattern struct {
	Weekday int   `json:"weekday" validate:"min=2,max=8"`
	SlotID  int64 `json:"slotId" validate:"required"`
	RoomID  int64 `json:"roomId" validate:"required"`
}

// SubmissionGroup binds patterns to the class, semester and lecturer they are committed for.
type SubmissionGroup struct {
	SemesterID int64               `json:"semesterId" validate:"required"`
	ClassID    int64               `json:"classId" validate:"required"`
	LecturerID int64               `json:"lecturerId" validate:"required"`
	Patterns   []RecurrencePattern `json:"patterns" validate:"required,min=1,dive"`
}

// ConflictVerdict reports which dimensions of a candidate lesson are already occupied.
type ConflictVerdict struct {
	IsClassBusy    bool `db:"is_class_busy" json:"isClassBusy"`
	IsRoomBusy     bool `db:"is_room_busy" json:"isRoomBusy"`
	IsLecturerBusy bool `db:"is_lecturer_busy" json:"isLecturerBusy"`
}

// Busy is true when at least one dimension is occupied.
func (v ConflictVerdict) Busy() bool {
	return v.IsClassBusy || v.IsRoomBusy || v.IsLecturerBusy
}

// Types lists the occupied dimensions in a stable order.
func (v ConflictVerdict) Types() []ConflictType {
	var types []ConflictType
	if v.IsClassBusy {
		types = append(types, ConflictClass)
	}
	if v.IsRoomBusy {
		types = append(types, ConflictRoom)
	}
	if v.IsLecturerBusy {
		types = append(types, ConflictLecturer)
	}
	return types
}

// ConflictType names a double-booked dimension.
type ConflictType string

const (
	ConflictClass    ConflictType = "CLASS"
	ConflictRoom     ConflictType = "ROOM"
	ConflictLecturer ConflictType = "LECTURER"
)

// Conflict is one sampled date on which a pattern collides with committed lessons.
type Conflict struct {
	Date          string         `json:"date"`
	Weekday       int            `json:"weekday"`
	SlotID        int64          `json:"slotId"`
	RoomID        int64          `json:"roomId"`
	ConflictTypes []ConflictType `json:"conflictTypes"`
	Message       string         `json:"message"`
}

// DescribeConflict renders the message shown to the operator for a sampled collision.
func DescribeConflict(date string, slotID int64, types []ConflictType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, strings.ToLower(string(t)))
	}
	return fmt.Sprintf("%s slot %d: %s already booked", date, slotID, strings.Join(names, ", "))
}

// LessonCollision describes a committed lesson that blocks a new one.
type LessonCollision struct {
	LessonID   int64        `db:"id" json:"lessonId"`
	ClassID    int64        `db:"class_id" json:"classId"`
	RoomID     int64        `db:"room_id" json:"roomId"`
	LecturerID int64        `db:"lecturer_id" json:"lecturerId"`
	SlotID     int64        `db:"slot_id" json:"slotId"`
	Date       string       `db:"lesson_date" json:"date"`
	Dimension  ConflictType `db:"-" json:"dimension"`
}

// ScheduleConflictError is returned when a submission collides with committed lessons.
type ScheduleConflictError struct {
	Type       string            `json:"type"`
	Message    string            `json:"message"`
	Collisions []LessonCollision `json:"collisions,omitempty"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
