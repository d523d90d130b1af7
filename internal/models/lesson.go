package models

import "time"

// Lesson is one dated occurrence of a class meeting.
type Lesson struct {
	ID         int64     `db:"id" json:"id"`
	SemesterID int64     `db:"semester_id" json:"semesterId"`
	ClassID    int64     `db:"class_id" json:"classId"`
	SubjectID  int64     `db:"subject_id" json:"subjectId"`
	LecturerID int64     `db:"lecturer_id" json:"lecturerId"`
	RoomID     int64     `db:"room_id" json:"roomId"`
	SlotID     int64     `db:"slot_id" json:"slotId"`
	Date       time.Time `db:"lesson_date" json:"date"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// LessonFilter describes query params for listing lessons.
type LessonFilter struct {
	SemesterID int64
	ClassID    int64
	LecturerID int64
	RoomID     int64
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// LessonDetail is a lesson joined with the human-facing names used by exports.
type LessonDetail struct {
	Lesson
	ClassName    string `db:"class_name" json:"className"`
	SubjectCode  string `db:"subject_code" json:"subjectCode"`
	RoomName     string `db:"room_name" json:"roomName"`
	LecturerCode string `db:"lecturer_code" json:"lecturerCode"`
	StartTime    string `db:"start_time" json:"startTime"`
	EndTime      string `db:"end_time" json:"endTime"`
}

// CollisionQuery narrows a collision lookup to the dates and slots a submission group would occupy.
type CollisionQuery struct {
	Dates      []string
	SlotIDs    []int64
	RoomIDs    []int64
	ClassID    int64
	LecturerID int64
}
