package models

// Class is a course section taught within one semester.
type Class struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	SemesterID int64  `db:"semester_id" json:"semesterId"`
	SubjectID  int64  `db:"subject_id" json:"subjectId"`
	IsActive   bool   `db:"is_active" json:"isActive"`
}
