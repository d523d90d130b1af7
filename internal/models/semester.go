package models

import "time"

// DateLayout is the canonical calendar-date representation used for holidays and lesson dates.
const DateLayout = "2006-01-02"

// Semester bounds the dates a recurrence pattern may expand into.
type Semester struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Holiday is a date inside a semester on which no lessons are generated.
type Holiday struct {
	ID         int64     `db:"id" json:"id"`
	SemesterID int64     `db:"semester_id" json:"semesterId"`
	Date       time.Time `db:"holiday_date" json:"date"`
	Name       string    `db:"name" json:"name"`
}
