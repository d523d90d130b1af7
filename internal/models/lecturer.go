package models

// Lecturer is resolved on import by lecturer code or by the local part of the email.
type Lecturer struct {
	ID       int64  `db:"id" json:"id"`
	Code     string `db:"code" json:"code"`
	Email    string `db:"email" json:"email"`
	FullName string `db:"full_name" json:"fullName"`
}
