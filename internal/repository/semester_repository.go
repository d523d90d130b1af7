package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// SemesterRepository reads semesters and their holidays.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository instantiates a semester repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

func (r *SemesterRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns every semester, most recent first.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	const query = `SELECT id, name, start_date, end_date, created_at, updated_at FROM semesters ORDER BY start_date DESC`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindByID loads a semester. A missing row is returned as sql.ErrNoRows.
func (r *SemesterRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Semester, error) {
	const query = `SELECT id, name, start_date, end_date, created_at, updated_at FROM semesters WHERE id = $1`
	var semester models.Semester
	if err := sqlx.GetContext(ctx, r.exec(exec), &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// ListHolidays returns the holidays of a semester ordered by date.
func (r *SemesterRepository) ListHolidays(ctx context.Context, exec sqlx.ExtContext, semesterID int64) ([]models.Holiday, error) {
	const query = `SELECT id, semester_id, holiday_date, name FROM holidays WHERE semester_id = $1 ORDER BY holiday_date ASC`
	var holidays []models.Holiday
	if err := sqlx.SelectContext(ctx, r.exec(exec), &holidays, query, semesterID); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}
