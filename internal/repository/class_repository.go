package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// ClassRepository reads class sections.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListBySemester returns the classes of one semester ordered by name.
func (r *ClassRepository) ListBySemester(ctx context.Context, semesterID int64) ([]models.Class, error) {
	const query = `SELECT id, name, semester_id, subject_id, is_active FROM classes WHERE semester_id = $1 ORDER BY name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, semesterID); err != nil {
		return nil, fmt.Errorf("list classes by semester: %w", err)
	}
	return classes, nil
}

// ListActive returns active classes across all semesters.
func (r *ClassRepository) ListActive(ctx context.Context) ([]models.Class, error) {
	const query = `SELECT id, name, semester_id, subject_id, is_active FROM classes WHERE is_active = TRUE ORDER BY semester_id ASC, name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list active classes: %w", err)
	}
	return classes, nil
}

// FindByID loads a class. A missing row is returned as sql.ErrNoRows.
func (r *ClassRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Class, error) {
	const query = `SELECT id, name, semester_id, subject_id, is_active FROM classes WHERE id = $1`
	var class models.Class
	if err := sqlx.GetContext(ctx, r.exec(exec), &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}
