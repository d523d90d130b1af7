package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// ResourceRepository reads the bookable resources a lesson needs: rooms, lecturers and time slots.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository constructs a ResourceRepository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// ListRooms returns all rooms.
func (r *ResourceRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, `SELECT id, name FROM rooms ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListLecturers returns all lecturers.
func (r *ResourceRepository) ListLecturers(ctx context.Context) ([]models.Lecturer, error) {
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, `SELECT id, code, email, full_name FROM lecturers ORDER BY code ASC`); err != nil {
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	return lecturers, nil
}

// ListTimeSlots returns the daily periods ordered by start time.
func (r *ResourceRepository) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, `SELECT id, start_time, end_time FROM time_slots ORDER BY start_time ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}
