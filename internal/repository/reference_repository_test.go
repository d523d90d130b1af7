package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemesterRepositoryFindByIDAndHolidays(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM semesters WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_date", "end_date", "created_at", "updated_at"}).
			AddRow(int64(1), "Spring 2024", start, end, start, start))
	mock.ExpectQuery(regexp.QuoteMeta("FROM holidays WHERE semester_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "semester_id", "holiday_date", "name"}).
			AddRow(int64(4), int64(1), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Founders day"))

	semester, err := repo.FindByID(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "Spring 2024", semester.Name)
	assert.True(t, semester.EndDate.Equal(end))

	holidays, err := repo.ListHolidays(context.Background(), nil, 1)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "2024-01-15", holidays[0].Date.Format("2006-01-02"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectQuery("FROM semesters").WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), nil, 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClassRepositoryListBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE semester_id = $1 ORDER BY name ASC")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "semester_id", "subject_id", "is_active"}).
			AddRow(int64(11), "SE1801", int64(1), int64(501), true).
			AddRow(int64(12), "SE1802", int64(1), int64(502), false))

	classes, err := repo.ListBySemester(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, int64(501), classes[0].SubjectID)
	assert.False(t, classes[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepositoryLists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResourceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM rooms")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(101), "101"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, email, full_name FROM lecturers")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "email", "full_name"}).AddRow(int64(3), "JS01", "jsmith@fpt.edu.vn", "John Smith"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, start_time, end_time FROM time_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_time", "end_time"}).AddRow(int64(7), "07:30:00", "09:50:00"))

	rooms, err := repo.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	lecturers, err := repo.ListLecturers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jsmith@fpt.edu.vn", lecturers[0].Email)
	slots, err := repo.ListTimeSlots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "07:30:00", slots[0].StartTime)
	assert.Zero(t, slots[0].Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}
