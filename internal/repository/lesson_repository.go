package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// LessonRepository persists dated lessons and answers occupancy questions about them.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs the repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CheckAvailability reports, in one aggregate read, which dimensions of the candidate lesson are
// already taken on the date and slot. Each flag is evaluated independently.
func (r *LessonRepository) CheckAvailability(ctx context.Context, date time.Time, slotID, classID, roomID, lecturerID int64) (models.ConflictVerdict, error) {
	const query = `SELECT
    COALESCE(BOOL_OR(class_id = $3), FALSE) AS is_class_busy,
    COALESCE(BOOL_OR(room_id = $4), FALSE) AS is_room_busy,
    COALESCE(BOOL_OR(lecturer_id = $5), FALSE) AS is_lecturer_busy
FROM lessons WHERE lesson_date = $1 AND slot_id = $2`
	var verdict models.ConflictVerdict
	if err := r.db.GetContext(ctx, &verdict, query, date.Format(models.DateLayout), slotID, classID, roomID, lecturerID); err != nil {
		return models.ConflictVerdict{}, fmt.Errorf("check lesson availability: %w", err)
	}
	return verdict, nil
}

// FindCollisions returns committed lessons on the given dates and slots that share the class,
// the lecturer or one of the rooms. Callers match rows against their exact candidates.
func (r *LessonRepository) FindCollisions(ctx context.Context, exec sqlx.ExtContext, q models.CollisionQuery) ([]models.LessonCollision, error) {
	if len(q.Dates) == 0 || len(q.SlotIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT id, class_id, room_id, lecturer_id, slot_id, to_char(lesson_date, 'YYYY-MM-DD') AS lesson_date
FROM lessons
WHERE lesson_date = ANY($1::date[]) AND slot_id = ANY($2)
AND (class_id = $3 OR lecturer_id = $4 OR room_id = ANY($5))
ORDER BY lesson_date ASC, slot_id ASC`
	var collisions []models.LessonCollision
	if err := sqlx.SelectContext(ctx, r.exec(exec), &collisions, query,
		pq.Array(q.Dates), pq.Array(q.SlotIDs), q.ClassID, q.LecturerID, pq.Array(q.RoomIDs)); err != nil {
		return nil, fmt.Errorf("find lesson collisions: %w", err)
	}
	return collisions, nil
}

// BulkCreateWithTx inserts lessons using an existing transaction.
func (r *LessonRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, lessons []models.Lesson) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.bulkInsertLessons(ctx, tx, lessons)
}

func (r *LessonRepository) bulkInsertLessons(ctx context.Context, exec sqlx.ExtContext, lessons []models.Lesson) error {
	const query = `INSERT INTO lessons (semester_id, class_id, subject_id, lecturer_id, room_id, slot_id, lesson_date, created_at)
VALUES (:semester_id, :class_id, :subject_id, :lecturer_id, :room_id, :slot_id, :lesson_date, :created_at)`
	now := time.Now().UTC()
	for i := range lessons {
		if lessons[i].CreatedAt.IsZero() {
			lessons[i].CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &lessons[i]); err != nil {
			return fmt.Errorf("bulk insert lesson: %w", err)
		}
	}
	return nil
}

const lessonDetailColumns = `l.id, l.semester_id, l.class_id, l.subject_id, l.lecturer_id, l.room_id, l.slot_id, l.lesson_date, l.created_at,
    c.name AS class_name, sb.code AS subject_code, rm.name AS room_name, lc.code AS lecturer_code, ts.start_time, ts.end_time`

const lessonDetailJoins = `FROM lessons l
JOIN classes c ON c.id = l.class_id
JOIN subjects sb ON sb.id = l.subject_id
JOIN rooms rm ON rm.id = l.room_id
JOIN lecturers lc ON lc.id = l.lecturer_id
JOIN time_slots ts ON ts.id = l.slot_id`

// List returns lessons matching the filter together with the total count.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.LessonDetail, int, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.SemesterID != 0 {
		conditions = append(conditions, fmt.Sprintf("l.semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.ClassID != 0 {
		conditions = append(conditions, fmt.Sprintf("l.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.LecturerID != 0 {
		conditions = append(conditions, fmt.Sprintf("l.lecturer_id = $%d", len(args)+1))
		args = append(args, filter.LecturerID)
	}
	if filter.RoomID != 0 {
		conditions = append(conditions, fmt.Sprintf("l.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("l.lesson_date >= $%d", len(args)+1))
		args = append(args, filter.From.Format(models.DateLayout))
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("l.lesson_date <= $%d", len(args)+1))
		args = append(args, filter.To.Format(models.DateLayout))
	}

	base := lessonDetailJoins
	if len(conditions) > 0 {
		base += " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY l.lesson_date ASC, ts.start_time ASC, l.id ASC LIMIT %d OFFSET %d", lessonDetailColumns, base, size, offset)
	var lessons []models.LessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}
	return lessons, total, nil
}

// ListForClass returns every lesson of a class in a semester, in timetable order.
func (r *LessonRepository) ListForClass(ctx context.Context, semesterID, classID int64) ([]models.LessonDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE l.semester_id = $1 AND l.class_id = $2 ORDER BY l.lesson_date ASC, ts.start_time ASC", lessonDetailColumns, lessonDetailJoins)
	var lessons []models.LessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query, semesterID, classID); err != nil {
		return nil, fmt.Errorf("list class lessons: %w", err)
	}
	return lessons, nil
}
