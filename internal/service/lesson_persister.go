package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/pkg/database"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type lessonWriter interface {
	FindCollisions(ctx context.Context, exec sqlx.ExtContext, q models.CollisionQuery) ([]models.LessonCollision, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, lessons []models.Lesson) error
}

type semesterReader interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Semester, error)
	ListHolidays(ctx context.Context, exec sqlx.ExtContext, semesterID int64) ([]models.Holiday, error)
}

type classReader interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Class, error)
}

// LessonPersister materialises one submission group into lessons inside a single serializable
// transaction. Either every lesson of the group is stored or none is.
type LessonPersister struct {
	tx        txProvider
	lessons   lessonWriter
	semesters semesterReader
	classes   classReader
	retries   int
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewLessonPersister constructs the persister. retries bounds how often a group is re-run after
// a serialization failure or deadlock.
func NewLessonPersister(tx txProvider, lessons lessonWriter, semesters semesterReader, classes classReader, retries int, metrics *MetricsService, logger *zap.Logger) *LessonPersister {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retries < 0 {
		retries = 0
	}
	return &LessonPersister{
		tx:        tx,
		lessons:   lessons,
		semesters: semesters,
		classes:   classes,
		retries:   retries,
		metrics:   metrics,
		logger:    logger,
	}
}

// Persist stores the group's lessons and returns how many were created. A collision with
// committed lessons, or between the group's own patterns, is returned as ErrConflict.
func (p *LessonPersister) Persist(ctx context.Context, group models.SubmissionGroup) (int, error) {
	if p.tx == nil {
		return 0, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	for attempt := 0; ; attempt++ {
		created, err := p.persistOnce(ctx, group)
		if err == nil || !database.IsRetryable(err) || attempt >= p.retries {
			return created, err
		}
		p.metrics.RecordCommitRetry()
		p.logger.Info("retrying schedule group after serialization failure",
			zap.Int64("class_id", group.ClassID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
}

func (p *LessonPersister) persistOnce(ctx context.Context, group models.SubmissionGroup) (created int, err error) {
	tx, err := p.tx.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	semester, err := p.semesters.FindByID(ctx, tx, group.SemesterID)
	if err != nil {
		err = notFoundOr(err, "semester not found", "failed to load semester")
		return 0, err
	}
	class, err := p.classes.FindByID(ctx, tx, group.ClassID)
	if err != nil {
		err = notFoundOr(err, "class not found", "failed to load class")
		return 0, err
	}
	if class.SemesterID != group.SemesterID {
		err = appErrors.Clone(appErrors.ErrValidation, "class does not belong to the semester")
		return 0, err
	}
	holidays, err := p.semesters.ListHolidays(ctx, tx, group.SemesterID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
		return 0, err
	}

	lessons, err := materialiseGroup(group, *semester, class.SubjectID, NewHolidaySet(holidays))
	if err != nil {
		return 0, err
	}
	if len(lessons) == 0 {
		if err = tx.Commit(); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
		}
		return 0, err
	}

	existing, err := p.lessons.FindCollisions(ctx, tx, collisionQuery(group, lessons))
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lesson collisions")
		return 0, err
	}
	if collisions := matchCollisions(group, lessons, existing); len(collisions) > 0 {
		err = conflictError(collisions)
		return 0, err
	}

	if err = p.lessons.BulkCreateWithTx(ctx, tx, lessons); err != nil {
		if database.IsUniqueViolation(err) {
			err = appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "a lesson was booked concurrently for the same date and slot")
			return 0, err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lessons")
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
		return 0, err
	}
	return len(lessons), nil
}

// materialiseGroup expands every pattern across the semester. Two patterns landing on the same
// date and slot would double-book the group's own class and lecturer, so they are rejected.
func materialiseGroup(group models.SubmissionGroup, semester models.Semester, subjectID int64, holidays HolidaySet) ([]models.Lesson, error) {
	type slotKey struct {
		date string
		slot int64
	}
	seen := make(map[slotKey]struct{})
	var lessons []models.Lesson
	for _, pattern := range group.Patterns {
		for _, date := range ExpandWeekday(pattern.Weekday, semester.StartDate, semester.EndDate, holidays) {
			key := slotKey{date: date.Format(models.DateLayout), slot: pattern.SlotID}
			if _, dup := seen[key]; dup {
				return nil, appErrors.Clone(appErrors.ErrConflict,
					fmt.Sprintf("patterns overlap on weekday %d slot %d", pattern.Weekday, pattern.SlotID))
			}
			seen[key] = struct{}{}
			lessons = append(lessons, models.Lesson{
				SemesterID: group.SemesterID,
				ClassID:    group.ClassID,
				SubjectID:  subjectID,
				LecturerID: group.LecturerID,
				RoomID:     pattern.RoomID,
				SlotID:     pattern.SlotID,
				Date:       date,
			})
		}
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Date.Before(lessons[j].Date)
	})
	return lessons, nil
}

func collisionQuery(group models.SubmissionGroup, lessons []models.Lesson) models.CollisionQuery {
	dates := make(map[string]struct{})
	slots := make(map[int64]struct{})
	rooms := make(map[int64]struct{})
	q := models.CollisionQuery{ClassID: group.ClassID, LecturerID: group.LecturerID}
	for _, lesson := range lessons {
		day := lesson.Date.Format(models.DateLayout)
		if _, ok := dates[day]; !ok {
			dates[day] = struct{}{}
			q.Dates = append(q.Dates, day)
		}
		if _, ok := slots[lesson.SlotID]; !ok {
			slots[lesson.SlotID] = struct{}{}
			q.SlotIDs = append(q.SlotIDs, lesson.SlotID)
		}
		if _, ok := rooms[lesson.RoomID]; !ok {
			rooms[lesson.RoomID] = struct{}{}
			q.RoomIDs = append(q.RoomIDs, lesson.RoomID)
		}
	}
	return q
}

// matchCollisions keeps the committed lessons that share a candidate's exact date and slot and
// occupy its class, lecturer or room.
func matchCollisions(group models.SubmissionGroup, lessons []models.Lesson, existing []models.LessonCollision) []models.LessonCollision {
	type slotKey struct {
		date string
		slot int64
	}
	candidateRoom := make(map[slotKey]int64, len(lessons))
	for _, lesson := range lessons {
		candidateRoom[slotKey{date: lesson.Date.Format(models.DateLayout), slot: lesson.SlotID}] = lesson.RoomID
	}

	var matched []models.LessonCollision
	for _, c := range existing {
		room, ok := candidateRoom[slotKey{date: c.Date, slot: c.SlotID}]
		if !ok {
			continue
		}
		switch {
		case c.ClassID == group.ClassID:
			c.Dimension = models.ConflictClass
		case c.RoomID == room:
			c.Dimension = models.ConflictRoom
		case c.LecturerID == group.LecturerID:
			c.Dimension = models.ConflictLecturer
		default:
			continue
		}
		matched = append(matched, c)
	}
	return matched
}

func conflictError(collisions []models.LessonCollision) error {
	first := collisions[0]
	message := fmt.Sprintf("schedule collides with %d committed lesson(s); first: %s",
		len(collisions), models.DescribeConflict(first.Date, first.SlotID, []models.ConflictType{first.Dimension}))
	detail := &models.ScheduleConflictError{Type: "COLLISION", Message: message, Collisions: collisions}
	return appErrors.Wrap(detail, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, message)
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}
