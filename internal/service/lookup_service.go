package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type semesterCatalog interface {
	List(ctx context.Context) ([]models.Semester, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Semester, error)
	ListHolidays(ctx context.Context, exec sqlx.ExtContext, semesterID int64) ([]models.Holiday, error)
}

type classCatalog interface {
	ListBySemester(ctx context.Context, semesterID int64) ([]models.Class, error)
	ListActive(ctx context.Context) ([]models.Class, error)
}

type resourceCatalog interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListLecturers(ctx context.Context) ([]models.Lecturer, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
}

// LookupService loads the reference tables identifiers are resolved against.
type LookupService struct {
	semesters semesterCatalog
	classes   classCatalog
	resources resourceCatalog
	cache     *CacheService
	ttl       time.Duration
	logger    *zap.Logger
}

// NewLookupService constructs the lookup service. cache may be nil.
func NewLookupService(semesters semesterCatalog, classes classCatalog, resources resourceCatalog, cache *CacheService, ttl time.Duration, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{semesters: semesters, classes: classes, resources: resources, cache: cache, ttl: ttl, logger: logger}
}

func lookupCacheKey(semesterID int64) string {
	return fmt.Sprintf("lookup:semester:%d", semesterID)
}

// Tables returns the semester's lookup tables, from cache when possible.
func (s *LookupService) Tables(ctx context.Context, semesterID int64) (models.LookupTables, error) {
	key := lookupCacheKey(semesterID)
	var cached models.LookupTables
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	tables, err := s.loadTables(ctx, semesterID)
	if err != nil {
		return models.LookupTables{}, err
	}
	if err := s.cache.Set(ctx, key, tables, s.ttl); err != nil {
		s.logger.Warn("lookup tables not cached", zap.Int64("semester_id", semesterID), zap.Error(err))
	}
	return tables, nil
}

// Invalidate drops the cached tables of a semester.
func (s *LookupService) Invalidate(ctx context.Context, semesterID int64) error {
	return s.cache.Invalidate(ctx, lookupCacheKey(semesterID))
}

func (s *LookupService) loadTables(ctx context.Context, semesterID int64) (models.LookupTables, error) {
	semester, err := s.semesters.FindByID(ctx, nil, semesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LookupTables{}, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return models.LookupTables{}, unavailable(err, "failed to load semester")
	}
	tables := models.LookupTables{Semester: *semester}
	if tables.Holidays, err = s.semesters.ListHolidays(ctx, nil, semesterID); err != nil {
		return models.LookupTables{}, unavailable(err, "failed to load holidays")
	}
	if tables.Classes, err = s.classes.ListBySemester(ctx, semesterID); err != nil {
		return models.LookupTables{}, unavailable(err, "failed to load classes")
	}
	if tables.Rooms, err = s.resources.ListRooms(ctx); err != nil {
		return models.LookupTables{}, unavailable(err, "failed to load rooms")
	}
	if tables.Lecturers, err = s.resources.ListLecturers(ctx); err != nil {
		return models.LookupTables{}, unavailable(err, "failed to load lecturers")
	}
	if tables.TimeSlots, err = s.resources.ListTimeSlots(ctx); err != nil {
		return models.LookupTables{}, unavailable(err, "failed to load time slots")
	}
	return tables, nil
}

// Options returns the semesters and their active classes for the create-schedule form.
func (s *LookupService) Options(ctx context.Context) (dto.ScheduleOptions, error) {
	semesters, err := s.semesters.List(ctx)
	if err != nil {
		return dto.ScheduleOptions{}, unavailable(err, "failed to load semesters")
	}
	classes, err := s.classes.ListActive(ctx)
	if err != nil {
		return dto.ScheduleOptions{}, unavailable(err, "failed to load classes")
	}

	options := dto.ScheduleOptions{
		Semesters:         make([]dto.SemesterOption, 0, len(semesters)),
		ClassesBySemester: make(map[int64][]dto.ClassOption, len(semesters)),
	}
	for _, semester := range semesters {
		options.Semesters = append(options.Semesters, dto.SemesterOption{
			SemesterID: semester.ID,
			Name:       semester.Name,
			StartDate:  semester.StartDate.Format(models.DateLayout),
			EndDate:    semester.EndDate.Format(models.DateLayout),
		})
		options.ClassesBySemester[semester.ID] = []dto.ClassOption{}
	}
	for _, class := range classes {
		options.ClassesBySemester[class.SemesterID] = append(options.ClassesBySemester[class.SemesterID],
			dto.ClassOption{ClassID: class.ID, ClassName: class.Name})
	}
	return options, nil
}

func unavailable(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, message)
}
