package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type availabilityRepository interface {
	CheckAvailability(ctx context.Context, date time.Time, slotID, classID, roomID, lecturerID int64) (models.ConflictVerdict, error)
}

// AvailabilityService answers whether a candidate lesson's class, room and lecturer are free.
type AvailabilityService struct {
	repo    availabilityRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAvailabilityService constructs the availability oracle.
func NewAvailabilityService(repo availabilityRepository, metrics *MetricsService, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, metrics: metrics, logger: logger}
}

// CheckAvailability returns the verdict for the candidate. A failed read is returned as
// ErrUnavailable so it can never be mistaken for a free slot.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, date time.Time, slotID, classID, roomID, lecturerID int64) (models.ConflictVerdict, error) {
	start := time.Now()
	verdict, err := s.repo.CheckAvailability(ctx, date, slotID, classID, roomID, lecturerID)
	s.metrics.ObserveDBQuery("check_availability", time.Since(start))
	if err != nil {
		s.logger.Warn("availability check failed",
			zap.String("date", date.Format(models.DateLayout)),
			zap.Int64("slot_id", slotID),
			zap.Error(err))
		return models.ConflictVerdict{}, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}
	return verdict, nil
}
