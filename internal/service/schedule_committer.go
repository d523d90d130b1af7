package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
	applog "github.com/noah-isme/class-schedule-api/pkg/logger"
)

type groupPersister interface {
	Persist(ctx context.Context, group models.SubmissionGroup) (int, error)
}

// ScheduleCommitter submits independent submission groups for persistence and summarises the
// outcome. A failing group never prevents the others from being committed.
type ScheduleCommitter struct {
	persister   groupPersister
	concurrency int
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewScheduleCommitter constructs the committer. concurrency bounds how many groups are in
// flight at once; values below one run groups sequentially.
func NewScheduleCommitter(persister groupPersister, concurrency int, metrics *MetricsService, logger *zap.Logger) *ScheduleCommitter {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleCommitter{persister: persister, concurrency: concurrency, metrics: metrics, logger: logger}
}

// Commit persists every group and returns one result per group in input order.
func (c *ScheduleCommitter) Commit(ctx context.Context, groups []models.SubmissionGroup) dto.CommitSummary {
	summary := dto.CommitSummary{
		BatchID: uuid.NewString(),
		Total:   len(groups),
		Results: make([]dto.GroupResult, len(groups)),
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i := range groups {
		i := i
		g.Go(func() error {
			summary.Results[i] = c.commitGroup(ctx, groups[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range summary.Results {
		if result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	applog.WithContext(ctx, c.logger).Info("schedule commit finished",
		zap.String("batch_id", summary.BatchID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return summary
}

func (c *ScheduleCommitter) commitGroup(ctx context.Context, group models.SubmissionGroup) dto.GroupResult {
	result := dto.GroupResult{
		SemesterID: group.SemesterID,
		ClassID:    group.ClassID,
		LecturerID: group.LecturerID,
	}
	if err := ctx.Err(); err != nil {
		result.Status = dto.GroupStatusError
		result.Message = "commit cancelled"
		c.metrics.RecordGroupCommit(result.Status, 0)
		return result
	}

	created, err := c.persister.Persist(ctx, group)
	switch {
	case err == nil:
		result.Success = true
		result.Status = dto.GroupStatusCreated
		result.LessonsCreated = created
		result.Message = "schedule created"
	case errors.Is(err, appErrors.ErrConflict):
		result.Status = dto.GroupStatusConflict
		result.Message = appErrors.FromError(err).Message
		var conflict *models.ScheduleConflictError
		if errors.As(err, &conflict) {
			result.Collisions = conflict.Collisions
		}
	default:
		result.Status = dto.GroupStatusError
		result.Message = appErrors.FromError(err).Message
		applog.WithContext(ctx, c.logger).Warn("schedule group commit failed",
			zap.Int64("semester_id", group.SemesterID),
			zap.Int64("class_id", group.ClassID),
			zap.Error(err))
	}
	c.metrics.RecordGroupCommit(result.Status, result.LessonsCreated)
	return result
}
