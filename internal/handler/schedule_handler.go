package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
	"github.com/noah-isme/class-schedule-api/pkg/response"
)

type scheduleService interface {
	Check(ctx context.Context, req dto.CheckScheduleRequest) (*dto.CheckScheduleResponse, error)
	Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.CommitSummary, error)
	Availability(ctx context.Context, q dto.AvailabilityQuery) (models.ConflictVerdict, error)
}

type scheduleOptionsProvider interface {
	Options(ctx context.Context) (dto.ScheduleOptions, error)
	Invalidate(ctx context.Context, semesterID int64) error
}

// ScheduleHandler serves the interactive create-schedule flow.
type ScheduleHandler struct {
	schedules scheduleService
	options   scheduleOptionsProvider
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules scheduleService, options scheduleOptionsProvider) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, options: options}
}

// Options godoc
// @Summary Schedule form options
// @Description Semesters and the classes of each semester.
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /schedules/options [get]
func (h *ScheduleHandler) Options(c *gin.Context) {
	options, err := h.options.Options(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// Availability godoc
// @Summary Check one candidate lesson
// @Tags Schedules
// @Produce json
// @Param date query string true "Lesson date (YYYY-MM-DD)"
// @Param slotId query int true "Time slot"
// @Param classId query int true "Class"
// @Param roomId query int true "Room"
// @Param lecturerId query int true "Lecturer"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /schedules/availability [get]
func (h *ScheduleHandler) Availability(c *gin.Context) {
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	verdict, err := h.schedules.Availability(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, verdict, nil)
}

// Check godoc
// @Summary Pre-flight a submission group
// @Description Samples the first weeks of the semester; conflicts are advisory.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CheckScheduleRequest true "Submission group"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /schedules/check [post]
func (h *ScheduleHandler) Check(c *gin.Context) {
	var req dto.CheckScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.schedules.Check(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Commit submission groups
// @Description Each group is committed atomically; the summary reports every group.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleRequest true "Submission groups"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	summary, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// RefreshLookups godoc
// @Summary Drop cached lookup tables of a semester
// @Description Use after classes, rooms, lecturers or time slots of the semester change.
// @Tags Schedules
// @Param semesterId path int true "Semester"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /schedules/lookups/{semesterId}/refresh [post]
func (h *ScheduleHandler) RefreshLookups(c *gin.Context) {
	semesterID, err := strconv.ParseInt(c.Param("semesterId"), 10, 64)
	if err != nil || semesterID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semesterId must be a positive integer"))
		return
	}
	if err := h.options.Invalidate(c.Request.Context(), semesterID); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to drop cached lookup tables"))
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}
