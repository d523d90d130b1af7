package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	"github.com/noah-isme/class-schedule-api/internal/service"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
	"github.com/noah-isme/class-schedule-api/pkg/response"
)

type lessonLister interface {
	ListLessons(ctx context.Context, filter models.LessonFilter) ([]models.LessonDetail, *models.Pagination, error)
}

type lessonExporter interface {
	ExportLessons(ctx context.Context, q dto.LessonExportQuery) (*service.ExportFile, error)
}

// LessonHandler exposes committed lessons.
type LessonHandler struct {
	lessons  lessonLister
	exporter lessonExporter
	location *time.Location
}

// NewLessonHandler constructs handler. Date filters are read in loc.
func NewLessonHandler(lessons lessonLister, exporter lessonExporter, loc *time.Location) *LessonHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LessonHandler{lessons: lessons, exporter: exporter, location: loc}
}

// List godoc
// @Summary List committed lessons
// @Tags Lessons
// @Produce json
// @Param semesterId query int false "Semester"
// @Param classId query int false "Class"
// @Param lecturerId query int false "Lecturer"
// @Param roomId query int false "Room"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, pagination, err := h.lessons.ListLessons(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, pagination)
}

// Export godoc
// @Summary Export a class timetable
// @Tags Lessons
// @Produce text/csv
// @Produce application/pdf
// @Param semesterId query int true "Semester"
// @Param classId query int true "Class"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/export [get]
func (h *LessonHandler) Export(c *gin.Context) {
	var query dto.LessonExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	file, err := h.exporter.ExportLessons(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func (h *LessonHandler) parseFilter(c *gin.Context) (models.LessonFilter, error) {
	var filter models.LessonFilter
	ids := map[string]*int64{
		"semesterId": &filter.SemesterID,
		"classId":    &filter.ClassID,
		"lecturerId": &filter.LecturerID,
		"roomId":     &filter.RoomID,
	}
	for name, target := range ids {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
		}
		*target = value
	}

	dates := map[string]**time.Time{"from": &filter.From, "to": &filter.To}
	for name, target := range dates {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		value, err := time.ParseInLocation(models.DateLayout, raw, h.location)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, name+" must be a YYYY-MM-DD date")
		}
		*target = &value
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("pageSize", "50")); err == nil {
		filter.PageSize = size
	}
	return filter, nil
}
