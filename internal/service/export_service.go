package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
	"github.com/noah-isme/class-schedule-api/pkg/export"
)

type classLessonRepository interface {
	ListForClass(ctx context.Context, semesterID, classID int64) ([]models.LessonDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered timetable ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the committed timetable of a class.
type ExportService struct {
	lessons   classLessonRepository
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(lessons classLessonRepository, csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{lessons: lessons, csv: csv, pdf: pdf, validator: validate, logger: logger}
}

var timetableHeaders = []string{"Date", "Weekday", "Time", "Class", "Subject", "Lecturer", "Room"}

// ExportLessons renders every lesson of the class in the semester as CSV (default) or PDF.
func (s *ExportService) ExportLessons(ctx context.Context, q dto.LessonExportQuery) (*ExportFile, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}
	lessons, err := s.lessons.ListForClass(ctx, q.SemesterID, q.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lessons")
	}
	if len(lessons) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no lessons scheduled for this class")
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("%s timetable", lessons[0].ClassName),
		Headers: timetableHeaders,
		Rows:    make([][]string, 0, len(lessons)),
	}
	for _, lesson := range lessons {
		dataset.Rows = append(dataset.Rows, []string{
			lesson.Date.Format(models.DateLayout),
			lesson.Date.Weekday().String(),
			fmt.Sprintf("%s-%s", clockLabel(lesson.StartTime), clockLabel(lesson.EndTime)),
			lesson.ClassName,
			lesson.SubjectCode,
			lesson.LecturerCode,
			lesson.RoomName,
		})
	}

	base := fmt.Sprintf("timetable-%s-s%d", strings.ToLower(strings.ReplaceAll(lessons[0].ClassName, " ", "_")), q.SemesterID)
	var file ExportFile
	switch q.Format {
	case "pdf":
		payload, err := s.pdf.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		file = ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Payload: payload}
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		file = ExportFile{Filename: base + ".csv", ContentType: "text/csv", Payload: payload}
	}
	s.logger.Debug("timetable exported", zap.Int64("class_id", q.ClassID), zap.Int("lessons", len(lessons)), zap.String("file", file.Filename))
	return &file, nil
}

// clockLabel trims seconds from "HH:MM:SS".
func clockLabel(raw string) string {
	if parts := strings.Split(raw, ":"); len(parts) == 3 {
		return parts[0] + ":" + parts[1]
	}
	return raw
}
