package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

type classLessonsStub struct {
	lessons []models.LessonDetail
}

func (c classLessonsStub) ListForClass(context.Context, int64, int64) ([]models.LessonDetail, error) {
	return c.lessons, nil
}

func sampleLessonDetails(t *testing.T) []models.LessonDetail {
	return []models.LessonDetail{
		{
			Lesson:       models.Lesson{ClassID: 11, Date: mustDate(t, "2024-01-08")},
			ClassName:    "SE1801",
			SubjectCode:  "PRF192",
			LecturerCode: "JS01",
			RoomName:     "101",
			StartTime:    "07:30:00",
			EndTime:      "09:50:00",
		},
	}
}

func TestExportLessonsCSV(t *testing.T) {
	svc := NewExportService(classLessonsStub{lessons: sampleLessonDetails(t)}, nil, nil, nil, nil)

	file, err := svc.ExportLessons(context.Background(), dto.LessonExportQuery{SemesterID: 1, ClassID: 11})
	require.NoError(t, err)
	assert.Equal(t, "timetable-se1801-s1.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Weekday,Time,Class,Subject,Lecturer,Room", lines[0])
	assert.Equal(t, "2024-01-08,Monday,07:30-09:50,SE1801,PRF192,JS01,101", lines[1])
}

func TestExportLessonsPDF(t *testing.T) {
	svc := NewExportService(classLessonsStub{lessons: sampleLessonDetails(t)}, nil, nil, nil, nil)

	file, err := svc.ExportLessons(context.Background(), dto.LessonExportQuery{SemesterID: 1, ClassID: 11, Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportLessonsErrors(t *testing.T) {
	svc := NewExportService(classLessonsStub{}, nil, nil, nil, nil)

	_, err := svc.ExportLessons(context.Background(), dto.LessonExportQuery{SemesterID: 1, ClassID: 11})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.ExportLessons(context.Background(), dto.LessonExportQuery{SemesterID: 1, ClassID: 11, Format: "xlsx"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
