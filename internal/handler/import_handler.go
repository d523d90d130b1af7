package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
	"github.com/noah-isme/class-schedule-api/pkg/response"
)

type scheduleImporter interface {
	ParseFile(reader io.Reader) ([]dto.ImportRow, error)
	Validate(ctx context.Context, req dto.ValidateImportRequest) (*dto.ImportReport, error)
	Commit(ctx context.Context, req dto.CommitImportRequest) (*dto.CommitSummary, error)
}

// ImportHandler serves spreadsheet schedule imports.
type ImportHandler struct {
	importer scheduleImporter
}

// NewImportHandler constructs handler.
func NewImportHandler(importer scheduleImporter) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// Validate godoc
// @Summary Validate an import batch
// @Description Accepts an .xlsx upload (field "file") or JSON rows and returns one verdict per expanded row.
// @Tags Schedule Import
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "Workbook"
// @Param semesterId formData int false "Semester"
// @Param checkConflicts formData bool false "Sample committed lessons for valid rows"
// @Param payload body dto.ValidateImportRequest false "Rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/import/validate [post]
func (h *ImportHandler) Validate(c *gin.Context) {
	req, err := h.bindValidateRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.importer.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Commit godoc
// @Summary Commit an import batch
// @Description Re-validates the rows and commits the valid ones grouped by class and lecturer.
// @Tags Schedule Import
// @Accept json
// @Produce json
// @Param payload body dto.CommitImportRequest true "Rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/import/commit [post]
func (h *ImportHandler) Commit(c *gin.Context) {
	var req dto.CommitImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	summary, err := h.importer.Commit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func (h *ImportHandler) bindValidateRequest(c *gin.Context) (dto.ValidateImportRequest, error) {
	var req dto.ValidateImportRequest
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
		}
		return req, nil
	}

	semesterID, err := strconv.ParseInt(c.PostForm("semesterId"), 10, 64)
	if err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "semesterId is required")
	}
	req.SemesterID = semesterID
	if raw := c.PostForm("checkConflicts"); raw != "" {
		check, err := strconv.ParseBool(raw)
		if err != nil {
			return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "checkConflicts must be a boolean")
		}
		req.CheckConflicts = check
	}

	header, err := c.FormFile("file")
	if err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required")
	}
	file, err := header.Open()
	if err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read upload")
	}
	defer file.Close()

	rows, err := h.importer.ParseFile(file)
	if err != nil {
		return req, err
	}
	req.Rows = rows
	return req, nil
}
