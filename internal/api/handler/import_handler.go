package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietbevis/kma-training-support-sub000/config"
	"github.com/vietbevis/kma-training-support-sub000/internal/dto"
	"github.com/vietbevis/kma-training-support-sub000/internal/extract"
	"github.com/vietbevis/kma-training-support-sub000/internal/service"
	"github.com/vietbevis/kma-training-support-sub000/pkg/response"
)

// ImportHandler document upload endpoints.
type ImportHandler struct {
	svc    service.ImportService
	upload *config.UploadConfig
}

func NewImportHandler(svc service.ImportService, upload *config.UploadConfig) *ImportHandler {
	return &ImportHandler{svc: svc, upload: upload}
}

// ImportTimetable ingests a weekly timetable document.
// POST /api/v1/imports/timetable
// multipart/form-data: file + semester + academic_year_id
func (h *ImportHandler) ImportTimetable(c *gin.Context) {
	data, filename, ok := h.readUpload(c, append(h.upload.ExcelExtensions, h.upload.DocumentExtensions...))
	if !ok {
		return
	}

	req := dto.ImportTimetableRequest{
		Semester:       c.PostForm("semester"),
		AcademicYearID: c.PostForm("academic_year_id"),
	}

	summary, err := h.svc.ImportTimetable(c.Request.Context(), data, filename, req, operatorID(c))
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.Created(c, summary)
}

// ImportStandardHours ingests the semester standard-hours table.
// POST /api/v1/imports/standard-hours
func (h *ImportHandler) ImportStandardHours(c *gin.Context) {
	data, filename, ok := h.readUpload(c, append(h.upload.ExcelExtensions, h.upload.DocumentExtensions...))
	if !ok {
		return
	}

	req := dto.ImportStandardHoursRequest{
		Semester:       c.PostForm("semester"),
		AcademicYearID: c.PostForm("academic_year_id"),
	}

	summary, err := h.svc.ImportStandardHours(c.Request.Context(), data, filename, req, operatorID(c))
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.OK(c, summary)
}

// readUpload pulls the "file" part, checks the extension allow-list
// and reads the bytes. The BodyLimit middleware already caps the size.
func (h *ImportHandler) readUpload(c *gin.Context, allowed []string) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10000, "missing upload, expected multipart field \"file\"")
		return nil, "", false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	ok := false
	for _, a := range allowed {
		if ext == a {
			ok = true
			break
		}
	}
	if !ok {
		response.BadRequest(c, 30001, "unsupported file type "+ext)
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, 10000, "read upload: "+err.Error())
		return nil, "", false
	}
	return data, header.Filename, true
}

func handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		response.BadRequest(c, 30001, err.Error())
	case errors.Is(err, extract.ErrHeaderNotFound),
		errors.Is(err, service.ErrImportEmpty):
		response.UnprocessableEntity(c, 30002, err.Error())
	case errors.Is(err, extract.ErrUnreadable):
		response.UnprocessableEntity(c, 30003, err.Error())
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 20422, err.Error())
	default:
		response.InternalError(c)
	}
}
