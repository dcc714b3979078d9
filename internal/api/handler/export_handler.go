package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietbevis/kma-training-support-sub000/internal/service"
	"github.com/vietbevis/kma-training-support-sub000/pkg/response"
)

// ExportHandler schedule export endpoints.
type ExportHandler struct {
	svc service.ExportService
}

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportSchedules streams the matching schedules as a workbook or an
// iCalendar feed.
// GET /api/v1/export/schedules?semester=&academic_year_id=&format=
func (h *ExportHandler) ExportSchedules(c *gin.Context) {
	buf, filename, err := h.svc.ExportSchedules(
		c.Request.Context(),
		c.Query("semester"),
		c.Query("academic_year_id"),
		c.Query("format"),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExportFormat):
			response.BadRequest(c, 10000, err.Error())
		case errors.Is(err, service.ErrExportEmpty):
			response.NotFound(c, 41404, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if strings.HasSuffix(filename, ".ics") {
		contentType = "text/calendar; charset=utf-8"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, contentType, buf.Bytes())
}
