// Package handler translates HTTP in and out of the service layer:
// binding, multipart handling and the error-to-business-code mapping.
package handler

import (
	"github.com/vietbevis/kma-training-support-sub000/config"
	"github.com/vietbevis/kma-training-support-sub000/internal/service"
)

// Handler aggregates every module handler.
type Handler struct {
	Import       *ImportHandler
	Schedule     *ScheduleHandler
	Availability *AvailabilityHandler
	Export       *ExportHandler
}

// NewHandler wires the aggregate.
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Import:       NewImportHandler(svc.Import, &cfg.Upload),
		Schedule:     NewScheduleHandler(svc.Schedule),
		Availability: NewAvailabilityHandler(svc.Availability),
		Export:       NewExportHandler(svc.Export),
	}
}
