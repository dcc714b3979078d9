package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vietbevis/kma-training-support-sub000/internal/service"
	"github.com/vietbevis/kma-training-support-sub000/pkg/response"
)

// AvailabilityHandler room availability queries.
type AvailabilityHandler struct {
	svc service.AvailabilityService
}

func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// GetRoomAvailability occupancy of every room in a building for one
// (date, period) pair.
// GET /api/v1/buildings/:id/availability?date=2025-01-13&time_slot=1->3
func (h *AvailabilityHandler) GetRoomAvailability(c *gin.Context) {
	date := c.Query("date")
	timeSlot := c.Query("time_slot")
	if date == "" || timeSlot == "" {
		response.BadRequest(c, 10000, "date and time_slot query parameters are required")
		return
	}

	resp, err := h.svc.GetRoomAvailability(c.Request.Context(), c.Param("id"), date, timeSlot)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			response.BadRequest(c, 10000, err.Error())
		case errors.Is(err, service.ErrBuildingNotFound):
			response.NotFound(c, 40404, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}
