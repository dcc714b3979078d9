package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietbevis/kma-training-support-sub000/internal/dto"
	"github.com/vietbevis/kma-training-support-sub000/internal/model"
	"github.com/vietbevis/kma-training-support-sub000/internal/service"
	"github.com/vietbevis/kma-training-support-sub000/pkg/response"
)

// ScheduleHandler schedule CRUD and the conflict probe.
type ScheduleHandler struct {
	svc service.ScheduleService
}

func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// List committed schedules.
// GET /api/v1/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ListSchedulesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10000, err.Error())
		return
	}

	schedules, total, err := h.svc.List(c.Request.Context(), query)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	list := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		list = append(list, toScheduleResponse(&schedules[i]))
	}
	response.OKPage(c, list, total, query.Page, query.PageSize)
}

// Get one schedule.
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	resp := toScheduleResponse(schedule)
	response.OK(c, resp)
}

// Create a schedule directly, bypassing the document pipeline.
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10000, err.Error())
		return
	}

	schedule, err := h.svc.Create(c.Request.Context(), req, operatorID(c))
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	resp := toScheduleResponse(schedule)
	response.Created(c, resp)
}

// Update a schedule; changed slots re-run conflict detection.
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10000, err.Error())
		return
	}

	schedule, err := h.svc.Update(c.Request.Context(), c.Param("id"), req, operatorID(c))
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	resp := toScheduleResponse(schedule)
	response.OK(c, resp)
}

// Delete a schedule.
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, nil)
}

// CheckConflict stateless conflict probe for the booking UI.
// POST /api/v1/schedules/check-conflict
func (h *ScheduleHandler) CheckConflict(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10000, err.Error())
		return
	}

	resp, err := h.svc.CheckConflict(c.Request.Context(), req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.OK(c, resp)
}

func handleScheduleError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, 20409, "room already booked for this time slot", conflict.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10000, err.Error())
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 20404, err.Error())
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrAcademicYearNotFound),
		errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 20422, err.Error())
	default:
		response.InternalError(c)
	}
}

func toScheduleResponse(s *model.ClassSchedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ScheduleID:            s.ScheduleID,
		ClassName:             s.ClassName,
		Semester:              s.Semester,
		ClassType:             s.ClassType,
		StudentCount:          s.StudentCount,
		TheoryHours:           s.TheoryHours,
		ActualHours:           s.ActualHours,
		CrowdClassCoefficient: s.CrowdClassCoefficient,
		OvertimeCoefficient:   s.OvertimeCoefficient,
		StandardHours:         s.StandardHours,
		LecturerName:          s.LecturerName,
		StartDate:             s.StartDate,
		EndDate:               s.EndDate,
		CourseID:              s.CourseID,
		AcademicYearID:        s.AcademicYearID,
		DetailTimeSlots:       s.DetailTimeSlots,
	}
	if s.Course != nil {
		resp.CourseName = s.Course.CourseName
	}
	if s.AcademicYear != nil {
		resp.YearCode = s.AcademicYear.YearCode
	}
	return resp
}
