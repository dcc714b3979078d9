package dto

import "github.com/vietbevis/kma-training-support-sub000/internal/model"

// TimeSlotPayload one booking unit on direct create/update.
type TimeSlotPayload struct {
	DayOfWeek    int    `json:"day_of_week" binding:"required,min=1,max=7"`
	TimeSlotCode string `json:"time_slot_code" binding:"required"`
	RoomName     string `json:"room_name" binding:"required"`
	BuildingName string `json:"building_name"`
	StartDate    string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// CreateScheduleRequest direct-create payload. CourseID and
// AcademicYearID, when present, must reference existing rows.
type CreateScheduleRequest struct {
	ClassName             string            `json:"class_name" binding:"required"`
	Semester              string            `json:"semester" binding:"required,oneof=1.1 1.2 2.1 2.2"`
	ClassType             string            `json:"class_type"`
	StudentCount          int               `json:"student_count" binding:"min=0"`
	TheoryHours           int               `json:"theory_hours" binding:"min=0"`
	ActualHours           int               `json:"actual_hours" binding:"min=0"`
	CrowdClassCoefficient float64           `json:"crowd_class_coefficient" binding:"min=0"`
	OvertimeCoefficient   float64           `json:"overtime_coefficient" binding:"min=0"`
	StandardHours         float64           `json:"standard_hours" binding:"min=0"`
	LecturerName          *string           `json:"lecturer_name"`
	CourseID              *string           `json:"course_id"`
	AcademicYearID        *string           `json:"academic_year_id"`
	DetailTimeSlots       []TimeSlotPayload `json:"detail_time_slots" binding:"required,min=1,dive"`
}

// UpdateScheduleRequest partial update; nil fields stay untouched.
// Changed slots re-run conflict detection.
type UpdateScheduleRequest struct {
	ClassName             *string           `json:"class_name"`
	Semester              *string           `json:"semester" binding:"omitempty,oneof=1.1 1.2 2.1 2.2"`
	ClassType             *string           `json:"class_type"`
	StudentCount          *int              `json:"student_count"`
	TheoryHours           *int              `json:"theory_hours"`
	ActualHours           *int              `json:"actual_hours"`
	CrowdClassCoefficient *float64          `json:"crowd_class_coefficient"`
	OvertimeCoefficient   *float64          `json:"overtime_coefficient"`
	StandardHours         *float64          `json:"standard_hours"`
	LecturerName          *string           `json:"lecturer_name"`
	CourseID              *string           `json:"course_id"`
	AcademicYearID        *string           `json:"academic_year_id"`
	DetailTimeSlots       []TimeSlotPayload `json:"detail_time_slots" binding:"omitempty,min=1,dive"`
}

// ConflictCheckRequest probe payload; no persistence side effect.
type ConflictCheckRequest struct {
	ClassroomID  string `json:"classroom_id" binding:"required"`
	DayOfWeek    int    `json:"day_of_week" binding:"required,min=1,max=7"`
	TimeSlotCode string `json:"time_slot_code" binding:"required"`
	StartDate    string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" binding:"required,datetime=2006-01-02"`
	ExcludeID    string `json:"exclude_id"`
}

// ConflictHit one committed booking overlapping the probed slot.
type ConflictHit struct {
	ScheduleID string `json:"schedule_id"`
	ClassName  string `json:"class_name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// ConflictCheckResponse probe outcome.
type ConflictCheckResponse struct {
	HasConflict bool          `json:"has_conflict"`
	RoomName    string        `json:"room_name"`
	Conflicts   []ConflictHit `json:"conflicts"`
}

// ListSchedulesQuery list filters.
type ListSchedulesQuery struct {
	Semester       string `form:"semester" binding:"omitempty,oneof=1.1 1.2 2.1 2.2"`
	AcademicYearID string `form:"academic_year_id"`
	Page           int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size,default=20" binding:"omitempty,min=1,max=200"`
}

// ScheduleResponse one committed schedule.
type ScheduleResponse struct {
	ScheduleID            string           `json:"schedule_id"`
	ClassName             string           `json:"class_name"`
	Semester              string           `json:"semester"`
	ClassType             string           `json:"class_type,omitempty"`
	StudentCount          int              `json:"student_count"`
	TheoryHours           int              `json:"theory_hours"`
	ActualHours           int              `json:"actual_hours"`
	CrowdClassCoefficient float64          `json:"crowd_class_coefficient"`
	OvertimeCoefficient   float64          `json:"overtime_coefficient"`
	StandardHours         float64          `json:"standard_hours"`
	LecturerName          *string          `json:"lecturer_name,omitempty"`
	StartDate             string           `json:"start_date"`
	EndDate               string           `json:"end_date"`
	CourseID              *string          `json:"course_id,omitempty"`
	CourseName            string           `json:"course_name,omitempty"`
	AcademicYearID        *string          `json:"academic_year_id,omitempty"`
	YearCode              string           `json:"year_code,omitempty"`
	DetailTimeSlots       []model.TimeSlot `json:"detail_time_slots"`
}
