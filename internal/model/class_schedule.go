package model

import "gorm.io/datatypes"

// Weekday convention used everywhere in this backend:
// 1 = Sunday … 7 = Saturday. Source documents write Sunday as "CN"
// (or a native 0), both normalized to 1 during ingestion.

// TimeSlot one (day, period-code, room, date-range) booking unit.
// An empty BuildingName marks a virtual/placeholder slot.
type TimeSlot struct {
	DayOfWeek    int    `json:"day_of_week"`
	TimeSlotCode string `json:"time_slot_code"` // period range, e.g. "1->3"
	RoomName     string `json:"room_name"`
	BuildingName string `json:"building_name,omitempty"`
	StartDate    string `json:"start_date"` // yyyy-mm-dd, inclusive
	EndDate      string `json:"end_date"`   // yyyy-mm-dd, inclusive
}

// IsPlaceholderRoom reports whether the room is exempt from conflict
// checking: any name not starting with a digit ("Online", "TBD", ...).
func IsPlaceholderRoom(roomName string) bool {
	if roomName == "" {
		return true
	}
	c := roomName[0]
	return c < '0' || c > '9'
}

// ClassSchedule one normalized course offering produced by an import
// or a direct create. Its time slots live in one JSONB column; the
// conflict query unnests that array server-side.
type ClassSchedule struct {
	ScheduleID            string                          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	ClassName             string                          `gorm:"type:varchar(255);not null"                     json:"class_name"`
	Semester              string                          `gorm:"type:varchar(5);not null"                       json:"semester"` // 1.1 | 1.2 | 2.1 | 2.2
	ClassType             string                          `gorm:"type:varchar(50)"                               json:"class_type,omitempty"`
	StudentCount          int                             `gorm:"type:smallint;not null;default:0"               json:"student_count"`
	TheoryHours           int                             `gorm:"type:smallint;not null;default:0"               json:"theory_hours"`
	ActualHours           int                             `gorm:"type:smallint;not null;default:0"               json:"actual_hours"`
	CrowdClassCoefficient float64                         `gorm:"type:numeric(5,2);not null;default:1"           json:"crowd_class_coefficient"`
	OvertimeCoefficient   float64                         `gorm:"type:numeric(5,2);not null;default:1"           json:"overtime_coefficient"`
	StandardHours         float64                         `gorm:"type:numeric(7,2);not null;default:0"           json:"standard_hours"`
	LecturerName          *string                         `gorm:"type:varchar(255)"                              json:"lecturer_name,omitempty"`
	StartDate             string                          `gorm:"type:varchar(10);not null"                      json:"start_date"`
	EndDate               string                          `gorm:"type:varchar(10);not null"                      json:"end_date"`
	CourseID              *string                         `gorm:"type:uuid"                                      json:"course_id,omitempty"`
	AcademicYearID        *string                         `gorm:"type:uuid"                                      json:"academic_year_id,omitempty"`
	DetailTimeSlots       datatypes.JSONSlice[TimeSlot]   `gorm:"type:jsonb;not null"                            json:"detail_time_slots"`
	BaseModel

	Course       *Course       `gorm:"foreignKey:CourseID;references:CourseID"                   json:"course,omitempty"`
	AcademicYear *AcademicYear `gorm:"foreignKey:AcademicYearID;references:AcademicYearID"      json:"academic_year,omitempty"`
}

func (ClassSchedule) TableName() string { return "class_schedules" }
