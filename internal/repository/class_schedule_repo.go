package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/model"
)

// OverlapQuery one candidate booking to test against the committed
// conflict namespace. Dates are inclusive yyyy-mm-dd.
type OverlapQuery struct {
	RoomName     string
	BuildingName string
	DayOfWeek    int
	TimeSlotCode string
	StartDate    string
	EndDate      string
	ExcludeID    string // schedule being edited, ignored by the scan
}

// OverlapHit one committed slot overlapping the candidate.
type OverlapHit struct {
	ScheduleID string `json:"schedule_id"`
	ClassName  string `json:"class_name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// OccupiedSlot one committed booking active in a room on a given day.
type OccupiedSlot struct {
	ScheduleID   string `json:"schedule_id"`
	ClassName    string `json:"class_name"`
	RoomName     string `json:"room_name"`
	TimeSlotCode string `json:"time_slot_code"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// ScheduleFilter list filters.
type ScheduleFilter struct {
	Semester       string
	AcademicYearID string
	Page           int
	PageSize       int
}

// ClassScheduleRepository data access for committed schedules.
type ClassScheduleRepository interface {
	Create(ctx context.Context, schedule *model.ClassSchedule) error
	GetByID(ctx context.Context, id string) (*model.ClassSchedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]model.ClassSchedule, int64, error)
	ListBySemesterYear(ctx context.Context, semester, academicYearID string) ([]model.ClassSchedule, error)
	Update(ctx context.Context, schedule *model.ClassSchedule) error
	Delete(ctx context.Context, id string) error

	// CountDuplicates exact-duplication probe for the skip policy.
	CountDuplicates(ctx context.Context, className, semester string, academicYearID *string) (int64, error)
	// FindOverlaps unnests detail_time_slots and returns committed
	// slots overlapping the candidate under inclusive semantics.
	FindOverlaps(ctx context.Context, q OverlapQuery) ([]OverlapHit, error)
	// FindOccupied committed bookings for a building/day/period that
	// contain the given date.
	FindOccupied(ctx context.Context, buildingName string, dayOfWeek int, timeSlotCode, date string) ([]OccupiedSlot, error)
}

type classScheduleRepo struct {
	db *gorm.DB
}

func NewClassScheduleRepo(db *gorm.DB) ClassScheduleRepository {
	return &classScheduleRepo{db: db}
}

func (r *classScheduleRepo) Create(ctx context.Context, schedule *model.ClassSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *classScheduleRepo) GetByID(ctx context.Context, id string) (*model.ClassSchedule, error) {
	var schedule model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("AcademicYear").
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *classScheduleRepo) List(ctx context.Context, filter ScheduleFilter) ([]model.ClassSchedule, int64, error) {
	var schedules []model.ClassSchedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ClassSchedule{})
	if filter.Semester != "" {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.AcademicYearID != "" {
		db = db.Where("academic_year_id = ?", filter.AcademicYearID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	err := db.
		Preload("Course").
		Preload("AcademicYear").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Order("class_name ASC, start_date ASC").
		Find(&schedules).Error
	return schedules, total, err
}

func (r *classScheduleRepo) ListBySemesterYear(ctx context.Context, semester, academicYearID string) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	db := r.db.WithContext(ctx).Preload("Course").Preload("AcademicYear")
	if semester != "" {
		db = db.Where("semester = ?", semester)
	}
	if academicYearID != "" {
		db = db.Where("academic_year_id = ?", academicYearID)
	}
	err := db.Order("class_name ASC, start_date ASC").Find(&schedules).Error
	return schedules, err
}

func (r *classScheduleRepo) Update(ctx context.Context, schedule *model.ClassSchedule) error {
	return r.db.WithContext(ctx).
		Model(schedule).
		Where("schedule_id = ?", schedule.ScheduleID).
		Select("*").Omit("schedule_id", "created_at", "created_by").
		Updates(schedule).Error
}

// Delete is a hard delete: this entity family has no soft-delete tier.
func (r *classScheduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		Delete(&model.ClassSchedule{}).Error
}

func (r *classScheduleRepo) CountDuplicates(ctx context.Context, className, semester string, academicYearID *string) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.ClassSchedule{}).
		Where("class_name = ? AND semester = ?", className, semester)
	if academicYearID != nil {
		db = db.Where("academic_year_id = ?", *academicYearID)
	} else {
		db = db.Where("academic_year_id IS NULL")
	}
	err := db.Count(&count).Error
	return count, err
}

const overlapSQL = `
SELECT s.schedule_id,
       s.class_name,
       slot ->> 'start_date' AS start_date,
       slot ->> 'end_date'   AS end_date
FROM class_schedules s
CROSS JOIN LATERAL jsonb_array_elements(s.detail_time_slots) AS slot
WHERE slot ->> 'room_name' = ?
  AND COALESCE(slot ->> 'building_name', '') = ?
  AND (slot ->> 'day_of_week')::int = ?
  AND slot ->> 'time_slot_code' = ?
  AND slot ->> 'start_date' <= ?
  AND slot ->> 'end_date' >= ?`

func (r *classScheduleRepo) FindOverlaps(ctx context.Context, q OverlapQuery) ([]OverlapHit, error) {
	sql := overlapSQL
	args := []interface{}{q.RoomName, q.BuildingName, q.DayOfWeek, q.TimeSlotCode, q.EndDate, q.StartDate}
	if q.ExcludeID != "" {
		sql += "\n  AND s.schedule_id <> ?"
		args = append(args, q.ExcludeID)
	}

	var hits []OverlapHit
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&hits).Error
	return hits, err
}

const occupiedSQL = `
SELECT s.schedule_id,
       s.class_name,
       slot ->> 'room_name'      AS room_name,
       slot ->> 'time_slot_code' AS time_slot_code,
       slot ->> 'start_date'     AS start_date,
       slot ->> 'end_date'       AS end_date
FROM class_schedules s
CROSS JOIN LATERAL jsonb_array_elements(s.detail_time_slots) AS slot
WHERE COALESCE(slot ->> 'building_name', '') = ?
  AND (slot ->> 'day_of_week')::int = ?
  AND slot ->> 'time_slot_code' = ?
  AND slot ->> 'start_date' <= ?
  AND slot ->> 'end_date' >= ?`

func (r *classScheduleRepo) FindOccupied(ctx context.Context, buildingName string, dayOfWeek int, timeSlotCode, date string) ([]OccupiedSlot, error) {
	var slots []OccupiedSlot
	err := r.db.WithContext(ctx).
		Raw(occupiedSQL, buildingName, dayOfWeek, timeSlotCode, date, date).
		Scan(&slots).Error
	return slots, err
}
