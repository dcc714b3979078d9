package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/dto"
	"github.com/vietbevis/kma-training-support-sub000/internal/model"
	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
	"github.com/vietbevis/kma-training-support-sub000/pkg/redis"
)

var (
	// ErrScheduleNotFound no committed schedule with the given id.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrCourseNotFound the referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrClassroomNotFound the probed classroom does not exist.
	ErrClassroomNotFound = errors.New("classroom not found")
)

// ScheduleService direct CRUD over committed schedules plus the
// stateless conflict probe. Direct writes run the same conflict check
// as the import path.
type ScheduleService interface {
	Create(ctx context.Context, req dto.CreateScheduleRequest, operatorID *string) (*model.ClassSchedule, error)
	GetByID(ctx context.Context, id string) (*model.ClassSchedule, error)
	List(ctx context.Context, query dto.ListSchedulesQuery) ([]model.ClassSchedule, int64, error)
	Update(ctx context.Context, id string, req dto.UpdateScheduleRequest, operatorID *string) (*model.ClassSchedule, error)
	Delete(ctx context.Context, id string) error
	CheckConflict(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
}

func NewScheduleService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, cache: cache, logger: logger}
}

func (s *scheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest, operatorID *string) (*model.ClassSchedule, error) {
	if err := validateSlotDates(req.DetailTimeSlots); err != nil {
		return nil, err
	}
	if err := s.validateRefs(ctx, req.CourseID, req.AcademicYearID); err != nil {
		return nil, err
	}

	slots := payloadSlots(req.DetailTimeSlots)
	start, end := slotSpan(slots)

	schedule := &model.ClassSchedule{
		ClassName:             req.ClassName,
		Semester:              req.Semester,
		ClassType:             req.ClassType,
		StudentCount:          req.StudentCount,
		TheoryHours:           req.TheoryHours,
		ActualHours:           req.ActualHours,
		CrowdClassCoefficient: defaultCoeff(req.CrowdClassCoefficient),
		OvertimeCoefficient:   defaultCoeff(req.OvertimeCoefficient),
		StandardHours:         req.StandardHours,
		LecturerName:          req.LecturerName,
		StartDate:             start,
		EndDate:               end,
		CourseID:              req.CourseID,
		AcademicYearID:        req.AcademicYearID,
		DetailTimeSlots:       datatypes.JSONSlice[model.TimeSlot](slots),
	}
	schedule.CreatedBy = operatorID
	schedule.UpdatedBy = operatorID

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkScheduleConflicts(ctx, tx.ClassSchedule, slots, ""); err != nil {
			return err
		}
		return tx.ClassSchedule.Create(ctx, schedule)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx)
	return schedule, nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*model.ClassSchedule, error) {
	schedule, err := s.repo.ClassSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) List(ctx context.Context, query dto.ListSchedulesQuery) ([]model.ClassSchedule, int64, error) {
	return s.repo.ClassSchedule.List(ctx, repository.ScheduleFilter{
		Semester:       query.Semester,
		AcademicYearID: query.AcademicYearID,
		Page:           query.Page,
		PageSize:       query.PageSize,
	})
}

func (s *scheduleService) Update(ctx context.Context, id string, req dto.UpdateScheduleRequest, operatorID *string) (*model.ClassSchedule, error) {
	schedule, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DetailTimeSlots != nil {
		if err := validateSlotDates(req.DetailTimeSlots); err != nil {
			return nil, err
		}
	}
	if err := s.validateRefs(ctx, req.CourseID, req.AcademicYearID); err != nil {
		return nil, err
	}

	applyUpdate(schedule, req)
	schedule.UpdatedBy = operatorID

	slotsChanged := req.DetailTimeSlots != nil

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if slotsChanged {
			// changed slots re-enter the conflict namespace, minus the
			// schedule's own committed bookings
			if err := checkScheduleConflicts(ctx, tx.ClassSchedule, schedule.DetailTimeSlots, id); err != nil {
				return err
			}
		}
		return tx.ClassSchedule.Update(ctx, schedule)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx)
	return schedule, nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ClassSchedule.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCaches(ctx)
	return nil
}

// CheckConflict resolves the classroom to its physical (room, building)
// pair and probes the overlap scan. No writes happen; placeholder rooms
// always come back conflict-free.
func (s *scheduleService) CheckConflict(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	if !isISODate(req.StartDate) || !isISODate(req.EndDate) {
		return nil, ErrInvalidDate
	}

	room, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	resp := &dto.ConflictCheckResponse{RoomName: room.RoomName, Conflicts: []dto.ConflictHit{}}
	if model.IsPlaceholderRoom(room.RoomName) {
		return resp, nil
	}

	buildingName := ""
	if room.Building != nil {
		buildingName = room.Building.Name
	}
	hits, err := s.repo.ClassSchedule.FindOverlaps(ctx, repository.OverlapQuery{
		RoomName:     room.RoomName,
		BuildingName: buildingName,
		DayOfWeek:    req.DayOfWeek,
		TimeSlotCode: req.TimeSlotCode,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ExcludeID:    req.ExcludeID,
	})
	if err != nil {
		return nil, err
	}

	resp.HasConflict = len(hits) > 0
	for _, h := range hits {
		resp.Conflicts = append(resp.Conflicts, dto.ConflictHit{
			ScheduleID: h.ScheduleID,
			ClassName:  h.ClassName,
			StartDate:  h.StartDate,
			EndDate:    h.EndDate,
		})
	}
	return resp, nil
}

// validateRefs checks optional course/year references point at rows
// that actually exist.
func (s *scheduleService) validateRefs(ctx context.Context, courseID, yearID *string) error {
	if courseID != nil {
		if _, err := s.repo.Course.GetByID(ctx, *courseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
	}
	if yearID != nil {
		if _, err := s.repo.AcademicYear.GetByID(ctx, *yearID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAcademicYearNotFound
			}
			return err
		}
	}
	return nil
}

func (s *scheduleService) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, availabilityCachePrefix)
}

func applyUpdate(schedule *model.ClassSchedule, req dto.UpdateScheduleRequest) {
	if req.ClassName != nil {
		schedule.ClassName = *req.ClassName
	}
	if req.Semester != nil {
		schedule.Semester = *req.Semester
	}
	if req.ClassType != nil {
		schedule.ClassType = *req.ClassType
	}
	if req.StudentCount != nil {
		schedule.StudentCount = *req.StudentCount
	}
	if req.TheoryHours != nil {
		schedule.TheoryHours = *req.TheoryHours
	}
	if req.ActualHours != nil {
		schedule.ActualHours = *req.ActualHours
	}
	if req.CrowdClassCoefficient != nil {
		schedule.CrowdClassCoefficient = *req.CrowdClassCoefficient
	}
	if req.OvertimeCoefficient != nil {
		schedule.OvertimeCoefficient = *req.OvertimeCoefficient
	}
	if req.StandardHours != nil {
		schedule.StandardHours = *req.StandardHours
	}
	if req.LecturerName != nil {
		schedule.LecturerName = req.LecturerName
	}
	if req.CourseID != nil {
		schedule.CourseID = req.CourseID
	}
	if req.AcademicYearID != nil {
		schedule.AcademicYearID = req.AcademicYearID
	}
	if req.DetailTimeSlots != nil {
		slots := payloadSlots(req.DetailTimeSlots)
		schedule.DetailTimeSlots = datatypes.JSONSlice[model.TimeSlot](slots)
		schedule.StartDate, schedule.EndDate = slotSpan(slots)
	}
}

// validateSlotDates rejects slots whose dates are not yyyy-mm-dd. The
// overlap scan compares dates as strings; a slot stored in any other
// format would never match an ISO-dated booking for the same range.
func validateSlotDates(payloads []dto.TimeSlotPayload) error {
	for _, p := range payloads {
		if !isISODate(p.StartDate) || !isISODate(p.EndDate) {
			return ErrInvalidDate
		}
	}
	return nil
}

func isISODate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func payloadSlots(payloads []dto.TimeSlotPayload) []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, len(payloads))
	for _, p := range payloads {
		slots = append(slots, model.TimeSlot{
			DayOfWeek:    p.DayOfWeek,
			TimeSlotCode: p.TimeSlotCode,
			RoomName:     p.RoomName,
			BuildingName: p.BuildingName,
			StartDate:    p.StartDate,
			EndDate:      p.EndDate,
		})
	}
	return slots
}

func slotSpan(slots []model.TimeSlot) (start, end string) {
	for _, s := range slots {
		if start == "" || s.StartDate < start {
			start = s.StartDate
		}
		if end == "" || s.EndDate > end {
			end = s.EndDate
		}
	}
	return start, end
}

func defaultCoeff(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
