package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/model"
	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
)

// ── in-memory class schedule repo ──

type mockScheduleRepo struct {
	mu        sync.Mutex
	schedules []model.ClassSchedule
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.ClassSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if schedule.ScheduleID == "" {
		schedule.ScheduleID = uuid.NewString()
	}
	m.schedules = append(m.schedules, *schedule)
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.ClassSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.schedules {
		if m.schedules[i].ScheduleID == id {
			out := m.schedules[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) List(_ context.Context, filter repository.ScheduleFilter) ([]model.ClassSchedule, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ClassSchedule
	for _, s := range m.schedules {
		if filter.Semester != "" && s.Semester != filter.Semester {
			continue
		}
		if filter.AcademicYearID != "" && (s.AcademicYearID == nil || *s.AcademicYearID != filter.AcademicYearID) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (m *mockScheduleRepo) ListBySemesterYear(_ context.Context, semester, academicYearID string) ([]model.ClassSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ClassSchedule
	for _, s := range m.schedules {
		if semester != "" && s.Semester != semester {
			continue
		}
		if academicYearID != "" && (s.AcademicYearID == nil || *s.AcademicYearID != academicYearID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.ClassSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.schedules {
		if m.schedules[i].ScheduleID == schedule.ScheduleID {
			m.schedules[i] = *schedule
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.schedules {
		if m.schedules[i].ScheduleID == id {
			m.schedules = append(m.schedules[:i], m.schedules[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockScheduleRepo) CountDuplicates(_ context.Context, className, semester string, academicYearID *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, s := range m.schedules {
		if s.ClassName != className || s.Semester != semester {
			continue
		}
		switch {
		case academicYearID == nil && s.AcademicYearID == nil:
			count++
		case academicYearID != nil && s.AcademicYearID != nil && *academicYearID == *s.AcademicYearID:
			count++
		}
	}
	return count, nil
}

// FindOverlaps mirrors the lateral-join scan in Go: inclusive date
// overlap over every stored slot.
func (m *mockScheduleRepo) FindOverlaps(_ context.Context, q repository.OverlapQuery) ([]repository.OverlapHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []repository.OverlapHit
	for _, s := range m.schedules {
		if q.ExcludeID != "" && s.ScheduleID == q.ExcludeID {
			continue
		}
		for _, slot := range s.DetailTimeSlots {
			if slot.RoomName != q.RoomName ||
				slot.BuildingName != q.BuildingName ||
				slot.DayOfWeek != q.DayOfWeek ||
				slot.TimeSlotCode != q.TimeSlotCode {
				continue
			}
			if slot.StartDate <= q.EndDate && slot.EndDate >= q.StartDate {
				hits = append(hits, repository.OverlapHit{
					ScheduleID: s.ScheduleID,
					ClassName:  s.ClassName,
					StartDate:  slot.StartDate,
					EndDate:    slot.EndDate,
				})
			}
		}
	}
	return hits, nil
}

func (m *mockScheduleRepo) FindOccupied(_ context.Context, buildingName string, dayOfWeek int, timeSlotCode, date string) ([]repository.OccupiedSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.OccupiedSlot
	for _, s := range m.schedules {
		for _, slot := range s.DetailTimeSlots {
			if slot.BuildingName != buildingName ||
				slot.DayOfWeek != dayOfWeek ||
				slot.TimeSlotCode != timeSlotCode {
				continue
			}
			if slot.StartDate <= date && slot.EndDate >= date {
				out = append(out, repository.OccupiedSlot{
					ScheduleID:   s.ScheduleID,
					ClassName:    s.ClassName,
					RoomName:     slot.RoomName,
					TimeSlotCode: slot.TimeSlotCode,
					StartDate:    slot.StartDate,
					EndDate:      slot.EndDate,
				})
			}
		}
	}
	return out, nil
}

// ── in-memory course repo ──

type mockCourseRepo struct {
	mu      sync.Mutex
	courses []model.Course
}

func newMockCourseRepo() *mockCourseRepo { return &mockCourseRepo{} }

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.courses {
		if m.courses[i].CourseID == id {
			out := m.courses[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByCodes(_ context.Context, codes []string) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	var out []model.Course
	for _, c := range m.courses {
		if c.CourseCode != nil && set[*c.CourseCode] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListByNames(_ context.Context, names []string) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	var out []model.Course
	for _, c := range m.courses {
		if set[c.CourseName] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) BatchCreate(_ context.Context, courses []model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = append(m.courses, courses...)
	return nil
}

// ── in-memory academic year repo ──

type mockYearRepo struct {
	mu    sync.Mutex
	years []model.AcademicYear
}

func newMockYearRepo() *mockYearRepo { return &mockYearRepo{} }

func (m *mockYearRepo) GetByID(_ context.Context, id string) (*model.AcademicYear, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.years {
		if m.years[i].AcademicYearID == id {
			out := m.years[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockYearRepo) ListByCodes(_ context.Context, codes []string) ([]model.AcademicYear, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	var out []model.AcademicYear
	for _, y := range m.years {
		if set[y.YearCode] {
			out = append(out, y)
		}
	}
	return out, nil
}

func (m *mockYearRepo) BatchCreate(_ context.Context, years []model.AcademicYear) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.years = append(m.years, years...)
	return nil
}

// ── in-memory classroom repo ──

type mockClassroomRepo struct {
	buildings []model.Building
	rooms     []model.Classroom
}

func (m *mockClassroomRepo) GetBuilding(_ context.Context, id string) (*model.Building, error) {
	for i := range m.buildings {
		if m.buildings[i].BuildingID == id {
			out := m.buildings[i]
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) ListByBuilding(_ context.Context, buildingID string) ([]model.Classroom, error) {
	var out []model.Classroom
	for _, r := range m.rooms {
		if r.BuildingID == buildingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	for i := range m.rooms {
		if m.rooms[i].ClassroomID == id {
			out := m.rooms[i]
			for j := range m.buildings {
				if m.buildings[j].BuildingID == out.BuildingID {
					b := m.buildings[j]
					out.Building = &b
				}
			}
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// newTestDeps wires a test repository aggregate around fresh mocks.
func newTestDeps() (*repository.Repository, *mockScheduleRepo, *mockCourseRepo, *mockYearRepo, *mockClassroomRepo) {
	schedules := newMockScheduleRepo()
	courses := newMockCourseRepo()
	years := newMockYearRepo()
	classrooms := &mockClassroomRepo{}
	repo := repository.NewTestRepository(schedules, courses, years, classrooms)
	return repo, schedules, courses, years, classrooms
}
