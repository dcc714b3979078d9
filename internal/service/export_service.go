package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vietbevis/kma-training-support-sub000/internal/model"
	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
)

var (
	// ErrExportEmpty nothing matches the export filters.
	ErrExportEmpty = errors.New("no schedules match the export filters")
	// ErrExportFormat unknown export format.
	ErrExportFormat = errors.New("unsupported export format, expected xlsx or ics")
)

// ExportService renders committed schedules as a spreadsheet or an
// iCalendar feed.
type ExportService interface {
	ExportSchedules(ctx context.Context, semester, academicYearID, format string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportSchedules(ctx context.Context, semester, academicYearID, format string) (*bytes.Buffer, string, error) {
	schedules, err := s.repo.ClassSchedule.ListBySemesterYear(ctx, semester, academicYearID)
	if err != nil {
		return nil, "", err
	}
	if len(schedules) == 0 {
		return nil, "", ErrExportEmpty
	}

	stamp := time.Now().Format("20060102")
	switch strings.ToLower(format) {
	case "", "xlsx":
		buf, err := renderXLSX(schedules)
		return buf, fmt.Sprintf("schedules_%s.xlsx", stamp), err
	case "ics":
		buf, err := renderICS(schedules)
		return buf, fmt.Sprintf("schedules_%s.ics", stamp), err
	default:
		return nil, "", ErrExportFormat
	}
}

var exportHeader = []string{
	"TT", "Lớp học phần", "Học kỳ", "Số SV", "Số tiết LT", "Số tiết thực",
	"Hệ số lớp đông", "Hệ số ngoài giờ", "Giờ chuẩn", "Giảng viên",
	"Thứ", "Tiết", "Phòng", "Nhà", "Từ ngày", "Đến ngày",
}

// renderXLSX writes one row per (schedule, slot) pair, schedule-level
// cells repeated, matching the shape of the source timetable exports.
func renderXLSX(schedules []model.ClassSchedule) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	row := 2
	for i, sch := range schedules {
		lecturer := ""
		if sch.LecturerName != nil {
			lecturer = *sch.LecturerName
		}
		slots := sch.DetailTimeSlots
		if len(slots) == 0 {
			slots = []model.TimeSlot{{}}
		}
		for _, slot := range slots {
			values := []interface{}{
				i + 1, sch.ClassName, sch.Semester, sch.StudentCount,
				sch.TheoryHours, sch.ActualHours,
				sch.CrowdClassCoefficient, sch.OvertimeCoefficient,
				sch.StandardHours, lecturer,
				exportWeekday(slot.DayOfWeek), slot.TimeSlotCode,
				slot.RoomName, slot.BuildingName,
				slot.StartDate, slot.EndDate,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	return f.WriteToBuffer()
}

// renderICS emits one weekly-recurring all-day event per slot. Period
// codes have no wall-clock mapping in the source data, so the period
// lands in the summary instead of the event times.
func renderICS(schedules []model.ClassSchedule) (*bytes.Buffer, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//KMA Training Support//Schedules//VN")

	now := time.Now()
	for _, sch := range schedules {
		for i, slot := range sch.DetailTimeSlots {
			first, until, err := slotRecurrence(slot)
			if err != nil {
				continue // unparsable dates never reach storage; skip defensively
			}

			evt := cal.AddEvent(fmt.Sprintf("%s-%d@kma-training-support", sch.ScheduleID, i))
			evt.SetCreatedTime(now)
			evt.SetDtStampTime(now)
			evt.SetAllDayStartAt(first)
			evt.SetAllDayEndAt(first.AddDate(0, 0, 1))
			evt.SetSummary(fmt.Sprintf("%s (tiết %s)", sch.ClassName, slot.TimeSlotCode))
			if slot.RoomName != "" {
				location := slot.RoomName
				if slot.BuildingName != "" {
					location += " - " + slot.BuildingName
				}
				evt.SetLocation(location)
			}
			if sch.LecturerName != nil {
				evt.SetDescription("GV: " + *sch.LecturerName)
			}
			evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;UNTIL=%s", until.Format("20060102T000000Z")))
		}
	}

	return bytes.NewBufferString(cal.Serialize()), nil
}

// slotRecurrence finds the first calendar date of the slot (the first
// day on or after StartDate matching its weekday) and the recurrence
// cutoff.
func slotRecurrence(slot model.TimeSlot) (first, until time.Time, err error) {
	start, err := time.Parse("2006-01-02", slot.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	until, err = time.Parse("2006-01-02", slot.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	target := time.Weekday(slot.DayOfWeek - 1) // 1=Sunday maps onto time.Sunday
	first = start
	for first.Weekday() != target {
		first = first.AddDate(0, 0, 1)
	}
	return first, until, nil
}

func exportWeekday(day int) string {
	switch {
	case day == 1:
		return "CN"
	case day >= 2 && day <= 7:
		return fmt.Sprintf("%d", day)
	}
	return ""
}
