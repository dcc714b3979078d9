package ingest

import (
	"math"
	"time"

	"github.com/vietbevis/kma-training-support-sub000/internal/extract"
)

// mergeWindowDays: two slots for the same (day, period, room) whose
// date ranges sit within this many calendar days of each other are the
// same physical booking and collapse into one slot.
const mergeWindowDays = 2

// Reduce folds data rows (everything after the header) into completed
// records. A row opens a new record when it carries a course code or
// class name; rows with day/period/room data fold into the open
// record's slot list; rows with neither are skipped. Date pairs are
// carried forward from the nearest preceding row that had both set.
// semesterLabel is the free-text label from the upload request; when
// empty the semester falls back to the month-range rule. date1904
// selects the workbook's serial-date epoch.
//
// The second return value lists blocks that opened a record but ended
// with no usable slot (unparsable mandatory dates, no bookable rows);
// the caller reports them as row errors without stopping the import.
func Reduce(rows [][]string, cols extract.ColumnMap, semesterLabel string, date1904 bool) (completed, dropped []Record) {
	var (
		open      *Record
		lastStart string
		lastEnd   string
	)

	finalize := func() {
		if open == nil {
			return
		}
		if len(open.Slots) > 0 {
			open.StartDate, open.EndDate = slotDateSpan(open.Slots)
			open.Semester = DeriveSemester(semesterLabel, open.StartDate, open.EndDate)
			completed = append(completed, *open)
		} else {
			dropped = append(dropped, *open)
		}
		open = nil
	}

	for i, row := range rows {
		courseCode := cols.Cell(row, extract.FieldCourseCode)
		className := cols.Cell(row, extract.FieldClassName)

		start, okStart := extract.ParseDate(cols.Cell(row, extract.FieldStartDate), date1904)
		end, okEnd := extract.ParseDate(cols.Cell(row, extract.FieldEndDate), date1904)
		if okStart && okEnd {
			lastStart, lastEnd = start, end
		} else {
			start, end = lastStart, lastEnd
		}

		day, okDay := ParseDayOfWeek(cols.Cell(row, extract.FieldDayOfWeek))
		slotCode, okSlot := ParseTimeSlotCode(cols.Cell(row, extract.FieldTimeSlotCode))

		if courseCode != "" || className != "" {
			finalize()
			open = newRecord(row, cols, i+1)
		}

		if open == nil {
			continue // no open block: nothing to attach the row to
		}
		if !okDay || !okSlot || start == "" || end == "" {
			continue // no bookable information on this row
		}

		room := cols.Cell(row, extract.FieldRoomName)
		building := cols.Cell(row, extract.FieldBuildingName)
		if building == "" {
			room, building = SplitRoomCell(room)
		}

		addSlot(open, Slot{
			DayOfWeek:    day,
			TimeSlotCode: slotCode,
			RoomName:     room,
			BuildingName: building,
			StartDate:    start,
			EndDate:      end,
		})
	}
	finalize()

	return completed, dropped
}

// newRecord builds a record from the block's first row.
func newRecord(row []string, cols extract.ColumnMap, rowIndex int) *Record {
	className := cols.Cell(row, extract.FieldClassName)
	canonical, yearToken := CanonicalClassName(className)

	rec := &Record{
		RowIndex:              rowIndex,
		CourseCode:            cols.Cell(row, extract.FieldCourseCode),
		ClassName:             className,
		CanonicalName:         canonical,
		YearToken:             yearToken,
		ClassType:             cols.Cell(row, extract.FieldClassType),
		Credits:               extract.ParseInt(cols.Cell(row, extract.FieldCredits)),
		StudentCount:          extract.ParseInt(cols.Cell(row, extract.FieldStudentCount)),
		TheoryHours:           extract.ParseInt(cols.Cell(row, extract.FieldTheoryHours)),
		ActualHours:           extract.ParseInt(cols.Cell(row, extract.FieldActualHours)),
		CrowdClassCoefficient: extract.ParseFloat(cols.Cell(row, extract.FieldCrowdCoefficient), 2, 1),
		OvertimeCoefficient:   extract.ParseFloat(cols.Cell(row, extract.FieldOvertimeCoeff), 2, 1),
		StandardHours:         extract.ParseFloat(cols.Cell(row, extract.FieldStandardHours), 2, 0),
		LecturerName:          cols.Cell(row, extract.FieldLecturerName),
	}

	if rec.StandardHours == 0 && rec.ActualHours > 0 {
		v := float64(rec.ActualHours) * rec.CrowdClassCoefficient * rec.OvertimeCoefficient
		rec.StandardHours = math.Round(v*100) / 100
	}
	return rec
}

// addSlot applies the merge invariant: same (day, period, room) within
// the merge window collapses into one slot spanning both ranges.
func addSlot(rec *Record, s Slot) {
	for i := range rec.Slots {
		existing := &rec.Slots[i]
		if existing.DayOfWeek != s.DayOfWeek ||
			existing.TimeSlotCode != s.TimeSlotCode ||
			existing.RoomName != s.RoomName {
			continue
		}
		if !rangesWithin(existing.StartDate, existing.EndDate, s.StartDate, s.EndDate, mergeWindowDays) {
			continue
		}
		existing.StartDate = minDate(existing.StartDate, s.StartDate)
		existing.EndDate = maxDate(existing.EndDate, s.EndDate)
		if existing.BuildingName == "" {
			existing.BuildingName = s.BuildingName
		}
		return
	}
	rec.Slots = append(rec.Slots, s)
}

// rangesWithin reports whether [aStart,aEnd] and [bStart,bEnd] overlap
// or sit within `days` calendar days of each other.
func rangesWithin(aStart, aEnd, bStart, bEnd string, days int) bool {
	as, err1 := time.Parse("2006-01-02", aStart)
	ae, err2 := time.Parse("2006-01-02", aEnd)
	bs, err3 := time.Parse("2006-01-02", bStart)
	be, err4 := time.Parse("2006-01-02", bEnd)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	gap := time.Duration(days) * 24 * time.Hour
	return !as.After(be.Add(gap)) && !bs.After(ae.Add(gap))
}

func slotDateSpan(slots []Slot) (start, end string) {
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

func minDate(a, b string) string {
	if b < a {
		return b
	}
	return a
}

func maxDate(a, b string) string {
	if b > a {
		return b
	}
	return a
}
