package ingest

import (
	"testing"

	"github.com/vietbevis/kma-training-support-sub000/internal/extract"
)

// column layout shared by the reducer tests
var testCols = extract.ColumnMap{
	extract.FieldCourseCode:       0,
	extract.FieldClassName:        1,
	extract.FieldCredits:          2,
	extract.FieldStudentCount:     3,
	extract.FieldActualHours:      4,
	extract.FieldCrowdCoefficient: 5,
	extract.FieldOvertimeCoeff:    6,
	extract.FieldStandardHours:    7,
	extract.FieldDayOfWeek:        8,
	extract.FieldTimeSlotCode:     9,
	extract.FieldRoomName:         10,
	extract.FieldStartDate:        11,
	extract.FieldEndDate:          12,
}

func TestReduceBlocksAndCarryForward(t *testing.T) {
	rows := [][]string{
		{"ATM01", "An toàn mạng-1-25", "3", "60", "45", "1.2", "1.0", "", "2", "1->3", "301-TA1", "09/01/2025", "11/02/2025"},
		// continuation row: no dates of its own, carries the block's
		{"", "", "", "", "", "", "", "", "4", "7->9", "302-TA1", "", ""},
		{"MMT01", "Mạng máy tính-1-25", "3", "50", "30", "1.0", "1.0", "30", "5", "4->6", "Online", "20/01/2025", "20/03/2025"},
	}

	completed, dropped := Reduce(rows, testCols, "1.1", false)
	if len(dropped) != 0 {
		t.Fatalf("dropped = %+v", dropped)
	}
	if len(completed) != 2 {
		t.Fatalf("completed = %d records, want 2", len(completed))
	}

	first := completed[0]
	if len(first.Slots) != 2 {
		t.Fatalf("first block slots = %d, want 2", len(first.Slots))
	}
	carried := first.Slots[1]
	if carried.StartDate != "2025-01-09" || carried.EndDate != "2025-02-11" {
		t.Errorf("carried dates = %s..%s", carried.StartDate, carried.EndDate)
	}
	if carried.RoomName != "302" || carried.BuildingName != "TA1" {
		t.Errorf("carried slot = %+v", carried)
	}

	// standard hours cell empty: actual × crowd × overtime
	if first.StandardHours != 54 {
		t.Errorf("standard hours = %v, want 45*1.2*1.0 = 54", first.StandardHours)
	}
	// standard hours cell filled: taken as-is
	if completed[1].StandardHours != 30 {
		t.Errorf("standard hours = %v, want 30", completed[1].StandardHours)
	}

	if first.StartDate != "2025-01-09" || first.EndDate != "2025-02-11" {
		t.Errorf("record span = %s..%s", first.StartDate, first.EndDate)
	}
	if first.Semester != "1.1" {
		t.Errorf("semester = %q", first.Semester)
	}
	if first.CanonicalName != "An toàn mạng" || first.YearToken != "2025-2026" {
		t.Errorf("canonical = %q / %q", first.CanonicalName, first.YearToken)
	}
}

func TestReduceMergesAdjacentRanges(t *testing.T) {
	rows := [][]string{
		{"ATM01", "An toàn mạng-1-25", "3", "60", "", "", "", "", "2", "1->3", "301-TA1", "09/01/2025", "11/02/2025"},
		// same (day, period, room), range starts 2 days after the first ends
		{"", "", "", "", "", "", "", "", "2", "1->3", "301-TA1", "13/02/2025", "20/03/2025"},
	}

	completed, _ := Reduce(rows, testCols, "1.1", false)
	if len(completed) != 1 {
		t.Fatalf("completed = %d", len(completed))
	}
	if len(completed[0].Slots) != 1 {
		t.Fatalf("slots = %d, want merged into 1", len(completed[0].Slots))
	}
	slot := completed[0].Slots[0]
	if slot.StartDate != "2025-01-09" || slot.EndDate != "2025-03-20" {
		t.Errorf("merged span = %s..%s", slot.StartDate, slot.EndDate)
	}
}

func TestReduceKeepsDistantRangesApart(t *testing.T) {
	rows := [][]string{
		{"ATM01", "An toàn mạng-1-25", "3", "60", "", "", "", "", "2", "1->3", "301-TA1", "09/01/2025", "11/02/2025"},
		// same key but a week's gap: a genuinely separate booking
		{"", "", "", "", "", "", "", "", "2", "1->3", "301-TA1", "18/02/2025", "20/03/2025"},
	}

	completed, _ := Reduce(rows, testCols, "1.1", false)
	if len(completed) != 1 {
		t.Fatalf("completed = %d", len(completed))
	}
	if len(completed[0].Slots) != 2 {
		t.Fatalf("slots = %d, want 2 separate bookings", len(completed[0].Slots))
	}
}

func TestReduceDifferentRoomsNeverMerge(t *testing.T) {
	rows := [][]string{
		{"ATM01", "An toàn mạng-1-25", "3", "60", "", "", "", "", "2", "1->3", "301-TA1", "09/01/2025", "11/02/2025"},
		{"", "", "", "", "", "", "", "", "2", "1->3", "302-TA1", "09/01/2025", "11/02/2025"},
	}

	completed, _ := Reduce(rows, testCols, "1.1", false)
	if len(completed[0].Slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(completed[0].Slots))
	}
}

func TestReduceDropsSlotlessBlocks(t *testing.T) {
	rows := [][]string{
		{"ATM01", "An toàn mạng-1-25", "3", "60", "", "", "", "", "2", "1->3", "301-TA1", "09/01/2025", "11/02/2025"},
		// opens a block but no row ever provides day/period/dates
		{"MMT01", "Mạng máy tính-1-25", "3", "50", "", "", "", "", "", "", "", "", ""},
	}

	completed, dropped := Reduce(rows, testCols, "1.1", false)
	if len(completed) != 1 {
		t.Fatalf("completed = %d, want 1", len(completed))
	}
	if len(dropped) != 1 || dropped[0].CourseCode != "MMT01" {
		t.Fatalf("dropped = %+v", dropped)
	}
	if dropped[0].RowIndex != 2 {
		t.Errorf("dropped row index = %d, want 2", dropped[0].RowIndex)
	}
}

func TestReduceSerialDateSystems(t *testing.T) {
	rows := [][]string{
		{"ATM01", "An toàn mạng-1-25", "3", "60", "", "", "", "", "2", "1->3", "301-TA1", "366", "397"},
	}

	for _, tc := range []struct {
		date1904   bool
		start, end string
	}{
		{false, "1900-12-31", "1901-01-31"},
		{true, "1905-01-01", "1905-02-01"},
	} {
		completed, dropped := Reduce(rows, testCols, "1.1", tc.date1904)
		if len(completed) != 1 || len(dropped) != 0 {
			t.Fatalf("date1904=%v: completed = %d dropped = %d", tc.date1904, len(completed), len(dropped))
		}
		slot := completed[0].Slots[0]
		if slot.StartDate != tc.start || slot.EndDate != tc.end {
			t.Errorf("date1904=%v: span = %s..%s, want %s..%s",
				tc.date1904, slot.StartDate, slot.EndDate, tc.start, tc.end)
		}
	}
}

func TestReduceIgnoresLeadingNoise(t *testing.T) {
	rows := [][]string{
		// stray row before any block opens: nothing to attach it to
		{"", "", "", "", "", "", "", "", "2", "1->3", "301-TA1", "09/01/2025", "11/02/2025"},
		{"ATM01", "An toàn mạng-1-25", "3", "60", "", "", "", "", "3", "4->6", "302-TA1", "09/01/2025", "11/02/2025"},
	}

	completed, dropped := Reduce(rows, testCols, "1.1", false)
	if len(completed) != 1 || len(dropped) != 0 {
		t.Fatalf("completed = %d dropped = %d", len(completed), len(dropped))
	}
	if len(completed[0].Slots) != 1 || completed[0].Slots[0].DayOfWeek != 3 {
		t.Fatalf("slots = %+v", completed[0].Slots)
	}
}
