// Package ingest reduces extracted rows into normalized schedule
// records. It is pure: input rows and a column map in, completed
// records out. All persistence and entity resolution happen later.
package ingest

// Slot one (day, period-code, room, date-range) booking parsed from a
// row. Mirrors model.TimeSlot but stays free of storage concerns.
type Slot struct {
	DayOfWeek    int    // 1 = Sunday … 7 = Saturday
	TimeSlotCode string // "1->3"
	RoomName     string
	BuildingName string // empty ⇒ virtual/placeholder slot
	StartDate    string // yyyy-mm-dd, inclusive
	EndDate      string
}

// Record one course offering folded out of a block of rows.
type Record struct {
	RowIndex int // 1-based row number of the block's first row

	CourseCode    string
	ClassName     string
	CanonicalName string // class name minus section/year suffix
	YearToken     string // "2025-2026", derived from the suffix
	Semester      string // 1.1 | 1.2 | 2.1 | 2.2

	ClassType             string
	Credits               int
	StudentCount          int
	TheoryHours           int
	ActualHours           int
	CrowdClassCoefficient float64
	OvertimeCoefficient   float64
	StandardHours         float64
	LecturerName          string

	StartDate string // min over slots
	EndDate   string // max over slots
	Slots     []Slot
}
