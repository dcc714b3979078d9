package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vietbevis/kma-training-support-sub000/internal/extract"
)

// Semester termination codes: two halves of two semesters.
const (
	SemesterFirstEarly  = "1.1" // roughly Aug–Oct
	SemesterFirstLate   = "1.2" // roughly Oct–Dec
	SemesterSecondEarly = "2.1" // roughly Jan–Apr
	SemesterSecondLate  = "2.2" // roughly Apr–Jul
)

// DeriveSemester resolves the semester code from a free-text label
// ("Học kỳ 1 đợt 2", "kỳ 2", "1.1") or, when the label yields nothing,
// from the month range of the record's dates. A plain "kỳ 1"/"kỳ 2"
// defaults to the early sub-period.
func DeriveSemester(label, startDate, endDate string) string {
	n := extract.Normalize(label)
	switch {
	case strings.Contains(n, "1.1"):
		return SemesterFirstEarly
	case strings.Contains(n, "1.2"):
		return SemesterFirstLate
	case strings.Contains(n, "2.1"):
		return SemesterSecondEarly
	case strings.Contains(n, "2.2"):
		return SemesterSecondLate
	case strings.Contains(n, "ky 1") || strings.Contains(n, "hk1") || strings.Contains(n, "hoc ky i"):
		return SemesterFirstEarly
	case strings.Contains(n, "ky 2") || strings.Contains(n, "hk2") || strings.Contains(n, "hoc ky ii"):
		return SemesterSecondEarly
	}
	return semesterFromMonths(startDate, endDate)
}

// semesterFromMonths maps the calendar-month span to a semester code.
// Exact buckets first, then wider start-month fallbacks for partial
// overlaps; no match defaults to the last sub-period.
func semesterFromMonths(startDate, endDate string) string {
	start, err1 := time.Parse("2006-01-02", startDate)
	end, err2 := time.Parse("2006-01-02", endDate)
	if err1 != nil || err2 != nil {
		return SemesterSecondLate
	}
	s, e := int(start.Month()), int(end.Month())

	switch {
	case s >= 8 && e >= s && e <= 10:
		return SemesterFirstEarly
	case s >= 10 && (e >= s && e <= 12):
		return SemesterFirstLate
	case s >= 1 && s <= 4 && e >= s && e <= 4:
		return SemesterSecondEarly
	case s >= 4 && s <= 7 && e >= s && e <= 7:
		return SemesterSecondLate
	}

	switch {
	case s >= 8 && s <= 9:
		return SemesterFirstEarly
	case s >= 10 && s <= 12:
		return SemesterFirstLate
	case s >= 1 && s <= 3:
		return SemesterSecondEarly
	}
	return SemesterSecondLate
}

// classSuffix matches the trailing "-<section>-<year>" with an
// optional parenthetical group code: "-1-25(A1801)".
var (
	classSuffix  = regexp.MustCompile(`-(\d+)-(\d{2})(\([^)]*\))?\s*$`)
	parenSuffix  = regexp.MustCompile(`\([^)]*\)\s*$`)
	daySuffixNum = regexp.MustCompile(`\d+`)
)

// CanonicalClassName strips the section/year suffix from a class name
// and recovers the academic-year token. "An toàn mạng-1-25(A1801)" →
// ("An toàn mạng", "2025-2026").
func CanonicalClassName(name string) (canonical, yearToken string) {
	canonical = strings.TrimSpace(name)
	if m := classSuffix.FindStringSubmatch(canonical); m != nil {
		canonical = strings.TrimSpace(classSuffix.ReplaceAllString(canonical, ""))
		if yy, err := strconv.Atoi(m[2]); err == nil {
			start := 2000 + yy
			yearToken = fmt.Sprintf("%d-%d", start, start+1)
		}
		return canonical, yearToken
	}
	canonical = strings.TrimSpace(parenSuffix.ReplaceAllString(canonical, ""))
	return canonical, ""
}

// ParseDayOfWeek normalizes a day cell to the 1=Sunday…7=Saturday
// convention. Accepts "CN"/"Chủ nhật", the source's native 0, and the
// Vietnamese ordinal days ("Thứ 2" … "Thứ 7", or bare 2…7).
func ParseDayOfWeek(cell string) (int, bool) {
	n := extract.Normalize(cell)
	if n == "" {
		return 0, false
	}
	if n == "cn" || strings.Contains(n, "chu nhat") {
		return 1, true
	}
	m := daySuffixNum.FindString(n)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	switch {
	case v == 0 || v == 1:
		return 1, true // Sunday, whichever way the source wrote it
	case v >= 2 && v <= 7:
		return v, true
	}
	return 0, false
}

var slotCodePattern = regexp.MustCompile(`(\d+)\s*(?:->|→|-|đến)\s*(\d+)`)

// ParseTimeSlotCode normalizes a period cell to the canonical
// "from->to" form; a single period "4" becomes "4->4".
func ParseTimeSlotCode(cell string) (string, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return "", false
	}
	if m := slotCodePattern.FindStringSubmatch(s); m != nil {
		return m[1] + "->" + m[2], true
	}
	if v := daySuffixNum.FindString(s); v != "" {
		return v + "->" + v, true
	}
	return "", false
}

// SplitRoomCell separates "301-A1" into room and building when the
// document has no building column. Names not led by a digit stay whole
// (they are placeholders, never conflict-checked anyway).
func SplitRoomCell(cell string) (room, building string) {
	room = strings.TrimSpace(cell)
	if room == "" {
		return "", ""
	}
	if room[0] < '0' || room[0] > '9' {
		return room, ""
	}
	if idx := strings.IndexAny(room, "-"); idx > 0 {
		b := strings.TrimSpace(room[idx+1:])
		r := strings.TrimSpace(room[:idx])
		if r != "" && b != "" {
			return r, b
		}
	}
	return room, ""
}
