package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field logical column of a schedule document.
type Field string

const (
	FieldCourseCode       Field = "course_code"
	FieldClassName        Field = "class_name"
	FieldClassType        Field = "class_type"
	FieldCredits          Field = "credits"
	FieldStudentCount     Field = "student_count"
	FieldTheoryHours      Field = "theory_hours"
	FieldActualHours      Field = "actual_hours"
	FieldCrowdCoefficient Field = "crowd_class_coefficient"
	FieldOvertimeCoeff    Field = "overtime_coefficient"
	FieldStandardHours    Field = "standard_hours"
	FieldDayOfWeek        Field = "day_of_week"
	FieldTimeSlotCode     Field = "time_slot_code"
	FieldRoomName         Field = "room_name"
	FieldBuildingName     Field = "building_name"
	FieldStartDate        Field = "start_date"
	FieldEndDate          Field = "end_date"
	FieldLecturerName     Field = "lecturer_name"
)

// ColumnMap maps a logical field to its column index in the data rows.
type ColumnMap map[Field]int

// Cell returns the trimmed cell for a field, or "" when the column is
// absent or the row is too short.
func (m ColumnMap) Cell(row []string, f Field) string {
	idx, ok := m[f]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Has reports whether the document declared a column for the field.
func (m ColumnMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips Vietnamese diacritics and collapses
// whitespace so header cells compare by keyword substring.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(diacriticFolder, s); err == nil {
		s = folded
	}
	// đ survives NFD decomposition
	s = strings.ReplaceAll(s, "đ", "d")
	return strings.Join(strings.Fields(s), " ")
}

// headerMarkers — a row qualifies as the header when any cell hits one
// of these. "tt"/"stt" must match the whole cell; the rest by substring.
var headerMarkers = []struct {
	keyword string
	exact   bool
}{
	{"tt", true},
	{"stt", true},
	{"ma hoc phan", false},
	{"lop hoc phan", false},
	{"so tin chi", false},
	{"tin chi", false},
	{"gio chuan", false},
}

// FindHeader scans rows top-down for the first keyword-qualified
// header row. Returns -1 when none exists.
func FindHeader(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			n := Normalize(cell)
			if n == "" {
				continue
			}
			for _, m := range headerMarkers {
				if m.exact && n == m.keyword {
					return i
				}
				if !m.exact && strings.Contains(n, m.keyword) {
					return i
				}
			}
		}
	}
	return -1
}

// FindHeaderLoose is the Word-table fallback: the row with the most
// non-empty cells, requiring at least 10 columns. Returns -1 when no
// row qualifies.
func FindHeaderLoose(rows [][]string) int {
	best, bestCount := -1, 0
	for i, row := range rows {
		count := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				count++
			}
		}
		if count >= 10 && count > bestCount {
			best, bestCount = i, count
		}
	}
	return best
}

// fieldMatchers in priority order: specific keywords first so that
// e.g. "so tiet lt" binds theory hours before the generic "tiet"
// binds the period column, and "he so lop dong" wins over "lop".
var fieldMatchers = []struct {
	field    Field
	keywords []string
}{
	{FieldCourseCode, []string{"ma hoc phan", "ma hp", "ma mon"}},
	{FieldCrowdCoefficient, []string{"he so lop dong", "lop dong"}},
	{FieldOvertimeCoeff, []string{"he so ngoai gio", "ngoai gio"}},
	{FieldStandardHours, []string{"gio chuan"}},
	{FieldClassType, []string{"hinh thuc", "loai lop"}},
	{FieldCredits, []string{"so tin chi", "tin chi", "so tc"}},
	{FieldStudentCount, []string{"so sinh vien", "si so", "so sv"}},
	{FieldTheoryHours, []string{"so tiet lt", "ly thuyet", "tiet lt"}},
	{FieldActualHours, []string{"so tiet thuc", "thuc day", "tiet th"}},
	{FieldClassName, []string{"lop hoc phan", "ten hoc phan", "ten lop", "lop"}},
	{FieldStartDate, []string{"tu ngay", "ngay bat dau", "bat dau"}},
	{FieldEndDate, []string{"den ngay", "ngay ket thuc", "ket thuc"}},
	{FieldLecturerName, []string{"giang vien", "gv"}},
	{FieldBuildingName, []string{"toa nha", "nha"}},
	{FieldRoomName, []string{"giang duong", "phong"}},
	{FieldDayOfWeek, []string{"thu"}},
	{FieldTimeSlotCode, []string{"tiet"}},
}

// MapColumns builds the field → column-index map from a header row by
// fuzzy keyword matching. Later duplicate matches are ignored: the
// first column wins for each field and each column binds one field.
func MapColumns(header []string) ColumnMap {
	cols := make(ColumnMap)
	claimed := make(map[int]bool)

	for _, matcher := range fieldMatchers {
		if cols.Has(matcher.field) {
			continue
		}
		for idx, cell := range header {
			if claimed[idx] {
				continue
			}
			n := Normalize(cell)
			if n == "" {
				continue
			}
			for _, kw := range matcher.keywords {
				if strings.Contains(n, kw) {
					cols[matcher.field] = idx
					claimed[idx] = true
					break
				}
			}
			if cols.Has(matcher.field) {
				break
			}
		}
	}
	return cols
}
