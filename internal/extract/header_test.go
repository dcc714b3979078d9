package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Mã học phần", "ma hoc phan"},
		{"  Giảng   Đường ", "giang duong"},
		{"SỐ TÍN CHỈ", "so tin chi"},
		{"Thứ", "thu"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindHeader(t *testing.T) {
	rows := [][]string{
		{"HỌC VIỆN KỸ THUẬT MẬT MÃ"},
		{"THỜI KHÓA BIỂU HỌC KỲ 1 NĂM HỌC 2025-2026"},
		{"TT", "Mã học phần", "Lớp học phần", "Số tín chỉ"},
		{"1", "ATM01", "An toàn mạng-1-25", "3"},
	}
	if got := FindHeader(rows); got != 2 {
		t.Errorf("FindHeader = %d, want 2", got)
	}

	if got := FindHeader([][]string{{"a", "b"}, {"c"}}); got != -1 {
		t.Errorf("FindHeader no marker = %d, want -1", got)
	}

	// "tt" must match the whole cell, not a substring
	if got := FindHeader([][]string{{"phát triển"}}); got != -1 {
		t.Errorf("FindHeader substring tt = %d, want -1", got)
	}
}

func TestFindHeaderLoose(t *testing.T) {
	rows := [][]string{
		{"tiêu đề"},
		{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
		{"1", "2", "3"},
	}
	if got := FindHeaderLoose(rows); got != 1 {
		t.Errorf("FindHeaderLoose = %d, want 1", got)
	}

	// fewer than 10 filled cells never qualifies
	if got := FindHeaderLoose([][]string{{"a", "b", "c"}}); got != -1 {
		t.Errorf("FindHeaderLoose sparse = %d, want -1", got)
	}
}

func TestMapColumns(t *testing.T) {
	header := []string{
		"TT", "Mã học phần", "Lớp học phần", "Số tín chỉ", "Số SV",
		"Số tiết LT", "Hệ số lớp đông", "Giờ chuẩn",
		"Thứ", "Tiết", "Giảng đường", "Từ ngày", "Đến ngày", "Giảng viên",
	}
	cols := MapColumns(header)

	want := map[Field]int{
		FieldCourseCode:       1,
		FieldClassName:        2,
		FieldCredits:          3,
		FieldStudentCount:     4,
		FieldTheoryHours:      5,
		FieldCrowdCoefficient: 6,
		FieldStandardHours:    7,
		FieldDayOfWeek:        8,
		FieldTimeSlotCode:     9,
		FieldRoomName:         10,
		FieldStartDate:        11,
		FieldEndDate:          12,
		FieldLecturerName:     13,
	}
	for f, idx := range want {
		if cols[f] != idx {
			t.Errorf("cols[%s] = %d, want %d", f, cols[f], idx)
		}
	}
}

// specific keywords must claim their columns before the generic ones:
// "Hệ số lớp đông" is not the class-name column and "Số tiết LT" is
// not the period column.
func TestMapColumnsPriority(t *testing.T) {
	header := []string{"Hệ số lớp đông", "Lớp học phần", "Số tiết LT", "Tiết"}
	cols := MapColumns(header)

	if cols[FieldCrowdCoefficient] != 0 {
		t.Errorf("crowd coefficient column = %d, want 0", cols[FieldCrowdCoefficient])
	}
	if cols[FieldClassName] != 1 {
		t.Errorf("class name column = %d, want 1", cols[FieldClassName])
	}
	if cols[FieldTheoryHours] != 2 {
		t.Errorf("theory hours column = %d, want 2", cols[FieldTheoryHours])
	}
	if cols[FieldTimeSlotCode] != 3 {
		t.Errorf("period column = %d, want 3", cols[FieldTimeSlotCode])
	}
}

func TestColumnMapCell(t *testing.T) {
	cols := ColumnMap{FieldClassName: 1}
	row := []string{"1", "  An toàn mạng-1-25  "}

	if got := cols.Cell(row, FieldClassName); got != "An toàn mạng-1-25" {
		t.Errorf("Cell = %q", got)
	}
	if got := cols.Cell(row, FieldRoomName); got != "" {
		t.Errorf("Cell absent field = %q, want empty", got)
	}
	if got := cols.Cell([]string{"1"}, FieldClassName); got != "" {
		t.Errorf("Cell short row = %q, want empty", got)
	}
}
