package dto

// ImportTimetableRequest contextual fields accompanying the uploaded
// weekly timetable document.
type ImportTimetableRequest struct {
	Semester       string `form:"semester"`
	AcademicYearID string `form:"academic_year_id"`
}

// ImportStandardHoursRequest contextual fields for the semester
// standard-hours table.
type ImportStandardHoursRequest struct {
	Semester       string `form:"semester"`
	AcademicYearID string `form:"academic_year_id"`
}

// RowFailure one row that could not be committed. The import keeps
// going; failures are reported, never fatal.
type RowFailure struct {
	Row    int    `json:"row"`
	Data   string `json:"data"`
	Reason string `json:"reason"`
}

// ImportSummary per-row partial-failure accounting for one import.
type ImportSummary struct {
	Success int          `json:"success"`
	Skipped int          `json:"skipped"`
	Errors  []RowFailure `json:"errors"`
}
