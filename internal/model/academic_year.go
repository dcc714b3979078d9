package model

// AcademicYear reference entity keyed by its year code ("2025-2026").
type AcademicYear struct {
	AcademicYearID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academic_year_id"`
	YearCode       string `gorm:"type:varchar(20);not null"                      json:"year_code"`
	StartYear      int    `gorm:"type:smallint;not null"                         json:"start_year"`
	EndYear        int    `gorm:"type:smallint;not null"                         json:"end_year"`
	SoftDeleteModel
}

func (AcademicYear) TableName() string { return "academic_years" }
