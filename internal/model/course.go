package model

// Course reference entity. Matched primarily by
// (course_name, semester, credits) and secondarily by course_code.
type Course struct {
	CourseID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	CourseName string  `gorm:"type:varchar(255);not null"                     json:"course_name"`
	CourseCode *string `gorm:"type:varchar(50)"                               json:"course_code,omitempty"`
	Semester   string  `gorm:"type:varchar(5);not null"                       json:"semester"` // 1.1 | 1.2 | 2.1 | 2.2
	Credits    int     `gorm:"type:smallint;not null;default:0"               json:"credits"`
	SoftDeleteModel
}

func (Course) TableName() string { return "courses" }
