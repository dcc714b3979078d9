package model

// Building groups classrooms for the availability screen.
type Building struct {
	BuildingID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"building_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	SoftDeleteModel

	Classrooms []Classroom `gorm:"foreignKey:BuildingID" json:"classrooms,omitempty"`
}

func (Building) TableName() string { return "buildings" }

// Classroom a physically bookable room. Room names starting with a
// digit participate in conflict checking; anything else ("Online",
// "TBD") is a placeholder.
type Classroom struct {
	ClassroomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	RoomName    string `gorm:"type:varchar(100);not null"                     json:"room_name"`
	BuildingID  string `gorm:"type:uuid;not null"                             json:"building_id"`
	Capacity    *int   `gorm:"type:smallint"                                  json:"capacity,omitempty"`
	SoftDeleteModel

	Building *Building `gorm:"foreignKey:BuildingID;references:BuildingID" json:"building,omitempty"`
}

func (Classroom) TableName() string { return "classrooms" }
