package dto

// OccupancyDetail the first committed booking found for a room.
type OccupancyDetail struct {
	ScheduleID   string `json:"schedule_id"`
	ClassName    string `json:"class_name"`
	TimeSlotCode string `json:"time_slot_code"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// RoomAvailability point-in-time occupancy of one room.
type RoomAvailability struct {
	ClassroomID string           `json:"classroom_id"`
	RoomName    string           `json:"room_name"`
	IsOccupied  bool             `json:"is_occupied"`
	Detail      *OccupancyDetail `json:"detail,omitempty"`
}

// AvailabilityResponse occupancy snapshot for all rooms of a building
// at (date, slot code).
type AvailabilityResponse struct {
	BuildingID   string             `json:"building_id"`
	BuildingName string             `json:"building_name"`
	Date         string             `json:"date"`
	DayOfWeek    int                `json:"day_of_week"`
	TimeSlotCode string             `json:"time_slot_code"`
	Rooms        []RoomAvailability `json:"rooms"`
}
