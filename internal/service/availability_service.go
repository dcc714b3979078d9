package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietbevis/kma-training-support-sub000/internal/dto"
	"github.com/vietbevis/kma-training-support-sub000/internal/ingest"
	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
	"github.com/vietbevis/kma-training-support-sub000/pkg/redis"
)

const availabilityCachePrefix = "availability:"

var (
	// ErrBuildingNotFound no building with the given id.
	ErrBuildingNotFound = errors.New("building not found")
	// ErrInvalidDate the date is not a yyyy-mm-dd calendar date.
	ErrInvalidDate = errors.New("invalid date, expected yyyy-mm-dd")
)

// AvailabilityService answers "which rooms of this building are free
// at (date, period)". Snapshots are cached under a short TTL; any
// schedule write invalidates the whole prefix.
type AvailabilityService interface {
	GetRoomAvailability(ctx context.Context, buildingID, date, timeSlotCode string) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, cache: cache, logger: logger}
}

func (s *availabilityService) GetRoomAvailability(ctx context.Context, buildingID, date, timeSlotCode string) (*dto.AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	slotCode, ok := ingest.ParseTimeSlotCode(timeSlotCode)
	if !ok {
		slotCode = timeSlotCode
	}
	// time.Weekday counts Sunday as 0; bookings count it as 1
	dayOfWeek := int(day.Weekday()) + 1

	cacheKey := fmt.Sprintf("%s%s:%s:%s", availabilityCachePrefix, buildingID, date, slotCode)
	if s.cache != nil {
		if raw, hit := s.cache.GetJSON(ctx, cacheKey); hit {
			var cached dto.AvailabilityResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	building, err := s.repo.Classroom.GetBuilding(ctx, buildingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}

	rooms, err := s.repo.Classroom.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.repo.ClassSchedule.FindOccupied(ctx, building.Name, dayOfWeek, slotCode, date)
	if err != nil {
		return nil, err
	}

	occupiedByRoom := make(map[string]repository.OccupiedSlot, len(occupied))
	for _, o := range occupied {
		if _, seen := occupiedByRoom[o.RoomName]; !seen {
			occupiedByRoom[o.RoomName] = o
		}
	}

	resp := &dto.AvailabilityResponse{
		BuildingID:   buildingID,
		BuildingName: building.Name,
		Date:         date,
		DayOfWeek:    dayOfWeek,
		TimeSlotCode: slotCode,
		Rooms:        make([]dto.RoomAvailability, 0, len(rooms)),
	}
	for _, room := range rooms {
		entry := dto.RoomAvailability{
			ClassroomID: room.ClassroomID,
			RoomName:    room.RoomName,
		}
		if o, busy := occupiedByRoom[room.RoomName]; busy {
			entry.IsOccupied = true
			entry.Detail = &dto.OccupancyDetail{
				ScheduleID:   o.ScheduleID,
				ClassName:    o.ClassName,
				TimeSlotCode: o.TimeSlotCode,
				StartDate:    o.StartDate,
				EndDate:      o.EndDate,
			}
		}
		resp.Rooms = append(resp.Rooms, entry)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			s.cache.SetJSON(ctx, cacheKey, raw)
		}
	}
	return resp, nil
}
