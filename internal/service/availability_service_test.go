package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/vietbevis/kma-training-support-sub000/internal/dto"
	"github.com/vietbevis/kma-training-support-sub000/internal/model"
)

func TestGetRoomAvailability(t *testing.T) {
	repo, _, _, _, classrooms := newTestDeps()
	classrooms.buildings = []model.Building{{BuildingID: "b-1", Name: "TA1"}}
	classrooms.rooms = []model.Classroom{
		{ClassroomID: "r-1", RoomName: "301", BuildingID: "b-1"},
		{ClassroomID: "r-2", RoomName: "302", BuildingID: "b-1"},
	}

	schedules := NewScheduleService(repo, nil, zap.NewNop())
	if _, err := schedules.Create(context.Background(), baseCreateRequest(), nil); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	// 2025-01-13 is a Monday, day 2 under the Sunday=1 convention
	resp, err := svc.GetRoomAvailability(context.Background(), "b-1", "2025-01-13", "1->3")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if resp.DayOfWeek != 2 {
		t.Errorf("day of week = %d, want 2", resp.DayOfWeek)
	}
	if len(resp.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2", len(resp.Rooms))
	}

	byRoom := make(map[string]dto.RoomAvailability)
	for _, r := range resp.Rooms {
		byRoom[r.RoomName] = r
	}
	if !byRoom["301"].IsOccupied {
		t.Error("301 should be occupied")
	}
	if byRoom["301"].Detail == nil || byRoom["301"].Detail.ClassName != "An toàn mạng-1-25" {
		t.Errorf("301 detail = %+v", byRoom["301"].Detail)
	}
	if byRoom["302"].IsOccupied {
		t.Error("302 should be free")
	}

	// a date outside the booking window leaves every room free
	resp, err = svc.GetRoomAvailability(context.Background(), "b-1", "2025-03-03", "1->3")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	for _, r := range resp.Rooms {
		if r.IsOccupied {
			t.Errorf("room %s should be free outside the booking window", r.RoomName)
		}
	}
}

func TestGetRoomAvailabilityErrors(t *testing.T) {
	repo, _, _, _, _ := newTestDeps()
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	if _, err := svc.GetRoomAvailability(context.Background(), "b-1", "13/01/2025", "1->3"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.GetRoomAvailability(context.Background(), "missing", "2025-01-13", "1->3"); !errors.Is(err, ErrBuildingNotFound) {
		t.Errorf("err = %v, want ErrBuildingNotFound", err)
	}
}

func TestGetRoomAvailabilityNormalizesSlotCode(t *testing.T) {
	repo, _, _, _, classrooms := newTestDeps()
	classrooms.buildings = []model.Building{{BuildingID: "b-1", Name: "TA1"}}
	classrooms.rooms = []model.Classroom{{ClassroomID: "r-1", RoomName: "301", BuildingID: "b-1"}}

	schedules := NewScheduleService(repo, nil, zap.NewNop())
	if _, err := schedules.Create(context.Background(), baseCreateRequest(), nil); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}

	svc := NewAvailabilityService(repo, nil, zap.NewNop())
	resp, err := svc.GetRoomAvailability(context.Background(), "b-1", "2025-01-13", "1-3")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if resp.TimeSlotCode != "1->3" {
		t.Errorf("slot code = %q, want normalized 1->3", resp.TimeSlotCode)
	}
	if !resp.Rooms[0].IsOccupied {
		t.Error("301 should be occupied under the normalized code")
	}
}
