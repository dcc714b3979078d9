package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietbevis/kma-training-support-sub000/internal/model"
	"github.com/vietbevis/kma-training-support-sub000/internal/repository"
)

// ErrScheduleConflict the candidate slot double-books a physical room.
var ErrScheduleConflict = errors.New("room already booked for this time slot")

// ConflictError carries the offending slot and the committed bookings
// it overlaps. Unwraps to ErrScheduleConflict for handler mapping.
type ConflictError struct {
	RoomName     string
	BuildingName string
	DayOfWeek    int
	TimeSlotCode string
	Hits         []repository.OverlapHit
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("room %s", e.RoomName)
	if e.BuildingName != "" {
		msg += fmt.Sprintf(" (building %s)", e.BuildingName)
	}
	msg += fmt.Sprintf(" already booked on day %d, period %s", e.DayOfWeek, e.TimeSlotCode)
	if len(e.Hits) > 0 {
		msg += fmt.Sprintf(" by %q [%s..%s]", e.Hits[0].ClassName, e.Hits[0].StartDate, e.Hits[0].EndDate)
	}
	return msg
}

func (e *ConflictError) Unwrap() error { return ErrScheduleConflict }

// checkSlotConflict tests one candidate slot against the committed
// conflict namespace. Placeholder rooms (names not starting with a
// digit) are exempt: the check passes without touching the store.
// Overlap is inclusive at both ends:
// existing.start <= candidate.end && existing.end >= candidate.start.
func checkSlotConflict(ctx context.Context, schedules repository.ClassScheduleRepository, slot model.TimeSlot, excludeID string) error {
	if model.IsPlaceholderRoom(slot.RoomName) {
		return nil
	}

	hits, err := schedules.FindOverlaps(ctx, repository.OverlapQuery{
		RoomName:     slot.RoomName,
		BuildingName: slot.BuildingName,
		DayOfWeek:    slot.DayOfWeek,
		TimeSlotCode: slot.TimeSlotCode,
		StartDate:    slot.StartDate,
		EndDate:      slot.EndDate,
		ExcludeID:    excludeID,
	})
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		return nil
	}
	return &ConflictError{
		RoomName:     slot.RoomName,
		BuildingName: slot.BuildingName,
		DayOfWeek:    slot.DayOfWeek,
		TimeSlotCode: slot.TimeSlotCode,
		Hits:         hits,
	}
}

// checkScheduleConflicts runs the slot check for every slot of a
// schedule, surfacing the first conflict found.
func checkScheduleConflicts(ctx context.Context, schedules repository.ClassScheduleRepository, slots []model.TimeSlot, excludeID string) error {
	for _, slot := range slots {
		if err := checkSlotConflict(ctx, schedules, slot, excludeID); err != nil {
			return err
		}
	}
	return nil
}
