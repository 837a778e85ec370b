package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
)

// AvailabilityService read-side проекции для календарей: слоты с числом
// живых бронирований. Ничего не мутирует, читает состояние на момент запроса.
type AvailabilityService struct {
	slots    SlotStore
	bookings BookingStore
	clock    func() time.Time
}

func NewAvailabilityService(slots SlotStore, bookings BookingStore) *AvailabilityService {
	return &AvailabilityService{
		slots:    slots,
		bookings: bookings,
		clock:    time.Now,
	}
}

// OwnerCalendar все слоты преподавателя с числом бронирований
func (s *AvailabilityService) OwnerCalendar(ctx context.Context, caller model.Caller) ([]*model.SlotWithCount, error) {
	if !caller.IsInstructor() {
		return nil, apperr.Authorization("only instructors have an owner calendar")
	}

	slots, err := s.slots.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("owner calendar: %w", err)
	}

	return slots, nil
}

// PublicCalendar будущие слоты преподавателя для любого вызывающего.
// includeBooked=false скрывает слоты, заполненные до вместимости.
func (s *AvailabilityService) PublicCalendar(ctx context.Context, ownerID int64, includeBooked bool) ([]*model.SlotWithCount, error) {
	slots, err := s.slots.ListPublic(ctx, ownerID, includeBooked, s.clock())
	if err != nil {
		return nil, fmt.Errorf("public calendar: %w", err)
	}

	return slots, nil
}

// StudentCalendar бронирования студента вместе со слотами и преподавателями
func (s *AvailabilityService) StudentCalendar(ctx context.Context, caller model.Caller) ([]*model.Booking, error) {
	if !caller.IsStudent() {
		return nil, apperr.Authorization("only students have a booking calendar")
	}

	bookings, err := s.bookings.ListByStudent(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("student calendar: %w", err)
	}

	return bookings, nil
}
