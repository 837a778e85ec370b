package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"go.uber.org/zap"
)

// BookingService жизненный цикл бронирований. Проверка вместимости и
// вставка выполняются в одной транзакции хранилища, повторная запись
// той же пары (слот, студент) идемпотентна.
type BookingService struct {
	slots    SlotStore
	bookings BookingStore
	subjects SubjectCatalog
	users    UserStore
	logger   *zap.Logger
	clock    func() time.Time
}

func NewBookingService(
	slots SlotStore,
	bookings BookingStore,
	subjects SubjectCatalog,
	users UserStore,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		slots:    slots,
		bookings: bookings,
		subjects: subjects,
		users:    users,
		logger:   logger,
		clock:    time.Now,
	}
}

// BookSlot записывает студента на слот.
// Для группового слота предмет наследуется от слота, для индивидуального
// его выбирает студент и он проверяется по каталогу.
func (s *BookingService) BookSlot(ctx context.Context, caller model.Caller, slotID int64, subjectID *int64, note string) (*model.Booking, error) {
	if !caller.IsStudent() {
		return nil, apperr.Authorization("only students can book slots")
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, apperr.NotFound("slot %d not found", slotID)
	}

	if !slot.StartTime.After(s.clock()) {
		return nil, apperr.Validation("slot %d is in the past", slotID)
	}

	resolvedSubject, err := s.resolveSubject(ctx, slot, subjectID)
	if err != nil {
		return nil, err
	}

	booking, created, err := s.bookings.Book(ctx, slotID, caller.UserID, resolvedSubject, note)
	if err != nil {
		return nil, fmt.Errorf("book slot: %w", err)
	}

	if created {
		s.logger.Info("Slot booked",
			zap.Int64("booking_id", booking.ID),
			zap.Int64("slot_id", slotID),
			zap.Int64("student_id", caller.UserID),
			zap.Int64("subject_id", resolvedSubject),
		)
	}

	booking.Slot = slot
	return booking, nil
}

func (s *BookingService) resolveSubject(ctx context.Context, slot *model.Slot, subjectID *int64) (int64, error) {
	if slot.LessonType == model.LessonTypeGroup {
		// Предмет группового слота фиксирован при создании
		return *slot.SubjectID, nil
	}

	if subjectID == nil {
		return 0, apperr.Validation("one-to-one bookings require a subject")
	}

	subject, err := s.subjects.GetByID(ctx, *subjectID)
	if err != nil {
		return 0, fmt.Errorf("get subject: %w", err)
	}
	if subject == nil || !subject.IsActive {
		return 0, apperr.Validation("subject %d does not exist or is inactive", *subjectID)
	}

	return *subjectID, nil
}

// CancelBooking снимает бронирование студента. Ограничений по времени нет:
// прошедшее занятие тоже можно снять, убрав его из списка.
func (s *BookingService) CancelBooking(ctx context.Context, caller model.Caller, slotID int64) error {
	if !caller.IsStudent() {
		return apperr.Authorization("only students can cancel their bookings")
	}

	if err := s.bookings.Cancel(ctx, slotID, caller.UserID); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	s.logger.Info("Booking canceled",
		zap.Int64("slot_id", slotID),
		zap.Int64("student_id", caller.UserID),
	)

	return nil
}

// SlotDetails слот владельца вместе с записанными студентами
type SlotDetails struct {
	Slot     *model.Slot      `json:"slot"`
	Bookings []*model.Booking `json:"bookings"`
}

// GetSlotDetails возвращает слот и его бронирования, только владельцу
func (s *BookingService) GetSlotDetails(ctx context.Context, caller model.Caller, slotID int64) (*SlotDetails, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, apperr.NotFound("slot %d not found", slotID)
	}

	if slot.OwnerID != caller.UserID {
		return nil, apperr.Authorization("slot %d does not belong to caller", slotID)
	}

	bookings, err := s.bookings.ListBySlot(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("list slot bookings: %w", err)
	}

	return &SlotDetails{Slot: slot, Bookings: bookings}, nil
}

// GetBookingDetails возвращает бронирование со слотом, доступно студенту
// бронирования и владельцу слота
func (s *BookingService) GetBookingDetails(ctx context.Context, caller model.Caller, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}

	slot, err := s.slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, apperr.NotFound("slot %d not found", booking.SlotID)
	}

	if booking.StudentID != caller.UserID && slot.OwnerID != caller.UserID {
		return nil, apperr.Authorization("booking %d is not visible to caller", bookingID)
	}

	student, err := s.users.GetByID(ctx, booking.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	owner, err := s.users.GetByID(ctx, slot.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}

	booking.Slot = slot
	booking.Student = student
	booking.Owner = owner
	return booking, nil
}
