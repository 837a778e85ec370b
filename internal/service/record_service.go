package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"go.uber.org/zap"
)

// RecordService общий документ заметок к бронированию с разделением
// полей по ролям: студент пишет свои заметки, владелец слота итог и
// домашнее задание, читают обе стороны. Запись создаётся лениво при
// первой записи и удаляется вместе с бронированием.
type RecordService struct {
	bookings BookingStore
	slots    SlotStore
	records  RecordStore
	logger   *zap.Logger
}

func NewRecordService(bookings BookingStore, slots SlotStore, records RecordStore, logger *zap.Logger) *RecordService {
	return &RecordService{
		bookings: bookings,
		slots:    slots,
		records:  records,
		logger:   logger,
	}
}

// resolveBooking находит бронирование и слот для проверок доступа
func (s *RecordService) resolveBooking(ctx context.Context, bookingID int64) (*model.Booking, *model.Slot, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, nil, apperr.NotFound("booking %d not found", bookingID)
	}

	slot, err := s.slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return nil, nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, nil, apperr.NotFound("slot %d not found", booking.SlotID)
	}

	return booking, slot, nil
}

// GetRecord возвращает запись занятия, пустую если ещё не создана.
// Доступна студенту бронирования и владельцу слота.
func (s *RecordService) GetRecord(ctx context.Context, caller model.Caller, bookingID int64) (*model.SessionRecord, error) {
	booking, slot, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.StudentID != caller.UserID && slot.OwnerID != caller.UserID {
		return nil, apperr.Authorization("session record of booking %d is not visible to caller", bookingID)
	}

	record, err := s.records.Get(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get session record: %w", err)
	}
	if record == nil {
		return &model.SessionRecord{BookingID: bookingID}, nil
	}

	return record, nil
}

// WriteStudentNotes пишет студенческие заметки, только студент бронирования
func (s *RecordService) WriteStudentNotes(ctx context.Context, caller model.Caller, bookingID int64, notes string) error {
	booking, _, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.StudentID != caller.UserID {
		return apperr.Authorization("student notes of booking %d are writable only by its student", bookingID)
	}

	if err := s.records.UpsertStudentNotes(ctx, bookingID, notes); err != nil {
		return fmt.Errorf("write student notes: %w", err)
	}

	s.logger.Info("Student notes written",
		zap.Int64("booking_id", bookingID),
		zap.Int64("student_id", caller.UserID),
	)

	return nil
}

// WriteInstructorSummary пишет итог занятия и домашнее задание, только владелец слота
func (s *RecordService) WriteInstructorSummary(ctx context.Context, caller model.Caller, bookingID int64, summary, homework string) error {
	_, slot, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if slot.OwnerID != caller.UserID {
		return apperr.Authorization("instructor summary of booking %d is writable only by the slot owner", bookingID)
	}

	if err := s.records.UpsertInstructorSummary(ctx, bookingID, summary, homework); err != nil {
		return fmt.Errorf("write instructor summary: %w", err)
	}

	s.logger.Info("Instructor summary written",
		zap.Int64("booking_id", bookingID),
		zap.Int64("instructor_id", caller.UserID),
	)

	return nil
}
