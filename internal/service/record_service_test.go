package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"go.uber.org/zap"
)

func newRecordService(store *fakeStore) *RecordService {
	return NewRecordService(bookingStoreAdapter{store}, store, store, zap.NewNop())
}

func setupBooking(t *testing.T, store *fakeStore, catalog *fakeCatalog) *model.Booking {
	t.Helper()
	catalog.addSubject(3, "English", true)
	slot := createOneToOne(t, store, instructor.UserID, 10)
	booking, err := newBookingService(store, catalog).BookSlot(context.Background(), student, slot.ID, i64Ptr(3), "")
	if err != nil {
		t.Fatalf("book slot: %v", err)
	}
	return booking
}

func TestRecordRolePartitioning(t *testing.T) {
	store := newFakeStore()
	svc := newRecordService(store)
	ctx := context.Background()

	booking := setupBooking(t, store, newFakeCatalog())

	if err := svc.WriteStudentNotes(ctx, student, booking.ID, "test"); err != nil {
		t.Fatalf("student writes own notes: %v", err)
	}

	// Преподаватель не может писать студенческие заметки
	err := svc.WriteStudentNotes(ctx, instructor, booking.ID, "hijack")
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	if err := svc.WriteInstructorSummary(ctx, instructor, booking.ID, "good progress", "ex. 1-5"); err != nil {
		t.Fatalf("instructor writes summary: %v", err)
	}

	// Студент не может писать итог занятия
	err = svc.WriteInstructorSummary(ctx, student, booking.ID, "self-praise", "")
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}

	// Обе стороны читают документ целиком
	for _, caller := range []model.Caller{student, instructor} {
		record, err := svc.GetRecord(ctx, caller, booking.ID)
		if err != nil {
			t.Fatalf("get record for %d: %v", caller.UserID, err)
		}
		if record.StudentNotes != "test" {
			t.Fatalf("expected student notes, got %q", record.StudentNotes)
		}
		if record.InstructorSummary != "good progress" || record.Homework != "ex. 1-5" {
			t.Fatalf("expected instructor fields, got %+v", record)
		}
	}
}

func TestRecordAccess(t *testing.T) {
	store := newFakeStore()
	svc := newRecordService(store)
	ctx := context.Background()

	booking := setupBooking(t, store, newFakeCatalog())

	// Пустой документ до первой записи
	record, err := svc.GetRecord(ctx, student, booking.ID)
	if err != nil {
		t.Fatalf("get empty record: %v", err)
	}
	if record.StudentNotes != "" || record.InstructorSummary != "" || record.Homework != "" {
		t.Fatalf("expected empty defaults, got %+v", record)
	}
	if record.BookingID != booking.ID {
		t.Fatalf("expected booking id %d, got %d", booking.ID, record.BookingID)
	}

	if _, err := svc.GetRecord(ctx, studentB, booking.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error for stranger, got %v", err)
	}

	if _, err := svc.GetRecord(ctx, student, 404); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown booking, got %v", err)
	}

	if err := svc.WriteStudentNotes(ctx, student, 404, "x"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown booking, got %v", err)
	}
}

func TestRecordDeletedWithBooking(t *testing.T) {
	store := newFakeStore()
	catalog := newFakeCatalog()
	svc := newRecordService(store)
	bookingSvc := newBookingService(store, catalog)
	ctx := context.Background()

	booking := setupBooking(t, store, catalog)

	if err := svc.WriteStudentNotes(ctx, student, booking.ID, "keep this?"); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	// Отмена бронирования забирает документ с собой
	if err := bookingSvc.CancelBooking(ctx, student, booking.SlotID); err != nil {
		t.Fatalf("cancel booking: %v", err)
	}

	record, err := store.Get(ctx, booking.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if record != nil {
		t.Fatalf("expected record deleted with booking, got %+v", record)
	}
}
