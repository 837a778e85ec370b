package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
)

// Интерфейсы хранилищ. Реализуются репозиториями поверх pgx,
// в тестах подменяются фейками.

type SlotStore interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	Delete(ctx context.Context, slotID, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.SlotWithCount, error)
	ListPublic(ctx context.Context, ownerID int64, includeBooked bool, now time.Time) ([]*model.SlotWithCount, error)
}

type BookingStore interface {
	Book(ctx context.Context, slotID, studentID, subjectID int64, note string) (*model.Booking, bool, error)
	Cancel(ctx context.Context, slotID, studentID int64) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListBySlot(ctx context.Context, slotID int64) ([]*model.Booking, error)
}

type RecordStore interface {
	Get(ctx context.Context, bookingID int64) (*model.SessionRecord, error)
	UpsertStudentNotes(ctx context.Context, bookingID int64, notes string) error
	UpsertInstructorSummary(ctx context.Context, bookingID int64, summary, homework string) error
}

// UserStore данные пользователей для проекций, принадлежат identity-провайдеру
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// SubjectCatalog внешний каталог предметов: существование предмета
// и право преподавателя его вести
type SubjectCatalog interface {
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	IsInstructorAuthorized(ctx context.Context, instructorID, subjectID int64) (bool, error)
}
