package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"go.uber.org/zap"
)

// SlotService жизненный цикл слотов доступности: создание с проверкой
// пересечения окон владельца и удаление, пока нет бронирований.
// Слоты не редактируются на месте, только delete+recreate.
type SlotService struct {
	slots    SlotStore
	subjects SubjectCatalog
	logger   *zap.Logger
	clock    func() time.Time
}

func NewSlotService(slots SlotStore, subjects SubjectCatalog, logger *zap.Logger) *SlotService {
	return &SlotService{
		slots:    slots,
		subjects: subjects,
		logger:   logger,
		clock:    time.Now,
	}
}

type CreateSlotInput struct {
	StartTime    time.Time
	EndTime      time.Time
	Capacity     int
	TeachingMode model.TeachingMode
	LessonType   model.LessonType
	Price        int
	Location     *string
	SubjectID    *int64
}

// CreateSlot создаёт слот преподавателя
func (s *SlotService) CreateSlot(ctx context.Context, caller model.Caller, in CreateSlotInput) (*model.Slot, error) {
	if !caller.IsInstructor() {
		return nil, apperr.Authorization("only instructors can create slots")
	}

	slot, err := s.validateSlot(ctx, caller.UserID, in)
	if err != nil {
		return nil, err
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("owner_id", slot.OwnerID),
		zap.Time("start_time", slot.StartTime),
		zap.Time("end_time", slot.EndTime),
		zap.Int("capacity", slot.Capacity),
		zap.String("lesson_type", string(slot.LessonType)),
	)

	return slot, nil
}

func (s *SlotService) validateSlot(ctx context.Context, ownerID int64, in CreateSlotInput) (*model.Slot, error) {
	if !in.StartTime.Before(in.EndTime) {
		return nil, apperr.Validation("slot start must be before its end")
	}

	if in.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}

	switch in.TeachingMode {
	case model.TeachingModeInPerson:
		if in.Location == nil || *in.Location == "" {
			return nil, apperr.Validation("in-person slots require a location")
		}
	case model.TeachingModeOnline:
		if in.Location != nil {
			return nil, apperr.Validation("online slots must not carry a location")
		}
	default:
		return nil, apperr.Validation("unknown teaching mode %q", in.TeachingMode)
	}

	capacity := in.Capacity
	if capacity < 0 {
		return nil, apperr.Validation("capacity must be a positive integer")
	}

	switch in.LessonType {
	case model.LessonTypeOneToOne:
		if in.SubjectID != nil {
			return nil, apperr.Validation("one-to-one slots choose a subject per booking, not at creation")
		}
		// Вместимость индивидуального занятия всегда 1, незаданная (0) тоже
		capacity = 1
	case model.LessonTypeGroup:
		if capacity < 2 {
			return nil, apperr.Validation("group slots require capacity of at least 2")
		}
		if in.SubjectID == nil {
			return nil, apperr.Validation("group slots require a fixed subject")
		}
		subject, err := s.subjects.GetByID(ctx, *in.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("get subject: %w", err)
		}
		if subject == nil || !subject.IsActive {
			return nil, apperr.Validation("subject %d does not exist or is inactive", *in.SubjectID)
		}
		authorized, err := s.subjects.IsInstructorAuthorized(ctx, ownerID, *in.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("check subject authorization: %w", err)
		}
		if !authorized {
			return nil, apperr.Authorization("instructor %d is not authorized to teach subject %d", ownerID, *in.SubjectID)
		}
	default:
		return nil, apperr.Validation("unknown lesson type %q", in.LessonType)
	}

	return &model.Slot{
		OwnerID:      ownerID,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Capacity:     capacity,
		TeachingMode: in.TeachingMode,
		LessonType:   in.LessonType,
		Price:        in.Price,
		Location:     in.Location,
		SubjectID:    in.SubjectID,
	}, nil
}

// DeleteSlot удаляет слот владельца, только пока на нём нет бронирований
func (s *SlotService) DeleteSlot(ctx context.Context, caller model.Caller, slotID int64) error {
	if !caller.IsInstructor() {
		return apperr.Authorization("only instructors can delete slots")
	}

	if err := s.slots.Delete(ctx, slotID, caller.UserID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	s.logger.Info("Slot deleted",
		zap.Int64("slot_id", slotID),
		zap.Int64("owner_id", caller.UserID),
	)

	return nil
}
