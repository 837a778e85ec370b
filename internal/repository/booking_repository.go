package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Book создаёт бронирование с проверкой вместимости слота.
// Строка слота блокируется FOR UPDATE, поэтому подсчёт и вставка атомарны
// относительно конкурентных бронирований того же слота. Повторное
// бронирование той же парой (slot, student) возвращает существующую
// строку как успех, created=false.
func (r *BookingRepository) Book(ctx context.Context, slotID, studentID, subjectID int64, note string) (*model.Booking, bool, error) {
	var booking model.Booking
	created := false

	err := base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var capacity int
		err := tx.QueryRow(ctx, `SELECT capacity FROM slots WHERE id = $1 FOR UPDATE`, slotID).Scan(&capacity)
		if err != nil {
			if base.IsNotFound(err) {
				return apperr.NotFound("slot %d not found", slotID)
			}
			return fmt.Errorf("lock slot: %w", err)
		}

		err = tx.QueryRow(ctx, `
			SELECT id, slot_id, student_id, subject_id, note, created_at
			FROM bookings
			WHERE slot_id = $1 AND student_id = $2
		`, slotID, studentID).Scan(
			&booking.ID,
			&booking.SlotID,
			&booking.StudentID,
			&booking.SubjectID,
			&booking.Note,
			&booking.CreatedAt,
		)
		if err == nil {
			// Уже записан: идемпотентный успех, без дубля
			return nil
		}
		if !base.IsNotFound(err) {
			return fmt.Errorf("get existing booking: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, slotID).Scan(&count); err != nil {
			return fmt.Errorf("count slot bookings: %w", err)
		}

		if count >= capacity {
			return apperr.Conflict("slot %d is full", slotID)
		}

		booking = model.Booking{
			SlotID:    slotID,
			StudentID: studentID,
			SubjectID: subjectID,
			Note:      note,
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO bookings (slot_id, student_id, subject_id, note)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`, slotID, studentID, subjectID, note).Scan(&booking.ID, &booking.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &booking, created, nil
}

// Cancel удаляет бронирование студента вместе с записью занятия.
// Освобождённая единица вместимости видна сразу после коммита.
func (r *BookingRepository) Cancel(ctx context.Context, slotID, studentID int64) error {
	return base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var bookingID int64
		err := tx.QueryRow(ctx, `
			DELETE FROM bookings
			WHERE slot_id = $1 AND student_id = $2
			RETURNING id
		`, slotID, studentID).Scan(&bookingID)
		if err != nil {
			if base.IsNotFound(err) {
				return apperr.NotFound("no booking for slot %d and student %d", slotID, studentID)
			}
			return fmt.Errorf("delete booking: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM session_records WHERE booking_id = $1`, bookingID); err != nil {
			return fmt.Errorf("delete session record: %w", err)
		}

		return nil
	})
}

// GetByID получает бронирование по ID, nil если не найдено
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var booking model.Booking
	err := r.pool.QueryRow(ctx, `
		SELECT id, slot_id, student_id, subject_id, note, created_at
		FROM bookings
		WHERE id = $1
	`, id).Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.StudentID,
		&booking.SubjectID,
		&booking.Note,
		&booking.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// ListByStudent получает бронирования студента вместе со слотом и владельцем
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.slot_id, b.student_id, b.subject_id, b.note, b.created_at,
		       s.id, s.owner_id, s.start_time, s.end_time, s.capacity, s.teaching_mode,
		       s.lesson_type, s.price, s.location, s.subject_id, s.created_at,
		       u.id, u.name, u.role, u.created_at
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		JOIN users u ON u.id = s.owner_id
		WHERE b.student_id = $1
		ORDER BY s.start_time
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by student: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		var slot model.Slot
		var owner model.User
		err := rows.Scan(
			&booking.ID,
			&booking.SlotID,
			&booking.StudentID,
			&booking.SubjectID,
			&booking.Note,
			&booking.CreatedAt,
			&slot.ID,
			&slot.OwnerID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Capacity,
			&slot.TeachingMode,
			&slot.LessonType,
			&slot.Price,
			&slot.Location,
			&slot.SubjectID,
			&slot.CreatedAt,
			&owner.ID,
			&owner.Name,
			&owner.Role,
			&owner.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Slot = &slot
		booking.Owner = &owner
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}

// ListBySlot получает бронирования слота вместе с данными студентов
func (r *BookingRepository) ListBySlot(ctx context.Context, slotID int64) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.slot_id, b.student_id, b.subject_id, b.note, b.created_at,
		       u.id, u.name, u.role, u.created_at
		FROM bookings b
		JOIN users u ON u.id = b.student_id
		WHERE b.slot_id = $1
		ORDER BY b.created_at
	`

	rows, err := r.pool.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by slot: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		var student model.User
		err := rows.Scan(
			&booking.ID,
			&booking.SlotID,
			&booking.StudentID,
			&booking.SubjectID,
			&booking.Note,
			&booking.CreatedAt,
			&student.ID,
			&student.Name,
			&student.Role,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Student = &student
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}
