package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// Get получает запись занятия по бронированию, nil если ещё не создана
func (r *RecordRepository) Get(ctx context.Context, bookingID int64) (*model.SessionRecord, error) {
	var record model.SessionRecord
	err := r.pool.QueryRow(ctx, `
		SELECT booking_id, student_notes, instructor_summary, homework, updated_at
		FROM session_records
		WHERE booking_id = $1
	`, bookingID).Scan(
		&record.BookingID,
		&record.StudentNotes,
		&record.InstructorSummary,
		&record.Homework,
		&record.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session record: %w", err)
	}

	return &record, nil
}

// UpsertStudentNotes создаёт запись при первом обращении и пишет студенческие заметки
func (r *RecordRepository) UpsertStudentNotes(ctx context.Context, bookingID int64, notes string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_records (booking_id, student_notes, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (booking_id)
		DO UPDATE SET student_notes = EXCLUDED.student_notes, updated_at = now()
	`, bookingID, notes)
	if err != nil {
		return fmt.Errorf("upsert student notes: %w", err)
	}

	return nil
}

// UpsertInstructorSummary создаёт запись при первом обращении и пишет итог и домашнее задание
func (r *RecordRepository) UpsertInstructorSummary(ctx context.Context, bookingID int64, summary, homework string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_records (booking_id, instructor_summary, homework, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (booking_id)
		DO UPDATE SET instructor_summary = EXCLUDED.instructor_summary, homework = EXCLUDED.homework, updated_at = now()
	`, bookingID, summary, homework)
	if err != nil {
		return fmt.Errorf("upsert instructor summary: %w", err)
	}

	return nil
}
