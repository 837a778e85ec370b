package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

const slotColumns = `id, owner_id, start_time, end_time, capacity, teaching_mode, lesson_type, price, location, subject_id, created_at`

func scanSlot(row pgx.Row, slot *model.Slot) error {
	return row.Scan(
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
	)
}

// Create создаёт слот с проверкой пересечения окон владельца.
// Проверка и вставка выполняются в одной транзакции, полуоткрытый
// интервал [start, end). Exclusion-констрейнт в схеме страхует гонку
// между конкурентными транзакциями.
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	return base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var overlaps bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM slots
				WHERE owner_id = $1 AND start_time < $3 AND end_time > $2
			)
		`, slot.OwnerID, slot.StartTime, slot.EndTime).Scan(&overlaps)
		if err != nil {
			return fmt.Errorf("check slot overlap: %w", err)
		}

		if overlaps {
			return apperr.Conflict("slot overlaps an existing slot of this instructor")
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO slots (owner_id, start_time, end_time, capacity, teaching_mode, lesson_type, price, location, subject_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at
		`,
			slot.OwnerID,
			slot.StartTime,
			slot.EndTime,
			slot.Capacity,
			slot.TeachingMode,
			slot.LessonType,
			slot.Price,
			slot.Location,
			slot.SubjectID,
		).Scan(&slot.ID, &slot.CreatedAt)

		if err != nil {
			if base.IsExclusionViolation(err) {
				return apperr.Conflict("slot overlaps an existing slot of this instructor")
			}
			return fmt.Errorf("insert slot: %w", err)
		}

		return nil
	})
}

// GetByID получает слот по ID, nil если не найден
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	var slot model.Slot
	err := scanSlot(r.pool.QueryRow(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = $1`, id), &slot)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return &slot, nil
}

// Delete удаляет слот владельца, только пока на него нет бронирований.
// Блокировка строки слота сериализует удаление с конкурентным bookSlot:
// ровно одна операция побеждает, частичных состояний не остаётся.
func (r *SlotRepository) Delete(ctx context.Context, slotID, ownerID int64) error {
	return base.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var owner int64
		err := tx.QueryRow(ctx, `SELECT owner_id FROM slots WHERE id = $1 FOR UPDATE`, slotID).Scan(&owner)
		if err != nil {
			if base.IsNotFound(err) {
				return apperr.NotFound("slot %d not found", slotID)
			}
			return fmt.Errorf("lock slot: %w", err)
		}

		if owner != ownerID {
			return apperr.Authorization("slot %d does not belong to instructor %d", slotID, ownerID)
		}

		var bookings int
		err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id = $1`, slotID).Scan(&bookings)
		if err != nil {
			return fmt.Errorf("count slot bookings: %w", err)
		}

		if bookings > 0 {
			return apperr.State("slot %d has %d live bookings and cannot be deleted", slotID, bookings)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM slots WHERE id = $1`, slotID); err != nil {
			return fmt.Errorf("delete slot: %w", err)
		}

		return nil
	})
}

// ListByOwner получает все слоты владельца вместе с числом живых бронирований
func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.SlotWithCount, error) {
	query := `
		SELECT s.id, s.owner_id, s.start_time, s.end_time, s.capacity, s.teaching_mode,
		       s.lesson_type, s.price, s.location, s.subject_id, s.created_at,
		       COUNT(b.id) AS booked_count
		FROM slots s
		LEFT JOIN bookings b ON b.slot_id = s.id
		WHERE s.owner_id = $1
		GROUP BY s.id
		ORDER BY s.start_time
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list slots by owner: %w", err)
	}
	defer rows.Close()

	return collectSlotsWithCount(rows)
}

// ListPublic получает будущие слоты владельца для публичного календаря.
// includeBooked=false отфильтровывает слоты, заполненные до вместимости.
func (r *SlotRepository) ListPublic(ctx context.Context, ownerID int64, includeBooked bool, now time.Time) ([]*model.SlotWithCount, error) {
	query := `
		SELECT s.id, s.owner_id, s.start_time, s.end_time, s.capacity, s.teaching_mode,
		       s.lesson_type, s.price, s.location, s.subject_id, s.created_at,
		       COUNT(b.id) AS booked_count
		FROM slots s
		LEFT JOIN bookings b ON b.slot_id = s.id
		WHERE s.owner_id = $1
		  AND s.start_time > $2
		GROUP BY s.id
	`
	if !includeBooked {
		query += ` HAVING COUNT(b.id) < s.capacity`
	}
	query += ` ORDER BY s.start_time`

	rows, err := r.pool.Query(ctx, query, ownerID, now)
	if err != nil {
		return nil, fmt.Errorf("list public slots: %w", err)
	}
	defer rows.Close()

	return collectSlotsWithCount(rows)
}

func collectSlotsWithCount(rows pgx.Rows) ([]*model.SlotWithCount, error) {
	var slots []*model.SlotWithCount
	for rows.Next() {
		var slot model.SlotWithCount
		err := rows.Scan(
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
			&slot.BookedCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}
