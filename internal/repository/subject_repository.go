package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubjectRepository доступ к каталогу предметов. Каталог принадлежит
// внешней подсистеме, здесь только проверки для бронирования.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// GetByID получает предмет по ID, nil если не найден
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	var subject model.Subject
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, is_active, created_at
		FROM subjects
		WHERE id = $1
	`, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.IsActive,
		&subject.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}

// IsInstructorAuthorized проверяет что преподаватель ведёт предмет
func (r *SubjectRepository) IsInstructorAuthorized(ctx context.Context, instructorID, subjectID int64) (bool, error) {
	var authorized bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM instructor_subjects
			WHERE instructor_id = $1 AND subject_id = $2
		)
	`, instructorID, subjectID).Scan(&authorized)
	if err != nil {
		return false, fmt.Errorf("check instructor subject: %w", err)
	}

	return authorized, nil
}
