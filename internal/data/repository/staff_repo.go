package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.Staff, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type staffRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStaffRepository(db database.PgxIface, log *zap.Logger) StaffRepository {
	return &staffRepository{
		db:  db,
		log: log.With(zap.String("repository", "staff")),
	}
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	query := `
		INSERT INTO staff (id, name, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.Name,
		staff.Email,
		staff.IsActive,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create staff",
			zap.Error(err),
			zap.String("name", staff.Name),
		)
		return fmt.Errorf("create staff %s: %w", staff.Name, err)
	}

	return nil
}

func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	query := `
		SELECT id, name, email, is_active, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	var staff entity.Staff
	err := r.db.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find staff by ID",
			zap.Error(err),
			zap.String("staff_id", id.String()),
		)
		return nil, fmt.Errorf("find staff by ID %s: %w", id.String(), err)
	}

	return &staff, nil
}

func (r *staffRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.Staff, error) {
	query := `
		SELECT id, name, email, is_active, created_at, updated_at
		FROM staff
		WHERE ($1 = FALSE OR is_active)
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		r.log.Error("Failed to list staff", zap.Error(err))
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var members []*entity.Staff
	for rows.Next() {
		var staff entity.Staff
		if err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.Email,
			&staff.IsActive,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan staff row", zap.Error(err))
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		members = append(members, &staff)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff rows: %w", err)
	}

	return members, nil
}

func (r *staffRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE staff SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		r.log.Error("Failed to update staff active flag",
			zap.Error(err),
			zap.String("staff_id", id.String()),
		)
		return fmt.Errorf("set staff %s active: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("staff %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
