package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TimeslotRepository interface {
	// CreateBatch inserts slots in one statement, skipping any (staff, start) that already exists.
	// It returns the number of rows actually inserted.
	CreateBatch(ctx context.Context, slots []*entity.Timeslot) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Timeslot, error)
	FindAvailable(ctx context.Context, staffID uuid.UUID, from, to, now time.Time) ([]*entity.Timeslot, error)
	FindByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*entity.TimeslotWithBooking, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*entity.Timeslot, error)
}

type timeslotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTimeslotRepository(db database.PgxIface, log *zap.Logger) TimeslotRepository {
	return &timeslotRepository{
		db:  db,
		log: log.With(zap.String("repository", "timeslot")),
	}
}

func (r *timeslotRepository) CreateBatch(ctx context.Context, slots []*entity.Timeslot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO timeslots (id, staff_id, start_time, end_time, is_blocked, created_at, updated_at)
		SELECT s.id, s.staff_id, s.start_time, s.end_time, FALSE, $5, $5
		FROM unnest($1::uuid[], $2::uuid[], $3::timestamptz[], $4::timestamptz[])
		     AS s(id, staff_id, start_time, end_time)
		ON CONFLICT (staff_id, start_time) DO NOTHING
	`

	ids := make([]uuid.UUID, len(slots))
	staffIDs := make([]uuid.UUID, len(slots))
	starts := make([]time.Time, len(slots))
	ends := make([]time.Time, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
		staffIDs[i] = slot.StaffID
		starts[i] = slot.StartTime
		ends[i] = slot.EndTime
	}

	result, err := r.db.Exec(ctx, query, ids, staffIDs, starts, ends, slots[0].CreatedAt)
	if err != nil {
		r.log.Error("Failed to create timeslots",
			zap.Error(err),
			zap.Int("count", len(slots)),
			zap.Time("first_start", starts[0]),
		)
		return 0, fmt.Errorf("create %d timeslots: %w", len(slots), err)
	}

	return result.RowsAffected(), nil
}

func (r *timeslotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Timeslot, error) {
	query := `
		SELECT id, staff_id, start_time, end_time, is_blocked, created_at, updated_at
		FROM timeslots
		WHERE id = $1
	`

	var slot entity.Timeslot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.StaffID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBlocked,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find timeslot by ID",
			zap.Error(err),
			zap.String("timeslot_id", id.String()),
		)
		return nil, fmt.Errorf("find timeslot by ID %s: %w", id.String(), err)
	}

	return &slot, nil
}

func (r *timeslotRepository) FindAvailable(ctx context.Context, staffID uuid.UUID, from, to, now time.Time) ([]*entity.Timeslot, error) {
	query := `
		SELECT t.id, t.staff_id, t.start_time, t.end_time, t.is_blocked, t.created_at, t.updated_at
		FROM timeslots t
		WHERE t.staff_id = $1
		  AND t.start_time >= $2
		  AND t.start_time < $3
		  AND t.start_time > $4
		  AND NOT t.is_blocked
		  AND NOT EXISTS (
		      SELECT 1 FROM bookings b
		      WHERE b.timeslot_id = t.id AND b.status <> 'cancelled'
		  )
		ORDER BY t.start_time
	`

	rows, err := r.db.Query(ctx, query, staffID, from, to, now)
	if err != nil {
		r.log.Error("Failed to find available timeslots",
			zap.Error(err),
			zap.String("staff_id", staffID.String()),
			zap.Time("from", from),
		)
		return nil, fmt.Errorf("find available timeslots for staff %s: %w", staffID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.Timeslot
	for rows.Next() {
		var slot entity.Timeslot
		if err := rows.Scan(
			&slot.ID,
			&slot.StaffID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsBlocked,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		); err != nil {
			r.log.Error("Failed to scan timeslot row", zap.Error(err))
			return nil, fmt.Errorf("scan timeslot row: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeslot rows: %w", err)
	}

	return slots, nil
}

func (r *timeslotRepository) FindByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*entity.TimeslotWithBooking, error) {
	query := `
		SELECT t.id, t.staff_id, t.start_time, t.end_time, t.is_blocked, t.created_at, t.updated_at, b.id
		FROM timeslots t
		LEFT JOIN bookings b ON b.timeslot_id = t.id AND b.status <> 'cancelled'
		WHERE t.staff_id = $1 AND t.start_time >= $2 AND t.start_time < $3
		ORDER BY t.start_time
	`

	rows, err := r.db.Query(ctx, query, staffID, from, to)
	if err != nil {
		r.log.Error("Failed to find timeslots by range",
			zap.Error(err),
			zap.String("staff_id", staffID.String()),
			zap.Time("from", from),
		)
		return nil, fmt.Errorf("find timeslots for staff %s: %w", staffID.String(), err)
	}
	defer rows.Close()

	var slots []*entity.TimeslotWithBooking
	for rows.Next() {
		var slot entity.TimeslotWithBooking
		if err := rows.Scan(
			&slot.ID,
			&slot.StaffID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsBlocked,
			&slot.CreatedAt,
			&slot.UpdatedAt,
			&slot.BookingID,
		); err != nil {
			r.log.Error("Failed to scan timeslot row", zap.Error(err))
			return nil, fmt.Errorf("scan timeslot row: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeslot rows: %w", err)
	}

	return slots, nil
}

func (r *timeslotRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*entity.Timeslot, error) {
	query := `
		UPDATE timeslots
		SET is_blocked = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, staff_id, start_time, end_time, is_blocked, created_at, updated_at
	`

	var slot entity.Timeslot
	err := r.db.QueryRow(ctx, query, id, blocked).Scan(
		&slot.ID,
		&slot.StaffID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBlocked,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to set timeslot blocked flag",
			zap.Error(err),
			zap.String("timeslot_id", id.String()),
			zap.Bool("blocked", blocked),
		)
		return nil, fmt.Errorf("set timeslot %s blocked: %w", id.String(), err)
	}

	return &slot, nil
}
