package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ActiveTimeslotConstraint is the partial unique index that allows one live booking per timeslot.
const ActiveTimeslotConstraint = "bookings_active_timeslot_key"

type BookingRepository interface {
	// Claim inserts the booking only if its timeslot, staff and service are claimable,
	// in a single statement. The partial unique index arbitrates concurrent claims.
	Claim(ctx context.Context, booking *entity.Booking) (*entity.BookingDetail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error)

	// CancelWithToken cancels a live booking whose credential digest matches.
	// It returns nil when no row was updated.
	CancelWithToken(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time) (*entity.BookingDetail, error)

	// Transition moves a booking to status `to` only if its current status is one of `from`.
	// It returns nil when no row was updated.
	Transition(ctx context.Context, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus, now time.Time) (*entity.BookingDetail, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error

	List(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.BookingDetail, error)
	Count(ctx context.Context, filter entity.BookingFilter) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	b.id, b.service_id, b.staff_id, b.timeslot_id, b.customer_name, b.customer_email,
	b.customer_phone, b.notes, b.status, b.payment_status, b.cancel_token_hash,
	b.cancelled_at, b.completed_at, b.created_at, b.updated_at`

const bookingDetailColumns = bookingColumns + `,
	s.name, st.name, t.start_time, t.end_time`

func bookingScanTargets(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.ServiceID,
		&b.StaffID,
		&b.TimeslotID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Notes,
		&b.Status,
		&b.PaymentStatus,
		&b.CancelTokenHash,
		&b.CancelledAt,
		&b.CompletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func bookingDetailScanTargets(d *entity.BookingDetail) []any {
	return append(bookingScanTargets(&d.Booking),
		&d.ServiceName,
		&d.StaffName,
		&d.StartTime,
		&d.EndTime,
	)
}

func (r *bookingRepository) Claim(ctx context.Context, booking *entity.Booking) (*entity.BookingDetail, error) {
	query := `
		WITH src AS (
			SELECT t.id AS timeslot_id, t.start_time, t.end_time,
			       st.id AS staff_id, st.name AS staff_name,
			       s.id AS service_id, s.name AS service_name
			FROM timeslots t
			JOIN staff st ON st.id = t.staff_id
			JOIN services s ON s.id = $2::uuid
			WHERE t.id = $4::uuid
			  AND t.staff_id = $3::uuid
			  AND NOT t.is_blocked
			  AND t.start_time > $12::timestamptz
			  AND st.is_active
			  AND s.is_active
		), ins AS (
			INSERT INTO bookings (id, service_id, staff_id, timeslot_id, customer_name, customer_email,
			                      customer_phone, notes, status, payment_status, cancel_token_hash,
			                      created_at, updated_at)
			SELECT $1::uuid, src.service_id, src.staff_id, src.timeslot_id, $5::text, $6::text, $7::text,
			       $8::text, $9::text, $10::text, $11::text, $12::timestamptz, $12::timestamptz
			FROM src
			RETURNING id
		)
		SELECT src.service_name, src.staff_name, src.start_time, src.end_time
		FROM ins CROSS JOIN src
	`

	detail := &entity.BookingDetail{Booking: *booking}
	err := r.db.QueryRow(ctx, query,
		booking.ID,
		booking.ServiceID,
		booking.StaffID,
		booking.TimeslotID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.Notes,
		string(booking.Status),
		string(booking.PaymentStatus),
		booking.CancelTokenHash,
		booking.CreatedAt,
	).Scan(
		&detail.ServiceName,
		&detail.StaffName,
		&detail.StartTime,
		&detail.EndTime,
	)

	switch {
	case err == nil:
		return detail, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, ErrClaimRejected
	case database.IsUniqueViolation(err, ActiveTimeslotConstraint):
		r.log.Info("Timeslot claim lost",
			zap.String("timeslot_id", booking.TimeslotID.String()),
		)
		return nil, ErrTimeslotTaken
	case database.IsForeignKeyViolation(err):
		return nil, ErrClaimRejected
	}

	r.log.Error("Failed to claim timeslot",
		zap.Error(err),
		zap.String("timeslot_id", booking.TimeslotID.String()),
		zap.String("staff_id", booking.StaffID.String()),
	)
	return nil, fmt.Errorf("claim timeslot %s: %w", booking.TimeslotID.String(), err)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(bookingScanTargets(&booking)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	query := `
		SELECT ` + bookingDetailColumns + `
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		JOIN staff st ON st.id = b.staff_id
		JOIN timeslots t ON t.id = b.timeslot_id
		WHERE b.id = $1
	`

	var detail entity.BookingDetail
	err := r.db.QueryRow(ctx, query, id).Scan(bookingDetailScanTargets(&detail)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking detail",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking detail %s: %w", id.String(), err)
	}

	return &detail, nil
}

func (r *bookingRepository) CancelWithToken(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time) (*entity.BookingDetail, error) {
	query := `
		UPDATE bookings b
		SET status = 'cancelled', cancelled_at = $3, updated_at = $3
		FROM services s, staff st, timeslots t
		WHERE b.id = $1
		  AND b.cancel_token_hash = $2
		  AND b.status IN ('pending', 'confirmed')
		  AND s.id = b.service_id AND st.id = b.staff_id AND t.id = b.timeslot_id
		RETURNING ` + bookingDetailColumns

	var detail entity.BookingDetail
	err := r.db.QueryRow(ctx, query, id, tokenHash, now).Scan(bookingDetailScanTargets(&detail)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	return &detail, nil
}

func (r *bookingRepository) Transition(ctx context.Context, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus, now time.Time) (*entity.BookingDetail, error) {
	query := `
		UPDATE bookings b
		SET status = $3::text,
		    cancelled_at = CASE WHEN $3::text = 'cancelled' THEN $4::timestamptz ELSE b.cancelled_at END,
		    completed_at = CASE WHEN $3::text = 'completed' THEN $4::timestamptz ELSE b.completed_at END,
		    updated_at = $4::timestamptz
		FROM services s, staff st, timeslots t
		WHERE b.id = $1
		  AND b.status = ANY($2::text[])
		  AND s.id = b.service_id AND st.id = b.staff_id AND t.id = b.timeslot_id
		RETURNING ` + bookingDetailColumns

	fromValues := make([]string, len(from))
	for i, status := range from {
		fromValues[i] = string(status)
	}

	var detail entity.BookingDetail
	err := r.db.QueryRow(ctx, query, id, fromValues, string(to), now).Scan(bookingDetailScanTargets(&detail)...)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to transition booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("to", string(to)),
		)
		return nil, fmt.Errorf("transition booking %s to %s: %w", id.String(), to, err)
	}

	return &detail, nil
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("update payment status of booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) List(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.BookingDetail, error) {
	where, args := bookingFilterClause(filter)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		JOIN staff st ON st.id = b.staff_id
		JOIN timeslots t ON t.id = b.timeslot_id
		%s
		ORDER BY t.start_time DESC
		LIMIT $%d OFFSET $%d
	`, bookingDetailColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.BookingDetail
	for rows.Next() {
		var detail entity.BookingDetail
		if err := rows.Scan(bookingDetailScanTargets(&detail)...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter entity.BookingFilter) (int64, error) {
	where, args := bookingFilterClause(filter)
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN timeslots t ON t.id = b.timeslot_id
		` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return total, nil
}

func bookingFilterClause(filter entity.BookingFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		conds = append(conds, fmt.Sprintf("b.staff_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("t.start_time >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("t.start_time < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
