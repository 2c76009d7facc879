package entity

import "github.com/shopspring/decimal"

// Service is a detailing offering. DurationMinutes is informational; bookings occupy exactly one slot.
type Service struct {
	BaseNoDelete
	Name            string          `db:"name"`
	Description     *string         `db:"description"`
	DurationMinutes int             `db:"duration_minutes"`
	Price           decimal.Decimal `db:"price"`
	IsActive        bool            `db:"is_active"`
}
