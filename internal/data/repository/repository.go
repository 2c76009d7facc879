package repository

import (
	"github.com/Softwarehamid/auto-shop-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Staff    StaffRepository
	Service  ServiceRepository
	Timeslot TimeslotRepository
	Booking  BookingRepository
	Session  SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Staff:    NewStaffRepository(db, log),
		Service:  NewServiceRepository(db, log),
		Timeslot: NewTimeslotRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		Session:  NewSessionRepository(db, log),
	}
}
