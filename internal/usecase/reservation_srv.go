package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/cache"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/request"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/response"
	"github.com/Softwarehamid/auto-shop-booking/internal/notify"
	"github.com/Softwarehamid/auto-shop-booking/pkg/clock"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ReservationService claims timeslots and lets customers manage a booking with its cancel token.
type ReservationService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	LookupBooking(ctx context.Context, bookingID, token string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, req *request.CancelBookingRequest) (*response.CancelBookingResponse, error)
}

type reservationService struct {
	repo       *repository.Repository
	config     *utils.Config
	clock      clock.Clock
	dispatcher EventDispatcher
	cache      cache.AvailabilityCache
	loc        *time.Location
	log        *zap.Logger
}

func NewReservationService(repo *repository.Repository, config *utils.Config, deps Dependencies, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:       repo,
		config:     config,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		loc:        shopLocation(config),
		log:        log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	ctx, span := tracer.Start(ctx, "reservation.CreateBooking")
	defer span.End()

	// 1. Validate before touching storage
	req.Normalize()
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	serviceID := uuid.MustParse(req.ServiceID)
	staffID := uuid.MustParse(req.StaffID)
	timeslotID := uuid.MustParse(req.TimeslotID)
	span.SetAttributes(
		attribute.String("booking.timeslot_id", timeslotID.String()),
		attribute.String("booking.staff_id", staffID.String()),
	)

	// 2. Issue the credential; only its digest is persisted
	token, tokenHash, err := utils.GenerateCancelToken()
	if err != nil {
		s.log.Error("Failed to generate cancel token", zap.Error(err))
		return nil, fmt.Errorf("generate cancel token: %w", err)
	}

	now := s.clock.Now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ServiceID:       serviceID,
		StaffID:         staffID,
		TimeslotID:      timeslotID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Notes:           req.Notes,
		Status:          entity.BookingStatusConfirmed,
		PaymentStatus:   entity.PaymentStatusUnpaid,
		CancelTokenHash: tokenHash,
	}

	// 3. Claim atomically; the database decides the winner
	claimCtx, cancel := withTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	detail, err := s.repo.Booking.Claim(claimCtx, booking)
	switch {
	case errors.Is(err, repository.ErrTimeslotTaken):
		span.SetAttributes(attribute.Bool("booking.conflict", true))
		return nil, ErrSlotAlreadyTaken
	case errors.Is(err, repository.ErrClaimRejected):
		return nil, s.explainRejection(claimCtx, serviceID, staffID, timeslotID, now)
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "claim failed")
		s.log.Error("Failed to claim timeslot",
			zap.Error(err),
			zap.String("timeslot_id", timeslotID.String()))
		return nil, storageError("claim timeslot", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("timeslot_id", timeslotID.String()),
		zap.String("staff_id", staffID.String()),
	)

	// 4. Post-commit side effects never change the outcome
	s.cache.Invalidate(context.WithoutCancel(ctx), staffID, dateKey(detail.StartTime, s.loc))
	s.dispatcher.Dispatch(s.buildEvent(notify.EventBookingConfirmed, detail, s.cancelURL(booking.ID, token), now))

	return &response.CreateBookingResponse{
		BookingID:   booking.ID.String(),
		CancelToken: token,
	}, nil
}

// explainRejection runs after a claim inserted nothing, only to tell the caller which input was wrong.
func (s *reservationService) explainRejection(ctx context.Context, serviceID, staffID, timeslotID uuid.UUID, now time.Time) error {
	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return storageError("find service", err)
	}
	if service == nil {
		return fieldError("serviceId", "Service not found")
	}
	if !service.IsActive {
		return fieldError("serviceId", "Service is not currently offered")
	}

	staff, err := s.repo.Staff.FindByID(ctx, staffID)
	if err != nil {
		return storageError("find staff", err)
	}
	if staff == nil {
		return fieldError("staffId", "Staff member not found")
	}
	if !staff.IsActive {
		return fieldError("staffId", "Staff member is not available")
	}

	slot, err := s.repo.Timeslot.FindByID(ctx, timeslotID)
	if err != nil {
		return storageError("find timeslot", err)
	}
	switch {
	case slot == nil:
		return fieldError("timeslotId", "Timeslot not found")
	case slot.StaffID != staffID:
		return fieldError("timeslotId", "Timeslot does not belong to the selected staff member")
	case !slot.StartTime.After(now):
		return fieldError("timeslotId", "Timeslot has already started")
	}
	return fieldError("timeslotId", "Timeslot is not available")
}

func (s *reservationService) LookupBooking(ctx context.Context, bookingID, token string) (*response.BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "reservation.LookupBooking")
	defer span.End()

	id, err := uuid.Parse(bookingID)
	if err != nil || token == "" {
		return nil, ErrNotFound
	}

	lookupCtx, cancel := withTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	detail, err := s.repo.Booking.FindDetailByID(lookupCtx, id)
	if err != nil {
		return nil, storageError("find booking", err)
	}

	// Unknown id and wrong token are indistinguishable to the caller.
	if detail == nil || !utils.CancelTokenMatches(token, detail.CancelTokenHash) {
		s.log.Debug("Booking lookup rejected", zap.String("booking_id", id.String()))
		return nil, ErrNotFound
	}

	resp := response.BookingDetailToResponse(detail)
	return &resp, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, req *request.CancelBookingRequest) (*response.CancelBookingResponse, error) {
	ctx, span := tracer.Start(ctx, "reservation.CancelBooking")
	defer span.End()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	id, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	cancelCtx, cancel := withTimeout(ctx, s.config.Database.QueryTimeout)
	defer cancel()

	now := s.clock.Now()
	detail, err := s.repo.Booking.CancelWithToken(cancelCtx, id, utils.HashCancelToken(req.Token), now)
	if err != nil {
		return nil, storageError("cancel booking", err)
	}

	if detail != nil {
		s.log.Info("Booking cancelled by customer", zap.String("booking_id", id.String()))

		s.cache.Invalidate(context.WithoutCancel(ctx), detail.StaffID, dateKey(detail.StartTime, s.loc))
		s.dispatcher.Dispatch(s.buildEvent(notify.EventBookingCancelled, detail, "", now))

		return &response.CancelBookingResponse{
			BookingID: id.String(),
			Status:    entity.BookingStatusCancelled,
		}, nil
	}

	// Nothing changed: either the credential is wrong, or the booking is no longer live.
	existing, err := s.repo.Booking.FindByID(cancelCtx, id)
	if err != nil {
		return nil, storageError("find booking", err)
	}
	if existing == nil || !utils.CancelTokenMatches(req.Token, existing.CancelTokenHash) {
		return nil, ErrNotFound
	}

	switch existing.Status {
	case entity.BookingStatusCancelled:
		return &response.CancelBookingResponse{
			BookingID:        id.String(),
			Status:           entity.BookingStatusCancelled,
			AlreadyCancelled: true,
		}, nil
	case entity.BookingStatusCompleted:
		return nil, fmt.Errorf("booking %s is completed: %w", id.String(), ErrInvalidTransition)
	}

	// A live booking with a matching token that the update missed means it changed underneath us.
	return nil, fmt.Errorf("cancel booking %s: status changed concurrently", id.String())
}

func (s *reservationService) cancelURL(bookingID uuid.UUID, token string) string {
	q := url.Values{}
	q.Set("booking", bookingID.String())
	q.Set("token", token)
	return s.config.App.PublicURL + "/cancel?" + q.Encode()
}

func (s *reservationService) buildEvent(eventType notify.EventType, d *entity.BookingDetail, cancelURL string, now time.Time) notify.Event {
	return buildBookingEvent(eventType, d, cancelURL, s.loc, now)
}

func buildBookingEvent(eventType notify.EventType, d *entity.BookingDetail, cancelURL string, loc *time.Location, now time.Time) notify.Event {
	return notify.Event{
		Type:          eventType,
		BookingID:     d.ID,
		ServiceName:   d.ServiceName,
		StaffName:     d.StaffName,
		StartTime:     d.StartTime.In(loc),
		EndTime:       d.EndTime.In(loc),
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		CancelURL:     cancelURL,
		OccurredAt:    now,
	}
}

func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}
