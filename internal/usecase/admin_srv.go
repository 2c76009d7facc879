package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/availability"
	"github.com/Softwarehamid/auto-shop-booking/internal/cache"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/request"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/response"
	"github.com/Softwarehamid/auto-shop-booking/internal/notify"
	"github.com/Softwarehamid/auto-shop-booking/pkg/clock"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService is the staff-facing surface. Every method except Login runs behind a session.
type AdminService interface {
	Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	CleanExpiredSessions(ctx context.Context) (int64, error)

	ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.AdminBookingResponse], error)
	GetBooking(ctx context.Context, bookingID string) (*response.AdminBookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID string) (*response.AdminBookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) (*response.CancelBookingResponse, error)
	UpdatePaymentStatus(ctx context.Context, bookingID string, req *request.UpdatePaymentStatusRequest) (*response.AdminBookingResponse, error)

	GenerateTimeslots(ctx context.Context, req *request.GenerateTimeslotsRequest) (*response.GenerateTimeslotsResponse, error)
	ListTimeslots(ctx context.Context, staffID, date string) ([]response.AdminTimeslotResponse, error)
	SetTimeslotBlocked(ctx context.Context, timeslotID string, req *request.SetBlockedRequest) (*response.TimeslotResponse, error)

	SetStaffActive(ctx context.Context, staffID string, req *request.SetActiveRequest) error
	SetServiceActive(ctx context.Context, serviceID string, req *request.SetActiveRequest) error
}

type adminService struct {
	repo       *repository.Repository
	config     *utils.Config
	clock      clock.Clock
	dispatcher EventDispatcher
	cache      cache.AvailabilityCache
	timeslots  TimeslotService
	loc        *time.Location
	log        *zap.Logger
}

func NewAdminService(
	repo *repository.Repository,
	config *utils.Config,
	deps Dependencies,
	timeslots TimeslotService,
	log *zap.Logger,
) AdminService {
	return &adminService{
		repo:       repo,
		config:     config,
		clock:      deps.Clock,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		timeslots:  timeslots,
		loc:        shopLocation(config),
		log:        log.With(zap.String("service", "admin")),
	}
}

// ==================== SESSION ====================

func (s *adminService) Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	if s.config.Admin.PasswordHash == "" {
		s.log.Warn("Admin login attempted but no password hash is configured")
		return nil, ErrUnauthorized
	}

	// Always run bcrypt so a wrong username costs the same as a wrong password.
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.config.Admin.Username)) == 1
	passOK := utils.CheckPasswordHash(req.Password, s.config.Admin.PasswordHash)
	if !userOK || !passOK {
		s.log.Warn("Admin login failed", zap.String("ip", ipAddress))
		return nil, ErrUnauthorized
	}

	ttl := s.config.Admin.SessionTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}

	now := s.clock.Now()
	session := &entity.AdminSession{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(ttl),
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}
	if ipAddress != "" {
		session.IPAddress = &ipAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, storageError("create session", err)
	}

	s.log.Info("Admin logged in", zap.String("session_id", session.ID.String()))

	return &response.LoginResponse{
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *adminService) Logout(ctx context.Context, token string) error {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return ErrUnauthorized
	}

	if err := s.repo.Session.Revoke(ctx, parsed, s.clock.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return storageError("revoke session", err)
	}
	return nil
}

func (s *adminService) CleanExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.CleanExpiredSessions(ctx, s.clock.Now())
	if err != nil {
		return 0, storageError("clean sessions", err)
	}
	return n, nil
}

// ==================== BOOKINGS ====================

func (s *adminService) ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.AdminBookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	var filter entity.BookingFilter
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}
	if req.StaffID != "" {
		id := uuid.MustParse(req.StaffID)
		filter.StaffID = &id
	}
	if req.From != "" {
		day, _ := time.ParseInLocation(time.DateOnly, req.From, s.loc)
		from, _ := availability.DayBounds(day, s.loc)
		filter.From = &from
	}
	if req.To != "" {
		day, _ := time.ParseInLocation(time.DateOnly, req.To, s.loc)
		_, to := availability.DayBounds(day, s.loc)
		filter.To = &to
	}

	bookings, err := s.repo.Booking.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, storageError("list bookings", err)
	}
	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, storageError("count bookings", err)
	}

	items := make([]response.AdminBookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingDetailToAdminResponse(b)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *adminService) GetBooking(ctx context.Context, bookingID string) (*response.AdminBookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	detail, err := s.repo.Booking.FindDetailByID(ctx, id)
	if err != nil {
		return nil, storageError("find booking", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}

	resp := response.BookingDetailToAdminResponse(detail)
	return &resp, nil
}

func (s *adminService) CompleteBooking(ctx context.Context, bookingID string) (*response.AdminBookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	detail, err := s.repo.Booking.Transition(ctx, id,
		[]entity.BookingStatus{entity.BookingStatusConfirmed},
		entity.BookingStatusCompleted,
		s.clock.Now(),
	)
	if err != nil {
		return nil, storageError("complete booking", err)
	}
	if detail == nil {
		err := s.transitionMiss(ctx, id, entity.BookingStatusCompleted)
		if errors.Is(err, errAlreadyInState) {
			return nil, fmt.Errorf("booking %s is already completed: %w", id, ErrInvalidTransition)
		}
		return nil, err
	}

	s.log.Info("Booking completed", zap.String("booking_id", id.String()))

	resp := response.BookingDetailToAdminResponse(detail)
	return &resp, nil
}

// CancelBooking releases a booking without its customer credential.
// Cancelling an already cancelled booking succeeds without side effects.
func (s *adminService) CancelBooking(ctx context.Context, bookingID string) (*response.CancelBookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	now := s.clock.Now()
	detail, err := s.repo.Booking.Transition(ctx, id,
		[]entity.BookingStatus{entity.BookingStatusPending, entity.BookingStatusConfirmed},
		entity.BookingStatusCancelled,
		now,
	)
	if err != nil {
		return nil, storageError("cancel booking", err)
	}

	if detail == nil {
		if err := s.transitionMiss(ctx, id, entity.BookingStatusCancelled); err != nil {
			if errors.Is(err, errAlreadyInState) {
				return &response.CancelBookingResponse{
					BookingID:        id.String(),
					Status:           entity.BookingStatusCancelled,
					AlreadyCancelled: true,
				}, nil
			}
			return nil, err
		}
	}

	s.log.Info("Booking cancelled by admin", zap.String("booking_id", id.String()))

	s.cache.Invalidate(context.WithoutCancel(ctx), detail.StaffID, dateKey(detail.StartTime, s.loc))
	s.dispatcher.Dispatch(buildBookingEvent(notify.EventBookingCancelled, detail, "", s.loc, now))

	return &response.CancelBookingResponse{
		BookingID: id.String(),
		Status:    entity.BookingStatusCancelled,
	}, nil
}

var errAlreadyInState = errors.New("booking already in requested state")

// transitionMiss explains why a conditional transition updated nothing.
func (s *adminService) transitionMiss(ctx context.Context, id uuid.UUID, to entity.BookingStatus) error {
	existing, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return storageError("find booking", err)
	}
	if existing == nil {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if existing.Status == to {
		return errAlreadyInState
	}
	if !existing.Status.CanTransitionTo(to) {
		return fmt.Errorf("booking %s is %s: %w", id, existing.Status, ErrInvalidTransition)
	}
	return fmt.Errorf("transition booking %s: status changed concurrently", id)
}

func (s *adminService) UpdatePaymentStatus(ctx context.Context, bookingID string, req *request.UpdatePaymentStatusRequest) (*response.AdminBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.repo.Booking.UpdatePaymentStatus(ctx, id, entity.PaymentStatus(req.PaymentStatus)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
		}
		return nil, storageError("update payment status", err)
	}

	s.log.Info("Booking payment status updated",
		zap.String("booking_id", id.String()),
		zap.String("payment_status", req.PaymentStatus),
	)

	return s.GetBooking(ctx, bookingID)
}

// ==================== CALENDAR ====================

func (s *adminService) GenerateTimeslots(ctx context.Context, req *request.GenerateTimeslotsRequest) (*response.GenerateTimeslotsResponse, error) {
	return s.timeslots.GenerateTimeslots(ctx, req)
}

func (s *adminService) ListTimeslots(ctx context.Context, staffID, date string) ([]response.AdminTimeslotResponse, error) {
	return s.timeslots.ListTimeslots(ctx, staffID, date)
}

func (s *adminService) SetTimeslotBlocked(ctx context.Context, timeslotID string, req *request.SetBlockedRequest) (*response.TimeslotResponse, error) {
	return s.timeslots.SetBlocked(ctx, timeslotID, req)
}

// ==================== CATALOG ====================

func (s *adminService) SetStaffActive(ctx context.Context, staffID string, req *request.SetActiveRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return newValidationError(errs)
	}
	id, err := uuid.Parse(staffID)
	if err != nil {
		return ErrNotFound
	}

	if err := s.repo.Staff.SetActive(ctx, id, *req.Active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("staff %s: %w", id, ErrNotFound)
		}
		return storageError("set staff active", err)
	}

	s.cache.InvalidateStaff(context.WithoutCancel(ctx), id)
	s.log.Info("Staff active flag changed",
		zap.String("staff_id", id.String()),
		zap.Bool("active", *req.Active),
	)
	return nil
}

func (s *adminService) SetServiceActive(ctx context.Context, serviceID string, req *request.SetActiveRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return newValidationError(errs)
	}
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return ErrNotFound
	}

	if err := s.repo.Service.SetActive(ctx, id, *req.Active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("service %s: %w", id, ErrNotFound)
		}
		return storageError("set service active", err)
	}

	s.log.Info("Service active flag changed",
		zap.String("service_id", id.String()),
		zap.Bool("active", *req.Active),
	)
	return nil
}
