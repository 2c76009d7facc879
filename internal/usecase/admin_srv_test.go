package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/request"
	"github.com/Softwarehamid/auto-shop-booking/internal/notify"
	"github.com/Softwarehamid/auto-shop-booking/pkg/clock"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminLogin(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)

	store := newMemStore()
	cfg := testConfig()
	cfg.Admin.PasswordHash = hash
	mockClock := clock.NewMockClock(testNow)
	svc := NewService(store.repository(), cfg, Dependencies{Clock: mockClock}, zap.NewNop())

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Admin.Login(context.Background(), &request.LoginRequest{Username: "admin", Password: "nope"}, "", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.Admin.Login(context.Background(), &request.LoginRequest{Username: "root", Password: "s3cret-pass"}, "", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("session lifecycle", func(t *testing.T) {
		resp, err := svc.Admin.Login(context.Background(), &request.LoginRequest{Username: "admin", Password: "s3cret-pass"}, "curl/8", "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(time.Hour), resp.ExpiresAt)

		token := uuidOf(t, resp.Token)
		session, _ := memSessionRepo{store}.FindValidSession(context.Background(), token, testNow)
		require.NotNil(t, session)

		require.NoError(t, svc.Admin.Logout(context.Background(), resp.Token))
		assert.ErrorIs(t, svc.Admin.Logout(context.Background(), resp.Token), ErrUnauthorized)

		session, _ = memSessionRepo{store}.FindValidSession(context.Background(), token, testNow)
		assert.Nil(t, session)

		mockClock.Add(2 * time.Hour)
		removed, err := svc.Admin.CleanExpiredSessions(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 1, removed)
	})
}

func TestAdminBookingLifecycle(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Reservation.CreateBooking(context.Background(), f.request())
	require.NoError(t, err)

	t.Run("payment status", func(t *testing.T) {
		got, err := f.svc.Admin.UpdatePaymentStatus(context.Background(), created.BookingID,
			&request.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)

		_, err = f.svc.Admin.UpdatePaymentStatus(context.Background(), uuid.NewString(),
			&request.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = f.svc.Admin.UpdatePaymentStatus(context.Background(), created.BookingID,
			&request.UpdatePaymentStatusRequest{PaymentStatus: "free"})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("admin cancel is idempotent and notifies once", func(t *testing.T) {
		first, err := f.svc.Admin.CancelBooking(context.Background(), created.BookingID)
		require.NoError(t, err)
		assert.False(t, first.AlreadyCancelled)

		second, err := f.svc.Admin.CancelBooking(context.Background(), created.BookingID)
		require.NoError(t, err)
		assert.True(t, second.AlreadyCancelled)

		var cancelled int
		for _, e := range f.dispatcher.all() {
			if e.Type == notify.EventBookingCancelled {
				cancelled++
			}
		}
		assert.Equal(t, 1, cancelled)
	})

	t.Run("cancelled booking cannot complete", func(t *testing.T) {
		_, err := f.svc.Admin.CompleteBooking(context.Background(), created.BookingID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := f.svc.Admin.CancelBooking(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.svc.Admin.GetBooking(context.Background(), "bad-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAdminCompleteBooking(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Reservation.CreateBooking(context.Background(), f.request())
	require.NoError(t, err)

	done, err := f.svc.Admin.CompleteBooking(context.Background(), created.BookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.False(t, done.Cancellable)

	_, err = f.svc.Admin.CompleteBooking(context.Background(), created.BookingID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Admin.CancelBooking(context.Background(), created.BookingID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdminListBookings(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Reservation.CreateBooking(context.Background(), f.request())
	require.NoError(t, err)

	page, err := f.svc.Admin.ListBookings(context.Background(), &request.ListBookingsRequest{
		PaginatedRequest: request.NewPaginatedRequest(1, 20),
		Status:           "confirmed",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Pagination.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Dana", page.Data[0].StaffName)

	page, err = f.svc.Admin.ListBookings(context.Background(), &request.ListBookingsRequest{
		PaginatedRequest: request.NewPaginatedRequest(1, 20),
		Status:           "cancelled",
	})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	_, err = f.svc.Admin.ListBookings(context.Background(), &request.ListBookingsRequest{
		PaginatedRequest: request.NewPaginatedRequest(1, 20),
		Status:           "lost",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAdminSetStaffActive_HidesAvailability(t *testing.T) {
	store, svc, c := newTimeslotFixture(t)
	staff := store.addStaff("Dana", true)
	store.addSlot(staff.ID, time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC))

	slots, err := svc.Timeslot.GetAvailableTimeslots(context.Background(), staff.ID.String(), "2025-06-03")
	require.NoError(t, err)
	require.Len(t, slots, 1)

	inactive := false
	require.NoError(t, svc.Admin.SetStaffActive(context.Background(), staff.ID.String(), &request.SetActiveRequest{Active: &inactive}))

	_, cached := c.Get(context.Background(), staff.ID, "2025-06-03")
	assert.False(t, cached)

	_, err = svc.Timeslot.GetAvailableTimeslots(context.Background(), staff.ID.String(), "2025-06-03")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Admin.SetStaffActive(context.Background(), uuid.NewString(), &request.SetActiveRequest{Active: &inactive}), ErrNotFound)
	assert.ErrorIs(t, svc.Admin.SetStaffActive(context.Background(), staff.ID.String(), &request.SetActiveRequest{}), ErrInvalidRequest)
}

func TestAdminSetTimeslotBlocked(t *testing.T) {
	store, svc, _ := newTimeslotFixture(t)
	staff := store.addStaff("Dana", true)
	slot := store.addSlot(staff.ID, time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC))

	blocked := true
	_, err := svc.Admin.SetTimeslotBlocked(context.Background(), slot.ID.String(), &request.SetBlockedRequest{Blocked: &blocked})
	require.NoError(t, err)

	slots, err := svc.Timeslot.GetAvailableTimeslots(context.Background(), staff.ID.String(), "2025-06-03")
	require.NoError(t, err)
	assert.Empty(t, slots)

	listed, err := svc.Admin.ListTimeslots(context.Background(), staff.ID.String(), "2025-06-03")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsBlocked)

	_, err = svc.Admin.SetTimeslotBlocked(context.Background(), uuid.NewString(), &request.SetBlockedRequest{Blocked: &blocked})
	assert.ErrorIs(t, err, ErrNotFound)
}
