package adaptor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Softwarehamid/auto-shop-booking/internal/dto/request"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/response"
	"github.com/Softwarehamid/auto-shop-booking/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReservationService struct {
	mock.Mock
}

func (m *mockReservationService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.CreateBookingResponse)
	return resp, args.Error(1)
}

func (m *mockReservationService) LookupBooking(ctx context.Context, bookingID, token string) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID, token)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockReservationService) CancelBooking(ctx context.Context, req *request.CancelBookingRequest) (*response.CancelBookingResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.CancelBookingResponse)
	return resp, args.Error(1)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func bookingRouter(svc usecase.ReservationService) http.Handler {
	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/bookings", h.CreateBooking)
	r.Get("/api/bookings/lookup", h.LookupBooking)
	r.Post("/api/bookings/cancel", h.CancelBooking)
	return r
}

func perform(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

const createBody = `{"serviceId":"0b6a3c1e-2f7d-4a55-9a55-6e7f0a1b2c3d","staffId":"1c7b4d2f-3a8e-4b66-8b66-7f801b2c3d4e","timeslotId":"2d8c5e3a-4b9f-4c77-9c77-80912c3d4e5f","customerName":"Jamie Rivera","customerEmail":"jamie@example.com"}`

func TestCreateBooking_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "slot taken",
			err:      usecase.ErrSlotAlreadyTaken,
			wantCode: http.StatusConflict,
			wantBody: "slot_already_taken",
		},
		{
			name:     "validation",
			err:      &usecase.ValidationError{Fields: map[string]string{"customerEmail": "Invalid email format"}},
			wantCode: http.StatusBadRequest,
			wantBody: "customerEmail",
		},
		{
			name:     "unavailable",
			err:      fmt.Errorf("claim timeslot: %w", usecase.ErrUnavailable),
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "unexpected",
			err:      fmt.Errorf("boom"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockReservationService)
			svc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec, env := perform(t, bookingRouter(svc), http.MethodPost, "/api/bookings", createBody)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Status)
			if tt.wantBody != "" {
				assert.Contains(t, string(env.Errors), tt.wantBody)
			}
		})
	}
}

func TestCreateBooking_Success(t *testing.T) {
	svc := new(mockReservationService)
	svc.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *request.CreateBookingRequest) bool {
		return req.CustomerEmail == "jamie@example.com"
	})).Return(&response.CreateBookingResponse{BookingID: "b-1", CancelToken: "tok"}, nil)

	rec, env := perform(t, bookingRouter(svc), http.MethodPost, "/api/bookings", createBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
	assert.JSONEq(t, `{"bookingId":"b-1","cancelToken":"tok"}`, string(env.Data))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	svc.AssertExpectations(t)
}

func TestCreateBooking_MalformedBody(t *testing.T) {
	svc := new(mockReservationService)

	rec, _ := perform(t, bookingRouter(svc), http.MethodPost, "/api/bookings", `{"serviceId":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestLookupBooking_NotFound(t *testing.T) {
	svc := new(mockReservationService)
	svc.On("LookupBooking", mock.Anything, "b-1", "wrong").Return(nil, usecase.ErrNotFound)

	rec, env := perform(t, bookingRouter(svc), http.MethodGet, "/api/bookings/lookup?booking=b-1&token=wrong", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking not found", env.Message)
}

func TestCancelBooking_Responses(t *testing.T) {
	t.Run("already cancelled", func(t *testing.T) {
		svc := new(mockReservationService)
		svc.On("CancelBooking", mock.Anything, &request.CancelBookingRequest{BookingID: "b-1", Token: "tok"}).
			Return(&response.CancelBookingResponse{BookingID: "b-1", Status: "cancelled", AlreadyCancelled: true}, nil)

		rec, env := perform(t, bookingRouter(svc), http.MethodPost, "/api/bookings/cancel", `{"bookingId":"b-1","token":"tok"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Booking was already cancelled", env.Message)
		assert.Contains(t, string(env.Data), `"alreadyCancelled":true`)
	})

	t.Run("completed booking", func(t *testing.T) {
		svc := new(mockReservationService)
		svc.On("CancelBooking", mock.Anything, mock.Anything).Return(nil, usecase.ErrInvalidTransition)

		rec, _ := perform(t, bookingRouter(svc), http.MethodPost, "/api/bookings/cancel", `{"bookingId":"b-1","token":"tok"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
