package wire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestApp(db Pinger) *App {
	config := &utils.Config{RateLimit: utils.RateLimitConfig{Limit: 100}}
	return Wiring(&repository.Repository{}, config, Infra{DB: db}, zap.NewNop())
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	tests := []struct {
		name string
		path string
		db   Pinger
		want int
	}{
		{name: "health", path: "/health", db: stubPinger{}, want: http.StatusOK},
		{name: "ready", path: "/ready", db: stubPinger{}, want: http.StatusOK},
		{name: "not ready", path: "/ready", db: stubPinger{err: errors.New("dial tcp: refused")}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestApp(tt.db).Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_AdminRoutesRequireSession(t *testing.T) {
	app := newTestApp(stubPinger{})

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/bookings"},
		{http.MethodPut, "/api/admin/bookings/abc/cancel"},
		{http.MethodPost, "/api/admin/timeslots/generate"},
		{http.MethodPost, "/api/admin/logout"},
	} {
		rec := httptest.NewRecorder()
		app.Handler.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestRouter_RequestIDHeaderAllowedByCORS(t *testing.T) {
	app := newTestApp(stubPinger{})

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
