package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	mu     sync.Mutex
	name   string
	err    error
	events []Event
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Notify(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type stubSender struct {
	to, subject, body string
}

func (s *stubSender) Send(to, subject, body string) error {
	s.to, s.subject, s.body = to, subject, body
	return nil
}

func sampleEvent(t EventType) Event {
	return Event{
		Type:          t,
		BookingID:     uuid.MustParse("7f1c2d9e-3a4b-4c5d-8e6f-0a1b2c3d4e5f"),
		ServiceName:   "Full Detail",
		StaffName:     "Alex",
		StartTime:     time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
		CustomerName:  "Jo",
		CustomerEmail: "jo@example.com",
		CancelURL:     "https://shop.example/cancel?booking=7f1c&token=secret-token",
		OccurredAt:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestMulti_JoinsErrorsAndReachesEveryNotifier(t *testing.T) {
	failing := &recordingNotifier{name: "failing", err: errors.New("smtp down")}
	ok := &recordingNotifier{name: "ok"}

	err := Multi{failing, ok}.Notify(context.Background(), sampleEvent(EventBookingConfirmed))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing: smtp down")
	assert.Equal(t, 1, ok.count())
}

func TestDispatcher_FailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	failing := &recordingNotifier{name: "failing", err: errors.New("broker unreachable")}
	d := NewDispatcher(failing, time.Second, zap.New(core))

	d.Dispatch(sampleEvent(EventBookingConfirmed))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))

	assert.Equal(t, 1, failing.count())
	entries := logs.FilterMessage("Booking notification failed").All()
	require.Len(t, entries, 1)
	for _, f := range entries[0].Context {
		assert.NotContains(t, f.String, "secret-token")
	}
}

func TestEmailNotifier_ConfirmationCarriesCancelLink(t *testing.T) {
	sender := &stubSender{}
	n := NewEmailNotifier(sender)

	require.NoError(t, n.Notify(context.Background(), sampleEvent(EventBookingConfirmed)))

	assert.Equal(t, "jo@example.com", sender.to)
	assert.Equal(t, "Your booking is confirmed", sender.subject)
	assert.Contains(t, sender.body, "token=secret-token")
	assert.Contains(t, sender.body, "Full Detail with Alex")
}

func TestEmailNotifier_CancellationOmitsCancelLink(t *testing.T) {
	sender := &stubSender{}
	n := NewEmailNotifier(sender)

	require.NoError(t, n.Notify(context.Background(), sampleEvent(EventBookingCancelled)))

	assert.Equal(t, "Your booking has been cancelled", sender.subject)
	assert.NotContains(t, sender.body, "token=")
}

func TestEventMessage_HasNoCredentialOrContact(t *testing.T) {
	raw, err := json.Marshal(sampleEvent(EventBookingConfirmed).Message())
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "secret-token")
	assert.NotContains(t, body, "jo@example.com")
	assert.Contains(t, body, `"type":"booking.confirmed"`)
}

func TestBuildMessage_Headers(t *testing.T) {
	msg := buildMessage("shop@example.com", "jo@example.com", "Hello", "Body")

	assert.Contains(t, msg, "From: shop@example.com\r\n")
	assert.Contains(t, msg, "To: jo@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.Contains(t, msg, "\r\n\r\nBody\r\n")
}
