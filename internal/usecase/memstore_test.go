package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for Postgres. Claim holds the mutex for the whole
// check-and-insert, which gives the same guarantee as the partial unique index.
type memStore struct {
	mu       sync.Mutex
	staff    map[uuid.UUID]*entity.Staff
	services map[uuid.UUID]*entity.Service
	slots    map[uuid.UUID]*entity.Timeslot
	bookings map[uuid.UUID]*entity.Booking
	sessions map[uuid.UUID]*entity.AdminSession

	claimErr     error
	failBatchDay map[string]error
	claimCalls   int
}

func newMemStore() *memStore {
	return &memStore{
		staff:        make(map[uuid.UUID]*entity.Staff),
		services:     make(map[uuid.UUID]*entity.Service),
		slots:        make(map[uuid.UUID]*entity.Timeslot),
		bookings:     make(map[uuid.UUID]*entity.Booking),
		sessions:     make(map[uuid.UUID]*entity.AdminSession),
		failBatchDay: make(map[string]error),
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Staff:    memStaffRepo{m},
		Service:  memServiceRepo{m},
		Timeslot: memTimeslotRepo{m},
		Booking:  memBookingRepo{m},
		Session:  memSessionRepo{m},
	}
}

func (m *memStore) addStaff(name string, active bool) *entity.Staff {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &entity.Staff{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Name: name, IsActive: active}
	m.staff[s.ID] = s
	return s
}

func (m *memStore) addService(name string, active bool) *entity.Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &entity.Service{
		BaseNoDelete:    entity.BaseNoDelete{ID: uuid.New()},
		Name:            name,
		DurationMinutes: 60,
		Price:           decimal.RequireFromString("89.00"),
		IsActive:        active,
	}
	m.services[s.ID] = s
	return s
}

func (m *memStore) addSlot(staffID uuid.UUID, start time.Time) *entity.Timeslot {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &entity.Timeslot{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		StaffID:      staffID,
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
	}
	m.slots[t.ID] = t
	return t
}

func (m *memStore) activeBookingsFor(timeslotID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.TimeslotID == timeslotID && b.Status.IsActive() {
			n++
		}
	}
	return n
}

func (m *memStore) slotTaken(timeslotID uuid.UUID) bool {
	for _, b := range m.bookings {
		if b.TimeslotID == timeslotID && b.Status != entity.BookingStatusCancelled {
			return true
		}
	}
	return false
}

func (m *memStore) detail(b *entity.Booking) *entity.BookingDetail {
	slot := m.slots[b.TimeslotID]
	return &entity.BookingDetail{
		Booking:     *b,
		ServiceName: m.services[b.ServiceID].Name,
		StaffName:   m.staff[b.StaffID].Name,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	}
}

// ==================== BOOKING ====================

type memBookingRepo struct{ m *memStore }

func (r memBookingRepo) Claim(_ context.Context, b *entity.Booking) (*entity.BookingDetail, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimCalls++

	if m.claimErr != nil {
		return nil, m.claimErr
	}

	slot, okSlot := m.slots[b.TimeslotID]
	staff, okStaff := m.staff[b.StaffID]
	service, okService := m.services[b.ServiceID]
	if !okSlot || !okStaff || !okService ||
		slot.StaffID != b.StaffID || slot.IsBlocked || !slot.StartTime.After(b.CreatedAt) ||
		!staff.IsActive || !service.IsActive {
		return nil, repository.ErrClaimRejected
	}
	if m.slotTaken(b.TimeslotID) {
		return nil, repository.ErrTimeslotTaken
	}

	stored := *b
	m.bookings[b.ID] = &stored
	return m.detail(&stored), nil
}

func (r memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r memBookingRepo) FindDetailByID(_ context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	return r.m.detail(b), nil
}

func (r memBookingRepo) CancelWithToken(_ context.Context, id uuid.UUID, tokenHash string, now time.Time) (*entity.BookingDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok || b.CancelTokenHash != tokenHash || !b.Status.IsActive() {
		return nil, nil
	}
	b.Status = entity.BookingStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	return r.m.detail(b), nil
}

func (r memBookingRepo) Transition(_ context.Context, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus, now time.Time) (*entity.BookingDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	allowed := false
	for _, s := range from {
		if b.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return nil, nil
	}
	b.Status = to
	b.UpdatedAt = now
	switch to {
	case entity.BookingStatusCancelled:
		b.CancelledAt = &now
	case entity.BookingStatusCompleted:
		b.CompletedAt = &now
	}
	return r.m.detail(b), nil
}

func (r memBookingRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	b.PaymentStatus = status
	return nil
}

func (r memBookingRepo) List(_ context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.BookingDetail, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.BookingDetail
	for _, b := range r.m.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.StaffID != nil && b.StaffID != *filter.StaffID {
			continue
		}
		out = append(out, r.m.detail(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r memBookingRepo) Count(ctx context.Context, filter entity.BookingFilter) (int64, error) {
	all, err := r.List(ctx, filter, 1<<30, 0)
	return int64(len(all)), err
}

// ==================== CATALOG ====================

type memStaffRepo struct{ m *memStore }

func (r memStaffRepo) Create(_ context.Context, s *entity.Staff) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.staff[s.ID] = s
	return nil
}

func (r memStaffRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Staff, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.staff[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r memStaffRepo) FindAll(_ context.Context, activeOnly bool) ([]*entity.Staff, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Staff
	for _, s := range r.m.staff {
		if activeOnly && !s.IsActive {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memStaffRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.staff[id]
	if !ok {
		return fmt.Errorf("staff %s: %w", id, repository.ErrNotFound)
	}
	s.IsActive = active
	return nil
}

type memServiceRepo struct{ m *memStore }

func (r memServiceRepo) Create(_ context.Context, s *entity.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.services[s.ID] = s
	return nil
}

func (r memServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.services[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r memServiceRepo) FindAll(_ context.Context, activeOnly bool) ([]*entity.Service, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Service
	for _, s := range r.m.services {
		if activeOnly && !s.IsActive {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memServiceRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.services[id]
	if !ok {
		return fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
	}
	s.IsActive = active
	return nil
}

// ==================== TIMESLOT ====================

type memTimeslotRepo struct{ m *memStore }

func (r memTimeslotRepo) CreateBatch(_ context.Context, slots []*entity.Timeslot) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if len(slots) == 0 {
		return 0, nil
	}
	if err, ok := r.m.failBatchDay[slots[0].StartTime.UTC().Format(time.DateOnly)]; ok {
		return 0, err
	}

	var created int64
	for _, s := range slots {
		dup := false
		for _, existing := range r.m.slots {
			if existing.StaffID == s.StaffID && existing.StartTime.Equal(s.StartTime) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		c := *s
		r.m.slots[c.ID] = &c
		created++
	}
	return created, nil
}

func (r memTimeslotRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Timeslot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.slots[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r memTimeslotRepo) FindAvailable(_ context.Context, staffID uuid.UUID, from, to, now time.Time) ([]*entity.Timeslot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Timeslot
	for _, s := range r.m.slots {
		if s.StaffID != staffID || s.IsBlocked || s.StartTime.Before(from) || !s.StartTime.Before(to) ||
			!s.StartTime.After(now) || r.m.slotTaken(s.ID) {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r memTimeslotRepo) FindByStaffAndRange(_ context.Context, staffID uuid.UUID, from, to time.Time) ([]*entity.TimeslotWithBooking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.TimeslotWithBooking
	for _, s := range r.m.slots {
		if s.StaffID != staffID || s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		row := &entity.TimeslotWithBooking{Timeslot: *s}
		for _, b := range r.m.bookings {
			if b.TimeslotID == s.ID && b.Status != entity.BookingStatusCancelled {
				id := b.ID
				row.BookingID = &id
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r memTimeslotRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) (*entity.Timeslot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.slots[id]
	if !ok {
		return nil, nil
	}
	s.IsBlocked = blocked
	c := *s
	return &c, nil
}

// ==================== SESSION ====================

type memSessionRepo struct{ m *memStore }

func (r memSessionRepo) Create(_ context.Context, s *entity.AdminSession) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.sessions[s.Token] = s
	return nil
}

func (r memSessionRepo) FindValidSession(_ context.Context, token uuid.UUID, now time.Time) (*entity.AdminSession, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[token]
	if !ok || s.RevokedAt != nil || !s.ExpiresAt.After(now) {
		return nil, nil
	}
	return s, nil
}

func (r memSessionRepo) Revoke(_ context.Context, token uuid.UUID, now time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[token]
	if !ok || s.RevokedAt != nil {
		return fmt.Errorf("session: %w", repository.ErrNotFound)
	}
	s.RevokedAt = &now
	return nil
}

func (r memSessionRepo) CleanExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for token, s := range r.m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(r.m.sessions, token)
			n++
		}
	}
	return n, nil
}
