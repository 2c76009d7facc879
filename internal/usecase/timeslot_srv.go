package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Softwarehamid/auto-shop-booking/internal/availability"
	"github.com/Softwarehamid/auto-shop-booking/internal/cache"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"
	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/request"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/response"
	"github.com/Softwarehamid/auto-shop-booking/pkg/clock"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxGenerateDays = 366

// TimeslotService materializes the slot calendar and serves availability.
type TimeslotService interface {
	GenerateTimeslots(ctx context.Context, req *request.GenerateTimeslotsRequest) (*response.GenerateTimeslotsResponse, error)
	GenerateHorizon(ctx context.Context) (*response.GenerateTimeslotsResponse, error)
	GetAvailableTimeslots(ctx context.Context, staffID, date string) ([]response.TimeslotResponse, error)
	ListTimeslots(ctx context.Context, staffID, date string) ([]response.AdminTimeslotResponse, error)
	SetBlocked(ctx context.Context, timeslotID string, req *request.SetBlockedRequest) (*response.TimeslotResponse, error)
}

type timeslotService struct {
	repo   *repository.Repository
	config *utils.Config
	clock  clock.Clock
	cache  cache.AvailabilityCache
	loc    *time.Location
	log    *zap.Logger
}

func NewTimeslotService(repo *repository.Repository, config *utils.Config, deps Dependencies, log *zap.Logger) TimeslotService {
	return &timeslotService{
		repo:   repo,
		config: config,
		clock:  deps.Clock,
		cache:  deps.Cache,
		loc:    shopLocation(config),
		log:    log.With(zap.String("service", "timeslot")),
	}
}

type generatePlan struct {
	staffID     uuid.UUID
	from, to    time.Time
	window      availability.Window
	slotMinutes int
	excluded    []time.Weekday
}

func (s *timeslotService) GenerateTimeslots(ctx context.Context, req *request.GenerateTimeslotsRequest) (*response.GenerateTimeslotsResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Generate timeslots validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	plan, err := s.planFromRequest(req)
	if err != nil {
		return nil, err
	}

	staff, err := s.repo.Staff.FindByID(ctx, plan.staffID)
	if err != nil {
		return nil, storageError("find staff", err)
	}
	if staff == nil {
		return nil, fmt.Errorf("staff %s: %w", plan.staffID, ErrNotFound)
	}

	result, err := s.generate(ctx, plan)
	if err != nil {
		return result, err
	}

	s.log.Info("Timeslots generated",
		zap.String("staff_id", plan.staffID.String()),
		zap.Int("days", result.Days),
		zap.Int64("created", result.Created),
		zap.Int64("skipped", result.Skipped),
		zap.Strings("failed_days", result.FailedDays),
	)
	return result, nil
}

func (s *timeslotService) planFromRequest(req *request.GenerateTimeslotsRequest) (generatePlan, error) {
	defaults := s.config.Slots
	fields := make(map[string]string)

	from, _ := time.ParseInLocation(time.DateOnly, req.From, s.loc)
	to, _ := time.ParseInLocation(time.DateOnly, req.To, s.loc)
	if to.Before(from) {
		fields["to"] = "Must not be before from"
	} else if to.Sub(from) > maxGenerateDays*24*time.Hour {
		fields["to"] = fmt.Sprintf("Range may span at most %d days", maxGenerateDays)
	}

	dayStart, dayEnd := defaults.DayStart, defaults.DayEnd
	if req.DayStart != "" {
		dayStart = req.DayStart
	}
	if req.DayEnd != "" {
		dayEnd = req.DayEnd
	}
	window, err := availability.ParseWindow(dayStart, dayEnd)
	if err != nil {
		fields["dayEnd"] = err.Error()
	}

	slotMinutes := defaults.SlotMinutes
	if req.SlotMinutes > 0 {
		slotMinutes = req.SlotMinutes
	}

	names := defaults.ExcludedWeekdays
	if req.ExcludedWeekdays != nil {
		names = req.ExcludedWeekdays
	}
	excluded, err := availability.ParseWeekdays(names)
	if err != nil {
		fields["excludedWeekdays"] = err.Error()
	}

	if len(fields) > 0 {
		return generatePlan{}, newValidationError(fields)
	}

	return generatePlan{
		staffID:     uuid.MustParse(req.StaffID),
		from:        from,
		to:          to,
		window:      window,
		slotMinutes: slotMinutes,
		excluded:    excluded,
	}, nil
}

// generate inserts one day per statement. A failed day is recorded and the run moves on,
// so rerunning the same range later fills the gap without duplicating anything.
func (s *timeslotService) generate(ctx context.Context, plan generatePlan) (*response.GenerateTimeslotsResponse, error) {
	result := &response.GenerateTimeslotsResponse{FailedDays: []string{}}
	now := s.clock.Now()

	for _, day := range availability.PlanRange(plan.from, plan.to, plan.window, plan.slotMinutes, plan.excluded, s.loc) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("generate timeslots interrupted: %w", err)
		}
		result.Days++
		if len(day.Slots) == 0 {
			continue
		}

		slots := make([]*entity.Timeslot, len(day.Slots))
		for i, interval := range day.Slots {
			slots[i] = &entity.Timeslot{
				BaseNoDelete: entity.BaseNoDelete{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				StaffID:   plan.staffID,
				StartTime: interval.Start,
				EndTime:   interval.End,
			}
		}

		created, err := s.repo.Timeslot.CreateBatch(ctx, slots)
		if err != nil {
			s.log.Error("Failed to generate timeslots for day",
				zap.Error(err),
				zap.String("staff_id", plan.staffID.String()),
				zap.String("date", day.Date.Format(time.DateOnly)),
			)
			result.FailedDays = append(result.FailedDays, day.Date.Format(time.DateOnly))
			continue
		}

		result.Created += created
		result.Skipped += int64(len(slots)) - created
		if created > 0 {
			s.cache.Invalidate(ctx, plan.staffID, day.Date.Format(time.DateOnly))
		}
	}

	return result, nil
}

func (s *timeslotService) GenerateHorizon(ctx context.Context) (*response.GenerateTimeslotsResponse, error) {
	defaults := s.config.Slots
	window, err := availability.ParseWindow(defaults.DayStart, defaults.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("slot window config: %w", err)
	}
	excluded, err := availability.ParseWeekdays(defaults.ExcludedWeekdays)
	if err != nil {
		return nil, fmt.Errorf("slot weekday config: %w", err)
	}
	horizon := defaults.HorizonDays
	if horizon <= 0 {
		horizon = 30
	}

	staff, err := s.repo.Staff.FindAll(ctx, true)
	if err != nil {
		return nil, storageError("list staff", err)
	}

	from, _ := availability.DayBounds(s.clock.Now(), s.loc)
	to := from.AddDate(0, 0, horizon-1)

	total := &response.GenerateTimeslotsResponse{FailedDays: []string{}}
	for _, member := range staff {
		result, err := s.generate(ctx, generatePlan{
			staffID:     member.ID,
			from:        from,
			to:          to,
			window:      window,
			slotMinutes: defaults.SlotMinutes,
			excluded:    excluded,
		})
		if result != nil {
			total.Days += result.Days
			total.Created += result.Created
			total.Skipped += result.Skipped
			for _, d := range result.FailedDays {
				total.FailedDays = append(total.FailedDays, member.ID.String()+"/"+d)
			}
		}
		if err != nil {
			return total, err
		}
	}

	s.log.Info("Timeslot horizon generated",
		zap.Int("staff", len(staff)),
		zap.Int("horizon_days", horizon),
		zap.Int64("created", total.Created),
		zap.Int("failed_days", len(total.FailedDays)),
	)
	return total, nil
}

func (s *timeslotService) parseStaffAndDate(staffID, date string) (uuid.UUID, time.Time, time.Time, error) {
	fields := make(map[string]string)

	id, err := uuid.Parse(staffID)
	if err != nil {
		fields["staff_id"] = "Must be a valid UUID"
	}
	day, err := time.ParseInLocation(time.DateOnly, date, s.loc)
	if err != nil {
		fields["date"] = "Must match the 2006-01-02 layout"
	}
	if len(fields) > 0 {
		return uuid.Nil, time.Time{}, time.Time{}, newValidationError(fields)
	}

	from, to := availability.DayBounds(day, s.loc)
	return id, from, to, nil
}

func (s *timeslotService) GetAvailableTimeslots(ctx context.Context, staffID, date string) ([]response.TimeslotResponse, error) {
	id, from, to, err := s.parseStaffAndDate(staffID, date)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	if cached, ok := s.cache.Get(ctx, id, date); ok {
		var slots []response.TimeslotResponse
		if err := json.Unmarshal(cached, &slots); err == nil {
			return dropStarted(slots, now), nil
		}
	}

	staff, err := s.repo.Staff.FindByID(ctx, id)
	if err != nil {
		return nil, storageError("find staff", err)
	}
	if staff == nil || !staff.IsActive {
		return nil, fmt.Errorf("staff %s: %w", id, ErrNotFound)
	}

	found, err := s.repo.Timeslot.FindAvailable(ctx, id, from, to, now)
	if err != nil {
		return nil, storageError("find available timeslots", err)
	}

	slots := make([]response.TimeslotResponse, 0, len(found))
	for _, slot := range found {
		slots = append(slots, response.TimeslotToResponse(slot))
	}

	if raw, err := json.Marshal(slots); err == nil {
		s.cache.Set(ctx, id, date, raw)
	}

	return slots, nil
}

func dropStarted(slots []response.TimeslotResponse, now time.Time) []response.TimeslotResponse {
	out := make([]response.TimeslotResponse, 0, len(slots))
	for _, slot := range slots {
		if slot.StartTime.After(now) {
			out = append(out, slot)
		}
	}
	return out
}

func (s *timeslotService) ListTimeslots(ctx context.Context, staffID, date string) ([]response.AdminTimeslotResponse, error) {
	id, from, to, err := s.parseStaffAndDate(staffID, date)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.Timeslot.FindByStaffAndRange(ctx, id, from, to)
	if err != nil {
		return nil, storageError("list timeslots", err)
	}

	slots := make([]response.AdminTimeslotResponse, 0, len(found))
	for _, slot := range found {
		slots = append(slots, response.TimeslotToAdminResponse(slot))
	}
	return slots, nil
}

func (s *timeslotService) SetBlocked(ctx context.Context, timeslotID string, req *request.SetBlockedRequest) (*response.TimeslotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	id, err := uuid.Parse(timeslotID)
	if err != nil {
		return nil, fieldError("id", "Must be a valid UUID")
	}

	slot, err := s.repo.Timeslot.SetBlocked(ctx, id, *req.Blocked)
	if err != nil {
		return nil, storageError("set timeslot blocked", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("timeslot %s: %w", id, ErrNotFound)
	}

	s.cache.Invalidate(ctx, slot.StaffID, dateKey(slot.StartTime, s.loc))
	s.log.Info("Timeslot blocked flag changed",
		zap.String("timeslot_id", id.String()),
		zap.Bool("blocked", slot.IsBlocked),
	)

	resp := response.TimeslotToResponse(slot)
	return &resp, nil
}
