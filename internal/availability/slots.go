// Package availability plans the discrete timeslot calendar. Everything here is pure;
// persistence lives in the timeslot service.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

type Interval struct {
	Start time.Time
	End   time.Time
}

// Window is a daily working window expressed in minutes after local midnight, [Start, End).
type Window struct {
	Start int
	End   int
}

// DayPlan is the set of slots for one local calendar day.
type DayPlan struct {
	Date  time.Time
	Slots []Interval
}

// ParseClock parses "HH:MM" into minutes after midnight. "24:00" is accepted as end of day.
func ParseClock(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("time of day %q: want HH:MM", value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("time of day %q: %w", value, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("time of day %q: %w", value, err)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time of day %q out of range", value)
	}
	return h*60 + m, nil
}

func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: s, End: e}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func (w Window) Validate() error {
	if w.Start < 0 || w.End > minutesPerDay {
		return fmt.Errorf("working window must fall within one day")
	}
	if w.End <= w.Start {
		return fmt.Errorf("working window end must be after start")
	}
	return nil
}

// ParseWeekdays accepts full or three-letter English weekday names, case-insensitive.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if n == full || n == full[:3] {
				out = append(out, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
	}
	return out, nil
}

// DayBounds returns local midnight of date and of the following day.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// PlanDay returns consecutive [start, end) slots of slotMinutes inside window on the given day.
// The last slot ends at or before the window end. Instants are built from wall-clock values
// so slots stay aligned on daylight saving transitions; wall times that do not exist that day
// are dropped.
func PlanDay(day time.Time, window Window, slotMinutes int, loc *time.Location) []Interval {
	if slotMinutes <= 0 || window.Validate() != nil {
		return nil
	}
	y, mo, d := day.In(loc).Date()

	var slots []Interval
	seen := make(map[int64]struct{})
	for m := window.Start; m+slotMinutes <= window.End; m += slotMinutes {
		start := time.Date(y, mo, d, 0, m, 0, 0, loc)
		// A skipped wall time normalizes onto another instant; drop it.
		if sh, sm, _ := start.Clock(); sh*60+sm != m {
			continue
		}
		if _, dup := seen[start.Unix()]; dup {
			continue
		}

		end := time.Date(y, mo, d, 0, m+slotMinutes, 0, 0, loc)
		if eh, em, _ := end.Clock(); !end.After(start) || (m+slotMinutes < minutesPerDay && eh*60+em != m+slotMinutes) {
			end = start.Add(time.Duration(slotMinutes) * time.Minute)
		}
		seen[start.Unix()] = struct{}{}
		slots = append(slots, Interval{Start: start, End: end})
	}
	return slots
}

// PlanRange plans every day in [from, to] inclusive, skipping excluded weekdays.
func PlanRange(from, to time.Time, window Window, slotMinutes int, excluded []time.Weekday, loc *time.Location) []DayPlan {
	skip := make(map[time.Weekday]bool, len(excluded))
	for _, d := range excluded {
		skip[d] = true
	}

	first, _ := DayBounds(from, loc)
	last, _ := DayBounds(to, loc)

	var plans []DayPlan
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if skip[day.Weekday()] {
			continue
		}
		plans = append(plans, DayPlan{
			Date:  day,
			Slots: PlanDay(day, window, slotMinutes, loc),
		})
	}
	return plans
}
