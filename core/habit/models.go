package habit

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/protimer/core"
)

const DefaultTarget = 7 // days per week

type Habit struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Name          string    `json:"name"`
	Target        int       `json:"target"`
	Streak        int       `json:"streak"`
	CompletedDays []string  `json:"completed_days"` // sorted YYYY-MM-DD
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (h Habit) OwnerID() int { return h.UserID }

// IsCompleted reports whether the habit was tracked on day.
func (h Habit) IsCompleted(day string) bool {
	i := sort.SearchStrings(h.CompletedDays, day)
	return i < len(h.CompletedDays) && h.CompletedDays[i] == day
}

// Track marks day as completed and updates the streak.
// Tracking an already completed day is a no-op and reports false.
// A new latest day grows the streak when the previous day is completed (or when it is the first tracked day)
// and restarts it at 1 after a gap. A back-filled day never shortens the streak; it only extends it when it
// closes a gap in the run of consecutive days ending at the latest tracked day.
func (h *Habit) Track(day time.Time) bool {
	d := day.UTC().Format(core.DateLayout)
	if h.IsCompleted(d) {
		return false
	}

	latest := len(h.CompletedDays) == 0 || d > h.CompletedDays[len(h.CompletedDays)-1]
	if latest {
		prev := day.UTC().AddDate(0, 0, -1).Format(core.DateLayout)
		if h.Streak == 0 || h.IsCompleted(prev) {
			h.Streak++
		} else {
			h.Streak = 1
		}
	}

	h.CompletedDays = append(h.CompletedDays, d)
	sort.Strings(h.CompletedDays)

	if !latest {
		if run := h.currentRun(); run > h.Streak {
			h.Streak = run
		}
	}
	return true
}

// currentRun counts the consecutive completed days ending at the latest one.
func (h Habit) currentRun() int {
	n := len(h.CompletedDays)
	if n == 0 {
		return 0
	}
	run := 1
	for i := n - 1; i > 0; i-- {
		cur, err1 := time.Parse(core.DateLayout, h.CompletedDays[i])
		prev, err2 := time.Parse(core.DateLayout, h.CompletedDays[i-1])
		if err1 != nil || err2 != nil || !cur.AddDate(0, 0, -1).Equal(prev) {
			break
		}
		run++
	}
	return run
}

type NewHabit struct {
	Name   string `json:"name" validate:"required,notblank,max=255"`
	Target int    `json:"target" validate:"omitempty,min=1,max=7"`
}

func (nh *NewHabit) Validate(validate *validator.Validate) error {
	nh.Name = core.CleanString(nh.Name)
	if nh.Target == 0 {
		nh.Target = DefaultTarget
	}
	return validate.Struct(nh)
}

type UpdateHabit struct {
	Name          *string  `json:"name" validate:"omitempty,notblank,max=255"`
	Target        *int     `json:"target" validate:"omitempty,min=1,max=7"`
	Streak        *int     `json:"streak" validate:"omitempty,min=0"`
	CompletedDays []string `json:"completed_days" validate:"omitempty,dive,isodate"`
}

func (uh *UpdateHabit) Validate(validate *validator.Validate) error {
	if uh.Name != nil {
		name := core.CleanString(*uh.Name)
		uh.Name = &name
	}
	return validate.Struct(uh)
}

func (uh UpdateHabit) apply(h Habit) Habit {
	if uh.Name != nil {
		h.Name = *uh.Name
	}
	if uh.Target != nil {
		h.Target = *uh.Target
	}
	if uh.Streak != nil {
		h.Streak = *uh.Streak
	}
	if uh.CompletedDays != nil {
		h.CompletedDays = uniqueSorted(uh.CompletedDays)
	}
	return h
}

type TrackHabit struct {
	Date string `json:"date" validate:"omitempty,isodate"` // defaults to today (UTC)
}

func (th *TrackHabit) Validate(validate *validator.Validate) error {
	th.Date = core.CleanString(th.Date)
	if err := validate.Struct(th); err != nil {
		return err
	}
	if th.Date > core.Today() {
		return core.NewFieldValidationError("date", "cannot track a habit in the future")
	}
	return nil
}

func uniqueSorted(days []string) []string {
	set := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := set[d]; !ok {
			set[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
