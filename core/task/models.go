package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/protimer/core"
)

// Priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Task struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`       // YYYY-MM-DD
	StartTime string    `json:"start_time"` // HH:MM
	EndTime   string    `json:"end_time"`   // HH:MM
	Priority  string    `json:"priority"`
	Completed bool      `json:"completed"`
	IsHabit   bool      `json:"is_habit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Task) OwnerID() int { return t.UserID }

type NewTask struct {
	Name      string `json:"name" validate:"required,notblank,max=255"`
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"start_time" validate:"omitempty,clock"`
	EndTime   string `json:"end_time" validate:"omitempty,clock"`
	Priority  string `json:"priority" validate:"omitempty,priority"`
	Completed bool   `json:"completed"`
	IsHabit   bool   `json:"is_habit"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Priority = core.CleanString(nt.Priority, true /* lower */)
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	if err := validate.Struct(nt); err != nil {
		return err
	}
	return checkTimeRange(nt.StartTime, nt.EndTime)
}

// UpdateTask defines what information may be provided to modify an existing Task.
// nil fields are left untouched.
type UpdateTask struct {
	Name      *string `json:"name" validate:"omitempty,notblank,max=255"`
	Date      *string `json:"date" validate:"omitempty,isodate"`
	StartTime *string `json:"start_time" validate:"omitempty,clock|eq="`
	EndTime   *string `json:"end_time" validate:"omitempty,clock|eq="`
	Priority  *string `json:"priority" validate:"omitempty,priority"`
	Completed *bool   `json:"completed"`
	IsHabit   *bool   `json:"is_habit"`
}

func (ut *UpdateTask) Validate(orig Task, validate *validator.Validate) error {
	if ut.Name != nil {
		name := core.CleanString(*ut.Name)
		ut.Name = &name
	}
	if err := validate.Struct(ut); err != nil {
		return err
	}
	start, end := orig.StartTime, orig.EndTime
	if ut.StartTime != nil {
		start = *ut.StartTime
	}
	if ut.EndTime != nil {
		end = *ut.EndTime
	}
	return checkTimeRange(start, end)
}

func (ut UpdateTask) apply(t Task) Task {
	if ut.Name != nil {
		t.Name = *ut.Name
	}
	if ut.Date != nil {
		t.Date = *ut.Date
	}
	if ut.StartTime != nil {
		t.StartTime = *ut.StartTime
	}
	if ut.EndTime != nil {
		t.EndTime = *ut.EndTime
	}
	if ut.Priority != nil {
		t.Priority = *ut.Priority
	}
	if ut.Completed != nil {
		t.Completed = *ut.Completed
	}
	if ut.IsHabit != nil {
		t.IsHabit = *ut.IsHabit
	}
	return t
}

// checkTimeRange makes sure end is not before start; HH:MM strings compare lexically.
func checkTimeRange(start, end string) error {
	if start != "" && end != "" && end < start {
		return core.NewFieldValidationError("end_time", "end_time cannot be before start_time")
	}
	return nil
}

type QueryFilter struct {
	Date      string `query:"date"`
	Completed *bool  `query:"completed"`
	Priority  string `query:"priority"`
}

func (qf *QueryFilter) Clean() {
	qf.Date = core.CleanString(qf.Date)
	qf.Priority = core.CleanString(qf.Priority, true /* lower */)
}

// OrderingFields lists the fields tasks may be ordered by.
var OrderingFields = []string{"name", "date", "start_time", "priority", "completed", "created_at"}
