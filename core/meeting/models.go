package meeting

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/protimer/core"
)

type Meeting struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Name         string    `json:"name"`
	Date         string    `json:"date"`     // YYYY-MM-DD
	Time         string    `json:"time"`     // HH:MM
	Duration     int       `json:"duration"` // minutes
	Agenda       string    `json:"agenda"`
	Notes        string    `json:"notes"`
	Participants []string  `json:"participants"`
	ActionItems  []string  `json:"action_items"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m Meeting) OwnerID() int { return m.UserID }

type NewMeeting struct {
	Name         string   `json:"name" validate:"required,notblank,max=255"`
	Date         string   `json:"date" validate:"required,isodate"`
	Time         string   `json:"time" validate:"omitempty,clock"`
	Duration     int      `json:"duration" validate:"min=0,max=1440"`
	Agenda       string   `json:"agenda"`
	Notes        string   `json:"notes"`
	Participants []string `json:"participants"`
	ActionItems  []string `json:"action_items"`
}

func (nm *NewMeeting) Validate(validate *validator.Validate) error {
	nm.Name = core.CleanString(nm.Name)
	nm.Participants = core.CleanStrings(nm.Participants)
	nm.ActionItems = core.CleanStrings(nm.ActionItems)
	return validate.Struct(nm)
}

type UpdateMeeting struct {
	Name         *string  `json:"name" validate:"omitempty,notblank,max=255"`
	Date         *string  `json:"date" validate:"omitempty,isodate"`
	Time         *string  `json:"time" validate:"omitempty,clock|eq="`
	Duration     *int     `json:"duration" validate:"omitempty,min=0,max=1440"`
	Agenda       *string  `json:"agenda"`
	Notes        *string  `json:"notes"`
	Participants []string `json:"participants"`
	ActionItems  []string `json:"action_items"`
}

func (um *UpdateMeeting) Validate(validate *validator.Validate) error {
	if um.Name != nil {
		name := core.CleanString(*um.Name)
		um.Name = &name
	}
	return validate.Struct(um)
}

func (um UpdateMeeting) apply(m Meeting) Meeting {
	if um.Name != nil {
		m.Name = *um.Name
	}
	if um.Date != nil {
		m.Date = *um.Date
	}
	if um.Time != nil {
		m.Time = *um.Time
	}
	if um.Duration != nil {
		m.Duration = *um.Duration
	}
	if um.Agenda != nil {
		m.Agenda = *um.Agenda
	}
	if um.Notes != nil {
		m.Notes = *um.Notes
	}
	if um.Participants != nil {
		m.Participants = core.CleanStrings(um.Participants)
	}
	if um.ActionItems != nil {
		m.ActionItems = core.CleanStrings(um.ActionItems)
	}
	return m
}

type QueryFilter struct {
	Date string `query:"date"`
}
