package flashcard

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/protimer/core"
)

type Deck struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"` // YYYY-MM-DD, optional
	CardCount   int       `json:"card_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d Deck) OwnerID() int { return d.UserID }

type Card struct {
	ID        int       `json:"id"`
	DeckID    int       `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
}

type NewDeck struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"omitempty,isodate"`
}

func (nd *NewDeck) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Description = core.CleanString(nd.Description)
	nd.DueDate = core.CleanString(nd.DueDate)
	return validate.Struct(nd)
}

type UpdateDeck struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitempty,isodate|eq="` // "" clears the due date
}

func (ud *UpdateDeck) Validate(validate *validator.Validate) error {
	if ud.Name != nil {
		name := core.CleanString(*ud.Name)
		ud.Name = &name
	}
	return validate.Struct(ud)
}

func (ud UpdateDeck) apply(d Deck) Deck {
	if ud.Name != nil {
		d.Name = *ud.Name
	}
	if ud.Description != nil {
		d.Description = core.CleanString(*ud.Description)
	}
	if ud.DueDate != nil {
		d.DueDate = *ud.DueDate
	}
	return d
}

type NewCard struct {
	Front string `json:"front" validate:"required,notblank"`
	Back  string `json:"back" validate:"required,notblank"`
}

func (nc *NewCard) Validate(validate *validator.Validate) error {
	nc.Front = core.CleanString(nc.Front)
	nc.Back = core.CleanString(nc.Back)
	return validate.Struct(nc)
}

type UpdateCard struct {
	Front *string `json:"front" validate:"omitempty,notblank"`
	Back  *string `json:"back" validate:"omitempty,notblank"`
}

func (uc *UpdateCard) Validate(validate *validator.Validate) error {
	return validate.Struct(uc)
}

func (uc UpdateCard) apply(c Card) Card {
	if uc.Front != nil {
		c.Front = core.CleanString(*uc.Front)
	}
	if uc.Back != nil {
		c.Back = core.CleanString(*uc.Back)
	}
	return c
}
