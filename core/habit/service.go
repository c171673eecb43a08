package habit

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/protimer/core"
)

var ErrNotFound = errors.New("habit not found")

type (
	Repository interface {
		CreateHabit(ctx context.Context, h Habit) (Habit, error)
		QueryHabits(ctx context.Context, userID int) ([]Habit, error)
		GetHabitByID(ctx context.Context, id int) (Habit, error)
		UpdateHabit(ctx context.Context, h Habit) (Habit, error)
		DeleteHabit(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, userID int, nh NewHabit) (Habit, error) {
	now := time.Now().UTC()
	return svc.repo.CreateHabit(ctx, Habit{
		UserID:        userID,
		Name:          nh.Name,
		Target:        nh.Target,
		CompletedDays: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *Service) Query(ctx context.Context, userID int) ([]Habit, error) {
	return svc.repo.QueryHabits(ctx, userID)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Habit, error) {
	return svc.repo.GetHabitByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Habit, uh UpdateHabit) (Habit, error) {
	h := uh.apply(orig)
	h.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateHabit(ctx, h)
}

// Track marks the habit completed on th.Date (today when empty).
func (svc *Service) Track(ctx context.Context, h Habit, th TrackHabit) (Habit, error) {
	day := core.NowFunc().UTC()
	if th.Date != "" {
		d, err := time.Parse(core.DateLayout, th.Date)
		if err != nil {
			return Habit{}, core.NewFieldValidationError("date", "date must be formatted as YYYY-MM-DD")
		}
		day = d
	}
	if !h.Track(day) {
		return h, nil
	}
	h.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateHabit(ctx, h)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteHabit(ctx, id)
}
