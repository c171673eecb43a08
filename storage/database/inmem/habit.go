package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/protimer/core/habit"
)

type habitRepository struct {
	db *DB
}

var _ habit.Repository = (*habitRepository)(nil) // interface compliance check

func NewHabitRepository(db *DB) habit.Repository {
	return &habitRepository{db: db}
}

func (repo *habitRepository) CreateHabit(_ context.Context, h habit.Habit) (habit.Habit, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	h.ID = repo.db.nextID("habit")
	h.CompletedDays = copyStrings(h.CompletedDays)
	repo.db.habits[h.ID] = h
	return h, nil
}

func (repo *habitRepository) QueryHabits(_ context.Context, userID int) ([]habit.Habit, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	habits := make([]habit.Habit, 0)
	for _, h := range repo.db.habits {
		if h.UserID == userID {
			h.CompletedDays = copyStrings(h.CompletedDays)
			habits = append(habits, h)
		}
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].ID < habits[j].ID })
	return habits, nil
}

func (repo *habitRepository) GetHabitByID(_ context.Context, id int) (habit.Habit, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	h, ok := repo.db.habits[id]
	if !ok {
		return habit.Habit{}, habit.ErrNotFound
	}
	h.CompletedDays = copyStrings(h.CompletedDays)
	return h, nil
}

func (repo *habitRepository) UpdateHabit(_ context.Context, h habit.Habit) (habit.Habit, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.habits[h.ID]; !ok {
		return habit.Habit{}, habit.ErrNotFound
	}
	h.CompletedDays = copyStrings(h.CompletedDays)
	repo.db.habits[h.ID] = h
	return h, nil
}

func (repo *habitRepository) DeleteHabit(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.habits[id]; !ok {
		return habit.ErrNotFound
	}
	delete(repo.db.habits, id)
	return nil
}
