package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core/habit"
)

const habitColumns = `id, user_id, name, target, streak, completed_days, created_at, updated_at`

type habitRow struct {
	ID            int            `db:"id"`
	UserID        int            `db:"user_id"`
	Name          string         `db:"name"`
	Target        int            `db:"target"`
	Streak        int            `db:"streak"`
	CompletedDays pq.StringArray `db:"completed_days"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r habitRow) unwrap() habit.Habit {
	days := []string(r.CompletedDays)
	if days == nil {
		days = []string{}
	}
	return habit.Habit{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Target:        r.Target,
		Streak:        r.Streak,
		CompletedDays: days,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type habitRepository struct {
	db *sqlx.DB
}

var _ habit.Repository = (*habitRepository)(nil) // interface compliance check

func NewHabitRepository(db *sqlx.DB) habit.Repository {
	return &habitRepository{db: db}
}

func (repo *habitRepository) CreateHabit(ctx context.Context, h habit.Habit) (habit.Habit, error) {
	if h.CompletedDays == nil {
		h.CompletedDays = []string{}
	}
	q := `INSERT INTO habit (user_id, name, target, streak, completed_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q,
		h.UserID, h.Name, h.Target, h.Streak, pq.StringArray(h.CompletedDays), h.CreatedAt.UTC(), h.UpdatedAt.UTC(),
	).Scan(&h.ID)
	if err != nil {
		return habit.Habit{}, errors.Wrap(err, "inserting habit")
	}
	return h, nil
}

func (repo *habitRepository) QueryHabits(ctx context.Context, userID int) ([]habit.Habit, error) {
	var rows []habitRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+habitColumns+` FROM habit WHERE user_id = $1 ORDER BY id`, userID); err != nil {
		return nil, errors.Wrap(err, "querying habits")
	}
	habits := make([]habit.Habit, 0, len(rows))
	for _, r := range rows {
		habits = append(habits, r.unwrap())
	}
	return habits, nil
}

func (repo *habitRepository) GetHabitByID(ctx context.Context, id int) (habit.Habit, error) {
	var row habitRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+habitColumns+` FROM habit WHERE id = $1`, id); err != nil {
		return habit.Habit{}, trapNoRowsErr(err, habit.ErrNotFound, "finding habit")
	}
	return row.unwrap(), nil
}

func (repo *habitRepository) UpdateHabit(ctx context.Context, h habit.Habit) (habit.Habit, error) {
	if h.CompletedDays == nil {
		h.CompletedDays = []string{}
	}
	q := `UPDATE habit SET name = $2, target = $3, streak = $4, completed_days = $5, updated_at = $6 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		h.ID, h.Name, h.Target, h.Streak, pq.StringArray(h.CompletedDays), h.UpdatedAt.UTC())
	if err != nil {
		return habit.Habit{}, errors.Wrap(err, "updating habit")
	}
	if err = checkAffected(res, habit.ErrNotFound); err != nil {
		return habit.Habit{}, err
	}
	return h, nil
}

func (repo *habitRepository) DeleteHabit(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM habit WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting habit")
	}
	return checkAffected(res, habit.ErrNotFound)
}
