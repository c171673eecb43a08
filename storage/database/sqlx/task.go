package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/task"
)

const taskColumns = `id, user_id, name, date::text AS date, start_time, end_time, priority, completed, is_habit, created_at, updated_at`

var taskOrderExprs = map[string]string{
	"priority": "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END",
}

type taskRow struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	Name      string    `db:"name"`
	Date      string    `db:"date"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Priority  string    `db:"priority"`
	Completed bool      `db:"completed"`
	IsHabit   bool      `db:"is_habit"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r taskRow) unwrap() task.Task {
	t := task.Task(r)
	t.CreatedAt, t.UpdatedAt = r.CreatedAt.UTC(), r.UpdatedAt.UTC()
	return t
}

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	q := `INSERT INTO task (user_id, name, date, start_time, end_time, priority, completed, is_habit, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q,
		t.UserID, t.Name, t.Date, t.StartTime, t.EndTime, t.Priority, t.Completed, t.IsHabit,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	).Scan(&t.ID)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return t, nil
}

func (repo *taskRepository) QueryTasks(ctx context.Context, userID int, filter task.QueryFilter, ordering []core.DBOrdering) ([]task.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM task WHERE user_id = ?`
	args := []interface{}{userID}
	if filter.Date != "" {
		q += ` AND date = ?::date`
		args = append(args, filter.Date)
	}
	if filter.Completed != nil {
		q += ` AND completed = ?`
		args = append(args, *filter.Completed)
	}
	if filter.Priority != "" {
		q += ` AND priority = ?`
		args = append(args, filter.Priority)
	}
	q += orderBy(ordering, "date ASC, start_time ASC, id ASC", taskOrderExprs)

	var rows []taskRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.unwrap())
	}
	return tasks, nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id int) (task.Task, error) {
	var row taskRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+taskColumns+` FROM task WHERE id = $1`, id); err != nil {
		return task.Task{}, trapNoRowsErr(err, task.ErrNotFound, "finding task")
	}
	return row.unwrap(), nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	q := `UPDATE task SET name = $2, date = $3::date, start_time = $4, end_time = $5, priority = $6,
		completed = $7, is_habit = $8, updated_at = $9 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		t.ID, t.Name, t.Date, t.StartTime, t.EndTime, t.Priority, t.Completed, t.IsHabit, t.UpdatedAt.UTC())
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if err = checkAffected(res, task.ErrNotFound); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (repo *taskRepository) DeleteTask(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM task WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return checkAffected(res, task.ErrNotFound)
}
