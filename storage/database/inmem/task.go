package inmemdb

import (
	"context"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/task"
)

type taskRepository struct {
	db *DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(_ context.Context, t task.Task) (task.Task, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t.ID = repo.db.nextID("task")
	repo.db.tasks[t.ID] = t
	return t, nil
}

func (repo *taskRepository) QueryTasks(_ context.Context, userID int, filter task.QueryFilter, ordering []core.DBOrdering) ([]task.Task, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	tasks := make([]task.Task, 0)
	for _, t := range repo.db.tasks {
		if t.UserID == userID && filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}

	task.Sort(tasks, ordering)
	return tasks, nil
}

func (repo *taskRepository) GetTaskByID(_ context.Context, id int) (task.Task, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if t, ok := repo.db.tasks[id]; ok {
		return t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) UpdateTask(_ context.Context, t task.Task) (task.Task, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tasks[t.ID]; !ok {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.tasks[t.ID] = t
	return t, nil
}

func (repo *taskRepository) DeleteTask(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tasks[id]; !ok {
		return task.ErrNotFound
	}
	delete(repo.db.tasks, id)
	return nil
}
