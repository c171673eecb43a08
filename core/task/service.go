package task

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/protimer/core"
)

var ErrNotFound = errors.New("task not found")

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		// QueryTasks returns the user's tasks, by date then start time unless ordering says otherwise.
		QueryTasks(ctx context.Context, userID int, filter QueryFilter, ordering []core.DBOrdering) ([]Task, error)
		GetTaskByID(ctx context.Context, id int) (Task, error)
		UpdateTask(ctx context.Context, t Task) (Task, error)
		DeleteTask(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, userID int, nt NewTask) (Task, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTask(ctx, Task{
		UserID:    userID,
		Name:      nt.Name,
		Date:      nt.Date,
		StartTime: nt.StartTime,
		EndTime:   nt.EndTime,
		Priority:  nt.Priority,
		Completed: nt.Completed,
		IsHabit:   nt.IsHabit,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Query(ctx context.Context, userID int, filter QueryFilter, ordering []core.DBOrdering) ([]Task, error) {
	return svc.repo.QueryTasks(ctx, userID, filter, core.CleanOrderings(ordering, OrderingFields...))
}

func (svc *Service) QueryByDate(ctx context.Context, userID int, date string) ([]Task, error) {
	return svc.repo.QueryTasks(ctx, userID, QueryFilter{Date: date}, nil)
}

// GetByID only fetches; callers compare Task.UserID with the requester.
func (svc *Service) GetByID(ctx context.Context, id int) (Task, error) {
	return svc.repo.GetTaskByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Task, ut UpdateTask) (Task, error) {
	t := ut.apply(orig)
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, t)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteTask(ctx, id)
}
