package local

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
)

type taskRepository struct {
	list list[task.Task]
}

var _ task.Repository = taskRepository{} // interface compliance check

func (repo taskRepository) CreateTask(_ context.Context, t task.Task) (task.Task, error) {
	return repo.list.create(t)
}

func (repo taskRepository) QueryTasks(_ context.Context, userID int, filter task.QueryFilter, ordering []core.DBOrdering) ([]task.Task, error) {
	all, err := repo.list.all()
	if err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(all))
	for _, t := range all {
		if t.UserID == userID && filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}
	task.Sort(tasks, ordering)
	return tasks, nil
}

func (repo taskRepository) GetTaskByID(_ context.Context, id int) (task.Task, error) {
	t, ok, err := repo.list.get(id)
	if err == nil && !ok {
		err = task.ErrNotFound
	}
	return t, err
}

func (repo taskRepository) UpdateTask(_ context.Context, t task.Task) (task.Task, error) {
	return repo.list.replace(t, task.ErrNotFound)
}

func (repo taskRepository) DeleteTask(_ context.Context, id int) error {
	return repo.list.remove(id, task.ErrNotFound)
}

type habitRepository struct {
	list list[habit.Habit]
}

var _ habit.Repository = habitRepository{} // interface compliance check

func (repo habitRepository) CreateHabit(_ context.Context, h habit.Habit) (habit.Habit, error) {
	return repo.list.create(h)
}

func (repo habitRepository) QueryHabits(_ context.Context, userID int) ([]habit.Habit, error) {
	all, err := repo.list.all()
	if err != nil {
		return nil, err
	}
	habits := make([]habit.Habit, 0, len(all))
	for _, h := range all {
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}
	return habits, nil
}

func (repo habitRepository) GetHabitByID(_ context.Context, id int) (habit.Habit, error) {
	h, ok, err := repo.list.get(id)
	if err == nil && !ok {
		err = habit.ErrNotFound
	}
	return h, err
}

func (repo habitRepository) UpdateHabit(_ context.Context, h habit.Habit) (habit.Habit, error) {
	return repo.list.replace(h, habit.ErrNotFound)
}

func (repo habitRepository) DeleteHabit(_ context.Context, id int) error {
	return repo.list.remove(id, habit.ErrNotFound)
}

type studySessionRepository struct {
	list list[studysession.StudySession]
}

var _ studysession.Repository = studySessionRepository{} // interface compliance check

func (repo studySessionRepository) StartSession(_ context.Context, s studysession.StudySession) (studysession.StudySession, error) {
	err := repo.list.modify(func(txn *badger.Txn, sessions []studysession.StudySession) ([]studysession.StudySession, error) {
		for i := range sessions {
			if sessions[i].UserID == s.UserID && sessions[i].IsActive {
				sessions[i].Stop(s.StartTime)
			}
		}
		id, err := repo.list.nextID(txn)
		if err != nil {
			return nil, err
		}
		s.ID = id
		s.IsActive = true
		return append(sessions, s), nil
	})
	return s, err
}

func (repo studySessionRepository) QuerySessions(_ context.Context, userID int) ([]studysession.StudySession, error) {
	all, err := repo.list.all()
	if err != nil {
		return nil, err
	}
	sessions := make([]studysession.StudySession, 0, len(all))
	for _, s := range all {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.After(b.StartTime)
		}
		return a.ID > b.ID
	})
	return sessions, nil
}

func (repo studySessionRepository) GetActiveSession(_ context.Context, userID int) (studysession.StudySession, error) {
	all, err := repo.list.all()
	if err != nil {
		return studysession.StudySession{}, err
	}
	for _, s := range all {
		if s.UserID == userID && s.IsActive {
			return s, nil
		}
	}
	return studysession.StudySession{}, studysession.ErrNotFound
}

func (repo studySessionRepository) GetSessionByID(_ context.Context, id int) (studysession.StudySession, error) {
	s, ok, err := repo.list.get(id)
	if err == nil && !ok {
		err = studysession.ErrNotFound
	}
	return s, err
}

func (repo studySessionRepository) UpdateSession(_ context.Context, s studysession.StudySession) (studysession.StudySession, error) {
	return repo.list.replace(s, studysession.ErrNotFound)
}

func (repo studySessionRepository) DeleteSession(_ context.Context, id int) error {
	return repo.list.remove(id, studysession.ErrNotFound)
}
