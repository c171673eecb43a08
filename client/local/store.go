// Package local is the guest-mode client.Store: data stays in a badger database on this machine
// and is never sent to the server.
package local

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/trezcool/protimer/client"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
)

// GuestUserID owns everything in the guest store.
const GuestUserID = 1

const (
	defaultGCInterval = 5 * time.Minute
	gcDiscardRatio    = 0.5
)

type Options struct {
	Dir        string
	InMemory   bool
	GCInterval time.Duration // 0 uses the default, negative disables
	Logger     *zap.Logger   // optional
}

type Store struct {
	db         *badger.DB
	gcStop     chan struct{}
	gcDone     chan struct{}
	validate   *validator.Validate
	translator ut.Translator

	tasks    *task.Service
	habits   *habit.Service
	sessions *studysession.Service
}

var _ client.Store = (*Store)(nil) // interface compliance check

func Open(opts Options) (*Store, error) {
	db, err := openBadger(opts)
	if err != nil {
		return nil, err
	}

	validate, translator := client.NewValidator()
	s := &Store{
		db:         db,
		validate:   validate,
		translator: translator,
		tasks: task.NewService(taskRepository{list[task.Task]{
			db: db, key: "tasks", id: func(t *task.Task) *int { return &t.ID },
		}}),
		habits: habit.NewService(habitRepository{list[habit.Habit]{
			db: db, key: "habits", id: func(h *habit.Habit) *int { return &h.ID },
		}}),
		sessions: studysession.NewService(studySessionRepository{list[studysession.StudySession]{
			db: db, key: "study_sessions", id: func(s *studysession.StudySession) *int { return &s.ID },
		}}),
	}

	interval := opts.GCInterval
	if interval == 0 {
		interval = defaultGCInterval
	}
	if interval > 0 && !opts.InMemory {
		s.gcStop, s.gcDone = make(chan struct{}), make(chan struct{})
		go runGC(db, interval, opts.Logger, s.gcStop, s.gcDone)
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.gcStop != nil {
		close(s.gcStop)
		<-s.gcDone
	}
	return errors.Wrap(s.db.Close(), "closing guest store")
}

// check maps domain errors to the ones client.Store promises.
func (s *Store) check(err error) error {
	switch errors.Cause(err) {
	case nil:
		return nil
	case task.ErrNotFound, habit.ErrNotFound, studysession.ErrNotFound:
		return client.ErrNotFound
	}
	return client.ValidationError(err, s.translator)
}

func (s *Store) Tasks(ctx context.Context, filter task.QueryFilter) ([]task.Task, error) {
	filter.Clean()
	tasks, err := s.tasks.Query(ctx, GuestUserID, filter, nil)
	return tasks, s.check(err)
}

func (s *Store) CreateTask(ctx context.Context, nt task.NewTask) (task.Task, error) {
	if err := nt.Validate(s.validate); err != nil {
		return task.Task{}, s.check(err)
	}
	t, err := s.tasks.Create(ctx, GuestUserID, nt)
	return t, s.check(err)
}

func (s *Store) UpdateTask(ctx context.Context, id int, upd task.UpdateTask) (task.Task, error) {
	orig, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, s.check(err)
	}
	if err = upd.Validate(orig, s.validate); err != nil {
		return task.Task{}, s.check(err)
	}
	t, err := s.tasks.Update(ctx, orig, upd)
	return t, s.check(err)
}

func (s *Store) DeleteTask(ctx context.Context, id int) error {
	return s.check(s.tasks.Delete(ctx, id))
}

func (s *Store) Habits(ctx context.Context) ([]habit.Habit, error) {
	habits, err := s.habits.Query(ctx, GuestUserID)
	return habits, s.check(err)
}

func (s *Store) CreateHabit(ctx context.Context, nh habit.NewHabit) (habit.Habit, error) {
	if err := nh.Validate(s.validate); err != nil {
		return habit.Habit{}, s.check(err)
	}
	h, err := s.habits.Create(ctx, GuestUserID, nh)
	return h, s.check(err)
}

func (s *Store) TrackHabit(ctx context.Context, id int, th habit.TrackHabit) (habit.Habit, error) {
	if err := th.Validate(s.validate); err != nil {
		return habit.Habit{}, s.check(err)
	}
	h, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return habit.Habit{}, s.check(err)
	}
	h, err = s.habits.Track(ctx, h, th)
	return h, s.check(err)
}

func (s *Store) DeleteHabit(ctx context.Context, id int) error {
	return s.check(s.habits.Delete(ctx, id))
}

func (s *Store) Sessions(ctx context.Context) ([]studysession.StudySession, error) {
	sessions, err := s.sessions.Query(ctx, GuestUserID)
	return sessions, s.check(err)
}

func (s *Store) ActiveSession(ctx context.Context) (*studysession.StudySession, error) {
	active, err := s.sessions.GetActive(ctx, GuestUserID)
	if errors.Cause(err) == studysession.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, s.check(err)
	}
	return &active, nil
}

func (s *Store) StartSession(ctx context.Context, ns studysession.NewStudySession) (studysession.StudySession, error) {
	if err := ns.Validate(s.validate); err != nil {
		return studysession.StudySession{}, s.check(err)
	}
	started, err := s.sessions.Start(ctx, GuestUserID, ns)
	return started, s.check(err)
}

func (s *Store) StopSession(ctx context.Context, id int) (studysession.StudySession, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return studysession.StudySession{}, s.check(err)
	}
	sess, err = s.sessions.Stop(ctx, sess)
	return sess, s.check(err)
}

func (s *Store) SessionStats(ctx context.Context) (studysession.Stats, error) {
	stats, err := s.sessions.Stats(ctx, GuestUserID)
	return stats, s.check(err)
}

func (s *Store) Groups(context.Context) ([]studygroup.StudyGroup, error) {
	return nil, client.ErrGuestUnsupported
}

func (s *Store) Leaderboard(context.Context, int) ([]studygroup.LeaderboardEntry, error) {
	return nil, client.ErrGuestUnsupported
}

func (s *Store) GroupActiveSessions(context.Context, int) ([]studygroup.ActiveSession, error) {
	return nil, client.ErrGuestUnsupported
}
