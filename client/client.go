// Package client holds what the protimer CLI needs to talk to its data,
// wherever it lives: the REST API (client/remote) or the guest store on disk (client/local).
package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
)

var (
	ErrGuestUnsupported = errors.New("not available in guest mode, log in to use this feature")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("not logged in")
)

// Store is the data the CLI works with.
type Store interface {
	Tasks(ctx context.Context, filter task.QueryFilter) ([]task.Task, error)
	CreateTask(ctx context.Context, nt task.NewTask) (task.Task, error)
	UpdateTask(ctx context.Context, id int, ut task.UpdateTask) (task.Task, error)
	DeleteTask(ctx context.Context, id int) error

	Habits(ctx context.Context) ([]habit.Habit, error)
	CreateHabit(ctx context.Context, nh habit.NewHabit) (habit.Habit, error)
	TrackHabit(ctx context.Context, id int, th habit.TrackHabit) (habit.Habit, error)
	DeleteHabit(ctx context.Context, id int) error

	Sessions(ctx context.Context) ([]studysession.StudySession, error)
	// ActiveSession returns nil when no session is running.
	ActiveSession(ctx context.Context) (*studysession.StudySession, error)
	// StartSession stops the running session, if any.
	StartSession(ctx context.Context, ns studysession.NewStudySession) (studysession.StudySession, error)
	StopSession(ctx context.Context, id int) (studysession.StudySession, error)
	SessionStats(ctx context.Context) (studysession.Stats, error)

	Groups(ctx context.Context) ([]studygroup.StudyGroup, error)
	Leaderboard(ctx context.Context, groupID int) ([]studygroup.LeaderboardEntry, error)
	GroupActiveSessions(ctx context.Context, groupID int) ([]studygroup.ActiveSession, error)

	Close() error
}

// Error is a request the store refused.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (err *Error) Error() string {
	if len(err.Fields) == 0 {
		if err.Message == "" {
			return fmt.Sprintf("request failed with status %d", err.Status)
		}
		return err.Message
	}
	msgs := make([]string, 0, len(err.Fields))
	for fld, msg := range err.Fields {
		msgs = append(msgs, fld+": "+msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
