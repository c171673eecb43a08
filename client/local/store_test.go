package local

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/client"
	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func freezeTime(t *testing.T, start time.Time) func(time.Duration) {
	t.Helper()
	now := start
	orig := core.NowFunc
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = orig })
	return func(d time.Duration) { now = now.Add(d) }
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestStore_Tasks(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.CreateTask(ctx, task.NewTask{Name: "  ", Date: "10/03/2024"})
	var cErr *client.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, http.StatusBadRequest, cErr.Status)
	assert.Contains(t, cErr.Fields, "name")
	assert.Contains(t, cErr.Fields, "date")

	read, err := s.CreateTask(ctx, task.NewTask{Name: "Read", Date: "2024-03-10", StartTime: "10:00"})
	require.NoError(t, err)
	write, err := s.CreateTask(ctx, task.NewTask{Name: "Write", Date: "2024-03-10", StartTime: "08:00", Priority: "HIGH"})
	require.NoError(t, err)
	review, err := s.CreateTask(ctx, task.NewTask{Name: "Review", Date: "2024-03-09"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{read.ID, write.ID, review.ID})
	assert.Equal(t, GuestUserID, read.UserID)
	assert.Equal(t, task.PriorityMedium, read.Priority)
	assert.Equal(t, task.PriorityHigh, write.Priority)

	tasks, err := s.Tasks(ctx, task.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{tasks[0].ID, tasks[1].ID, tasks[2].ID})

	tasks, err = s.Tasks(ctx, task.QueryFilter{Date: "2024-03-10", Priority: " High "})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, write.ID, tasks[0].ID)

	done := true
	updated, err := s.UpdateTask(ctx, read.ID, task.UpdateTask{Completed: &done, EndTime: strPtr("11:30")})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "11:30", updated.EndTime)

	_, err = s.UpdateTask(ctx, read.ID, task.UpdateTask{EndTime: strPtr("09:00")})
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "end_time cannot be before start_time", cErr.Fields["end_time"])

	tasks, err = s.Tasks(ctx, task.QueryFilter{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, read.ID, tasks[0].ID)

	require.NoError(t, s.DeleteTask(ctx, read.ID))
	assert.Equal(t, client.ErrNotFound, s.DeleteTask(ctx, read.ID))
	_, err = s.UpdateTask(ctx, read.ID, task.UpdateTask{Completed: &done})
	assert.Equal(t, client.ErrNotFound, err)

	// ids are never reused
	next, err := s.CreateTask(ctx, task.NewTask{Name: "Next", Date: "2024-03-11"})
	require.NoError(t, err)
	assert.Equal(t, 4, next.ID)
}

func TestStore_Habits(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	advance := freezeTime(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	h, err := s.CreateHabit(ctx, habit.NewHabit{Name: "Read"})
	require.NoError(t, err)
	assert.Equal(t, habit.DefaultTarget, h.Target)

	tests := []struct {
		name       string
		advance    time.Duration
		date       string
		wantStreak int
		wantDays   int
	}{
		{name: "first day", wantStreak: 1, wantDays: 1},
		{name: "same day again", wantStreak: 1, wantDays: 1},
		{name: "next day", advance: 24 * time.Hour, wantStreak: 2, wantDays: 2},
		{name: "after a gap", advance: 48 * time.Hour, wantStreak: 1, wantDays: 3},
		{name: "explicit past date", date: "2024-03-01", wantStreak: 1, wantDays: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advance(tt.advance)
			got, err := s.TrackHabit(ctx, h.ID, habit.TrackHabit{Date: tt.date})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStreak, got.Streak)
			assert.Len(t, got.CompletedDays, tt.wantDays)
		})
	}

	_, err = s.TrackHabit(ctx, h.ID, habit.TrackHabit{Date: "2099-01-01"})
	var cErr *client.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "cannot track a habit in the future", cErr.Fields["date"])

	_, err = s.TrackHabit(ctx, 99, habit.TrackHabit{})
	assert.Equal(t, client.ErrNotFound, err)

	habits, err := s.Habits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, []string{"2024-03-01", "2024-03-10", "2024-03-11", "2024-03-13"}, habits[0].CompletedDays)

	require.NoError(t, s.DeleteHabit(ctx, h.ID))
	habits, err = s.Habits(ctx)
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestStore_Sessions(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	advance := freezeTime(t, start)

	active, err := s.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	math, err := s.StartSession(ctx, studysession.NewStudySession{Subject: "math"})
	require.NoError(t, err)
	assert.True(t, math.IsActive)
	assert.Equal(t, studysession.DefaultFocusDuration, math.FocusDuration)
	assert.Equal(t, studysession.DefaultBreakDuration, math.BreakDuration)

	advance(10 * time.Minute)
	physics, err := s.StartSession(ctx, studysession.NewStudySession{Subject: "physics", FocusDuration: 50})
	require.NoError(t, err)

	active, err = s.ActiveSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, physics.ID, active.ID)

	sessions, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, physics.ID, sessions[0].ID)
	assert.False(t, sessions[1].IsActive)
	assert.Equal(t, 600, sessions[1].Duration)

	_, err = s.StopSession(ctx, math.ID)
	var cErr *client.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "study session is not active", cErr.Message)

	advance(25 * time.Minute)
	stopped, err := s.StopSession(ctx, physics.ID)
	require.NoError(t, err)
	assert.False(t, stopped.IsActive)
	assert.Equal(t, 1500, stopped.Duration)

	active, err = s.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	stats, err := s.SessionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2100, stats.TotalDuration)

	_, err = s.StopSession(ctx, 42)
	assert.Equal(t, client.ErrNotFound, err)
}

func TestStore_GuestUnsupported(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.Groups(ctx)
	assert.Equal(t, client.ErrGuestUnsupported, err)
	_, err = s.Leaderboard(ctx, 1)
	assert.Equal(t, client.ErrGuestUnsupported, err)
	_, err = s.GroupActiveSessions(ctx, 1)
	assert.Equal(t, client.ErrGuestUnsupported, err)
}

func TestStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(Options{Dir: dir, GCInterval: -1})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, task.NewTask{Name: "Read", Date: "2024-03-10"})
	require.NoError(t, err)
	_, err = s.StartSession(ctx, studysession.NewStudySession{Subject: "math"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(Options{Dir: dir, GCInterval: time.Hour})
	require.NoError(t, err)
	defer s.Close()

	tasks, err := s.Tasks(ctx, task.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Read", tasks[0].Name)

	next, err := s.CreateTask(ctx, task.NewTask{Name: "Write", Date: "2024-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID)

	active, err := s.ActiveSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "math", active.Subject)
}

func TestOpen_RequiresDir(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}
