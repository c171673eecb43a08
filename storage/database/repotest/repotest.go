// Package repotest runs the same behavioural checks against every storage implementation.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/flashcard"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/meeting"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
	"github.com/trezcool/protimer/core/user"
)

// Repositories is a fresh, empty storage.
type Repositories struct {
	Users      user.Repository
	Tasks      task.Repository
	Habits     habit.Repository
	Flashcards flashcard.Repository
	Meetings   meeting.Repository
	Sessions   studysession.Repository
	Groups     studygroup.Repository
}

// Run checks every repository; setup must return empty repositories for each subtest.
func Run(t *testing.T, setup func(t *testing.T) Repositories) {
	t.Run("users", func(t *testing.T) { testUsers(t, setup(t)) })
	t.Run("tasks", func(t *testing.T) { testTasks(t, setup(t)) })
	t.Run("habits", func(t *testing.T) { testHabits(t, setup(t)) })
	t.Run("flashcards", func(t *testing.T) { testFlashcards(t, setup(t)) })
	t.Run("meetings", func(t *testing.T) { testMeetings(t, setup(t)) })
	t.Run("study sessions", func(t *testing.T) { testStudySessions(t, setup(t)) })
	t.Run("study groups", func(t *testing.T) { testStudyGroups(t, setup(t)) })
}

// now is truncated to what every storage keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func createUser(t *testing.T, repo user.Repository, uname, email string) user.User {
	t.Helper()
	ts := now()
	usr := user.User{Username: uname, Email: email, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, usr.SetPassword("S3cure-pass!"))
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	require.NotZero(t, usr.ID)
	return usr
}

func testUsers(t *testing.T, repos Repositories) {
	ctx := context.Background()
	repo := repos.Users
	awe := createUser(t, repo, "awe", "awe@test.cd")
	noMail := createUser(t, repo, "nomail", "")

	assert.Equal(t, user.ErrUsernameExists, repo.CheckUsernameUniqueness(ctx, "awe", "other@test.cd"))
	assert.Equal(t, user.ErrEmailExists, repo.CheckUsernameUniqueness(ctx, "other", "awe@test.cd"))
	assert.NoError(t, repo.CheckUsernameUniqueness(ctx, "other", ""))

	tests := []struct {
		name   string
		filter user.GetFilter
		wantID int
	}{
		{name: "by id", filter: user.GetFilter{ID: awe.ID}, wantID: awe.ID},
		{name: "by username", filter: user.GetFilter{Username: "nomail"}, wantID: noMail.ID},
		{name: "by email", filter: user.GetFilter{Email: "awe@test.cd"}, wantID: awe.ID},
		{name: "by username or email", filter: user.GetFilter{UsernameOrEmail: "awe@test.cd"}, wantID: awe.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := repo.GetUser(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, usr.ID)
		})
	}

	_, err := repo.GetUser(ctx, user.GetFilter{Username: "ghost"})
	assert.ErrorIs(t, err, user.ErrNotFound)

	got, err := repo.GetUser(ctx, user.GetFilter{ID: noMail.ID})
	require.NoError(t, err)
	assert.Empty(t, got.Email)
	assert.NoError(t, got.CheckPassword("S3cure-pass!"))

	awe.LastLogin = now()
	awe.IsActive = false
	_, err = repo.UpdateUser(ctx, awe)
	require.NoError(t, err)
	got, err = repo.GetUser(ctx, user.GetFilter{ID: awe.ID})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.True(t, awe.LastLogin.Equal(got.LastLogin))
}

func testTasks(t *testing.T, repos Repositories) {
	ctx := context.Background()
	repo := repos.Tasks
	usr := createUser(t, repos.Users, "awe", "awe@test.cd")
	other := createUser(t, repos.Users, "other", "")

	create := func(name, date, start, priority string, completed bool) task.Task {
		ts := now()
		tsk, err := repo.CreateTask(ctx, task.Task{
			UserID: usr.ID, Name: name, Date: date, StartTime: start, Priority: priority,
			Completed: completed, CreatedAt: ts, UpdatedAt: ts,
		})
		require.NoError(t, err)
		return tsk
	}
	t1 := create("Read", "2024-03-10", "10:00", task.PriorityLow, false)
	t2 := create("Write", "2024-03-10", "08:00", task.PriorityHigh, false)
	t3 := create("Review", "2024-03-09", "", task.PriorityMedium, true)
	_, err := repo.CreateTask(ctx, task.Task{UserID: other.ID, Name: "x", Date: "2024-03-10", Priority: task.PriorityLow})
	require.NoError(t, err)

	ids := func(filter task.QueryFilter, ordering ...core.DBOrdering) []int {
		tasks, err := repo.QueryTasks(ctx, usr.ID, filter, ordering)
		require.NoError(t, err)
		out := make([]int, 0, len(tasks))
		for _, tsk := range tasks {
			out = append(out, tsk.ID)
		}
		return out
	}
	yes := true
	assert.Equal(t, []int{t3.ID, t2.ID, t1.ID}, ids(task.QueryFilter{}))
	assert.Equal(t, []int{t2.ID, t1.ID}, ids(task.QueryFilter{Date: "2024-03-10"}))
	assert.Equal(t, []int{t3.ID}, ids(task.QueryFilter{Completed: &yes}))
	assert.Equal(t, []int{t1.ID}, ids(task.QueryFilter{Priority: task.PriorityLow}))
	assert.Equal(t, []int{t2.ID, t3.ID, t1.ID}, ids(task.QueryFilter{}, core.DBOrdering{Field: "priority", Ascending: true}))
	assert.Equal(t, []int{t1.ID, t3.ID, t2.ID}, ids(task.QueryFilter{}, core.DBOrdering{Field: "priority"}))

	got, err := repo.GetTaskByID(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", got.Date)
	assert.Equal(t, "10:00", got.StartTime)

	t1.Completed = true
	t1.EndTime = "11:00"
	updated, err := repo.UpdateTask(ctx, t1)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "11:00", updated.EndTime)

	require.NoError(t, repo.DeleteTask(ctx, t1.ID))
	_, err = repo.GetTaskByID(ctx, t1.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
	assert.Equal(t, task.ErrNotFound, repo.DeleteTask(ctx, t1.ID))
	_, err = repo.UpdateTask(ctx, t1)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func testHabits(t *testing.T, repos Repositories) {
	ctx := context.Background()
	repo := repos.Habits
	usr := createUser(t, repos.Users, "awe", "awe@test.cd")

	ts := now()
	h, err := repo.CreateHabit(ctx, habit.Habit{
		UserID: usr.ID, Name: "Read", Target: 7, CompletedDays: []string{}, CreatedAt: ts, UpdatedAt: ts,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, h.CompletedDays)

	h.Track(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	h.Track(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	_, err = repo.UpdateHabit(ctx, h)
	require.NoError(t, err)

	habits, err := repo.QueryHabits(ctx, usr.ID)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 2, habits[0].Streak)
	assert.Equal(t, []string{"2024-03-10", "2024-03-11"}, habits[0].CompletedDays)

	require.NoError(t, repo.DeleteHabit(ctx, h.ID))
	_, err = repo.GetHabitByID(ctx, h.ID)
	assert.ErrorIs(t, err, habit.ErrNotFound)
}

func testFlashcards(t *testing.T, repos Repositories) {
	ctx := context.Background()
	repo := repos.Flashcards
	usr := createUser(t, repos.Users, "awe", "awe@test.cd")

	deck, err := repo.CreateDeck(ctx, flashcard.Deck{UserID: usr.ID, Name: "Biology", DueDate: "2024-06-01", CreatedAt: now()})
	require.NoError(t, err)
	empty, err := repo.CreateDeck(ctx, flashcard.Deck{UserID: usr.ID, Name: "Empty", CreatedAt: now()})
	require.NoError(t, err)
	assert.Empty(t, empty.DueDate)

	var cards []flashcard.Card
	for _, front := range []string{"Cell", "DNA"} {
		c, err := repo.CreateCard(ctx, flashcard.Card{DeckID: deck.ID, Front: front, Back: "answer", CreatedAt: now()})
		require.NoError(t, err)
		cards = append(cards, c)
	}
	_, err = repo.CreateCard(ctx, flashcard.Card{DeckID: 9999, Front: "x", Back: "y", CreatedAt: now()})
	assert.Error(t, err)

	decks, err := repo.QueryDecks(ctx, usr.ID)
	require.NoError(t, err)
	counts := map[int]int{}
	for _, d := range decks {
		counts[d.ID] = d.CardCount
	}
	assert.Equal(t, map[int]int{deck.ID: 2, empty.ID: 0}, counts)

	got, err := repo.QueryCards(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, cards[0].ID, got[0].ID)

	deck.DueDate = ""
	deck, err = repo.UpdateDeck(ctx, deck)
	require.NoError(t, err)
	assert.Empty(t, deck.DueDate)

	cards[0].Back = "basic unit of life"
	updated, err := repo.UpdateCard(ctx, cards[0])
	require.NoError(t, err)
	assert.Equal(t, "basic unit of life", updated.Back)

	require.NoError(t, repo.DeleteDeck(ctx, deck.ID))
	_, err = repo.GetDeckByID(ctx, deck.ID)
	assert.ErrorIs(t, err, flashcard.ErrDeckNotFound)
	_, err = repo.GetCardByID(ctx, cards[1].ID)
	assert.ErrorIs(t, err, flashcard.ErrCardNotFound)
}

func testMeetings(t *testing.T, repos Repositories) {
	ctx := context.Background()
	repo := repos.Meetings
	usr := createUser(t, repos.Users, "awe", "awe@test.cd")

	create := func(name, date, clock string, participants []string) meeting.Meeting {
		ts := now()
		m, err := repo.CreateMeeting(ctx, meeting.Meeting{
			UserID: usr.ID, Name: name, Date: date, Time: clock, Duration: 30,
			Participants: participants, ActionItems: []string{}, CreatedAt: ts, UpdatedAt: ts,
		})
		require.NoError(t, err)
		return m
	}
	standup := create("Standup", "2024-03-11", "09:00", []string{"ana", "bo"})
	retro := create("Retro", "2024-03-10", "16:00", []string{})
	planning := create("Planning", "2024-03-11", "08:00", []string{})

	meetings, err := repo.QueryMeetings(ctx, usr.ID, meeting.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, meetings, 3)
	assert.Equal(t, []int{retro.ID, planning.ID, standup.ID}, []int{meetings[0].ID, meetings[1].ID, meetings[2].ID})
	assert.Equal(t, []string{"ana", "bo"}, meetings[2].Participants)
	assert.Equal(t, []string{}, meetings[0].Participants)

	meetings, err = repo.QueryMeetings(ctx, usr.ID, meeting.QueryFilter{Date: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, meetings, 1)

	standup.ActionItems = []string{"ship it"}
	standup, err = repo.UpdateMeeting(ctx, standup)
	require.NoError(t, err)
	got, err := repo.GetMeetingByID(ctx, standup.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ship it"}, got.ActionItems)

	require.NoError(t, repo.DeleteMeeting(ctx, standup.ID))
	_, err = repo.GetMeetingByID(ctx, standup.ID)
	assert.ErrorIs(t, err, meeting.ErrNotFound)
}

func newSession(userID int, subject string, start time.Time) studysession.StudySession {
	return studysession.StudySession{
		UserID: userID, Subject: subject, StartTime: start, IsActive: true,
		FocusDuration: 25, BreakDuration: 5, CreatedAt: start,
	}
}

func testStudySessions(t *testing.T, repos Repositories) {
	ctx := context.Background()
	repo := repos.Sessions
	usr := createUser(t, repos.Users, "awe", "awe@test.cd")

	_, err := repo.GetActiveSession(ctx, usr.ID)
	assert.ErrorIs(t, err, studysession.ErrNotFound)

	start := now().Add(-time.Hour)
	first, err := repo.StartSession(ctx, newSession(usr.ID, "math", start))
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second, err := repo.StartSession(ctx, newSession(usr.ID, "physics", start.Add(10*time.Minute)))
	require.NoError(t, err)

	// only the latest session stays active
	active, err := repo.GetActiveSession(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	stopped, err := repo.GetSessionByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, stopped.IsActive)
	assert.Equal(t, 600, stopped.Duration)
	require.NotNil(t, stopped.EndTime)
	assert.True(t, stopped.EndTime.Equal(second.StartTime))

	sessions, err := repo.QuerySessions(ctx, usr.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)

	second.Stop(second.StartTime.Add(25 * time.Minute))
	second, err = repo.UpdateSession(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1500, second.Duration)
	_, err = repo.GetActiveSession(ctx, usr.ID)
	assert.ErrorIs(t, err, studysession.ErrNotFound)

	require.NoError(t, repo.DeleteSession(ctx, first.ID))
	_, err = repo.GetSessionByID(ctx, first.ID)
	assert.ErrorIs(t, err, studysession.ErrNotFound)
	assert.Equal(t, studysession.ErrNotFound, repo.DeleteSession(ctx, first.ID))
}

func testStudyGroups(t *testing.T, repos Repositories) {
	ctx := context.Background()
	repo := repos.Groups
	creator := createUser(t, repos.Users, "creator", "creator@test.cd")
	member := createUser(t, repos.Users, "member", "member@test.cd")
	outsider := createUser(t, repos.Users, "outsider", "")

	public, err := repo.CreateGroup(ctx, studygroup.StudyGroup{
		Name: "Calculus 100%", Description: "derivatives", CreatedBy: creator.ID, CreatedAt: now(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, public.MemberCount)
	private, err := repo.CreateGroup(ctx, studygroup.StudyGroup{
		Name: "Secret calculus", CreatedBy: creator.ID, IsPrivate: true, CreatedAt: now(),
	})
	require.NoError(t, err)

	admin, err := repo.GetMember(ctx, public.ID, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, studygroup.StatusAdmin, admin.Status)
	_, err = repo.GetMember(ctx, public.ID, member.ID)
	assert.ErrorIs(t, err, studygroup.ErrNotMember)

	t.Run("search", func(t *testing.T) {
		groups, err := repo.SearchPublicGroups(ctx, "CALCULUS")
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, public.ID, groups[0].ID)

		groups, err = repo.SearchPublicGroups(ctx, "100%")
		require.NoError(t, err)
		assert.Len(t, groups, 1)

		groups, err = repo.SearchPublicGroups(ctx, "0%")
		require.NoError(t, err)
		assert.Len(t, groups, 1)

		groups, err = repo.SearchPublicGroups(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, groups)
	})

	m, err := repo.AddMember(ctx, studygroup.Member{
		GroupID: public.ID, UserID: member.ID, Status: studygroup.StatusActive, JoinedAt: now().Add(time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, "member", m.Username)

	members, err := repo.QueryMembers(ctx, public.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, []int{creator.ID, member.ID}, []int{members[0].UserID, members[1].UserID})
	assert.Equal(t, "creator", members[0].Username)

	groups, err := repo.QueryGroupsByMember(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].MemberCount)
	groups, err = repo.QueryGroupsByMember(ctx, creator.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	t.Run("session totals", func(t *testing.T) {
		start := now().Add(-2 * time.Hour)
		s, err := repos.Sessions.StartSession(ctx, newSession(member.ID, "calculus", start))
		require.NoError(t, err)
		s.Stop(start.Add(30 * time.Minute))
		_, err = repos.Sessions.UpdateSession(ctx, s)
		require.NoError(t, err)
		running, err := repos.Sessions.StartSession(ctx, newSession(member.ID, "algebra", start.Add(time.Hour)))
		require.NoError(t, err)
		_, err = repos.Sessions.StartSession(ctx, newSession(outsider.ID, "art", start))
		require.NoError(t, err)

		totals, err := repo.SumSessionDurations(ctx, []int{creator.ID, member.ID})
		require.NoError(t, err)
		assert.Equal(t, map[int]studygroup.UserTotals{member.ID: {Duration: 1800, Sessions: 2}}, totals)

		active, err := repo.QueryActiveSessions(ctx, []int{creator.ID, member.ID})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, running.ID, active[0].SessionID)
		assert.Equal(t, "member", active[0].Username)
		assert.Equal(t, "algebra", active[0].Subject)
	})

	private.Description = "shh"
	private.IsPrivate = false
	updated, err := repo.UpdateGroup(ctx, private)
	require.NoError(t, err)
	assert.Equal(t, "shh", updated.Description)
	assert.False(t, updated.IsPrivate)

	require.NoError(t, repo.RemoveMember(ctx, public.ID, member.ID))
	assert.Equal(t, studygroup.ErrNotMember, repo.RemoveMember(ctx, public.ID, member.ID))
	got, err := repo.GetGroupByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)

	require.NoError(t, repo.DeleteGroup(ctx, public.ID))
	_, err = repo.GetGroupByID(ctx, public.ID)
	assert.ErrorIs(t, err, studygroup.ErrNotFound)
	_, err = repo.GetMember(ctx, public.ID, creator.ID)
	assert.ErrorIs(t, err, studygroup.ErrNotMember)
}
