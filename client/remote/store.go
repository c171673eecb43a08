package remote

import (
	"context"
	"strconv"

	"github.com/sendgrid/rest"

	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
)

func (c *Client) Tasks(ctx context.Context, filter task.QueryFilter) ([]task.Task, error) {
	query := make(map[string]string)
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Completed != nil {
		query["completed"] = strconv.FormatBool(*filter.Completed)
	}
	var tasks []task.Task
	err := c.do(ctx, rest.Get, "/tasks", query, nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, nt task.NewTask) (task.Task, error) {
	var t task.Task
	err := c.do(ctx, rest.Post, "/tasks", nil, nt, &t)
	return t, err
}

func (c *Client) UpdateTask(ctx context.Context, id int, upd task.UpdateTask) (task.Task, error) {
	var t task.Task
	err := c.do(ctx, rest.Put, idPath("/tasks", id), nil, upd, &t)
	return t, err
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, rest.Delete, idPath("/tasks", id), nil, nil, nil)
}

func (c *Client) Habits(ctx context.Context) ([]habit.Habit, error) {
	var habits []habit.Habit
	err := c.do(ctx, rest.Get, "/habits", nil, nil, &habits)
	return habits, err
}

func (c *Client) CreateHabit(ctx context.Context, nh habit.NewHabit) (habit.Habit, error) {
	var h habit.Habit
	err := c.do(ctx, rest.Post, "/habits", nil, nh, &h)
	return h, err
}

func (c *Client) TrackHabit(ctx context.Context, id int, th habit.TrackHabit) (habit.Habit, error) {
	var h habit.Habit
	err := c.do(ctx, rest.Post, idPath("/habits", id, "/track"), nil, th, &h)
	return h, err
}

func (c *Client) DeleteHabit(ctx context.Context, id int) error {
	return c.do(ctx, rest.Delete, idPath("/habits", id), nil, nil, nil)
}

func (c *Client) Sessions(ctx context.Context) ([]studysession.StudySession, error) {
	var sessions []studysession.StudySession
	err := c.do(ctx, rest.Get, "/study-sessions", nil, nil, &sessions)
	return sessions, err
}

func (c *Client) ActiveSession(ctx context.Context) (*studysession.StudySession, error) {
	var active *studysession.StudySession
	if err := c.do(ctx, rest.Get, "/study-sessions/active", nil, nil, &active); err != nil {
		return nil, err
	}
	return active, nil
}

func (c *Client) StartSession(ctx context.Context, ns studysession.NewStudySession) (studysession.StudySession, error) {
	var s studysession.StudySession
	err := c.do(ctx, rest.Post, "/study-sessions", nil, ns, &s)
	return s, err
}

func (c *Client) StopSession(ctx context.Context, id int) (studysession.StudySession, error) {
	var s studysession.StudySession
	err := c.do(ctx, rest.Post, idPath("/study-sessions", id, "/stop"), nil, nil, &s)
	return s, err
}

func (c *Client) SessionStats(ctx context.Context) (studysession.Stats, error) {
	var stats studysession.Stats
	err := c.do(ctx, rest.Get, "/study-sessions/stats", nil, nil, &stats)
	return stats, err
}

func (c *Client) Groups(ctx context.Context) ([]studygroup.StudyGroup, error) {
	var groups []studygroup.StudyGroup
	err := c.do(ctx, rest.Get, "/study-groups", nil, nil, &groups)
	return groups, err
}

func (c *Client) Leaderboard(ctx context.Context, groupID int) ([]studygroup.LeaderboardEntry, error) {
	var entries []studygroup.LeaderboardEntry
	err := c.do(ctx, rest.Get, idPath("/study-groups", groupID, "/leaderboard"), nil, nil, &entries)
	return entries, err
}

func (c *Client) GroupActiveSessions(ctx context.Context, groupID int) ([]studygroup.ActiveSession, error) {
	var sessions []studygroup.ActiveSession
	err := c.do(ctx, rest.Get, idPath("/study-groups", groupID, "/active-sessions"), nil, nil, &sessions)
	return sessions, err
}
