package studygroup

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/protimer/core"
)

// Member statuses
const (
	StatusAdmin  = "admin"
	StatusActive = "active"
)

// CurrentStatuses are the statuses of the members who count in a group.
var CurrentStatuses = []string{StatusAdmin, StatusActive}

type StudyGroup struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int       `json:"created_by"`
	IsPrivate   bool      `json:"is_private"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Member struct {
	GroupID  int       `json:"group_id"`
	UserID   int       `json:"user_id"`
	Username string    `json:"username"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int    `json:"user_id"`
	Username      string `json:"username"`
	TotalDuration int    `json:"total_duration"` // seconds, lifetime
	Sessions      int    `json:"sessions"`
}

// UserTotals is the lifetime study total of a user.
type UserTotals struct {
	Duration int
	Sessions int
}

type ActiveSession struct {
	SessionID     int       `json:"session_id"`
	UserID        int       `json:"user_id"`
	Username      string    `json:"username"`
	Subject       string    `json:"subject"`
	TaskName      string    `json:"task_name"`
	StartTime     time.Time `json:"start_time"`
	Elapsed       int       `json:"elapsed"` // seconds
	FocusDuration int       `json:"focus_duration"`
	BreakDuration int       `json:"break_duration"`
}

// BuildLeaderboard ranks members by descending total duration.
// Members without sessions get 0; ties keep the members order.
func BuildLeaderboard(members []Member, totals map[int]UserTotals) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		t := totals[m.UserID]
		entries = append(entries, LeaderboardEntry{
			UserID:        m.UserID,
			Username:      m.Username,
			TotalDuration: t.Duration,
			Sessions:      t.Sessions,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalDuration > entries[j].TotalDuration
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

type NewStudyGroup struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

func (ng *NewStudyGroup) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Description = core.CleanString(ng.Description)
	return validate.Struct(ng)
}

type UpdateStudyGroup struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description"`
	IsPrivate   *bool   `json:"is_private"`
}

func (ug *UpdateStudyGroup) Validate(validate *validator.Validate) error {
	if ug.Name != nil {
		name := core.CleanString(*ug.Name)
		ug.Name = &name
	}
	return validate.Struct(ug)
}

func (ug UpdateStudyGroup) apply(g StudyGroup) StudyGroup {
	if ug.Name != nil {
		g.Name = *ug.Name
	}
	if ug.Description != nil {
		g.Description = core.CleanString(*ug.Description)
	}
	if ug.IsPrivate != nil {
		g.IsPrivate = *ug.IsPrivate
	}
	return g
}
