package studysession

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/protimer/core"
)

// Pomodoro defaults, in minutes
const (
	DefaultFocusDuration = 25
	DefaultBreakDuration = 5
)

type StudySession struct {
	ID            int        `json:"id"`
	UserID        int        `json:"user_id"`
	Subject       string     `json:"subject"`
	TaskName      string     `json:"task_name"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Duration      int        `json:"duration"` // seconds
	IsActive      bool       `json:"is_active"`
	BreakDuration int        `json:"break_duration"` // minutes
	FocusDuration int        `json:"focus_duration"` // minutes
	CreatedAt     time.Time  `json:"created_at"`
}

func (s StudySession) OwnerID() int { return s.UserID }

// Stop deactivates the session at end, recording its duration in whole seconds (never negative).
func (s *StudySession) Stop(end time.Time) {
	end = end.UTC()
	s.EndTime = &end
	s.Duration = ElapsedSeconds(s.StartTime, end)
	s.IsActive = false
}

// ElapsedSeconds returns the whole seconds between start and end, clamped at 0.
func ElapsedSeconds(start, end time.Time) int {
	secs := int(end.Sub(start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

type NewStudySession struct {
	Subject       string `json:"subject" validate:"max=255"`
	TaskName      string `json:"task_name" validate:"max=255"`
	BreakDuration int    `json:"break_duration" validate:"omitempty,min=1,max=120"`
	FocusDuration int    `json:"focus_duration" validate:"omitempty,min=1,max=240"`
}

func (ns *NewStudySession) Validate(validate *validator.Validate) error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.TaskName = core.CleanString(ns.TaskName)
	if ns.BreakDuration == 0 {
		ns.BreakDuration = DefaultBreakDuration
	}
	if ns.FocusDuration == 0 {
		ns.FocusDuration = DefaultFocusDuration
	}
	return validate.Struct(ns)
}

type UpdateStudySession struct {
	Subject       *string `json:"subject" validate:"omitempty,max=255"`
	TaskName      *string `json:"task_name" validate:"omitempty,max=255"`
	BreakDuration *int    `json:"break_duration" validate:"omitempty,min=1,max=120"`
	FocusDuration *int    `json:"focus_duration" validate:"omitempty,min=1,max=240"`
}

func (us *UpdateStudySession) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

func (us UpdateStudySession) apply(s StudySession) StudySession {
	if us.Subject != nil {
		s.Subject = core.CleanString(*us.Subject)
	}
	if us.TaskName != nil {
		s.TaskName = core.CleanString(*us.TaskName)
	}
	if us.BreakDuration != nil {
		s.BreakDuration = *us.BreakDuration
	}
	if us.FocusDuration != nil {
		s.FocusDuration = *us.FocusDuration
	}
	return s
}

type (
	SubjectStats struct {
		Subject  string `json:"subject"`
		Sessions int    `json:"sessions"`
		Duration int    `json:"duration"`
	}

	Stats struct {
		TotalSessions int            `json:"total_sessions"`
		TotalDuration int            `json:"total_duration"` // seconds
		TodayDuration int            `json:"today_duration"`
		WeekDuration  int            `json:"week_duration"` // last 7 days, today included
		BySubject     []SubjectStats `json:"by_subject"`
	}
)

// ComputeStats aggregates the durations of sessions, relative to now.
// Sessions are attributed to the day they started.
func ComputeStats(sessions []StudySession, now time.Time) Stats {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -6)

	stats := Stats{BySubject: []SubjectStats{}}
	bySubject := make(map[string]*SubjectStats)
	for _, s := range sessions {
		stats.TotalSessions++
		stats.TotalDuration += s.Duration
		start := s.StartTime.UTC()
		if !start.Before(today) {
			stats.TodayDuration += s.Duration
		}
		if !start.Before(weekStart) {
			stats.WeekDuration += s.Duration
		}

		subj, ok := bySubject[s.Subject]
		if !ok {
			subj = &SubjectStats{Subject: s.Subject}
			bySubject[s.Subject] = subj
		}
		subj.Sessions++
		subj.Duration += s.Duration
	}

	for _, subj := range bySubject {
		stats.BySubject = append(stats.BySubject, *subj)
	}
	sort.Slice(stats.BySubject, func(i, j int) bool {
		if stats.BySubject[i].Duration != stats.BySubject[j].Duration {
			return stats.BySubject[i].Duration > stats.BySubject[j].Duration
		}
		return stats.BySubject[i].Subject < stats.BySubject[j].Subject
	})
	return stats
}
