package studysession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStudySession_Stop(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		end          time.Time
		wantDuration int
	}{
		{name: "whole seconds", end: start.Add(25*time.Minute + 1500*time.Millisecond), wantDuration: 25*60 + 1},
		{name: "zero", end: start, wantDuration: 0},
		{name: "clock skew never negative", end: start.Add(-time.Minute), wantDuration: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StudySession{StartTime: start, IsActive: true}
			s.Stop(tt.end)
			assert.False(t, s.IsActive)
			assert.Equal(t, tt.wantDuration, s.Duration)
			if assert.NotNil(t, s.EndTime) {
				assert.True(t, s.EndTime.Equal(tt.end))
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	sessions := []StudySession{
		{Subject: "math", StartTime: now.Add(-time.Hour), Duration: 1800},
		{Subject: "math", StartTime: now.AddDate(0, 0, -2), Duration: 600},
		{Subject: "physics", StartTime: now.AddDate(0, 0, -6), Duration: 1200},
		{Subject: "physics", StartTime: now.AddDate(0, 0, -8), Duration: 3000},
		{Subject: "math", StartTime: now.Add(-5 * time.Minute), IsActive: true},
	}

	stats := ComputeStats(sessions, now)
	assert.Equal(t, 5, stats.TotalSessions)
	assert.Equal(t, 6600, stats.TotalDuration)
	assert.Equal(t, 1800, stats.TodayDuration)
	assert.Equal(t, 3600, stats.WeekDuration)
	assert.Equal(t, []SubjectStats{
		{Subject: "physics", Sessions: 2, Duration: 4200},
		{Subject: "math", Sessions: 3, Duration: 2400},
	}, stats.BySubject)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	assert.Equal(t, Stats{BySubject: []SubjectStats{}}, stats)
}
