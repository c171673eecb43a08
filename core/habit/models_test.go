package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestHabit_Track(t *testing.T) {
	tests := []struct {
		name       string
		habit      Habit
		day        string
		wantStreak int
		wantDays   []string
		wantSaved  bool
	}{
		{
			name: "first day", habit: Habit{},
			day: "2024-03-10", wantStreak: 1, wantDays: []string{"2024-03-10"}, wantSaved: true,
		},
		{
			name: "consecutive day", habit: Habit{Streak: 1, CompletedDays: []string{"2024-03-10"}},
			day: "2024-03-11", wantStreak: 2, wantDays: []string{"2024-03-10", "2024-03-11"}, wantSaved: true,
		},
		{
			name: "same day twice", habit: Habit{Streak: 2, CompletedDays: []string{"2024-03-10", "2024-03-11"}},
			day: "2024-03-11", wantStreak: 2, wantDays: []string{"2024-03-10", "2024-03-11"},
		},
		{
			name: "gap restarts the streak", habit: Habit{Streak: 5, CompletedDays: []string{"2024-03-10"}},
			day: "2024-03-13", wantStreak: 1, wantDays: []string{"2024-03-10", "2024-03-13"}, wantSaved: true,
		},
		{
			name: "across months", habit: Habit{Streak: 3, CompletedDays: []string{"2024-02-29"}},
			day: "2024-03-01", wantStreak: 4, wantDays: []string{"2024-02-29", "2024-03-01"}, wantSaved: true,
		},
		{
			name: "back-filled day keeps days sorted", habit: Habit{Streak: 1, CompletedDays: []string{"2024-03-12"}},
			day: "2024-03-05", wantStreak: 1, wantDays: []string{"2024-03-05", "2024-03-12"}, wantSaved: true,
		},
		{
			name: "back-filled old day keeps the current run", habit: Habit{Streak: 2, CompletedDays: []string{"2024-03-14", "2024-03-15"}},
			day: "2024-03-10", wantStreak: 2, wantDays: []string{"2024-03-10", "2024-03-14", "2024-03-15"}, wantSaved: true,
		},
		{
			name: "back-filled day closing a gap", habit: Habit{Streak: 2, CompletedDays: []string{"2024-03-10", "2024-03-12", "2024-03-13"}},
			day: "2024-03-11", wantStreak: 4, wantDays: []string{"2024-03-10", "2024-03-11", "2024-03-12", "2024-03-13"}, wantSaved: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.habit
			saved := h.Track(day(tt.day))
			assert.Equal(t, tt.wantSaved, saved)
			assert.Equal(t, tt.wantStreak, h.Streak)
			assert.Equal(t, tt.wantDays, h.CompletedDays)
		})
	}
}

func TestHabit_Track_backfillAfterToday(t *testing.T) {
	today := day("2026-10-15")
	var h Habit
	assert.True(t, h.Track(today.AddDate(0, 0, -1)))
	assert.True(t, h.Track(today))
	assert.Equal(t, 2, h.Streak)

	assert.True(t, h.Track(today.AddDate(0, 0, -5)))
	assert.Equal(t, 2, h.Streak)
	assert.Equal(t, []string{"2026-10-10", "2026-10-14", "2026-10-15"}, h.CompletedDays)
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, uniqueSorted([]string{"2024-01-02", "2024-01-01", "2024-01-02"}))
	assert.Equal(t, []string{}, uniqueSorted(nil))
}
