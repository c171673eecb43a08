package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/protimer/core/meeting"
)

type meetingRepository struct {
	db *DB
}

var _ meeting.Repository = (*meetingRepository)(nil) // interface compliance check

func NewMeetingRepository(db *DB) meeting.Repository {
	return &meetingRepository{db: db}
}

func cloneMeeting(m meeting.Meeting) meeting.Meeting {
	m.Participants = copyStrings(m.Participants)
	m.ActionItems = copyStrings(m.ActionItems)
	return m
}

func (repo *meetingRepository) CreateMeeting(_ context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	m.ID = repo.db.nextID("meeting")
	m = cloneMeeting(m)
	repo.db.meetings[m.ID] = m
	return m, nil
}

func (repo *meetingRepository) QueryMeetings(_ context.Context, userID int, filter meeting.QueryFilter) ([]meeting.Meeting, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	meetings := make([]meeting.Meeting, 0)
	for _, m := range repo.db.meetings {
		if m.UserID != userID || (filter.Date != "" && m.Date != filter.Date) {
			continue
		}
		meetings = append(meetings, cloneMeeting(m))
	}
	sort.Slice(meetings, func(i, j int) bool {
		a, b := meetings[i], meetings[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	return meetings, nil
}

func (repo *meetingRepository) GetMeetingByID(_ context.Context, id int) (meeting.Meeting, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if m, ok := repo.db.meetings[id]; ok {
		return cloneMeeting(m), nil
	}
	return meeting.Meeting{}, meeting.ErrNotFound
}

func (repo *meetingRepository) UpdateMeeting(_ context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.meetings[m.ID]; !ok {
		return meeting.Meeting{}, meeting.ErrNotFound
	}
	m = cloneMeeting(m)
	repo.db.meetings[m.ID] = m
	return m, nil
}

func (repo *meetingRepository) DeleteMeeting(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.meetings[id]; !ok {
		return meeting.ErrNotFound
	}
	delete(repo.db.meetings, id)
	return nil
}
