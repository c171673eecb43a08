package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/protimer/core/studysession"
)

type studySessionRepository struct {
	db *DB
}

var _ studysession.Repository = (*studySessionRepository)(nil) // interface compliance check

func NewStudySessionRepository(db *DB) studysession.Repository {
	return &studySessionRepository{db: db}
}

func (repo *studySessionRepository) StartSession(_ context.Context, s studysession.StudySession) (studysession.StudySession, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, active := range repo.db.sessions {
		if active.UserID == s.UserID && active.IsActive {
			active.Stop(s.StartTime)
			repo.db.sessions[id] = active
		}
	}

	s.ID = repo.db.nextID("study_session")
	s.IsActive = true
	repo.db.sessions[s.ID] = s
	return s, nil
}

func (repo *studySessionRepository) QuerySessions(_ context.Context, userID int) ([]studysession.StudySession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	sessions := make([]studysession.StudySession, 0)
	for _, s := range repo.db.sessions {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.After(b.StartTime)
		}
		return a.ID > b.ID
	})
	return sessions, nil
}

func (repo *studySessionRepository) GetActiveSession(_ context.Context, userID int) (studysession.StudySession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, s := range repo.db.sessions {
		if s.UserID == userID && s.IsActive {
			return s, nil
		}
	}
	return studysession.StudySession{}, studysession.ErrNotFound
}

func (repo *studySessionRepository) GetSessionByID(_ context.Context, id int) (studysession.StudySession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.sessions[id]; ok {
		return s, nil
	}
	return studysession.StudySession{}, studysession.ErrNotFound
}

func (repo *studySessionRepository) UpdateSession(_ context.Context, s studysession.StudySession) (studysession.StudySession, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.sessions[s.ID]; !ok {
		return studysession.StudySession{}, studysession.ErrNotFound
	}
	repo.db.sessions[s.ID] = s
	return s, nil
}

func (repo *studySessionRepository) DeleteSession(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.sessions[id]; !ok {
		return studysession.ErrNotFound
	}
	delete(repo.db.sessions, id)
	return nil
}
