package studysession

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/protimer/core"
)

var (
	ErrNotFound  = errors.New("study session not found")
	ErrNotActive = errors.New("study session is not active")
)

type (
	Repository interface {
		// StartSession stops the user's active session, if any, and creates s in one transaction.
		StartSession(ctx context.Context, s StudySession) (StudySession, error)
		// QuerySessions returns the user's sessions, most recent first.
		QuerySessions(ctx context.Context, userID int) ([]StudySession, error)
		// GetActiveSession returns ErrNotFound when the user has no active session.
		GetActiveSession(ctx context.Context, userID int) (StudySession, error)
		GetSessionByID(ctx context.Context, id int) (StudySession, error)
		UpdateSession(ctx context.Context, s StudySession) (StudySession, error)
		DeleteSession(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Start begins a new active session; any session still active for the user is stopped first.
func (svc *Service) Start(ctx context.Context, userID int, ns NewStudySession) (StudySession, error) {
	now := core.NowFunc().UTC()
	return svc.repo.StartSession(ctx, StudySession{
		UserID:        userID,
		Subject:       ns.Subject,
		TaskName:      ns.TaskName,
		StartTime:     now,
		IsActive:      true,
		BreakDuration: ns.BreakDuration,
		FocusDuration: ns.FocusDuration,
		CreatedAt:     now,
	})
}

func (svc *Service) Query(ctx context.Context, userID int) ([]StudySession, error) {
	return svc.repo.QuerySessions(ctx, userID)
}

func (svc *Service) GetActive(ctx context.Context, userID int) (StudySession, error) {
	return svc.repo.GetActiveSession(ctx, userID)
}

func (svc *Service) GetByID(ctx context.Context, id int) (StudySession, error) {
	return svc.repo.GetSessionByID(ctx, id)
}

func (svc *Service) Stats(ctx context.Context, userID int) (Stats, error) {
	sessions, err := svc.repo.QuerySessions(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(sessions, core.NowFunc()), nil
}

// Stop ends an active session; stopping an inactive one is a validation error.
func (svc *Service) Stop(ctx context.Context, s StudySession) (StudySession, error) {
	if !s.IsActive {
		return StudySession{}, core.NewValidationError(ErrNotActive)
	}
	s.Stop(core.NowFunc())
	return svc.repo.UpdateSession(ctx, s)
}

func (svc *Service) Update(ctx context.Context, orig StudySession, us UpdateStudySession) (StudySession, error) {
	return svc.repo.UpdateSession(ctx, us.apply(orig))
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteSession(ctx, id)
}

// Elapsed returns how long an active session has been running.
func Elapsed(s StudySession) time.Duration {
	if !s.IsActive {
		return time.Duration(s.Duration) * time.Second
	}
	return time.Duration(ElapsedSeconds(s.StartTime, core.NowFunc())) * time.Second
}
