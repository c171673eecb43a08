package meeting

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("meeting not found")

type (
	Repository interface {
		CreateMeeting(ctx context.Context, m Meeting) (Meeting, error)
		// QueryMeetings returns the user's meetings by date then time.
		QueryMeetings(ctx context.Context, userID int, filter QueryFilter) ([]Meeting, error)
		GetMeetingByID(ctx context.Context, id int) (Meeting, error)
		UpdateMeeting(ctx context.Context, m Meeting) (Meeting, error)
		DeleteMeeting(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, userID int, nm NewMeeting) (Meeting, error) {
	now := time.Now().UTC()
	m := Meeting{
		UserID:       userID,
		Name:         nm.Name,
		Date:         nm.Date,
		Time:         nm.Time,
		Duration:     nm.Duration,
		Agenda:       nm.Agenda,
		Notes:        nm.Notes,
		Participants: nm.Participants,
		ActionItems:  nm.ActionItems,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}
	if m.ActionItems == nil {
		m.ActionItems = []string{}
	}
	return svc.repo.CreateMeeting(ctx, m)
}

func (svc *Service) Query(ctx context.Context, userID int, filter QueryFilter) ([]Meeting, error) {
	return svc.repo.QueryMeetings(ctx, userID, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Meeting, error) {
	return svc.repo.GetMeetingByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Meeting, um UpdateMeeting) (Meeting, error) {
	m := um.apply(orig)
	m.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMeeting(ctx, m)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteMeeting(ctx, id)
}
