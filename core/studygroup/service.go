package studygroup

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/studysession"
)

var (
	ErrNotFound           = errors.New("study group not found")
	ErrNotMember          = errors.New("not a member of this study group")
	ErrPrivate            = errors.New("this study group is private")
	ErrNotCreator         = errors.New("only the creator can manage this study group")
	ErrCreatorCannotLeave = errors.New("the creator cannot leave the study group")
)

type (
	Repository interface {
		// CreateGroup inserts g and its creator's admin membership in one transaction.
		CreateGroup(ctx context.Context, g StudyGroup) (StudyGroup, error)
		// QueryGroupsByMember returns the groups userID currently belongs to.
		QueryGroupsByMember(ctx context.Context, userID int) ([]StudyGroup, error)
		// SearchPublicGroups matches q against names and descriptions; private groups are never returned.
		SearchPublicGroups(ctx context.Context, q string) ([]StudyGroup, error)
		GetGroupByID(ctx context.Context, id int) (StudyGroup, error)
		UpdateGroup(ctx context.Context, g StudyGroup) (StudyGroup, error)
		DeleteGroup(ctx context.Context, id int) error

		// GetMember returns ErrNotMember when userID is not a current member.
		GetMember(ctx context.Context, groupID, userID int) (Member, error)
		// QueryMembers returns current members in join order, usernames attached.
		QueryMembers(ctx context.Context, groupID int) ([]Member, error)
		AddMember(ctx context.Context, m Member) (Member, error)
		RemoveMember(ctx context.Context, groupID, userID int) error

		// SumSessionDurations returns the lifetime totals of the users that have sessions.
		SumSessionDurations(ctx context.Context, userIDs []int) (map[int]UserTotals, error)
		// QueryActiveSessions returns the active sessions of userIDs, usernames attached.
		QueryActiveSessions(ctx context.Context, userIDs []int) ([]ActiveSession, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create makes a new group; the creator is added as its admin member.
func (svc *Service) Create(ctx context.Context, creatorID int, ng NewStudyGroup) (StudyGroup, error) {
	return svc.repo.CreateGroup(ctx, StudyGroup{
		Name:        ng.Name,
		Description: ng.Description,
		CreatedBy:   creatorID,
		IsPrivate:   ng.IsPrivate,
		CreatedAt:   core.NowFunc().UTC(),
	})
}

func (svc *Service) QueryForMember(ctx context.Context, userID int) ([]StudyGroup, error) {
	return svc.repo.QueryGroupsByMember(ctx, userID)
}

func (svc *Service) Search(ctx context.Context, q string) ([]StudyGroup, error) {
	return svc.repo.SearchPublicGroups(ctx, core.CleanString(q))
}

// GetByID only fetches; visibility is not checked.
func (svc *Service) GetByID(ctx context.Context, id int) (StudyGroup, error) {
	return svc.repo.GetGroupByID(ctx, id)
}

// Get returns the group when userID may see it: public groups are visible to all,
// private ones to their members only.
func (svc *Service) Get(ctx context.Context, id, userID int) (StudyGroup, error) {
	g, err := svc.repo.GetGroupByID(ctx, id)
	if err != nil {
		return StudyGroup{}, err
	}
	if g.IsPrivate {
		if _, err = svc.repo.GetMember(ctx, g.ID, userID); err != nil {
			if err == ErrNotMember {
				return StudyGroup{}, ErrPrivate
			}
			return StudyGroup{}, errors.Wrap(err, "getting member")
		}
	}
	return g, nil
}

func (svc *Service) Update(ctx context.Context, g StudyGroup, userID int, ug UpdateStudyGroup) (StudyGroup, error) {
	if g.CreatedBy != userID {
		return StudyGroup{}, ErrNotCreator
	}
	return svc.repo.UpdateGroup(ctx, ug.apply(g))
}

func (svc *Service) Delete(ctx context.Context, g StudyGroup, userID int) error {
	if g.CreatedBy != userID {
		return ErrNotCreator
	}
	return svc.repo.DeleteGroup(ctx, g.ID)
}

func (svc *Service) Members(ctx context.Context, g StudyGroup) ([]Member, error) {
	return svc.repo.QueryMembers(ctx, g.ID)
}

// Join adds userID to g. Joining twice returns the existing membership.
func (svc *Service) Join(ctx context.Context, g StudyGroup, userID int) (Member, error) {
	m, err := svc.repo.GetMember(ctx, g.ID, userID)
	if err == nil {
		return m, nil
	} else if err != ErrNotMember {
		return Member{}, errors.Wrap(err, "getting member")
	}
	if g.IsPrivate {
		return Member{}, ErrPrivate
	}
	return svc.repo.AddMember(ctx, Member{
		GroupID:  g.ID,
		UserID:   userID,
		Status:   StatusActive,
		JoinedAt: core.NowFunc().UTC(),
	})
}

func (svc *Service) Leave(ctx context.Context, g StudyGroup, userID int) error {
	if g.CreatedBy == userID {
		return ErrCreatorCannotLeave
	}
	if _, err := svc.repo.GetMember(ctx, g.ID, userID); err != nil {
		return err
	}
	return svc.repo.RemoveMember(ctx, g.ID, userID)
}

// Leaderboard ranks the current members of g by their lifetime study duration.
func (svc *Service) Leaderboard(ctx context.Context, g StudyGroup) ([]LeaderboardEntry, error) {
	members, err := svc.repo.QueryMembers(ctx, g.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	if len(members) == 0 {
		return []LeaderboardEntry{}, nil
	}
	totals, err := svc.repo.SumSessionDurations(ctx, memberIDs(members))
	if err != nil {
		return nil, errors.Wrap(err, "summing session durations")
	}
	return BuildLeaderboard(members, totals), nil
}

// ActiveSessions lists the sessions currently running among the members of g.
func (svc *Service) ActiveSessions(ctx context.Context, g StudyGroup) ([]ActiveSession, error) {
	members, err := svc.repo.QueryMembers(ctx, g.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	if len(members) == 0 {
		return []ActiveSession{}, nil
	}
	sessions, err := svc.repo.QueryActiveSessions(ctx, memberIDs(members))
	if err != nil {
		return nil, errors.Wrap(err, "querying active sessions")
	}
	now := core.NowFunc().UTC()
	for i := range sessions {
		sessions[i].Elapsed = studysession.ElapsedSeconds(sessions[i].StartTime, now)
	}
	return sessions, nil
}

func memberIDs(members []Member) []int {
	ids := make([]int, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

