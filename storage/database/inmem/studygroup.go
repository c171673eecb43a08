package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/protimer/core/studygroup"
)

type studyGroupRepository struct {
	db *DB
}

var _ studygroup.Repository = (*studyGroupRepository)(nil) // interface compliance check

func NewStudyGroupRepository(db *DB) studygroup.Repository {
	return &studyGroupRepository{db: db}
}

func isCurrent(m studygroup.Member) bool {
	for _, status := range studygroup.CurrentStatuses {
		if m.Status == status {
			return true
		}
	}
	return false
}

// withMemberCount must be called with the lock held.
func (repo *studyGroupRepository) withMemberCount(g studygroup.StudyGroup) studygroup.StudyGroup {
	g.MemberCount = 0
	for key, m := range repo.db.members {
		if key.groupID == g.ID && isCurrent(m) {
			g.MemberCount++
		}
	}
	return g
}

func sortGroups(groups []studygroup.StudyGroup) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
}

func (repo *studyGroupRepository) CreateGroup(_ context.Context, g studygroup.StudyGroup) (studygroup.StudyGroup, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	g.ID = repo.db.nextID("study_group")
	repo.db.groups[g.ID] = g
	repo.db.members[memberKey{groupID: g.ID, userID: g.CreatedBy}] = studygroup.Member{
		GroupID:  g.ID,
		UserID:   g.CreatedBy,
		Status:   studygroup.StatusAdmin,
		JoinedAt: g.CreatedAt,
	}
	return repo.withMemberCount(g), nil
}

func (repo *studyGroupRepository) QueryGroupsByMember(_ context.Context, userID int) ([]studygroup.StudyGroup, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	groups := make([]studygroup.StudyGroup, 0)
	for key, m := range repo.db.members {
		if key.userID != userID || !isCurrent(m) {
			continue
		}
		if g, ok := repo.db.groups[key.groupID]; ok {
			groups = append(groups, repo.withMemberCount(g))
		}
	}
	sortGroups(groups)
	return groups, nil
}

func (repo *studyGroupRepository) SearchPublicGroups(_ context.Context, q string) ([]studygroup.StudyGroup, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	q = strings.ToLower(q)
	groups := make([]studygroup.StudyGroup, 0)
	for _, g := range repo.db.groups {
		if g.IsPrivate {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(g.Name), q) || strings.Contains(strings.ToLower(g.Description), q) {
			groups = append(groups, repo.withMemberCount(g))
		}
	}
	sortGroups(groups)
	return groups, nil
}

func (repo *studyGroupRepository) GetGroupByID(_ context.Context, id int) (studygroup.StudyGroup, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if g, ok := repo.db.groups[id]; ok {
		return repo.withMemberCount(g), nil
	}
	return studygroup.StudyGroup{}, studygroup.ErrNotFound
}

func (repo *studyGroupRepository) UpdateGroup(_ context.Context, g studygroup.StudyGroup) (studygroup.StudyGroup, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.groups[g.ID]; !ok {
		return studygroup.StudyGroup{}, studygroup.ErrNotFound
	}
	repo.db.groups[g.ID] = g
	return repo.withMemberCount(g), nil
}

func (repo *studyGroupRepository) DeleteGroup(_ context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.groups[id]; !ok {
		return studygroup.ErrNotFound
	}
	for key := range repo.db.members {
		if key.groupID == id {
			delete(repo.db.members, key)
		}
	}
	delete(repo.db.groups, id)
	return nil
}

func (repo *studyGroupRepository) GetMember(_ context.Context, groupID, userID int) (studygroup.Member, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	m, ok := repo.db.members[memberKey{groupID: groupID, userID: userID}]
	if !ok || !isCurrent(m) {
		return studygroup.Member{}, studygroup.ErrNotMember
	}
	m.Username = repo.db.users[userID].Username
	return m, nil
}

func (repo *studyGroupRepository) QueryMembers(_ context.Context, groupID int) ([]studygroup.Member, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	members := make([]studygroup.Member, 0)
	for key, m := range repo.db.members {
		if key.groupID != groupID || !isCurrent(m) {
			continue
		}
		m.Username = repo.db.users[m.UserID].Username
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.UserID < b.UserID
	})
	return members, nil
}

func (repo *studyGroupRepository) AddMember(_ context.Context, m studygroup.Member) (studygroup.Member, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.groups[m.GroupID]; !ok {
		return studygroup.Member{}, studygroup.ErrNotFound
	}
	repo.db.members[memberKey{groupID: m.GroupID, userID: m.UserID}] = m
	m.Username = repo.db.users[m.UserID].Username
	return m, nil
}

func (repo *studyGroupRepository) RemoveMember(_ context.Context, groupID, userID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	key := memberKey{groupID: groupID, userID: userID}
	if _, ok := repo.db.members[key]; !ok {
		return studygroup.ErrNotMember
	}
	delete(repo.db.members, key)
	return nil
}

func (repo *studyGroupRepository) SumSessionDurations(_ context.Context, userIDs []int) (map[int]studygroup.UserTotals, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	wanted := intSet(userIDs)
	totals := make(map[int]studygroup.UserTotals)
	for _, s := range repo.db.sessions {
		if !wanted[s.UserID] {
			continue
		}
		t := totals[s.UserID]
		t.Duration += s.Duration
		t.Sessions++
		totals[s.UserID] = t
	}
	return totals, nil
}

func (repo *studyGroupRepository) QueryActiveSessions(_ context.Context, userIDs []int) ([]studygroup.ActiveSession, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	wanted := intSet(userIDs)
	sessions := make([]studygroup.ActiveSession, 0)
	for _, s := range repo.db.sessions {
		if !s.IsActive || !wanted[s.UserID] {
			continue
		}
		sessions = append(sessions, studygroup.ActiveSession{
			SessionID:     s.ID,
			UserID:        s.UserID,
			Username:      repo.db.users[s.UserID].Username,
			Subject:       s.Subject,
			TaskName:      s.TaskName,
			StartTime:     s.StartTime,
			FocusDuration: s.FocusDuration,
			BreakDuration: s.BreakDuration,
		})
	}
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return a.SessionID < b.SessionID
	})
	return sessions, nil
}

func intSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
