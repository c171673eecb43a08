package boiledrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/storage/database/sqlboiler/models"
)

var (
	memberCountSelect = fmt.Sprintf(
		`(SELECT COUNT(*) FROM "study_group_member" mc WHERE mc."group_id" = "study_group"."id" AND mc."status" IN (%s)) AS "member_count"`,
		quotedStatuses())
	userJoin = `"user" ON "user"."id" = `

	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

func quotedStatuses() string {
	quoted := make([]string, 0, len(studygroup.CurrentStatuses))
	for _, s := range studygroup.CurrentStatuses {
		quoted = append(quoted, "'"+s+"'")
	}
	return strings.Join(quoted, ", ")
}

type (
	groupRow struct {
		models.StudyGroup `boil:",bind"`
		MemberCount       int `boil:"member_count"`
	}

	memberRow struct {
		models.StudyGroupMember `boil:",bind"`
		Username                string `boil:"username"`
	}

	totalsRow struct {
		UserID        int `boil:"user_id"`
		TotalDuration int `boil:"total_duration"`
		Sessions      int `boil:"sessions"`
	}

	activeRow struct {
		models.StudySession `boil:",bind"`
		Username            string `boil:"username"`
	}
)

type studyGroupRepository struct {
	db core.DB
}

var _ studygroup.Repository = (*studyGroupRepository)(nil) // interface compliance check

func NewStudyGroupRepository(db core.DB) studygroup.Repository {
	return &studyGroupRepository{db: db}
}

func (repo *studyGroupRepository) unboilGroup(g models.StudyGroup, memberCount int) studygroup.StudyGroup {
	return studygroup.StudyGroup{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		IsPrivate:   g.IsPrivate,
		MemberCount: memberCount,
		CreatedAt:   g.CreatedAt.UTC(),
	}
}

func (repo *studyGroupRepository) unboilMember(m models.StudyGroupMember, username string) studygroup.Member {
	return studygroup.Member{
		GroupID:  m.GroupID,
		UserID:   m.UserID,
		Username: username,
		Status:   m.Status,
		JoinedAt: m.JoinedAt.UTC(),
	}
}

func (repo *studyGroupRepository) queryGroups(ctx context.Context, mods ...qm.QueryMod) ([]studygroup.StudyGroup, error) {
	mods = append([]qm.QueryMod{qm.Select(`"study_group".*`, memberCountSelect)}, mods...)
	var rows []*groupRow
	if err := models.StudyGroups(mods...).Bind(ctx, repo.db, &rows); err != nil {
		return nil, err
	}
	groups := make([]studygroup.StudyGroup, 0, len(rows))
	for _, r := range rows {
		groups = append(groups, repo.unboilGroup(r.StudyGroup, r.MemberCount))
	}
	return groups, nil
}

func (repo *studyGroupRepository) CreateGroup(ctx context.Context, g studygroup.StudyGroup) (studygroup.StudyGroup, error) {
	err := core.WithTx(ctx, repo.db, func(tx core.DBTransactor) error {
		row := &models.StudyGroup{
			Name:        g.Name,
			Description: g.Description,
			CreatedBy:   g.CreatedBy,
			IsPrivate:   g.IsPrivate,
			CreatedAt:   g.CreatedAt.UTC(),
		}
		if err := row.Insert(ctx, tx); err != nil {
			return errors.Wrap(err, "inserting study group")
		}
		g.ID = row.ID

		admin := &models.StudyGroupMember{
			GroupID:  row.ID,
			UserID:   g.CreatedBy,
			Status:   studygroup.StatusAdmin,
			JoinedAt: g.CreatedAt.UTC(),
		}
		return errors.Wrap(admin.Upsert(ctx, tx), "adding creator")
	})
	if err != nil {
		return studygroup.StudyGroup{}, err
	}
	g.MemberCount = 1
	return g, nil
}

func (repo *studyGroupRepository) QueryGroupsByMember(ctx context.Context, userID int) ([]studygroup.StudyGroup, error) {
	groups, err := repo.queryGroups(ctx,
		qm.InnerJoin(`"study_group_member" ON "study_group_member"."group_id" = "study_group"."id"`),
		models.StudyGroupMemberWhere.UserID.EQ(userID),
		models.StudyGroupMemberWhere.Status.IN(studygroup.CurrentStatuses),
		qm.OrderBy(`"study_group"."id"`),
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying member groups")
	}
	return groups, nil
}

func (repo *studyGroupRepository) SearchPublicGroups(ctx context.Context, q string) ([]studygroup.StudyGroup, error) {
	mods := []qm.QueryMod{models.StudyGroupWhere.IsPrivate.EQ(false)}
	if q != "" {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		mods = append(mods, qm.Expr(
			qm.Where(`"study_group"."name" ILIKE ?`, pattern),
			qm.Or(`"study_group"."description" ILIKE ?`, pattern),
		))
	}
	mods = append(mods, qm.OrderBy(`"study_group"."id"`))

	groups, err := repo.queryGroups(ctx, mods...)
	if err != nil {
		return nil, errors.Wrap(err, "searching study groups")
	}
	return groups, nil
}

func (repo *studyGroupRepository) GetGroupByID(ctx context.Context, id int) (studygroup.StudyGroup, error) {
	groups, err := repo.queryGroups(ctx, models.StudyGroupWhere.ID.EQ(id), qm.Limit(1))
	if err != nil {
		return studygroup.StudyGroup{}, errors.Wrap(err, "finding study group")
	}
	if len(groups) == 0 {
		return studygroup.StudyGroup{}, studygroup.ErrNotFound
	}
	return groups[0], nil
}

func (repo *studyGroupRepository) UpdateGroup(ctx context.Context, g studygroup.StudyGroup) (studygroup.StudyGroup, error) {
	row := &models.StudyGroup{ID: g.ID, Name: g.Name, Description: g.Description, IsPrivate: g.IsPrivate}
	n, err := row.Update(ctx, repo.db)
	if err != nil {
		return studygroup.StudyGroup{}, errors.Wrap(err, "updating study group")
	}
	if n == 0 {
		return studygroup.StudyGroup{}, studygroup.ErrNotFound
	}
	return g, nil
}

func (repo *studyGroupRepository) DeleteGroup(ctx context.Context, id int) error {
	n, err := (&models.StudyGroup{ID: id}).Delete(ctx, repo.db)
	if err != nil {
		return errors.Wrap(err, "deleting study group")
	}
	if n == 0 {
		return studygroup.ErrNotFound
	}
	return nil
}

func (repo *studyGroupRepository) queryMembers(ctx context.Context, mods ...qm.QueryMod) ([]studygroup.Member, error) {
	mods = append([]qm.QueryMod{
		qm.Select(`"study_group_member".*`, `"user"."username"`),
		qm.InnerJoin(userJoin + `"study_group_member"."user_id"`),
		models.StudyGroupMemberWhere.Status.IN(studygroup.CurrentStatuses),
	}, mods...)
	var rows []*memberRow
	if err := models.StudyGroupMembers(mods...).Bind(ctx, repo.db, &rows); err != nil {
		return nil, err
	}
	members := make([]studygroup.Member, 0, len(rows))
	for _, r := range rows {
		members = append(members, repo.unboilMember(r.StudyGroupMember, r.Username))
	}
	return members, nil
}

func (repo *studyGroupRepository) GetMember(ctx context.Context, groupID, userID int) (studygroup.Member, error) {
	members, err := repo.queryMembers(ctx,
		models.StudyGroupMemberWhere.GroupID.EQ(groupID),
		models.StudyGroupMemberWhere.UserID.EQ(userID),
	)
	if err != nil {
		return studygroup.Member{}, errors.Wrap(err, "finding member")
	}
	if len(members) == 0 {
		return studygroup.Member{}, studygroup.ErrNotMember
	}
	return members[0], nil
}

func (repo *studyGroupRepository) QueryMembers(ctx context.Context, groupID int) ([]studygroup.Member, error) {
	members, err := repo.queryMembers(ctx,
		models.StudyGroupMemberWhere.GroupID.EQ(groupID),
		qm.OrderBy(`"study_group_member"."joined_at", "study_group_member"."user_id"`),
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	return members, nil
}

func (repo *studyGroupRepository) AddMember(ctx context.Context, m studygroup.Member) (studygroup.Member, error) {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	row := &models.StudyGroupMember{GroupID: m.GroupID, UserID: m.UserID, Status: m.Status, JoinedAt: m.JoinedAt.UTC()}
	if err := row.Upsert(ctx, repo.db); err != nil {
		return studygroup.Member{}, errors.Wrap(err, "adding member")
	}
	return repo.GetMember(ctx, m.GroupID, m.UserID)
}

func (repo *studyGroupRepository) RemoveMember(ctx context.Context, groupID, userID int) error {
	n, err := (&models.StudyGroupMember{GroupID: groupID, UserID: userID}).Delete(ctx, repo.db)
	if err != nil {
		return errors.Wrap(err, "removing member")
	}
	if n == 0 {
		return studygroup.ErrNotMember
	}
	return nil
}

func (repo *studyGroupRepository) SumSessionDurations(ctx context.Context, userIDs []int) (map[int]studygroup.UserTotals, error) {
	totals := make(map[int]studygroup.UserTotals, len(userIDs))
	if len(userIDs) == 0 {
		return totals, nil
	}

	var rows []*totalsRow
	err := models.StudySessions(
		qm.Select(`"study_session"."user_id"`, `COALESCE(SUM("study_session"."duration"), 0) AS "total_duration"`, `COUNT(*) AS "sessions"`),
		models.StudySessionWhere.UserID.IN(userIDs),
		qm.GroupBy(`"study_session"."user_id"`),
	).Bind(ctx, repo.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "summing session durations")
	}
	for _, r := range rows {
		totals[r.UserID] = studygroup.UserTotals{Duration: r.TotalDuration, Sessions: r.Sessions}
	}
	return totals, nil
}

func (repo *studyGroupRepository) QueryActiveSessions(ctx context.Context, userIDs []int) ([]studygroup.ActiveSession, error) {
	if len(userIDs) == 0 {
		return []studygroup.ActiveSession{}, nil
	}

	var rows []*activeRow
	err := models.StudySessions(
		qm.Select(`"study_session".*`, `"user"."username"`),
		qm.InnerJoin(userJoin+`"study_session"."user_id"`),
		models.StudySessionWhere.IsActive.EQ(true),
		models.StudySessionWhere.UserID.IN(userIDs),
		qm.OrderBy(`"study_session"."start_time", "study_session"."id"`),
	).Bind(ctx, repo.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "querying active sessions")
	}

	sessions := make([]studygroup.ActiveSession, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, studygroup.ActiveSession{
			SessionID:     r.ID,
			UserID:        r.UserID,
			Username:      r.Username,
			Subject:       r.Subject,
			TaskName:      r.TaskName,
			StartTime:     r.StartTime.UTC(),
			FocusDuration: r.FocusDuration,
			BreakDuration: r.BreakDuration,
		})
	}
	return sessions, nil
}
