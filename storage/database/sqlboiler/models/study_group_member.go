package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// StudyGroupMember is an object representing the database table.
type StudyGroupMember struct {
	GroupID  int       `boil:"group_id" json:"group_id"`
	UserID   int       `boil:"user_id" json:"user_id"`
	Status   string    `boil:"status" json:"status"`
	JoinedAt time.Time `boil:"joined_at" json:"joined_at"`
}

var StudyGroupMemberColumns = struct {
	GroupID  string
	UserID   string
	Status   string
	JoinedAt string
}{
	GroupID:  "group_id",
	UserID:   "user_id",
	Status:   "status",
	JoinedAt: "joined_at",
}

var StudyGroupMemberWhere = struct {
	GroupID whereHelperint
	UserID  whereHelperint
	Status  whereHelperstring
}{
	GroupID: whereHelperint{field: "\"study_group_member\".\"group_id\""},
	UserID:  whereHelperint{field: "\"study_group_member\".\"user_id\""},
	Status:  whereHelperstring{field: "\"study_group_member\".\"status\""},
}

type studyGroupMemberQuery struct {
	*queries.Query
}

// StudyGroupMembers retrieves all the records using an executor.
func StudyGroupMembers(mods ...qm.QueryMod) studyGroupMemberQuery {
	mods = append(mods, qm.From("\"study_group_member\""))
	return studyGroupMemberQuery{NewQuery(mods...)}
}

// Exists checks if the row exists in the table.
func (q studyGroupMemberQuery) Exists(ctx context.Context, exec boil.ContextExecutor) (bool, error) {
	ok, err := exists(ctx, exec, q.Query)
	if err != nil {
		return false, errors.Wrap(err, "models: failed to check if study_group_member exists")
	}
	return ok, nil
}

// Upsert inserts the membership or refreshes its status and join date.
func (o *StudyGroupMember) Upsert(ctx context.Context, exec boil.ContextExecutor) error {
	if o == nil {
		return errors.New("models: no study_group_member provided for upsert")
	}
	query := "INSERT INTO \"study_group_member\" (\"group_id\",\"user_id\",\"status\",\"joined_at\") VALUES ($1,$2,$3,$4)" +
		" ON CONFLICT (\"group_id\",\"user_id\") DO UPDATE SET \"status\" = EXCLUDED.\"status\", \"joined_at\" = EXCLUDED.\"joined_at\""
	if boil.DebugMode {
		_, _ = boil.DebugWriter.Write([]byte(query + "\n"))
	}
	if _, err := exec.ExecContext(ctx, query, o.GroupID, o.UserID, o.Status, o.JoinedAt); err != nil {
		return errors.Wrap(err, "models: unable to upsert study_group_member")
	}
	return nil
}

// Delete deletes a single StudyGroupMember record with an executor.
func (o *StudyGroupMember) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	c := StudyGroupMemberColumns
	n, err := remove(ctx, exec, TableNames.StudyGroupMember,
		[]string{c.GroupID, c.UserID}, []interface{}{o.GroupID, o.UserID})
	if err != nil {
		return 0, errors.Wrap(err, "models: unable to delete from study_group_member")
	}
	return n, nil
}
