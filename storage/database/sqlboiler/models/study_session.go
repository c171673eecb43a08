package models

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// StudySession is an object representing the database table.
type StudySession struct {
	ID            int       `boil:"id" json:"id"`
	UserID        int       `boil:"user_id" json:"user_id"`
	Subject       string    `boil:"subject" json:"subject"`
	TaskName      string    `boil:"task_name" json:"task_name"`
	StartTime     time.Time `boil:"start_time" json:"start_time"`
	EndTime       null.Time `boil:"end_time" json:"end_time,omitempty"`
	Duration      int       `boil:"duration" json:"duration"`
	IsActive      bool      `boil:"is_active" json:"is_active"`
	BreakDuration int       `boil:"break_duration" json:"break_duration"`
	FocusDuration int       `boil:"focus_duration" json:"focus_duration"`
	CreatedAt     time.Time `boil:"created_at" json:"created_at"`
}

var StudySessionColumns = struct {
	ID            string
	UserID        string
	Subject       string
	TaskName      string
	StartTime     string
	EndTime       string
	Duration      string
	IsActive      string
	BreakDuration string
	FocusDuration string
	CreatedAt     string
}{
	ID:            "id",
	UserID:        "user_id",
	Subject:       "subject",
	TaskName:      "task_name",
	StartTime:     "start_time",
	EndTime:       "end_time",
	Duration:      "duration",
	IsActive:      "is_active",
	BreakDuration: "break_duration",
	FocusDuration: "focus_duration",
	CreatedAt:     "created_at",
}

var StudySessionWhere = struct {
	ID       whereHelperint
	UserID   whereHelperint
	IsActive whereHelperbool
}{
	ID:       whereHelperint{field: "\"study_session\".\"id\""},
	UserID:   whereHelperint{field: "\"study_session\".\"user_id\""},
	IsActive: whereHelperbool{field: "\"study_session\".\"is_active\""},
}

// StudySessionSlice is an alias for a slice of pointers to StudySession.
type StudySessionSlice []*StudySession

type studySessionQuery struct {
	*queries.Query
}

// StudySessions retrieves all the records using an executor.
func StudySessions(mods ...qm.QueryMod) studySessionQuery {
	mods = append(mods, qm.From("\"study_session\""))
	return studySessionQuery{NewQuery(mods...)}
}

// One returns a single studySession record from the query.
func (q studySessionQuery) One(ctx context.Context, exec boil.ContextExecutor) (*StudySession, error) {
	o := &StudySession{}

	queries.SetLimit(q.Query, 1)

	err := q.Bind(ctx, exec, o)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, errors.Wrap(err, "models: failed to execute a one query for study_session")
	}
	return o, nil
}

// All returns all StudySession records from the query.
func (q studySessionQuery) All(ctx context.Context, exec boil.ContextExecutor) (StudySessionSlice, error) {
	var o []*StudySession

	err := q.Bind(ctx, exec, &o)
	if err != nil {
		return nil, errors.Wrap(err, "models: failed to assign all query results to StudySession slice")
	}
	return o, nil
}

// FindStudySession retrieves a single record by ID.
func FindStudySession(ctx context.Context, exec boil.ContextExecutor, id int) (*StudySession, error) {
	return StudySessions(StudySessionWhere.ID.EQ(id)).One(ctx, exec)
}

func (o *StudySession) values() ([]string, []interface{}) {
	c := StudySessionColumns
	return []string{c.UserID, c.Subject, c.TaskName, c.StartTime, c.EndTime, c.Duration, c.IsActive,
			c.BreakDuration, c.FocusDuration, c.CreatedAt},
		[]interface{}{o.UserID, o.Subject, o.TaskName, o.StartTime, o.EndTime, o.Duration, o.IsActive,
			o.BreakDuration, o.FocusDuration, o.CreatedAt}
}

// Insert a single record using an executor; ID is set from the database.
func (o *StudySession) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	if o == nil {
		return errors.New("models: no study_session provided for insertion")
	}
	cols, vals := o.values()
	if err := insert(ctx, exec, TableNames.StudySession, cols, vals, []string{StudySessionColumns.ID}, &o.ID); err != nil {
		return errors.Wrap(err, "models: unable to insert into study_session")
	}
	return nil
}

// Update uses an executor to update the StudySession and returns the number of rows affected.
func (o *StudySession) Update(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	cols, vals := o.values()
	n, err := update(ctx, exec, TableNames.StudySession, cols, vals, []string{StudySessionColumns.ID}, []interface{}{o.ID})
	if err != nil {
		return 0, errors.Wrap(err, "models: unable to update study_session row")
	}
	return n, nil
}

// Delete deletes a single StudySession record with an executor.
func (o *StudySession) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	n, err := remove(ctx, exec, TableNames.StudySession, []string{StudySessionColumns.ID}, []interface{}{o.ID})
	if err != nil {
		return 0, errors.Wrap(err, "models: unable to delete from study_session")
	}
	return n, nil
}
