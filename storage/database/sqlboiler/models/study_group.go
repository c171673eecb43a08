package models

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// StudyGroup is an object representing the database table.
type StudyGroup struct {
	ID          int       `boil:"id" json:"id"`
	Name        string    `boil:"name" json:"name"`
	Description string    `boil:"description" json:"description"`
	CreatedBy   int       `boil:"created_by" json:"created_by"`
	IsPrivate   bool      `boil:"is_private" json:"is_private"`
	CreatedAt   time.Time `boil:"created_at" json:"created_at"`
}

var StudyGroupColumns = struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	IsPrivate   string
	CreatedAt   string
}{
	ID:          "id",
	Name:        "name",
	Description: "description",
	CreatedBy:   "created_by",
	IsPrivate:   "is_private",
	CreatedAt:   "created_at",
}

var StudyGroupWhere = struct {
	ID        whereHelperint
	IsPrivate whereHelperbool
}{
	ID:        whereHelperint{field: "\"study_group\".\"id\""},
	IsPrivate: whereHelperbool{field: "\"study_group\".\"is_private\""},
}

type studyGroupQuery struct {
	*queries.Query
}

// StudyGroups retrieves all the records using an executor.
func StudyGroups(mods ...qm.QueryMod) studyGroupQuery {
	mods = append(mods, qm.From("\"study_group\""))
	return studyGroupQuery{NewQuery(mods...)}
}

// FindStudyGroup retrieves a single record by ID.
func FindStudyGroup(ctx context.Context, exec boil.ContextExecutor, id int) (*StudyGroup, error) {
	o := &StudyGroup{}
	q := StudyGroups(StudyGroupWhere.ID.EQ(id))
	queries.SetLimit(q.Query, 1)
	if err := q.Bind(ctx, exec, o); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, errors.Wrap(err, "models: unable to select from study_group")
	}
	return o, nil
}

func (o *StudyGroup) values() ([]string, []interface{}) {
	c := StudyGroupColumns
	return []string{c.Name, c.Description, c.CreatedBy, c.IsPrivate, c.CreatedAt},
		[]interface{}{o.Name, o.Description, o.CreatedBy, o.IsPrivate, o.CreatedAt}
}

// Insert a single record using an executor; ID is set from the database.
func (o *StudyGroup) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	if o == nil {
		return errors.New("models: no study_group provided for insertion")
	}
	cols, vals := o.values()
	if err := insert(ctx, exec, TableNames.StudyGroup, cols, vals, []string{StudyGroupColumns.ID}, &o.ID); err != nil {
		return errors.Wrap(err, "models: unable to insert into study_group")
	}
	return nil
}

// Update uses an executor to update the StudyGroup and returns the number of rows affected.
func (o *StudyGroup) Update(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	c := StudyGroupColumns
	n, err := update(ctx, exec, TableNames.StudyGroup,
		[]string{c.Name, c.Description, c.IsPrivate}, []interface{}{o.Name, o.Description, o.IsPrivate},
		[]string{c.ID}, []interface{}{o.ID})
	if err != nil {
		return 0, errors.Wrap(err, "models: unable to update study_group row")
	}
	return n, nil
}

// Delete deletes a single StudyGroup record with an executor; members go with it.
func (o *StudyGroup) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	n, err := remove(ctx, exec, TableNames.StudyGroup, []string{StudyGroupColumns.ID}, []interface{}{o.ID})
	if err != nil {
		return 0, errors.Wrap(err, "models: unable to delete from study_group")
	}
	return n, nil
}
