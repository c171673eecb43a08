// Package models holds the sqlboiler bindings of the study tables.
package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/drivers"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"github.com/volatiletech/sqlboiler/v4/queries/qmhelper"
	"github.com/volatiletech/strmangle"
)

var dialect = drivers.Dialect{
	LQ: 0x22,
	RQ: 0x22,

	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

var TableNames = struct {
	StudyGroup       string
	StudyGroupMember string
	StudySession     string
	User             string
}{
	StudyGroup:       "study_group",
	StudyGroupMember: "study_group_member",
	StudySession:     "study_session",
	User:             "user",
}

// NewQuery initializes a new Query using the passed in QueryMods
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

// Quote wraps identifiers in the dialect quotes: Quote("user", "id") == `"user"."id"`.
func Quote(idents ...string) string {
	quoted := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident == "*" {
			quoted = append(quoted, ident)
			continue
		}
		quoted = append(quoted, string(dialect.LQ)+ident+string(dialect.RQ))
	}
	return strings.Join(quoted, ".")
}

type whereHelperint struct{ field string }

func (w whereHelperint) EQ(x int) qm.QueryMod  { return qmhelper.Where(w.field, qmhelper.EQ, x) }
func (w whereHelperint) NEQ(x int) qm.QueryMod { return qmhelper.Where(w.field, qmhelper.NEQ, x) }
func (w whereHelperint) IN(slice []int) qm.QueryMod {
	values := make([]interface{}, 0, len(slice))
	for _, value := range slice {
		values = append(values, value)
	}
	return qm.WhereIn(fmt.Sprintf("%s IN ?", w.field), values...)
}

type whereHelperbool struct{ field string }

func (w whereHelperbool) EQ(x bool) qm.QueryMod { return qmhelper.Where(w.field, qmhelper.EQ, x) }

type whereHelperstring struct{ field string }

func (w whereHelperstring) EQ(x string) qm.QueryMod { return qmhelper.Where(w.field, qmhelper.EQ, x) }
func (w whereHelperstring) IN(slice []string) qm.QueryMod {
	values := make([]interface{}, 0, len(slice))
	for _, value := range slice {
		values = append(values, value)
	}
	return qm.WhereIn(fmt.Sprintf("%s IN ?", w.field), values...)
}

// insert writes cols of table and scans the returning columns into dest.
func insert(ctx context.Context, exec boil.ContextExecutor, table string, cols []string, vals []interface{}, returning []string, dest ...interface{}) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		Quote(table),
		strings.Join(quoteAll(cols), ","),
		strmangle.Placeholders(dialect.UseIndexPlaceholders, len(cols), 1, 1),
	)
	if len(returning) == 0 {
		_, err := exec.ExecContext(ctx, query, vals...)
		return err
	}
	query += fmt.Sprintf(" RETURNING %s", strings.Join(quoteAll(returning), ","))
	return exec.QueryRowContext(ctx, query, vals...).Scan(dest...)
}

// update sets cols of the table row matching the pkCols and returns the number of rows affected.
func update(ctx context.Context, exec boil.ContextExecutor, table string, cols []string, vals []interface{}, pkCols []string, pkVals []interface{}) (int64, error) {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		Quote(table),
		strmangle.SetParamNames(string(dialect.LQ), string(dialect.RQ), 1, cols),
		strmangle.WhereClause(string(dialect.LQ), string(dialect.RQ), len(cols)+1, pkCols),
	)
	res, err := exec.ExecContext(ctx, query, append(vals, pkVals...)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// remove deletes the table row matching the pkCols and returns the number of rows affected.
func remove(ctx context.Context, exec boil.ContextExecutor, table string, pkCols []string, pkVals []interface{}) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s",
		Quote(table),
		strmangle.WhereClause(string(dialect.LQ), string(dialect.RQ), 1, pkCols),
	)
	res, err := exec.ExecContext(ctx, query, pkVals...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func quoteAll(cols []string) []string {
	quoted := make([]string, 0, len(cols))
	for _, col := range cols {
		quoted = append(quoted, Quote(col))
	}
	return quoted
}

// exists reports whether q matches at least one row.
func exists(ctx context.Context, exec boil.ContextExecutor, q *queries.Query) (bool, error) {
	var count int64
	queries.SetSelect(q, nil)
	queries.SetCount(q)
	queries.SetLimit(q, 1)
	err := q.QueryRowContext(ctx, exec).Scan(&count)
	return count > 0, err
}
