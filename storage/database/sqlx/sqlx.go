// Package sqlxrepos implements the plain CRUD repositories on top of sqlx.
package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
)

// NewDB wraps an opened postgres connection.
func NewDB(db *sql.DB) *sqlx.DB {
	return sqlx.NewDb(db, "postgres")
}

// trapNoRowsErr maps sql.ErrNoRows to notFound.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// checkAffected returns notFound when res touched no row.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// orderBy builds the ORDER BY clause; exprs replaces a field with a SQL expression.
func orderBy(ordering []core.DBOrdering, fallback string, exprs map[string]string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + fallback
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if expr, ok := exprs[ord.Field]; ok {
			ord.Field = expr
		}
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ") + ", id ASC"
}
