// Package boiledrepos implements the study repositories on top of sqlboiler.
package boiledrepos

import (
	"database/sql"

	"github.com/pkg/errors"
)

// trapNoRowsErr maps sql.ErrNoRows to notFound.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}
