package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core/user"
)

const userColumns = `id, username, COALESCE(email, '') AS email, password_hash, is_active, created_at, updated_at, last_login`

type userRow struct {
	ID           int          `db:"id"`
	Username     string       `db:"username"`
	Email        string       `db:"email"`
	PasswordHash []byte       `db:"password_hash"`
	IsActive     bool         `db:"is_active"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r userRow) unwrap() user.User {
	return user.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string) error {
	var taken struct {
		Username bool `db:"username"`
		Email    bool `db:"email"`
	}
	q := `SELECT
		EXISTS(SELECT 1 FROM "user" WHERE username = $1) AS username,
		EXISTS(SELECT 1 FROM "user" WHERE $2 <> '' AND email = $2) AS email`
	if err := repo.db.GetContext(ctx, &taken, q, username, email); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	switch {
	case taken.Username:
		return user.ErrUsernameExists
	case taken.Email:
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `INSERT INTO "user" (username, email, password_hash, is_active, created_at, updated_at, last_login)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7) RETURNING id`
	err := repo.db.QueryRowxContext(ctx, q,
		usr.Username, usr.Email, usr.PasswordHash, usr.IsActive,
		usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(), nullTime(usr.LastLogin),
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var where string
	var arg interface{}
	switch {
	case filter.ID != 0:
		where, arg = "id = $1", filter.ID
	case filter.Username != "":
		where, arg = "username = $1", filter.Username
	case filter.Email != "":
		where, arg = "email = $1", filter.Email
	case filter.UsernameOrEmail != "":
		where, arg = "username = $1 OR email = $1", filter.UsernameOrEmail
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM "user" WHERE `+where+` LIMIT 1`, arg); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return row.unwrap(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE "user" SET username = $2, email = NULLIF($3, ''), password_hash = $4, is_active = $5,
		updated_at = $6, last_login = $7 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q,
		usr.ID, usr.Username, usr.Email, usr.PasswordHash, usr.IsActive, usr.UpdatedAt.UTC(), nullTime(usr.LastLogin))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if err = checkAffected(res, user.ErrNotFound); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == 0 {
		return repo.CreateUser(ctx, usr)
	}
	return repo.UpdateUser(ctx, usr)
}
