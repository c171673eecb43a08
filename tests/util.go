// Package testutil holds the helpers shared by the database-backed tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/user"
	"github.com/trezcool/protimer/storage/database"
)

// Password is the password of the users made by CreateUser.
const Password = "S3cure-pass!"

var (
	migrateOnce sync.Once
	migrateErr  error
)

// TestConfig returns the configuration of the test database, read from TEST_DATABASE_* env vars.
func TestConfig() *core.Config {
	conf := core.NewTestConfig()
	conf.Database.Driver = core.DriverPostgres
	conf.Database.Host = os.Getenv("TEST_DATABASE_HOST")
	conf.Database.Port = 5432
	if port, err := strconv.Atoi(os.Getenv("TEST_DATABASE_PORT")); err == nil {
		conf.Database.Port = port
	}
	conf.Database.Name = envOr("TEST_DATABASE_NAME", "protimer_test")
	conf.Database.User = envOr("TEST_DATABASE_USER", "protimer")
	conf.Database.Password = os.Getenv("TEST_DATABASE_PASSWORD")
	conf.Database.AdminUser = envOr("TEST_DATABASE_ADMIN_USER", "postgres")
	conf.Database.AdminPassword = os.Getenv("TEST_DATABASE_ADMIN_PASSWORD")
	conf.Database.DisableTLS = true
	return conf
}

// PrepareDB opens the migrated test database and empties it.
// The test is skipped when TEST_DATABASE_HOST is not set.
func PrepareDB(t *testing.T) *sql.DB {
	t.Helper()
	conf := TestConfig()
	if conf.Database.Host == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}

	migrateOnce.Do(func() {
		if migrateErr = database.CreateIfNotExist(conf); migrateErr != nil {
			return
		}
		var db *sql.DB
		if db, migrateErr = database.Open(conf); migrateErr != nil {
			return
		}
		defer db.Close()
		migrateErr = database.Migrate(db)
	})
	require.NoError(t, migrateErr)

	db, err := database.Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ResetDB(t, db)
	return db
}

// ResetDB truncates every application table.
func ResetDB(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE "user", task, habit, flashcard_deck, flashcard, meeting,
		study_session, study_group, study_group_member RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

// CreateUser saves an active user with Password.
func CreateUser(t *testing.T, repo user.Repository, uname, email string, createdAt ...time.Time) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:  uname,
		Email:     email,
		IsActive:  true,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	require.NoError(t, usr.SetPassword(Password))
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
