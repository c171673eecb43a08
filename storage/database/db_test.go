package database_test

import (
	"testing"

	"github.com/trezcool/protimer/storage/database/repotest"
	boiledrepos "github.com/trezcool/protimer/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/protimer/storage/database/sqlx"
	testutil "github.com/trezcool/protimer/tests"
)

func TestPostgresRepositories(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Repositories {
		db := testutil.PrepareDB(t)
		xdb := sqlxrepos.NewDB(db)
		return repotest.Repositories{
			Users:      sqlxrepos.NewUserRepository(xdb),
			Tasks:      sqlxrepos.NewTaskRepository(xdb),
			Habits:     sqlxrepos.NewHabitRepository(xdb),
			Flashcards: sqlxrepos.NewFlashcardRepository(xdb),
			Meetings:   sqlxrepos.NewMeetingRepository(xdb),
			Sessions:   boiledrepos.NewStudySessionRepository(db),
			Groups:     boiledrepos.NewStudyGroupRepository(db),
		}
	})
}
