package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/flashcard"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/meeting"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
	"github.com/trezcool/protimer/core/user"
	"github.com/trezcool/protimer/storage/database"
	inmemdb "github.com/trezcool/protimer/storage/database/inmem"
	boiledrepos "github.com/trezcool/protimer/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/protimer/storage/database/sqlx"
)

// repositories gathers the storage of every entity, for the configured driver.
type repositories struct {
	users      user.Repository
	tasks      task.Repository
	habits     habit.Repository
	flashcards flashcard.Repository
	meetings   meeting.Repository
	sessions   studysession.Repository
	groups     studygroup.Repository
	close      func()
}

func openRepositories(conf *core.Config, dbLogger core.Logger) (*repositories, error) {
	switch conf.Database.Driver {
	case core.DriverMemory:
		dbLogger.Warn("using the in-memory storage: data will be lost on exit")
		db := inmemdb.Open()
		return &repositories{
			users:      inmemdb.NewUserRepository(db),
			tasks:      inmemdb.NewTaskRepository(db),
			habits:     inmemdb.NewHabitRepository(db),
			flashcards: inmemdb.NewFlashcardRepository(db),
			meetings:   inmemdb.NewMeetingRepository(db),
			sessions:   inmemdb.NewStudySessionRepository(db),
			groups:     inmemdb.NewStudyGroupRepository(db),
			close:      func() {},
		}, nil

	case core.DriverPostgres:
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "migrating database")
		}

		// sqlx serves the plain CRUD entities; sqlboiler the transactional ones.
		xdb := sqlxrepos.NewDB(db)
		return &repositories{
			users:      sqlxrepos.NewUserRepository(xdb),
			tasks:      sqlxrepos.NewTaskRepository(xdb),
			habits:     sqlxrepos.NewHabitRepository(xdb),
			flashcards: sqlxrepos.NewFlashcardRepository(xdb),
			meetings:   sqlxrepos.NewMeetingRepository(xdb),
			sessions:   boiledrepos.NewStudySessionRepository(db),
			groups:     boiledrepos.NewStudyGroupRepository(db),
			close: func() {
				if err := db.Close(); err != nil {
					dbLogger.Error(fmt.Sprintf("closing database: %v", err), err)
				}
			},
		}, nil
	}
	return nil, errors.Errorf("unknown storage driver %q", conf.Database.Driver)
}
