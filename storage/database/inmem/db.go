// Package inmemdb stores everything in process memory.
// It backs the handler tests and the "memory" storage driver.
package inmemdb

import (
	"sync"

	"github.com/trezcool/protimer/core/flashcard"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/meeting"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
	"github.com/trezcool/protimer/core/user"
)

type memberKey struct {
	groupID, userID int
}

// DB guards all tables with a single lock so multi-table writes are atomic.
type DB struct {
	mu      sync.RWMutex
	pkCount map[string]int

	users    map[int]user.User
	tasks    map[int]task.Task
	habits   map[int]habit.Habit
	decks    map[int]flashcard.Deck
	cards    map[int]flashcard.Card
	meetings map[int]meeting.Meeting
	sessions map[int]studysession.StudySession
	groups   map[int]studygroup.StudyGroup
	members  map[memberKey]studygroup.Member
}

func Open() *DB {
	db := &DB{}
	db.reset()
	return db
}

// Reset empties every table.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()
}

func (db *DB) reset() {
	db.pkCount = make(map[string]int)
	db.users = make(map[int]user.User)
	db.tasks = make(map[int]task.Task)
	db.habits = make(map[int]habit.Habit)
	db.decks = make(map[int]flashcard.Deck)
	db.cards = make(map[int]flashcard.Card)
	db.meetings = make(map[int]meeting.Meeting)
	db.sessions = make(map[int]studysession.StudySession)
	db.groups = make(map[int]studygroup.StudyGroup)
	db.members = make(map[memberKey]studygroup.Member)
}

// nextID must be called with the write lock held.
func (db *DB) nextID(table string) int {
	db.pkCount[table]++
	return db.pkCount[table]
}

func copyStrings(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return append(make([]string, 0, len(ss)), ss...)
}
