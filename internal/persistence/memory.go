package persistence

import (
	"sync"

	"github.com/spec-kit/chronoplan/internal/domain"
)

// Tables is the working set handed to View and Update callbacks.
type Tables struct {
	Users  []domain.User
	Events []domain.ScheduleEvent
}

// MemoryDB is the process-local store backing the repositories.
// Writers are serialized; readers see a consistent snapshot.
type MemoryDB struct {
	mu     sync.RWMutex
	users  []domain.User
	events []domain.ScheduleEvent
}

// NewMemoryDB returns an empty store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{}
}

// View runs fn against the current tables under a read lock. fn must not retain or mutate the slices.
func (db *MemoryDB) View(fn func(t Tables)) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	fn(Tables{Users: db.users, Events: db.events})
}

// Update runs fn against a private copy of the tables and commits it only when fn returns nil.
func (db *MemoryDB) Update(fn func(t *Tables) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	work := Tables{
		Users:  append([]domain.User(nil), db.users...),
		Events: append([]domain.ScheduleEvent(nil), db.events...),
	}
	if err := fn(&work); err != nil {
		return err
	}
	db.users = work.Users
	db.events = work.Events
	return nil
}

// Counts reports the table sizes.
func (db *MemoryDB) Counts() (users, events int) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.users), len(db.events)
}
