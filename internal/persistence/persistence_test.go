package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chronoplan/internal/domain"
)

func TestUpdateDiscardsOnError(t *testing.T) {
	db := NewMemoryDB()
	boom := errors.New("boom")
	err := db.Update(func(tx *Tables) error {
		tx.Users = append(tx.Users, domain.User{ID: "u1"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if users, events := db.Counts(); users != 0 || events != 0 {
		t.Fatalf("expected rollback, got users=%d events=%d", users, events)
	}

	if err := db.Update(func(tx *Tables) error {
		tx.Users = append(tx.Users, domain.User{ID: "u1"})
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if users, _ := db.Counts(); users != 1 {
		t.Fatalf("expected commit, got %d users", users)
	}
}

func TestLoadEmbeddedSeed(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 10, 15, 7, 30, 0, 0, loc)
	db := NewMemoryDB()
	if err := LoadSeed(db, "", now, loc, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	users, events := db.Counts()
	if users != 3 || events != 5 {
		t.Fatalf("expected 3 users and 5 events, got %d/%d", users, events)
	}

	var e3, e2 domain.ScheduleEvent
	db.View(func(tx Tables) {
		for _, e := range tx.Events {
			switch e.ID {
			case "e3":
				e3 = e
			case "e2":
				e2 = e
			}
		}
	})
	wantStart := time.Date(2026, 10, 15, 8, 0, 0, 0, loc)
	if !e3.StartTime.Equal(wantStart) || e3.UserID != "u2" || e3.Type != domain.EventTypeClass {
		t.Fatalf("unexpected e3 %+v", e3)
	}
	if e2.StartTime.Day() != 16 {
		t.Fatalf("expected e2 on the following day, got %v", e2.StartTime)
	}
}

func TestLoadSeedRejectsOrphanEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := `
users:
  - id: u1
    name: A
events:
  - id: e1
    user_id: ghost
    title: Lost
    type: other
    start: "09:00"
    end: "10:00"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	db := NewMemoryDB()
	err := LoadSeed(db, path, time.Now(), time.UTC, zap.NewNop())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if users, events := db.Counts(); users != 0 || events != 0 {
		t.Fatalf("failed seed must not write, got %d/%d", users, events)
	}
}

func TestLoadSeedRejectsInvertedTimes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := `
users:
  - id: u1
events:
  - id: e1
    user_id: u1
    title: Backwards
    type: class
    start: "11:00"
    end: "10:00"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := LoadSeed(NewMemoryDB(), path, time.Now(), time.UTC, zap.NewNop())
	if !errors.Is(err, domain.ErrInvalidEvent) {
		t.Fatalf("expected invalid event, got %v", err)
	}
}
