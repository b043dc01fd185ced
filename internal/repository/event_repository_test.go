package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/chronoplan/internal/domain"
	"github.com/spec-kit/chronoplan/internal/persistence"
)

var base = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T, userIDs ...string) *persistence.MemoryDB {
	t.Helper()
	db := persistence.NewMemoryDB()
	if err := db.Update(func(tx *persistence.Tables) error {
		for _, id := range userIDs {
			tx.Users = append(tx.Users, domain.User{ID: id, Name: id})
		}
		return nil
	}); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	return db
}

func event(id, userID string, startHour int) domain.ScheduleEvent {
	start := base.Add(time.Duration(startHour) * time.Hour)
	return domain.ScheduleEvent{
		ID:        id,
		UserID:    userID,
		Title:     id,
		Type:      domain.EventTypeOther,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
}

func TestListByUserSortedAndStable(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t, "u1", "u2"))

	inserts := []domain.ScheduleEvent{
		event("late", "u1", 20),
		event("tie-a", "u1", 9),
		event("other-user", "u2", 1),
		event("early", "u1", 7),
		event("tie-b", "u1", 9),
	}
	for i := range inserts {
		if err := repo.Create(ctx, &inserts[i]); err != nil {
			t.Fatalf("create %s: %v", inserts[i].ID, err)
		}
	}

	got, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"early", "tie-a", "tie-b", "late"}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s got %s", i, id, got[i].ID)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartTime.Before(got[i-1].StartTime) {
			t.Fatalf("events not sorted at %d", i)
		}
	}
}

func TestListByUserUnknownIsEmpty(t *testing.T) {
	repo := NewEventRepository(newTestDB(t, "u1"))
	got, err := repo.ListByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t, "u1"))
	err := repo.CreateBatch(ctx, []domain.ScheduleEvent{
		event("a", "u1", 1),
		event("b", "ghost", 2),
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("expected no events after failed batch, got %d", n)
	}

	dup := []domain.ScheduleEvent{event("a", "u1", 1), event("a", "u1", 2)}
	if err := repo.CreateBatch(ctx, dup); !errors.Is(err, ErrDuplicateEventID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t, "u1"))
	e := event("keep", "u1", 3)
	if err := repo.Create(ctx, &e); err != nil {
		t.Fatalf("create: %v", err)
	}
	removed, err := repo.Delete(ctx, "missing")
	if err != nil || removed {
		t.Fatalf("expected silent noop, got removed=%v err=%v", removed, err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}
	removed, err = repo.Delete(ctx, "keep")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("expected 0 events, got %d", n)
	}
}

func TestListWithFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t, "u1"))
	a := event("a", "u1", 1)
	a.Type = domain.EventTypeClass
	a.Location = "Library 4F"
	b := event("b", "u1", 5)
	b.Type = domain.EventTypeMeeting
	if err := repo.CreateBatch(ctx, []domain.ScheduleEvent{a, b}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, _ := repo.ListWithFilter(ctx, EventFilter{Types: []domain.EventType{domain.EventTypeMeeting}})
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("type filter failed: %+v", got)
	}
	term := "library"
	got, _ = repo.ListWithFilter(ctx, EventFilter{SearchTerm: &term})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("search filter failed: %+v", got)
	}
	from := base.Add(2 * time.Hour)
	got, _ = repo.ListWithFilter(ctx, EventFilter{StartsFrom: &from})
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("range filter failed: %+v", got)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t, "u1", "u2"))
	users, err := repo.List(ctx)
	if err != nil || len(users) != 2 {
		t.Fatalf("expected 2 users, got %d err=%v", len(users), err)
	}
	if _, err := repo.GetByID(ctx, "u3"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	u, err := repo.GetByID(ctx, "u2")
	if err != nil || u.ID != "u2" {
		t.Fatalf("unexpected user %+v err=%v", u, err)
	}
}
