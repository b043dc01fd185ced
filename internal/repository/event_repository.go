package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/chronoplan/internal/domain"
	"github.com/spec-kit/chronoplan/internal/persistence"
)

// ErrDuplicateEventID is returned when an insert reuses an existing id.
var ErrDuplicateEventID = errors.New("duplicate event id")

// EventFilter narrows event listings. Nil fields do not filter.
type EventFilter struct {
	UserID     *string
	Types      []domain.EventType
	StartsFrom *time.Time
	StartsTo   *time.Time
	SearchTerm *string
}

// EventRepository encapsulates schedule event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.ScheduleEvent) error
	CreateBatch(ctx context.Context, events []domain.ScheduleEvent) error
	ListByUser(ctx context.Context, userID string) ([]domain.ScheduleEvent, error)
	ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.ScheduleEvent, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type eventRepository struct {
	db *persistence.MemoryDB
}

// NewEventRepository instantiates repository.
func NewEventRepository(db *persistence.MemoryDB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.ScheduleEvent) error {
	if event == nil {
		return errors.New("event is nil")
	}
	return r.CreateBatch(ctx, []domain.ScheduleEvent{*event})
}

// CreateBatch appends all events or none of them. Every owner must exist and
// every id must be unused.
func (r *eventRepository) CreateBatch(ctx context.Context, events []domain.ScheduleEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	return r.db.Update(func(t *persistence.Tables) error {
		owners := make(map[string]bool, len(t.Users))
		for _, u := range t.Users {
			owners[u.ID] = true
		}
		ids := make(map[string]bool, len(t.Events)+len(events))
		for _, e := range t.Events {
			ids[e.ID] = true
		}
		for _, e := range events {
			if !owners[e.UserID] {
				return fmt.Errorf("%w: %s", domain.ErrUserNotFound, e.UserID)
			}
			if e.ID == "" || ids[e.ID] {
				return fmt.Errorf("%w: %q", ErrDuplicateEventID, e.ID)
			}
			ids[e.ID] = true
		}
		t.Events = append(t.Events, events...)
		return nil
	})
}

func (r *eventRepository) ListByUser(ctx context.Context, userID string) ([]domain.ScheduleEvent, error) {
	return r.ListWithFilter(ctx, EventFilter{UserID: &userID})
}

// ListWithFilter returns matching events ordered by start time. The sort is
// stable, so events starting together keep their insertion order.
func (r *eventRepository) ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.ScheduleEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := []domain.ScheduleEvent{}
	r.db.View(func(t persistence.Tables) {
		for _, e := range t.Events {
			if filter.matches(e) {
				result = append(result, e)
			}
		}
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

// Delete removes the event with the given id and reports whether one existed.
func (r *eventRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	removed := false
	err := r.db.Update(func(t *persistence.Tables) error {
		kept := t.Events[:0]
		for _, e := range t.Events {
			if e.ID == id {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		t.Events = kept
		return nil
	})
	return removed, err
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	_, events := r.db.Counts()
	return events, nil
}

func (f EventFilter) matches(e domain.ScheduleEvent) bool {
	if f.UserID != nil && e.UserID != *f.UserID {
		return false
	}
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if t == e.Type {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.StartsFrom != nil && e.StartTime.Before(*f.StartsFrom) {
		return false
	}
	if f.StartsTo != nil && e.StartTime.After(*f.StartsTo) {
		return false
	}
	if f.SearchTerm != nil && strings.TrimSpace(*f.SearchTerm) != "" {
		term := strings.ToLower(strings.TrimSpace(*f.SearchTerm))
		if !strings.Contains(strings.ToLower(e.Title), term) &&
			!strings.Contains(strings.ToLower(e.Location), term) &&
			!strings.Contains(strings.ToLower(e.Description), term) {
			return false
		}
	}
	return true
}
