package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/chronoplan/internal/domain"
	"github.com/spec-kit/chronoplan/internal/events"
	"github.com/spec-kit/chronoplan/internal/repository"
)

const (
	sourceManual     = "manual"
	sourceGeneration = "generation"
)

// ScheduleService coordinates profile and timeline workflows.
type ScheduleService struct {
	users      repository.UserRepository
	events     repository.EventRepository
	dispatcher events.Dispatcher
	newID      func() string
}

// ScheduleDependencies bundles repositories for the schedule service.
type ScheduleDependencies struct {
	UserRepo   repository.UserRepository
	EventRepo  repository.EventRepository
	Dispatcher events.Dispatcher
}

// NewScheduleService constructs the service.
func NewScheduleService(deps ScheduleDependencies) *ScheduleService {
	return &ScheduleService{
		users:      deps.UserRepo,
		events:     deps.EventRepo,
		dispatcher: deps.Dispatcher,
		newID:      uuid.NewString,
	}
}

func (s *ScheduleService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *ScheduleService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListEventsForUser returns the user's timeline ordered by start time.
// Unknown users have an empty timeline.
func (s *ScheduleService) ListEventsForUser(ctx context.Context, userID string) ([]domain.ScheduleEvent, error) {
	return s.events.ListByUser(ctx, userID)
}

// CreateEvent validates a single draft and stores it under the user.
func (s *ScheduleService) CreateEvent(ctx context.Context, userID string, draft domain.DraftEvent) (*domain.ScheduleEvent, error) {
	created, err := s.ingest(ctx, userID, []domain.DraftEvent{draft}, sourceManual)
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateEvents stores every draft under the user in one append. Drafts are
// not deduplicated: ingesting the same drafts twice yields distinct events.
// The returned events are in input order, not the timeline order.
func (s *ScheduleService) CreateEvents(ctx context.Context, userID string, drafts []domain.DraftEvent) ([]domain.ScheduleEvent, error) {
	return s.ingest(ctx, userID, drafts, sourceManual)
}

// DeleteEvent removes the event with the given id. Unknown ids are ignored.
func (s *ScheduleService) DeleteEvent(ctx context.Context, id string) error {
	var owner string
	if existing, err := s.findEvent(ctx, id); err == nil && existing != nil {
		owner = existing.UserID
	}
	removed, err := s.events.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed {
		s.publishEvent(ctx, events.New(events.EventScheduleEventDeleted, owner, events.EventDeletedPayload{EventID: id}))
	}
	return nil
}

func (s *ScheduleService) ingest(ctx context.Context, userID string, drafts []domain.DraftEvent, source string) ([]domain.ScheduleEvent, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	stamped := make([]domain.ScheduleEvent, 0, len(drafts))
	for i, draft := range drafts {
		normalized, err := normalizeDraft(draft)
		if err != nil {
			if verr, ok := err.(*domain.ValidationError); ok && len(drafts) > 1 {
				verr.Position = i + 1
			}
			return nil, err
		}
		stamped = append(stamped, domain.ScheduleEvent{
			ID:          s.newID(),
			UserID:      userID,
			Title:       normalized.Title,
			Type:        normalized.Type,
			StartTime:   normalized.StartTime,
			EndTime:     normalized.EndTime,
			Location:    normalized.Location,
			Description: normalized.Description,
		})
	}
	if len(stamped) == 0 {
		return stamped, nil
	}

	if err := s.events.CreateBatch(ctx, stamped); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(stamped))
	for _, e := range stamped {
		ids = append(ids, e.ID)
	}
	s.publishEvent(ctx, events.New(events.EventScheduleEventsCreated, userID, events.EventsCreatedPayload{
		EventIDs: ids,
		Source:   source,
	}))
	return stamped, nil
}

func (s *ScheduleService) findEvent(ctx context.Context, id string) (*domain.ScheduleEvent, error) {
	all, err := s.events.ListWithFilter(ctx, repository.EventFilter{})
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (s *ScheduleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeDraft(d domain.DraftEvent) (domain.DraftEvent, error) {
	if err := d.Validate(); err != nil {
		return d, err
	}
	t, _ := domain.ParseEventType(string(d.Type))
	d.Type = t
	d.Title = strings.TrimSpace(d.Title)
	d.Location = strings.TrimSpace(d.Location)
	d.Description = strings.TrimSpace(d.Description)
	return d, nil
}
