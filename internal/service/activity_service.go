package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/chronoplan/internal/events"
)

const defaultActivityCapacity = 200

// ActivityService records schedule and generation events for operators.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu       sync.Mutex
	recent   []events.Event
	capacity int
}

// NewActivityService creates the service. capacity bounds the in-memory feed.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, capacity int) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger.Named("activity"),
		capacity:   capacity,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventScheduleEventsCreated, a.handleEventsCreated)
	a.dispatcher.Subscribe(events.EventScheduleEventDeleted, a.handleEventDeleted)
	a.dispatcher.Subscribe(events.EventGenerationSucceeded, a.handleGenerationSucceeded)
	a.dispatcher.Subscribe(events.EventGenerationFailed, a.handleGenerationFailed)
}

// Recent returns up to limit entries for the user, newest first.
// An empty userID returns entries for every user.
func (a *ActivityService) Recent(userID string, limit int) []events.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []events.Event{}
	for i := len(a.recent) - 1; i >= 0; i-- {
		if userID != "" && a.recent[i].UserID != userID {
			continue
		}
		out = append(out, a.recent[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (a *ActivityService) handleEventsCreated(_ context.Context, event events.Event) error {
	a.logger.Info("EventsCreated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	a.remember(event)
	return nil
}

func (a *ActivityService) handleEventDeleted(_ context.Context, event events.Event) error {
	a.logger.Info("EventDeleted", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	a.remember(event)
	return nil
}

func (a *ActivityService) handleGenerationSucceeded(_ context.Context, event events.Event) error {
	a.logger.Info("GenerationSucceeded",
		zap.String("user_id", event.UserID),
		zap.String("session_id", event.SessionID),
		zap.Any("payload", event.Payload))
	a.remember(event)
	return nil
}

func (a *ActivityService) handleGenerationFailed(_ context.Context, event events.Event) error {
	a.logger.Warn("GenerationFailed",
		zap.String("user_id", event.UserID),
		zap.String("session_id", event.SessionID),
		zap.Any("payload", event.Payload))
	a.remember(event)
	return nil
}

func (a *ActivityService) remember(event events.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recent = append(a.recent, event)
	if over := len(a.recent) - a.capacity; over > 0 {
		a.recent = append([]events.Event(nil), a.recent[over:]...)
	}
}
