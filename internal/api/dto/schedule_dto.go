package dto

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/chronoplan/internal/agenda"
	"github.com/spec-kit/chronoplan/internal/domain"
)

const timestampLayout = time.RFC3339

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EventRequest payload for a single event.
type EventRequest struct {
	Title       string `json:"title" validate:"required"`
	Type        string `json:"type" validate:"required"`
	StartTime   string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CreateEventsRequest payload for POST /users/:id/events.
type CreateEventsRequest struct {
	Events []EventRequest `json:"events"`
}

// GenerateRequest payload for POST /users/:id/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// ToDraft validates the payload shape and converts it. Ordering and type
// membership are checked later by the service.
func (r EventRequest) ToDraft() (domain.DraftEvent, error) {
	if err := requestValidator.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.DraftEvent{}, err
		}
		verr := &domain.ValidationError{}
		for _, fe := range fieldErrs {
			if fe.Tag() == "datetime" {
				verr.Add(fe.Field(), "must be an RFC3339 timestamp")
				continue
			}
			verr.Add(fe.Field(), fe.Tag())
		}
		return domain.DraftEvent{}, verr
	}
	start, _ := time.Parse(timestampLayout, r.StartTime)
	end, _ := time.Parse(timestampLayout, r.EndTime)
	return domain.DraftEvent{
		Title:       r.Title,
		Type:        domain.EventType(r.Type),
		StartTime:   start,
		EndTime:     end,
		Location:    r.Location,
		Description: r.Description,
	}, nil
}

// ToDrafts converts every payload, reporting the first invalid entry.
func (r CreateEventsRequest) ToDrafts() ([]domain.DraftEvent, error) {
	drafts := make([]domain.DraftEvent, 0, len(r.Events))
	for i, ev := range r.Events {
		draft, err := ev.ToDraft()
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				verr.Position = i + 1
			}
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// UserResponse represents a profile.
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`
	ThemeColor string `json:"theme_color"`
}

// EventResponse represents a stored event.
type EventResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Title       string           `json:"title"`
	Type        domain.EventType `json:"type"`
	TypeLabel   string           `json:"type_label"`
	Color       string           `json:"color"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Location    string           `json:"location"`
	Description string           `json:"description,omitempty"`
}

// DayGroupResponse is one agenda section.
type DayGroupResponse struct {
	Key    string          `json:"key"`
	Label  string          `json:"label"`
	Events []EventResponse `json:"events"`
}

// AgendaResponse is the grouped timeline of a user.
type AgendaResponse struct {
	UserID string             `json:"user_id"`
	Type   string             `json:"type"`
	Days   []DayGroupResponse `json:"days"`
}

// GenerationStatusResponse reports a session's generation state.
type GenerationStatusResponse struct {
	SessionID  string                 `json:"session_id"`
	State      domain.GenerationState `json:"state"`
	UserID     string                 `json:"user_id,omitempty"`
	StartedAt  *time.Time             `json:"started_at,omitempty"`
	FinishedAt *time.Time             `json:"finished_at,omitempty"`
	Created    int                    `json:"created"`
	Error      string                 `json:"error,omitempty"`
}

// GenerationResponse carries the new events and the refreshed timeline.
type GenerationResponse struct {
	Created  []EventResponse          `json:"created"`
	Timeline []EventResponse          `json:"timeline"`
	Status   GenerationStatusResponse `json:"status"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Role:       u.Role,
		Avatar:     u.Avatar,
		Bio:        u.Bio,
		ThemeColor: u.ThemeColor,
	}
}

// NewEventResponse renders times in loc and the type label in lang.
func NewEventResponse(e domain.ScheduleEvent, loc *time.Location, lang string) EventResponse {
	if loc == nil {
		loc = time.Local
	}
	return EventResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Type:        e.Type,
		TypeLabel:   e.Type.Label(lang),
		Color:       e.Type.Color(),
		StartTime:   e.StartTime.In(loc),
		EndTime:     e.EndTime.In(loc),
		Location:    e.Location,
		Description: e.Description,
	}
}

func NewEventResponses(events []domain.ScheduleEvent, loc *time.Location, lang string) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e, loc, lang))
	}
	return out
}

func NewDayGroupResponses(groups []agenda.DayGroup, loc *time.Location, lang string) []DayGroupResponse {
	out := make([]DayGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, DayGroupResponse{
			Key:    g.Key,
			Label:  g.Label,
			Events: NewEventResponses(g.Events, loc, lang),
		})
	}
	return out
}

func NewGenerationStatusResponse(st domain.GenerationStatus) GenerationStatusResponse {
	resp := GenerationStatusResponse{
		SessionID:  st.SessionID,
		State:      st.State,
		UserID:     st.UserID,
		FinishedAt: st.FinishedAt,
		Created:    st.Created,
		Error:      st.Error,
	}
	if !st.StartedAt.IsZero() {
		started := st.StartedAt
		resp.StartedAt = &started
	}
	return resp
}
