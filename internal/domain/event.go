package domain

import (
	"strings"
	"time"
)

// EventType enumerates schedule event categories.
type EventType string

const (
	EventTypeConcert  EventType = "concert"
	EventTypeClass    EventType = "class"
	EventTypeMeeting  EventType = "meeting"
	EventTypeTravel   EventType = "travel"
	EventTypePersonal EventType = "personal"
	EventTypeOther    EventType = "other"
)

// EventTypes lists every supported type in display order.
var EventTypes = []EventType{
	EventTypeConcert,
	EventTypeClass,
	EventTypeMeeting,
	EventTypeTravel,
	EventTypePersonal,
	EventTypeOther,
}

// ParseEventType normalizes raw input into a known EventType.
func ParseEventType(raw string) (EventType, bool) {
	candidate := EventType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range EventTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// EventTypeStrings returns the enumeration as plain strings.
func EventTypeStrings() []string {
	out := make([]string, 0, len(EventTypes))
	for _, t := range EventTypes {
		out = append(out, string(t))
	}
	return out
}

var eventTypeLabels = map[string]map[EventType]string{
	"zh": {
		EventTypeConcert:  "演唱会 / 演出",
		EventTypeClass:    "课程",
		EventTypeMeeting:  "会议 / 商务",
		EventTypeTravel:   "差旅",
		EventTypePersonal: "私人行程",
		EventTypeOther:    "其他",
	},
	"en": {
		EventTypeConcert:  "Concert / Show",
		EventTypeClass:    "Class",
		EventTypeMeeting:  "Meeting / Business",
		EventTypeTravel:   "Travel",
		EventTypePersonal: "Personal",
		EventTypeOther:    "Other",
	},
}

// Label returns the display label for the given base language ("zh" or "en").
// Unknown languages fall back to English, unknown types to "other".
func (t EventType) Label(lang string) string {
	labels, ok := eventTypeLabels[lang]
	if !ok {
		labels = eventTypeLabels["en"]
	}
	if label, ok := labels[t]; ok {
		return label
	}
	return labels[EventTypeOther]
}

// Color returns the theme color tag used by the presentation layer.
func (t EventType) Color() string {
	switch t {
	case EventTypeConcert:
		return "purple"
	case EventTypeClass:
		return "blue"
	case EventTypeMeeting:
		return "orange"
	case EventTypeTravel:
		return "emerald"
	case EventTypePersonal:
		return "pink"
	default:
		return "gray"
	}
}

// DraftEvent is a candidate event that has not been assigned identity or ownership.
type DraftEvent struct {
	Title       string
	Type        EventType
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Description string
}

// Validate checks the draft invariants enforced at the ingestion boundary.
func (d DraftEvent) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(d.Title) == "" {
		verr.Add("title", "required")
	}
	if _, ok := ParseEventType(string(d.Type)); !ok {
		verr.Add("type", "must be one of "+strings.Join(EventTypeStrings(), ", "))
	}
	if d.StartTime.IsZero() {
		verr.Add("startTime", "required")
	}
	if d.EndTime.IsZero() {
		verr.Add("endTime", "required")
	}
	if !d.StartTime.IsZero() && !d.EndTime.IsZero() && d.EndTime.Before(d.StartTime) {
		verr.Add("endTime", "must not be before startTime")
	}
	return verr.OrNil()
}

// ScheduleEvent is a stored event owned by a user.
type ScheduleEvent struct {
	ID          string
	UserID      string
	Title       string
	Type        EventType
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Description string
}

// Draft strips identity and ownership from the event.
func (e ScheduleEvent) Draft() DraftEvent {
	return DraftEvent{
		Title:       e.Title,
		Type:        e.Type,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Location:    e.Location,
		Description: e.Description,
	}
}
