package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/spec-kit/chronoplan/internal/domain"
)

func TestRenderRoundTrip(t *testing.T) {
	start := time.Date(2026, 10, 15, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))
	events := []domain.ScheduleEvent{
		{ID: "e3", UserID: "u2", Title: "Database lecture", Type: domain.EventTypeClass,
			StartTime: start, EndTime: start.Add(100 * time.Minute), Location: "Building 3"},
		{ID: "e4", UserID: "u2", Title: "Calculus review", Type: domain.EventTypeClass,
			StartTime: start.Add(6 * time.Hour), EndTime: start.Add(8 * time.Hour)},
	}
	out := Render(domain.User{ID: "u2", Name: "Zhang San", Role: "Student"}, events, start)

	if !strings.Contains(string(out), "BEGIN:VCALENDAR") || !strings.Contains(string(out), productID) {
		t.Fatalf("unexpected calendar header:\n%s", out)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	parsed := cal.Events()
	if len(parsed) != 2 {
		t.Fatalf("expected 2 events, got %d", len(parsed))
	}
	first := parsed[0]
	if uid := first.GetProperty(ical.ComponentPropertyUniqueId); uid == nil || uid.Value != "e3@chronoplan" {
		t.Fatalf("unexpected uid %+v", uid)
	}
	if summary := first.GetProperty(ical.ComponentPropertySummary); summary == nil || summary.Value != "Database lecture" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	got, err := first.GetStartAt()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !got.Equal(start) {
		t.Fatalf("expected start %v, got %v", start, got)
	}
	if loc := parsed[1].GetProperty(ical.ComponentPropertyLocation); loc != nil {
		t.Fatalf("expected no location on second event, got %q", loc.Value)
	}
}

func TestRenderEmptyTimeline(t *testing.T) {
	out := Render(domain.User{Name: "Nobody"}, nil, time.Now())
	cal, err := ical.ParseCalendar(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cal.Events()) != 0 {
		t.Fatalf("expected no events")
	}
}
