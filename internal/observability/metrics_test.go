package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/users", "GET", 200, time.Millisecond)
	m.RecordRequest("/users", "GET", 200, time.Millisecond)
	m.RecordError("/users/:id/generate", "POST", "GENERATION_FAILED")
	m.RecordGeneration("succeeded", 4)
	m.RecordGeneration("failed", 0)

	snap := m.Snapshot()
	if snap.Requests["/users|GET|200"] != 2 {
		t.Fatalf("expected 2 requests, got %v", snap.Requests)
	}
	if snap.Errors["/users/:id/generate|POST|GENERATION_FAILED"] != 1 {
		t.Fatalf("unexpected errors %v", snap.Errors)
	}
	if snap.Generations["succeeded"] != 1 || snap.Generations["failed"] != 1 {
		t.Fatalf("unexpected generations %v", snap.Generations)
	}
	if snap.EventsGenerated != 4 {
		t.Fatalf("expected 4 generated events, got %d", snap.EventsGenerated)
	}

	// snapshots are copies
	snap.Requests["/users|GET|200"] = 99
	if m.Snapshot().Requests["/users|GET|200"] != 2 {
		t.Fatalf("snapshot mutation leaked into metrics")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordGeneration("failed", 0)
	if snap := m.Snapshot(); len(snap.Requests) != 0 {
		t.Fatalf("expected empty snapshot")
	}
}
