package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/chronoplan/internal/domain"
)

func TestTrackerLifecycle(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(nil, nil)

	if st := tr.Status("s1"); st.State != domain.GenerationIdle {
		t.Fatalf("expected idle, got %s", st.State)
	}
	if err := tr.Begin(ctx, "s1", "u2"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if st := tr.Status("s1"); st.State != domain.GenerationPending || st.UserID != "u2" {
		t.Fatalf("expected pending for u2, got %+v", st)
	}
	if err := tr.Begin(ctx, "s1", "u2"); !errors.Is(err, domain.ErrGenerationInProgress) {
		t.Fatalf("expected in progress, got %v", err)
	}
	if err := tr.Begin(ctx, "s2", "u1"); err != nil {
		t.Fatalf("other sessions are independent: %v", err)
	}

	tr.Finish(ctx, "s1", 0, errors.New("provider down"))
	st := tr.Status("s1")
	if st.State != domain.GenerationFailed || st.Error != "provider down" || st.FinishedAt == nil {
		t.Fatalf("expected failed status, got %+v", st)
	}

	// a failed session accepts a new request
	if err := tr.Begin(ctx, "s1", "u2"); err != nil {
		t.Fatalf("begin after failure: %v", err)
	}
	tr.Finish(ctx, "s1", 4, nil)
	st = tr.Status("s1")
	if st.State != domain.GenerationSucceeded || st.Created != 4 || st.Error != "" {
		t.Fatalf("expected succeeded with 4 events, got %+v", st)
	}
}

func TestTrackerFinishIgnoresNonPending(t *testing.T) {
	tr := NewTracker(nil, nil)
	tr.Finish(context.Background(), "ghost", 3, nil)
	if st := tr.Status("ghost"); st.State != domain.GenerationIdle {
		t.Fatalf("expected idle, got %s", st.State)
	}
}

func TestTrackerRequiresSessionID(t *testing.T) {
	if err := NewTracker(nil, nil).Begin(context.Background(), "", "u1"); err == nil {
		t.Fatalf("expected error for empty session id")
	}
}

func TestTrackerRespectsSharedLocker(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryLocker()
	a := NewTracker(shared, nil)
	b := NewTracker(shared, nil)

	if err := a.Begin(ctx, "s1", "u1"); err != nil {
		t.Fatalf("begin a: %v", err)
	}
	if err := b.Begin(ctx, "s1", "u1"); !errors.Is(err, domain.ErrGenerationInProgress) {
		t.Fatalf("expected replica b to be gated, got %v", err)
	}
	a.Finish(ctx, "s1", 0, nil)
	if err := b.Begin(ctx, "s1", "u1"); err != nil {
		t.Fatalf("expected gate released, got %v", err)
	}
}

func TestTrackerConcurrentBeginAdmitsOne(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(nil, nil)
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tr.Begin(ctx, "s1", "u1"); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if admitted != 1 {
		t.Fatalf("expected exactly one admitted request, got %d", admitted)
	}
}

func TestTrackerSurfacesLockerErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	tr := NewTracker(NewRedisLocker(client, time.Minute), nil)

	err := tr.Begin(context.Background(), "s1", "u1")
	if err == nil || errors.Is(err, domain.ErrGenerationInProgress) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if st := tr.Status("s1"); st.State != domain.GenerationIdle {
		t.Fatalf("expected session to stay idle, got %s", st.State)
	}
}
