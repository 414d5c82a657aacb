package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService(opts Options) *Service {
	if opts.Controller.SortColumn == 0 {
		opts.Controller.SortColumn = DefaultSortColumn
	}
	opts.Controller.ReapplyFilter = true
	return NewService(opts)
}

func TestService_ControllerPerSession(t *testing.T) {
	s := newTestService(Options{})
	a := s.NewSessionID()
	b := s.NewSessionID()

	ca := s.Controller(a)
	if s.Controller(a) != ca {
		t.Error("same session ID should return the same controller")
	}
	if s.Controller(b) == ca {
		t.Error("different sessions should not share a controller")
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}

	if _, ok := s.Lookup(a); !ok {
		t.Error("Lookup() should find an existing session")
	}
	if _, ok := s.Lookup(uuid.NewString()); ok {
		t.Error("Lookup() should not create sessions")
	}
}

func TestService_ControllerInvalidID(t *testing.T) {
	s := newTestService(Options{})

	for _, id := range []string{"", "not-a-uuid", "../../etc/passwd"} {
		c := s.Controller(id)
		if c.ID() == id {
			t.Errorf("Controller(%q) kept the malformed ID", id)
		}
		if _, err := uuid.Parse(c.ID()); err != nil {
			t.Errorf("Controller(%q) ID %q is not a UUID", id, c.ID())
		}
	}
}

func TestService_Load(t *testing.T) {
	s := newTestService(Options{MaxFileSize: 1024})
	id := s.NewSessionID()

	res, err := s.Load(context.Background(), id, "movies.csv", strings.NewReader(moviesCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Rows != 4 || res.FileName != "movies.csv" {
		t.Errorf("LoadResult = %+v", res)
	}

	c, ok := s.Lookup(id)
	if !ok {
		t.Fatal("Load() should create the session")
	}
	if got := c.Table().String(); got != moviesCSV {
		t.Errorf("Table() = %q", got)
	}
}

func TestService_LoadNoFile(t *testing.T) {
	s := newTestService(Options{})
	id := s.NewSessionID()
	c := s.Controller(id)
	c.Load("movies.csv", moviesCSV)

	_, err := s.Load(context.Background(), id, "", nil)
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("Load(nil) error = %v, want ErrNoFile", err)
	}
	if got := c.Table().String(); got != moviesCSV {
		t.Error("a load without a file should leave the table unchanged")
	}
}

func TestService_LoadTooLarge(t *testing.T) {
	s := newTestService(Options{MaxFileSize: 10})
	id := s.NewSessionID()
	c := s.Controller(id)
	c.Load("small.csv", "a\n1")

	_, err := s.Load(context.Background(), id, "big.csv", strings.NewReader(moviesCSV))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Load() error = %v, want ErrFileTooLarge", err)
	}
	if got := c.Table().String(); got != "a\n1" {
		t.Errorf("failed load replaced the table: %q", got)
	}
	if got := s.LimiterStatus().Active; got != 0 {
		t.Errorf("slot leaked: Active = %d", got)
	}
}

func TestService_LoadTooManyRows(t *testing.T) {
	s := newTestService(Options{Controller: ControllerOptions{MaxRows: 2}})
	id := s.NewSessionID()
	c := s.Controller(id)
	c.Load("small.csv", "a\n1")

	_, err := s.Load(context.Background(), id, "movies.csv", strings.NewReader(moviesCSV))
	if !errors.Is(err, ErrTooManyRows) {
		t.Fatalf("Load() error = %v, want ErrTooManyRows", err)
	}
	if got := c.Table().String(); got != "a\n1" {
		t.Errorf("rejected load replaced the table: %q", got)
	}
	if got := s.LimiterStatus().Active; got != 0 {
		t.Errorf("slot leaked: Active = %d", got)
	}
}

func TestService_LoadCancelled(t *testing.T) {
	s := newTestService(Options{MaxConcurrentLoads: 1, MaxLoadWait: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Hold the only slot so Acquire has to wait and sees the cancellation.
	if err := s.limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.limiter.Release()

	_, err := s.Load(ctx, s.NewSessionID(), "a.csv", strings.NewReader("a"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestService_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(Options{IdleTimeout: time.Hour})
	s.now = func() time.Time { return now }

	stale := s.Controller(s.NewSessionID())
	now = now.Add(45 * time.Minute)
	fresh := s.Controller(s.NewSessionID())
	now = now.Add(30 * time.Minute)

	if removed := s.Sweep(); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if _, ok := s.Lookup(stale.ID()); ok {
		t.Error("idle session should be swept")
	}
	if _, ok := s.Lookup(fresh.ID()); !ok {
		t.Error("active session should be kept")
	}

	// Touching a session keeps it alive.
	now = now.Add(50 * time.Minute)
	fresh.SetFilter("x")
	now = now.Add(50 * time.Minute)
	if removed := s.Sweep(); removed != 0 {
		t.Errorf("Sweep() = %d, want 0", removed)
	}
}

func TestService_SweepDisabled(t *testing.T) {
	s := newTestService(Options{})
	s.Controller(s.NewSessionID())
	if removed := s.Sweep(); removed != 0 {
		t.Errorf("Sweep() = %d, want 0 without an idle timeout", removed)
	}
}

func TestService_StartSweeperStops(t *testing.T) {
	s := newTestService(Options{IdleTimeout: time.Nanosecond})
	s.Controller(s.NewSessionID())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.StartSweeper(ctx, 10*time.Millisecond) }()

	deadline := time.After(time.Second)
	for s.Count() > 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not remove the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("StartSweeper() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Error("StartSweeper did not return after cancel")
	}
}

func TestContext_SessionID(t *testing.T) {
	ctx := ContextWithSessionID(context.Background(), "abc")
	if got := SessionIDFromContext(ctx); got != "abc" {
		t.Errorf("SessionIDFromContext() = %q, want abc", got)
	}
	if got := SessionIDFromContext(context.Background()); got != "" {
		t.Errorf("SessionIDFromContext(empty) = %q", got)
	}
}
