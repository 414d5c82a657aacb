package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/JonMunkholm/csvtable/internal/logging"
	"github.com/google/uuid"
)

// ErrNoFile is returned when a load request carries no file.
var ErrNoFile = errors.New("no file provided")

// Options configures a Service.
type Options struct {
	Controller ControllerOptions

	// MaxFileSize is the largest accepted upload in bytes; 0 disables the check.
	MaxFileSize int64

	MaxConcurrentLoads int
	MaxLoadWait        time.Duration

	// IdleTimeout is how long an untouched controller is kept.
	IdleTimeout time.Duration
}

// Service owns one Controller per browser session.
type Service struct {
	opts    Options
	limiter *LoadLimiter
	now     func() time.Time

	mu          sync.RWMutex
	controllers map[string]*Controller
}

// NewService creates a service with no sessions.
func NewService(opts Options) *Service {
	return &Service{
		opts:        opts,
		limiter:     NewLoadLimiter(opts.MaxConcurrentLoads, opts.MaxLoadWait),
		now:         time.Now,
		controllers: make(map[string]*Controller),
	}
}

// NewSessionID returns a fresh session identifier.
func (s *Service) NewSessionID() string {
	return uuid.NewString()
}

// Controller returns the controller for id, creating it on first use.
// An empty or malformed id gets a new session ID.
func (s *Service) Controller(id string) *Controller {
	if _, err := uuid.Parse(id); err != nil {
		id = s.NewSessionID()
	}

	s.mu.RLock()
	c, ok := s.controllers[id]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controllers[id]; ok {
		return c
	}
	c = NewController(id, s.opts.Controller)
	c.now = s.now
	c.lastUsed = s.now()
	s.controllers[id] = c
	return c
}

// Lookup returns an existing controller without creating one.
func (s *Service) Lookup(id string) (*Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.controllers[id]
	return c, ok
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.controllers)
}

// Load reads r as CSV text and replaces the table of session id. A nil
// reader is a no-op that returns ErrNoFile and leaves the table unchanged.
func (s *Service) Load(ctx context.Context, id, fileName string, r io.Reader) (LoadResult, error) {
	if r == nil {
		return LoadResult{}, ErrNoFile
	}

	logger := logging.WithFields(ctx, "session", id, "file", fileName)
	start := s.now()

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("load rejected", "error", err)
		return LoadResult{}, err
	}
	defer s.limiter.Release()

	raw, err := ReadText(r, s.opts.MaxFileSize)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load %s: %w", fileName, err)
	}

	res, err := s.Controller(id).Load(fileName, raw)
	if err != nil {
		logger.Warn("load rejected", "error", err)
		return LoadResult{}, fmt.Errorf("load %s: %w", fileName, err)
	}
	logger.Info("table loaded",
		"rows", res.Rows,
		"columns", res.Columns,
		"bytes", len(raw),
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return res, nil
}

// Sweep drops controllers idle for longer than the configured timeout and
// returns how many were removed.
func (s *Service) Sweep() int {
	if s.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.controllers {
		if c.LastUsed().Before(cutoff) {
			delete(s.controllers, id)
			removed++
		}
	}
	return removed
}

// LimiterStatus reports load slot usage.
func (s *Service) LimiterStatus() LoadLimiterStatus {
	return s.limiter.Status()
}

// WaitForLoads blocks until in-flight loads finish or ctx ends.
func (s *Service) WaitForLoads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
