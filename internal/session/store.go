package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
	"github.com/jengzang/ecorisk-backend-go/internal/repository"
)

// ErrNotFound is returned for unknown session ids
var ErrNotFound = errors.New("session not found")

// Store keeps live sessions in memory and persists them through the repositories.
// Sessions idle longer than the TTL are dropped from memory and reloaded on demand.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	sessionRepo *repository.SessionRepository
	gridRepo    *repository.GridRepository
	clock       clockwork.Clock
	idleTTL     time.Duration
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewStore creates a session store
func NewStore(
	sessionRepo *repository.SessionRepository,
	gridRepo *repository.GridRepository,
	clock clockwork.Clock,
	idleTTL time.Duration,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		sessionRepo: sessionRepo,
		gridRepo:    gridRepo,
		clock:       clock,
		idleTTL:     idleTTL,
		metrics:     metrics,
		logger:      logger,
	}
}

// Create starts a session over the given sources with the default viewport
func (s *Store) Create(ctx context.Context, sources []models.PollutionSource) (*Session, error) {
	now := s.clock.Now().UTC()
	rec := models.SessionRecord{
		ID:            uuid.NewString(),
		Center:        models.DefaultCenter(),
		Radius:        models.DefaultRadius,
		SourceVersion: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.sessionRepo.Create(ctx, rec, sources); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	sess := newSession(rec, sources, nil, s.clock.Now())
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", sess.ID, "sources", len(sources))
	return sess, nil
}

// Get returns a live session, reloading it from storage if it was evicted
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		sess.touch(s.clock.Now())
		return sess, nil
	}

	loaded, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have loaded it meanwhile
	if existing, ok := s.sessions[id]; ok {
		existing.touch(s.clock.Now())
		return existing, nil
	}
	s.sessions[id] = loaded
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return loaded, nil
}

func (s *Store) load(ctx context.Context, id string) (*Session, error) {
	rec, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	sources, err := s.sessionRepo.ListSources(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	grid, err := s.gridRepo.GetCells(ctx, id, rec.SourceVersion)
	if err != nil {
		return nil, fmt.Errorf("load grid: %w", err)
	}

	s.logger.Debug("session restored", "session_id", id, "sources", len(sources), "grid_cells", len(grid))
	return newSession(*rec, sources, grid, s.clock.Now()), nil
}

// Len returns the number of sessions held in memory
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle drops sessions idle for longer than the TTL and returns how many were dropped
func (s *Store) EvictIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.idleTTL {
			delete(s.sessions, id)
			evicted++
		}
	}
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return evicted
}

// Run evicts idle sessions periodically until ctx is done
func (s *Store) Run(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}

	ticker := s.clock.NewTicker(s.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := s.EvictIdle(); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}
