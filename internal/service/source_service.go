package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
	"github.com/jengzang/ecorisk-backend-go/internal/repository"
	"github.com/jengzang/ecorisk-backend-go/internal/session"
	"github.com/jengzang/ecorisk-backend-go/internal/sources"
)

// SourceService handles the active pollution source set of a session
type SourceService struct {
	store   *session.Store
	repo    *repository.SessionRepository
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewSourceService creates a new source service
func NewSourceService(store *session.Store, repo *repository.SessionRepository, metrics *observability.Metrics, logger *slog.Logger) *SourceService {
	return &SourceService{store: store, repo: repo, metrics: metrics, logger: logger}
}

// List returns the active sources prepared for display
func (s *SourceService) List(ctx context.Context, sessionID string) ([]models.SourceMarker, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sources.Markers(sess.Sources()), nil
}

// Upload replaces the session's source set with a CSV table. A rejected
// table leaves the previous set and its grid untouched.
func (s *SourceService) Upload(ctx context.Context, sessionID string, r io.Reader) (int, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	set, err := sources.ParseCSV(r)
	if err != nil {
		s.metrics.SourceUploads.WithLabelValues("rejected").Inc()
		s.logger.Warn("source upload rejected", "session_id", sessionID, "error", err)
		return 0, err
	}

	err = sess.Exclusive(func() error {
		version, err := s.repo.ReplaceSources(ctx, sessionID, set)
		if err != nil {
			return fmt.Errorf("failed to store sources: %w", err)
		}
		sess.ReplaceSources(set, version)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.SourceUploads.WithLabelValues("accepted").Inc()
	s.logger.Info("source set replaced", "session_id", sessionID, "sources", len(set))
	return len(set), nil
}
