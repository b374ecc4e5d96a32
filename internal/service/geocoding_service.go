package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jengzang/ecorisk-backend-go/internal/geocoding"
	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
	"github.com/jengzang/ecorisk-backend-go/internal/repository"
	"github.com/jengzang/ecorisk-backend-go/internal/session"
)

// GeocodingService moves the analysis center to a searched address
type GeocodingService struct {
	store    *session.Store
	repo     *repository.SessionRepository
	geocoder geocoding.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService(
	store *session.Store,
	repo *repository.SessionRepository,
	geocoder geocoding.Geocoder,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *GeocodingService {
	return &GeocodingService{store: store, repo: repo, geocoder: geocoder, metrics: metrics, logger: logger}
}

// SetCenter geocodes the address and makes it the session's analysis center.
// On ErrNotFound or ErrUnavailable the previous center is kept.
func (s *GeocodingService) SetCenter(ctx context.Context, sessionID, address string) (models.AnalysisCenter, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return models.AnalysisCenter{}, err
	}

	address = strings.TrimSpace(address)
	result, err := s.geocoder.Geocode(ctx, address)
	outcome := geocoding.Outcome(err)
	s.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
	if err != nil {
		s.logger.Warn("address search failed", "session_id", sessionID, "address", address, "outcome", outcome, "error", err)
		return sess.Center(), err
	}

	center := models.AnalysisCenter{Lat: result.Lat, Lon: result.Lon, Address: address}
	err = sess.Exclusive(func() error {
		if err := s.repo.UpdateCenter(ctx, sessionID, center); err != nil {
			return fmt.Errorf("failed to store center: %w", err)
		}
		sess.SetCenter(center)
		return nil
	})
	if err != nil {
		return sess.Center(), err
	}

	s.logger.Info("analysis center moved", "session_id", sessionID, "lat", center.Lat, "lon", center.Lon)
	return center, nil
}
