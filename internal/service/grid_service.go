package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
	"github.com/jengzang/ecorisk-backend-go/internal/render"
	"github.com/jengzang/ecorisk-backend-go/internal/repository"
	"github.com/jengzang/ecorisk-backend-go/internal/risk"
	"github.com/jengzang/ecorisk-backend-go/internal/session"
	"github.com/jengzang/ecorisk-backend-go/internal/spatial"
	"github.com/jengzang/ecorisk-backend-go/internal/stats"
)

// statsBins splits [0, MaxRiskLevel] into unit-wide histogram bins
const statsBins = 10

var (
	// ErrInvalidRadius is returned for radii outside [MinRadius, MaxRadius]
	ErrInvalidRadius = fmt.Errorf("radius must be between %.0f and %.0f meters", models.MinRadius, models.MaxRadius)
	// ErrOutsideGrid is returned for points not covered by any grid cell
	ErrOutsideGrid = errors.New("point is outside the risk grid")
	// ErrUnknownCell is returned for ids that label no cell of the grid
	ErrUnknownCell = errors.New("no grid cell with that id")
)

// GridConfig describes the region and resolution of the risk grid
type GridConfig struct {
	Box      risk.BoundingBox
	CellSize float64
}

// Layout identifies grids built from this configuration in storage
func (c GridConfig) Layout() models.GridLayout {
	return models.GridLayout{
		MinLat:   c.Box.MinLat,
		MaxLat:   c.Box.MaxLat,
		MinLon:   c.Box.MinLon,
		MaxLon:   c.Box.MaxLon,
		CellSize: c.CellSize,
	}
}

// GridService computes, caches and renders risk grids
type GridService struct {
	store      *session.Store
	repo       *repository.SessionRepository
	gridRepo   *repository.GridRepository
	aggregator *risk.Aggregator
	cfg        GridConfig
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewGridService creates a new grid service
func NewGridService(
	store *session.Store,
	repo *repository.SessionRepository,
	gridRepo *repository.GridRepository,
	aggregator *risk.Aggregator,
	cfg GridConfig,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *GridService {
	return &GridService{
		store:      store,
		repo:       repo,
		gridRepo:   gridRepo,
		aggregator: aggregator,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// Grid returns every cell of the session's normalized grid regardless of the viewport
func (s *GridService) Grid(ctx context.Context, sessionID string) ([]models.GridCell, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.grid(ctx, sess)
}

// Map renders the session's grid for its center. A non-zero radius overrides
// the session radius for this request only.
func (s *GridService) Map(ctx context.Context, sessionID string, radius float64) (models.RiskMap, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return models.RiskMap{}, err
	}

	if radius == 0 {
		radius = sess.Radius()
	} else if err := ValidateRadius(radius); err != nil {
		return models.RiskMap{}, err
	}

	grid, err := s.grid(ctx, sess)
	if err != nil {
		return models.RiskMap{}, err
	}

	return render.Build(grid, sess.Sources(), sess.Center(), radius), nil
}

// SetRadius changes the session's analysis radius. The grid is not recomputed.
func (s *GridService) SetRadius(ctx context.Context, sessionID string, radius float64) error {
	if err := ValidateRadius(radius); err != nil {
		return err
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	return sess.Exclusive(func() error {
		if err := s.repo.UpdateRadius(ctx, sessionID, radius); err != nil {
			return fmt.Errorf("failed to store radius: %w", err)
		}
		sess.SetRadius(radius)
		return nil
	})
}

// Stats returns the risk distribution of the session's whole grid
func (s *GridService) Stats(ctx context.Context, sessionID string) (models.GridStats, error) {
	grid, err := s.Grid(ctx, sessionID)
	if err != nil {
		return models.GridStats{}, err
	}

	levels := make([]float64, len(grid))
	for i, c := range grid {
		levels[i] = c.RiskLevel
	}

	hist := stats.Histogram(levels, 0, risk.MaxRiskLevel, statsBins)
	return models.GridStats{
		Summary:   stats.Summarize(levels),
		Histogram: hist,
		Spread:    stats.NormalizedEntropy(hist),
	}, nil
}

// PointRisk returns the grid cell containing the point
func (s *GridService) PointRisk(ctx context.Context, sessionID string, lat, lon float64) (models.RiskCell, error) {
	grid, err := s.Grid(ctx, sessionID)
	if err != nil {
		return models.RiskCell{}, err
	}

	cell, ok := risk.CellAt(grid, lat, lon)
	if !ok {
		return models.RiskCell{}, ErrOutsideGrid
	}
	return riskCell(cell), nil
}

// CellRisk returns the grid cell with the given id. Cell ids are geohashes of
// the cell centroids, so the decoded point falls inside the cell it names.
func (s *GridService) CellRisk(ctx context.Context, sessionID, cellID string) (models.RiskCell, error) {
	lat, lon, ok := spatial.DecodeGeohash(cellID)
	if !ok {
		return models.RiskCell{}, fmt.Errorf("%w: %q", ErrUnknownCell, cellID)
	}

	grid, err := s.Grid(ctx, sessionID)
	if err != nil {
		return models.RiskCell{}, err
	}

	cell, ok := risk.CellAt(grid, lat, lon)
	if !ok || cell.ID != cellID {
		return models.RiskCell{}, fmt.Errorf("%w: %q", ErrUnknownCell, cellID)
	}
	return riskCell(cell), nil
}

func riskCell(cell models.GridCell) models.RiskCell {
	return models.RiskCell{
		GridCell: cell,
		Color:    risk.Color(cell.RiskLevel),
		Tooltip:  render.Tooltip(cell.RiskLevel),
	}
}

// ValidateRadius checks a radius against the allowed slider range
func ValidateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < models.MinRadius || radius > models.MaxRadius {
		return ErrInvalidRadius
	}
	return nil
}

func (s *GridService) grid(ctx context.Context, sess *session.Session) ([]models.GridCell, error) {
	grid, version, computed, err := sess.Grid(s.compute)
	if err != nil {
		return nil, err
	}

	if computed {
		if err := s.gridRepo.SaveCells(ctx, sess.ID, version, grid); err != nil {
			// The in-memory grid stays valid; it is recomputed after a restart
			s.logger.Error("failed to persist grid", "session_id", sess.ID, "error", err)
		}
	}
	return grid, nil
}

func (s *GridService) compute(sources []models.PollutionSource) ([]models.GridCell, error) {
	start := time.Now()

	cells, err := risk.BuildGrid(s.cfg.Box, s.cfg.CellSize)
	if err != nil {
		return nil, err
	}
	cells = s.aggregator.Aggregate(cells, sources)

	elapsed := time.Since(start)
	s.metrics.GridComputations.Inc()
	s.metrics.GridDuration.Observe(elapsed.Seconds())
	s.metrics.GridCells.Set(float64(len(cells)))
	s.logger.Info("risk grid computed",
		"cells", len(cells),
		"sources", len(sources),
		"max_risk", risk.MaxRisk(cells),
		"duration", elapsed,
	)
	return cells, nil
}
