// Package session holds per-user map state: the active source set, the risk
// grid computed from it, and the analysis viewport.
//
// The grid is an explicit cache owned by the session. It is dropped only when
// the source set is replaced; moving the center or changing the radius never
// touches it.
package session

import (
	"sync"
	"time"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
)

// GridFunc computes a grid for a source set
type GridFunc func(sources []models.PollutionSource) ([]models.GridCell, error)

// Session is the state of one map user. Methods are safe for concurrent use.
type Session struct {
	ID string

	opMu sync.Mutex // serializes multi-step updates

	mu            sync.Mutex
	sources       []models.PollutionSource
	sourceVersion int64
	grid          []models.GridCell // nil until computed for the current sources
	center        models.AnalysisCenter
	radius        float64
	lastSeen      time.Time
}

// Snapshot is a read-only copy of the session's viewport and cache status
type Snapshot struct {
	ID            string                `json:"session_id"`
	Center        models.AnalysisCenter `json:"center"`
	Radius        float64               `json:"radius"`
	SourceCount   int                   `json:"source_count"`
	SourceVersion int64                 `json:"source_version"`
	GridReady     bool                  `json:"grid_ready"`
	GridCells     int                   `json:"grid_cells"`
}

func newSession(rec models.SessionRecord, sources []models.PollutionSource, grid []models.GridCell, now time.Time) *Session {
	return &Session{
		ID:            rec.ID,
		sources:       sources,
		sourceVersion: rec.SourceVersion,
		grid:          grid,
		center:        rec.Center,
		radius:        rec.Radius,
		lastSeen:      now,
	}
}

// Snapshot returns the current viewport and cache status
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:            s.ID,
		Center:        s.center,
		Radius:        s.radius,
		SourceCount:   len(s.sources),
		SourceVersion: s.sourceVersion,
		GridReady:     s.grid != nil,
		GridCells:     len(s.grid),
	}
}

// Sources returns the active source set. The slice must not be modified.
func (s *Session) Sources() []models.PollutionSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sources
}

// Center returns the analysis center
func (s *Session) Center() models.AnalysisCenter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.center
}

// Radius returns the analysis radius in meters
func (s *Session) Radius() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.radius
}

// SetCenter moves the analysis center; the grid is kept
func (s *Session) SetCenter(center models.AnalysisCenter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = center
}

// SetRadius changes the analysis radius; the grid is kept
func (s *Session) SetRadius(radius float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radius = radius
}

// ReplaceSources installs a new source set wholesale and invalidates the grid
func (s *Session) ReplaceSources(sources []models.PollutionSource, version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources = sources
	s.sourceVersion = version
	s.grid = nil
}

// CachedGrid returns the grid if it has been computed for the current sources
func (s *Session) CachedGrid() ([]models.GridCell, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid, s.grid != nil
}

// Grid returns the cached grid, computing it with fn on a miss. The session
// stays locked during computation so concurrent callers compute it once.
// computed reports whether fn ran.
func (s *Session) Grid(fn GridFunc) (grid []models.GridCell, version int64, computed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid != nil {
		return s.grid, s.sourceVersion, false, nil
	}

	grid, err = fn(s.sources)
	if err != nil {
		return nil, s.sourceVersion, false, err
	}
	if grid == nil {
		grid = []models.GridCell{}
	}
	s.grid = grid
	return grid, s.sourceVersion, true, nil
}

// Exclusive runs fn while holding the session's update lock. Updates that
// persist state before changing it in memory run through here so that
// concurrent requests for one session apply in order.
func (s *Session) Exclusive(fn func() error) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return fn()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
