package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/ecorisk-backend-go/internal/database"
	"github.com/jengzang/ecorisk-backend-go/internal/models"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
	"github.com/jengzang/ecorisk-backend-go/internal/repository"
)

type fixture struct {
	store    *Store
	clock    *clockwork.FakeClock
	metrics  *observability.Metrics
	sessions *repository.SessionRepository
	grids    *repository.GridRepository
}

func newFixture(t *testing.T, ttl time.Duration) fixture {
	t.Helper()
	logger := observability.DiscardLogger()
	db, err := database.Open(database.Config{Path: ":memory:"}, logger)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, logger))
	t.Cleanup(func() { db.Close() })

	f := fixture{
		clock:    clockwork.NewFakeClock(),
		metrics:  observability.NewMetricsForTesting(),
		sessions: repository.NewSessionRepository(db),
		grids:    repository.NewGridRepository(db, models.GridLayout{MinLat: 59.8, MaxLat: 60.05, MinLon: 30.1, MaxLon: 30.7, CellSize: 0.0045}),
	}
	f.store = NewStore(f.sessions, f.grids, f.clock, ttl, f.metrics, logger)
	return f
}

var demo = []models.PollutionSource{
	{Name: "A", Lat: 59.9, Lon: 30.3, PollutionLevel: 5, DangerLevel: "Высокий", ObjectType: "Порт"},
}

func oneCell(sources []models.PollutionSource) ([]models.GridCell, error) {
	return []models.GridCell{{ID: "c", Left: 30, Right: 30.5, Bottom: 59.8, Top: 60, RiskLevel: float64(len(sources))}}, nil
}

func TestStore_CreateUsesDefaultViewport(t *testing.T) {
	f := newFixture(t, time.Hour)

	sess, err := f.store.Create(context.Background(), demo)
	require.NoError(t, err)

	snap := sess.Snapshot()
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, models.DefaultCenter(), snap.Center)
	assert.Equal(t, models.DefaultRadius, snap.Radius)
	assert.Equal(t, 1, snap.SourceCount)
	assert.False(t, snap.GridReady)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ActiveSessions))
}

func TestStore_GetUnknown(t *testing.T) {
	f := newFixture(t, time.Hour)

	_, err := f.store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSession_GridComputedOnce(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess, err := f.store.Create(context.Background(), demo)
	require.NoError(t, err)

	var calls int32
	fn := func(s []models.PollutionSource) ([]models.GridCell, error) {
		atomic.AddInt32(&calls, 1)
		return oneCell(s)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := sess.Grid(fn)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, _, computed, err := sess.Grid(fn)
	require.NoError(t, err)
	assert.False(t, computed)
}

func TestSession_ViewportChangesKeepGrid(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess, err := f.store.Create(context.Background(), demo)
	require.NoError(t, err)

	_, _, computed, err := sess.Grid(oneCell)
	require.NoError(t, err)
	require.True(t, computed)

	sess.SetCenter(models.AnalysisCenter{Lat: 59.93, Lon: 30.36, Address: "Невский проспект 1"})
	sess.SetRadius(3000)

	_, ok := sess.CachedGrid()
	assert.True(t, ok)
	assert.Equal(t, 3000.0, sess.Radius())
	assert.Equal(t, "Невский проспект 1", sess.Center().Address)
}

func TestSession_ReplaceSourcesInvalidatesGrid(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess, err := f.store.Create(context.Background(), demo)
	require.NoError(t, err)

	_, _, _, err = sess.Grid(oneCell)
	require.NoError(t, err)

	sess.ReplaceSources(append(demo, demo...), 2)
	_, ok := sess.CachedGrid()
	assert.False(t, ok)

	grid, version, computed, err := sess.Grid(oneCell)
	require.NoError(t, err)
	assert.True(t, computed)
	assert.Equal(t, int64(2), version)
	assert.Equal(t, 2.0, grid[0].RiskLevel)
}

func TestSession_GridErrorNotCached(t *testing.T) {
	f := newFixture(t, time.Hour)
	sess, err := f.store.Create(context.Background(), demo)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, _, _, err = sess.Grid(func([]models.PollutionSource) ([]models.GridCell, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := sess.CachedGrid()
	assert.False(t, ok)
}

func TestStore_EvictIdle(t *testing.T) {
	f := newFixture(t, 10*time.Minute)
	ctx := context.Background()

	idle, err := f.store.Create(ctx, demo)
	require.NoError(t, err)
	active, err := f.store.Create(ctx, demo)
	require.NoError(t, err)

	f.clock.Advance(6 * time.Minute)
	_, err = f.store.Get(ctx, active.ID)
	require.NoError(t, err)
	f.clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, f.store.EvictIdle())
	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ActiveSessions))

	// Evicted sessions are restored from storage
	restored, err := f.store.Get(ctx, idle.ID)
	require.NoError(t, err)
	assert.Equal(t, idle.ID, restored.ID)
	assert.Equal(t, demo, restored.Sources())
	assert.Equal(t, 2, f.store.Len())
}

func TestStore_RestoreUsesPersistedGrid(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	sess, err := f.store.Create(ctx, demo)
	require.NoError(t, err)
	grid, version, _, err := sess.Grid(oneCell)
	require.NoError(t, err)
	require.NoError(t, f.grids.SaveCells(ctx, sess.ID, version, grid))

	f.clock.Advance(2 * time.Minute)
	require.Equal(t, 1, f.store.EvictIdle())

	restored, err := f.store.Get(ctx, sess.ID)
	require.NoError(t, err)
	cached, ok := restored.CachedGrid()
	require.True(t, ok)
	assert.Equal(t, grid, cached)
}

func TestStore_RunEvictsOnTick(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := f.store.Create(context.Background(), demo)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		f.store.Run(ctx)
		close(done)
	}()

	f.clock.BlockUntil(1)
	assert.Eventually(t, func() bool {
		f.clock.Advance(30 * time.Second)
		return f.store.Len() == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
