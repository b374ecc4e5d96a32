package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/ecorisk-backend-go/internal/database"
	"github.com/jengzang/ecorisk-backend-go/internal/models"
)

// SessionRepository handles database operations for sessions and their source sets
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session together with its initial source set
func (r *SessionRepository) Create(ctx context.Context, rec models.SessionRecord, sources []models.PollutionSource) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO sessions
			(id, center_lat, center_lon, address, radius, source_version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Center.Lat, rec.Center.Lon, rec.Center.Address, rec.Radius, rec.SourceVersion,
			rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		return insertSources(ctx, tx, rec.ID, sources)
	})
}

// Get retrieves a session by id; a missing session yields (nil, nil)
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.SessionRecord, error) {
	query := `SELECT id, center_lat, center_lon, address, radius, source_version, created_at, updated_at
		FROM sessions WHERE id = ?`

	var rec models.SessionRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Center.Lat, &rec.Center.Lon, &rec.Center.Address, &rec.Radius,
		&rec.SourceVersion, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &rec, nil
}

// UpdateCenter stores a new analysis center
func (r *SessionRepository) UpdateCenter(ctx context.Context, id string, center models.AnalysisCenter) error {
	return r.exec(ctx, "update center",
		`UPDATE sessions SET center_lat = ?, center_lon = ?, address = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		center.Lat, center.Lon, center.Address, id)
}

// UpdateRadius stores a new analysis radius
func (r *SessionRepository) UpdateRadius(ctx context.Context, id string, radius float64) error {
	return r.exec(ctx, "update radius",
		`UPDATE sessions SET radius = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		radius, id)
}

// ReplaceSources swaps the whole source set and drops the cached grid.
// Returns the new source version.
func (r *SessionRepository) ReplaceSources(ctx context.Context, id string, sources []models.PollutionSource) (int64, error) {
	var version int64
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE sessions SET source_version = source_version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to bump source version: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("session %s: %w", id, sql.ErrNoRows)
		}

		if err := tx.QueryRowContext(ctx, `SELECT source_version FROM sessions WHERE id = ?`, id).Scan(&version); err != nil {
			return fmt.Errorf("failed to read source version: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pollution_sources WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear sources: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM risk_cells WHERE session_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear grid: %w", err)
		}
		return insertSources(ctx, tx, id, sources)
	})
	return version, err
}

// ListSources returns the session's source set in upload order
func (r *SessionRepository) ListSources(ctx context.Context, id string) ([]models.PollutionSource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, lat, lon, pollution_level, danger_level, object_type
		FROM pollution_sources WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	sources := []models.PollutionSource{}
	for rows.Next() {
		var s models.PollutionSource
		if err := rows.Scan(&s.Name, &s.Lat, &s.Lon, &s.PollutionLevel, &s.DangerLevel, &s.ObjectType); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, s)
	}

	return sources, rows.Err()
}

// Delete removes a session; sources and grid cells cascade
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete session", `DELETE FROM sessions WHERE id = ?`, id)
}

func (r *SessionRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return nil
}

func insertSources(ctx context.Context, tx *sql.Tx, sessionID string, sources []models.PollutionSource) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pollution_sources
		(session_id, position, name, lat, lon, pollution_level, danger_level, object_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare source insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range sources {
		if _, err := stmt.ExecContext(ctx, sessionID, i, s.Name, s.Lat, s.Lon, s.PollutionLevel, s.DangerLevel, s.ObjectType); err != nil {
			return fmt.Errorf("failed to insert source %d: %w", i, err)
		}
	}
	return nil
}
