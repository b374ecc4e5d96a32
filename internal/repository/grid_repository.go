package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/ecorisk-backend-go/internal/database"
	"github.com/jengzang/ecorisk-backend-go/internal/models"
)

// GridRepository handles database operations for computed risk grids.
// Grids are stored and served for a single layout.
type GridRepository struct {
	db     *sql.DB
	layout models.GridLayout
}

// NewGridRepository creates a grid repository for grids built with layout
func NewGridRepository(db *sql.DB, layout models.GridLayout) *GridRepository {
	return &GridRepository{db: db, layout: layout}
}

// SaveCells replaces the stored grid of a session. Cells are tagged with the
// source version and layout they were computed from so a stale grid is never served.
func (r *GridRepository) SaveCells(ctx context.Context, sessionID string, sourceVersion int64, cells []models.GridCell) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM risk_cells WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("failed to clear grid cells: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO risk_cells
			(session_id, position, cell_id, left_lon, right_lon, bottom_lat, top_lat, risk_level, source_version,
			 min_lat, max_lat, min_lon, max_lon, cell_size)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare grid insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range cells {
			_, err := stmt.ExecContext(ctx, sessionID, i, c.ID, c.Left, c.Right, c.Bottom, c.Top, c.RiskLevel, sourceVersion,
				r.layout.MinLat, r.layout.MaxLat, r.layout.MinLon, r.layout.MaxLon, r.layout.CellSize)
			if err != nil {
				return fmt.Errorf("failed to insert grid cell %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetCells retrieves the stored grid computed from the given source version
// under the repository's layout. Returns nil when nothing matching is stored.
func (r *GridRepository) GetCells(ctx context.Context, sessionID string, sourceVersion int64) ([]models.GridCell, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT cell_id, left_lon, right_lon, bottom_lat, top_lat, risk_level
		FROM risk_cells
		WHERE session_id = ? AND source_version = ?
			AND min_lat = ? AND max_lat = ? AND min_lon = ? AND max_lon = ? AND cell_size = ?
		ORDER BY position`,
		sessionID, sourceVersion,
		r.layout.MinLat, r.layout.MaxLat, r.layout.MinLon, r.layout.MaxLon, r.layout.CellSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query grid cells: %w", err)
	}
	defer rows.Close()

	var cells []models.GridCell
	for rows.Next() {
		var c models.GridCell
		if err := rows.Scan(&c.ID, &c.Left, &c.Right, &c.Bottom, &c.Top, &c.RiskLevel); err != nil {
			return nil, fmt.Errorf("failed to scan grid cell: %w", err)
		}
		cells = append(cells, c)
	}

	return cells, rows.Err()
}
