// internal/export/sqlite.go
// Package export writes dashboard tables to a SQLite file for ad-hoc queries.
package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/mwiater/calview/internal/calibration"
	"github.com/mwiater/calview/internal/util"
)

// Snapshot is the set of tables written to SQLite.
type Snapshot struct {
	Selected     []string
	Focus        string
	Performance  calibration.PerformanceTable
	FinalResults calibration.FinalResults
}

var schema = []string{
	`DROP TABLE IF EXISTS selection`,
	`DROP TABLE IF EXISTS performance`,
	`DROP TABLE IF EXISTS final_results`,
	`CREATE TABLE selection (
		position INTEGER PRIMARY KEY,
		metric TEXT NOT NULL,
		is_focus INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE performance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		metric TEXT NOT NULL,
		source_dataset TEXT NOT NULL,
		deviation REAL,
		display_deviation REAL,
		deviation_text TEXT
	)`,
	`CREATE TABLE final_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		variable TEXT NOT NULL,
		source_dataset TEXT NOT NULL,
		value REAL
	)`,
}

// WriteSQLite replaces the snapshot tables in the database at path.
func WriteSQLite(ctx context.Context, path string, snap Snapshot) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	if err := writeSnapshot(ctx, tx, snap); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit snapshot: %w", err)
	}
	return nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, snap Snapshot) error {
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("unable to prepare schema: %w", err)
		}
	}

	for i, name := range snap.Selected {
		focus := 0
		if i == len(snap.Selected)-1 && name == snap.Focus {
			focus = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO selection (position, metric, is_focus) VALUES (?, ?, ?)`,
			i, name, focus); err != nil {
			return fmt.Errorf("unable to insert selection: %w", err)
		}
	}

	for _, row := range snap.Performance {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO performance (metric, source_dataset, deviation, display_deviation, deviation_text) VALUES (?, ?, ?, ?, ?)`,
			row.Metric, row.SourceDataset, row.Deviation, row.DisplayDeviation, row.DeviationText); err != nil {
			return fmt.Errorf("unable to insert performance row: %w", err)
		}
	}

	for _, row := range snap.FinalResults {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO final_results (variable, source_dataset, value) VALUES (?, ?, ?)`,
			row.Variable, row.SourceDataset, row.Value); err != nil {
			return fmt.Errorf("unable to insert final result: %w", err)
		}
	}
	return nil
}
