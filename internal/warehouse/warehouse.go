// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

/*
Package warehouse persists the merged rating snapshot in DuckDB.

Every run replaces the merged_ratings table with the rows produced by the
catalog merge, then exports it as a delimiter-separated file with DuckDB's
COPY TO. The table keeps the input order through a hidden row_id column.

	wh, err := warehouse.Open(ctx, "data/warehouse/filmwise.duckdb")
	if err != nil {
	    return err
	}
	defer wh.Close()

	if err := wh.SaveMerged(ctx, merged.Rows, merged.MetadataColumns); err != nil {
	    return err
	}
	if err := wh.ExportCSV(ctx, "data/cleaned/expanded.csv", ','); err != nil {
	    return err
	}

An empty path opens an in-memory database.
*/
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/metrics"
)

// TableName is the table holding the merged snapshot.
const TableName = "merged_ratings"

// Fixed snapshot columns, in export order.
var baseColumns = []string{"user", "movie", "rating", "genre"}

// Warehouse wraps a DuckDB connection holding the merged snapshot.
type Warehouse struct {
	conn     *sql.DB
	path     string
	inMemory bool
	columns  []string
	logger   zerolog.Logger
}

// Open opens (or creates) the DuckDB database at path.
// An empty path or ":memory:" opens an in-memory database.
func Open(ctx context.Context, path string) (*Warehouse, error) {
	inMemory := path == "" || path == ":memory:"
	if inMemory {
		path = ":memory:"
	} else {
		// Use 0750 permissions (owner: rwx, group: rx, other: none)
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create warehouse directory %s: %w", dir, err)
			}
		}
	}

	// Extensions are not needed; disable auto-install so restricted networks never hang
	connStr := fmt.Sprintf("%s?autoinstall_known_extensions=false&autoload_known_extensions=false", path)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	return &Warehouse{
		conn:     conn,
		path:     path,
		inMemory: inMemory,
		logger:   logging.WithComponent("warehouse"),
	}, nil
}

// Close checkpoints a file-backed database and closes the connection.
func (w *Warehouse) Close() error {
	if w.conn == nil {
		return nil
	}
	if !w.inMemory {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := w.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			w.logger.Warn().Err(err).Msg("Checkpoint before close failed")
		}
		cancel()
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

// Ping verifies the connection is alive.
func (w *Warehouse) Ping(ctx context.Context) error {
	if w.conn == nil {
		return fmt.Errorf("warehouse connection is closed")
	}
	return w.conn.PingContext(ctx)
}

// Columns returns the exported column names of the current snapshot.
func (w *Warehouse) Columns() []string {
	out := make([]string, len(w.columns))
	copy(out, w.columns)
	return out
}

// SaveMerged replaces the snapshot table with rows inside one transaction.
// metadataColumns names the values in each row's Extra slice.
func (w *Warehouse) SaveMerged(ctx context.Context, rows []dataset.MergedRow, metadataColumns []string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordWarehouseQuery("save_merged", time.Since(start), err) }()

	columns := snapshotColumns(metadataColumns)

	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				w.logger.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+TableName); err != nil {
		return fmt.Errorf("failed to drop snapshot table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL(columns)); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(columns))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			w.logger.Warn().Err(closeErr).Msg("Failed to close prepared statement")
		}
	}()

	args := make([]any, 0, len(columns)+1)
	for i, row := range rows {
		args = args[:0]
		args = append(args, int64(i), row.User, row.Movie, row.Value, row.Genre)
		for j := range metadataColumns {
			var v string
			if j < len(row.Extra) {
				v = row.Extra[j]
			}
			args = append(args, v)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	w.columns = columns
	w.logger.Debug().Int("rows", len(rows)).Int("columns", len(columns)).Msg("Snapshot saved")
	return nil
}

// ExportCSV writes the snapshot to path with a header row, overwriting any
// existing file. Rows keep the order they were saved in.
func (w *Warehouse) ExportCSV(ctx context.Context, path string, delimiter rune) (err error) {
	start := time.Now()
	defer func() { metrics.RecordWarehouseQuery("export_csv", time.Since(start), err) }()

	if len(w.columns) == 0 {
		return fmt.Errorf("no snapshot saved")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}

	quoted := make([]string, len(w.columns))
	for i, c := range w.columns {
		quoted[i] = quoteIdent(c)
	}

	exportQuery := fmt.Sprintf(`
		COPY (
			SELECT %s FROM %s ORDER BY row_id
		) TO %s (HEADER, DELIMITER %s)`,
		strings.Join(quoted, ", "), TableName, quoteLiteral(path), quoteLiteral(string(delimiter)))

	if _, err = w.conn.ExecContext(ctx, exportQuery); err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}

	w.logger.Debug().Str("path", path).Msg("Snapshot exported")
	return nil
}

// CountRows returns the number of rows in the snapshot table.
func (w *Warehouse) CountRows(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordWarehouseQuery("count_rows", time.Since(start), err) }()

	err = w.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+TableName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshot rows: %w", err)
	}
	return n, nil
}

// snapshotColumns returns the exported column names: the fixed columns then
// the catalog metadata, renamed where they would collide or are blank.
func snapshotColumns(metadataColumns []string) []string {
	columns := make([]string, 0, len(baseColumns)+len(metadataColumns))
	columns = append(columns, baseColumns...)

	used := map[string]bool{"row_id": true}
	for _, c := range baseColumns {
		used[c] = true
	}

	for i, name := range metadataColumns {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 2; used[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		used[strings.ToLower(candidate)] = true
		columns = append(columns, candidate)
	}
	return columns
}

func createTableSQL(columns []string) string {
	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, "row_id BIGINT NOT NULL")
	for _, c := range columns {
		typ := "VARCHAR"
		if c == "rating" {
			typ = "DOUBLE"
		}
		defs = append(defs, quoteIdent(c)+" "+typ)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(defs, ", "))
}

func insertSQL(columns []string) string {
	names := make([]string, 0, len(columns)+1)
	names = append(names, "row_id")
	for _, c := range columns {
		names = append(names, quoteIdent(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", TableName, strings.Join(names, ", "), placeholders)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // cleanup is best-effort
	}
}
