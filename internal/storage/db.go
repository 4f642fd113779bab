package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"feedjoin/internal"
)

// DB is a write-mostly export sink. Runs never read their own output back.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  vendor TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS templates (
  key TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  columnsJson TEXT NOT NULL,
  traceId TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS output_rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  templateKey TEXT NOT NULL,
  rowNo INTEGER NOT NULL,
  rowJson TEXT NOT NULL,
  UNIQUE(templateKey, rowNo),
  FOREIGN KEY(templateKey) REFERENCES templates(key)
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID, vendor string, timings map[string]float64, counts map[string]int) error {
	return insertRun(d.conn, traceID, vendor, timings, counts)
}

// StoreRun replaces the stored rows of every projection and records the run
// in one transaction. Nothing is kept when any step fails.
func (d *DB) StoreRun(traceID, vendor string, timings map[string]float64, counts map[string]int, projections []internal.Projection) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range projections {
		if err := replaceProjection(tx, traceID, p); err != nil {
			return fmt.Errorf("store %s: %w", p.Template.Key, err)
		}
	}
	if err := insertRun(tx, traceID, vendor, timings, counts); err != nil {
		return fmt.Errorf("record run %s: %w", traceID, err)
	}
	return tx.Commit()
}

// ReplaceProjection swaps the stored rows of one template for p's rows in a
// single transaction.
func (d *DB) ReplaceProjection(traceID string, p internal.Projection) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceProjection(tx, traceID, p); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertRun(db execer, traceID, vendor string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := db.Exec(`INSERT INTO runs (traceId, vendor, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, vendor, string(timingsJSON), string(countsJSON))
	return err
}

func replaceProjection(tx *sql.Tx, traceID string, p internal.Projection) error {
	columnsJSON, _ := json.Marshal(p.Columns)
	if _, err := tx.Exec(`
INSERT INTO templates (key, name, columnsJson, traceId) VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  name=excluded.name,
  columnsJson=excluded.columnsJson,
  traceId=excluded.traceId,
  updatedAt=CURRENT_TIMESTAMP
`, p.Template.Key, p.Template.Name, string(columnsJSON), traceID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM output_rows WHERE templateKey = ?`, p.Template.Key); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO output_rows (templateKey, rowNo, rowJson) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range p.Rows {
		rowJSON, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(p.Template.Key, i+1, string(rowJSON)); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) GetOutputRows(templateKey string) ([]internal.OutputRow, error) {
	rows, err := d.conn.Query(`SELECT rowJson FROM output_rows WHERE templateKey = ? ORDER BY rowNo ASC`, templateKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.OutputRow
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var row internal.OutputRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) CountRuns() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}
