package eventlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mavwarf/appicon/internal/paths"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite database at path and creates
// tables and indexes.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DirPerm); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// PRAGMAs are per connection; keep a single one so foreign_keys holds.
	db.SetMaxOpenConns(1)

	// Set PRAGMAs before any DDL.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS runs (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT    NOT NULL,
    tool      TEXT    NOT NULL,
    status    TEXT    NOT NULL,
    error     TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assets (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    num     INTEGER NOT NULL,
    name    TEXT    NOT NULL,
    width   INTEGER NOT NULL,
    height  INTEGER NOT NULL,
    bytes   INTEGER NOT NULL,
    sha256  TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_assets_run     ON assets(run_id);
`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Log(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (timestamp, tool, status, error) VALUES (?, ?, ?, ?)`,
		stamp(run), run.Tool, run.Status, run.Error,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, a := range run.Assets {
		if _, err := tx.Exec(
			`INSERT INTO assets (run_id, num, name, width, height, bytes, sha256)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i+1, a.Name, a.Width, a.Height, a.Bytes, a.SHA256,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Entries(days int) ([]Entry, error) {
	query := `SELECT r.timestamp, r.tool, r.status, r.error,
		(SELECT COUNT(*) FROM assets a WHERE a.run_id = r.id)
		FROM runs r`
	var args []any
	if days > 0 {
		query += ` WHERE r.timestamp >= ?`
		args = append(args, DayCutoff(days).Format(time.RFC3339))
	}
	query += ` ORDER BY r.id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var tsStr string
		var e Entry
		if err := rows.Scan(&tsStr, &e.Tool, &e.Status, &e.Error, &e.Assets); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		e.Time = ts
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReadContent renders all runs in the flat log format FileStore writes.
func (s *SQLiteStore) ReadContent() (string, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.timestamp, r.tool, r.status, r.error,
		        a.name, a.width, a.height, a.bytes, a.sha256
		 FROM runs r LEFT JOIN assets a ON a.run_id = r.id
		 ORDER BY r.id, a.num`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	type runRow struct {
		ts, tool, status, errText string
		assets                    []string
	}
	var order []int64
	byID := map[int64]*runRow{}

	for rows.Next() {
		var id int64
		var ts, tool, status, errText string
		var name, sum sql.NullString
		var width, height, size sql.NullInt64
		if err := rows.Scan(&id, &ts, &tool, &status, &errText, &name, &width, &height, &size, &sum); err != nil {
			return "", err
		}
		r, ok := byID[id]
		if !ok {
			r = &runRow{ts: ts, tool: tool, status: status, errText: errText}
			byID[id] = r
			order = append(order, id)
		}
		if name.Valid {
			r.assets = append(r.assets, fmt.Sprintf("%s  size=%dx%d  bytes=%d  sha256=%s",
				name.String, width.Int64, height.Int64, size.Int64, sum.String))
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, id := range order {
		r := byID[id]
		fmt.Fprintf(&b, "%s  tool=%s  status=%s  assets=%d", r.ts, r.tool, r.status, len(r.assets))
		if r.errText != "" {
			fmt.Fprintf(&b, "  error=%q", r.errText)
		}
		b.WriteString("\n")
		for i, a := range r.assets {
			fmt.Fprintf(&b, "%s    asset[%d] %s\n", r.ts, i+1, a)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	cutoff := DayCutoff(days).Format(time.RFC3339)
	res, err := s.db.Exec(`DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM runs`)
	return err
}

func (s *SQLiteStore) Path() string {
	return s.path
}
