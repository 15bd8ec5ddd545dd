package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// SyncLog is the server's append-only history of handled sync connections,
// backed by a small SQLite database. The server is the only writer (its
// accept loop is sequential), `mtd history` is an occasional reader.
type SyncLog struct {
	db *sql.DB
}

// SyncLogEntry is one handled connection, successful or not.
type SyncLogEntry struct {
	When   time.Time `json:"when"`
	Remote string    `json:"remote"`
	Status string    `json:"status"` // "ok" or "error"
	Error  string    `json:"error,omitempty"`
	Todos  int       `json:"todos"`
	Tasks  int       `json:"tasks"`
}

const syncLogSchema = `
CREATE TABLE IF NOT EXISTS sync_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TEXT NOT NULL,
    remote TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    todos INTEGER NOT NULL,
    tasks INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sync_log_ts ON sync_log(ts);
`

// OpenSyncLog opens (creating when necessary) the sync history database at
// path.
func OpenSyncLog(ctx context.Context, path string) (*SyncLog, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables the occasional `mtd history` reader while the server
	// writes; busy_timeout avoids "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, syncLogSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SyncLog{db: db}, nil
}

func (l *SyncLog) Close() error { return l.db.Close() }

// Append records one handled connection.
func (l *SyncLog) Append(ctx context.Context, e SyncLogEntry) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO sync_log (ts, remote, status, error, todos, tasks) VALUES (?, ?, ?, ?, ?, ?)`,
		e.When.UTC().Format(time.RFC3339Nano), e.Remote, e.Status, e.Error, e.Todos, e.Tasks)
	return err
}

// Recent returns the latest entries, newest first.
func (l *SyncLog) Recent(ctx context.Context, limit int) ([]SyncLogEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT ts, remote, status, error, todos, tasks FROM sync_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SyncLogEntry
	for rows.Next() {
		var e SyncLogEntry
		var ts string
		if err := rows.Scan(&ts, &e.Remote, &e.Status, &e.Error, &e.Todos, &e.Tasks); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.When = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
