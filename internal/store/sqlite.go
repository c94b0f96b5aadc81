package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
)

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	over       INTEGER NOT NULL DEFAULT 0,
	touched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_touched ON sessions(touched_at);`

// SQLite stores each session as a JSON document. touched_at is refreshed by
// Save and Load.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		log.Warn().Err(err).Msg("couldn't enable WAL mode")
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		log.Warn().Err(err).Msg("couldn't set busy timeout")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Load(ctx context.Context, id string) (akinator.Session, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return akinator.Session{}, ErrNotFound
	}
	if err != nil {
		return akinator.Session{}, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess akinator.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return akinator.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET touched_at = ? WHERE id = ?`, s.now().UnixNano(), id); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("couldn't refresh session access time")
	}
	return sess, nil
}

func (s *SQLite) Save(ctx context.Context, sess akinator.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions (id, payload, over, touched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, over = excluded.over, touched_at = excluded.touched_at`,
		sess.ID, string(payload), sess.Over, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// List returns sessions most recently touched first.
func (s *SQLite) List(ctx context.Context) ([]akinator.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM sessions ORDER BY touched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var out []akinator.Session
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var sess akinator.Session
		if err := json.Unmarshal([]byte(payload), &sess); err != nil {
			log.Warn().Err(err).Msg("skipping undecodable session row")
			continue
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLite) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE touched_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLite) Close() error { return s.db.Close() }
