// Package remarks persists free-text annotations attached to files. Records
// are keyed by normalized path with a content-hash fallback so a remark
// survives the file being moved or renamed.
package remarks

import (
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/verscope/verscope/internal/db"
	"github.com/verscope/verscope/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS file_remarks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    content_hash TEXT NOT NULL DEFAULT '',
    remarks TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL, -- RFC3339
    updated_at TEXT NOT NULL  -- RFC3339
);

CREATE INDEX IF NOT EXISTS idx_remarks_path ON file_remarks(path);
CREATE INDEX IF NOT EXISTS idx_remarks_hash ON file_remarks(content_hash);
`

// Record is one stored annotation.
type Record struct {
	ID          int64
	Path        string
	ContentHash string
	Remarks     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type recordRow struct {
	ID          int64  `db:"id"`
	Path        string `db:"path"`
	ContentHash string `db:"content_hash"`
	Remarks     string `db:"remarks"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r *recordRow) toRecord() *Record {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	updated, _ := time.Parse(time.RFC3339, r.UpdatedAt)
	return &Record{
		ID:          r.ID,
		Path:        r.Path,
		ContentHash: r.ContentHash,
		Remarks:     r.Remarks,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

// Store is the durable annotation dictionary. Storage-layer trouble never
// escapes it: lookups degrade to empty strings and writes to a false
// return. Every operation runs in its own short-lived transaction, so it is
// safe to call from a background resolution goroutine.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the store at dbPath. Use ":memory:" for an
// ephemeral store.
func NewStore(dbPath string) (*Store, error) {
	sqldb, err := db.NewSqliteDB(db.WithPath(dbPath), db.WithMaxOpenConns(1))
	if err != nil {
		return nil, err
	}
	if _, err := sqldb.Exec(schema); err != nil {
		sqldb.Close()
		return nil, err
	}
	return &Store{db: sqldb}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the remark for path, trying the normalized path first and the
// file's content hash second. Misses and errors both come back as "".
func (s *Store) Get(path string) string {
	record, ok := s.GetRecord(path)
	if !ok {
		return ""
	}
	return record.Remarks
}

// GetRecord returns the full stored record for path, if any.
func (s *Store) GetRecord(path string) (*Record, bool) {
	normalized, err := utils.NormalizePath(path)
	if err != nil {
		slog.Error("remarks get: normalize path", "path", path, "error", err)
		return nil, false
	}

	var row recordRow
	err = s.db.Get(&row, "SELECT id, path, content_hash, remarks, created_at, updated_at FROM file_remarks WHERE path = ? LIMIT 1", normalized)
	if err == nil {
		return row.toRecord(), true
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("remarks get: query by path", "path", normalized, "error", err)
		return nil, false
	}

	// Path miss: fall back to the content hash to tolerate moves.
	hash, err := utils.FileHash(path)
	if err != nil {
		return nil, false
	}
	err = s.db.Get(&row, "SELECT id, path, content_hash, remarks, created_at, updated_at FROM file_remarks WHERE content_hash = ? LIMIT 1", hash)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("remarks get: query by hash", "hash", hash, "error", err)
		}
		return nil, false
	}

	record := row.toRecord()
	// Report the caller's location, not the stale stored one.
	record.Path = normalized
	return record, true
}

// Set stores text as the remark for path. Whitespace is trimmed; an empty
// remark deletes the record, reporting whether one was removed. An existing
// record is matched by path, then by content hash (repointing its stored
// path to the new location), otherwise a new record is inserted.
func (s *Store) Set(path, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.Delete(path)
	}

	normalized, err := utils.NormalizePath(path)
	if err != nil {
		slog.Error("remarks set: normalize path", "path", path, "error", err)
		return false
	}

	// Hash failure (unreadable file) still allows a path-keyed record.
	hash, err := utils.FileHash(path)
	if err != nil {
		hash = ""
	}

	now := time.Now().Format(time.RFC3339)

	tx, err := s.db.Beginx()
	if err != nil {
		slog.Error("remarks set: begin tx", "error", err)
		return false
	}
	defer tx.Rollback()

	updated := false

	res, err := tx.Exec("UPDATE file_remarks SET remarks = ?, updated_at = ? WHERE path = ?", text, now, normalized)
	if err != nil {
		slog.Error("remarks set: update by path", "path", normalized, "error", err)
		return false
	}
	if n, _ := res.RowsAffected(); n > 0 {
		updated = true
	}

	if !updated && hash != "" {
		res, err = tx.Exec("UPDATE file_remarks SET path = ?, remarks = ?, updated_at = ? WHERE content_hash = ?", normalized, text, now, hash)
		if err != nil {
			slog.Error("remarks set: update by hash", "hash", hash, "error", err)
			return false
		}
		if n, _ := res.RowsAffected(); n > 0 {
			updated = true
		}
	}

	if !updated {
		if _, err := tx.Exec(
			"INSERT INTO file_remarks (path, content_hash, remarks, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			normalized, hash, text, now, now,
		); err != nil {
			slog.Error("remarks set: insert", "path", normalized, "error", err)
			return false
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("remarks set: commit", "error", err)
		return false
	}
	return true
}

// Delete removes the remark for path, by path match first and content hash
// second. Returns whether anything was removed.
func (s *Store) Delete(path string) bool {
	normalized, err := utils.NormalizePath(path)
	if err != nil {
		slog.Error("remarks delete: normalize path", "path", path, "error", err)
		return false
	}

	res, err := s.db.Exec("DELETE FROM file_remarks WHERE path = ?", normalized)
	if err != nil {
		slog.Error("remarks delete: by path", "path", normalized, "error", err)
		return false
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return true
	}

	hash, err := utils.FileHash(path)
	if err != nil {
		return false
	}
	res, err = s.db.Exec("DELETE FROM file_remarks WHERE content_hash = ?", hash)
	if err != nil {
		slog.Error("remarks delete: by hash", "hash", hash, "error", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}
