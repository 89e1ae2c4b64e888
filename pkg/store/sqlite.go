package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/jsonlens/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLite keeps documents in a local SQLite database, one row per document.
type SQLite struct {
	db *sql.DB
	id string
}

// NewSQLite opens or creates the database at path and binds the document id.
// An empty path opens a private in-memory database.
func NewSQLite(path, id string) (*SQLite, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "create database dir")
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open sqlite")
	}
	// A second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "apply schema")
	}
	return &SQLite{db: db, id: id}, nil
}

func (s *SQLite) Text(ctx context.Context) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE id = ?", s.id).Scan(&body)
	if err == sql.ErrNoRows {
		return "", notFound(s.id)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "read document %s", s.id)
	}
	return body, nil
}

func (s *SQLite) SetContents(ctx context.Context, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		s.id, text, time.Now().UnixNano(),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write document %s", s.id)
	}
	return nil
}

// UpdatedAt returns when the document was last written.
func (s *SQLite) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ns int64
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM documents WHERE id = ?", s.id).Scan(&ns)
	if err == sql.ErrNoRows {
		return time.Time{}, notFound(s.id)
	}
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeStore, err, "read document %s", s.id)
	}
	return time.Unix(0, ns), nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
