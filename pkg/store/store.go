// Package store holds the full text of the JSON document being edited.
//
// A [Document] is a single text blob: callers read it whole with Text and
// replace it whole with SetContents. There is no partial update; the patch
// package computes the new document and the store only persists it.
//
// # Backends
//
//   - memory: in-process, for tests and the HTTP server's scratch mode
//   - file:   one JSON file on disk, written atomically
//   - sqlite: a documents table in a local database (modernc.org/sqlite)
//   - redis:  one string key per document
//   - mongo:  one record per document in a documents collection
//
// Use [Open] to construct a backend from [Options]. Every backend returned by
// Open reports its traffic to the observability store hooks.
package store

import (
	"context"
	"strings"

	"github.com/matzehuels/jsonlens/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// DefaultDocumentID is used when Options.DocumentID is empty.
const DefaultDocumentID = "default"

// Document stores the full text of one JSON document.
type Document interface {
	// Text returns the current document text. A document that was never
	// written yields an error with code NOT_FOUND.
	Text(ctx context.Context) (string, error)

	// SetContents replaces the document text.
	SetContents(ctx context.Context, text string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	DocumentID string

	// Path is the JSON file for the file backend and the database file for
	// the sqlite backend.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}
}

// Open constructs the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Document, error) {
	id := opts.DocumentID
	if id == "" {
		id = DefaultDocumentID
	}
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	backend := strings.ToLower(opts.Backend)
	if backend == "" {
		backend = BackendMemory
	}

	var (
		doc Document
		err error
	)
	switch backend {
	case BackendMemory:
		doc = NewMemory()
	case BackendFile:
		doc, err = NewFile(opts.Path)
	case BackendSQLite:
		doc, err = NewSQLite(opts.Path, id)
	case BackendRedis:
		doc, err = NewRedis(ctx, RedisOptions{Addr: opts.RedisAddr, Password: opts.RedisPassword, DB: opts.RedisDB}, id)
	case BackendMongo:
		doc, err = NewMongo(ctx, opts.MongoURI, opts.MongoDatabase, id)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %s)",
			opts.Backend, strings.Join(Backends(), ", "))
	}
	if err != nil {
		return nil, err
	}
	return Instrument(doc, backend), nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "document %q has no contents", id)
}
