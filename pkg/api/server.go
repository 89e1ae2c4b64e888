// Package api serves documents, graph nodes and edit sessions over HTTP.
//
// Read endpoints work on the document store directly. Editing happens in
// sessions: each session owns a selection and an editor, so several clients
// can edit nodes of the same document without sharing selection state.
// Requests to one session are serialized. Saves and document writes from all
// sessions are serialized against each other, so a save always patches the
// latest document and never overwrites a concurrent save.
//
// # Routes
//
//	GET    /healthz
//	GET    /document                      current text, ETag = store.Hash
//	PUT    /document                      replace the text (If-Match honoured)
//	GET    /nodes                         graph nodes and edges
//	GET    /nodes/{id}                    one node with its normalized text
//	POST   /sessions                      start an edit session
//	GET    /sessions/{sid}                session state
//	DELETE /sessions/{sid}                end a session
//	POST   /sessions/{sid}/select/{id}    select a node
//	POST   /sessions/{sid}/edit           enter editing
//	PUT    /sessions/{sid}/buffer         replace the edit buffer
//	POST   /sessions/{sid}/cancel         leave editing, discarding the buffer
//	POST   /sessions/{sid}/save           commit the buffer
//
// Errors are returned as {"code": ..., "message": ...} with a status derived
// from the error code.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jsonlens/pkg/editor"
	"github.com/matzehuels/jsonlens/pkg/store"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Server is the HTTP API.
type Server struct {
	docs   store.Document
	logger *log.Logger
	ttl    time.Duration
	opts   []editor.Option
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session

	// docMu serializes read-modify-write cycles on docs across sessions.
	docMu sync.Mutex

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSessionTTL sets the idle timeout of edit sessions.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithEditorOptions passes options to every session's editor.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(s *Server) { s.opts = append(s.opts, opts...) }
}

// New returns a server backed by docs.
func New(docs store.Document, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		docs:     docs,
		logger:   logger,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Get("/document", s.handleGetDocument)
	r.Put("/document", s.handlePutDocument)

	r.Get("/nodes", s.handleListNodes)
	r.Get("/nodes/{id}", s.handleGetNode)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGetSession))
			r.Delete("/", s.handleDeleteSession)
			r.Post("/select/{id}", s.withSession(s.handleSelect))
			r.Post("/edit", s.withSession(s.handleEdit))
			r.Put("/buffer", s.withSession(s.handleSetBuffer))
			r.Post("/cancel", s.withSession(s.handleCancel))
			r.Post("/save", s.withSession(s.handleSave))
		})
	})

	return r
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
