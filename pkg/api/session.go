package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/jsonlens/pkg/editor"
	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/node"
	"github.com/matzehuels/jsonlens/pkg/notify"
	"github.com/matzehuels/jsonlens/pkg/selection"
)

// session is one client's edit context.
type session struct {
	mu        sync.Mutex
	id        string
	selection *selection.Store
	editor    *editor.Editor
	messages  *notify.Recorder
	expiresAt time.Time
}

type sessionView struct {
	ID       string           `json:"id"`
	State    editor.State     `json:"state"`
	Selected *nodeView        `json:"selected,omitempty"`
	Buffer   string           `json:"buffer"`
	Messages []notify.Message `json:"messages"`
}

func (s *session) view() sessionView {
	v := sessionView{
		ID:       s.id,
		State:    s.editor.State(),
		Buffer:   s.editor.Buffer(),
		Messages: s.messages.Messages(),
	}
	if n, ok := s.selection.Selected(); ok {
		v.Selected = &nodeView{Node: n, Text: node.Normalize(n.Rows)}
	}
	if v.Messages == nil {
		v.Messages = []notify.Message{}
	}
	return v
}

func (s *Server) newSession(g *graph.Graph) *session {
	sel := selection.New()
	sel.Load(g)
	rec := &notify.Recorder{}

	sess := &session{
		id:        uuid.NewString(),
		selection: sel,
		editor:    editor.New(s.docs, sel, notify.Multi(rec, notify.LogNotifier{Logger: s.logger}), s.opts...),
		messages:  rec,
		expiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.sessions[sess.id] = sess
	return sess
}

// purgeLocked drops expired sessions. s.mu must be held.
func (s *Server) purgeLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *Server) lookupSession(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.expiresAt = s.now().Add(s.ttl)
	return sess, true
}

func (s *Server) deleteSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	return len(s.sessions)
}

type sessionHandler func(http.ResponseWriter, *http.Request, *session)

// withSession resolves {sid} and holds the session lock for the duration of
// the handler.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")
		if err := uuid.Validate(sid); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "malformed session id"))
			return
		}
		sess, ok := s.lookupSession(sid)
		if !ok {
			s.writeError(w, errors.New(errors.ErrCodeNotFound, "session not found"))
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		h(w, r, sess)
	}
}
