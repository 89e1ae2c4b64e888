package api

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsonlens/pkg/buildinfo"
	"github.com/matzehuels/jsonlens/pkg/editor"
	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
	"github.com/matzehuels/jsonlens/pkg/node"
	"github.com/matzehuels/jsonlens/pkg/store"
)

type nodeView struct {
	graph.Node
	Text string `json:"text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Get().Version})
}

func etag(text string) string {
	return `"` + store.Hash(text) + `"`
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	text, err := s.docs.Text(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	tag := etag(text)
	w.Header().Set("ETag", tag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, text)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if _, err := jsonvalue.Parse(body); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "document is not valid JSON"))
		return
	}

	s.docMu.Lock()
	defer s.docMu.Unlock()

	if match := r.Header.Get("If-Match"); match != "" {
		current, err := s.docs.Text(r.Context())
		if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
			s.writeError(w, err)
			return
		}
		if err != nil || etag(current) != match {
			s.writeJSON(w, http.StatusPreconditionFailed, errorBody{
				Code:    errors.ErrCodeInvalidState,
				Message: "document changed since it was read",
			})
			return
		}
	}

	text := string(body)
	if err := s.docs.SetContents(r.Context(), text); err != nil {
		s.writeError(w, err)
		return
	}
	tag := etag(text)
	w.Header().Set("ETag", tag)
	s.writeJSON(w, http.StatusOK, map[string]string{"etag": tag})
}

// loadGraph reads and parses the current document.
func (s *Server) loadGraph(ctx context.Context) (*graph.Graph, error) {
	text, err := s.docs.Text(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := jsonvalue.ParseString(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "stored document is not valid JSON")
	}
	return graph.Build(doc), nil
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	g, err := s.loadGraph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateNodeID(id); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.loadGraph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, ok := g.Node(id)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "node %q not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, nodeView{Node: n, Text: node.Normalize(n.Rows)})
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	g, err := s.loadGraph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess := s.newSession(g)
	w.Header().Set("Location", "/sessions/"+sess.id)
	s.writeJSON(w, http.StatusCreated, sess.view())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.deleteSession(chi.URLParam(r, "sid")) {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, sess *session) {
	s.writeJSON(w, http.StatusOK, sess.view())
}

// handleSelect reloads the session graph from the store before selecting, so
// selections always refer to the current document.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, sess *session) {
	if sess.editor.State() != editor.Viewing {
		s.writeError(w, errors.New(errors.ErrCodeInvalidState, "cannot change selection while editing"))
		return
	}
	g, err := s.loadGraph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	sess.selection.Load(g)
	if _, err := sess.selection.Select(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.view())
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.editor.Edit(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.view())
}

func (s *Server) handleSetBuffer(w http.ResponseWriter, r *http.Request, sess *session) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if err := sess.editor.SetBuffer(string(body)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.view())
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request, sess *session) {
	if err := sess.editor.Cancel(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.view())
}

type saveResponse struct {
	sessionView
	Result struct {
		Path string   `json:"path"`
		ETag string   `json:"etag"`
		Diff []string `json:"diff"`
	} `json:"result"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request, sess *session) {
	s.docMu.Lock()
	res, err := sess.editor.Save(r.Context())
	s.docMu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := saveResponse{sessionView: sess.view()}
	out.Result.Path = res.Path.String()
	out.Result.ETag = etag(res.After)
	out.Result.Diff = make([]string, len(res.Diff))
	for i, l := range res.Diff {
		out.Result.Diff[i] = l.String()
	}
	s.logger.Info("saved node", "session", sess.id, "path", out.Result.Path)
	s.writeJSON(w, http.StatusOK, out)
}
