// Package selection tracks which graph node is selected and owns the graph
// the selection refers to.
//
// A Store is the session context of one editor: the CLI holds one for the
// terminal UI and the HTTP API holds one per session. It is safe for
// concurrent use.
package selection

import (
	"sync"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/node"
)

// Store holds a graph and the ID of the selected node.
type Store struct {
	mu       sync.RWMutex
	g        *graph.Graph
	selected string
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Load replaces the graph. The store takes ownership of g. If a node was
// selected and g has a node at the same path, that node becomes the
// selection; otherwise the selection is cleared.
func (s *Store) Load(g *graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g != nil {
		g.Reindex()
	}

	var keep string
	if g != nil && s.g != nil && s.selected != "" {
		if prev, ok := s.g.Node(s.selected); ok {
			if n, ok := g.NodeAt(prev.Path); ok {
				keep = n.ID
			}
		}
	}
	s.g, s.selected = g, keep
}

// Select makes id the selected node.
func (s *Store) Select(id string) (graph.Node, error) {
	if err := errors.ValidateNodeID(id); err != nil {
		return graph.Node{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil {
		return graph.Node{}, errors.New(errors.ErrCodeNotFound, "no document loaded")
	}
	n, ok := s.g.Node(id)
	if !ok {
		return graph.Node{}, errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	s.selected = id
	return n, nil
}

// SelectPath selects the node at p.
func (s *Store) SelectPath(p jsonpath.Path) (graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil {
		return graph.Node{}, errors.New(errors.ErrCodeNotFound, "no document loaded")
	}
	n, ok := s.g.NodeAt(p)
	if !ok {
		return graph.Node{}, errors.New(errors.ErrCodeNotFound, "no node at %s", p)
	}
	s.selected = n.ID
	return n, nil
}

// Selected returns a copy of the selected node.
func (s *Store) Selected() (graph.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.g == nil || s.selected == "" {
		return graph.Node{}, false
	}
	n, ok := s.g.Node(s.selected)
	if !ok {
		return graph.Node{}, false
	}
	n.Rows = append([]node.Row(nil), n.Rows...)
	return n, true
}

// ReplaceRows overwrites the row list of the selected node.
func (s *Store) ReplaceRows(rows []node.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.g == nil || s.selected == "" {
		return errors.New(errors.ErrCodeNoSelection, "no node selected")
	}
	if !s.g.SetRows(s.selected, append([]node.Row(nil), rows...)) {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", s.selected)
	}
	return nil
}

// Clear drops the selection. The graph is kept.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Nodes returns a snapshot of the graph's nodes in build order.
func (s *Store) Nodes() []graph.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.g == nil {
		return nil
	}
	return append([]graph.Node(nil), s.g.Nodes...)
}

// Graph returns the loaded graph, or nil. Callers must not modify it.
func (s *Store) Graph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g
}
