package graph

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
	"github.com/matzehuels/jsonlens/pkg/node"
)

// RootLabel is the display label of the document root node.
const RootLabel = "root"

// =============================================================================
// Types
// =============================================================================

// Graph is the node-link form of a JSON document.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	byID   map[string]int
	byPath map[string]int
}

// Node is one object, array or standalone scalar of the document.
type Node struct {
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Kind  string        `json:"kind"`
	Path  jsonpath.Path `json:"path"`
	Rows  []node.Row    `json:"rows"`
}

// Edge connects a container node to a nested node.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// IsScalar reports whether the node stands for a bare scalar value.
func (n Node) IsScalar() bool {
	return len(n.Rows) == 1 && !n.Rows[0].HasKey()
}

// =============================================================================
// Building
// =============================================================================

// Build returns the graph of doc.
func Build(doc jsonvalue.Value) *Graph {
	b := &builder{g: &Graph{Nodes: []Node{}, Edges: []Edge{}}}
	b.walk(doc, nil, RootLabel, "", "")
	b.g.Reindex()
	return b.g
}

type builder struct {
	g    *Graph
	next int
}

func (b *builder) walk(v jsonvalue.Value, p jsonpath.Path, label, parent, edgeLabel string) {
	b.next++
	id := strconv.Itoa(b.next)

	if v.Kind() == jsonvalue.KindArray {
		label = fmt.Sprintf("%s [%d]", label, v.Len())
	}
	b.g.Nodes = append(b.g.Nodes, Node{
		ID:    id,
		Label: label,
		Kind:  v.Kind().String(),
		Path:  p,
		Rows:  node.ScalarRows(v),
	})
	if parent != "" {
		b.g.Edges = append(b.g.Edges, Edge{From: parent, To: id, Label: edgeLabel})
	}

	switch v.Kind() {
	case jsonvalue.KindObject:
		for _, m := range v.Members() {
			if !m.Value.IsStructured() {
				continue
			}
			b.walk(m.Value, p.Append(jsonpath.Key(m.Key)), m.Key, id, m.Key)
		}
	case jsonvalue.KindArray:
		for i, it := range v.Items() {
			idx := fmt.Sprintf("[%d]", i)
			b.walk(it, p.Append(jsonpath.Index(i)), idx, id, idx)
		}
	}
}

// =============================================================================
// Lookup
// =============================================================================

// Reindex rebuilds the ID and path lookups. Build does this already; call it
// after modifying Nodes directly.
func (g *Graph) Reindex() {
	g.byID = make(map[string]int, len(g.Nodes))
	g.byPath = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.byID[n.ID] = i
		g.byPath[n.Path.String()] = i
	}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	if g.byID == nil {
		g.Reindex()
	}
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// NodeAt returns the node whose path is p.
func (g *Graph) NodeAt(p jsonpath.Path) (Node, bool) {
	if g.byPath == nil {
		g.Reindex()
	}
	i, ok := g.byPath[p.String()]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Children returns the IDs of the nodes directly below id, in document order.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// SetRows replaces the rows of node id. It reports false if no such node
// exists.
func (g *Graph) SetRows(id string, rows []node.Row) bool {
	if g.byID == nil {
		g.Reindex()
	}
	i, ok := g.byID[id]
	if !ok {
		return false
	}
	g.Nodes[i].Rows = rows
	return true
}
