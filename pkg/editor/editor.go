// Package editor implements the edit workflow of a single selected node.
//
// An [Editor] moves between two states:
//
//	Viewing --Edit--> Editing --Save (valid JSON)--> Viewing
//	                  Editing --Cancel-----------> Viewing
//
// Entering Editing seeds the buffer with the node's normalized text. Save
// parses the buffer, patches the value into the full document at the node's
// path, writes the document back and replaces the node's rows. A buffer that
// is not valid JSON fails with MALFORMED_EDIT_TEXT and leaves the editor in
// Editing with the buffer intact so the user can fix it.
//
// Saving a non-root node replaces that node's whole subtree: keys missing
// from the buffer are removed. Saving the root node with an object buffer
// writes the buffer member by member instead, so keys missing from the buffer
// are kept. Root-level keys cannot be deleted through the editor; replace
// the document through the store for that. A non-object buffer, or a
// document that is not an object, replaces the document at the root.
//
// The editor owns no global state: the document store, the selection store
// and the notifier are passed to [New].
package editor

import (
	"context"
	"time"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
	"github.com/matzehuels/jsonlens/pkg/node"
	"github.com/matzehuels/jsonlens/pkg/notify"
	"github.com/matzehuels/jsonlens/pkg/observability"
	"github.com/matzehuels/jsonlens/pkg/patch"
	"github.com/matzehuels/jsonlens/pkg/selection"
	"github.com/matzehuels/jsonlens/pkg/store"
)

// State is the editor mode.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RowBuilder turns a saved value into the selected node's new rows.
type RowBuilder func(jsonvalue.Value) []node.Row

// Option configures an Editor.
type Option func(*Editor)

// WithRowBuilder replaces node.RowsFromValue as the post-save row builder.
// Passing node.ScalarRows keeps saved rows consistent with what Normalize
// shows.
func WithRowBuilder(fn RowBuilder) Option {
	return func(e *Editor) {
		if fn != nil {
			e.rows = fn
		}
	}
}

// WithNodeRefresh rebuilds the graph from the saved document after every
// successful save, instead of only replacing the selected node's rows. The
// selection follows the node's path; if the path no longer names a node the
// selection is cleared.
func WithNodeRefresh() Option {
	return func(e *Editor) { e.refresh = true }
}

// SaveResult describes a committed save.
type SaveResult struct {
	NodeID string          `json:"node_id"`
	Path   jsonpath.Path   `json:"path"`
	Value  jsonvalue.Value `json:"value"`
	Before string          `json:"-"`
	After  string          `json:"-"`
	Diff   []DiffLine      `json:"diff"`
}

// Editor is the edit surface of one selection. It is not safe for concurrent
// use; callers serialize access per session.
type Editor struct {
	docs    store.Document
	sel     *selection.Store
	notify  notify.Notifier
	rows    RowBuilder
	refresh bool

	state  State
	buffer string
}

// New returns an editor in the Viewing state. A nil notifier discards
// messages.
func New(docs store.Document, sel *selection.Store, n notify.Notifier, opts ...Option) *Editor {
	if n == nil {
		n = notify.Discard
	}
	e := &Editor{
		docs:   docs,
		sel:    sel,
		notify: n,
		rows:   node.RowsFromValue,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current mode.
func (e *Editor) State() State { return e.state }

// Buffer returns the edit buffer. In Viewing it holds the text of the last
// edit, save or cancel.
func (e *Editor) Buffer() string { return e.buffer }

// View returns the normalized text of the selected node.
func (e *Editor) View() (string, error) {
	n, err := e.selected()
	if err != nil {
		return "", err
	}
	return node.Normalize(n.Rows), nil
}

// Edit enters Editing with the buffer seeded from the selected node.
func (e *Editor) Edit(ctx context.Context) error {
	if e.state != Viewing {
		return errors.New(errors.ErrCodeInvalidState, "already editing")
	}
	n, err := e.selected()
	if err != nil {
		return err
	}
	e.buffer = node.Normalize(n.Rows)
	e.state = Editing
	observability.Edit().OnEdit(ctx, n.ID, n.Path.String())
	return nil
}

// SetBuffer replaces the edit buffer.
func (e *Editor) SetBuffer(text string) error {
	if e.state != Editing {
		return errors.New(errors.ErrCodeInvalidState, "not editing")
	}
	e.buffer = text
	return nil
}

// Cancel discards the buffer and returns to Viewing. The buffer is
// recomputed from the node's current rows.
func (e *Editor) Cancel(ctx context.Context) error {
	if e.state != Editing {
		return errors.New(errors.ErrCodeInvalidState, "not editing")
	}
	e.state = Viewing
	n, err := e.selected()
	if err != nil {
		e.buffer = ""
		return nil
	}
	e.buffer = node.Normalize(n.Rows)
	observability.Edit().OnCancel(ctx, n.ID, n.Path.String())
	return nil
}

// Save commits the buffer. See the package documentation for the sequence.
// On any error the editor stays in Editing and nothing is written to the
// selection store.
func (e *Editor) Save(ctx context.Context) (res *SaveResult, err error) {
	if e.state != Editing {
		return nil, errors.New(errors.ErrCodeInvalidState, "not editing")
	}
	n, err := e.selected()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		observability.Edit().OnSave(ctx, n.ID, n.Path.String(), time.Since(start), err)
		if err != nil {
			e.notify.Failure(errors.UserMessage(err))
		}
	}()

	v, perr := jsonvalue.ParseString(e.buffer)
	if perr != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedEditText, perr, "edit text is not valid JSON")
	}

	before, err := e.docs.Text(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read document")
	}
	doc, perr := jsonvalue.ParseString(before)
	if perr != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, perr, "stored document is not valid JSON")
	}

	updated := apply(doc, n.Path, v)
	after := jsonvalue.Pretty(updated)
	if err = e.docs.SetContents(ctx, after); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "write document")
	}

	if e.refresh {
		e.sel.Load(graph.Build(updated))
	} else if err = e.sel.ReplaceRows(e.rows(v)); err != nil {
		return nil, err
	}

	e.state = Viewing
	e.buffer = ""
	if cur, ok := e.sel.Selected(); ok {
		e.buffer = node.Normalize(cur.Rows)
	}
	e.notify.Success("Saved " + n.Path.String())

	return &SaveResult{
		NodeID: n.ID,
		Path:   n.Path,
		Value:  v,
		Before: before,
		After:  after,
		Diff:   LineDiff(before, after),
	}, nil
}

func (e *Editor) selected() (graph.Node, error) {
	n, ok := e.sel.Selected()
	if !ok {
		return graph.Node{}, errors.New(errors.ErrCodeNoSelection, "no node selected")
	}
	return n, nil
}

// apply patches v into doc at p. The root path is a no-op for patch.Apply,
// so the root node is handled here: a scalar root or a non-object value
// replaces the document, and an object value is written member by member
// so that nested nodes not shown in the buffer survive.
func apply(doc jsonvalue.Value, p jsonpath.Path, v jsonvalue.Value) jsonvalue.Value {
	if !p.IsRoot() {
		return patch.Apply(doc, p, v)
	}
	if doc.Kind() != jsonvalue.KindObject || v.Kind() != jsonvalue.KindObject {
		return v.Clone()
	}
	out := doc
	for _, m := range v.Members() {
		out = patch.Apply(out, jsonpath.Of(m.Key), m.Value)
	}
	return out
}
