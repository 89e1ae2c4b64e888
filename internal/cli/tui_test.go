package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/jsonlens/pkg/editor"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
	"github.com/matzehuels/jsonlens/pkg/notify"
	"github.com/matzehuels/jsonlens/pkg/selection"
	"github.com/matzehuels/jsonlens/pkg/store"
)

func newTestModel(t *testing.T, doc string) (EditModel, *store.Memory, *notify.Recorder) {
	t.Helper()
	docs := store.NewMemoryWith(jsonvalue.Pretty(jsonvalue.MustParse(doc)))
	sel := selection.New()
	sel.Load(graph.Build(jsonvalue.MustParse(doc)))
	rec := &notify.Recorder{}
	ed := editor.New(docs, sel, rec, editor.WithNodeRefresh())
	return NewEditModel(context.Background(), ed, sel, rec), docs, rec
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(m EditModel, msgs ...tea.Msg) EditModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(EditModel)
	}
	return m
}

// clearBuffer deletes the buffer one rune at a time.
func clearBuffer(m EditModel) EditModel {
	for len(m.buffer) > 0 {
		m = send(m, key(tea.KeyBackspace))
	}
	return m
}

func TestEditModelSelectsFirstNode(t *testing.T) {
	m, _, _ := newTestModel(t, sampleDoc)

	if m.Cursor != 0 || len(m.Nodes) != 5 {
		t.Fatalf("cursor = %d, nodes = %d", m.Cursor, len(m.Nodes))
	}
	n, ok := m.sel.Selected()
	if !ok || n.ID != "1" {
		t.Errorf("selected = %+v, %v", n, ok)
	}
}

func TestEditModelNavigation(t *testing.T) {
	m, _, _ := newTestModel(t, sampleDoc)

	m = send(m, key(tea.KeyDown), runes("j"))
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	if n, _ := m.sel.Selected(); n.ID != "3" {
		t.Errorf("selected = %s, want 3", n.ID)
	}

	m = send(m, runes("k"), key(tea.KeyUp), key(tea.KeyUp))
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped)", m.Cursor)
	}
}

func TestEditModelSave(t *testing.T) {
	m, docs, rec := newTestModel(t, sampleDoc)

	m = send(m, key(tea.KeyDown), runes("e"))
	if m.editor.State() != editor.Editing {
		t.Fatal("e should start editing")
	}
	if string(m.buffer) != m.editor.Buffer() {
		t.Errorf("buffer = %q, editor buffer = %q", string(m.buffer), m.editor.Buffer())
	}

	m = clearBuffer(m)
	m = send(m, runes(`{"port":`), key(tea.KeySpace), runes("9000}"), key(tea.KeyCtrlS))

	if m.editor.State() != editor.Viewing {
		t.Fatalf("state after save = %s", m.editor.State())
	}
	if m.Saves() != 1 {
		t.Errorf("Saves() = %d", m.Saves())
	}
	text, _ := docs.Text(context.Background())
	if !strings.Contains(text, `"port": 9000`) || strings.Contains(text, `"debug"`) {
		t.Errorf("stored document = %s", text)
	}
	if last, _ := rec.Last(); last.Level != notify.LevelSuccess {
		t.Errorf("last message = %+v", last)
	}
	if n, _ := m.sel.Selected(); n.Path.String() != `$["config"]` {
		t.Errorf("selection after refresh = %s", n.Path)
	}
	if !strings.Contains(m.View(), "Saved") {
		t.Errorf("view should show the save status:\n%s", m.View())
	}
}

func TestEditModelMalformedKeepsEditing(t *testing.T) {
	m, docs, rec := newTestModel(t, sampleDoc)
	before, _ := docs.Text(context.Background())

	m = send(m, key(tea.KeyEnter))
	m = clearBuffer(m)
	m = send(m, runes("{"), key(tea.KeyCtrlS))

	if m.editor.State() != editor.Editing {
		t.Fatal("malformed save should stay in editing")
	}
	if string(m.buffer) != "{" {
		t.Errorf("buffer lost: %q", string(m.buffer))
	}
	if after, _ := docs.Text(context.Background()); after != before {
		t.Error("malformed save wrote the document")
	}
	if rec.Count(notify.LevelFailure) != 1 {
		t.Errorf("failures = %d", rec.Count(notify.LevelFailure))
	}

	m = send(m, key(tea.KeyEsc))
	if m.editor.State() != editor.Viewing || m.buffer != nil {
		t.Errorf("esc should cancel: state=%s buffer=%q", m.editor.State(), string(m.buffer))
	}
}

func TestEditModelEditingKeys(t *testing.T) {
	m, _, _ := newTestModel(t, sampleDoc)

	m = send(m, runes("e"))
	m = clearBuffer(m)
	m = send(m, runes("{"), key(tea.KeyEnter), key(tea.KeyTab), runes("q"))

	// "q" is text while editing, not quit.
	if got := string(m.buffer); got != "{\n  q" {
		t.Errorf("buffer = %q", got)
	}
}

func TestEditModelQuit(t *testing.T) {
	m, _, _ := newTestModel(t, sampleDoc)

	for _, msg := range []tea.KeyMsg{runes("q"), key(tea.KeyCtrlC)} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s should quit", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s returned %T, want tea.QuitMsg", msg, cmd())
		}
	}
}

func TestEditModelScroll(t *testing.T) {
	m, _, _ := newTestModel(t, `{"a": {}, "b": {}, "c": {}, "d": {}, "e": {}, "f": {}, "g": {}}`)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 10})
	if m.Height != 5 {
		t.Fatalf("Height = %d", m.Height)
	}

	for range 6 {
		m = send(m, key(tea.KeyDown))
	}
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	if view := m.viewList(); strings.Contains(view, " a") || !strings.Contains(view, "[7/8]") {
		t.Errorf("list view:\n%s", view)
	}
}

func TestEditModelView(t *testing.T) {
	m, _, _ := newTestModel(t, sampleDoc)

	view := m.View()
	for _, want := range []string{"Edit Nodes", "e edit", `"name": "app"`, "[1/5]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = send(m, runes("e"))
	if !strings.Contains(m.View(), "ctrl+s save") {
		t.Errorf("editing view should show save help:\n%s", m.View())
	}
}
