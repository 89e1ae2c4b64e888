package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jsonlens/pkg/editor"
	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/notify"
	"github.com/matzehuels/jsonlens/pkg/selection"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	editPanelStyle = panelStyle.BorderForeground(colorYellow)
)

const (
	cursorGlyph   = "▌"
	tabText       = "  "
	defaultHeight = 15
	listWidth     = 36
)

// =============================================================================
// EditModel - Interactive node editor
// =============================================================================

// EditModel is the bubbletea model for browsing and editing nodes. Keys in
// the list: up/k and down/j move the selection, e or enter starts editing,
// q quits. While editing, ctrl+s saves and esc cancels; everything else is
// typed into the buffer.
type EditModel struct {
	ctx      context.Context
	editor   *editor.Editor
	sel      *selection.Store
	messages *notify.Recorder

	Nodes  []graph.Node
	Cursor int
	Offset int
	Height int

	buffer []rune
	diff   []editor.DiffLine
	saves  int
}

// NewEditModel creates an edit model over sel. messages must be the
// recorder the editor notifies, so results show in the status line.
func NewEditModel(ctx context.Context, ed *editor.Editor, sel *selection.Store, messages *notify.Recorder) EditModel {
	m := EditModel{
		ctx:      ctx,
		editor:   ed,
		sel:      sel,
		messages: messages,
		Nodes:    sel.Nodes(),
		Height:   defaultHeight,
	}
	if cur, ok := sel.Selected(); ok {
		for i, n := range m.Nodes {
			if n.ID == cur.ID {
				m.Cursor = i
			}
		}
	} else if len(m.Nodes) > 0 {
		m.selectCursor()
	}
	return m
}

// Saves returns the number of successful saves.
func (m EditModel) Saves() int { return m.saves }

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editor.State() == editor.Editing {
			return m.updateEditing(msg)
		}
		return m.updateViewing(msg)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m EditModel) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.selectCursor()
		}
	case "down", "j":
		if m.Cursor < len(m.Nodes)-1 {
			m.Cursor++
			m.selectCursor()
		}
	case "e", "enter":
		if err := m.editor.Edit(m.ctx); err != nil {
			m.messages.Failure(errors.UserMessage(err))
			return m, nil
		}
		m.buffer = []rune(m.editor.Buffer())
		m.diff = nil
	}
	return m, nil
}

func (m EditModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlS:
		m.save()
	case tea.KeyEsc:
		if err := m.editor.Cancel(m.ctx); err == nil {
			m.buffer = nil
		}
	case tea.KeyBackspace:
		if len(m.buffer) > 0 {
			m.buffer = m.buffer[:len(m.buffer)-1]
		}
	case tea.KeyEnter:
		m.buffer = append(m.buffer, '\n')
	case tea.KeyTab:
		m.buffer = append(m.buffer, []rune(tabText)...)
	case tea.KeySpace:
		m.buffer = append(m.buffer, ' ')
	case tea.KeyRunes:
		m.buffer = append(m.buffer, msg.Runes...)
	}
	return m, nil
}

// save commits the buffer. Failures leave the model editing; the editor
// reports them through the recorder.
func (m *EditModel) save() {
	if err := m.editor.SetBuffer(string(m.buffer)); err != nil {
		m.messages.Failure(errors.UserMessage(err))
		return
	}
	res, err := m.editor.Save(m.ctx)
	if err != nil {
		return
	}
	m.saves++
	m.diff = res.Diff
	m.buffer = nil

	// The graph may have been rebuilt; keep the cursor on the saved node.
	m.Nodes = m.sel.Nodes()
	if cur, ok := m.sel.Selected(); ok {
		for i, n := range m.Nodes {
			if n.ID == cur.ID {
				m.Cursor = i
			}
		}
	}
	if m.Cursor >= len(m.Nodes) {
		m.Cursor = max(len(m.Nodes)-1, 0)
	}
	m.scroll()
}

func (m *EditModel) selectCursor() {
	if m.Cursor < 0 || m.Cursor >= len(m.Nodes) {
		return
	}
	if _, err := m.sel.Select(m.Nodes[m.Cursor].ID); err != nil {
		m.messages.Failure(errors.UserMessage(err))
	}
	m.scroll()
}

func (m *EditModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m EditModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edit Nodes"))
	b.WriteString("\n")
	if m.editor.State() == editor.Editing {
		b.WriteString(listDimStyle.Render("ctrl+s save  esc cancel"))
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  e edit  q quit"))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewList(), " ", m.viewPanel()))
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m EditModel) viewList() string {
	var b strings.Builder
	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-4s %s", cursor, n.ID, truncateText(n.Label, listWidth-8))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	return lipgloss.NewStyle().Width(listWidth).Render(b.String())
}

func (m EditModel) viewPanel() string {
	n, ok := m.sel.Selected()
	if !ok {
		return panelStyle.Render(listDimStyle.Render("no node selected"))
	}

	header := StylePath.Render(n.Path.String())
	if m.editor.State() == editor.Editing {
		body := string(m.buffer) + styleIconSpinner.Render(cursorGlyph)
		return editPanelStyle.Render(header + "\n\n" + body)
	}

	text, err := m.editor.View()
	if err != nil {
		text = StyleError.Render(errors.UserMessage(err))
	}
	body := header + "\n\n" + StyleValue.Render(text)
	if editor.Changed(m.diff) {
		body += "\n\n" + strings.TrimSuffix(renderDiff(m.diff), "\n")
	}
	return panelStyle.Render(body)
}

func (m EditModel) viewStatus() string {
	last, ok := m.messages.Last()
	if !ok {
		return ""
	}
	if last.Level == notify.LevelFailure {
		return styleIconError.Render(iconError) + " " + StyleError.Render(last.Text)
	}
	return styleIconSuccess.Render(iconSuccess) + " " + StyleSuccess.Render(last.Text)
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
