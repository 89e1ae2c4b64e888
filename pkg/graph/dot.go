package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsonlens/pkg/errors"
)

// Output formats accepted by Render.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// maxRowText bounds the rendered width of a single row value.
const maxRowText = 40

// DOTOptions configures DOT output.
type DOTOptions struct {
	// Highlight is the ID of a node drawn with a thick outline, usually the
	// current selection.
	Highlight string

	// ShowPaths appends each node's structural path to its label.
	ShowPaths bool
}

// ToDOT converts g to Graphviz DOT text. Object nodes list their rows; array
// nodes show their label and item count.
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10, color=gray40];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.ShowPaths))}
		if n.Kind == "array" {
			attrs = append(attrs, "fillcolor=\"#eef3fb\"")
		}
		if n.ID == opts.Highlight {
			attrs = append(attrs, "penwidth=3", "color=\"#2a9d8f\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n Node, showPath bool) string {
	var lines []string
	if n.IsScalar() {
		lines = append(lines, truncate(n.Rows[0].Value.String()))
	} else {
		lines = append(lines, n.Label)
		for _, r := range n.Rows {
			lines = append(lines, truncate(r.KeyName()+": "+r.Value.String()))
		}
	}
	if showPath {
		lines = append(lines, n.Path.String())
	}
	return strings.Join(lines, "\n")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxRowText {
		return s
	}
	return string(r[:maxRowText-1]) + "…"
}

// Render renders g in the given format. FormatDOT returns the DOT text
// itself and FormatJSON the indented node-link JSON; FormatSVG and FormatPNG
// run Graphviz. opts does not apply to JSON.
func Render(ctx context.Context, g *Graph, format string, opts DOTOptions) ([]byte, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
		}
		return append(data, '\n'), nil
	}

	dot := ToDOT(g, opts)

	var gvFormat graphviz.Format
	switch format {
	case FormatDOT, "":
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q (want dot, json, svg or png)", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
