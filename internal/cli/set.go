package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/editor"
	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
	"github.com/matzehuels/jsonlens/pkg/notify"
	"github.com/matzehuels/jsonlens/pkg/patch"
	"github.com/matzehuels/jsonlens/pkg/selection"
	"github.com/matzehuels/jsonlens/pkg/store"
)

// setOptions holds flags for the set command.
type setOptions struct {
	lenient bool
	dryRun  bool
}

// setCommand creates the set command for replacing the value at a path.
func (c *CLI) setCommand() *cobra.Command {
	opts := setOptions{}

	cmd := &cobra.Command{
		Use:   "set <path> <json>",
		Short: "Replace the value at a path",
		Long: `Replace the value at a path with new JSON text and write the document back.

When a graph node lives at the path, the change goes through the node editor
exactly like an interactive save, so saving the root node keeps nested nodes
that the new value does not mention. Other paths are patched directly, and
missing containers along the way are created as objects.`,
		Example: `  # Change one property
  jsonlens set '$["config"]["port"]' 8080

  # Replace an object node
  jsonlens set '$["config"]' '{"port": 8080, "debug": true}'

  # Preview the change without writing
  jsonlens set --dry-run '$["name"]' '"demo"'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSet(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "accept loose path text such as $[config][0]")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the diff without writing")
	return cmd
}

func (c *CLI) runSet(ctx context.Context, pathText, valueText string, opts setOptions) error {
	prog := newProgress(loggerFromContext(ctx))

	var p jsonpath.Path
	if opts.lenient {
		p = jsonpath.DeserializeLenient(pathText)
	} else {
		var err error
		if p, err = jsonpath.Deserialize(pathText); err != nil {
			return err
		}
	}

	v, err := jsonvalue.ParseString(valueText)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedEditText, err, "value is not valid JSON")
	}

	docs, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer docs.Close()

	text, doc, err := readDocument(ctx, docs)
	if err != nil {
		return err
	}

	target := docs
	if opts.dryRun {
		target = store.NewMemoryWith(text)
	}

	g := graph.Build(doc)
	var diff []editor.DiffLine
	via := "patch"
	if _, ok := g.NodeAt(p); ok {
		via = "editor"
		diff, err = setNode(ctx, target, g, p, valueText)
	} else {
		diff, err = setValue(ctx, target, text, doc, p, v)
	}
	if err != nil {
		return err
	}
	added, removed := diffStat(diff)
	prog.done("set value", "path", p, "via", via, "added", added, "removed", removed, "dry_run", opts.dryRun)

	printDiff(c.out, diff)
	if opts.dryRun {
		printInfo(c.out, "Dry run: %s not written", StylePath.Render(p.String()))
		return nil
	}
	printSuccess(c.out, "Saved %s", StylePath.Render(p.String()))
	return nil
}

// setNode commits valueText as the edit buffer of the node at p.
func setNode(ctx context.Context, docs store.Document, g *graph.Graph, p jsonpath.Path, valueText string) ([]editor.DiffLine, error) {
	sel := selection.New()
	sel.Load(g)
	if _, err := sel.SelectPath(p); err != nil {
		return nil, err
	}

	ed := editor.New(docs, sel, notify.Discard)
	if err := ed.Edit(ctx); err != nil {
		return nil, err
	}
	if err := ed.SetBuffer(valueText); err != nil {
		return nil, err
	}
	res, err := ed.Save(ctx)
	if err != nil {
		return nil, err
	}
	return res.Diff, nil
}

// setValue patches v into doc at p and writes the result.
func setValue(ctx context.Context, docs store.Document, before string, doc jsonvalue.Value, p jsonpath.Path, v jsonvalue.Value) ([]editor.DiffLine, error) {
	updated := patch.Apply(doc, p, v)
	after := jsonvalue.Pretty(updated)
	if err := docs.SetContents(ctx, after); err != nil {
		return nil, err
	}
	return editor.LineDiff(before, after), nil
}

// diffStat counts inserted and deleted lines.
func diffStat(lines []editor.DiffLine) (added, removed int) {
	for _, l := range lines {
		switch l.Op {
		case editor.OpInsert:
			added++
		case editor.OpDelete:
			removed++
		}
	}
	return added, removed
}
