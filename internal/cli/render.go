package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/cache"
	"github.com/matzehuels/jsonlens/pkg/config"
	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/store"
)

// renderCacheTTL bounds how long rendered artifacts are kept.
const renderCacheTTL = 7 * 24 * time.Hour

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output    string // output file; stdout when empty
	format    string // dot, svg or png
	highlight string // node id or path string to outline
	showPaths bool   // append structural paths to node labels
	noCache   bool   // always run Graphviz
}

// graphCommand creates the graph command for exporting the node graph.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the node graph as DOT, JSON, SVG or PNG",
		Long: `Export the node graph of the stored document. DOT and JSON are written as
text; SVG and PNG are rendered with Graphviz and cached by document content. The format defaults to the extension of
--output, or dot when writing to stdout.`,
		Example: `  jsonlens graph > doc.dot
  jsonlens graph -o doc.svg --highlight '$["config"]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			format := resolveFormat(opts.format, opts.output)
			if format == graph.FormatPNG && opts.output == "" {
				return errors.New(errors.ErrCodeInvalidInput, "png output needs --output")
			}

			docs, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			text, v, err := readDocument(ctx, docs)
			if err != nil {
				return err
			}
			g := graph.Build(v)

			highlight, err := resolveNodeRef(g, opts.highlight)
			if err != nil {
				return err
			}

			rc := c.renderCache(ctx, opts.noCache || format == graph.FormatDOT || format == graph.FormatJSON)
			defer rc.Close()

			key := cache.RenderKey(store.Hash(text), cache.RenderOpts{
				Format:    format,
				Highlight: highlight,
				ShowPaths: opts.showPaths,
			})
			data, hit, err := rc.Get(ctx, key)
			if err != nil {
				loggerFromContext(ctx).Warn("render cache", "err", err)
			}
			if !hit {
				data, err = graph.Render(ctx, g, format, graph.DOTOptions{
					Highlight: highlight,
					ShowPaths: opts.showPaths,
				})
				if err != nil {
					return err
				}
				if err := rc.Set(ctx, key, data, renderCacheTTL); err != nil {
					loggerFromContext(ctx).Warn("render cache", "err", err)
				}
			}
			prog.done("rendered graph", "format", format, "bytes", len(data), "cached", hit)

			if opts.output == "" {
				_, err := c.out.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess(c.out, "Rendered %d nodes", g.Len())
			printFile(c.out, opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, json, svg, png")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "node id or path string to highlight")
	_ = cmd.RegisterFlagCompletionFunc("highlight", c.completeNodeRefs)
	cmd.Flags().BoolVar(&opts.showPaths, "paths", false, "show node paths in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	return cmd
}

// renderCache opens the artifact cache, falling back to a null cache when
// disabled or when the cache directory is unusable.
func (c *CLI) renderCache(ctx context.Context, disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := config.CacheDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			return fc
		}
	}
	loggerFromContext(ctx).Warn("render cache disabled", "err", err)
	return cache.NewNullCache()
}

// resolveFormat picks the explicit format, else the output file extension,
// else dot.
func resolveFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return graph.FormatDOT
}

// resolveNodeRef maps a node id or path string to a node id. Strings
// starting with "$" are paths.
func resolveNodeRef(g *graph.Graph, s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if !strings.HasPrefix(s, jsonpath.Root) {
		n, err := findNode(g, s, false)
		return n.ID, err
	}
	n, err := findNode(g, s, true)
	return n.ID, err
}
