// Package cli implements the jsonlens command-line interface.
//
// This package provides commands for loading a JSON document into a store,
// inspecting it as a graph of nodes, editing single nodes (from the command
// line, in a terminal UI or over HTTP) and exporting the graph. The CLI is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - load, show: import and print the document
//   - nodes, node: list graph nodes and show one node's edit text
//   - set: replace the value at a path
//   - edit: interactive node editor
//   - path: encode and decode path strings
//   - graph: export the node graph as DOT, SVG or PNG
//   - serve: run the HTTP API
//   - config: show the effective configuration
//   - cache: manage rendered graphs
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/buildinfo"
	"github.com/matzehuels/jsonlens/pkg/config"
	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
	"github.com/matzehuels/jsonlens/pkg/observability"
	"github.com/matzehuels/jsonlens/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "jsonlens"

// annotationConfigOptional marks commands that run without a readable
// config file.
const annotationConfigOptional = "jsonlens/config-optional"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out io.Writer
	cfg config.Config

	// flag values
	verbose    bool
	configPath string
	backend    string
	document   string
	storePath  string
}

// New creates a new CLI instance. Logs go to w; command output goes to
// stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "jsonlens inspects and edits JSON documents as node graphs",
		Long:              `jsonlens shows a JSON document as a graph of nodes and lets you edit one node at a time, writing the patched document back to a file, SQLite, Redis or MongoDB store.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jsonlens/config.toml)")
	flags.StringVar(&c.backend, "store", "", "store backend: "+strings.Join(store.Backends(), ", "))
	flags.StringVar(&c.document, "doc", "", "document id within the store")
	flags.StringVar(&c.storePath, "store-path", "", "file or database path for the file and sqlite backends")

	root.AddCommand(c.loadCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file, applies flag overrides and wires logging.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		if cmd.Annotations[annotationConfigOptional] == "" {
			return err
		}
		cfg = config.Default()
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.document != "" {
		cfg.Store.Document = c.document
	}
	if c.storePath != "" {
		cfg.Store.Path = c.storePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	level := LogInfo
	if c.verbose {
		level = LogDebug
	} else if l, err := log.ParseLevel(cfg.Log.Level); err == nil {
		level = l
	}
	c.SetLogLevel(level)

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetEditHooks(hooks)
	observability.SetStoreHooks(hooks)
	observability.SetHTTPHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Store Helpers
// =============================================================================

// openStore opens the configured document store. Network backends show a
// spinner while connecting.
func (c *CLI) openStore(ctx context.Context) (store.Document, error) {
	opts := c.cfg.StoreOptions()
	logger := loggerFromContext(ctx)
	logger.Debug("opening store", "backend", opts.Backend, "document", opts.DocumentID)

	switch strings.ToLower(opts.Backend) {
	case store.BackendRedis, store.BackendMongo:
		s := newSpinnerWithContext(ctx, os.Stderr, "Connecting to "+opts.Backend+"...")
		s.Start()
		doc, err := store.Open(ctx, opts)
		s.Stop()
		return doc, err
	default:
		return store.Open(ctx, opts)
	}
}

// readDocument returns the stored text and its parsed value.
func readDocument(ctx context.Context, docs store.Document) (string, jsonvalue.Value, error) {
	text, err := docs.Text(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return "", jsonvalue.Value{}, errors.Wrap(errors.ErrCodeNotFound, err, "no document loaded; run '%s load <file>' first", appName)
		}
		return "", jsonvalue.Value{}, err
	}
	v, err := jsonvalue.ParseString(text)
	if err != nil {
		return "", jsonvalue.Value{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "stored document is not valid JSON")
	}
	return text, v, nil
}

// loadGraph reads the document and builds its graph.
func loadGraph(ctx context.Context, docs store.Document) (*graph.Graph, jsonvalue.Value, error) {
	prog := newProgress(loggerFromContext(ctx))
	text, v, err := readDocument(ctx, docs)
	if err != nil {
		return nil, jsonvalue.Value{}, err
	}
	g := graph.Build(v)
	prog.done("built graph", "bytes", len(text), "nodes", g.Len(), "edges", len(g.Edges))
	return g, v, nil
}
