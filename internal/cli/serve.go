package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/api"
	"github.com/matzehuels/jsonlens/pkg/editor"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		ttl     time.Duration
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document and edit sessions over HTTP",
		Long: `Serve the configured document over HTTP. Clients read the document and its
nodes, and edit nodes through sessions that each hold their own selection.

The listen address defaults to server.addr from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			docs, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			var editorOpts []editor.Option
			if refresh {
				editorOpts = append(editorOpts, editor.WithNodeRefresh())
			}

			srv := api.New(docs, logger, api.WithSessionTTL(ttl), api.WithEditorOptions(editorOpts...))

			cfg := api.ServerConfig{
				Addr:         c.cfg.Server.Addr,
				ReadTimeout:  c.cfg.Server.ReadTimeout.Duration,
				WriteTimeout: c.cfg.Server.WriteTimeout.Duration,
			}
			if addr != "" {
				cfg.Addr = addr
			}
			logger.Debug("serving", "backend", c.cfg.Store.Backend, "document", c.cfg.Store.Document, "ttl", ttl)
			return srv.ListenAndServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&ttl, "session-ttl", api.DefaultSessionTTL, "idle timeout of edit sessions")
	cmd.Flags().BoolVar(&refresh, "refresh-nodes", false, "rebuild the node graph after every save")
	return cmd
}
