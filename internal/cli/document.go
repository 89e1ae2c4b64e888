package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
)

// loadCommand creates the load command for importing a JSON file.
func (c *CLI) loadCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Import a JSON file into the document store",
		Long: `Import a JSON file into the configured document store, replacing its
current contents. Use "-" to read from standard input.

The document is reformatted with two-space indentation unless --raw is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			v, err := jsonvalue.Parse(data)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s is not valid JSON", args[0])
			}

			text := string(data)
			if !raw {
				text = jsonvalue.Pretty(v)
			}

			docs, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			if err := docs.SetContents(ctx, text); err != nil {
				return err
			}
			prog.done("loaded document", "bytes", len(text))

			g := graph.Build(v)
			printSuccess(c.out, "Loaded %s into %s store", args[0], c.cfg.Store.Backend)
			printStats(c.out, g.Len(), len(g.Edges))
			printNextStep(c.out, "List nodes", appName+" nodes")
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "store the file text as is")
	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return data, nil
}

// showCommand creates the show command for printing the document.
func (c *CLI) showCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			text, v, err := readDocument(ctx, docs)
			if err != nil {
				return err
			}
			if !raw {
				text = jsonvalue.Pretty(v)
			}
			fmt.Fprintln(c.out, text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored text without reformatting")
	return cmd
}
