package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/editor"
	"github.com/matzehuels/jsonlens/pkg/notify"
	"github.com/matzehuels/jsonlens/pkg/selection"
)

// editCommand creates the edit command for the interactive node editor.
func (c *CLI) editCommand() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Browse and edit nodes interactively",
		Long: `Open a terminal UI listing the nodes of the stored document. Select a node,
press e to edit its JSON text and ctrl+s to save it back to the store.

Malformed text is reported and the edit stays open, so nothing is lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			docs, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			g, _, err := loadGraph(ctx, docs)
			if err != nil {
				return err
			}

			sel := selection.New()
			sel.Load(g)
			if start != "" {
				id, err := resolveNodeRef(g, start)
				if err != nil {
					return err
				}
				if _, err := sel.Select(id); err != nil {
					return err
				}
			}

			rec := &notify.Recorder{}
			ed := editor.New(docs, sel, rec, editor.WithNodeRefresh())

			final, err := tea.NewProgram(NewEditModel(ctx, ed, sel, rec), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}

			fm, ok := final.(EditModel)
			prog.done("edit session closed", "nodes", g.Len(), "saves", fm.Saves(), "failures", rec.Count(notify.LevelFailure))
			if !ok || fm.Saves() == 0 {
				printDetail(c.out, "No changes saved")
				return nil
			}
			printSuccess(c.out, "Saved %d edit(s)", fm.Saves())
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "node", "", "node id or path string to select first")
	_ = cmd.RegisterFlagCompletionFunc("node", c.completeNodeRefs)
	return cmd
}
