package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/node"
)

// nodesCommand creates the nodes command for listing graph nodes.
func (c *CLI) nodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the nodes of the document graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			g, _, err := loadGraph(ctx, docs)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, nodeTable(g.Nodes))
			printStats(c.out, g.Len(), len(g.Edges))
			return nil
		},
	}
}

// nodeTable renders nodes as a bordered table.
func nodeTable(nodes []graph.Node) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{n.ID, n.Label, n.Kind, n.Path.String(), strconv.Itoa(len(n.Rows))}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Label", "Kind", "Path", "Rows").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch col {
			case 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 3:
				return StylePath
			default:
				return lipgloss.NewStyle()
			}
		}).
		Render()
}

// nodeCommand creates the node command for printing one node's edit text.
func (c *CLI) nodeCommand() *cobra.Command {
	var byPath bool

	cmd := &cobra.Command{
		Use:   "node <id>",
		Short: "Print the edit text of a node",
		Long: `Print the JSON text a node is edited as: its scalar properties as an
object, or its value when the node is a bare scalar.

With --path, the argument is a path string such as '$["config"]' instead of a
node id.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeNodeRefs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer docs.Close()

			g, _, err := loadGraph(ctx, docs)
			if err != nil {
				return err
			}
			n, err := findNode(g, args[0], byPath)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("node", "id", n.ID, "path", n.Path, "rows", len(n.Rows))
			fmt.Fprintln(c.out, node.Normalize(n.Rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byPath, "path", false, "treat the argument as a path string")
	return cmd
}

func findNode(g *graph.Graph, arg string, byPath bool) (graph.Node, error) {
	if !byPath {
		if err := errors.ValidateNodeID(arg); err != nil {
			return graph.Node{}, err
		}
		n, ok := g.Node(arg)
		if !ok {
			return graph.Node{}, errors.New(errors.ErrCodeNotFound, "node %q not found", arg)
		}
		return n, nil
	}
	p, err := jsonpath.Deserialize(arg)
	if err != nil {
		return graph.Node{}, err
	}
	n, ok := g.NodeAt(p)
	if !ok {
		return graph.Node{}, errors.New(errors.ErrCodeNotFound, "no node at %s", p)
	}
	return n, nil
}
