package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for jsonlens.

To load completions:

Bash:
  $ source <(jsonlens completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ jsonlens completion zsh > "${fpath[1]}/_jsonlens"

Fish:
  $ jsonlens completion fish | source

PowerShell:
  PS> jsonlens completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion output must not depend on a readable config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeNodeRefs completes node ids from the stored document, each
// described by its path. When the command has a --path flag that is set,
// path strings are completed instead. Completion runs without the root
// pre-run hook, so it loads the config itself.
func (c *CLI) completeNodeRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.setup(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	byPath, _ := cmd.Flags().GetBool("path")

	ctx := cmd.Context()
	docs, err := c.openStore(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer docs.Close()

	g, _, err := loadGraph(ctx, docs)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var out []string
	for _, n := range g.Nodes {
		ref, desc := n.ID, n.Path.String()
		if byPath {
			ref, desc = n.Path.String(), n.Label
		}
		if strings.HasPrefix(ref, toComplete) {
			out = append(out, ref+"\t"+desc)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
