package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/jsonpath"
)

// pathCommand creates the path command with encode and decode subcommands.
func (c *CLI) pathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Encode and decode path strings",
		Long: `Convert between path segments and the path string form used by the node
and set commands, e.g. $["deps"][0]["name"].`,
	}

	cmd.AddCommand(c.pathEncodeCommand())
	cmd.AddCommand(c.pathDecodeCommand())
	return cmd
}

func (c *CLI) pathEncodeCommand() *cobra.Command {
	var keys bool

	cmd := &cobra.Command{
		Use:   "encode [segment...]",
		Short: "Build a path string from segments",
		Long: `Build a path string from segments. Arguments that are non-negative integers
become index segments unless --keys is set; everything else is a key.
With no arguments the root path "$" is printed.`,
		Example: `  jsonlens path encode deps 0 name     # $["deps"][0]["name"]
  jsonlens path encode --keys 0          # $["0"]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := make(jsonpath.Path, 0, len(args))
			for _, a := range args {
				if i, err := strconv.Atoi(a); err == nil && i >= 0 && !keys {
					p = append(p, jsonpath.Index(i))
					continue
				}
				p = append(p, jsonpath.Key(a))
			}
			fmt.Fprintln(c.out, jsonpath.Serialize(p))
			return nil
		},
	}

	cmd.Flags().BoolVar(&keys, "keys", false, "treat every argument as a key")
	return cmd
}

func (c *CLI) pathDecodeCommand() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "decode <path>",
		Short: "List the segments of a path string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p jsonpath.Path
			if lenient {
				p = jsonpath.DeserializeLenient(args[0])
			} else {
				var err error
				if p, err = jsonpath.Deserialize(args[0]); err != nil {
					return err
				}
			}

			if p.IsRoot() {
				printInfo(c.out, "root")
				return nil
			}
			for _, seg := range p {
				if seg.IsIndex() {
					printKeyValue(c.out, "index", strconv.Itoa(seg.Index()))
				} else {
					printKeyValue(c.out, "key", strconv.Quote(seg.Key()))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "accept loose path text such as $[config][0]")
	return cmd
}
