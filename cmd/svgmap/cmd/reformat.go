package cmd

import (
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgmap/jsonfmt"
)

func newReformatCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "reformat [input.json [output.json]]",
		Short: "Rewrites a JSON file with the given separators",
		Long: `Rewrites a JSON file, keeping its keys order and number literals.

By default the output is written on a single line, with ', ' replaced
by ',' between items and ': ' between keys and values.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.cfg.Reformat
			overrideArg(args, 0, &r.Input)
			overrideArg(args, 1, &r.Output)
			flags := cmd.Flags()
			override(cmd, "item-separator", &r.ItemSep, flags.GetString)
			override(cmd, "key-separator", &r.KeySep, flags.GetString)
			override(cmd, "indent", &r.Indent, flags.GetString)

			opts := jsonfmt.Options{ItemSep: r.ItemSep, KeySep: r.KeySep, Indent: r.Indent}
			if !jsonfmt.ReformatAndReport(r.Input, r.Output, opts, cmd.OutOrStdout()) {
				return errReported
			}
			return nil
		},
	}
	f := c.Flags()
	f.String("item-separator", "", `separator between items (default ",")`)
	f.String("key-separator", "", `separator between keys and values (default ": ")`)
	f.String("indent", "", "indentation, empty for a single line")
	return c
}
