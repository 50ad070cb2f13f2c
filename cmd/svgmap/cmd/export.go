package cmd

import (
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgmap/territorydb"
)

func newExportCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "export [input]",
		Short: "Archives a dataset in a SQLite database",
		Long: `Archives a dataset (JSON, or SVG extracted first) in a SQLite database,
as a new snapshot. Use --list to show the stored snapshots.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := a.cfg.Export
			overrideArg(args, 0, &e.Input)
			flags := cmd.Flags()
			override(cmd, "database", &e.Database, flags.GetString)

			store, err := territorydb.Open(e.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if list, _ := flags.GetBool("list"); list {
				exports, err := store.Exports(ctx)
				if err != nil {
					return err
				}
				for _, ex := range exports {
					fprintln(out, "%s  %s  %-24s %d groups, %d territories",
						ex.ID, ex.CreatedAt.Local().Format("2006-01-02 15:04:05"), ex.Source, ex.Groups, ex.Territories)
				}
				return nil
			}

			m, err := a.loadMap(e.Input)
			if err != nil {
				return err
			}
			ex, err := store.Save(ctx, m, e.Input)
			if err != nil {
				return err
			}
			a.debugf("export %s: %d groups, %d territories", ex.ID, ex.Groups, ex.Territories)
			fprintln(out, "%s has been exported to %s as %s.", e.Input, e.Database, ex.ID)
			return nil
		},
	}
	f := c.Flags()
	f.StringP("database", "d", "", "SQLite database (default territories.db)")
	f.Bool("list", false, "list the stored snapshots instead of exporting")
	return c
}
