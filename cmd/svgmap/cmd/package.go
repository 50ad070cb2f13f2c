package cmd

import (
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgmap/lovefile"
)

func newPackageCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "package [dir]",
		Short: "Builds the .love archive of a game directory",
		Long: `Builds the .love archive of a game directory.

A launcher script starting the LOVE loader on the game directory
is written in the directory while the archive is built, and removed
afterwards. Neither the launcher nor a previous archive are packaged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.cfg.Package
			overrideArg(args, 0, &p.Dir)
			flags := cmd.Flags()
			override(cmd, "output", &p.Output, flags.GetString)
			override(cmd, "loader", &p.Loader, flags.GetString)
			override(cmd, "launcher", &p.Launcher, flags.GetString)

			packager := lovefile.Packager{LauncherName: p.Launcher}
			if err := packager.Package(p.Dir, p.Output, p.Loader); err != nil {
				return err
			}
			fprintln(cmd.OutOrStdout(), "%s has been packaged into %s.", p.Dir, p.Output)

			if a.verbose {
				files, err := lovefile.Contents(p.Output)
				if err != nil {
					return err
				}
				for _, file := range files {
					fprintln(cmd.OutOrStdout(), "  %s", file)
				}
			}
			return nil
		},
	}
	f := c.Flags()
	f.StringP("output", "o", "", "archive file (default WaW_Game.love)")
	f.String("loader", "", "path of the LOVE executable")
	f.String("launcher", "", "name of the launcher script (default launch_love.bat)")
	return c
}
