package cmd

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgmap/svgview"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [input]",
		Short: "Shows a dataset in the terminal",
		Long: `Shows a dataset (JSON, or SVG extracted first) in the terminal.

Navigation:
  ←→ / +-   - pan / zoom
  ↑↓        - select a group
  Space     - show or hide the selected group
  Tab       - toggle the group list (↑↓ then pan)
  q         - quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.cfg.Render.Input
			overrideArg(args, 0, &input)
			m, err := a.loadMap(input)
			if err != nil {
				return err
			}
			p := tea.NewProgram(
				svgview.New(m, filepath.Base(input)),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
}
