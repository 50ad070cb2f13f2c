package cmd

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgmap/config"
	"github.com/benoitkugler/svgmap/svgmap"
	"github.com/benoitkugler/svgmap/svgpdf"
	"github.com/benoitkugler/svgmap/svgraster"
)

func newRenderCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "render [input]",
		Short: "Renders a dataset to a PNG image or a PDF page",
		Long: `Renders a dataset to a PNG image or a PDF page, chosen by the
extension of the output file. The input is a JSON dataset, or an SVG
drawing which is extracted first.

Each group is painted with its own color; PDF pages also show the
territory labels.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.cfg.Render
			overrideArg(args, 0, &r.Input)
			flags := cmd.Flags()
			override(cmd, "output", &r.Output, flags.GetString)
			override(cmd, "width", &r.Width, flags.GetInt)
			override(cmd, "height", &r.Height, flags.GetInt)
			override(cmd, "margin", &r.Margin, flags.GetFloat64)
			override(cmd, "font-size", &r.FontSize, flags.GetFloat64)
			if r.Output == "" {
				r.Output = strings.TrimSuffix(r.Input, filepath.Ext(r.Input)) + ".png"
			}

			m, err := a.loadMap(r.Input)
			if err != nil {
				return err
			}
			if err = render(m, r); err != nil {
				return err
			}
			fprintln(cmd.OutOrStdout(), "%s has been rendered to %s.", r.Input, r.Output)
			return nil
		},
	}
	f := c.Flags()
	f.StringP("output", "o", "", "output file, .png or .pdf (default: input with .png)")
	f.Int("width", 0, "width, in pixels or points (default 1024)")
	f.Int("height", 0, "height, in pixels or points (default 768)")
	f.Float64("margin", 0, "margin on each side (default 8)")
	f.Float64("font-size", 0, "size of the PDF labels, 0 to hide them (default 8)")
	return c
}

func render(m *svgmap.TerritoryMap, r config.Render) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", r.Width, r.Height)
	}
	switch ext := strings.ToLower(filepath.Ext(r.Output)); ext {
	case ".png":
		return svgraster.WritePNGFile(r.Output, m, svgraster.Options{
			Width:      r.Width,
			Height:     r.Height,
			Margin:     r.Margin,
			Background: color.White,
			Style:      svgmap.DefaultStyle,
		})
	case ".pdf":
		return svgpdf.RenderPDF(m, r.Output, svgpdf.Options{
			Width:    float64(r.Width),
			Height:   float64(r.Height),
			Margin:   r.Margin,
			FontSize: r.FontSize,
			Style:    svgmap.DefaultStyle,
		})
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}
