package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgmap/config"
	"github.com/benoitkugler/svgmap/svgmap"
)

// errReported is returned by commands which already printed their failure.
var errReported = errors.New("command failed")

type app struct {
	cfgFile string
	verbose bool
	cfg     config.Config
}

// NewRootCmd returns the svgmap command, with every sub command.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:   "svgmap",
		Short: "Converts Inkscape maps into territory datasets",
		Long: `svgmap extracts the territories drawn in an Inkscape SVG file
(one group per region, one path per territory) into a JSON dataset,
and packages the game directory into a .love archive.

Commands:
  extract   - SVG drawing to territories JSON
  reformat  - rewrite a JSON file on a single line
  package   - build the .love archive and its launcher
  render    - PNG or PDF preview of a dataset
  export    - archive a dataset in SQLite
  preview   - interactive terminal preview`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newExtractCmd(a),
		newReformatCmd(a),
		newPackageCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newPreviewCmd(a),
	)
	return root
}

// Execute runs the command line, and prints the error, if any.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		printError(err)
	}
	return err
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func (a *app) loadConfig() error {
	if a.cfgFile == "" {
		return nil
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// debugf logs only in verbose mode.
func (a *app) debugf(format string, args ...any) {
	if a.verbose {
		log.Printf(format, args...)
	}
}

// override replaces `dst` by the value of the flag `name`, if it was set.
func override[T any](cmd *cobra.Command, name string, dst *T, get func(string) (T, error)) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if v, err := get(name); err == nil {
		*dst = v
	}
}

// overrideArg replaces `dst` by the i-th positional argument, if any.
func overrideArg(args []string, i int, dst *string) {
	if i < len(args) {
		*dst = args[i]
	}
}

// loadMap reads a dataset, extracting it first from .svg files
// with the extract settings.
func (a *app) loadMap(filename string) (*svgmap.TerritoryMap, error) {
	if filename == "" {
		return nil, errors.New("missing input file")
	}
	if strings.EqualFold(filepath.Ext(filename), ".svg") {
		opts, err := extractOptions(a.cfg.Extract)
		if err != nil {
			return nil, err
		}
		m, _, err := svgmap.ExtractFile(filename, opts)
		return m, err
	}
	return svgmap.LoadFile(filename)
}

func fprintln(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
