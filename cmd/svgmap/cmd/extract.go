package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgmap/config"
	"github.com/benoitkugler/svgmap/svgmap"
	"github.com/benoitkugler/svgmap/svgpath"
)

func newExtractCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "extract [input.svg]",
		Short: "Extracts the territories of an Inkscape drawing",
		Long: `Extracts the territories of an Inkscape drawing into a JSON file.

Every group of the drawing is a region, labeled by its inkscape:label,
and every path of the group is a territory. Path data may only use
the M, L, H, V and Z commands.

Error modes:
  ignore  - unrecognized path data is dropped silently (compatible output)
  warn    - unrecognized path data is dropped and logged
  strict  - unrecognized path data is an error (default)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := a.cfg.Extract
			overrideArg(args, 0, &e.Input)
			flags := cmd.Flags()
			override(cmd, "output", &e.Output, flags.GetString)
			override(cmd, "mode", &e.Mode, flags.GetString)
			override(cmd, "fallback", &e.Fallback, flags.GetString)
			override(cmd, "label-namespace", &e.LabelNamespace, flags.GetString)
			override(cmd, "label-attr", &e.LabelAttr, flags.GetString)
			override(cmd, "strict", &e.Strict, flags.GetBool)
			override(cmd, "indent", &e.Indent, flags.GetString)
			if e.Input == "" {
				return errors.New("missing input file")
			}

			run := func() error { return a.extract(cmd, e) }
			watch, _ := flags.GetBool("watch")
			if !watch {
				return run()
			}
			if err := run(); err != nil {
				printError(err)
			}
			return watchFile(cmd.Context(), e.Input, run)
		},
	}
	f := c.Flags()
	f.StringP("output", "o", "", "output JSON file (default territories.json)")
	f.String("mode", "", "error mode of the path parser: ignore, warn or strict")
	f.String("fallback", "", "label of unlabeled groups and paths (default Unknown)")
	f.String("label-namespace", "", "namespace of the label attribute (default Inkscape)")
	f.String("label-attr", "", "local name of the label attribute (default label)")
	f.Bool("strict", false, "fail on duplicate labels")
	f.String("indent", "", "indentation of the output, empty for a compact file")
	f.Bool("watch", false, "extract again each time the input is saved")
	return c
}

func extractOptions(e config.Extract) (svgmap.Options, error) {
	mode, err := e.ErrorMode()
	if err != nil {
		return svgmap.Options{}, err
	}
	return svgmap.Options{
		Fallback:   e.Fallback,
		LabelSpace: e.LabelNamespace,
		LabelAttr:  e.LabelAttr,
		Mode:       mode,
		Strict:     e.Strict,
	}, nil
}

func (a *app) extract(cmd *cobra.Command, e config.Extract) error {
	opts, err := extractOptions(e)
	if err != nil {
		return err
	}
	m, report, err := svgmap.ExtractFile(e.Input, opts)
	if err != nil {
		return err
	}
	// warn mode already logged them
	if opts.Mode != svgpath.WarnErrorMode {
		for _, w := range report.Warnings {
			a.debugf("warning: %s", w)
		}
	}
	if err = m.WriteFile(e.Output, e.Indent); err != nil {
		return err
	}
	fprintln(cmd.OutOrStdout(), "%d territories in %d groups have been saved to %s (%d warnings).",
		m.Len(), len(m.Groups()), e.Output, len(report.Warnings))
	return nil
}

const watchDebounce = 200 * time.Millisecond

// watchFile calls `onChange` after each write of `filename`,
// until `ctx` is done. Errors of `onChange` are logged.
func watchFile(ctx context.Context, filename string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file on save: watch the directory
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	target := filepath.Clean(filename)
	log.Printf("watching %s for changes", filename)

	// a save usually triggers several events: wait for them to settle
	settle := time.NewTimer(watchDebounce)
	settle.Stop()
	defer settle.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			settle.Reset(watchDebounce)

		case <-settle.C:
			if err := onChange(); err != nil {
				log.Printf("extract: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}
