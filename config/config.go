// Loads the settings of the svgmap commands from a TOML or YAML file.
//
// The format is chosen from the file extension (.toml, .yaml or .yml).
// Missing keys keep their default value; unknown keys are an error.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/benoitkugler/svgmap/svgpath"
	"gopkg.in/yaml.v3"
)

// Extract configures the SVG to JSON conversion.
type Extract struct {
	Input          string `toml:"input" yaml:"input"`
	Output         string `toml:"output" yaml:"output"`
	Mode           string `toml:"mode" yaml:"mode"` // ignore, warn or strict
	Fallback       string `toml:"fallback" yaml:"fallback"`
	LabelNamespace string `toml:"label_namespace" yaml:"label_namespace"`
	LabelAttr      string `toml:"label_attr" yaml:"label_attr"`
	Strict         bool   `toml:"strict" yaml:"strict"` // fail on duplicate labels
	Indent         string `toml:"indent" yaml:"indent"`
}

// ErrorMode parses Mode.
func (e Extract) ErrorMode() (svgpath.ErrorMode, error) { return svgpath.ParseErrorMode(e.Mode) }

// Reformat configures the JSON rewriting.
type Reformat struct {
	Input   string `toml:"input" yaml:"input"`
	Output  string `toml:"output" yaml:"output"`
	ItemSep string `toml:"item_separator" yaml:"item_separator"`
	KeySep  string `toml:"key_separator" yaml:"key_separator"`
	Indent  string `toml:"indent" yaml:"indent"`
}

// Package configures the .love archive.
type Package struct {
	Dir      string `toml:"dir" yaml:"dir"`
	Output   string `toml:"output" yaml:"output"`
	Loader   string `toml:"loader" yaml:"loader"`
	Launcher string `toml:"launcher" yaml:"launcher"`
}

// Render configures the PNG and PDF previews.
type Render struct {
	Input    string  `toml:"input" yaml:"input"`
	Output   string  `toml:"output" yaml:"output"`
	Width    int     `toml:"width" yaml:"width"`
	Height   int     `toml:"height" yaml:"height"`
	Margin   float64 `toml:"margin" yaml:"margin"`
	FontSize float64 `toml:"font_size" yaml:"font_size"` // PDF only, 0 disables labels
}

// Export configures the SQLite archive.
type Export struct {
	Input    string `toml:"input" yaml:"input"`
	Database string `toml:"database" yaml:"database"`
}

// Config holds every section.
type Config struct {
	Extract  Extract  `toml:"extract" yaml:"extract"`
	Reformat Reformat `toml:"reformat" yaml:"reformat"`
	Package  Package  `toml:"package" yaml:"package"`
	Render   Render   `toml:"render" yaml:"render"`
	Export   Export   `toml:"export" yaml:"export"`
}

// Default returns the settings used without configuration file.
func Default() Config {
	return Config{
		Extract: Extract{
			Output: "territories.json",
			Mode:   svgpath.StrictErrorMode.String(),
			Indent: "    ",
		},
		Reformat: Reformat{
			Input:   "territories.json",
			Output:  "territories_reformatted.json",
			ItemSep: ",",
			KeySep:  ": ",
		},
		Package: Package{
			Dir:    "map_test",
			Output: "WaW_Game.love",
			Loader: `C:\Program Files\LOVE\love.exe`,
		},
		Render: Render{
			Input:    "territories.json",
			Width:    1024,
			Height:   768,
			Margin:   8,
			FontSize: 8,
		},
		Export: Export{
			Input:    "territories.json",
			Database: "territories.db",
		},
	}
}

// Validate checks the values which can't be checked by the decoder.
func (c Config) Validate() error {
	if _, err := c.Extract.ErrorMode(); err != nil {
		return err
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("config: invalid render size %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Margin < 0 || 2*c.Render.Margin >= float64(min(c.Render.Width, c.Render.Height)) {
		return fmt.Errorf("config: invalid render margin %g", c.Render.Margin)
	}
	return nil
}

// Load reads the file at `path` on top of Default.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(content), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config: %s: unknown key %s", path, undecoded[0])
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && len(bytes.TrimSpace(content)) > 0 {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported file extension %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
