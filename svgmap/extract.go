package svgmap

import (
	"fmt"
	"log"

	"github.com/benoitkugler/svgmap/svgpath"
)

// DefaultFallback is the label used for unlabeled groups and paths.
const DefaultFallback = "Unknown"

// Options parametrize Extract. The zero value reads the inkscape:label
// attribute, with the "Unknown" fallback, in IgnoreErrorMode.
type Options struct {
	// Fallback replaces missing labels. Empty means DefaultFallback.
	Fallback string

	// LabelSpace and LabelAttr name the label attribute.
	// An empty LabelAttr is "label"; an empty LabelSpace is
	// InkscapeNamespace when LabelAttr is empty too, and means
	// "no namespace" otherwise.
	LabelSpace, LabelAttr string

	// Mode is used to interpret path data. In WarnErrorMode,
	// the warnings of the report are also logged.
	Mode svgpath.ErrorMode

	// Strict turns duplicate labels into errors.
	Strict bool
}

func (opts Options) fallback() string {
	if opts.Fallback == "" {
		return DefaultFallback
	}
	return opts.Fallback
}

func (opts Options) label(n Node) (string, bool) {
	space, local := opts.LabelSpace, opts.LabelAttr
	if local == "" {
		local = "label"
		if space == "" {
			space = InkscapeNamespace
		}
	}
	return n.Attr(space, local)
}

// WarningKind classifies the anomalies met during an extraction.
type WarningKind uint8

const (
	MissingLabel WarningKind = iota // the fallback label was used
	EmptyPath                       // a path without data was skipped
	DuplicateTerritory              // a territory replaced a previous one with the same label
	DuplicateGroup                  // a group replaced a previous one with the same label
)

func (k WarningKind) String() string {
	switch k {
	case MissingLabel:
		return "missing label"
	case EmptyPath:
		return "empty path"
	case DuplicateTerritory:
		return "duplicate territory"
	case DuplicateGroup:
		return "duplicate group"
	default:
		return fmt.Sprintf("<invalid WarningKind %d>", k)
	}
}

// Warning is one anomaly. Territory is empty for group level warnings.
type Warning struct {
	Kind      WarningKind
	Group     string
	Territory string
}

func (w Warning) String() string {
	if w.Territory == "" {
		return fmt.Sprintf("%s: group %q", w.Kind, w.Group)
	}
	return fmt.Sprintf("%s: territory %q in group %q", w.Kind, w.Territory, w.Group)
}

// Report lists what Extract silently accommodated.
type Report struct {
	Warnings []Warning
}

// Count returns the number of warnings of the given kind.
func (r Report) Count(kind WarningKind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// PathError locates an invalid path data string.
type PathError struct {
	Group, Territory string
	Err              error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("svgmap: territory %q in group %q: %v", e.Territory, e.Group, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// DuplicateError is returned in strict mode when a label is reused.
type DuplicateError struct {
	Warning
}

func (e *DuplicateError) Error() string { return "svgmap: " + e.Warning.String() }

type extractor struct {
	opts   Options
	out    *TerritoryMap
	report Report
}

func (ex *extractor) warn(w Warning) error {
	if ex.opts.Strict && (w.Kind == DuplicateGroup || w.Kind == DuplicateTerritory) {
		return &DuplicateError{w}
	}
	if ex.opts.Mode == svgpath.WarnErrorMode {
		log.Println("svgmap:", w)
	}
	ex.report.Warnings = append(ex.report.Warnings, w)
	return nil
}

// labelOf returns the label of n, or the fallback.
func (ex *extractor) labelOf(n Node, group string) (string, error) {
	label, ok := ex.opts.label(n)
	if ok {
		return label, nil
	}
	label = ex.opts.fallback()
	w := Warning{Kind: MissingLabel, Group: label}
	if group != "" {
		w = Warning{Kind: MissingLabel, Group: group, Territory: label}
	}
	return label, ex.warn(w)
}

func (ex *extractor) group(g Group) error {
	name, err := ex.labelOf(g, "")
	if err != nil {
		return err
	}
	if ex.out.hasGroup(name) {
		if err := ex.warn(Warning{Kind: DuplicateGroup, Group: name}); err != nil {
			return err
		}
	}
	ex.out.resetGroup(name)

	for _, p := range g.Paths() {
		territory, err := ex.labelOf(p, name)
		if err != nil {
			return err
		}
		d, _ := p.Attr("", "d")
		if d == "" {
			if err := ex.warn(Warning{Kind: EmptyPath, Group: name, Territory: territory}); err != nil {
				return err
			}
			continue
		}
		points, err := svgpath.ParsePath(d, ex.opts.Mode)
		if err != nil {
			return &PathError{Group: name, Territory: territory, Err: err}
		}
		if _, dup := ex.out.Get(name, territory); dup {
			if err := ex.warn(Warning{Kind: DuplicateTerritory, Group: name, Territory: territory}); err != nil {
				return err
			}
		}
		ex.out.Set(name, territory, svgpath.NewPolygon(points))
	}
	return nil
}

// Extract walks every group of the tree, and converts each of its
// path descendants into a territory polygon.
//
// Groups and territories are keyed by their label; a label reused within
// the same scope replaces the previous entry at its original position,
// and a reused group label restarts the group from empty.
// Such anomalies are reported, or returned as *DuplicateError
// if opts.Strict is set.
// Invalid path data aborts the extraction with a *PathError.
func Extract(tree Tree, opts Options) (*TerritoryMap, Report, error) {
	ex := extractor{opts: opts, out: NewTerritoryMap()}
	for _, g := range tree.Groups() {
		if err := ex.group(g); err != nil {
			return nil, ex.report, err
		}
	}
	return ex.out, ex.report, nil
}

// ExtractFile is a convenience wrapper around ReadTreeFile and Extract.
func ExtractFile(filename string, opts Options) (*TerritoryMap, Report, error) {
	tree, err := ReadTreeFile(filename)
	if err != nil {
		return nil, Report{}, err
	}
	return Extract(tree, opts)
}
