package svgmap

import (
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

const (
	// SVGNamespace is the namespace of the group and path elements.
	SVGNamespace = "http://www.w3.org/2000/svg"
	// InkscapeNamespace holds the layer labels set by the drawing tool.
	InkscapeNamespace = "http://www.inkscape.org/namespaces/inkscape"
)

// Node is the view of an element the extractor needs.
type Node interface {
	// Attr returns the value of the attribute `local` in namespace `space`
	// (empty for no namespace), and whether it is present.
	Attr(space, local string) (string, bool)
}

// Group is a group element, with the path elements it contains.
type Group interface {
	Node
	// Paths returns every path descendant of the group, in document order.
	Paths() []Node
}

// Tree is the view of a parsed document the extractor needs.
type Tree interface {
	// Groups returns every group of the document, in document order,
	// including nested ones.
	Groups() []Group
}

type element struct{ e *etree.Element }

func (n element) Attr(space, local string) (string, bool) {
	for _, a := range n.e.Attr {
		if a.Key != local {
			continue
		}
		// unprefixed attributes have no namespace
		if space == "" && a.Space == "" || space != "" && a.Space != "" && a.NamespaceURI() == space {
			return a.Value, true
		}
	}
	return "", false
}

type group struct{ element }

func (g group) Paths() []Node {
	var out []Node
	for _, e := range g.e.FindElements(".//path") {
		if e.NamespaceURI() == SVGNamespace {
			out = append(out, element{e})
		}
	}
	return out
}

type document struct{ doc *etree.Document }

func (d document) Groups() []Group {
	var out []Group
	for _, e := range d.doc.FindElements("//g") {
		if e.NamespaceURI() == SVGNamespace {
			out = append(out, group{element{e}})
		}
	}
	return out
}

// ReadTree parses an SVG document. Encodings other than UTF-8 are
// supported through the XML declaration.
// Only elements in the SVG namespace are reported as groups or paths.
func ReadTree(r io.Reader) (Tree, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("svgmap: invalid svg document: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("svgmap: invalid svg document: no root element")
	}
	return document{doc}, nil
}

// ReadTreeFile parses the named SVG file.
func ReadTreeFile(filename string) (Tree, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTree(f)
}
