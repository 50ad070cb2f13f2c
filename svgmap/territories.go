package svgmap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/benoitkugler/svgmap/svgpath"
)

// DefaultIndent is the indentation of the files written by the extract command.
const DefaultIndent = "    "

// Territory is a labeled polygon.
type Territory struct {
	Label   string
	Polygon svgpath.Polygon
}

// TerritoryGroup is a labeled list of territories, in insertion order.
type TerritoryGroup struct {
	Label       string
	Territories []Territory

	index map[string]int
}

// Get returns the polygon of the given territory.
func (g *TerritoryGroup) Get(territory string) (svgpath.Polygon, bool) {
	i, ok := g.index[territory]
	if !ok {
		return svgpath.Polygon{}, false
	}
	return g.Territories[i].Polygon, true
}

func (g *TerritoryGroup) set(territory string, p svgpath.Polygon) {
	if i, ok := g.index[territory]; ok {
		g.Territories[i].Polygon = p
		return
	}
	g.index[territory] = len(g.Territories)
	g.Territories = append(g.Territories, Territory{Label: territory, Polygon: p})
}

// TerritoryMap is the dataset produced by Extract: groups of territories,
// both kept in insertion order, which is also the serialization order.
// It is serialized as a JSON object of objects of polygons :
//
//	{"group": {"territory": ["x0, y0, x1, y1, ..."]}}
type TerritoryMap struct {
	groups []*TerritoryGroup
	index  map[string]int
}

// NewTerritoryMap returns an empty map.
func NewTerritoryMap() *TerritoryMap {
	return &TerritoryMap{index: make(map[string]int)}
}

func (m *TerritoryMap) hasGroup(label string) bool {
	_, ok := m.index[label]
	return ok
}

// resetGroup empties the group `label`, which keeps its position,
// or appends it.
func (m *TerritoryMap) resetGroup(label string) *TerritoryGroup {
	g := &TerritoryGroup{Label: label, index: make(map[string]int)}
	if i, ok := m.index[label]; ok {
		m.groups[i] = g
		return g
	}
	m.index[label] = len(m.groups)
	m.groups = append(m.groups, g)
	return g
}

// AddGroup returns the group with the given label, created empty if needed.
func (m *TerritoryMap) AddGroup(label string) *TerritoryGroup {
	if g := m.Group(label); g != nil {
		return g
	}
	return m.resetGroup(label)
}

// Set stores the polygon of a territory, creating the group if needed.
// An existing territory is replaced in place.
func (m *TerritoryMap) Set(group, territory string, p svgpath.Polygon) {
	m.AddGroup(group).set(territory, p)
}

// Group returns the group with the given label, or nil.
func (m *TerritoryMap) Group(label string) *TerritoryGroup {
	i, ok := m.index[label]
	if !ok {
		return nil
	}
	return m.groups[i]
}

// Get returns the polygon of the given territory.
func (m *TerritoryMap) Get(group, territory string) (svgpath.Polygon, bool) {
	g := m.Group(group)
	if g == nil {
		return svgpath.Polygon{}, false
	}
	return g.Get(territory)
}

// Groups returns the groups in insertion order. The slice must not be modified.
func (m *TerritoryMap) Groups() []*TerritoryGroup { return m.groups }

// Len returns the total number of territories.
func (m *TerritoryMap) Len() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.Territories)
	}
	return n
}

// Range calls fn for every territory, in order, and stops at the first error.
func (m *TerritoryMap) Range(fn func(group string, t Territory) error) error {
	for _, g := range m.groups {
		for _, t := range g.Territories {
			if err := fn(g.Label, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bounds returns the extent of every polygon of the map.
// It is empty if the map has no point.
func (m *TerritoryMap) Bounds() (Bounds, error) {
	var box extent
	err := m.Range(func(group string, t Territory) error {
		points, err := t.Polygon.Points()
		if err != nil {
			return fmt.Errorf("svgmap: territory %q in group %q: %w", t.Label, group, err)
		}
		box.add(points)
		return nil
	})
	return box.bounds(), err
}

// writeString writes s as a JSON string, without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // a string is always encodable
	buf.Truncate(buf.Len() - 1)
}

// MarshalJSON implements json.Marshaler, preserving the order.
func (m *TerritoryMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range m.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, g.Label)
		buf.WriteString(":{")
		for j, t := range g.Territories {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, t.Label)
			buf.WriteString(":[")
			writeString(&buf, t.Polygon.String())
			buf.WriteByte(']')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("svgmap: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("svgmap: expected an object key, got %v", tok)
	}
	return key, nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving the order.
// A group repeated in the input is restarted, as Extract does.
func (m *TerritoryMap) UnmarshalJSON(data []byte) error {
	out := NewTerritoryMap()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		group, err := readKey(dec)
		if err != nil {
			return err
		}
		if err = expectDelim(dec, '{'); err != nil {
			return err
		}
		g := out.resetGroup(group)
		for dec.More() {
			territory, err := readKey(dec)
			if err != nil {
				return err
			}
			var p svgpath.Polygon
			if err = dec.Decode(&p); err != nil {
				return fmt.Errorf("svgmap: territory %q in group %q: %w", territory, group, err)
			}
			g.set(territory, p)
		}
		if err = expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	*m = *out
	return nil
}

// WriteJSON writes the map, one member per line with the given indentation.
// An empty indent gives the compact form.
func (m *TerritoryMap) WriteJSON(w io.Writer, indent string) error {
	data, _ := m.MarshalJSON()
	if indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", indent); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	_, err := w.Write(data)
	return err
}

// WriteFile writes the map to the named file, as WriteJSON does.
func (m *TerritoryMap) WriteFile(filename, indent string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if errC := f.Close(); err == nil {
			err = errC
		}
	}()
	w := bufio.NewWriter(f)
	if err = m.WriteJSON(w, indent); err != nil {
		return err
	}
	return w.Flush()
}

// Load reads a map written by WriteJSON.
func Load(r io.Reader) (*TerritoryMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m := NewTerritoryMap()
	if err = m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile reads the named dataset.
func LoadFile(filename string) (*TerritoryMap, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
