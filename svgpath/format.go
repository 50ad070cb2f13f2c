package svgpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormatPoints renders coordinates with two decimals, separated by ", ".
func FormatPoints(points []float64) string {
	var b strings.Builder
	for i, v := range points {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'f', 2, 64))
	}
	return b.String()
}

// ParsePoints reads back a string written by FormatPoints.
func ParsePoints(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("svgpath: invalid coordinate %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Polygon is the serialized form of a territory outline: a single
// formatted coordinate string, wrapped in a one element array
// (`["x0, y0, x1, y1, ..."]`) as expected by the map consumers.
type Polygon [1]string

// NewPolygon formats the given coordinates.
func NewPolygon(points []float64) Polygon {
	return Polygon{FormatPoints(points)}
}

// String returns the coordinate string.
func (p Polygon) String() string { return p[0] }

// Points parses the coordinate string.
func (p Polygon) Points() ([]float64, error) { return ParsePoints(p[0]) }

// UnmarshalJSON enforces the one element array shape.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var l []string
	if err := json.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("svgpath: polygon must be an array of one string: %w", err)
	}
	if len(l) != 1 {
		return fmt.Errorf("svgpath: polygon must be an array of one string, got %d elements", len(l))
	}
	p[0] = l[0]
	return nil
}
