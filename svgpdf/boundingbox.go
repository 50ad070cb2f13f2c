package svgpdf

import (
	"golang.org/x/image/math/fixed"
)

// compute the bounding box of a path, needed to fit the territory labels

func segmentBox(a, b fixed.Point26_6) fixed.Rectangle26_6 {
	r := fixed.Rectangle26_6{Min: a, Max: a}
	if b.X < r.Min.X {
		r.Min.X = b.X
	} else {
		r.Max.X = b.X
	}
	if b.Y < r.Min.Y {
		r.Min.Y = b.Y
	} else {
		r.Max.Y = b.Y
	}
	return r
}

// minLabelSize is the smallest font size used for labels, in points
const minLabelSize = 2

// labelSize scales the font size so that a text of the given width
// fits in `boxWidth`.
func labelSize(size, width, boxWidth float64) float64 {
	size = size * boxWidth / width
	if size < minLabelSize {
		return minLabelSize
	}
	return size
}
