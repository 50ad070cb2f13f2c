package svgpath

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFormatRoundTrip(t *testing.T) {
	points := parse(t, "M 0,0 L 10,10 Z", StrictErrorMode)
	if got, want := FormatPoints(points), "0.00, 0.00, 10.00, 10.00, 0.00, 0.00"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	points = parse(t, "m 5,5 l 5,0", StrictErrorMode)
	if got, want := FormatPoints(points), "5.00, 5.00, 10.00, 5.00"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatPrecision(t *testing.T) {
	for _, test := range []struct {
		in   []float64
		want string
	}{
		{nil, ""},
		{[]float64{1e21, 1e-7}, "1000000000000000000000.00, 0.00"},
		{[]float64{-0.001}, "-0.00"},
		{[]float64{2.675}, "2.67"}, // 2.675 is slightly below in binary
		{[]float64{0.125, 0.375}, "0.12, 0.38"},
	} {
		if got := FormatPoints(test.in); got != test.want {
			t.Errorf("%v: expected %q, got %q", test.in, test.want, got)
		}
	}
}

func TestParsePoints(t *testing.T) {
	got, err := ParsePoints("1.00, -2.50, 3.25, 4.00")
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{1, -2.5, 3.25, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got, _ := ParsePoints(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if _, err := ParsePoints("1.00, x"); err == nil {
		t.Error("expected error")
	}
}

func TestPolygonJSON(t *testing.T) {
	p := NewPolygon([]float64{1, 2, 3, 4})
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["1.00, 2.00, 3.00, 4.00"]` {
		t.Errorf("unexpected encoding %s", b)
	}

	var back Polygon
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != p {
		t.Errorf("expected %v, got %v", p, back)
	}

	for _, bad := range []string{`"1.00, 2.00"`, `[]`, `["a", "b"]`, `[1]`} {
		if err := json.Unmarshal([]byte(bad), &back); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}
