package svgpath

import (
	"errors"
	"reflect"
	"testing"
)

func parse(t *testing.T, d string, mode ErrorMode) []float64 {
	t.Helper()
	points, err := ParsePath(d, mode)
	if err != nil {
		t.Fatalf("ParsePath(%q): %s", d, err)
	}
	return points
}

func TestAbsoluteLines(t *testing.T) {
	for _, test := range []struct {
		d    string
		want []float64
	}{
		{"M 0,0 L 10,10", []float64{0, 0, 10, 10}},
		{"M1 2L3 4 5 6 7 8", []float64{1, 2, 3, 4, 5, 6, 7, 8}},
		{"M 1,2 3,4 5,6", []float64{1, 2, 3, 4, 5, 6}},
		{"M-1-2L.5.5", []float64{-1, -2, 0.5, 0.5}},
		{"M 10 20 H 30 V 40", []float64{10, 20, 30, 20, 30, 40}},
	} {
		for _, mode := range []ErrorMode{IgnoreErrorMode, WarnErrorMode, StrictErrorMode} {
			got := parse(t, test.d, mode)
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("%q (%s): expected %v, got %v", test.d, mode, test.want, got)
			}
		}
	}
}

func TestPointCount(t *testing.T) {
	d := "M 0 0"
	for n := 1; n <= 20; n++ {
		got := parse(t, d, StrictErrorMode)
		if len(got) != 2*n {
			t.Fatalf("%d pairs: expected %d values, got %d", n, 2*n, len(got))
		}
		d += " L 1.5 2.5"
	}
}

func TestRelative(t *testing.T) {
	got := parse(t, "m 5,5 l 5,0", StrictErrorMode)
	if want := []float64{5, 5, 10, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got = parse(t, "m 1 1 h 2 v 3 h -1 v -1", StrictErrorMode)
	if want := []float64{1, 1, 3, 1, 3, 4, 2, 4, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// absolute commands replace the cursor
	got = parse(t, "m 10 10 L 1 1 l 1 1", StrictErrorMode)
	if want := []float64{10, 10, 1, 1, 2, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSingleAxis(t *testing.T) {
	for _, d := range []string{"M 3 7 H 9", "M 3 7 h 9"} {
		got := parse(t, d, StrictErrorMode)
		if got[3] != 7 {
			t.Errorf("%q: y should be carried over, got %v", d, got)
		}
	}
	for _, d := range []string{"M 3 7 V 9", "M 3 7 v 9"} {
		got := parse(t, d, StrictErrorMode)
		if got[2] != 3 {
			t.Errorf("%q: x should be carried over, got %v", d, got)
		}
	}
}

func TestClose(t *testing.T) {
	for _, d := range []string{"M 0,0 L 10,10 Z", "M 0,0 L 10,10 z"} {
		got := parse(t, d, StrictErrorMode)
		if want := []float64{0, 0, 10, 10, 0, 0}; !reflect.DeepEqual(got, want) {
			t.Errorf("%q: expected %v, got %v", d, want, got)
		}
	}

	open := parse(t, "m 2 3 l 1 0 0 1", StrictErrorMode)
	closed := parse(t, "m 2 3 l 1 0 0 1 z", StrictErrorMode)
	if len(closed) != len(open)+2 {
		t.Errorf("close should add exactly one point: %v -> %v", open, closed)
	}

	// nothing to close
	if got := parse(t, "Z", StrictErrorMode); len(got) != 0 {
		t.Errorf("expected no point, got %v", got)
	}
}

func TestCloseMovesCursor(t *testing.T) {
	got := parse(t, "M 10 10 L 20 10 z l 1 1", StrictErrorMode)
	if want := []float64{10, 10, 20, 10, 10, 10, 11, 11}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestIgnoreModeQuirks(t *testing.T) {
	// the letter following a close is swallowed, and the cursor is not
	// reset by the close: the relative pair after it becomes two closes
	got := parse(t, "M 10 10 L 20 10 z m 1 1 l 1 1", IgnoreErrorMode)
	want := []float64{10, 10, 20, 10, 10, 10, 10, 10, 10, 10, 21, 11}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// curve parameters are read as continuations of the active command
	got = parse(t, "M 0 0 C 1 1 2 2 3 3", IgnoreErrorMode)
	want = []float64{0, 0, 1, 1, 2, 2, 3, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStepIsPure(t *testing.T) {
	s := NewState(StrictErrorMode)
	tokens, err := Tokenize("M 4 5", StrictErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	s1, err := s.Step(tokens[0])
	if err != nil {
		t.Fatal(err)
	}
	if s.Command != 0 || s1.Command != 'M' {
		t.Errorf("unexpected commands %q %q", s.Command, s1.Command)
	}
	s2, _ := s1.Step(tokens[1])
	if s2.Pending() != 1 || s1.Pending() != 0 {
		t.Errorf("unexpected pending operands %d %d", s1.Pending(), s2.Pending())
	}
	s3, _ := s2.Step(tokens[2])
	if s3.X != 4 || s3.Y != 5 || len(s3.Points) != 2 || len(s2.Points) != 0 {
		t.Errorf("unexpected state %+v", s3)
	}
}

func TestInterpretErrors(t *testing.T) {
	for _, d := range []string{"10 10", "M 1 2 L 3", "M 1 L 2 3", "H", "M 0 0 Z 4"} {
		_, err := ParsePath(d, StrictErrorMode)
		if err == nil {
			t.Errorf("%q: expected error", d)
		}
	}

	_, err := ParsePath("4 5", IgnoreErrorMode)
	if !errors.Is(err, ErrNoCommand) {
		t.Errorf("expected ErrNoCommand, got %v", err)
	}

	_, err = ParsePath("M 1 2 L 3", IgnoreErrorMode)
	var opErr *OperandError
	if !errors.As(err, &opErr) || opErr.Command != 'L' || opErr.Got != 1 || opErr.Want != 2 {
		t.Errorf("unexpected error %v", err)
	}
}

func TestUnsupportedCommands(t *testing.T) {
	_, err := ParsePath("M 0 0 C 1 1 2 2 3 3", StrictErrorMode)
	var cmdErr *UnsupportedCommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != 'C' || cmdErr.Offset != 6 {
		t.Errorf("expected an unsupported command error, got %v", err)
	}

	_, err = ParsePath("M 1e5 0", StrictErrorMode)
	var synErr *SyntaxError
	if !errors.As(err, &synErr) || synErr.Text != "e" {
		t.Errorf("expected a syntax error, got %v", err)
	}

	// warn mode behaves as ignore mode, plus logging
	got := parse(t, "M 0 0 q 1 1", WarnErrorMode)
	if want := []float64{0, 0, 1, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExample(t *testing.T) {
	d := `m 759.26,648.42 -11.32,-3.16 -2.28,-8.4
V 579.92
l -3.84,-4.29 -3.73,-5.99
z`
	got := parse(t, d, StrictErrorMode)
	want := "759.26, 648.42, 747.94, 645.26, 745.66, 636.86, 745.66, 579.92, 741.82, 575.63, 738.09, 569.64, 759.26, 648.42"
	if s := FormatPoints(got); s != want {
		t.Errorf("expected\n%s\ngot\n%s", want, s)
	}
}
