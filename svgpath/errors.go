package svgpath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode drops unrecognized path data silently, so that
	// curve parameters are read as operands of the active command.
	// The token following a close is also skipped, and a close does
	// not move the cursor: existing datasets are reproduced exactly.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode drops unrecognized path data and logs it.
	WarnErrorMode
	// StrictErrorMode stops at the first unrecognized path data.
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return fmt.Sprintf("<invalid ErrorMode %d>", m)
	}
}

// ParseErrorMode accepts "ignore", "warn" or "strict" (case insensitive).
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return IgnoreErrorMode, nil
	case "warn":
		return WarnErrorMode, nil
	case "strict", "":
		return StrictErrorMode, nil
	}
	return StrictErrorMode, fmt.Errorf("svgpath: unknown error mode %q", s)
}

// ErrNoCommand is returned when a coordinate appears before any command letter.
var ErrNoCommand = errors.New("svgpath: coordinate before any command")

// SyntaxError reports path data which is neither a command letter nor a number.
type SyntaxError struct {
	Text   string
	Offset int   // byte offset in the path data
	Err    error // underlying conversion error, if any
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("svgpath: invalid number %q at offset %d: %v", e.Text, e.Offset, e.Err)
	}
	return fmt.Sprintf("svgpath: unexpected %q at offset %d", e.Text, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// UnsupportedCommandError reports a curve or arc command.
// Only straight line commands (M, L, H, V, Z) are interpreted.
type UnsupportedCommandError struct {
	Command byte
	Offset  int
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("svgpath: unsupported command %q at offset %d", e.Command, e.Offset)
}

// OperandError reports a command which did not receive the number of
// operands its arity requires.
type OperandError struct {
	Command byte
	Offset  int // offset of the token where the problem was detected, -1 at end of data
	Got     int
	Want    int
}

func (e *OperandError) Error() string {
	where := "at end of path data"
	if e.Offset >= 0 {
		where = fmt.Sprintf("at offset %d", e.Offset)
	}
	if e.Want == 0 {
		return fmt.Sprintf("svgpath: command %q takes no operand, got one %s", e.Command, where)
	}
	return fmt.Sprintf("svgpath: command %q expects %d operands, got %d %s", e.Command, e.Want, e.Got, where)
}
