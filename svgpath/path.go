// Implements an interpreter for the straight line subset
// of the SVG path mini-language (M, L, H, V, Z and their
// relative forms), producing absolute coordinates.
package svgpath

import "strconv"

// arity returns the number of operands consumed by one invocation of c.
func arity(c byte) int {
	switch c {
	case 'M', 'm', 'L', 'l':
		return 2
	case 'H', 'h', 'V', 'v':
		return 1
	}
	return 0
}

func isClose(c byte) bool { return c == 'Z' || c == 'z' }

// State is the interpreter state between two tokens.
// The zero value is not ready for use, see NewState.
//
// Points shares its backing array with the states it was derived from:
// once Step has been called, only the returned State should be used.
type State struct {
	X, Y    float64 // cursor, in absolute drawing units
	Command byte    // active command, 0 before the first command letter

	// Points is the flat list of emitted coordinates: x0, y0, x1, y1, ...
	Points []float64

	Mode ErrorMode

	pending [2]float64 // operands of an incomplete invocation
	npend   int
	fresh   bool // the active command has not been invoked yet
	skip    bool // ignore mode: the token following a close command is swallowed
}

// NewState returns the initial state: cursor at the origin, no active command.
func NewState(mode ErrorMode) State {
	return State{Mode: mode}
}

// Pending returns how many operands are waiting for an incomplete invocation.
func (s State) Pending() int { return s.npend }

// Step consumes one token and returns the resulting state.
func (s State) Step(tok Token) (State, error) {
	if s.skip {
		s.skip = false
		return s, nil
	}
	switch tok.Kind {
	case CommandToken:
		if s.npend > 0 || s.fresh {
			return s, &OperandError{Command: s.Command, Offset: tok.Offset, Got: s.npend, Want: arity(s.Command)}
		}
		s.Command = tok.Command
		s.fresh = arity(s.Command) > 0
		if isClose(s.Command) {
			s = s.close()
			s.skip = s.Mode == IgnoreErrorMode
		}
		return s, nil
	case NumberToken:
		if s.Command == 0 {
			return s, ErrNoCommand
		}
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return s, &SyntaxError{Text: tok.Text, Offset: tok.Offset, Err: err}
		}
		if isClose(s.Command) {
			if s.Mode != IgnoreErrorMode {
				return s, &OperandError{Command: s.Command, Offset: tok.Offset, Got: 1}
			}
			// ignore mode: an operand after a close repeats the close
			return s.close(), nil
		}
		s.pending[s.npend] = v
		s.npend++
		if s.npend == arity(s.Command) {
			s = s.apply()
		}
		return s, nil
	}
	return s, &SyntaxError{Text: tok.Text, Offset: tok.Offset}
}

// apply runs the active command on the complete operand group.
func (s State) apply() State {
	op := s.pending
	switch s.Command {
	case 'M', 'L':
		s.X, s.Y = op[0], op[1]
	case 'm', 'l':
		s.X += op[0]
		s.Y += op[1]
	case 'H':
		s.X = op[0]
	case 'h':
		s.X += op[0]
	case 'V':
		s.Y = op[0]
	case 'v':
		s.Y += op[0]
	}
	s.npend = 0
	s.fresh = false
	s.Points = append(s.Points, s.X, s.Y)
	return s
}

// close appends the first emitted point again, if any.
func (s State) close() State {
	if len(s.Points) < 2 {
		return s
	}
	x, y := s.Points[0], s.Points[1]
	s.Points = append(s.Points, x, y)
	if s.Mode != IgnoreErrorMode {
		s.X, s.Y = x, y
	}
	return s
}

// Finish checks that no invocation is left incomplete.
func (s State) Finish() error {
	if s.npend > 0 || s.fresh {
		return &OperandError{Command: s.Command, Offset: -1, Got: s.npend, Want: arity(s.Command)}
	}
	return nil
}

// Interpret runs the tokens through a fresh State and returns the
// emitted coordinates, as a flat x, y list.
func Interpret(tokens []Token, mode ErrorMode) ([]float64, error) {
	s := NewState(mode)
	var err error
	for _, tok := range tokens {
		s, err = s.Step(tok)
		if err != nil {
			return nil, err
		}
	}
	if err = s.Finish(); err != nil {
		return nil, err
	}
	return s.Points, nil
}

// ParsePath tokenizes and interprets the path data `d`.
func ParsePath(d string, mode ErrorMode) ([]float64, error) {
	tokens, err := Tokenize(d, mode)
	if err != nil {
		return nil, err
	}
	return Interpret(tokens, mode)
}
