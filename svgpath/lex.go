package svgpath

import (
	"log"
	"regexp"
	"strings"
	"unicode"
)

// TokenKind distinguishes command letters from numbers.
type TokenKind uint8

const (
	CommandToken TokenKind = iota
	NumberToken
)

// Token is one element of a path data string.
type Token struct {
	Kind    TokenKind
	Command byte   // set for CommandToken
	Text    string // source text
	Offset  int    // byte offset in the path data
}

func (t Token) String() string { return t.Text }

// commands or numbers; exponents and leading '+' are not part of the grammar
var tokenRe = regexp.MustCompile(`[MLHVZmlhvz]|-?\d*\.?\d+`)

// isCurveCommand reports the SVG commands this package does not interpret.
func isCurveCommand(c byte) bool {
	switch c {
	case 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

// Tokenize splits a path data string into commands and numbers.
// Commas are treated as whitespace. What is left between two tokens is
// handled according to mode: dropped, logged then dropped, or returned as
// an *UnsupportedCommandError or *SyntaxError.
func Tokenize(d string, mode ErrorMode) ([]Token, error) {
	d = strings.ReplaceAll(d, ",", " ")
	matches := tokenRe.FindAllStringIndex(d, -1)
	tokens := make([]Token, 0, len(matches))
	last := 0
	for _, m := range matches {
		if err := checkGap(d, last, m[0], mode); err != nil {
			return nil, err
		}
		text := d[m[0]:m[1]]
		tok := Token{Kind: NumberToken, Text: text, Offset: m[0]}
		if len(text) == 1 && unicode.IsLetter(rune(text[0])) {
			tok.Kind = CommandToken
			tok.Command = text[0]
		}
		tokens = append(tokens, tok)
		last = m[1]
	}
	if err := checkGap(d, last, len(d), mode); err != nil {
		return nil, err
	}
	return tokens, nil
}

// checkGap inspects the unmatched text d[start:end].
func checkGap(d string, start, end int, mode ErrorMode) error {
	if start >= end || mode == IgnoreErrorMode {
		return nil
	}
	gap := d[start:end]
	i := 0
	for i < len(gap) {
		if isSpace(gap[i]) {
			i++
			continue
		}
		j := i
		for j < len(gap) && !isSpace(gap[j]) {
			j++
		}
		field, offset := gap[i:j], start+i
		if mode == StrictErrorMode {
			if isCurveCommand(field[0]) {
				return &UnsupportedCommandError{Command: field[0], Offset: offset}
			}
			return &SyntaxError{Text: field, Offset: offset}
		}
		log.Printf("svgpath: ignoring %q at offset %d", field, offset)
		i = j
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
