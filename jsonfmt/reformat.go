// Rewrites JSON documents with different separators and indentation,
// keeping object members in their original order and number literals
// exactly as written.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options controls the output layout.
// The zero value produces the most compact form: an empty ItemSep
// is "," and an empty KeySep is ":".
// Separators may only add JSON whitespace around the punctuation,
// and Indent may only hold JSON whitespace.
type Options struct {
	ItemSep string // between array elements and object members
	KeySep  string // between a key and its value
	Indent  string // one line per element when not empty
}

func isJSONSpace(s string) bool {
	for _, c := range []byte(s) {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

// checkSeparator returns `sep`, or `punct` if it is empty.
func checkSeparator(name, sep, punct string) (string, error) {
	if sep == "" {
		return punct, nil
	}
	i := strings.Index(sep, punct)
	if i < 0 || !isJSONSpace(sep[:i]) || !isJSONSpace(sep[i+1:]) {
		return "", fmt.Errorf("jsonfmt: invalid %s %q: expected %q with optional whitespace", name, sep, punct)
	}
	return sep, nil
}

// normalize fills the default separators and validates the layout.
func (opts Options) normalize() (Options, error) {
	var err error
	if opts.ItemSep, err = checkSeparator("item separator", opts.ItemSep, ","); err != nil {
		return Options{}, err
	}
	if opts.KeySep, err = checkSeparator("key separator", opts.KeySep, ":"); err != nil {
		return Options{}, err
	}
	if !isJSONSpace(opts.Indent) {
		return Options{}, fmt.Errorf("jsonfmt: invalid indent %q: only whitespace is allowed", opts.Indent)
	}
	return opts, nil
}

// DefaultOptions is the single line layout of the map consumers:
// no space after commas, one after colons.
var DefaultOptions = Options{ItemSep: ",", KeySep: ": "}

type frame struct {
	object    bool
	expectKey bool
	n         int // number of elements written
}

type writer struct {
	opts  Options
	buf   bytes.Buffer
	stack []frame
}

func (w *writer) newline() {
	if w.opts.Indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	w.buf.WriteString(strings.Repeat(w.opts.Indent, len(w.stack)))
}

func (w *writer) writeString(s string) {
	enc := json.NewEncoder(&w.buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	w.buf.Truncate(w.buf.Len() - 1) // trailing newline
}

func (w *writer) valueDone() {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	top.n++
	top.expectKey = top.object
}

func (w *writer) token(tok json.Token) {
	if d, ok := tok.(json.Delim); ok && (d == '}' || d == ']') {
		top := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		if top.n > 0 {
			w.newline()
		}
		w.buf.WriteByte(byte(d))
		w.valueDone()
		return
	}

	if len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if top.object && top.expectKey {
			if top.n > 0 {
				w.buf.WriteString(w.opts.ItemSep)
			}
			w.newline()
			w.writeString(tok.(string)) // keys are always strings
			w.buf.WriteString(w.opts.KeySep)
			top.expectKey = false
			return
		}
		if !top.object {
			if top.n > 0 {
				w.buf.WriteString(w.opts.ItemSep)
			}
			w.newline()
		}
	}

	switch v := tok.(type) {
	case json.Delim:
		w.buf.WriteByte(byte(v))
		w.stack = append(w.stack, frame{object: v == '{', expectKey: v == '{'})
		return // completed by the closing delimiter
	case string:
		w.writeString(v)
	case json.Number:
		w.buf.WriteString(v.String())
	case bool:
		if v {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
	case nil:
		w.buf.WriteString("null")
	}
	w.valueDone()
}

// Format rewrites the JSON document read from `r`.
// The input must hold exactly one JSON value.
// Invalid options are reported before reading `r`.
func Format(r io.Reader, opts Options) ([]byte, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	w := writer{opts: opts}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		w.token(tok)
		if len(w.stack) == 0 && dec.More() {
			return nil, errors.New("jsonfmt: extra data after the JSON value")
		}
	}
	if w.buf.Len() == 0 {
		return nil, errors.New("jsonfmt: empty input")
	}
	if len(w.stack) > 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return w.buf.Bytes(), nil
}

// Reformat reads the JSON file `in` and writes it to `out` with the given layout.
// `out` is only replaced once the whole input has been read successfully,
// and may be the same file as `in`.
func Reformat(in, out string, opts Options) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	data, err := Format(f, opts)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	return writeFileAtomic(out, data)
}

func writeFileAtomic(filename string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename
	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}

// ReformatAndReport runs Reformat and prints the outcome to `w` instead of
// returning it. It returns true on success.
func ReformatAndReport(in, out string, opts Options, w io.Writer) bool {
	if err := Reformat(in, out, opts); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "Reformatted JSON has been saved to %s.\n", out)
	return true
}
