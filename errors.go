package recval

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingField  = "MissingField"
	CodeStringType    = "StringType"
	CodeStringUnicode = "StringUnicode"
	CodeIntType       = "IntType"
	CodeIntTooBig     = "IntTooBig"
	CodeDictType      = "DictType"
)

// LocItem is one segment of an error location: a mapping key or a sequence index.
type LocItem struct {
	key   string
	index int64
	isKey bool
}

// KeySegment builds a string location segment.
func KeySegment(k string) LocItem { return LocItem{key: k, isKey: true} }

// IndexSegment builds an integer location segment.
func IndexSegment(i int64) LocItem { return LocItem{index: i} }

// Segment returns the segment as a plain value: string for keys, int64 for indices.
func (li LocItem) Segment() any {
	if li.isKey {
		return li.key
	}
	return li.index
}

func (li LocItem) render() string {
	if li.isKey {
		return li.key
	}
	return fmt.Sprintf("%d", li.index)
}

// LineError is a single validation failure. The location is stored reversed:
// the deepest segment is recorded first and each outer frame pushes its own
// segment while unwinding, so building the path is append-only. It is read
// back-to-front only at emission time.
type LineError struct {
	Type   string
	revLoc []LocItem
}

func newLineError(code string) LineError { return LineError{Type: code} }

func newLineErrorAt(code string, loc LocItem) LineError {
	return LineError{Type: code, revLoc: []LocItem{loc}}
}

// Location returns the root-to-leaf path segments.
func (e LineError) Location() []any {
	out := make([]any, len(e.revLoc))
	for i, li := range e.revLoc {
		out[len(e.revLoc)-1-i] = li.Segment()
	}
	return out
}

func (e LineError) renderLoc() string {
	b := &strings.Builder{}
	for i := len(e.revLoc) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(e.revLoc[i].render())
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// LineErrors is the collectible validation failure class; it implements error.
// Any other error returned by validation is fatal and carries no location.
type LineErrors []LineError

// Error summarizes the first few line errors.
func (le LineErrors) Error() string {
	if len(le) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(le)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := le[i]
		// e.g. MissingField at /foo
		fmt.Fprintf(b, "%s at %s", it.Type, it.renderLoc())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// ErrorItem is the wire shape of one located error.
type ErrorItem struct {
	ErrorType string `json:"error_type"`
	Location  []any  `json:"location"`
}

// Items renders the errors in emission order with root-to-leaf locations.
func (le LineErrors) Items() []ErrorItem {
	out := make([]ErrorItem, len(le))
	for i, e := range le {
		out[i] = ErrorItem{ErrorType: e.Type, Location: e.Location()}
	}
	return out
}

// AsLineErrors extracts LineErrors from an error using errors.As internally.
// The second return is false for fatal (non-collectible) errors.
func AsLineErrors(err error) (LineErrors, bool) {
	if err == nil {
		return nil, false
	}
	var le LineErrors
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// withLoc pushes loc onto every line error carried by err and returns the
// updated list. Fatal errors pass through untouched.
func withLoc(err error, loc LocItem) error {
	le, ok := AsLineErrors(err)
	if !ok {
		return err
	}
	for i := range le {
		le[i].revLoc = append(le[i].revLoc, loc)
	}
	return le
}
