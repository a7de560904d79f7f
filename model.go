package recval

import (
	"fmt"
	"io"

	eng "github.com/recval/recval/internal/engine"
)

// Validate type-checks and converts a materialized value tree against the
// schema. On success it returns the validated record; on validation failure it
// returns LineErrors holding every located failure found in one pass. Any
// other error is fatal and carries no location.
func (s *Schema) Validate(input any) (*Record, error) {
	return s.validateValue(input)
}

// ValidateSource validates directly off a streaming token source without
// materializing an intermediate tree. The call owns the source until it
// returns, leaving the cursor exactly past the value it consumed.
func (s *Schema) ValidateSource(src Source) (*Record, error) {
	return s.validateSource(EngineTokenSource(src))
}

// ValidateJSON validates a JSON document using the configured driver.
func (s *Schema) ValidateJSON(b []byte) (*Record, error) {
	return s.ValidateSource(JSONBytes(b))
}

func (s *Schema) validateValue(input any) (*Record, error) {
	data := make([]*FieldValue, len(s.fields))
	seen := make([]bool, len(s.fields))
	var found int
	var errs LineErrors

	// The input must be a string-keyed mapping; anything else makes
	// field-by-field traversal meaningless, so DictType is returned alone.
	var lookupKey func(name string) (any, bool)
	switch m := input.(type) {
	case map[string]any:
		lookupKey = func(name string) (any, bool) { v, ok := m[name]; return v, ok }
	case map[any]any:
		// Non-string keys can never match a schema field and are skipped
		// silently, like any other unknown key.
		lookupKey = func(name string) (any, bool) { v, ok := m[name]; return v, ok }
	default:
		return nil, LineErrors{newLineError(CodeDictType)}
	}

	// Walk schema order over the mapping: unknown keys are never inspected and
	// every present field is attempted, so independent failures accumulate.
	for i := range s.fields {
		f := &s.fields[i]
		in, present := lookupKey(f.Name)
		if !present {
			continue
		}
		// Presence, not validity, governs requiredness: a field that was
		// supplied but failed validation is still "found".
		seen[i] = true
		found++
		fv, err := f.validator.validateValue(in)
		if err != nil {
			le, ok := AsLineErrors(withLoc(err, KeySegment(f.Name)))
			if !ok {
				return nil, err
			}
			errs = append(errs, le...)
			continue
		}
		data[i] = &fv
	}
	return s.finish(data, seen, found, errs)
}

// validateSource runs the streaming path. The first token of the value must be
// the object opener; nested model validation consumes exactly its own subtree
// so the caller can continue with sibling keys.
func (s *Schema) validateSource(src eng.TokenSource) (*Record, error) {
	first, err := src.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("recval: unexpected end of input: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	if first.Kind != eng.KindBeginObject {
		if err := eng.SkipFrom(src, first); err != nil {
			return nil, err
		}
		return nil, LineErrors{newLineError(CodeDictType)}
	}

	data := make([]*FieldValue, len(s.fields))
	seen := make([]bool, len(s.fields))
	var found int
	var errs LineErrors
	for {
		tok, err := src.NextToken()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("recval: unexpected end of input: %w", io.ErrUnexpectedEOF)
			}
			return nil, err
		}
		if tok.Kind == eng.KindEndObject {
			break
		}
		if tok.Kind != eng.KindKey {
			return nil, fmt.Errorf("recval: malformed stream: expected key, got token kind %d", tok.Kind)
		}
		idx, known := s.lookup[tok.String]
		if !known {
			// Skip the value's tokens without interpreting them to stay
			// position-synchronized with the stream.
			if err := eng.SkipValue(src); err != nil {
				return nil, err
			}
			continue
		}
		if !seen[idx] {
			seen[idx] = true
			found++
		}
		fv, err := s.fields[idx].validator.validateSource(src)
		if err != nil {
			le, ok := AsLineErrors(withLoc(err, KeySegment(tok.String)))
			if !ok {
				return nil, err
			}
			errs = append(errs, le...)
			continue
		}
		data[idx] = &fv
	}
	return s.finish(data, seen, found, errs)
}

// finish is the completion step shared by both input paths: required fields
// never seen in the input become MissingField errors, appended after the
// traversal errors in schema field order. A field that was present but failed
// validation is not additionally reported missing.
func (s *Schema) finish(data []*FieldValue, seen []bool, found int, errs LineErrors) (*Record, error) {
	if found != len(s.fields) {
		for i := range s.fields {
			if !seen[i] && s.fields[i].Required {
				errs = append(errs, newLineErrorAt(CodeMissingField, KeySegment(s.fields[i].Name)))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &Record{schema: s, data: data}, nil
}

// Record is a validated composite value: one optional FieldValue per schema
// field, in schema order. Absent non-required fields stay empty and are filled
// from the field default at access or serialization time.
type Record struct {
	schema *Schema
	data   []*FieldValue
}

// Schema returns the schema the record was validated against.
func (r *Record) Schema() *Schema { return r.schema }

// Len reports the number of fields.
func (r *Record) Len() int { return len(r.data) }

// Get returns the externally-representable value of the named field,
// substituting the field default when the field was absent. Nested model
// fields are returned as *Record. Unknown names are an error.
func (r *Record) Get(name string) (any, error) {
	idx, ok := r.schema.lookup[name]
	if !ok {
		return nil, fmt.Errorf("recval: no field %q", name)
	}
	if fv := r.data[idx]; fv != nil {
		return fv.Export(), nil
	}
	return r.schema.fields[idx].Default, nil
}
