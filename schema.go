package recval

import "fmt"

// Field is one compiled field of a Schema.
type Field struct {
	Name     string
	Required bool
	// Default is the externally-owned value substituted for the field when it
	// is absent and not required. It is never validated; serialization walks
	// it structurally.
	Default   any
	validator validator
}

// Schema is the compiled, immutable form of a model descriptor: the ordered
// field list plus a name lookup built once at compile time. A Schema is safe
// for unbounded concurrent use; nothing mutates it after Compile returns.
type Schema struct {
	fields []Field
	lookup map[string]int
	ref    any
}

// Compile builds a Schema from a model descriptor. Descriptor problems are
// reported here, never during validation.
func Compile(d Descriptor) (*Schema, error) {
	if d.Type != "model" {
		return nil, fmt.Errorf("recval: root descriptor must be a model, got %q", d.Type)
	}
	return compileModel(d)
}

// MustCompile is Compile panicking on error, for schemas known at build time.
func MustCompile(d Descriptor) *Schema {
	s, err := Compile(d)
	if err != nil {
		panic(err)
	}
	return s
}

func compileModel(d Descriptor) (*Schema, error) {
	fields := make([]Field, 0, len(d.Fields))
	lookup := make(map[string]int, len(d.Fields))
	for i, fd := range d.Fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("recval: field %d has no name", i)
		}
		if _, dup := lookup[fd.Name]; dup {
			return nil, fmt.Errorf("recval: duplicate field %q", fd.Name)
		}
		v, err := compileValidator(fd.Schema)
		if err != nil {
			return nil, fmt.Errorf("recval: field %q: %w", fd.Name, err)
		}
		fields = append(fields, Field{
			Name:      fd.Name,
			Required:  fd.Required,
			Default:   fd.Default,
			validator: v,
		})
		lookup[fd.Name] = i
	}
	return &Schema{fields: fields, lookup: lookup, ref: d.Ref}, nil
}

// Ref returns the opaque host-type handle carried over from the descriptor.
func (s *Schema) Ref() any { return s.ref }

// Fields returns the schema's fields in declaration order. The slice must not
// be mutated.
func (s *Schema) Fields() []Field { return s.fields }

// Len reports the number of fields.
func (s *Schema) Len() int { return len(s.fields) }
