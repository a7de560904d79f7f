package recval_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	recval "github.com/recval/recval"
)

func TestCompile_UnknownValidatorType(t *testing.T) {
	_, err := recval.Compile(recval.Descriptor{
		Type: "model",
		Fields: []recval.FieldDescriptor{
			{Name: "x", Schema: recval.Descriptor{Type: "decimal"}},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "decimal") {
		t.Fatalf("expected unknown validator error naming the type, got %v", err)
	}
}

func TestCompile_RootMustBeModel(t *testing.T) {
	_, err := recval.Compile(recval.Descriptor{Type: "string"})
	if err == nil {
		t.Fatalf("expected error for non-model root")
	}
}

func TestCompile_DuplicateField(t *testing.T) {
	_, err := recval.Compile(recval.Descriptor{
		Type: "model",
		Fields: []recval.FieldDescriptor{
			{Name: "x", Schema: recval.Descriptor{Type: "string"}},
			{Name: "x", Schema: recval.Descriptor{Type: "int"}},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate field error, got %v", err)
	}
}

func TestCompile_UnnamedField(t *testing.T) {
	_, err := recval.Compile(recval.Descriptor{
		Type:   "model",
		Fields: []recval.FieldDescriptor{{Schema: recval.Descriptor{Type: "string"}}},
	})
	if err == nil {
		t.Fatalf("expected error for unnamed field")
	}
}

func TestCompile_RefCarriedThrough(t *testing.T) {
	d := fooBarDesc()
	d.Ref = "host.MyModel"
	s := recval.MustCompile(d)
	if s.Ref() != "host.MyModel" {
		t.Fatalf("ref: got %v", s.Ref())
	}
	if got := len(s.Fields()); got != 2 {
		t.Fatalf("fields: got %d", got)
	}
	if s.Fields()[0].Name != "foo" || !s.Fields()[0].Required {
		t.Fatalf("unexpected first field %+v", s.Fields()[0])
	}
}

func TestDescriptorFromMap(t *testing.T) {
	m := map[string]any{
		"type": "model",
		"cls":  "host.MyModel",
		"fields": []any{
			map[string]any{
				"name":     "foo",
				"required": true,
				"schema":   map[string]any{"type": "string"},
			},
			map[string]any{
				"name":    "bar",
				"default": 123,
				"schema":  map[string]any{"type": "int"},
			},
		},
	}
	d, err := recval.DescriptorFromMap(m)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	s, err := recval.Compile(d)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rec, err := s.Validate(map[string]any{"foo": "hi"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := map[string]any{"foo": "hi", "bar": 123}
	if diff := cmp.Diff(want, rec.Dump()); diff != "" {
		t.Fatalf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptorFromYAML(t *testing.T) {
	doc := []byte(`
type: model
cls: host.MyModel
fields:
  - name: foo
    required: true
    schema:
      type: string
  - name: bar
    default: 123
    schema:
      type: int
  - name: child
    schema:
      type: model
      fields:
        - name: leaf
          required: true
          schema:
            type: string
`)
	d, err := recval.DescriptorFromYAML(doc)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	s, err := recval.Compile(d)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if s.Ref() != "host.MyModel" {
		t.Fatalf("ref: got %v", s.Ref())
	}
	rec, err := s.ValidateJSON([]byte(`{"foo":"hi","child":{"leaf":"l"}}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v, _ := rec.Get("bar"); v != 123 {
		t.Fatalf("bar default: got %v", v)
	}

	_, err = s.Validate(map[string]any{"foo": "hi", "child": map[string]any{}})
	items := mustItems(t, err)
	if len(items) != 1 || items[0].ErrorType != recval.CodeMissingField {
		t.Fatalf("expected MissingField, got %v", items)
	}
	if loc := items[0].Location; len(loc) != 2 || loc[0] != "child" || loc[1] != "leaf" {
		t.Fatalf("expected [child leaf], got %v", loc)
	}
}

func TestSchema_ConcurrentValidate(t *testing.T) {
	s := recval.MustCompile(fooBarDesc())
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 200; j++ {
				if _, err := s.Validate(map[string]any{"foo": "hi", "bar": j}); err != nil {
					done <- err
					return
				}
				if _, err := s.ValidateJSON([]byte(`{"foo":"hi"}`)); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent validate: %v", err)
		}
	}
}
