package recval_test

import (
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	recval "github.com/recval/recval"
)

func TestDump_DefaultsMaterialized(t *testing.T) {
	s := recval.MustCompile(fooBarDesc())
	rec, err := s.Validate(map[string]any{"foo": "hi"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := map[string]any{"foo": "hi", "bar": 123}
	if diff := cmp.Diff(want, rec.Dump()); diff != "" {
		t.Fatalf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestDump_Idempotent(t *testing.T) {
	s := recval.MustCompile(fooBarDesc())
	rec, err := s.Validate(map[string]any{"foo": "hi", "bar": 9})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	first := rec.Dump()
	second := rec.Dump()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("dump not stable (-first +second):\n%s", diff)
	}

	// An equivalent input through the streaming path dumps identically.
	rec2, err := s.ValidateJSON([]byte(`{"bar":9,"foo":"hi"}`))
	if err != nil {
		t.Fatalf("validate stream: %v", err)
	}
	if diff := cmp.Diff(first, rec2.Dump()); diff != "" {
		t.Fatalf("paths disagree (-value +stream):\n%s", diff)
	}
}

func TestDumpJSON_Canonical(t *testing.T) {
	s := recval.MustCompile(fooBarDesc())
	rec, err := s.Validate(map[string]any{"foo": "hi"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, err := rec.DumpJSON()
	if err != nil {
		t.Fatalf("dump json: %v", err)
	}
	// Schema field order, defaults included.
	if out != `{"foo":"hi","bar":123}` {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDumpJSON_RoundTrip(t *testing.T) {
	s := recval.MustCompile(fooBarDesc())
	rec, err := s.ValidateJSON([]byte(`{"bar":456,"foo":"hi"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, err := rec.DumpJSON()
	if err != nil {
		t.Fatalf("dump json: %v", err)
	}
	var reparsed map[string]any
	if err := gojson.Unmarshal([]byte(out), &reparsed); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	want := map[string]any{"foo": "hi", "bar": float64(456)}
	if diff := cmp.Diff(want, reparsed); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpJSON_Nested(t *testing.T) {
	s := recval.MustCompile(nestedDesc())
	rec, err := s.ValidateJSON([]byte(`{"name":"n","child":{"leaf":"l"}}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, err := rec.DumpJSON()
	if err != nil {
		t.Fatalf("dump json: %v", err)
	}
	if out != `{"name":"n","child":{"leaf":"l","count":0}}` {
		t.Fatalf("unexpected output %q", out)
	}

	want := map[string]any{
		"name":  "n",
		"child": map[string]any{"leaf": "l", "count": 0},
	}
	if diff := cmp.Diff(want, rec.Dump()); diff != "" {
		t.Fatalf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpJSON_ExternalDefaultShapes(t *testing.T) {
	s := recval.MustCompile(recval.Descriptor{
		Type: "model",
		Fields: []recval.FieldDescriptor{
			{Name: "tags", Default: []any{"a", 1, nil}, Schema: recval.Descriptor{Type: "string"}},
			{Name: "meta", Default: map[string]any{"b": true, "a": 1.5}, Schema: recval.Descriptor{Type: "int"}},
		},
	})
	rec, err := s.Validate(map[string]any{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, err := rec.DumpJSON()
	if err != nil {
		t.Fatalf("dump json: %v", err)
	}
	// Nested map keys are sorted for determinism.
	if out != `{"tags":["a",1,null],"meta":{"a":1.5,"b":true}}` {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDumpJSON_UnsupportedType(t *testing.T) {
	s := recval.MustCompile(recval.Descriptor{
		Type: "model",
		Fields: []recval.FieldDescriptor{
			{Name: "bad", Default: struct{ X int }{1}, Schema: recval.Descriptor{Type: "string"}},
		},
	})
	rec, err := s.Validate(map[string]any{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := rec.DumpJSON(); err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

func TestDumpJSON_StringEscaping(t *testing.T) {
	s := recval.MustCompile(recval.Descriptor{
		Type: "model",
		Fields: []recval.FieldDescriptor{
			{Name: "s", Required: true, Schema: recval.Descriptor{Type: "string"}},
		},
	})
	rec, err := s.Validate(map[string]any{"s": "a\"b\n"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	out, err := rec.DumpJSON()
	if err != nil {
		t.Fatalf("dump json: %v", err)
	}
	var got map[string]any
	if err := gojson.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got["s"] != "a\"b\n" {
		t.Fatalf("escaping lost: %q", got["s"])
	}
}
