package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/recval/recval/internal/engine"
	jsonsrc "github.com/recval/recval/source/json"
)

func TestSkipValue_Structural(t *testing.T) {
	src := jsonsrc.NewBytes([]byte(`{"a":{"b":[1,2,{"c":null}]},"d":3}`))
	// Enter the object and position on the first value.
	tok, err := src.NextToken()
	if err != nil || tok.Kind != eng.KindBeginObject {
		t.Fatalf("begin: %v %v", tok, err)
	}
	tok, err = src.NextToken()
	if err != nil || tok.Kind != eng.KindKey || tok.String != "a" {
		t.Fatalf("key a: %v %v", tok, err)
	}
	if err := eng.SkipValue(src); err != nil {
		t.Fatalf("skip: %v", err)
	}
	// The cursor must land exactly on the sibling key.
	tok, err = src.NextToken()
	if err != nil || tok.Kind != eng.KindKey || tok.String != "d" {
		t.Fatalf("expected key d after skip, got %v %v", tok, err)
	}
	tok, err = src.NextToken()
	if err != nil || tok.Kind != eng.KindNumber || tok.Number != "3" {
		t.Fatalf("value d: %v %v", tok, err)
	}
}

func TestSkipValue_Scalar(t *testing.T) {
	src := jsonsrc.NewBytes([]byte(`{"a":true,"b":"x"}`))
	if _, err := src.NextToken(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := src.NextToken(); err != nil {
		t.Fatalf("key: %v", err)
	}
	if err := eng.SkipValue(src); err != nil {
		t.Fatalf("skip: %v", err)
	}
	tok, err := src.NextToken()
	if err != nil || tok.Kind != eng.KindKey || tok.String != "b" {
		t.Fatalf("expected key b, got %v %v", tok, err)
	}
}

func TestDecodeAny(t *testing.T) {
	src := jsonsrc.NewBytes([]byte(`{"a":[1,true,null],"b":"x"}`))
	v, err := eng.DecodeAny(src)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"a": []any{json.Number("1"), true, nil},
		"b": "x",
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}
