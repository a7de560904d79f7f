package recval

import "sort"

// ValueKind enumerates the shapes a native Value can take.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// Value is the recursive native representation of validated data. It is a
// tagged union: exactly the fields for its kind are meaningful.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

func None() Value                  { return Value{kind: KindNone} }
func Bool(b bool) Value            { return Value{kind: KindBool, b: b} }
func Int(i int64) Value            { return Value{kind: KindInt, i: i} }
func Float(f float64) Value        { return Value{kind: KindFloat, f: f} }
func String(s string) Value        { return Value{kind: KindString, s: s} }
func List(items []Value) Value     { return Value{kind: KindList, list: items} }
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// Kind reports the shape of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Interface projects the value onto plain Go types: nil, bool, int64, float64,
// string, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, it := range v.list {
			out[i] = it.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, mv := range v.m {
			out[k] = mv.Interface()
		}
		return out
	default:
		return nil
	}
}

// sortedMapKeys returns the map keys in ascending order so serialization stays
// deterministic regardless of Go map iteration order.
func (v Value) sortedMapKeys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FieldValue is the validated result for one field. It carries a native Value,
// an opaque externally-owned value, or both. When both are present the native
// Value is canonical; an external-only value is converted lazily, by structural
// walk, only when serialization asks for it.
type FieldValue struct {
	native      Value
	external    any
	hasNative   bool
	hasExternal bool
}

// NativeField wraps a native Value.
func NativeField(v Value) FieldValue { return FieldValue{native: v, hasNative: true} }

// ExternalField wraps an externally-owned value the validator did not re-derive.
func ExternalField(v any) FieldValue { return FieldValue{external: v, hasExternal: true} }

// BothField wraps the dual representation; the native Value is canonical.
func BothField(v Value, ext any) FieldValue {
	return FieldValue{native: v, external: ext, hasNative: true, hasExternal: true}
}

// Export returns the externally-representable form of the field value: the
// external handle when one is held, otherwise the native projection.
func (fv FieldValue) Export() any {
	if fv.hasExternal {
		return fv.external
	}
	return fv.native.Interface()
}
