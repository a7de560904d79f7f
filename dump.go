package recval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Dump returns the record as a name-to-value mapping with field defaults
// materialized for absent fields. Nested model fields are materialized
// recursively into plain mappings.
func (r *Record) Dump() map[string]any {
	out := make(map[string]any, len(r.schema.fields))
	for i := range r.schema.fields {
		f := &r.schema.fields[i]
		var v any
		if fv := r.data[i]; fv != nil {
			v = fv.Export()
		} else {
			v = f.Default
		}
		if rec, ok := v.(*Record); ok {
			v = rec.Dump()
		}
		out[f.Name] = v
	}
	return out
}

// DumpJSON serializes the record to canonical JSON: fields in schema order,
// nested map keys sorted. Present fields use the native Value fast path when
// one is held; externally-owned values (including field defaults) are walked
// structurally and fail the whole serialization on unsupported shapes.
func (r *Record) DumpJSON() (string, error) {
	var b bytes.Buffer
	if err := r.appendJSON(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Record) appendJSON(b *bytes.Buffer) error {
	b.WriteByte('{')
	for i := range r.schema.fields {
		f := &r.schema.fields[i]
		if i > 0 {
			b.WriteByte(',')
		}
		if err := appendJSONString(b, f.Name); err != nil {
			return err
		}
		b.WriteByte(':')
		fv := r.data[i]
		switch {
		case fv == nil:
			if err := appendExternalJSON(b, f.Default); err != nil {
				return err
			}
		case fv.hasNative:
			if err := appendValueJSON(b, fv.native); err != nil {
				return err
			}
		default:
			if err := appendExternalJSON(b, fv.external); err != nil {
				return err
			}
		}
	}
	b.WriteByte('}')
	return nil
}

func appendJSONString(b *bytes.Buffer, s string) error {
	enc, err := gojson.Marshal(s)
	if err != nil {
		return err
	}
	b.Write(enc)
	return nil
}

func appendValueJSON(b *bytes.Buffer, v Value) error {
	switch v.Kind() {
	case KindNone:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		enc, err := gojson.Marshal(v.f)
		if err != nil {
			return err
		}
		b.Write(enc)
	case KindString:
		return appendJSONString(b, v.s)
	case KindList:
		b.WriteByte('[')
		for i, it := range v.list {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := appendValueJSON(b, it); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, k := range v.sortedMapKeys() {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := appendJSONString(b, k); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := appendValueJSON(b, v.m[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	}
	return nil
}

// appendExternalJSON translates an externally-owned value structurally. Only
// none/bool/string/integer/float/sequence/string-keyed-mapping shapes (and
// validated nested records) are representable.
func appendExternalJSON(b *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case string:
		return appendJSONString(b, x)
	case json.Number:
		// Already a validated numeric literal.
		b.WriteString(string(x))
	case int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int16:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case int8:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(x, 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint16:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint8:
		b.WriteString(strconv.FormatUint(uint64(x), 10))
	case float64:
		enc, err := gojson.Marshal(x)
		if err != nil {
			return err
		}
		b.Write(enc)
	case float32:
		enc, err := gojson.Marshal(x)
		if err != nil {
			return err
		}
		b.Write(enc)
	case []any:
		b.WriteByte('[')
		for i, it := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := appendExternalJSON(b, it); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := appendJSONString(b, k); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := appendExternalJSON(b, x[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case *Record:
		return x.appendJSON(b)
	default:
		return fmt.Errorf("recval: unsupported type %T", v)
	}
	return nil
}
