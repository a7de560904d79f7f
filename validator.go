package recval

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	eng "github.com/recval/recval/internal/engine"
)

// validatorKind enumerates the closed set of validator variants. Adding a kind
// is a compile-time schema decision, which keeps dispatch an exhaustive switch
// on the hot path.
type validatorKind int

const (
	validateString validatorKind = iota
	validateInt
	validateModel
)

type validator struct {
	kind  validatorKind
	model *Schema // set iff kind == validateModel
}

func compileValidator(d Descriptor) (validator, error) {
	switch d.Type {
	case "string":
		return validator{kind: validateString}, nil
	case "int":
		return validator{kind: validateInt}, nil
	case "model":
		sub, err := compileModel(d)
		if err != nil {
			return validator{}, err
		}
		return validator{kind: validateModel, model: sub}, nil
	default:
		return validator{}, fmt.Errorf("unknown validator type %q", d.Type)
	}
}

// validateValue checks a materialized value. Returned LineErrors carry no
// location for the current field; pushing the field key is the caller's job so
// nested model errors are never double-prefixed.
func (v validator) validateValue(in any) (FieldValue, error) {
	switch v.kind {
	case validateString:
		switch s := in.(type) {
		case string:
			// Keep the original handle; the native form shares its backing.
			return BothField(String(s), s), nil
		case []byte:
			if !utf8.Valid(s) {
				return FieldValue{}, LineErrors{newLineError(CodeStringUnicode)}
			}
			return NativeField(String(string(s))), nil
		default:
			return FieldValue{}, LineErrors{newLineError(CodeStringType)}
		}
	case validateInt:
		return validateIntValue(in)
	case validateModel:
		rec, err := v.model.validateValue(in)
		if err != nil {
			return FieldValue{}, err
		}
		return ExternalField(rec), nil
	default:
		return FieldValue{}, fmt.Errorf("recval: corrupt validator kind %d", v.kind)
	}
}

// validateSource consumes exactly one value's tokens off the source. On a kind
// mismatch the remaining tokens of the value are skipped so the cursor stays
// positioned at the next sibling key.
func (v validator) validateSource(src eng.TokenSource) (FieldValue, error) {
	switch v.kind {
	case validateString:
		tok, err := src.NextToken()
		if err != nil {
			return FieldValue{}, err
		}
		if tok.Kind == eng.KindString {
			return NativeField(String(tok.String)), nil
		}
		if err := eng.SkipFrom(src, tok); err != nil {
			return FieldValue{}, err
		}
		return FieldValue{}, LineErrors{newLineError(CodeStringType)}
	case validateInt:
		tok, err := src.NextToken()
		if err != nil {
			return FieldValue{}, err
		}
		if tok.Kind != eng.KindNumber {
			if err := eng.SkipFrom(src, tok); err != nil {
				return FieldValue{}, err
			}
			return FieldValue{}, LineErrors{newLineError(CodeIntType)}
		}
		i, code := parseIntToken(tok.Number)
		if code != "" {
			return FieldValue{}, LineErrors{newLineError(code)}
		}
		return NativeField(Int(i)), nil
	case validateModel:
		rec, err := v.model.validateSource(src)
		if err != nil {
			return FieldValue{}, err
		}
		return ExternalField(rec), nil
	default:
		return FieldValue{}, fmt.Errorf("recval: corrupt validator kind %d", v.kind)
	}
}

func validateIntValue(in any) (FieldValue, error) {
	switch n := in.(type) {
	case int:
		return NativeField(Int(int64(n))), nil
	case int64:
		return NativeField(Int(n)), nil
	case int32:
		return NativeField(Int(int64(n))), nil
	case int16:
		return NativeField(Int(int64(n))), nil
	case int8:
		return NativeField(Int(int64(n))), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return FieldValue{}, LineErrors{newLineError(CodeIntTooBig)}
		}
		return NativeField(Int(int64(n))), nil
	case uint64:
		if n > math.MaxInt64 {
			return FieldValue{}, LineErrors{newLineError(CodeIntTooBig)}
		}
		return NativeField(Int(int64(n))), nil
	case uint32:
		return NativeField(Int(int64(n))), nil
	case uint16:
		return NativeField(Int(int64(n))), nil
	case uint8:
		return NativeField(Int(int64(n))), nil
	case json.Number:
		i, code := parseIntToken(string(n))
		if code != "" {
			return FieldValue{}, LineErrors{newLineError(code)}
		}
		return NativeField(Int(i)), nil
	case float64:
		return intFromFloat(n)
	case float32:
		return intFromFloat(float64(n))
	default:
		return FieldValue{}, LineErrors{newLineError(CodeIntType)}
	}
}

// intFromFloat accepts floats that hold an exact 64-bit integer, which is what
// stdlib-decoded JSON hands over for numbers when UseNumber is off.
func intFromFloat(f float64) (FieldValue, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return FieldValue{}, LineErrors{newLineError(CodeIntType)}
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return FieldValue{}, LineErrors{newLineError(CodeIntTooBig)}
	}
	return NativeField(Int(int64(f))), nil
}

// parseIntToken parses a numeric literal as int64, classifying failures:
// integral but out of 64-bit range reports CodeIntTooBig (big integers are out
// of scope, never truncated), anything non-integral reports CodeIntType.
func parseIntToken(s string) (int64, string) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, ""
	}
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		return 0, CodeIntTooBig
	}
	return 0, CodeIntType
}
