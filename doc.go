package recval

// Package recval provides:
//
// - Schema-compiled validation of untyped inputs into strongly-typed records
//   (Validate for materialized value trees, ValidateSource for token streams)
// - A stable error model via LineErrors (error kind + root-to-leaf location)
//   that accumulates every failure instead of stopping at the first
// - Canonical serialization of validated records (Dump/DumpJSON) with a
//   native-value fast path and a structural fallback for externally-owned values
// - Pluggable streaming drivers via Source/JSONDriver (encoding/json by
//   default; go-json installed by importing the source package)
//
// Design policy:
// - Keep only public APIs in the root package; put token plumbing under internal/.
// - Place stream drivers under source/, one package per backing decoder.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema, err := recval.Compile(desc)
//	rec, err := schema.Validate(map[string]any{"foo": "hi"})
//	rec, err = schema.ValidateJSON([]byte(`{"foo":"hi"}`))
//	out, err := rec.DumpJSON()
