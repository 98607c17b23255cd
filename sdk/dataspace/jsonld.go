// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataspace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Lookup returns the first value found in obj under any of the given keys.
func Lookup(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// AsList normalizes a JSON-LD value that may be a single object or an array.
func AsList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// Objects is AsList restricted to JSON objects. Nested arrays are flattened
// in document order; scalars are dropped.
func Objects(v any) []map[string]any {
	var out []map[string]any
	for _, it := range AsList(v) {
		switch t := it.(type) {
		case map[string]any:
			out = append(out, t)
		case []any:
			out = append(out, Objects(t)...)
		}
	}
	return out
}

// StringValue reads a plain string, a value object ({"@value": ...}) or a
// node reference ({"@id": ...}). Numbers and booleans are formatted.
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if val, ok := t["@value"]; ok {
			return StringValue(val)
		}
		if id, ok := t["@id"]; ok {
			return StringValue(id)
		}
		return ""
	case []any:
		if len(t) > 0 {
			return StringValue(t[0])
		}
		return ""
	case float64, bool, json.Number:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// LookupString is Lookup followed by StringValue; empty values are skipped.
func LookupString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := StringValue(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

// ID returns the @id of a node object.
func ID(obj map[string]any) string {
	return LookupString(obj, "@id", "id")
}

// LocalName strips a namespace prefix (compact "edc:x" or IRI ".../x", "...#x").
func LocalName(term string) string {
	if i := strings.LastIndexAny(term, ":/#"); i >= 0 && i < len(term)-1 {
		return term[i+1:]
	}
	return term
}
