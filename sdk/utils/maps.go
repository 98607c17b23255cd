// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

// MergeConfig defines how arrays of objects are merged: key is the field
// name (e.g. "odrl:permission"), value the property identifying an element
// (e.g. "@id").
type MergeConfig map[string]string

// MergeMaps merges overlay into base, giving precedence to overlay. Nested
// objects are merged recursively; arrays of objects listed in cfg are merged
// element by element, keeping the order of base and appending new elements.
// Neither input is modified.
func MergeMaps(base, overlay map[string]any, cfg MergeConfig) map[string]any {
	result := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		result[k] = v
	}

	for k, v2 := range overlay {
		v1, exists := result[k]
		m1, ok1 := v1.(map[string]any)
		m2, ok2 := v2.(map[string]any)
		switch {
		case exists && ok1 && ok2:
			result[k] = MergeMaps(m1, m2, cfg)
		case exists && cfg != nil && cfg[k] != "":
			a1, ok1 := v1.([]any)
			a2, ok2 := v2.([]any)
			if ok1 && ok2 && allObjects(a1) && allObjects(a2) {
				result[k] = mergeObjectsByKey(a1, a2, cfg[k], cfg)
			} else {
				result[k] = v2
			}
		default:
			result[k] = v2
		}
	}
	return result
}

func mergeObjectsByKey(base, overlay []any, key string, cfg MergeConfig) []any {
	out := make([]any, 0, len(base)+len(overlay))
	pos := map[any]int{}
	for _, item := range base {
		m := item.(map[string]any)
		if id, ok := m[key]; ok {
			pos[id] = len(out)
		}
		out = append(out, m)
	}
	for _, item := range overlay {
		m := item.(map[string]any)
		id, ok := m[key]
		if i, found := pos[id]; ok && found {
			out[i] = MergeMaps(out[i].(map[string]any), m, cfg)
			continue
		}
		if ok {
			pos[id] = len(out)
		}
		out = append(out, m)
	}
	return out
}

func allObjects(arr []any) bool {
	for _, item := range arr {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}
