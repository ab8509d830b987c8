package dsl

import "strings"

// splitPath splits a dotted path ("price.amount") into its segments.
func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

// lookup walks segs through nested mappings. It reports false when a segment
// is missing or an intermediate value is not a mapping.
func lookup(src any, segs []string) (any, bool) {
	cur := src
	for _, s := range segs {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[s]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// assign stores v at segs inside dst, creating intermediate mappings and
// replacing non-mapping intermediates.
func assign(dst map[string]any, segs []string, v any) {
	cur := dst
	for _, s := range segs[:len(segs)-1] {
		next, ok := cur[s].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[s] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, e := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = e
		}
		return out, true
	}
	return nil, false
}

// overlaps reports whether one path equals or prefixes the other.
func overlaps(a, b []string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
