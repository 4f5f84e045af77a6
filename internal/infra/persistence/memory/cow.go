package memory

// The helpers below always return freshly allocated slices so that
// committed snapshots sharing the input are never written through.

func indexOf[T any](items []T, match func(T) bool) int {
	for i, v := range items {
		if match(v) {
			return i
		}
	}
	return -1
}

func appendCopy[T any](items []T, v T) []T {
	out := make([]T, len(items)+1)
	copy(out, items)
	out[len(items)] = v
	return out
}

func prependCopy[T any](items []T, v T) []T {
	out := make([]T, len(items)+1)
	out[0] = v
	copy(out[1:], items)
	return out
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// withKey returns a copy of m with key set to v.
func withKey[V any](m map[string]V, key string, v V) map[string]V {
	out := make(map[string]V, len(m)+1)
	for k, val := range m {
		out[k] = val
	}
	out[key] = v
	return out
}

// withoutKeys returns a copy of m without the given keys. m is returned
// unchanged when none of the keys is present.
func withoutKeys[V any](m map[string]V, keys ...string) map[string]V {
	present := false
	for _, k := range keys {
		if _, ok := m[k]; ok {
			present = true
			break
		}
	}
	if !present {
		return m
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		if _, skip := drop[k]; !skip {
			out[k] = v
		}
	}
	return out
}

func keepIfEmpty(dst *string, old string) {
	if *dst == "" {
		*dst = old
	}
}
