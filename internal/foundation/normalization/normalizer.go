// Package normalization turns loosely written configuration strings into typed enums.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps case- and whitespace-insensitive spellings onto enum values.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewNormalizer creates a normalizer. Several spellings may map to the same value.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))
	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &Normalizer[T]{values: normalized, defaultValue: defaultValue, keys: keys}
}

// Normalize returns the enum for raw, or the default when raw is not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.Lookup(raw); ok {
		return v
	}
	return n.defaultValue
}

// Lookup returns the enum for raw and whether raw was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[clean(raw)]
	return v, ok
}

// NormalizeWithError returns an error listing the accepted spellings when raw is unknown.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.keys)
}

// Default returns the fallback value.
func (n *Normalizer[T]) Default() T {
	return n.defaultValue
}

// ValidKeys returns all accepted spellings, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
