package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps free-form configuration strings onto a closed set of values.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
	validKeys    []string // sorted, for error messages
}

// NewNormalizer creates a normalizer from string->value pairs.
// Keys are trimmed and lower-cased the same way input is.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))

	for k, v := range values {
		key := fold(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize converts raw to a known value, or the default when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, ok := n.validValues[fold(raw)]; ok {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError is Normalize, but unknown input yields the default
// together with an error listing the accepted keys.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if value, ok := n.validValues[fold(raw)]; ok {
		return value, nil
	}
	return n.defaultValue, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns the accepted keys in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
