// Package normalization maps loosely written configuration and flag values
// onto enumerations.
package normalization

import (
	"sort"
	"strings"

	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
)

// EnumNormalizer resolves case-insensitive spellings onto values of T.
// Underscores and hyphens are interchangeable.
type EnumNormalizer[T comparable] struct {
	name     string
	values   map[string]T
	fallback T
	keys     []string
}

// NewEnumNormalizer builds a normalizer for the named enumeration. fallback
// is returned by Normalize for unknown input.
func NewEnumNormalizer[T comparable](name string, values map[string]T, fallback T) *EnumNormalizer[T] {
	e := &EnumNormalizer[T]{
		name:     name,
		values:   make(map[string]T, len(values)),
		fallback: fallback,
		keys:     make([]string, 0, len(values)),
	}
	for k, v := range values {
		k = key(k)
		e.values[k] = v
		e.keys = append(e.keys, k)
	}
	sort.Strings(e.keys)
	return e
}

// Normalize returns the value for raw, or the fallback.
func (e *EnumNormalizer[T]) Normalize(raw string) T {
	if v, ok := e.values[key(raw)]; ok {
		return v
	}
	return e.fallback
}

// NormalizeWithValidation returns the value for raw, or a validation error
// listing the accepted spellings.
func (e *EnumNormalizer[T]) NormalizeWithValidation(raw string) (T, error) {
	if v, ok := e.values[key(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, ferrors.ValidationErrorf("invalid %s %q, valid options: %s", e.name, raw, strings.Join(e.keys, ", ")).
		WithContext("value", raw).
		UserAction().
		Build()
}

// ValidValues returns the accepted spellings, sorted.
func (e *EnumNormalizer[T]) ValidValues() []string {
	return append([]string(nil), e.keys...)
}

func key(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}
