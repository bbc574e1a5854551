package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies one cached upstream payload. It is built from a fixed
// operation tag plus the normalized parameters of that operation.
type Key struct {
	// Operation is the logical endpoint tag (e.g. "search", "recipeById").
	Operation string

	params map[string]string
}

// NewKey creates a key for the given operation.
func NewKey(operation string) Key {
	return Key{
		Operation: operation,
		params:    make(map[string]string),
	}
}

// Param adds a parameter verbatim (ids, counts, enum values).
// Empty values are omitted so absent optional fields never widen the
// key space.
func (k Key) Param(name, value string) Key {
	if value == "" {
		return k
	}
	if k.params == nil {
		k.params = make(map[string]string)
	}
	k.params[name] = value
	return k
}

// Text adds a free-text parameter. The value is trimmed and case-folded
// so "Chicken" and "chicken" derive the same key.
func (k Key) Text(name, value string) Key {
	return k.Param(name, strings.ToLower(strings.TrimSpace(value)))
}

// String generates a deterministic cache key string.
// Format: recipe:operation:param1=val1:param2=val2
//
// Parameters are sorted by name, so permutation of caller-supplied
// field order never changes the key.
//
// Example:
//
//	recipe:search:cuisine=italian:query=pasta
func (k Key) String() string {
	parts := []string{"recipe", k.Operation}

	if len(k.params) > 0 {
		names := make([]string, 0, len(k.params))
		for name := range k.params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.params[name]))
		}
	}

	return strings.Join(parts, ":")
}
