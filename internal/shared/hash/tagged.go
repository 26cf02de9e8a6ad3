package hash

import (
	"fmt"
	"strings"
)

const (
	tagOpen  = "{"
	tagClose = "}"
)

// Tag prefixes hashed with "{id}".
func Tag(id Strategy, hashed string) string {
	return tagOpen + string(id) + tagClose + hashed
}

// ParseTagged splits a stored value "{id}rest" into its Strategy and the
// untouched remainder. The value must start with "{"; the id ends at the
// first "}" and must be non-empty and brace-free.
func ParseTagged(stored string) (Strategy, string, error) {
	if !strings.HasPrefix(stored, tagOpen) {
		return "", "", fmt.Errorf("%w: missing %q prefix", ErrMalformedHash, tagOpen)
	}
	end := strings.Index(stored, tagClose)
	if end < 0 {
		return "", "", fmt.Errorf("%w: missing closing %q", ErrMalformedHash, tagClose)
	}
	id := Strategy(stored[len(tagOpen):end])
	if err := id.Validate(); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return id, stored[end+len(tagClose):], nil
}
