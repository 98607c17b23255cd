package utils

import (
	"strings"

	"github.com/google/uuid"
)

func UUIDv4NoDash() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// PrefixedID returns "{prefix}-{base}-{8 hex}", the id shape used for
// generated policy and contract definitions.
func PrefixedID(prefix, base string) string {
	suffix := UUIDv4NoDash()[:8]
	if base == "" {
		return prefix + "-" + suffix
	}
	return prefix + "-" + base + "-" + suffix
}
