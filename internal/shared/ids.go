package shared

import (
	"strings"

	"github.com/google/uuid"
)

// Document id prefixes.
const (
	PrefixSchool    = "scid-"
	PrefixClassroom = "clid-"
	PrefixStudent   = "stid-"
)

// NewID returns prefix followed by ten hex characters of a random UUID.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
