package vsx

import (
	"strings"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
)

// ID is an extension identifier in canonical (lower-cased) "publisher.name" form.
type ID string

// ParseID validates s and returns its canonical form.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if err := vsxerrors.ValidateExtensionID(s); err != nil {
		return "", err
	}
	return ID(strings.ToLower(s)), nil
}

// Canon lower-cases s without validating it. Member lists come from
// third-party manifests and are taken as given.
func Canon(s string) ID {
	return ID(strings.ToLower(strings.TrimSpace(s)))
}

// Publisher returns the part before the first dot.
func (id ID) Publisher() string {
	p, _, _ := strings.Cut(string(id), ".")
	return p
}

// Name returns the part after the first dot.
func (id ID) Name() string {
	_, n, _ := strings.Cut(string(id), ".")
	return n
}

func (id ID) String() string { return string(id) }
