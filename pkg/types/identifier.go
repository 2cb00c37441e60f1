package types

import (
	"go/token"
	"sort"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

// Identifier names a build constant. It becomes the name of the generated
// Go declaration, so it must be a valid Go identifier.
type Identifier string

// String returns the identifier as a plain string
func (i Identifier) String() string {
	return string(i)
}

// Validate checks that the identifier can be emitted as a Go declaration name
func (i Identifier) Validate() error {
	s := string(i)
	if s == "" {
		return errors.New(errors.ErrInvalidIdentifier, "constant identifier cannot be empty")
	}
	for _, r := range s {
		if r > 0x7f {
			return errors.Newf(errors.ErrInvalidIdentifier, "constant identifier %q must be ASCII", s)
		}
	}
	if !token.IsIdentifier(s) {
		return errors.Newf(errors.ErrInvalidIdentifier, "constant identifier %q is not a valid Go identifier", s)
	}
	switch s {
	case "_":
		return errors.New(errors.ErrInvalidIdentifier, "constant identifier cannot be the blank identifier")
	case "init", "main":
		// package-level init and main must be functions
		return errors.Newf(errors.ErrInvalidIdentifier, "constant identifier %q is reserved for a function", s)
	}
	return nil
}

// SortIdentifiers sorts identifiers lexicographically in place
func SortIdentifiers(ids []Identifier) {
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
}

// IdentifierStrings converts identifiers to plain strings, preserving order
func IdentifierStrings(ids []Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
