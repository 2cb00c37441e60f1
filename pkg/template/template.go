package template

import (
	"strings"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Lookup provides read access to the constants resolved so far
type Lookup interface {
	Lookup(name types.Identifier) (string, types.LookupState)
	Known() []types.Identifier
}

type segment struct {
	text string
	ref  bool
}

// parse splits a template into literal text and placeholder references
func parse(owner types.Identifier, tmpl string) ([]segment, error) {
	var (
		segments []segment
		lit      strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return nil, errors.Newf(errors.ErrInvalidInput,
					"template for %s has an unterminated placeholder at offset %d", owner, i).
					WithDetail("template", tmpl)
			}
			name := strings.TrimSpace(tmpl[i+1 : i+1+end])
			if name == "" {
				return nil, errors.Newf(errors.ErrInvalidInput,
					"template for %s has an empty placeholder at offset %d", owner, i).
					WithDetail("template", tmpl)
			}
			flush()
			segments = append(segments, segment{text: name, ref: true})
			i += end + 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return segments, nil
}

// Substitute replaces every placeholder in tmpl with the resolved value it
// names. owner is the constant the template belongs to and is only used in
// error messages.
func Substitute(owner types.Identifier, tmpl string, lookup Lookup) (string, error) {
	segments, err := parse(owner, tmpl)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, seg := range segments {
		if !seg.ref {
			out.WriteString(seg.text)
			continue
		}

		name := types.Identifier(seg.text)
		value, state := lookup.Lookup(name)
		switch state {
		case types.LookupResolved:
			out.WriteString(value)
		case types.LookupPending:
			return "", errors.Newf(errors.ErrForwardReference,
				"template %s references %s, which is not resolved yet (templates resolve in name order after all other constants)",
				owner, name).
				WithDetail("owner", owner.String()).
				WithDetail("identifier", name.String())
		default:
			return "", errors.UnknownConstant(owner.String(), name.String(),
				types.IdentifierStrings(lookup.Known()))
		}
	}

	return out.String(), nil
}

// References returns the identifiers a template refers to, in order of
// first appearance and without duplicates
func References(tmpl string) ([]types.Identifier, error) {
	segments, err := parse("", tmpl)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var refs []types.Identifier
	for _, seg := range segments {
		if seg.ref && !seen[seg.text] {
			seen[seg.text] = true
			refs = append(refs, types.Identifier(seg.text))
		}
	}
	return refs, nil
}
