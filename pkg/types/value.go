package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

// Kind is the type a resolved constant is emitted as
type Kind int

const (
	// KindString is emitted as an untyped string constant
	KindString Kind = iota
	// KindBool is emitted as a bool constant
	KindBool
	// KindBytes is emitted as a []byte variable
	KindBytes
	// KindUint is emitted as a uint constant
	KindUint
	// KindTemplate is the string produced by template substitution
	KindTemplate
)

var kindNames = map[Kind]string{
	KindString:   "string",
	KindBool:     "bool",
	KindBytes:    "bytes",
	KindUint:     "uint",
	KindTemplate: "template",
}

// String returns the configuration name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// GoType returns the Go type the kind is declared with
func (k Kind) GoType() string {
	switch k {
	case KindBool:
		return "bool"
	case KindBytes:
		return "[]byte"
	case KindUint:
		return "uint"
	default:
		return "string"
	}
}

// IsConst reports whether the kind can be declared as a Go constant
func (k Kind) IsConst() bool {
	return k != KindBytes
}

// ParseKind parses a kind name as used in configuration files
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string", "str":
		return KindString, nil
	case "bool", "boolean":
		return KindBool, nil
	case "bytes", "slice", "[]byte":
		return KindBytes, nil
	case "uint", "usize", "unsigned":
		return KindUint, nil
	case "template":
		return KindTemplate, nil
	default:
		return KindString, errors.Newf(errors.ErrInvalidInput, "unknown constant kind: %s", s)
	}
}

// Value is a resolved build constant
type Value struct {
	// Description is the user-facing documentation, emitted as a comment
	Description string
	// Raw is the plain value; templates substitute this text
	Raw string
	// Kind selects how Raw is serialized
	Kind Kind
}

// StringValue creates a string value
func StringValue(desc, v string) Value {
	return Value{Description: desc, Raw: v, Kind: KindString}
}

// BoolValue creates a bool value
func BoolValue(desc string, v bool) Value {
	return Value{Description: desc, Raw: strconv.FormatBool(v), Kind: KindBool}
}

// BytesValue creates a byte-sequence value
func BytesValue(desc string, v []byte) Value {
	return Value{Description: desc, Raw: string(v), Kind: KindBytes}
}

// UintValue creates an unsigned integer value
func UintValue(desc string, v uint64) Value {
	return Value{Description: desc, Raw: strconv.FormatUint(v, 10), Kind: KindUint}
}

// Literal returns Raw serialized as Go literal syntax for Kind
func (v Value) Literal() (string, error) {
	switch v.Kind {
	case KindString, KindTemplate:
		return strconv.Quote(v.Raw), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Raw))
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrSerialization, "value %q is not a valid bool", v.Raw)
		}
		return strconv.FormatBool(b), nil
	case KindUint:
		n, err := strconv.ParseUint(strings.TrimSpace(v.Raw), 10, 64)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrSerialization, "value %q is not a valid unsigned integer", v.Raw)
		}
		return strconv.FormatUint(n, 10), nil
	case KindBytes:
		return "[]byte(" + strconv.Quote(v.Raw) + ")", nil
	default:
		return "", errors.Newf(errors.ErrSerialization, "unsupported constant kind %s", v.Kind)
	}
}

// Resolved pairs an identifier with its resolved value
type Resolved struct {
	Name  Identifier
	Value Value
}
