// Package fragment renders resolved constants as a Go source file.
//
// The whole file is built in memory and gofmt-formatted before anyone
// writes it, so a failed render never leaves a partial file behind.
// Rendering the same constants twice yields identical bytes.
package fragment

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strings"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Header marks the file as generated so tools leave it alone
const Header = "// Code generated by buildtiming. DO NOT EDIT."

// DefaultPackage is used when no package name is configured
const DefaultPackage = "buildtiming"

// Declaration is one emitted constant
type Declaration struct {
	Name        types.Identifier
	Kind        types.Kind
	Literal     string
	Description string
}

// Fragment is the ordered set of declarations for one generated file
type Fragment struct {
	Package      string
	Declarations []Declaration
}

// New builds a fragment from resolved constants, keeping their order
func New(pkg string, resolved []types.Resolved) (*Fragment, error) {
	if pkg == "" {
		pkg = DefaultPackage
	}
	if !token.IsIdentifier(pkg) || pkg == "_" {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid package name %q", pkg)
	}

	f := &Fragment{Package: pkg, Declarations: make([]Declaration, 0, len(resolved))}
	for _, r := range resolved {
		lit, err := r.Value.Literal()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSerialization, "constant %s cannot be serialized", r.Name).
				WithDetail("constant", r.Name.String())
		}
		f.Declarations = append(f.Declarations, Declaration{
			Name:        r.Name,
			Kind:        r.Value.Kind,
			Literal:     lit,
			Description: r.Value.Description,
		})
	}
	return f, nil
}

// Render returns the formatted Go source
func (f *Fragment) Render() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(Header)
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "package %s\n", f.Package)

	for _, d := range f.Declarations {
		buf.WriteString("\n")
		writeComment(&buf, d)
		switch {
		case !d.Kind.IsConst():
			fmt.Fprintf(&buf, "var %s = %s\n", d.Name, d.Literal)
		case d.Kind == types.KindUint:
			fmt.Fprintf(&buf, "const %s uint = %s\n", d.Name, d.Literal)
		default:
			fmt.Fprintf(&buf, "const %s = %s\n", d.Name, d.Literal)
		}
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSerialization, "generated source is not valid Go")
	}
	return src, nil
}

// WriteTo renders the fragment into w
func (f *Fragment) WriteTo(w io.Writer) (int64, error) {
	src, err := f.Render()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(src)
	return int64(n), err
}

func writeComment(buf *bytes.Buffer, d Declaration) {
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		fmt.Fprintf(buf, "// %s is a build constant.\n", d.Name)
		return
	}
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			buf.WriteString("//\n")
			continue
		}
		buf.WriteString("// " + line + "\n")
	}
}
