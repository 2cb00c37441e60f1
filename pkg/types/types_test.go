package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

func TestIdentifierValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      Identifier
		wantErr bool
	}{
		{"upper snake", "BUILD_OS", false},
		{"mixed case", "buildTime", false},
		{"leading underscore", "_private", false},
		{"empty", "", true},
		{"blank", "_", true},
		{"leading digit", "1ST", true},
		{"dash", "BUILD-OS", true},
		{"keyword", "func", true},
		{"init function", "init", true},
		{"main function", "main", true},
		{"capitalized init", "Init", false},
		{"non ascii", "ÉTAT", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidIdentifier))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSortIdentifiers(t *testing.T) {
	ids := []Identifier{"MSG", "BUILD_OS", "A"}
	SortIdentifiers(ids)
	assert.Equal(t, []Identifier{"A", "BUILD_OS", "MSG"}, ids)
	assert.Equal(t, []string{"A", "BUILD_OS", "MSG"}, IdentifierStrings(ids))
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"":         KindString,
		"string":   KindString,
		"Bool":     KindBool,
		"slice":    KindBytes,
		"[]byte":   KindBytes,
		"usize":    KindUint,
		"uint":     KindUint,
		"template": KindTemplate,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("float")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestKindGoType(t *testing.T) {
	assert.Equal(t, "string", KindString.GoType())
	assert.Equal(t, "string", KindTemplate.GoType())
	assert.Equal(t, "bool", KindBool.GoType())
	assert.Equal(t, "[]byte", KindBytes.GoType())
	assert.Equal(t, "uint", KindUint.GoType())
	assert.False(t, KindBytes.IsConst())
	assert.True(t, KindUint.IsConst())
}

func TestValueLiteral(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		want    string
		wantErr bool
	}{
		{"string", StringValue("d", "linux-amd64"), `"linux-amd64"`, false},
		{"string escapes", StringValue("d", "a \"b\"\n"), `"a \"b\"\n"`, false},
		{"template", Value{Raw: "say hi", Kind: KindTemplate}, `"say hi"`, false},
		{"bool", BoolValue("d", true), "true", false},
		{"bool normalized", Value{Raw: " 1 ", Kind: KindBool}, "true", false},
		{"bool invalid", Value{Raw: "yes", Kind: KindBool}, "", true},
		{"uint", UintValue("d", 42), "42", false},
		{"uint invalid", Value{Raw: "-1", Kind: KindUint}, "", true},
		{"bytes", BytesValue("d", []byte("ab\x00")), `[]byte("ab\x00")`, false},
		{"unknown kind", Value{Raw: "x", Kind: Kind(99)}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Literal()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrSerialization))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTriggerRoundTrip(t *testing.T) {
	path := PathTrigger("internal/gen/buildtiming_gen.go")
	env := EnvTrigger("SOURCE_DATE_EPOCH")

	assert.Equal(t, "buildtiming:rerun-if-changed=internal/gen/buildtiming_gen.go", path.String())
	assert.Equal(t, "buildtiming:rerun-if-env-changed=SOURCE_DATE_EPOCH", env.String())

	parsed, err := ParseTrigger(env.String())
	require.NoError(t, err)
	assert.Equal(t, env, parsed)

	for _, bad := range []string{"cargo:rerun-if-changed=x", "buildtiming:rerun-if-changed=", "buildtiming:explode=x"} {
		_, err := ParseTrigger(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveContext(t *testing.T) {
	ctx := NewResolveContext(nil, []Identifier{"B", "A"})

	_, state := ctx.Lookup("A")
	assert.Equal(t, LookupPending, state)

	_, state = ctx.Lookup("Z")
	assert.Equal(t, LookupUnknown, state)

	ctx.Record("A", "value")
	v, state := ctx.Lookup("A")
	assert.Equal(t, LookupResolved, state)
	assert.Equal(t, "value", v)

	assert.Equal(t, []Identifier{"A", "B"}, ctx.Known())
}
