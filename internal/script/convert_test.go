package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestToStarlark(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string // starlark String() rendering
	}{
		{name: "nil", in: nil, want: "None"},
		{name: "string", in: "hello", want: `"hello"`},
		{name: "int", in: 42, want: "42"},
		{name: "int64", in: int64(1 << 40), want: "1099511627776"},
		{name: "float", in: 2.5, want: "2.5"},
		{name: "bool", in: true, want: "True"},
		{name: "string slice", in: []string{"a", "b"}, want: `["a", "b"]`},
		{name: "any slice", in: []any{1, "x"}, want: `[1, "x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toStarlark(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestToStarlark_Unsupported(t *testing.T) {
	_, err := toStarlark(struct{}{})
	assert.Error(t, err)
}

func TestFromStarlark(t *testing.T) {
	list := starlark.NewList([]starlark.Value{starlark.MakeInt(1), starlark.String("x")})

	dict := starlark.NewDict(1)
	require.NoError(t, dict.SetKey(starlark.String("k"), starlark.MakeInt(7)))

	tests := []struct {
		name string
		in   starlark.Value
		want any
	}{
		{name: "none", in: starlark.None, want: nil},
		{name: "string", in: starlark.String("s"), want: "s"},
		{name: "int", in: starlark.MakeInt(9), want: int64(9)},
		{name: "float", in: starlark.Float(1.5), want: 1.5},
		{name: "bool", in: starlark.Bool(false), want: false},
		{name: "list", in: list, want: []any{int64(1), "x"}},
		{name: "tuple", in: starlark.Tuple{starlark.MakeInt(2)}, want: []any{int64(2)}},
		{name: "dict", in: dict, want: map[string]any{"k": int64(7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromStarlark(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := map[string]any{
		"name":  "point",
		"count": int64(3),
		"tags":  []any{"a", "b"},
	}

	sv, err := toStarlark(in)
	require.NoError(t, err)
	out, err := fromStarlark(sv)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
