package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchema(t *testing.T, name string, slotNames ...string) *Schema {
	t.Helper()
	s, err := New(name, slotNames)
	require.NoError(t, err)
	return s
}

func TestConstruct(t *testing.T) {
	s := mustSchema(t, "Point", "x", "y", "z")

	// Values land in their slots by position, reference-identical.
	v0, v1, v2 := &struct{ n int }{0}, &struct{ n int }{1}, &struct{ n int }{2}
	inst, err := s.Construct(v0, v1, v2)
	require.NoError(t, err)

	for i, want := range []any{v0, v1, v2} {
		got, err := inst.Get(s.Slots()[i])
		require.NoError(t, err)
		assert.Same(t, want, got, "slot %d", i)
	}
}

func TestConstruct_ArityMismatch(t *testing.T) {
	s := mustSchema(t, "Point", "x", "y", "z")

	tests := []struct {
		name   string
		values []any
	}{
		{name: "too few", values: []any{1, 2}},
		{name: "too many", values: []any{1, 2, 3, 4}},
		{name: "none", values: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Construct(tt.values...)
			var arityErr *ArityError
			require.ErrorAs(t, err, &arityErr)
			assert.Equal(t, 3, arityErr.Want)
			assert.Equal(t, len(tt.values), arityErr.Got)
		})
	}
}

func TestInstance_SetGet(t *testing.T) {
	s := mustSchema(t, "Point", "x", "y")
	inst := s.NewInstance()

	_, err := inst.Get("x")
	var getErr *GetError
	assert.ErrorAs(t, err, &getErr, "reading an unset slot must fail")

	require.NoError(t, inst.Set("x", 42))
	got, err := inst.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	// nil is a legitimate stored value, distinct from unset.
	require.NoError(t, inst.Set("y", nil))
	got, err = inst.Get("y")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, inst.Has("y"))
}

func TestInstance_SetUnknownSlot(t *testing.T) {
	s := mustSchema(t, "Point", "x", "y")
	inst := s.NewInstance()

	err := inst.Set("w", 1)
	var setErr *SetError
	require.ErrorAs(t, err, &setErr)
	assert.Equal(t, "w", setErr.Slot)
}

func TestInstance_Freeze(t *testing.T) {
	s := mustSchema(t, "Point", "x")
	inst := s.NewInstance()
	require.NoError(t, inst.Set("x", 1))

	inst.Freeze()
	assert.True(t, inst.Frozen())

	err := inst.Set("x", 2)
	var setErr *SetError
	require.ErrorAs(t, err, &setErr)

	// The frozen write must not have gone through.
	got, err := inst.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestInstance_Pairs(t *testing.T) {
	s := mustSchema(t, "Point", "x", "y", "z")
	inst := s.NewInstance()
	require.NoError(t, inst.Set("z", 3))
	require.NoError(t, inst.Set("x", 1))

	// Pairs follow schema slot order regardless of write order; unset slots
	// are skipped.
	assert.Equal(t, []Pair{{Name: "x", Value: 1}, {Name: "z", Value: 3}}, inst.Pairs())
}

func TestInstance_Equal(t *testing.T) {
	point := mustSchema(t, "Point", "x", "y", "z")
	other := mustSchema(t, "Vector", "x", "y", "z")
	wider := mustSchema(t, "Point4", "x", "y", "z", "w")

	a, err := point.Construct(1, 2, 3)
	require.NoError(t, err)

	b, err := point.Construct(1, 2, 3)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	// Equality is attribute-wise: the type name does not participate.
	c, err := other.Construct(1, 2, 3)
	require.NoError(t, err)
	assert.True(t, a.Equal(c))

	d, err := point.Construct(1, 2, 4)
	require.NoError(t, err)
	assert.False(t, a.Equal(d), "different values")

	e, err := wider.Construct(1, 2, 3, 4)
	require.NoError(t, err)
	assert.False(t, a.Equal(e), "different slot counts")

	assert.False(t, a.Equal(nil))
}

func TestInstance_String(t *testing.T) {
	s := mustSchema(t, "SlotsObject", "x", "y")
	inst, err := s.Construct(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "SlotsObject(x=1, y=2)", inst.String())

	partial := s.NewInstance()
	require.NoError(t, partial.Set("y", 2))
	assert.Equal(t, "SlotsObject(x=<unset>, y=2)", partial.String())
}
