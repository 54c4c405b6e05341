package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New("Point", []string{"x", "y", "z"})
	require.NoError(t, err)

	assert.Equal(t, "Point", s.Name())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"x", "y", "z"}, s.Slots())

	i, ok := s.Index("y")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = s.Index("w")
	assert.False(t, ok)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		slots    []string
	}{
		{name: "empty type name", typeName: "", slots: []string{"x"}},
		{name: "no slots", typeName: "Point", slots: nil},
		{name: "empty slot name", typeName: "Point", slots: []string{"x", ""}},
		{name: "duplicate slot", typeName: "Point", slots: []string{"x", "y", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.typeName, tt.slots)
			var schemaErr *SchemaError
			assert.ErrorAs(t, err, &schemaErr)
		})
	}
}

func TestSchema_SlotsIsCopy(t *testing.T) {
	s, err := New("Point", []string{"x", "y"})
	require.NoError(t, err)

	got := s.Slots()
	got[0] = "mutated"
	assert.Equal(t, []string{"x", "y"}, s.Slots(), "Slots must return a defensive copy")
}

func TestSchema_Fingerprint(t *testing.T) {
	a, err := New("Point", []string{"x", "y", "z"})
	require.NoError(t, err)
	b, err := New("Point", []string{"z", "x", "y"})
	require.NoError(t, err)

	assert.Equal(t, Fingerprint("Point", []string{"x", "y", "z"}), a.Fingerprint())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "slot order must not change the fingerprint")

	c, err := New("Point2D", []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
