package slots

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_OrderIndependent(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
	}{
		{name: "reversed", a: []string{"x", "y", "z"}, b: []string{"z", "y", "x"}},
		{name: "shuffled", a: []string{"a", "b", "c", "d"}, b: []string{"c", "a", "d", "b"}},
		{name: "duplicates ignored", a: []string{"x", "y"}, b: []string{"x", "y", "y", "x"}},
		{name: "empty", a: nil, b: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Fingerprint("SlotsObject", tt.a), Fingerprint("SlotsObject", tt.b))
		})
	}
}

func TestFingerprint_SensitiveToKeySet(t *testing.T) {
	one := Fingerprint("SlotsObject", []string{"x", "y"})
	two := Fingerprint("SlotsObject", []string{"x", "y", "z"})
	assert.NotEqual(t, one, two, "adding a key must change the fingerprint")

	renamed := Fingerprint("SlotsObject", []string{"x", "w"})
	assert.NotEqual(t, one, renamed, "renaming a key must change the fingerprint")
}

func TestFingerprint_SensitiveToName(t *testing.T) {
	keys := []string{"cat_id", "name"}
	assert.NotEqual(t, Fingerprint("category", keys), Fingerprint("product", keys))
}

func TestFingerprint_RandomKeySets(t *testing.T) {
	// Property check: distinct random key sets over the same name should
	// collide only with negligible probability.
	rng := rand.New(rand.NewSource(1))
	alphabet := "abcdefghijklmnopqrstuvwxyz"

	randomKey := func() string {
		n := 3 + rng.Intn(8)
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(b)
	}

	seen := make(map[uint64][]string)
	for i := 0; i < 500; i++ {
		keys := make([]string, 0, 5)
		distinct := make(map[string]struct{})
		for len(keys) < 5 {
			k := randomKey()
			if _, dup := distinct[k]; dup {
				continue
			}
			distinct[k] = struct{}{}
			keys = append(keys, k)
		}

		fp := Fingerprint("Random", keys)
		if prior, collision := seen[fp]; collision {
			assert.ElementsMatch(t, prior, keys, "fingerprint collision between distinct key sets")
		}
		seen[fp] = keys
	}
}

func TestFingerprint_KnownValues(t *testing.T) {
	// djb2("") is the bare seed; a name with no keys hashes to the seed hash
	// of the name alone.
	assert.Equal(t, uint64(5381), Fingerprint("", nil))

	// djb2("a") = 5381*33 + 'a' = 177670
	assert.Equal(t, uint64(177670), Fingerprint("a", nil))

	// One key XORs its own djb2 into the name hash.
	assert.Equal(t, uint64(177670)^uint64(177671), Fingerprint("a", []string{"b"}))
}

func TestKeysOf(t *testing.T) {
	m := map[string]any{"x": 1, "y": 2}
	assert.ElementsMatch(t, []string{"x", "y"}, KeysOf(m))
	assert.Empty(t, KeysOf(map[string]int{}))
}
