package slots

import "sort"

// fingerprintSeed is the djb2 initial accumulator.
const fingerprintSeed = 5381

// djb2 folds a string byte-by-byte with acc = acc*33 + byte, wrapping on
// overflow.
func djb2(s string) uint64 {
	acc := uint64(fingerprintSeed)
	for i := 0; i < len(s); i++ {
		acc = acc<<5 + acc + uint64(s[i])
	}
	return acc
}

// Fingerprint computes the structural fingerprint of a type name and a set
// of slot keys: the djb2 hash of the name, XORed with the djb2 hash of each
// distinct key. Duplicate keys are ignored and key order never affects the
// result, so two calls with the same name and the same key set are always
// equal. Keys are sorted before folding to keep the computation bit-exact
// and reproducible.
//
// This is an identity/caching fingerprint, not a cryptographic hash;
// collisions are possible at low probability.
func Fingerprint(name string, keys []string) uint64 {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	acc := djb2(name)
	prev := ""
	for i, key := range sorted {
		if i > 0 && key == prev {
			continue
		}
		acc ^= djb2(key)
		prev = key
	}
	return acc
}

// KeysOf returns the keys of a mapping, for fingerprinting a type by the
// attribute set it was requested with.
func KeysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
