// Package registry provides schema registration and lookup for slot record
// types. It keeps a canonical name index plus two construction caches: a
// fingerprint-keyed cache that distinguishes same-named types with different
// attribute sets, and a fast name-keyed cache that trades that precision for
// a single map lookup.
package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/slotforge-labs/slotforge/pkg/slots"
)

// Registry maps type names and structural fingerprints to schemas.
type Registry struct {
	mu sync.RWMutex

	// byName holds canonical definitions: "Point" → schema.
	// If a name is defined twice, the last definition wins.
	byName map[string]*slots.Schema

	// byFingerprint caches schemas created on demand by Obtain, keyed by
	// Fingerprint(name, keys). The same name with different key sets yields
	// distinct entries.
	byFingerprint map[uint64]*slots.Schema

	// fast caches schemas by name only, for ObtainFast. An entry is evicted
	// and rebuilt when it cannot hold a requested key.
	fast map[string]*slots.Schema

	logger *slog.Logger
}

// New creates an empty registry. A nil logger discards all output.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		byName:        make(map[string]*slots.Schema),
		byFingerprint: make(map[uint64]*slots.Schema),
		fast:          make(map[string]*slots.Schema),
		logger:        logger,
	}
}

// Define registers a canonical schema under its type name. Redefining a name
// replaces the previous schema.
func (r *Registry) Define(name string, slotNames []string) (*slots.Schema, error) {
	schema, err := slots.New(name, slotNames)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.byName[name]; ok && prior.Fingerprint() != schema.Fingerprint() {
		r.logger.Debug("redefining type with a different slot set",
			"type", name,
			"old_fingerprint", prior.Fingerprint(),
			"new_fingerprint", schema.Fingerprint())
	}
	r.byName[name] = schema
	return schema, nil
}

// Get returns the canonical schema registered under name.
func (r *Registry) Get(name string) (*slots.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of canonical definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Obtain returns a schema for the given name and key set, creating and
// caching one on first use. The cache key is the structural fingerprint, so
// "Point" with {x, y} and "Point" with {x, y, z} are distinct schemas. A
// created schema declares its slots in sorted key order.
func (r *Registry) Obtain(name string, keys []string) (*slots.Schema, error) {
	fp := slots.Fingerprint(name, keys)

	r.mu.RLock()
	schema, ok := r.byFingerprint[fp]
	r.mu.RUnlock()
	if ok {
		return schema, nil
	}

	schema, err := slots.New(name, sortedUnique(keys))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have raced us here; keep the first entry so
	// callers already holding it stay consistent.
	if prior, ok := r.byFingerprint[fp]; ok {
		return prior, nil
	}
	r.byFingerprint[fp] = schema
	r.logger.Debug("cached schema", "type", name, "fingerprint", fp, "slots", schema.Len())
	return schema, nil
}

// ObtainFast returns a schema cached by name alone. When the cached schema
// cannot hold every requested key it is discarded and rebuilt from the
// current key set. Faster than Obtain when a name is always used with one
// attribute set; wrong-cache hits cost a rebuild.
func (r *Registry) ObtainFast(name string, keys []string) (*slots.Schema, error) {
	r.mu.RLock()
	schema, ok := r.fast[name]
	r.mu.RUnlock()

	if ok && accepts(schema, keys) {
		return schema, nil
	}

	schema, err := slots.New(name, sortedUnique(keys))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.fast[name] = schema
	r.mu.Unlock()
	return schema, nil
}

// Build obtains a fingerprint-cached schema for the kwargs' key set and
// constructs an instance with every kwarg assigned.
func (r *Registry) Build(name string, kwargs map[string]any) (*slots.Instance, error) {
	schema, err := r.Obtain(name, slots.KeysOf(kwargs))
	if err != nil {
		return nil, err
	}
	inst := schema.NewInstance()
	if err := slots.ApplyOverrides(inst, kwargs, false); err != nil {
		return nil, err
	}
	return inst, nil
}

// BuildFast is Build on the name-keyed cache.
func (r *Registry) BuildFast(name string, kwargs map[string]any) (*slots.Instance, error) {
	schema, err := r.ObtainFast(name, slots.KeysOf(kwargs))
	if err != nil {
		return nil, err
	}
	inst := schema.NewInstance()
	if err := slots.ApplyOverrides(inst, kwargs, false); err != nil {
		return nil, err
	}
	return inst, nil
}

// CacheSizes returns the fingerprint-cache and fast-cache entry counts.
func (r *Registry) CacheSizes() (fingerprint, fast int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byFingerprint), len(r.fast)
}

// accepts reports whether every key names a declared slot of the schema.
func accepts(schema *slots.Schema, keys []string) bool {
	for _, k := range keys {
		if _, ok := schema.Index(k); !ok {
			return false
		}
	}
	return true
}

func sortedUnique(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	n := 0
	for _, k := range out {
		if n > 0 && k == out[n-1] {
			continue
		}
		out[n] = k
		n++
	}
	return out[:n]
}
