package slots

// Schema is the fixed shape of a record type: a type name plus an ordered
// list of slot names. Schemas are immutable after construction and safe for
// concurrent use.
type Schema struct {
	name  string
	names []string
	index map[string]int

	// fingerprint is computed eagerly at construction; the slot set never
	// changes, so there is nothing to invalidate.
	fingerprint uint64
}

// New builds a schema from a type name and an ordered slot-name list.
// Slot names must be non-empty and unique; the slot count is fixed for the
// lifetime of the schema.
func New(name string, slotNames []string) (*Schema, error) {
	if name == "" {
		return nil, &SchemaError{Message: "type name must not be empty"}
	}
	if len(slotNames) == 0 {
		return nil, &SchemaError{Name: name, Message: "at least one slot is required"}
	}

	index := make(map[string]int, len(slotNames))
	names := make([]string, len(slotNames))
	for i, slot := range slotNames {
		if slot == "" {
			return nil, &SchemaError{Name: name, Message: "slot names must not be empty"}
		}
		if _, dup := index[slot]; dup {
			return nil, &SchemaError{Name: name, Message: "duplicate slot name " + slot}
		}
		index[slot] = i
		names[i] = slot
	}

	return &Schema{
		name:        name,
		names:       names,
		index:       index,
		fingerprint: Fingerprint(name, names),
	}, nil
}

// Name returns the schema's type name.
func (s *Schema) Name() string { return s.name }

// Len returns the number of declared slots.
func (s *Schema) Len() int { return len(s.names) }

// Slots returns a copy of the ordered slot names.
func (s *Schema) Slots() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Index returns the position of the named slot and whether it is declared.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Fingerprint returns the structural fingerprint of the schema: the
// Fingerprint of its type name and slot-name set.
func (s *Schema) Fingerprint() uint64 { return s.fingerprint }
