// Package state persists registered slot types and their structural
// fingerprints in SQLite, so definition drift can be detected across runs by
// comparing fingerprints.
package state

import "time"

// TypeRecord is one persisted type definition.
type TypeRecord struct {
	// ID is the row identifier (UUID).
	ID string
	// Name is the type name, unique across the store.
	Name string
	// Slots is the ordered slot-name list.
	Slots []string
	// Fingerprint is the structural fingerprint of Name plus Slots.
	Fingerprint uint64
	// Frozen records whether instances of the type default to immutable.
	Frozen bool
	// CreatedAt is when the type was first persisted.
	CreatedAt time.Time
	// UpdatedAt is when the type was last written.
	UpdatedAt time.Time
}

// SaveStatus describes what a SaveType call did.
type SaveStatus string

const (
	// SaveCreated means the type was not in the store before.
	SaveCreated SaveStatus = "created"
	// SaveUpdated means the type existed with a different fingerprint.
	SaveUpdated SaveStatus = "updated"
	// SaveUnchanged means the stored fingerprint already matched.
	SaveUnchanged SaveStatus = "unchanged"
)
