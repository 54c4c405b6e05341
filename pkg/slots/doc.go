// Package slots implements a fixed-slot record runtime: schemas with an
// ordered, immutable set of named slots, instances allocated against a
// schema, a staged attribute-assignment pipeline, and an order-independent
// structural fingerprint over a type name and its slot names.
//
// This package contains:
//   - Schema and Instance (the object model)
//   - Sources and the Apply* pipeline (staged attribute assignment)
//   - Fingerprint (structural hashing for caching/identity)
//
// The Golden Rule: pkg/slots imports ONLY stdlib.
// All other packages depend on slots, not the reverse.
package slots
