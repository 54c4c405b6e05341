package slots

import (
	"fmt"
	"reflect"
	"strings"
)

// Instance is a record with one storage cell per schema slot. The cell count
// never changes after allocation. Cells hold arbitrary values by reference;
// a cell is either unset or holds exactly one value.
//
// Instances are not safe for concurrent mutation. Callers sharing an
// instance across goroutines must serialize writes themselves; the pipeline
// guarantees only that each individual slot write completes or aborts.
type Instance struct {
	schema *Schema
	cells  []any
	bound  []bool
	frozen bool
}

// NewInstance allocates an empty instance: every cell unset, not frozen.
func (s *Schema) NewInstance() *Instance {
	return &Instance{
		schema: s,
		cells:  make([]any, len(s.names)),
		bound:  make([]bool, len(s.names)),
	}
}

// Construct allocates an instance and binds the given values into its slots
// by position, left to right. No per-value validation is performed; the
// caller is trusted to supply values of the right shape. The value count
// must match the slot count exactly.
func (s *Schema) Construct(values ...any) (*Instance, error) {
	if len(values) != len(s.names) {
		return nil, &ArityError{Schema: s.name, Want: len(s.names), Got: len(values)}
	}
	inst := s.NewInstance()
	for i, v := range values {
		inst.cells[i] = v
		inst.bound[i] = true
	}
	return inst, nil
}

// Schema returns the schema the instance was allocated against.
func (inst *Instance) Schema() *Schema { return inst.schema }

// Len returns the number of slots.
func (inst *Instance) Len() int { return len(inst.cells) }

// Set writes a value into the named slot. It fails when the name is not
// declared by the schema or the instance is frozen.
func (inst *Instance) Set(name string, value any) error {
	i, ok := inst.schema.index[name]
	if !ok {
		return &SetError{Slot: name, Message: "not declared by schema " + inst.schema.name}
	}
	if inst.frozen {
		return &SetError{Slot: name, Message: "instance is frozen"}
	}
	inst.cells[i] = value
	inst.bound[i] = true
	return nil
}

// Get reads the named slot. It fails when the name is not declared or the
// slot has not been assigned.
func (inst *Instance) Get(name string) (any, error) {
	i, ok := inst.schema.index[name]
	if !ok {
		return nil, &GetError{Slot: name, Message: "not declared by schema " + inst.schema.name}
	}
	if !inst.bound[i] {
		return nil, &GetError{Slot: name, Message: "not set"}
	}
	return inst.cells[i], nil
}

// Has reports whether the named slot is declared and currently holds a value.
func (inst *Instance) Has(name string) bool {
	i, ok := inst.schema.index[name]
	return ok && inst.bound[i]
}

// Freeze marks the instance immutable. Subsequent Set calls fail; ForceSet
// still writes (see ApplyVia).
func (inst *Instance) Freeze() { inst.frozen = true }

// Frozen reports whether the instance has been frozen.
func (inst *Instance) Frozen() bool { return inst.frozen }

// Pair is one named slot value, used for ordered iteration.
type Pair struct {
	Name  string
	Value any
}

// Pairs returns the set slots as name/value pairs in schema slot order.
// Unset slots are skipped.
func (inst *Instance) Pairs() []Pair {
	out := make([]Pair, 0, len(inst.cells))
	for i, name := range inst.schema.names {
		if inst.bound[i] {
			out = append(out, Pair{Name: name, Value: inst.cells[i]})
		}
	}
	return out
}

// Equal reports whether two instances expose the same slot-name set with
// equal values. The schemas' type names do not participate; two records of
// differently named types with identical slots and values compare equal,
// matching the original attribute-wise equality semantics.
func (inst *Instance) Equal(other *Instance) bool {
	if other == nil || len(inst.cells) != len(other.cells) {
		return false
	}
	for i, name := range inst.schema.names {
		j, ok := other.schema.index[name]
		if !ok || inst.bound[i] != other.bound[j] {
			return false
		}
		if inst.bound[i] && !reflect.DeepEqual(inst.cells[i], other.cells[j]) {
			return false
		}
	}
	return true
}

// String renders the instance as Name(slot=value, ...) in slot order.
// Unset slots render as slot=<unset>.
func (inst *Instance) String() string {
	var b strings.Builder
	b.WriteString(inst.schema.name)
	b.WriteByte('(')
	for i, name := range inst.schema.names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		if inst.bound[i] {
			fmt.Fprintf(&b, "%v", inst.cells[i])
		} else {
			b.WriteString("<unset>")
		}
	}
	b.WriteByte(')')
	return b.String()
}
