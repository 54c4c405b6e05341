package slots

// Producer yields a computed attribute value. It takes no arguments and is
// invoked once per assignment.
type Producer func() (any, error)

// DependentProducer yields a derived attribute value. It receives the
// instance as it stands at that point in the pipeline, so it can read slots
// written by earlier stages.
type DependentProducer func(*Instance) (any, error)

// Setter routes a single slot write. ApplyVia calls it for every write
// instead of touching the instance directly, letting a caller substitute an
// access path with different protection semantics.
type Setter func(inst *Instance, name string, value any) error

// ForceSet writes the named slot directly, ignoring a frozen instance. It
// still rejects names not declared by the schema. Intended as the Setter for
// ApplyVia when populating otherwise-immutable instances.
func ForceSet(inst *Instance, name string, value any) error {
	i, ok := inst.schema.index[name]
	if !ok {
		return &SetError{Slot: name, Message: "not declared by schema " + inst.schema.name}
	}
	inst.cells[i] = value
	inst.bound[i] = true
	return nil
}

// Sources carries the four staged attribute mappings applied by the
// pipeline. Stages always run in the order Computed, Defaults, Overrides,
// Derived; entry order within one mapping is unspecified. Keys must be
// unique within each mapping (enforced by the map type); the same key may
// appear in several stages, in which case the latest stage wins.
type Sources struct {
	// Computed maps slot names to zero-argument producers, invoked once each.
	Computed map[string]Producer
	// Defaults maps slot names to static values, used as-is.
	Defaults map[string]any
	// Overrides maps slot names to caller-supplied values, used as-is.
	// This is the mapping the arity check counts.
	Overrides map[string]any
	// Derived maps slot names to producers receiving the instance-so-far.
	Derived map[string]DependentProducer
}

// Apply runs the staged assignment pipeline against an instance.
//
// When checkArity is set, the schema's slot count must equal the number of
// Overrides entries; on mismatch Apply fails with *CountError before any
// write. The sizes of the other three mappings are deliberately not checked.
//
// The first rejected write (or failed producer) aborts the pipeline with
// *SetError. Later stages do not run and earlier writes are not rolled back;
// callers needing atomicity should discard the instance on failure.
func Apply(inst *Instance, src Sources, checkArity bool) error {
	if checkArity && inst.schema.Len() != len(src.Overrides) {
		return &CountError{
			Schema:    inst.schema.name,
			Slots:     inst.schema.Len(),
			Overrides: len(src.Overrides),
		}
	}
	return apply(inst, src, (*Instance).Set)
}

// ApplyOverrides is the slim pipeline variant: a single override mapping
// with the same arity check, equivalent to Apply with the other three
// mappings empty.
func ApplyOverrides(inst *Instance, overrides map[string]any, checkArity bool) error {
	return Apply(inst, Sources{Overrides: overrides}, checkArity)
}

// ApplyVia runs the pipeline with every write routed through the supplied
// setter. No arity check is performed; callers wanting one must do it
// themselves before invoking.
func ApplyVia(set Setter, inst *Instance, src Sources) error {
	return apply(inst, src, func(i *Instance, name string, value any) error {
		return set(i, name, value)
	})
}

func apply(inst *Instance, src Sources, set func(*Instance, string, any) error) error {
	for name, produce := range src.Computed {
		value, err := produce()
		if err != nil {
			return &SetError{Slot: name, Message: "producer failed", Err: err}
		}
		if err := set(inst, name, value); err != nil {
			return err
		}
	}

	for name, value := range src.Defaults {
		if err := set(inst, name, value); err != nil {
			return err
		}
	}

	for name, value := range src.Overrides {
		if err := set(inst, name, value); err != nil {
			return err
		}
	}

	for name, produce := range src.Derived {
		value, err := produce(inst)
		if err != nil {
			return &SetError{Slot: name, Message: "dependent producer failed", Err: err}
		}
		if err := set(inst, name, value); err != nil {
			return err
		}
	}

	return nil
}
