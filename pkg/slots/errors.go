package slots

import "fmt"

// SchemaError reports an invalid schema definition (empty name, no slots,
// duplicate slot names).
type SchemaError struct {
	Name    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("schema %q: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

// ArityError reports a positional-construction call whose value count does
// not match the schema's slot count.
type ArityError struct {
	Schema string
	Want   int
	Got    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("schema %q: expected %d positional values, got %d", e.Schema, e.Want, e.Got)
}

// CountError reports a failed pipeline consistency check: the override
// mapping did not cover the schema's slots exactly. No writes have been
// performed when this error is returned.
type CountError struct {
	Schema    string
	Slots     int
	Overrides int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("schema %q: mismatch in number of attributes: %d slots, %d overrides", e.Schema, e.Slots, e.Overrides)
}

// SetError reports a rejected slot write. The pipeline aborts on the first
// SetError; slots written by earlier stages keep their values.
type SetError struct {
	Slot    string
	Message string
	Err     error // underlying cause, if any (e.g. a failed producer)
}

func (e *SetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("slot %q: %s: %v", e.Slot, e.Message, e.Err)
	}
	return fmt.Sprintf("slot %q: %s", e.Slot, e.Message)
}

func (e *SetError) Unwrap() error { return e.Err }

// GetError reports a failed slot read: the name is not declared by the
// schema, or the slot has not been assigned yet.
type GetError struct {
	Slot    string
	Message string
}

func (e *GetError) Error() string {
	return fmt.Sprintf("slot %q: %s", e.Slot, e.Message)
}
