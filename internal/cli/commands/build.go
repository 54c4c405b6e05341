package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slotforge-labs/slotforge/internal/loader"
	"github.com/slotforge-labs/slotforge/pkg/slots"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var (
		setFlags   []string
		checkArity bool
	)

	cmd := &cobra.Command{
		Use:   "build <type>",
		Short: "Construct an instance of a defined type",
		Long: `Construct an instance of a type from the definitions directory.

The full assignment pipeline runs: computed expressions, then defaults, then
--set overrides, then derived expressions. With --check, the override count
must match the type's slot count exactly.

Frozen types are populated through the delegated setter, so their instances
come out immutable but fully assigned.`,
		Example: `  # Build a Point with overrides
  slotforge build Point --set x=1 --set y=2 --set z=3

  # Require overrides to cover every slot
  slotforge build Point --set x=1 --check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], setFlags, checkArity)
		},
	}

	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Override a slot value, slot=value (repeatable)")
	cmd.Flags().BoolVar(&checkArity, "check", false, "Require overrides to cover every declared slot")
	return cmd
}

func runBuild(cmd *cobra.Command, typeName string, setFlags []string, checkArity bool) error {
	rt, err := runtimeFrom(cmd.Context())
	if err != nil {
		return err
	}

	reg, defs, err := rt.loadRegistry()
	if err != nil {
		return err
	}

	schema, ok := reg.Get(typeName)
	if !ok {
		return fmt.Errorf("type %q is not defined in %s", typeName, rt.Config.TypesDir)
	}

	var def *loader.Definition
	for _, d := range defs {
		if d.Name == typeName {
			def = d
			break
		}
	}

	overrides, err := parseOverrides(setFlags)
	if err != nil {
		return err
	}

	inst := schema.NewInstance()
	src := def.Sources(overrides)

	if def.Frozen {
		// A frozen type's instance rejects direct writes, so the pipeline
		// runs through the delegated setter. The arity check is not offered
		// on that path; emulate it up front.
		if checkArity && schema.Len() != len(overrides) {
			return &slots.CountError{Schema: typeName, Slots: schema.Len(), Overrides: len(overrides)}
		}
		inst.Freeze()
		err = slots.ApplyVia(slots.ForceSet, inst, src)
	} else {
		err = slots.Apply(inst, src, checkArity)
	}
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", typeName, err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), inst.String())
	return nil
}

// parseOverrides turns --set slot=value flags into an override mapping.
// Values parse as int, float, or bool when they look like one, otherwise
// they stay strings.
func parseOverrides(setFlags []string) (map[string]any, error) {
	overrides := make(map[string]any, len(setFlags))
	for _, raw := range setFlags {
		key, value, ok := strings.Cut(raw, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected slot=value", raw)
		}
		overrides[key] = coerce(value)
	}
	return overrides, nil
}

func coerce(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
