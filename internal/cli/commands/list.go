package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List defined types",
		Long:  `List the types in the definitions directory with their slots and fingerprints.`,
		Example: `  # List all types
  slotforge list

  # List types from a specific directory
  slotforge list --types-dir ./defs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	rt, err := runtimeFrom(cmd.Context())
	if err != nil {
		return err
	}

	defs, err := rt.loadDefinitions()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Slots", "Fingerprint", "Frozen"})

	for _, def := range defs {
		frozen := ""
		if def.Frozen {
			frozen = "yes"
		}
		t.AppendRow(table.Row{
			def.Name,
			strings.Join(def.Slots, ", "),
			fmt.Sprintf("%016x", def.Fingerprint),
			frozen,
		})
	}
	t.Render()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d types)\n", len(defs))
	return nil
}
