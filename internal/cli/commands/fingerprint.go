package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slotforge-labs/slotforge/pkg/slots"
)

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <name> <slot>...",
		Short: "Compute the structural fingerprint of a type",
		Long: `Compute the structural fingerprint of a type name plus a slot-name set.

The fingerprint is independent of slot order, so the same name with the same
slots always produces the same value regardless of how the slots are listed.`,
		Example: `  # Fingerprint a Point type
  slotforge fingerprint Point x y z

  # Slot order does not matter; this prints the same value
  slotforge fingerprint Point z y x`,
		Args: cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			fp := slots.Fingerprint(args[0], args[1:])
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%016x (%d)\n", fp, fp)
		},
	}
}
