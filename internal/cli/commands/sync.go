package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slotforge-labs/slotforge/internal/state"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Persist type definitions into the state database",
		Long: `Write every definition's name, slots, and structural fingerprint into the
state database. A stored type whose fingerprint differs from the current
definition is reported as changed; --prune removes stored types that no
longer have a definition.`,
		Example: `  # Sync definitions into the default state db
  slotforge sync

  # Also drop stored types with no definition left
  slotforge sync --prune`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, prune)
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Remove stored types that have no definition")
	return cmd
}

func runSync(cmd *cobra.Command, prune bool) error {
	rt, err := runtimeFrom(cmd.Context())
	if err != nil {
		return err
	}

	defs, err := rt.loadDefinitions()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(rt.Config.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(rt.Config.StatePath); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(); err != nil {
		return err
	}

	var created, updated, unchanged int
	defined := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		defined[def.Name] = struct{}{}

		status, err := store.SaveType(def.Name, def.Slots, def.Fingerprint, def.Frozen)
		if err != nil {
			return err
		}
		switch status {
		case state.SaveCreated:
			created++
			rt.Logger.Debug("stored new type", "type", def.Name, "fingerprint", def.Fingerprint)
		case state.SaveUpdated:
			updated++
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "changed: %s\n", def.Name)
		case state.SaveUnchanged:
			unchanged++
		}
	}

	var pruned int
	if prune {
		stored, err := store.ListTypes()
		if err != nil {
			return err
		}
		for _, rec := range stored {
			if _, ok := defined[rec.Name]; ok {
				continue
			}
			if err := store.DeleteType(rec.Name); err != nil {
				return err
			}
			pruned++
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pruned: %s\n", rec.Name)
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "synced %d types: %d new, %d changed, %d unchanged",
		len(defs), created, updated, unchanged)
	if prune {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), ", %d pruned", pruned)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
