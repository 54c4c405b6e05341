// Package commands implements the slotforge subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slotforge-labs/slotforge/internal/config"
	"github.com/slotforge-labs/slotforge/internal/loader"
	"github.com/slotforge-labs/slotforge/internal/registry"
	"github.com/slotforge-labs/slotforge/internal/script"
)

// runtimeKey stores the Runtime in the command context.
type runtimeKey struct{}

// Runtime carries the resolved config and logger for one invocation.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger
}

// WithRuntime attaches a runtime to the context.
func WithRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, runtimeKey{}, &Runtime{Config: cfg, Logger: logger})
}

// runtimeFrom extracts the runtime placed in the context by the root command.
func runtimeFrom(ctx context.Context) (*Runtime, error) {
	rt, ok := ctx.Value(runtimeKey{}).(*Runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("command runtime not initialized")
	}
	return rt, nil
}

// newLoader builds a definition loader wired to the runtime's environment.
func (rt *Runtime) newLoader() *loader.Loader {
	engine := script.NewEngine(rt.Config.Env, rt.Logger)
	return loader.New(engine, rt.Logger)
}

// loadDefinitions loads the configured types directory.
func (rt *Runtime) loadDefinitions() ([]*loader.Definition, error) {
	defs, err := rt.newLoader().LoadDir(rt.Config.TypesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load type definitions: %w", err)
	}
	return defs, nil
}

// loadRegistry loads the types directory and registers every definition in a
// fresh registry. The returned definitions carry the pipeline sources; the
// registry owns the schemas.
func (rt *Runtime) loadRegistry() (*registry.Registry, []*loader.Definition, error) {
	defs, err := rt.loadDefinitions()
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(rt.Logger)
	for _, def := range defs {
		if _, err := reg.Define(def.Name, def.Slots); err != nil {
			return nil, nil, fmt.Errorf("failed to register type %s: %w", def.Name, err)
		}
	}
	return reg, defs, nil
}
