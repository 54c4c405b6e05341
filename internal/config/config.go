// Package config loads slotforge configuration from file, environment
// variables, and CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default configuration values.
const (
	DefaultTypesDir  = "types"
	DefaultStateFile = ".slotforge/state.db"
	DefaultEnv       = "dev"
)

// Config holds all CLI configuration options.
type Config struct {
	// TypesDir is the directory scanned for *.yaml type definitions.
	TypesDir string `koanf:"types_dir"`
	// StatePath is the SQLite fingerprint store location.
	StatePath string `koanf:"state_path"`
	// Environment names the active environment (dev, staging, prod).
	Environment string `koanf:"environment"`
	// Env is the string mapping exposed to computed/derived expressions
	// as the "env" dict.
	Env map[string]string `koanf:"env"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
}

// findConfigFile picks the config file to use.
// Priority: explicit path > slotforge.yaml > slotforge.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"slotforge.yaml", "slotforge.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration in layers.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"types_dir":   DefaultTypesDir,
		"state_path":  DefaultStateFile,
		"environment": DefaultEnv,
		"verbose":     false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, if present
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file %s not found", cfgFile)
	}

	// 3. Environment variables: SLOTFORGE_TYPES_DIR -> types_dir
	if err := k.Load(env.Provider("SLOTFORGE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SLOTFORGE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags override everything; only explicitly set flags are loaded.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			// kebab-case flag names map to snake_case config keys; --state
			// is shorthand for state_path.
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "state" {
				key = "state_path"
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      false,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
