package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultTypesDir, cfg.TypesDir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultEnv, cfg.Environment)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
types_dir: defs
environment: prod
env:
  region: eu-west-1
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "defs", cfg.TypesDir)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, map[string]string{"region": "eu-west-1"}, cfg.Env)
	assert.Equal(t, DefaultStateFile, cfg.StatePath, "unset keys keep their defaults")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvVarOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types_dir: from_file\n"), 0o644))

	t.Setenv("SLOTFORGE_TYPES_DIR", "from_env")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.TypesDir)
}

func TestLoad_FlagOverridesEverything(t *testing.T) {
	t.Setenv("SLOTFORGE_TYPES_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("types-dir", "", "")
	flags.String("state", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--types-dir", "from_flag", "--state", "custom.db", "--verbose"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.TypesDir)
	assert.Equal(t, "custom.db", cfg.StatePath, "--state maps to state_path")
	assert.True(t, cfg.Verbose)
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("types-dir", "flag_default", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultTypesDir, cfg.TypesDir, "unset flags must not override config defaults")
}
