package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/clarity-ledger/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "clarity", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "personal finance tracker")
	assert.Contains(t, root.Cmd.Long, "monthly budgets")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	for _, name := range []string{"config", "log-level", "log-format", "data-dir", "backend"} {
		flag := root.Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue, name)
		assert.NotEmpty(t, flag.Usage, name)
	}
}

func TestApp_NotInitialized(t *testing.T) {
	_, err := root.App()
	assert.Error(t, err)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	root.Flags = root.GlobalFlags{LogLevel: "debug", LogFormat: "json", DataDir: dir, Backend: "sqlite"}
	t.Cleanup(func() { root.Flags = root.GlobalFlags{} })

	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, dir, cfg.DataDir())
	assert.Equal(t, "sqlite", cfg.Data.Backend)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	root.Flags = root.GlobalFlags{Backend: "mongo"}
	t.Cleanup(func() { root.Flags = root.GlobalFlags{} })

	_, err := root.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "clarity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("currency: JPY\n"), 0600))

	root.Flags = root.GlobalFlags{ConfigFile: path}
	t.Cleanup(func() { root.Flags = root.GlobalFlags{} })

	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "JPY", cfg.Currency)
}
