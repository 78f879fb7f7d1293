package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neontj/signquote/pkg/config"
)

type mailSettings struct {
	From    string        `env:"CFGTEST_FROM" envDefault:"quotes@example.com"`
	To      []string      `env:"CFGTEST_TO" envSeparator:","`
	Timeout time.Duration `env:"CFGTEST_TIMEOUT" envDefault:"5s"`
	DryRun  bool          `env:"CFGTEST_DRY_RUN"`
}

type requiredSettings struct {
	Secret string `env:"CFGTEST_REQUIRED_SECRET,required"`
}

type cachedSettings struct {
	Value string `env:"CFGTEST_CACHED"`
}

type dotenvSettings struct {
	Value string `env:"CFGTEST_DOTENV_VALUE"`
}

func TestParse(t *testing.T) {
	t.Setenv("CFGTEST_TO", "a@example.com,b@example.com")
	t.Setenv("CFGTEST_DRY_RUN", "true")

	cfg, err := config.Parse[mailSettings]()
	require.NoError(t, err)
	assert.Equal(t, "quotes@example.com", cfg.From)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.To)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.DryRun)
}

func TestParse_Invalid(t *testing.T) {
	t.Setenv("CFGTEST_TIMEOUT", "soon")

	_, err := config.Parse[mailSettings]()
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_Required(t *testing.T) {
	config.ResetCache()

	var cfg requiredSettings
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.Panics(t, func() {
		var again requiredSettings
		config.MustLoad(&again)
	})
}

func TestLoad_Cached(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFGTEST_CACHED", "first")

	var cfg cachedSettings
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "first", cfg.Value)

	t.Setenv("CFGTEST_CACHED", "second")
	var again cachedSettings
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "first", again.Value)

	config.ResetCache()
	var fresh cachedSettings
	require.NoError(t, config.Load(&fresh))
	assert.Equal(t, "second", fresh.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	assert.ErrorIs(t, config.Load[cachedSettings](nil), config.ErrNilPointer)
}

func TestLoadEnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_DOTENV_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_DOTENV_VALUE") })

	require.NoError(t, config.LoadEnvFiles(path))

	cfg, err := config.Parse[dotenvSettings]()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Value)

	assert.NoError(t, config.LoadEnvFiles())
	assert.ErrorIs(t, config.LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env")), config.ErrLoadingEnvFiles)
}
