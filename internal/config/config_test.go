package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/prompt"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home string, lines ...string) {
	t.Helper()

	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(strings.Join(lines, "\n")), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := Load(viper.New(), home)
	require.NoError(t, err)

	assert.Equal(t, "dashscope", cfg.Backend.Active)
	assert.Equal(t, 30*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "deepseek-r1-distil-qwen-7b", cfg.Backends.DashScope.Model)
	assert.Equal(t, prompt.AdvisorPreamble, cfg.Backends.DashScope.SystemPrompt)
	assert.Equal(t, "DASHSCOPE_API_KEY", cfg.Backends.DashScope.APIKeyEnv)
	assert.Equal(t, OllamaConfig{BaseURL: "http://localhost:11434", Model: "tinyllama", Temperature: 0.7, TopP: 0.8, NumCtx: 2048}, cfg.Backends.Ollama)
	assert.Equal(t, LocalConfig{
		Command:        "python",
		Args:           []string{"python/phi_model.py"},
		ReadySentinel:  "MODEL_READY",
		StartupTimeout: 5 * time.Minute,
		MaxRestarts:    3,
		RestartBackoff: 2 * time.Second,
		ShutdownGrace:  2 * time.Second,
	}, cfg.Backends.Local)
	assert.Equal(t, RecordsConfig{Path: filepath.Join(home, DirName, "records.toml"), Limit: 10}, cfg.Records)
	assert.Equal(t, filepath.Join(home, DirName, "history.db"), cfg.History.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadReadsConfigFile(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeConfig(t, home,
		`[backend]`,
		`active = "local"`,
		`request_timeout = "90s"`,
		``,
		`[backends.local]`,
		`command = "fa-echo-worker"`,
		`args = ["--prefix", "echo: "]`,
		`dir = "~/workers"`,
		`pipelined = true`,
		`startup_timeout = "10s"`,
		``,
		`[records]`,
		`path = "~/data/records.toml"`,
		`limit = 5`,
	)

	cfg, err := Load(viper.New(), home)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Backend.Active)
	assert.Equal(t, 90*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "fa-echo-worker", cfg.Backends.Local.Command)
	assert.Equal(t, []string{"--prefix", "echo: "}, cfg.Backends.Local.Args)
	assert.Equal(t, filepath.Join(home, "workers"), cfg.Backends.Local.Dir)
	assert.True(t, cfg.Backends.Local.Pipelined)
	assert.Equal(t, 10*time.Second, cfg.Backends.Local.StartupTimeout)
	assert.Equal(t, 3, cfg.Backends.Local.MaxRestarts)
	assert.Equal(t, RecordsConfig{Path: filepath.Join(home, "data", "records.toml"), Limit: 5}, cfg.Records)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `[backend]`, `active = "local"`)
	t.Setenv("FA_BACKEND_ACTIVE", "ollama")
	t.Setenv("FA_BACKENDS_OLLAMA_MODEL", "phi3:mini")

	cfg, err := Load(viper.New(), home)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Backend.Active)
	assert.Equal(t, "phi3:mini", cfg.Backends.Ollama.Model)
}

func TestLoadMalformedConfigReturnsError(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeConfig(t, home, `[backend`)

	_, err := Load(viper.New(), home)
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}

func TestRemoteConfigAPIKey(t *testing.T) {
	t.Setenv("FA_TEST_API_KEY", "from-env")

	key, err := RemoteConfig{APIKeyEnv: "FA_TEST_API_KEY"}.APIKey(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	key, err = RemoteConfig{APIKeyRef: "pass://fa/dashscope", APIKeyEnv: "FA_TEST_API_KEY"}.APIKey(func(ref string) (string, error) {
		assert.Equal(t, "pass://fa/dashscope", ref)
		return "from-store", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "from-store", key)

	_, err = RemoteConfig{APIKeyRef: "file://missing"}.APIKey(func(string) (string, error) {
		return "", errors.New("secret not found")
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `resolve api key "file://missing"`)
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/home/u", ExpandHome("~", "/home/u"))
	assert.Equal(t, "/home/u/a/b", ExpandHome("~/a/b", "/home/u"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path", "/home/u"))
	assert.Equal(t, "rel/~", ExpandHome("rel/~", "/home/u"))
}
