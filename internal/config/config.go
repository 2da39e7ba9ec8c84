// Package config loads fa settings from ~/.fitadvisor/config.toml and FA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/prompt"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "FA"
	DirName    = ".fitadvisor"
)

type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Backends BackendsConfig `mapstructure:"backends"`
	Records  RecordsConfig  `mapstructure:"records"`
	History  HistoryConfig  `mapstructure:"history"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Log      LogConfig      `mapstructure:"log"`
}

type BackendConfig struct {
	Active         string        `mapstructure:"active"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type BackendsConfig struct {
	DashScope RemoteConfig `mapstructure:"dashscope"`
	OpenAI    RemoteConfig `mapstructure:"openai"`
	Gemini    RemoteConfig `mapstructure:"gemini"`
	Ollama    OllamaConfig `mapstructure:"ollama"`
	Local     LocalConfig  `mapstructure:"local"`
}

type RemoteConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	Model        string `mapstructure:"model"`
	APIKeyRef    string `mapstructure:"api_key_ref"`
	APIKeyEnv    string `mapstructure:"api_key_env"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

type OllamaConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	NumCtx      int     `mapstructure:"num_ctx"`
}

type LocalConfig struct {
	Command        string        `mapstructure:"command"`
	Args           []string      `mapstructure:"args"`
	Dir            string        `mapstructure:"dir"`
	ReadySentinel  string        `mapstructure:"ready_sentinel"`
	StartupTimeout time.Duration `mapstructure:"startup_timeout"`
	Pipelined      bool          `mapstructure:"pipelined"`
	MaxRestarts    int           `mapstructure:"max_restarts"`
	RestartBackoff time.Duration `mapstructure:"restart_backoff"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown_grace"`
}

type RecordsConfig struct {
	Path  string `mapstructure:"path"`
	Limit int    `mapstructure:"limit"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

type SecretsConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the config file under home, when present, and applies FA_*
// environment overrides on top of the defaults.
func Load(v *viper.Viper, home string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	configDir := filepath.Join(home, DirName)
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.Records.Path = ExpandHome(cfg.Records.Path, home)
	cfg.History.Path = ExpandHome(cfg.History.Path, home)
	cfg.Secrets.Dir = ExpandHome(cfg.Secrets.Dir, home)
	cfg.Backends.Local.Dir = ExpandHome(cfg.Backends.Local.Dir, home)

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("backend.active", "dashscope")
	v.SetDefault("backend.request_timeout", "30s")

	v.SetDefault("backends.dashscope.base_url", "https://dashscope.aliyuncs.com")
	v.SetDefault("backends.dashscope.model", "deepseek-r1-distil-qwen-7b")
	v.SetDefault("backends.dashscope.api_key_ref", "")
	v.SetDefault("backends.dashscope.api_key_env", "DASHSCOPE_API_KEY")
	v.SetDefault("backends.dashscope.system_prompt", prompt.AdvisorPreamble)

	v.SetDefault("backends.openai.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	v.SetDefault("backends.openai.model", "qwen-plus")
	v.SetDefault("backends.openai.api_key_ref", "")
	v.SetDefault("backends.openai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("backends.openai.system_prompt", "")

	v.SetDefault("backends.gemini.base_url", "")
	v.SetDefault("backends.gemini.model", "gemini-2.5-flash")
	v.SetDefault("backends.gemini.api_key_ref", "")
	v.SetDefault("backends.gemini.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("backends.gemini.system_prompt", "")

	v.SetDefault("backends.ollama.base_url", "http://localhost:11434")
	v.SetDefault("backends.ollama.model", "tinyllama")
	v.SetDefault("backends.ollama.temperature", 0.7)
	v.SetDefault("backends.ollama.top_p", 0.8)
	v.SetDefault("backends.ollama.num_ctx", 2048)

	v.SetDefault("backends.local.command", "python")
	v.SetDefault("backends.local.args", []string{"python/phi_model.py"})
	v.SetDefault("backends.local.dir", "")
	v.SetDefault("backends.local.ready_sentinel", "MODEL_READY")
	v.SetDefault("backends.local.startup_timeout", "5m")
	v.SetDefault("backends.local.pipelined", false)
	v.SetDefault("backends.local.max_restarts", 3)
	v.SetDefault("backends.local.restart_backoff", "2s")
	v.SetDefault("backends.local.shutdown_grace", "2s")

	v.SetDefault("records.path", filepath.Join(configDir, "records.toml"))
	v.SetDefault("records.limit", 10)
	v.SetDefault("history.path", filepath.Join(configDir, "history.db"))
	v.SetDefault("secrets.dir", filepath.Join(configDir, "secrets"))
	v.SetDefault("log.level", "warn")
}

func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// APIKey resolves a remote backend key: the secret reference first, then the
// environment variable.
func (c RemoteConfig) APIKey(lookup func(ref string) (string, error)) (string, error) {
	if ref := strings.TrimSpace(c.APIKeyRef); ref != "" && lookup != nil {
		value, err := lookup(ref)
		if err != nil {
			return "", fmt.Errorf("resolve api key %q: %w", ref, err)
		}
		return value, nil
	}
	if c.APIKeyEnv != "" {
		return os.Getenv(c.APIKeyEnv), nil
	}
	return "", nil
}
