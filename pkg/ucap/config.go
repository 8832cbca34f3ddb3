package ucap

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	LogFormat   string         `mapstructure:"log_format"`
	Server      ServerConfig   `mapstructure:"server"`
	Vendors     VendorsConfig  `mapstructure:"vendors"`
	Scoring     ScoringConfig  `mapstructure:"scoring"`
	Dialogue    DialogueConfig `mapstructure:"dialogue"`
	Store       StoreConfig    `mapstructure:"store"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
	Privacy     PrivacyConfig  `mapstructure:"privacy"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	STT VendorConfig `mapstructure:"stt"`
	TTS VendorConfig `mapstructure:"tts"`
	LLM VendorConfig `mapstructure:"llm"`
}

type ScoringConfig struct {
	TimeoutMS         int `mapstructure:"timeout_ms"`
	RetryMaxAttempts  int `mapstructure:"retry_max_attempts"`
	RetryBaseDelayMS  int `mapstructure:"retry_base_delay_ms"`
	BreakerThreshold  int `mapstructure:"breaker_threshold"`
	BreakerCooldownMS int `mapstructure:"breaker_cooldown_ms"`
}

type DialogueConfig struct {
	ScenariosDir  string `mapstructure:"scenarios_dir"`
	PassThreshold int    `mapstructure:"pass_threshold"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type MetricsConfig struct {
	Path       string  `mapstructure:"path"`
	SampleRate float64 `mapstructure:"sample_rate"`
	Buffer     int     `mapstructure:"buffer"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("scoring.timeout_ms", 20000)
	v.SetDefault("scoring.retry_max_attempts", 3)
	v.SetDefault("scoring.retry_base_delay_ms", 200)
	v.SetDefault("scoring.breaker_threshold", 5)
	v.SetDefault("scoring.breaker_cooldown_ms", 30000)
	v.SetDefault("dialogue.scenarios_dir", "configs/scenarios")
	v.SetDefault("dialogue.pass_threshold", 70)
	v.SetDefault("store.path", "data/ucap.db")
	v.SetDefault("metrics.path", "")
	v.SetDefault("metrics.sample_rate", 1.0)
	v.SetDefault("metrics.buffer", 256)
	v.SetDefault("privacy.redact_pii", true)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vendors.LLM.Provider) == "" {
		return fmt.Errorf("vendors.llm.provider is required")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Dialogue.PassThreshold < 0 || c.Dialogue.PassThreshold > 100 {
		return fmt.Errorf("dialogue.pass_threshold must be between 0 and 100, got %d", c.Dialogue.PassThreshold)
	}
	if c.Metrics.SampleRate < 0 || c.Metrics.SampleRate > 1 {
		return fmt.Errorf("metrics.sample_rate must be between 0 and 1, got %v", c.Metrics.SampleRate)
	}
	return nil
}

// expandEnvStrings resolves ${VAR} references so that API keys can live in
// the environment instead of the config file.
func expandEnvStrings(cfg *Config) {
	cfg.Server.Addr = os.ExpandEnv(cfg.Server.Addr)
	cfg.Store.Path = os.ExpandEnv(cfg.Store.Path)
	cfg.Metrics.Path = os.ExpandEnv(cfg.Metrics.Path)
	cfg.Dialogue.ScenariosDir = os.ExpandEnv(cfg.Dialogue.ScenariosDir)
	cfg.Vendors.STT.Settings = expandSettings(cfg.Vendors.STT.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.LLM.Settings = expandSettings(cfg.Vendors.LLM.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		return expandSettings(val)
	default:
		return v
	}
}
