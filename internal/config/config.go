package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Profiles   ProfilesConfig   `yaml:"profiles" mapstructure:"profiles"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl" mapstructure:"firecrawl"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Research   ResearchConfig   `yaml:"research" mapstructure:"research"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures session persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ProfilesConfig configures the provider-profile database.
type ProfilesConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// JinaConfig holds Jina search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// FirecrawlConfig holds Firecrawl API settings.
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings. The fast model handles
// query generation and reranking; the deep model handles checklist
// generation and answer extraction.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	FastModel string `yaml:"fast_model" mapstructure:"fast_model"`
	DeepModel string `yaml:"deep_model" mapstructure:"deep_model"`
}

// ResearchConfig locates the research policy file.
type ResearchConfig struct {
	PolicyPath string `yaml:"policy_path" mapstructure:"policy_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the settings a command mode needs are present.
// Modes: "onboard" for the workflow commands, "profiles" for profile
// queries, "sessions" for local session inspection.
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "onboard":
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}
		if c.Store.Path == "" {
			missing = append(missing, "store.path is required")
		}
		if c.Profiles.DatabaseURL == "" {
			missing = append(missing, "profiles.database_url is required")
		}
	case "profiles":
		if c.Profiles.DatabaseURL == "" {
			missing = append(missing, "profiles.database_url is required")
		}
	case "sessions":
		if c.Store.Path == "" {
			missing = append(missing, "store.path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ONBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "onboard.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v2")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("anthropic.fast_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.deep_model", "claude-sonnet-4-5-20250929")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
