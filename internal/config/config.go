package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/comptroller-cli/pkg/comptroller"
)

// Config holds the full application configuration.
type Config struct {
	Comptroller ComptrollerConfig `yaml:"comptroller" mapstructure:"comptroller"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ComptrollerConfig configures the franchise tax API client and export
// behavior. Flag values override these.
type ComptrollerConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent     string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimitSecs float64 `yaml:"rate_limit_secs" mapstructure:"rate_limit_secs"`
	TimeoutSecs   float64 `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	PageSize      int     `yaml:"page_size" mapstructure:"page_size"`
	MaxPages      int     `yaml:"max_pages" mapstructure:"max_pages"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("comptroller.base_url", comptroller.DefaultBaseURL)
	v.SetDefault("comptroller.user_agent", comptroller.DefaultUserAgent)
	v.SetDefault("comptroller.rate_limit_secs", 1.0)
	v.SetDefault("comptroller.timeout_secs", 30.0)
	v.SetDefault("comptroller.page_size", 0)
	v.SetDefault("comptroller.max_pages", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
