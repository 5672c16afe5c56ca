package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Build    BuildConfig    `yaml:"build" mapstructure:"build"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Runlog   RunlogConfig   `yaml:"runlog" mapstructure:"runlog"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig configures source acquisition.
type DataConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	SourceURL string `yaml:"source_url" mapstructure:"source_url"`
}

// BuildConfig configures artifact generation.
type BuildConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	Workers   int    `yaml:"workers" mapstructure:"workers"`
}

// DatabaseConfig configures the Postgres observation store used by load.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// RunlogConfig configures the run history store.
type RunlogConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the artifact HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
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
	v.SetConfigName("fao-cli")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.fao-cli")

	// Environment
	v.SetEnvPrefix("FAO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.source_url", "https://bulks-faostat.fao.org/production/FoodBalanceSheets_E_All_Data_(Normalized).zip")
	v.SetDefault("build.output_dir", "public/data/fao")
	v.SetDefault("build.workers", 4)
	v.SetDefault("runlog.driver", "sqlite")
	v.SetDefault("runlog.path", "fao-runs.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
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

// Validate checks the fields required by the given command mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "build":
		if c.Build.OutputDir == "" {
			problems = append(problems, "build.output_dir is required")
		}
		if c.Build.Workers < 1 || c.Build.Workers > 32 {
			problems = append(problems, "build.workers must be between 1 and 32")
		}
	case "fetch":
		if c.Data.Dir == "" {
			problems = append(problems, "data.dir is required")
		}
		if c.Data.SourceURL == "" {
			problems = append(problems, "data.source_url is required")
		}
	case "load":
		if c.Database.URL == "" {
			problems = append(problems, "database.url is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Build.OutputDir == "" {
			problems = append(problems, "build.output_dir is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Runlog.Driver != "sqlite" && c.Runlog.Driver != "postgres" {
		problems = append(problems, fmt.Sprintf("runlog.driver %q must be sqlite or postgres", c.Runlog.Driver))
	}
	if c.Runlog.Driver == "postgres" && c.Runlog.DatabaseURL == "" && c.Database.URL == "" {
		problems = append(problems, "runlog.database_url is required for the postgres driver")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// RunlogDSN returns the connection string for the postgres runlog driver,
// falling back to the observation store URL.
func (c *Config) RunlogDSN() string {
	if c.Runlog.DatabaseURL != "" {
		return c.Runlog.DatabaseURL
	}
	return c.Database.URL
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
