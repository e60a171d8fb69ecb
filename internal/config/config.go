package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jengzang/trip-activity-go/internal/analysis/segmentation"
	"github.com/jengzang/trip-activity-go/internal/ingest"
)

// EnvPrefix prefixes every environment override, e.g. TRIPACT_SERVER_PORT
const EnvPrefix = "TRIPACT"

// Config 应用配置
type Config struct {
	Server       ServerConfig        `mapstructure:"server"`
	Database     DatabaseConfig      `mapstructure:"database"`
	Auth         AuthConfig          `mapstructure:"auth"`
	RateLimit    RateLimitConfig     `mapstructure:"ratelimit"`
	Segmentation segmentation.Params `mapstructure:"segmentation"`
	Ingest       IngestConfig        `mapstructure:"ingest"`
	Batch        BatchConfig         `mapstructure:"batch"`
	Logging      LoggingConfig       `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"` // empty disables storage
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"` // empty disables bearer auth
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"` // per window per IP, 0 disables
	Window   time.Duration `mapstructure:"window"`
}

type IngestConfig struct {
	Delimiter       string `mapstructure:"delimiter"`
	TimestampColumn int    `mapstructure:"timestamp_column"`
	LatitudeColumn  int    `mapstructure:"latitude_column"`
	LongitudeColumn int    `mapstructure:"longitude_column"`
	AccuracyColumn  int    `mapstructure:"accuracy_column"`
	CategoryColumn  int    `mapstructure:"category_column"`
	Extension       string `mapstructure:"extension"`
}

type BatchConfig struct {
	Workers      int    `mapstructure:"workers"`
	DistanceUnit string `mapstructure:"distance_unit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

func setDefaults(v *viper.Viper) {
	params := segmentation.DefaultParams()
	csv := ingest.DefaultOptions()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "./data/tripact.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("ratelimit.requests", 120)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("segmentation.min_duration_ms", params.MinDuration)
	v.SetDefault("segmentation.max_radius_m", params.MaxRadius)
	v.SetDefault("segmentation.min_interval_ms", params.MinInterval)
	v.SetDefault("segmentation.accuracy_threshold", params.AccuracyThreshold)
	v.SetDefault("ingest.delimiter", string(csv.Delimiter))
	v.SetDefault("ingest.timestamp_column", csv.TimestampColumn)
	v.SetDefault("ingest.latitude_column", csv.LatitudeColumn)
	v.SetDefault("ingest.longitude_column", csv.LongitudeColumn)
	v.SetDefault("ingest.accuracy_column", csv.AccuracyColumn)
	v.SetDefault("ingest.category_column", csv.CategoryColumn)
	v.SetDefault("ingest.extension", ".csv")
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.distance_unit", "m")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load 加载配置: defaults, then the optional YAML file, then TRIPACT_* environment
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfigPath returns TRIPACT_CONFIG_PATH, or configs/config.yaml when it exists
func GetConfigPath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		return path
	}

	configPath := filepath.Join("configs", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}
	return ""
}

// Validate rejects configurations the services cannot run with
func (c *Config) Validate() error {
	if err := c.Segmentation.Validate(); err != nil {
		return err
	}
	if len([]rune(c.Ingest.Delimiter)) != 1 {
		return fmt.Errorf("ingest delimiter must be a single character, got %q", c.Ingest.Delimiter)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch workers must be at least 1, got %d", c.Batch.Workers)
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}

// IngestOptions converts the ingest section into parser options
func (c *Config) IngestOptions() ingest.Options {
	return ingest.Options{
		Delimiter:       []rune(c.Ingest.Delimiter)[0],
		TimestampColumn: c.Ingest.TimestampColumn,
		LatitudeColumn:  c.Ingest.LatitudeColumn,
		LongitudeColumn: c.Ingest.LongitudeColumn,
		AccuracyColumn:  c.Ingest.AccuracyColumn,
		CategoryColumn:  c.Ingest.CategoryColumn,
	}
}
