package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WebConfig struct {
	Port       int           `yaml:"port"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// EngineConfig holds the eligibility thresholds and session timing.
type EngineConfig struct {
	ProximityRadiusMeters float64       `yaml:"proximity_radius_meters"`
	CooldownHours         int           `yaml:"cooldown_hours"`
	PollInterval          time.Duration `yaml:"poll_interval"`
	LocationTimeout       time.Duration `yaml:"location_timeout"`
	LocationMaxAge        time.Duration `yaml:"location_max_age"` // staleness bound on reported positions
	CodeTTL               time.Duration `yaml:"code_ttl"`         // validation code display window
}

type PointsConfig struct {
	Base         int `yaml:"base"`
	PerRating    int `yaml:"per_rating"`
	SavingsBonus int `yaml:"savings_bonus"`
}

type RetentionConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
	KeepDays      int           `yaml:"keep_days"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Web       WebConfig       `yaml:"web"`
	Engine    EngineConfig    `yaml:"engine"`
	Points    PointsConfig    `yaml:"points"`
	Retention RetentionConfig `yaml:"retention"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.SessionTTL <= 0 {
		cfg.Web.SessionTTL = 30 * time.Minute
	}
	if cfg.Engine.ProximityRadiusMeters <= 0 {
		cfg.Engine.ProximityRadiusMeters = 100
	}
	if cfg.Engine.CooldownHours <= 0 {
		cfg.Engine.CooldownHours = 24
	}
	if cfg.Engine.PollInterval <= 0 {
		cfg.Engine.PollInterval = 30 * time.Second
	}
	if cfg.Engine.LocationTimeout <= 0 {
		cfg.Engine.LocationTimeout = 10 * time.Second
	}
	if cfg.Engine.LocationMaxAge <= 0 {
		cfg.Engine.LocationMaxAge = 30 * time.Second
	}
	if cfg.Engine.CodeTTL <= 0 {
		cfg.Engine.CodeTTL = 2 * time.Hour
	}
	if cfg.Retention.SweepInterval <= 0 {
		cfg.Retention.SweepInterval = time.Hour
	}
	if cfg.Retention.KeepDays <= 0 {
		cfg.Retention.KeepDays = 90
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Web.JWTSecret == "" {
		return nil, errors.New("web.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
