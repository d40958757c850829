package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		Mode           string   `yaml:"mode"` // gin mode: debug, release, test
		AllowedOrigins []string `yaml:"allowedOrigins"`
		TrustedProxies []string `yaml:"trustedProxies"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // mongo or memory
		URI    string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		Addr                string        `yaml:"addr"` // empty disables caching and score-save limiting
		Password            string        `yaml:"password"`
		DB                  int           `yaml:"db"`
		LeaderboardTTL      time.Duration `yaml:"leaderboardTTL"`
		ScoreSavesPerMinute int           `yaml:"scoreSavesPerMinute"`
	} `yaml:"redis"`

	JWT struct {
		Secret           string `yaml:"secret"`
		ExpiryHours      int    `yaml:"expiryHours"`
		GuestExpiryHours int    `yaml:"guestExpiryHours"`
	} `yaml:"jwt"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`

	Progression struct {
		Timezone string `yaml:"timezone"` // IANA name; "Local" uses the server zone
	} `yaml:"progression"`

	Log struct {
		Development bool `yaml:"development"`
	} `yaml:"log"`
}

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// LoadConfig reads the configuration file, then layers .env and environment overrides on top
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Database.URI = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("GALAXY_TIMEZONE"); v != "" {
		c.Progression.Timezone = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMongo
	}
	if c.Redis.LeaderboardTTL == 0 {
		c.Redis.LeaderboardTTL = 30 * time.Second
	}
	if c.Redis.ScoreSavesPerMinute == 0 {
		c.Redis.ScoreSavesPerMinute = 30
	}
	if c.JWT.ExpiryHours == 0 {
		c.JWT.ExpiryHours = 7 * 24
	}
	if c.JWT.GuestExpiryHours == 0 {
		c.JWT.GuestExpiryHours = 24
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Progression.Timezone == "" {
		c.Progression.Timezone = "Local"
	}
}

// Validate reports the first setting the server cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (jwt.secret or JWT_SECRET)")
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" {
			return errors.New("database uri is required for the mongo driver (database.uri or MONGO_URI)")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves progression.timezone, the zone whose calendar days drive streaks
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Progression.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid progression timezone %q: %w", c.Progression.Timezone, err)
	}
	return loc, nil
}

// TokenTTL returns the lifetime of regular and guest tokens
func (c *Config) TokenTTL() (regular, guest time.Duration) {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour, time.Duration(c.JWT.GuestExpiryHours) * time.Hour
}
