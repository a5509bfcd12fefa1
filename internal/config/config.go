package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer    `yaml:"http_server"`
	Storage       Storage       `yaml:"storage"`
	Simulator     Simulator     `yaml:"simulator"`
	Notifications Notifications `yaml:"notifications"`

	AdminLogin  string   `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass   string   `yaml:"admin_pass" env:"ADMIN_PASS"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:8081"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Storage selects the backend for operator preferences (filters, session).
// Driver is one of "memory", "mysql", "sqlite".
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	DSN    string `yaml:"dsn" env:"STORAGE_DSN"`
}

type Simulator struct {
	Interval             time.Duration `yaml:"interval" env-default:"10s"`
	ChartInterval        time.Duration `yaml:"chart_interval" env-default:"10s"`
	AnnounceInterval     time.Duration `yaml:"announce_interval" env-default:"30s"`
	CriticalNotifyChance float64       `yaml:"critical_notify_chance" env-default:"0.3"`
	Seed                 uint64        `yaml:"seed" env:"SIMULATOR_SEED"`
}

type Notifications struct {
	TTL       time.Duration `yaml:"ttl" env-default:"5s"`
	Heartbeat time.Duration `yaml:"heartbeat" env-default:"30s"`
}

// Load reads the yaml file at path with env overrides. A missing file is
// not an error: defaults and environment are used instead.
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
	}

	return &cfg, nil
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
