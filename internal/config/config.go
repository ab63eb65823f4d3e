package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr   string        `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	SQLitePath string        `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"./master.db"`
	JWTSecret  string        `yaml:"jwt-secret" env:"JWT_SECRET" env-default:"my_super_secret_key"`
	TokenTTL   time.Duration `yaml:"token-ttl" env:"TOKEN_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis"`
	Otel       Otel          `yaml:"otel"`
	Session    Session       `yaml:"session"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Otel struct {
	Enabled  bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint string `yaml:"endpoint" env:"OTEL_ENDPOINT" env-default:"otel-collector:4317"`
}

type Session struct {
	// AIMoveDelay paces the computer's reply. A zero delay (set in code) plays it immediately.
	AIMoveDelay time.Duration `yaml:"ai-move-delay" env:"AI_MOVE_DELAY" env-default:"500ms"`
	TTL         time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	IdleTimeout time.Duration `yaml:"idle-timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"30m"`
}

// Load reads the yaml file at path when it exists, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("unable to load config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
