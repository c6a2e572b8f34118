// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/rules"
)

type DB struct {
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	Name     string `env:"DB_NAME" envDefault:"spinwin"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN is the lib/pq connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	DB              DB
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisTTL        time.Duration `env:"REDIS_TTL" envDefault:"24h"`
	AMQPURL         string        `env:"AMQP_URL"`
	PromotionPolicy string        `env:"PROMOTION_POLICY" envDefault:"first"`
	Editor          string        `env:"EDITOR" envDefault:"system"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Debug("no .env file found, relying on OS environment variables")
	}
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Policy(); err != nil {
		return Config{}, err
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("parse env: LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func (c Config) Policy() (rules.PromotionPolicy, error) {
	p, err := rules.ParsePromotionPolicy(c.PromotionPolicy)
	if err != nil {
		return "", fmt.Errorf("parse env: PROMOTION_POLICY: %w", err)
	}
	return p, nil
}

// UsePostgres is false when no database host is configured; the service then
// keeps campaigns in memory.
func (c Config) UsePostgres() bool { return c.DB.Host != "" }

// SetupLogging configures the standard logrus logger for a binary.
func (c Config) SetupLogging() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
