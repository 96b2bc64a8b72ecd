package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Discord  DiscordConfig
	API      APIConfig
	Store    StoreConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type DiscordConfig struct {
	BotToken  string `env:"DISCORD_BOT_TOKEN"`
	PublicKey string `env:"DISCORD_PUBLIC_KEY"`
	AppID     string `env:"DISCORD_APP_ID"`
	GuildID   string `env:"DISCORD_GUILD_ID"`
}

// APIConfig protects the results API. An empty secret leaves it unserved.
type APIConfig struct {
	JWTSecret string        `env:"API_JWT_SECRET"`
	TokenTTL  time.Duration `env:"API_TOKEN_TTL" envDefault:"24h"`
}

type StoreConfig struct {
	Driver     string        `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath string        `env:"SQLITE_PATH" envDefault:"chatpoll.db"`
	PendingTTL time.Duration `env:"PENDING_TTL" envDefault:"720h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB"`
}

func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DB)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env file is fine, the environment may carry everything.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.PendingTTL <= 0 {
		return fmt.Errorf("PENDING_TTL must be positive")
	}
	if c.API.TokenTTL <= 0 {
		return fmt.Errorf("API_TOKEN_TTL must be positive")
	}
	return nil
}

// DiscordPublicKey decodes the application's hex encoded Ed25519 key.
func (c DiscordConfig) DiscordPublicKey() (ed25519.PublicKey, error) {
	key, err := hex.DecodeString(c.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid DISCORD_PUBLIC_KEY: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid DISCORD_PUBLIC_KEY: want %d bytes, got %d", ed25519.PublicKeySize, len(key))
	}
	return ed25519.PublicKey(key), nil
}
