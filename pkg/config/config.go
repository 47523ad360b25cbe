package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "STOREFRONT_"

	placeholderSecret = "change-me"
	minProdSecretLen  = 32
)

type Config struct {
	AppEnv   string `koanf:"app_env"`
	LogLevel string `koanf:"log_level"`
	LogFile  string `koanf:"log_file"`

	HTTP struct {
		Port         int           `koanf:"port"`
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Auth struct {
		JWTSecret string            `koanf:"jwt_secret"`
		Issuer    string            `koanf:"issuer"`
		Audience  string            `koanf:"audience"`
		TTL       time.Duration     `koanf:"ttl"`
		Users     map[string]string `koanf:"users"`
	} `koanf:"auth"`

	Checkout struct {
		Publisher      string        `koanf:"publisher"`
		Timeout        time.Duration `koanf:"timeout"`
		IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`
	} `koanf:"checkout"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Rabbit struct {
		URL string `koanf:"url"`
	} `koanf:"rabbitmq"`

	GRPC struct {
		Target  string        `koanf:"target"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"grpc"`

	Catalog struct {
		Products []ProductSeed `koanf:"products"`
	} `koanf:"catalog"`
}

// ProductSeed is a catalog entry loaded at startup. Price is a decimal string.
type ProductSeed struct {
	Name        string   `koanf:"name"`
	Description string   `koanf:"description"`
	Price       string   `koanf:"price"`
	Image       string   `koanf:"image"`
	Sizes       []string `koanf:"sizes"`
}

// Load reads <dir>/base.yaml, then the optional <dir>/<env>.yaml, then
// STOREFRONT_* variables (nested keys joined with "__").
func Load(dir, appEnv string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(filepath.Join(dir, "base.yaml")), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	overlay := filepath.Join(dir, appEnv+".yaml")
	if _, err := os.Stat(overlay); err == nil {
		if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", appEnv, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if appEnv != "" {
		cfg.AppEnv = appEnv
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 15 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout <= 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Auth.TTL <= 0 {
		c.Auth.TTL = time.Hour
	}
	if c.Checkout.Publisher == "" {
		c.Checkout.Publisher = "log"
	}
	if c.Checkout.Timeout <= 0 {
		c.Checkout.Timeout = 3 * time.Second
	}
	if c.Checkout.IdempotencyTTL <= 0 {
		c.Checkout.IdempotencyTTL = 10 * time.Minute
	}
	if c.GRPC.Timeout <= 0 {
		c.GRPC.Timeout = 5 * time.Second
	}
}

func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret required")
	}
	if c.AppEnv == "prod" && (c.Auth.JWTSecret == placeholderSecret || len(c.Auth.JWTSecret) < minProdSecretLen) {
		return fmt.Errorf("auth.jwt_secret must be a real secret of at least %d bytes in prod", minProdSecretLen)
	}
	switch c.Checkout.Publisher {
	case "log":
	case "amqp":
		if c.Rabbit.URL == "" {
			return errors.New("rabbitmq.url required for amqp publisher")
		}
	case "grpc":
		if c.GRPC.Target == "" {
			return errors.New("grpc.target required for grpc publisher")
		}
	default:
		return fmt.Errorf("unknown checkout.publisher %q", c.Checkout.Publisher)
	}
	return nil
}
