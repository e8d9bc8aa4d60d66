// Package config loads server settings from defaults, an optional TOML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Store drivers accepted in Store.Driver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const DefaultPort = 8080

type Config struct {
	Port      int    `toml:"port"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	CORS     CORSConfig     `toml:"cors"`
	Store    StoreConfig    `toml:"store"`
	Postgres PostgresConfig `toml:"postgres"`
	Mongo    MongoConfig    `toml:"mongo"`

	// Warnings collects non-fatal problems found while loading, such as an
	// unparseable PORT, so the caller can log them once a logger exists.
	Warnings []string `toml:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type StoreConfig struct {
	Driver string `toml:"driver"`
}

type PostgresConfig struct {
	// URL, when set, is used verbatim and the discrete fields are ignored.
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	Schema   string `toml:"schema"`
	SSLMode  string `toml:"sslmode"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		Port:      DefaultPort,
		LogLevel:  "info",
		LogFormat: "text",
		CORS: CORSConfig{
			AllowedOrigins: []string{"https://*", "http://*"},
		},
		Store: StoreConfig{Driver: DriverMongo},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     "5432",
			SSLMode:  "disable",
			Database: "todos",
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "todo",
			Collection: "todos",
		},
	}
}

// Load builds a Config. path may be empty; a named file that does not exist
// is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	loadFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			cfg.Warnings = append(cfg.Warnings,
				fmt.Sprintf("invalid PORT environment variable %q, using %d", v, DefaultPort))
			cfg.Port = DefaultPort
		} else {
			cfg.Port = port
		}
	}
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}

	setString(&cfg.Store.Driver, "STORE_DRIVER")

	setString(&cfg.Postgres.URL, "DATABASE_URL")
	setString(&cfg.Postgres.Host, "BLUEPRINT_DB_HOST")
	setString(&cfg.Postgres.Port, "BLUEPRINT_DB_PORT")
	setString(&cfg.Postgres.Username, "BLUEPRINT_DB_USERNAME")
	setString(&cfg.Postgres.Password, "BLUEPRINT_DB_PASSWORD")
	setString(&cfg.Postgres.Database, "BLUEPRINT_DB_DATABASE")
	setString(&cfg.Postgres.Schema, "BLUEPRINT_DB_SCHEMA")

	setString(&cfg.Mongo.URI, "MONGO_URI")
	setString(&cfg.Mongo.Database, "MONGO_DATABASE")
	setString(&cfg.Mongo.Collection, "MONGO_COLLECTION")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the fields the selected driver needs.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.URL == "" && c.Postgres.Host == "" {
			return errors.New("postgres store needs DATABASE_URL or a host")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo store needs a URI")
		}
		if c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return errors.New("mongo store needs a database and collection name")
		}
	default:
		return fmt.Errorf("unknown store driver %q (want %s, %s or %s)",
			c.Store.Driver, DriverMongo, DriverPostgres, DriverMemory)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DSN renders the postgres connection string in the key=value form gorm's
// postgres driver accepts.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.Username, p.Password, p.Database, p.Port, sslmode)
	if p.Schema != "" {
		dsn += " search_path=" + p.Schema
	}
	return dsn
}

// Redacted returns the mongo URI with any password masked, for logging.
func (m MongoConfig) Redacted() string {
	u, err := url.Parse(m.URI)
	if err != nil {
		return "<unparseable mongo uri>"
	}
	return u.Redacted()
}
