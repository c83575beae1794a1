// Package config loads bowman.toml.
//
// A config file is optional. Values are resolved in this order, later
// sources winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file
//  3. the PORT environment variable (listen port only)
//  4. command-line flags, applied by the caller
//
// Example file:
//
//	[server]
//	addr = ":3000"
//
//	[repo]
//	path = "/home/me/project"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "file"
package config

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bowmanhq/bowman/pkg/errors"
)

// FileName is the config file looked up in the working directory.
const FileName = "bowman.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Repo   RepoConfig   `toml:"repo"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string `toml:"allowed_origins"`
}

type RepoConfig struct {
	// Path is the repository selected at startup. Empty waits for a client
	// to pick one.
	Path string `toml:"path"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
}

type StoreConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Duration is a time.Duration written as a string ("90s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":3000"},
		Cache:  CacheConfig{Backend: CacheFile, TTL: Duration{24 * time.Hour}},
		Store:  StoreConfig{Backend: StoreFile, MongoDatabase: "bowman"},
	}
}

// Load reads path on top of the defaults and applies the environment.
// An empty path tries FileName in the working directory and silently falls
// back to the defaults when it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if _, err := os.Stat(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// ApplyEnv applies PORT, replacing the port of Server.Addr.
func (c *Config) ApplyEnv(getenv func(string) string) {
	port := getenv("PORT")
	if port == "" {
		return
	}
	host, _, err := net.SplitHostPort(c.Server.Addr)
	if err != nil {
		host = ""
	}
	c.Server.Addr = net.JoinHostPort(host, port)
}

// Validate checks backend names and required fields.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid server addr %q", c.Server.Addr)
	}
	if _, port, _ := net.SplitHostPort(c.Server.Addr); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid port %q", port)
		}
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri and store.mongo_database are required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Repo.Path != "" {
		if err := errors.ValidateRepoPath(c.Repo.Path); err != nil {
			return err
		}
	}
	return nil
}
