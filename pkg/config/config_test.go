package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bowmanhq/bowman/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bowman.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Server.Addr != ":3000" {
		t.Errorf("Addr = %q", c.Server.Addr)
	}
	if c.Cache.Backend != CacheFile || c.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("Cache = %+v", c.Cache)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PORT", "")
	p := writeConfig(t, `
[server]
addr = "127.0.0.1:8080"
allowed_origins = ["http://localhost:5173"]

[cache]
backend = "redis"
ttl = "90s"
redis_addr = "localhost:6379"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if c.Server.Addr != "127.0.0.1:8080" || len(c.Server.AllowedOrigins) != 1 {
		t.Errorf("Server = %+v", c.Server)
	}
	if c.Cache.Backend != CacheRedis || c.Cache.TTL.Duration != 90*time.Second {
		t.Errorf("Cache = %+v", c.Cache)
	}
	if c.Store.MongoDatabase != "bowman" {
		t.Errorf("unset keys should keep defaults, got %q", c.Store.MongoDatabase)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("PORT", "")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("explicit missing file = %v", err)
	}

	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	c, err := Load("")
	if err != nil || c.Server.Addr != ":3000" {
		t.Errorf("implicit missing file = (%+v, %v)", c, err)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("PORT", "")
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[server\naddr ="},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"unknown cache", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
		{"relative repo", "[repo]\npath = \"project\""},
		{"bad addr", "[server]\naddr = \"3000\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Error("Load() accepted invalid config")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		addr, port, want string
	}{
		{":3000", "", ":3000"},
		{":3000", "8080", ":8080"},
		{"127.0.0.1:3000", "9000", "127.0.0.1:9000"},
		{"garbage", "9000", ":9000"},
	}
	for _, tt := range tests {
		c := Config{Server: ServerConfig{Addr: tt.addr}}
		c.ApplyEnv(func(k string) string {
			if k == "PORT" {
				return tt.port
			}
			return ""
		})
		if c.Server.Addr != tt.want {
			t.Errorf("ApplyEnv(%q, PORT=%q) = %q, want %q", tt.addr, tt.port, c.Server.Addr, tt.want)
		}
	}
}

func TestLoadPortOverride(t *testing.T) {
	t.Setenv("PORT", "4321")
	c, err := Load(writeConfig(t, "[server]\naddr = \"localhost:3000\""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Addr != "localhost:4321" {
		t.Errorf("Addr = %q", c.Server.Addr)
	}
}
