package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bowmanhq/bowman/pkg/config"
	"github.com/bowmanhq/bowman/pkg/geom/vec2"
)

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "bowman"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".cache", "bowman"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestFileCacheDirPrefersConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/var/cache/bowman"
	if dir, _ := fileCacheDir(cfg); dir != cfg.Cache.Dir {
		t.Errorf("fileCacheDir() = %q", dir)
	}
}

func TestRepoPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()

	tests := []struct {
		name    string
		args    []string
		cfgPath string
		want    string
	}{
		{"working directory", nil, "", wd},
		{"config path", nil, "/srv/goals", "/srv/goals"},
		{"argument wins", []string{"/home/me/app"}, "/srv/goals", "/home/me/app"},
		{"relative argument", []string{"sub"}, "", filepath.Join(wd, "sub")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.Repo.Path = tt.cfgPath
			got, err := repoPath(tt.args, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("repoPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCircle(t *testing.T) {
	c, err := parseCircle("10, -5.5,30")
	if err != nil {
		t.Fatal(err)
	}
	if !vec2.Eq(c.Pos, vec2.FromValues(10, -5.5)) || c.R != 30 {
		t.Errorf("parseCircle = %+v", c)
	}

	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,2,3", "0,0,-1"} {
		if _, err := parseCircle(bad); err == nil {
			t.Errorf("parseCircle(%q) accepted", bad)
		}
	}
}
