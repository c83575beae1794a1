// Package cli implements the bowman command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bowmanhq/bowman/pkg/buildinfo"
	"github.com/bowmanhq/bowman/pkg/cache"
	"github.com/bowmanhq/bowman/pkg/config"
	"github.com/bowmanhq/bowman/pkg/store"
)

// appName names the cache directory and the binary.
const appName = "bowman"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig reads --config, or bowman.toml in the working directory.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// repoPath resolves the repository argument, falling back to the configured
// path and then to the working directory. The result is absolute.
func repoPath(args []string, cfg config.Config) (string, error) {
	p := cfg.Repo.Path
	if len(args) > 0 {
		p = args[0]
	}
	if p == "" {
		p = "."
	}
	return filepath.Abs(p)
}

// openStore opens the configured store backend. File stores are rooted at
// path; mongo stores ignore it.
func (c *CLI) openStore(ctx context.Context, cfg config.Config, path string) (store.Store, error) {
	if cfg.Store.Backend == config.StoreMongo {
		ms, err := store.OpenMongo(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
			Logger:   c.Logger,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	fs, err := store.Open(path, store.WithLogger(c.Logger))
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// newCache builds the configured cache backend. noCache forces a NullCache.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, KeyPrefix: appName + ":"})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := fileCacheDir(cfg)
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the XDG cache directory (~/.cache/bowman/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// fileCacheDir prefers the configured cache.dir.
func fileCacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// rootCommand is kept separate so tests can build the tree without main.
func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Bowman maps goals and the flows between them",
		Long: `Bowman tracks aims stored in a .quiver directory and draws them as a map of
circles joined by flow bands, one band per contribution.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+config.FileName+")")
	return root
}
