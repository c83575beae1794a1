package cli

import (
	"github.com/spf13/cobra"

	"github.com/bowmanhq/bowman/pkg/config"
	"github.com/bowmanhq/bowman/pkg/observability"
	"github.com/bowmanhq/bowman/pkg/server"
	"github.com/bowmanhq/bowman/pkg/store"
)

type serveOpts struct {
	addr    string
	repo    string
	noCache bool
}

// serveCommand starts the REST and websocket API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the aim API over HTTP",
		Long: `Serve the REST API and websocket endpoint used by the bowman map UI.

Without --repo (or [repo] path in the config) no repository is selected
until a client posts one to /api/repo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (default from config, :3000)")
	cmd.Flags().StringVarP(&opts.repo, "repo", "r", "", "repository to select at startup")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the map cache")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.repo != "" {
		cfg.Repo.Path = opts.repo
	}

	observability.NewLogHooks(c.Logger).Register()

	mapCache, err := c.newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer mapCache.Close()

	srvOpts := server.Options{
		Logger:         c.Logger,
		Cache:          mapCache,
		CacheTTL:       cfg.Cache.TTL.Duration,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	switch {
	case cfg.Store.Backend == config.StoreMongo:
		ms, err := store.OpenMongo(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
			Logger:   c.Logger,
		})
		if err != nil {
			return err
		}
		srvOpts.Store = ms
		srvOpts.RepoPath = "mongo:" + cfg.Store.MongoDatabase
	case cfg.Repo.Path != "":
		if srvOpts.RepoPath, err = repoPath(nil, cfg); err != nil {
			return err
		}
	}

	srv, err := server.New(srvOpts)
	if err != nil {
		return err
	}
	defer srv.Close()

	c.Logger.Info("serving", "addr", cfg.Server.Addr, "repo", srv.Repo(), "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
