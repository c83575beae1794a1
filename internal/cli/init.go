package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/config"
	"github.com/bowmanhq/bowman/pkg/store"
)

// initCommand creates a .quiver directory with a root aim.
func (c *CLI) initCommand() *cobra.Command {
	var root aim.Draft

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a .quiver directory with a root aim",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path, err := repoPath(args, cfg)
			if err != nil {
				return err
			}

			var id aim.ID
			if cfg.Store.Backend == config.StoreMongo {
				id, err = c.initMongo(cmd, cfg, filepath.Base(path), root)
			} else {
				var fs *store.FileStore
				fs, id, err = store.Init(cmd.Context(), path, root, store.WithLogger(c.Logger))
				if err == nil {
					fs.Close()
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Initialized %s", filepath.Join(path, store.QuiverDir))
			printKeyValue(out, "root aim", id.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root.Title, "title", "t", "", "root aim title (required)")
	cmd.Flags().StringVarP(&root.Description, "description", "d", "", "root aim description (required)")
	cmd.Flags().StringSliceVar(&root.Tags, "tag", nil, "root aim tag (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func (c *CLI) initMongo(cmd *cobra.Command, cfg config.Config, name string, root aim.Draft) (aim.ID, error) {
	ms, err := store.OpenMongo(cmd.Context(), store.MongoConfig{
		URI:      cfg.Store.MongoURI,
		Database: cfg.Store.MongoDatabase,
		Logger:   c.Logger,
	})
	if err != nil {
		return aim.ID{}, err
	}
	defer ms.Close()
	return ms.Init(cmd.Context(), name, root)
}
