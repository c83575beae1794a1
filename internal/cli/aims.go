package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bowmanhq/bowman/pkg/store"
)

// withStore opens the repository named by args and runs fn against it.
func (c *CLI) withStore(cmd *cobra.Command, args []string, fn func(store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	path, err := repoPath(args, cfg)
	if err != nil {
		return err
	}
	st, err := c.openStore(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// tagsCommand lists tags by how many aims use them.
func (c *CLI) tagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags [path]",
		Short: "List tags with their aim counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, args, func(st store.Store) error {
				tags, err := st.Tags(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(tags) == 0 {
					printInfo(out, "No tags")
					return nil
				}
				fmt.Fprintln(out, tagTable(tags))
				return nil
			})
		},
	}
}

type searchOpts struct {
	repo        string
	tags        []string
	limit       int
	interactive bool
}

// searchCommand filters aims by text and tags.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "search [text...]",
		Short: "Search aims by text and tags",
		Long: `Search aims whose title, description, status note or tags contain the
text (case-insensitive). --tag keeps aims carrying any of the given tags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var repoArgs []string
			if opts.repo != "" {
				repoArgs = []string{opts.repo}
			}
			if opts.limit <= 0 {
				printInfo(cmd.OutOrStdout(), "No aims match")
				return nil
			}
			q := store.Query{Text: strings.Join(args, " "), Tags: opts.tags, Limit: opts.limit}
			return c.withStore(cmd, repoArgs, func(st store.Store) error {
				aims, err := st.Search(cmd.Context(), q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(aims) == 0 {
					printInfo(out, "No aims match")
					return nil
				}
				if !opts.interactive {
					fmt.Fprintln(out, aimTable(aims))
					return nil
				}

				final, err := tea.NewProgram(NewAimListModel(aims), tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return err
				}
				if m, ok := final.(AimListModel); ok && m.Selected != nil {
					printAim(out, m.Selected)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.repo, "repo", "r", "", "repository path (default config or working directory)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "match any of these tags (repeatable)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", store.DefaultSearchLimit, "maximum results")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a result and show its details")
	return cmd
}
