package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bowmanhq/bowman/pkg/cache"
	"github.com/bowmanhq/bowman/pkg/render/aimmap"
	"github.com/bowmanhq/bowman/pkg/render/nodelink"
	"github.com/bowmanhq/bowman/pkg/store"
)

// Output formats for the render command.
const (
	formatSVG      = "svg"      // aim map with flow bands
	formatDOT      = "dot"      // graphviz source
	formatGraphviz = "graphviz" // DOT laid out by graphviz as SVG
)

type renderOpts struct {
	output   string
	format   string
	padding  float64
	noLabels bool
	noColors bool
	detailed bool
	noCache  bool
}

// renderCommand draws a repository's aims.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG, padding: -1}

	cmd := &cobra.Command{
		Use:   "render [path]",
		Short: "Render the aim map of a repository",
		Long: `Render the aims of a repository.

Formats:
  svg       circles sized by effort, joined by flow bands (default)
  dot       graphviz source, one edge per contribution
  graphviz  the DOT graph laid out by graphviz as SVG`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatSVG, formatDOT, formatGraphviz:
			default:
				return fmt.Errorf("unknown format %q (want svg, dot or graphviz)", opts.format)
			}
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, graphviz")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "map padding (svg)")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit aim titles (svg)")
	cmd.Flags().BoolVar(&opts.noColors, "no-colors", false, "draw every aim in the neutral fill (svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add status, effort and strengths (dot, graphviz)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the render cache")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	path, err := repoPath(args, cfg)
	if err != nil {
		return err
	}

	st, err := c.openStore(ctx, cfg, path)
	if err != nil {
		return err
	}
	defer st.Close()

	cc, err := c.newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer cc.Close()
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.RepoPrefix(path))

	prog := newProgress(logger)
	g, err := store.LoadGraph(ctx, st)
	if err != nil {
		return err
	}

	data, err := renderGraph(ctx, cmd, cc, keyer, cfg.Cache.TTL.Duration, g, opts)
	if err != nil {
		return err
	}
	prog.done("rendered", "format", opts.format, "aims", len(g.Aims), "flows", len(g.Flows))

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(cmd.ErrOrStderr(), opts.output)
	return nil
}

func renderGraph(ctx context.Context, cmd *cobra.Command, cc cache.Cache, keyer cache.Keyer, ttl time.Duration, g store.Graph, opts renderOpts) ([]byte, error) {
	switch opts.format {
	case formatDOT, formatGraphviz:
		dot, err := nodelink.Cached(ctx, cc, keyer, ttl, g, nodelink.Options{Detailed: opts.detailed})
		if err != nil || opts.format == formatDOT {
			return dot, err
		}
		sp := newSpinner(ctx, cmd.ErrOrStderr(), "Laying out with graphviz...").start()
		svg, err := nodelink.RenderSVG(ctx, string(dot))
		sp.stop()
		return svg, err
	}

	mapOpts := []aimmap.Option{
		aimmap.WithLabels(!opts.noLabels),
		aimmap.WithStatusColors(!opts.noColors),
	}
	if opts.padding >= 0 {
		mapOpts = append(mapOpts, aimmap.WithPadding(opts.padding))
	}
	return aimmap.Cached(ctx, cc, keyer, ttl, g, mapOpts...)
}
