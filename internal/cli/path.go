package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bowmanhq/bowman/pkg/geom/connector"
	"github.com/bowmanhq/bowman/pkg/geom/vec2"
)

// pathCommand prints the connector path between two circles.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		fromStr, intoStr string
		width            float64
		controls         bool
		curvature        float64
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the flow band between two circles as SVG path data",
		Example: `  bowman path --from 0,0,30 --into 200,50,40 --width 12
  bowman path --from 0,0,30 --into 200,50,40 --controls`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := parseCircle(fromStr)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			into, err := parseCircle(intoStr)
			if err != nil {
				return fmt.Errorf("--into: %w", err)
			}

			out := cmd.OutOrStdout()
			if controls {
				cp := connector.GetConnectionControlPoints(from, into, curvature)
				printKeyValue(out, "start", formatPoint(cp.Start))
				printKeyValue(out, "control1", formatPoint(cp.Control1))
				printKeyValue(out, "control2", formatPoint(cp.Control2))
				printKeyValue(out, "end", formatPoint(cp.End))
				printKeyValue(out, "midpoint", formatPoint(cp.Midpoint))
				return nil
			}

			d := connector.MakeCircularPath(from, width, into)
			if d == "" {
				printWarning(cmd.ErrOrStderr(), "circles overlap, no band drawn")
				return nil
			}
			fmt.Fprintln(out, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "source circle as x,y,r (required)")
	cmd.Flags().StringVar(&intoStr, "into", "", "receiving circle as x,y,r (required)")
	cmd.Flags().Float64VarP(&width, "width", "w", 10, "band width where it meets the source")
	cmd.Flags().BoolVar(&controls, "controls", false, "print the single-curve control points instead")
	cmd.Flags().Float64Var(&curvature, "curvature", connector.DefaultCurvature, "bend for --controls")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("into")
	return cmd
}

// parseCircle reads "x,y,r".
func parseCircle(s string) (connector.Circle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return connector.Circle{}, fmt.Errorf("want x,y,r, got %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return connector.Circle{}, fmt.Errorf("bad number %q", p)
		}
		v[i] = f
	}
	if v[2] < 0 {
		return connector.Circle{}, fmt.Errorf("negative radius %v", v[2])
	}
	return connector.Circle{Pos: vec2.FromValues(v[0], v[1]), R: v[2]}, nil
}

func formatPoint(p vec2.Vec2) string {
	return strconv.FormatFloat(p[0], 'f', -1, 64) + "," + strconv.FormatFloat(p[1], 'f', -1, 64)
}
