package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/pkg/errors"
	"github.com/matzehuels/drainline/pkg/geometry"
)

// transformCommand creates the transform command, which converts between
// plan and projected coordinates.
func (c *CLI) transformCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Convert between plan and projected coordinates",
		Long: `Convert between plan and projected coordinates.

The projection is px = x - y, py = (x + y) / 2. Negative values may be
passed directly.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:                "to X Y",
		Short:              "Project a plan point",
		Example:            "  drainline transform to 4 -2",
		Args:               cobra.ExactArgs(2),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair(args, "x", "y")
			if err != nil {
				return err
			}
			p := geometry.Point{X: x, Y: y}.Project()
			printKeyValue("px", formatCoord(p.PX))
			printKeyValue("py", formatCoord(p.PY))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:                "from PX PY",
		Short:              "Map a projected point back to the plan",
		Example:            "  drainline transform from 6 1",
		Args:               cobra.ExactArgs(2),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			px, py, err := parsePair(args, "px", "py")
			if err != nil {
				return err
			}
			p := geometry.Projected{PX: px, PY: py}.Unproject()
			printKeyValue("x", formatCoord(p.X))
			printKeyValue("y", formatCoord(p.Y))
			return nil
		},
	})

	return cmd
}

// parsePair parses two finite float arguments.
func parsePair(args []string, a, b string) (float64, float64, error) {
	var out [2]float64
	for i, name := range []string{a, b} {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, args[i])
		}
		if err := errors.ValidateFinite(name, v); err != nil {
			return 0, 0, err
		}
		out[i] = v
	}
	return out[0], out[1], nil
}

func formatCoord(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return fmt.Sprintf("%g", v)
}
