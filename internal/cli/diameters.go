package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/pkg/errors"
	"github.com/matzehuels/drainline/pkg/sizing"
)

// diametersCommand creates the diameters command, which lists the standard
// pipe sizes or sizes a pipe for a given flow.
func (c *CLI) diametersCommand() *cobra.Command {
	var flow float64

	cmd := &cobra.Command{
		Use:   "diameters",
		Short: "List standard pipe diameters",
		Example: `  drainline diameters
  drainline diameters --flow 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lim := c.Config.Limits
			if cmd.Flags().Changed("flow") {
				if err := errors.ValidatePositive("flow", flow); err != nil {
					return err
				}
				r := sizing.SizePipe(flow, lim)
				printKeyValue("Flow", fmt.Sprintf("%.2f L/s", flow))
				printKeyValue("Diameter", fmt.Sprintf("%d mm", r.Diameter))
				printKeyValue("Velocity", fmt.Sprintf("%.2f m/s", r.Velocity))
				printKeyValue("Status", statusStyle(r.Status).Render(string(r.Status)))
				printDetail("%s", r.Message)
				return nil
			}
			for d := range sizing.StandardDiameters(lim) {
				fmt.Println(StyleNumber.Render(strconv.Itoa(d)))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&flow, "flow", 0, "size a pipe for this flow in L/s")

	return cmd
}
