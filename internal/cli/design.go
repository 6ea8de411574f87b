package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/pkg/errors"
	"github.com/matzehuels/drainline/pkg/pipeline"
)

// designOpts holds the flags of the design command.
type designOpts struct {
	formats  string
	output   string
	detailed bool
	scale    float64
	refresh  bool
}

// designCommand creates the design command, which runs the full pipeline.
func (c *CLI) designCommand() *cobra.Command {
	var opts designOpts

	cmd := &cobra.Command{
		Use:   "design [project]",
		Short: "Compute a project and write its report and diagram",
		Long: `Compute a project and write its report and diagram.

The project file (TOML, YAML or JSON) is loaded, outlet flows and pipe sizes
are computed, the network is validated, and the requested outputs are written
next to the project file:

  txt   text report (default)
  json  snapshot export with limits and total flow
  dot   Graphviz source of the network diagram
  svg   network diagram
  pdf   network diagram (needs rsvg-convert)
  png   network diagram (needs rsvg-convert)

Results are cached; use --refresh to recompute.`,
		Example: `  drainline design warehouse.toml
  drainline design warehouse.toml -f txt,svg -o out/warehouse
  drainline design warehouse.yaml -f json -o - `,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDesign(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): txt (default), json, dot, svg, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include coordinates, elevations and full IDs")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "diagram scale in points per metre (default 20)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runDesign(ctx context.Context, input string, opts designOpts) error {
	logger := loggerFromContext(ctx)

	popts := pipeline.Options{
		ProjectPath: input,
		Limits:      c.Config.Limits,
		Formats:     parseFormats(opts.formats),
		Detailed:    opts.detailed,
		Scale:       opts.scale,
		Refresh:     opts.refresh,
		Logger:      logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.output == "-" && len(popts.Formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--output - needs exactly one format")
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Designing %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Design failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Designed %s", result.Snapshot.Project.Name))

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, popts.Formats, input, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Designed %s", StyleHighlight.Render(result.Snapshot.Project.Name))
	printStats(result.Stats.OutletCount, result.Stats.PipeCount, result.CacheInfo.ComputeHit && result.CacheInfo.RenderHit)
	printKeyValue("Total flow", fmt.Sprintf("%.2f L/s", result.Snapshot.TotalFlow()))
	printValidation(result.Snapshot.Validation)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
