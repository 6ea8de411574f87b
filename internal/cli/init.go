package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/errors"
	projectio "github.com/matzehuels/drainline/pkg/io"
)

// initOpts holds the flags of the init command.
type initOpts struct {
	name      string
	intensity float64
	area      float64
	outlets   int
	force     bool
}

// initCommand creates the init command, which writes a starter project.
func (c *CLI) initCommand() *cobra.Command {
	opts := initOpts{intensity: 100, area: 500, outlets: 3}

	cmd := &cobra.Command{
		Use:   "init [project]",
		Short: "Write a starter project file",
		Long: `Write a starter project file.

The format follows the extension (.toml, .yaml, .yml or .json). Outlets are
placed in a row, one pipe length apart.`,
		Example: `  drainline init warehouse.toml
  drainline init depot.yaml --intensity 250 --area 1200 --outlets 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "project name (default: derived from the file name)")
	cmd.Flags().Float64Var(&opts.intensity, "intensity", opts.intensity, "rainfall intensity in mm/h")
	cmd.Flags().Float64Var(&opts.area, "area", opts.area, "roof area in m²")
	cmd.Flags().IntVar(&opts.outlets, "outlets", opts.outlets, "number of outlets")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) runInit(path string, opts initOpts) error {
	if _, err := projectio.FormatFromPath(path); err != nil {
		return err
	}
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
		}
	}
	if opts.outlets < 0 || opts.outlets > c.Config.Limits.MaxOutlets {
		return errors.New(errors.ErrCodeInvalidInput, "outlets must be between 0 and %d", c.Config.Limits.MaxOutlets)
	}

	p := starterProject(projectName(path, opts.name), opts.intensity, opts.area, opts.outlets, c.Config.Limits.PipeLength)
	if err := errors.ValidateProjectName(p.Name); err != nil {
		return err
	}
	if err := errors.ValidatePositive("intensity", p.RainfallIntensity); err != nil {
		return err
	}
	if err := errors.ValidatePositive("area", p.RoofArea); err != nil {
		return err
	}

	if err := projectio.WriteProjectFile(p, path); err != nil {
		return err
	}
	printSuccess("Created %s", StyleHighlight.Render(p.Name))
	printFile(path)
	printNextStep("Design it", "drainline design "+path)
	return nil
}

// starterProject places n outlets along the x axis, spacing apart.
func starterProject(name string, intensity, area float64, n int, spacing float64) *drainage.Project {
	p := &drainage.Project{
		Name:              name,
		RainfallIntensity: intensity,
		RoofArea:          area,
		Outlets:           make([]drainage.Outlet, n),
	}
	for i := range n {
		p.Outlets[i] = drainage.Outlet{
			ID:         fmt.Sprintf("outlet-%d", i+1),
			Type:       drainage.OutletSiphonic,
			OutletSpec: drainage.OutletSpec{X: float64(i) * spacing},
		}
	}
	return p
}

// projectName returns name, or a title made from the file's base name.
func projectName(path, name string) string {
	if name != "" {
		return name
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
