package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	projectio "github.com/matzehuels/drainline/pkg/io"
)

// editCommand creates the edit command, an interactive outlet editor.
func (c *CLI) editCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "edit [project]",
		Short: "Move, add and remove outlets interactively",
		Long: `Open a project in the terminal editor.

Every edit recomputes the design, so pipe sizes and statuses update as
outlets move. Press e to save, q to quit.`,
		Example: `  drainline edit warehouse.toml
  drainline edit warehouse.toml -o warehouse-v2.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "save to this file instead of the input")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)

	project, err := projectio.ReadProjectFile(input)
	if err != nil {
		return err
	}
	d, err := c.newDesigner(project)
	if err != nil {
		return err
	}
	if output == "" {
		output = input
	}

	final, err := tea.NewProgram(NewEditorModel(d, output), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(EditorModel); ok && !m.Saved {
		logger.Debug("editor closed without saving", "path", output)
		printDetail("Changes not saved")
	}
	return nil
}

// newDesigner creates a designer with the configured limits and loads
// project into it when non-nil.
func (c *CLI) newDesigner(project *drainage.Project) (*designer.Designer, error) {
	d, err := designer.New(
		designer.WithLimits(c.Config.Limits),
		designer.WithLogger(c.Logger),
	)
	if err != nil {
		return nil, err
	}
	if project != nil {
		if _, err := d.Load(project); err != nil {
			return nil, err
		}
	}
	return d, nil
}
