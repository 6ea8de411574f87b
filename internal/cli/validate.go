package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/pipeline"
)

// errValidation is returned when a project fails validation, so the process
// exits non-zero.
type errValidation struct {
	status drainage.Status
	issues int
}

func (e errValidation) Error() string {
	return fmt.Sprintf("validation %s: %d issue(s)", e.status, e.issues)
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [project]",
		Short: "Check a project against the engineering limits",
		Long: `Check a project against the engineering limits.

Prints the validation status and its messages. Exits non-zero when the status
is ERROR, or WARNING with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func (c *CLI) runValidate(ctx context.Context, input string, strict bool) error {
	logger := loggerFromContext(ctx)

	opts := pipeline.Options{ProjectPath: input, Limits: c.Config.Limits, Logger: logger}
	project, err := pipeline.Load(opts)
	if err != nil {
		return err
	}
	s, err := pipeline.Compute(project, opts)
	if err != nil {
		return err
	}

	printKeyValue("Project", s.Project.Name)
	printStats(len(s.Project.Outlets), len(s.Pipes), false)
	printValidation(s.Validation)

	v := s.Validation
	if v == nil {
		return errValidation{status: drainage.StatusError, issues: 1}
	}
	if v.Status == drainage.StatusError || (strict && v.Status == drainage.StatusWarning) {
		return errValidation{status: v.Status, issues: len(v.Messages)}
	}
	return nil
}
