package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainline/pkg/drainage"
	projectio "github.com/matzehuels/drainline/pkg/io"
	"github.com/matzehuels/drainline/pkg/server"
)

// serveCommand creates the serve command, which exposes a live designer
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [project]",
		Short: "Serve the design API over HTTP",
		Long: `Serve the design API over HTTP.

The server holds one live design. An optional project file is loaded at
startup; otherwise the design starts empty. Stop with Ctrl+C.`,
		Example: `  drainline serve
  drainline serve warehouse.toml --addr :9090`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	logger := loggerFromContext(ctx)

	var project *drainage.Project
	if input != "" {
		p, err := projectio.ReadProjectFile(input)
		if err != nil {
			return err
		}
		project = p
	}
	d, err := c.newDesigner(project)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	if addr == "" {
		addr = c.Config.Server.Addr
	}
	srv := server.New(d, server.WithLogger(logger), server.WithRunner(runner))

	printInfo("Serving on %s", StyleLink.Render("http://"+addr))
	if project != nil {
		printDetail("Loaded %s (%d outlets)", project.Name, len(project.Outlets))
	}
	return srv.ListenAndServe(ctx, addr)
}
