package pipeline

import (
	"strings"

	"github.com/matzehuels/drainline/pkg/designer"
	"github.com/matzehuels/drainline/pkg/drainage"
	projectio "github.com/matzehuels/drainline/pkg/io"
)

// Load reads the project named by opts.
func Load(opts Options) (*drainage.Project, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.ProjectPath != "" {
		return projectio.ReadProjectFile(opts.ProjectPath)
	}
	format, err := projectio.ParseFormat(opts.DocumentFormat)
	if err != nil {
		return nil, err
	}
	return projectio.ReadProject(strings.NewReader(opts.Document), format)
}

// Compute runs a fresh designer over project and returns its snapshot.
// Identities missing from the project are numbered per kind, so the same
// document always yields the same snapshot.
func Compute(project *drainage.Project, opts Options) (designer.Snapshot, error) {
	if err := opts.ValidateForCompute(); err != nil {
		return designer.Snapshot{}, err
	}
	d, err := designer.New(
		designer.WithLimits(opts.Limits),
		designer.WithLogger(opts.Logger),
		designer.WithIDGenerator(designer.CounterIDs()),
	)
	if err != nil {
		return designer.Snapshot{}, err
	}
	if _, err := d.Load(project); err != nil {
		return designer.Snapshot{}, err
	}
	return d.Snapshot(), nil
}
