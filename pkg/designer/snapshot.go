package designer

import (
	"slices"

	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/flow"
)

// State is the lifecycle state of a design.
type State string

const (
	// StateEmpty means no project, or a project without outlets.
	StateEmpty State = "empty"
	// StateComputed means flows, pipes and validation are current.
	StateComputed State = "computed"
)

// Snapshot is the published {project, pipes, validation} triple.
//
// A published snapshot is never modified; every edit publishes a new one.
// Project is nil before a project exists. Validation is nil in the Empty
// state. Pipes is never nil.
type Snapshot struct {
	Project    *drainage.Project          `json:"project"`
	Pipes      []drainage.Pipe            `json:"pipes"`
	Validation *drainage.ValidationResult `json:"validation"`
}

// State reports whether the snapshot is Empty or Computed.
func (s Snapshot) State() State {
	if s.Project == nil || len(s.Project.Outlets) == 0 {
		return StateEmpty
	}
	return StateComputed
}

// Clone returns a deep copy the caller may modify freely.
func (s Snapshot) Clone() Snapshot {
	pipes := slices.Clone(s.Pipes)
	if pipes == nil {
		pipes = []drainage.Pipe{}
	}
	return Snapshot{
		Project:    s.Project.Clone(),
		Pipes:      pipes,
		Validation: s.Validation.Clone(),
	}
}

// TotalFlow returns the summed outlet flow of the snapshot in L/s.
func (s Snapshot) TotalFlow() float64 {
	if s.Project == nil {
		return 0
	}
	return flow.Sum(s.Project.Outlets)
}

func emptySnapshot() *Snapshot {
	return &Snapshot{Pipes: []drainage.Pipe{}}
}
