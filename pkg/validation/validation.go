// Package validation checks a drainage network against engineering limits.
//
// Three checks feed one verdict:
//
//   - [ValidateOutlets]: outlet count bounds and flow balance
//   - [ValidatePipeVelocity]: one pipe's velocity against the design band
//   - [ValidateSystem]: both of the above, aggregated
//
// Aggregation is monotonic: once a check reports ERROR the system stays
// ERROR, and WARNING only replaces OK. A verdict is data, never a Go error.
package validation

import (
	"fmt"
	"math"

	"github.com/matzehuels/drainline/pkg/drainage"
	"github.com/matzehuels/drainline/pkg/flow"
)

// MsgPassed is the single message of a system with no findings.
const MsgPassed = "System validation passed"

// MsgUnbalanced reports outlet flows deviating beyond the balance tolerance.
const MsgUnbalanced = "Outlet flows are not balanced"

// MsgApproachingMaxLimit warns about a pipe velocity in the high warning band.
const MsgApproachingMaxLimit = "Velocity approaching maximum limit"

// builder accumulates messages and a monotonic status.
type builder struct {
	status   drainage.Status
	messages []string
}

func newBuilder() *builder {
	return &builder{status: drainage.StatusOK, messages: []string{}}
}

func (b *builder) add(status drainage.Status, msg string) {
	b.messages = append(b.messages, msg)
	b.status = b.status.Escalate(status)
}

func (b *builder) merge(r drainage.ValidationResult, prefix string) {
	for _, m := range r.Messages {
		b.messages = append(b.messages, prefix+m)
	}
	b.status = b.status.Escalate(r.Status)
}

func (b *builder) result() drainage.ValidationResult {
	return drainage.ValidationResult{
		IsValid:  b.status != drainage.StatusError,
		Status:   b.status,
		Messages: b.messages,
	}
}

// ValidateOutlets checks the outlet count against the limits and the balance
// of outlet flows around their mean. Both count checks run independently.
func ValidateOutlets(outlets []drainage.Outlet, lim drainage.Limits) drainage.ValidationResult {
	b := newBuilder()

	if len(outlets) < lim.MinOutlets {
		b.add(drainage.StatusError, fmt.Sprintf("Minimum %d outlets required", lim.MinOutlets))
	}
	if len(outlets) > lim.MaxOutlets {
		b.add(drainage.StatusError, fmt.Sprintf("Maximum %d outlets exceeded", lim.MaxOutlets))
	}

	if len(outlets) > 0 {
		mean := flow.Mean(outlets)
		var maxDev float64
		for _, o := range outlets {
			maxDev = math.Max(maxDev, math.Abs(o.Flow-mean))
		}
		if maxDev > lim.BalanceTolerance*mean {
			b.add(drainage.StatusWarning, MsgUnbalanced)
		}
	}

	return b.result()
}

// ValidatePipeVelocity checks one velocity (m/s) against the design band.
// Both bound checks run independently, and the high warning band never
// downgrades an ERROR.
func ValidatePipeVelocity(velocity float64, lim drainage.Limits) drainage.ValidationResult {
	b := newBuilder()

	if velocity < lim.MinVelocity {
		b.add(drainage.StatusError, fmt.Sprintf("Velocity %.2f m/s below minimum %g m/s", velocity, lim.MinVelocity))
	}
	if velocity > lim.MaxVelocity {
		b.add(drainage.StatusError, fmt.Sprintf("Velocity %.2f m/s exceeds maximum %g m/s", velocity, lim.MaxVelocity))
	}
	if velocity > lim.MaxVelocity*lim.WarnHighFraction {
		b.add(drainage.StatusWarning, MsgApproachingMaxLimit)
	}

	return b.result()
}

// ValidateSystem validates the outlets and every pipe and aggregates the
// findings. Pipe messages are prefixed with "Pipe <id>: ". A system with no
// findings carries the single message [MsgPassed].
func ValidateSystem(outlets []drainage.Outlet, pipes []drainage.Pipe, lim drainage.Limits) drainage.ValidationResult {
	b := newBuilder()

	b.merge(ValidateOutlets(outlets, lim), "")
	for _, p := range pipes {
		b.merge(ValidatePipeVelocity(p.Velocity, lim), fmt.Sprintf("Pipe %s: ", p.ID))
	}

	if len(b.messages) == 0 {
		b.messages = append(b.messages, MsgPassed)
	}
	return b.result()
}
