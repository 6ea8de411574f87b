// Package sizing selects standard pipe diameters for a design flow.
//
// # Method
//
// Sizing aims for the midpoint of the velocity band. The required diameter
// follows from continuity (Q = v·A):
//
//	D = sqrt(4Q / (π·v))
//
// converted to millimetres and rounded up to the next multiple of
// [drainage.DiameterStep]. Rounding never goes down; an undersized pipe is
// unsafe.
//
// The diameter is then clamped to the configured range. Clamping does not
// re-solve for velocity, so a clamped pipe can fall outside the velocity band;
// [SizePipe] reports that as ERROR and system validation flags it again.
//
// # Usage
//
//	res := sizing.SizePipe(100, drainage.DefaultLimits())
//	fmt.Println(res.Diameter, res.Status) // 200 ERROR
//
//	for d := range sizing.StandardDiameters(drainage.DefaultLimits()) {
//	    fmt.Println(d) // 50, 60, ... 200
//	}
package sizing

import (
	"iter"
	"math"

	"github.com/matzehuels/drainline/pkg/drainage"
)

// Sizing verdict messages.
const (
	MsgOK             = "Pipe sized correctly"
	MsgOversized      = "Pipe oversized - velocity too low"
	MsgUndersized     = "Pipe undersized - velocity too high"
	MsgApproachingMax = "Velocity approaching maximum"
	MsgApproachingMin = "Velocity approaching minimum"
)

// Result is the outcome of sizing one pipe.
type Result struct {
	Diameter int             `json:"diameter"` // mm
	Velocity float64         `json:"velocity"` // m/s
	Status   drainage.Status `json:"status"`
	Message  string          `json:"message"`
}

// Velocity returns the mean velocity in m/s of a flow in L/s through a full
// circular pipe of the given diameter in mm.
func Velocity(flow float64, diameter float64) float64 {
	d := diameter / 1000
	area := math.Pi * math.Pow(d/2, 2)
	return (flow / 1000) / area
}

// maxRequiredDiameter caps RequiredDiameter so the result fits an int on
// every platform.
const maxRequiredDiameter = math.MaxInt32 / drainage.DiameterStep * drainage.DiameterStep

// RequiredDiameter returns the diameter in mm needed to carry flow (L/s) at
// the target velocity (m/s), rounded up to the next standard step.
// Requirements beyond the int32 range saturate at the largest step below it.
func RequiredDiameter(flow, targetVelocity float64) int {
	d := math.Sqrt((4 * (flow / 1000)) / (math.Pi * targetVelocity))
	mm := math.Ceil((d*1000)/drainage.DiameterStep) * drainage.DiameterStep
	if mm > maxRequiredDiameter || math.IsNaN(mm) {
		return maxRequiredDiameter
	}
	return int(mm)
}

// SizePipe selects a diameter for flow (L/s) and classifies the resulting
// velocity against the limits.
//
// The high-side warning is checked before the low-side warning, so a velocity
// inside both warning bands reports the high-side message.
func SizePipe(flow float64, lim drainage.Limits) Result {
	diameter := clamp(RequiredDiameter(flow, lim.TargetVelocity()), lim.MinPipeDiameter, lim.MaxPipeDiameter)
	velocity := Velocity(flow, float64(diameter))

	res := Result{
		Diameter: diameter,
		Velocity: velocity,
		Status:   drainage.StatusOK,
		Message:  MsgOK,
	}

	switch {
	case velocity < lim.MinVelocity:
		res.Status, res.Message = drainage.StatusError, MsgOversized
	case velocity > lim.MaxVelocity:
		res.Status, res.Message = drainage.StatusError, MsgUndersized
	case velocity > lim.MaxVelocity*lim.WarnHighFraction:
		res.Status, res.Message = drainage.StatusWarning, MsgApproachingMax
	case velocity < lim.MinVelocity*lim.WarnLowFraction:
		res.Status, res.Message = drainage.StatusWarning, MsgApproachingMin
	}
	return res
}

func clamp(d, lo, hi int) int {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// StandardDiameters yields the standard diameters from MinPipeDiameter to
// MaxPipeDiameter inclusive. The sequence is finite and can be ranged over
// any number of times.
func StandardDiameters(lim drainage.Limits) iter.Seq[int] {
	return func(yield func(int) bool) {
		for d := lim.MinPipeDiameter; d <= lim.MaxPipeDiameter; d += drainage.DiameterStep {
			if !yield(d) {
				return
			}
		}
	}
}
