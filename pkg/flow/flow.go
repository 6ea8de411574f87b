// Package flow computes rainfall-driven design flow and its share per outlet.
//
// The rational method relates rainfall to runoff:
//
//	Q = I × A / 360
//
// where Q is flow (L/s), I is rainfall intensity (mm/h) and A is roof area
// (m²). 360 is the unit conversion 3600 s/h × 10⁴ cm²/m² ÷ 10⁵, not a tunable.
//
// Flow is always split evenly across outlets; positions and elevations do not
// weight the share.
package flow

import (
	"slices"

	"github.com/matzehuels/drainline/pkg/drainage"
)

// conversion turns mm/h × m² into L/s.
const conversion = 360

// TotalFlow returns the design flow in L/s for a rainfall intensity in mm/h
// falling on an area in m².
func TotalFlow(intensity, area float64) float64 {
	return (intensity * area) / conversion
}

// OutletFlow returns the even share of total flow for count outlets.
// Zero outlets receive zero flow.
func OutletFlow(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// CalculateFlows returns a copy of the project's outlets with every flow set
// to the even share of the project's total flow. The project is not modified.
func CalculateFlows(p *drainage.Project) []drainage.Outlet {
	if p == nil {
		return nil
	}
	share := OutletFlow(TotalFlow(p.RainfallIntensity, p.RoofArea), len(p.Outlets))

	outlets := slices.Clone(p.Outlets)
	for i := range outlets {
		outlets[i].Flow = share
	}
	return outlets
}

// Mean returns the mean outlet flow, or 0 for no outlets.
func Mean(outlets []drainage.Outlet) float64 {
	if len(outlets) == 0 {
		return 0
	}
	var sum float64
	for _, o := range outlets {
		sum += o.Flow
	}
	return sum / float64(len(outlets))
}

// Sum returns the summed outlet flow.
func Sum(outlets []drainage.Outlet) float64 {
	var sum float64
	for _, o := range outlets {
		sum += o.Flow
	}
	return sum
}
