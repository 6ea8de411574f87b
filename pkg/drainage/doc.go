// Package drainage defines the data model of a siphonic roof-drainage design.
//
// # Overview
//
// A [Project] describes the roof (rainfall intensity, area) and an ordered set
// of [Outlet] intake points. Everything else is derived: outlet flows, the
// connecting [Pipe] chain and the [ValidationResult] are recomputed from the
// inputs after every edit by the designer package.
//
// # Input and Derived Fields
//
// Records that mix user-set and computed values split them into two embedded
// groups:
//
//   - [OutletSpec]: position and elevation, set by the user
//   - [OutletState]: flow and status, written only by the recompute
//
// Patches ([OutletPatch], [ProjectPatch]) only reach the input groups, so a
// stale derived value can never be pushed back into a design.
//
// # Units
//
// The package uses one fixed unit system:
//
//	rainfall intensity   mm/h
//	roof area            m²
//	positions, lengths   m
//	flow                 L/s
//	velocity             m/s
//	pipe diameter        mm (integer, multiple of 10)
//
// # Limits
//
// [Limits] carries the engineering constants consumed by sizing and
// validation. [DefaultLimits] returns the standard design band (1-3 m/s,
// 2-20 outlets, 50-200 mm pipes).
package drainage
