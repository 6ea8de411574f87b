// Package io reads and writes drainage project documents.
//
// # Formats
//
// A project document holds the input fields of a project and its outlets.
// Three encodings are supported, chosen by file extension:
//
//   - TOML (.toml), the default for hand-written files
//   - YAML (.yaml, .yml)
//   - JSON (.json)
//
// A TOML document looks like:
//
//	name = "Warehouse"
//	rainfall_intensity = 100 # mm/h
//	roof_area = 500          # m²
//
//	[[outlets]]
//	id = "north"
//	x = 0
//	y = 0
//
//	[[outlets]]
//	x = 10
//	y = 0
//	elevation = 0.2
//
// Outlet IDs are optional; the designer generates missing ones.
//
// # Derived fields
//
// Flows, statuses and pipes are never read from or written to a document.
// They are recomputed on load, so a document cannot carry stale results.
// Unknown keys, including derived values from a JSON snapshot export, are
// ignored.
//
// # Errors
//
// Errors carry codes from pkg/errors: FILE_NOT_FOUND for a missing file,
// INVALID_FORMAT for an unsupported extension and INVALID_PROJECT for a
// document that does not decode.
package io
