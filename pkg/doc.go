// Package pkg provides the core libraries for drainline siphonic roof
// drainage design.
//
// # Overview
//
// Drainline takes a roof (area, rainfall intensity) and a set of outlets,
// splits the design flow across the outlets, chains the outlets with
// collector pipes, sizes each pipe to a standard diameter and checks the
// network against the engineering limits. The pkg directory is organized
// into four areas:
//
//  1. Domain model and calculations: [drainage], [geometry], [flow],
//     [sizing], [validation]
//  2. Design state: [designer] (mutations and published snapshots)
//  3. Orchestration: [pipeline] (load → compute → render, with caching)
//  4. Surfaces: [io] (project files), [render] (reports and diagrams),
//     [server] (HTTP API)
//
// Supporting packages are [errors] (coded errors), [cache] (file and Redis
// backends), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
//	project file (TOML / YAML / JSON)
//	         ↓
//	    [io] package (decode input fields)
//	         ↓
//	    [designer] package (flows → pipes → validation)
//	         ↓
//	    [render] package (text, JSON, DOT, SVG, PDF, PNG)
//
// # Quick Start
//
//	d, _ := designer.New()
//	d.CreateProject("Warehouse", 100, 500)
//	d.AddOutlet(0, 0, 0)
//	d.AddOutlet(10, 0, 0)
//
//	s := d.Snapshot()
//	fmt.Println(s.Validation.Status)
//	fmt.Print(report.Text(s, d.Limits(), report.Options{}))
//
// For files, use the pipeline runner:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ProjectPath: "warehouse.toml",
//	    Formats:     []string{"txt", "svg"},
//	})
//
// # Units
//
// Lengths are metres, diameters millimetres, rainfall intensity mm/h, flow
// L/s and velocity m/s throughout.
//
// [drainage]: github.com/matzehuels/drainline/pkg/drainage
// [geometry]: github.com/matzehuels/drainline/pkg/geometry
// [flow]: github.com/matzehuels/drainline/pkg/flow
// [sizing]: github.com/matzehuels/drainline/pkg/sizing
// [validation]: github.com/matzehuels/drainline/pkg/validation
// [designer]: github.com/matzehuels/drainline/pkg/designer
// [pipeline]: github.com/matzehuels/drainline/pkg/pipeline
// [io]: github.com/matzehuels/drainline/pkg/io
// [render]: github.com/matzehuels/drainline/pkg/render
// [server]: github.com/matzehuels/drainline/pkg/server
// [errors]: github.com/matzehuels/drainline/pkg/errors
// [cache]: github.com/matzehuels/drainline/pkg/cache
// [observability]: github.com/matzehuels/drainline/pkg/observability
// [buildinfo]: github.com/matzehuels/drainline/pkg/buildinfo
package pkg
