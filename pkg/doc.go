// Package pkg provides the core libraries for bubbleset, a layout engine for
// bubble-set diagrams.
//
// # Overview
//
// A bubble-set diagram draws every set as a circle, sized by how many records
// belong to it and overlapping other circles in proportion to the records
// they share. Each record is then drawn as a point inside the region of the
// diagram that matches exactly its set memberships. The pkg directory is
// organized into four areas:
//
//  1. [core] - Domain logic (aggregation, geometry, circle solver, placement)
//  2. [layout] - The orchestrator that runs the stages in order
//  3. [pipeline] - Orchestration (records → layout → render) with caching
//  4. [document] - Serialization types for records and layouts
//
// # Architecture
//
// The typical data flow through bubbleset:
//
//	Records (JSON/YAML)
//	         ↓
//	    [core/sets] package (aggregate records into regions)
//	         ↓
//	    [core/venn] package (size and position one circle per set)
//	         ↓
//	    [core/region] package (region centers and inner radii)
//	         ↓
//	    [core/place] package (pack, distribute or force placement)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	records, _ := document.ImportRecords("langs.yaml")
//	l := layout.New(
//	    layout.WithCanvas(600, 400, 20),
//	    layout.WithStrategy(place.StrategyPack),
//	)
//	if err := l.Compute(ctx, document.ToSetsAll(records)); err != nil {
//	    return err
//	}
//	svgBytes := svg.Render(document.Export(l, document.ExportOptions{}), svg.WithLabels())
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/sets] - Record aggregation into sets and regions, with synthetic
// union regions for every non-empty combination of sets.
//
// [core/geom] - Circles, points, intersection points and n-way intersection
// areas.
//
// [core/venn] - The area-proportional circle solver and the region outline
// and label-center computations built on it.
//
// [core/region] - Region centers and inner radii derived from the circle
// table.
//
// [core/tween] - Boundary interpolation between successive layouts.
//
// [core/pack], [core/force], [core/place] - The three placement strategies
// and the algorithms behind them.
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (records → layout → render) used by the CLI
// and the HTTP server. Ensures consistent behavior across all entry points.
//
// [cache] - Content-addressed caching of layouts and rendered artifacts with
// file, Redis and null backends.
//
// [store] - Persistent layout storage for the server with memory, file and
// MongoDB backends.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [errors] - Error codes and user-facing messages shared by all entry points.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/venn/...          # Specific package
//	go test -run Example                 # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core
// [core/sets]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/sets
// [core/geom]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/geom
// [core/venn]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/venn
// [core/region]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/region
// [core/tween]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/tween
// [core/pack]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/pack
// [core/force]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/force
// [core/place]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/core/place
// [layout]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/pipeline
// [document]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/document
// [cache]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bubbleset/pkg/errors
package pkg
