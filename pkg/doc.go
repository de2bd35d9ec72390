// Package pkg provides the core libraries for rendering Palladio architecture
// models as PlantUML component diagrams.
//
// # Overview
//
// A Palladio model describes software in three views: repositories catalog
// components and interfaces, systems wire component instances together, and
// allocations deploy those instances onto resource containers. pcmuml turns
// each of these roots into the text of one diagram. The pkg directory is
// organized into four main areas:
//
//  1. [model] - The architecture model (components, roles, connectors, roots)
//  2. [io] - Model bundle files (JSON, YAML, TOML) and reference resolution
//  3. [render] - Diagram writers, one subpackage per root kind
//  4. [pipeline] - Orchestration (load → render)
//
// # Architecture
//
// The typical data flow through pcmuml:
//
//	Model bundle file
//	         ↓
//	    [io] package (decode + resolve references)
//	         ↓
//	    [model] package (Repository / System / Allocation roots)
//	         ↓
//	    [render] packages (component, system, allocation)
//	         ↓
//	    PlantUML text
//
// # Quick Start
//
// Load a bundle and render its first system:
//
//	import (
//	    modelio "github.com/palladiosimulator/pcmuml/pkg/io"
//	    "github.com/palladiosimulator/pcmuml/pkg/render"
//	    "github.com/palladiosimulator/pcmuml/pkg/render/system"
//	)
//
//	b, _ := modelio.ImportFile("shop.yaml")
//	body, _ := system.Render(b.Systems[0])
//	fmt.Print(render.Document(body))
//
// # Main Packages
//
// [naming] - Identifier escaping, deterministic ordering and model hyperlinks.
//
// [render/grammar] - The fixed tokens of the diagram grammar.
//
// [render/component] - Repository diagrams: components, ports, interfaces and
// composite structure.
//
// [render/system] - System diagrams: instance boxes inside the system block and
// their assembly and delegation connectors.
//
// [render/allocation] - Allocation diagrams: resource container nodes holding
// the deployed components and the links between them.
//
// [errors] - Structured error codes shared by the loader, pipeline and CLI.
//
// [observability] - Hooks for load, render and HTTP events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/render/...             # Renderers only
//
// [model]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/model
// [io]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/io
// [render]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/pipeline
// [naming]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/naming
// [render/grammar]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/render/grammar
// [render/component]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/render/component
// [render/system]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/render/system
// [render/allocation]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/render/allocation
// [errors]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/errors
// [observability]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/palladiosimulator/pcmuml/pkg/buildinfo
package pkg
