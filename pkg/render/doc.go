// Package render holds the plumbing shared by the diagram renderers.
//
// # Overview
//
// Three renderers turn a model root into diagram source text:
//
//   - [component]: a repository's components, interfaces and composite structure
//   - [system]: a system's assembly instances and their connectors
//   - [allocation]: which components run on which resource containers
//
// Each renderer exposes a single Render function that takes the root and a
// list of [Option] values and returns the diagram body. The body omits the
// document markers; wrap it with [Document] before handing it to a diagram
// engine:
//
//	body, err := component.Render(repo, render.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	fmt.Print(render.Document(body))
//
// # Determinism
//
// Renderers never depend on the iteration order of model collections. Every
// emitted list is sorted with [naming.Compare], so rendering the same model
// twice yields byte-identical text.
//
// # Diagnostics
//
// Defects in the input model never abort a render. A role that references an
// unknown interface, an entity without a display name, or a delegation whose
// port cannot be resolved is skipped. Each skip is reported as a [Diagnostic]
// to the sink installed with [WithDiagnostics] and logged at warn level. The
// only error a renderer returns is [ErrNilModel].
//
// # Concurrency
//
// A render call reads the model and keeps all derived state in values local
// to the call. Concurrent renders of the same model are safe as long as
// nobody mutates the model meanwhile.
//
// [component]: github.com/palladiosimulator/pcmuml/pkg/render/component
// [system]: github.com/palladiosimulator/pcmuml/pkg/render/system
// [allocation]: github.com/palladiosimulator/pcmuml/pkg/render/allocation
// [naming.Compare]: github.com/palladiosimulator/pcmuml/pkg/naming.Compare
package render
