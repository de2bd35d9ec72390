// Package component renders a repository as a component diagram.
//
// # Overview
//
// [Render] partitions the repository's components into composites, inner
// components (encapsulated by some composite's assembly instance) and free
// basic components, then emits:
//
//  1. The preamble directives.
//  2. One block per top-level composite. Inside the block: its inner basic
//     components, nested composite blocks, the synthesized ports, and the
//     internal assembly, provided-delegation and required-delegation
//     connectors, each group sorted by name.
//  3. The boundary lines linking every composite port to its interface.
//  4. The free basic components with their provided and required interfaces.
//
// Composites come first because the notation only accepts a nested component
// inside the block of its first textual reference.
//
// # Ports
//
// Each boundary role of a composite gets a port. A provided role enters
// through "<component>.requires.<interface>", a required role leaves through
// "<component>.provides.<interface>". Roles of a nested composite that the
// enclosing composite already wires with an assembly connector are internal
// and get no port.
//
// # Implicit Interfaces
//
// An interface whose escaped name equals the escaped name of a component is
// treated as that component's implicit interface: no interface element is
// drawn for it, and requirements point directly at the component box.
//
// # Example
//
// A repository with a basic component A providing I and a basic component B
// requiring I renders as:
//
//	skinparam fixCircleLabelOverlapping true
//	skinparam componentStyle uml2
//	"interface I" -- [A]
//	[B] ..> "interface I" : requires
package component
