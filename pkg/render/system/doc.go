// Package system renders a system assembly as a component diagram.
//
// # Overview
//
// [Render] draws the system as one block. Before the block it emits a
// lollipop for every provided role of the system. Inside the block it draws
// one linked box per assembly instance of a basic component, followed by the
// system's connectors in name order. The preamble is omitted here:
//
//	() IMediaStore
//	component "MediaStore" {
//	[Store] [[marker:/...]]
//	[WebGUI] [[marker:/...]]
//	[WebGUI] -(0- [Store] : IStore
//	IMediaStore -- Provided_IMediaStore
//	Provided_IMediaStore -- [WebGUI]
//	}
//
// Instances of composite components get no box at this level. An assembly
// connector is drawn only when both of its endpoints are boxed.
//
// # Delegation
//
// A provided delegation connector becomes a two-hop chain from the outer role
// through the inner role to the component providing it. When the delegation
// targets an instance of a composite component, the composite's own provided
// delegation connectors are followed until a basic component is reached, and
// the chain ends at that component's name. Chains that end nowhere, or loop, are reported as
// [render.UnresolvedDelegationTarget] and skipped.
//
// Required delegation connectors are not drawn.
package system
