// Package model defines the in-memory architecture model consumed by the
// diagram renderers.
//
// # Overview
//
// The model mirrors a component-based architecture description: a
// [Repository] catalogs reusable components and the interfaces they provide
// or require, a [System] assembles component instances and wires them with
// connectors, and an [Allocation] maps those instances onto deployment
// containers.
//
// Every entity embeds [Entity], which carries an identifier and a display
// name. Identifiers are opaque strings; display names are what ends up in the
// rendered diagrams after escaping.
//
// # Variants
//
// Components, roles and connectors come in closed families of variants:
//
//   - [Component]: [*BasicComponent] or [*CompositeComponent]
//   - [Role]: [*ProvidedRole] or [*RequiredRole]
//   - [Connector]: [*AssemblyConnector], [*ProvidedDelegationConnector] or
//     [*RequiredDelegationConnector]
//
// The interfaces are sealed with an unexported marker method, so a type
// switch over the listed variants is exhaustive.
//
// # Cross References
//
// Roles reference their interface by identifier ([ProvidedRole.InterfaceID])
// rather than by pointer. A reference that names no interface in the owning
// repository is representable and is reported by the renderers instead of
// being rejected here. Use [IndexInterfaces] to build the lookup table once
// per render pass.
//
// # Ownership
//
// Entities are constructed by a model store (see the io package) and are
// treated as read-only by every renderer. [Repository.Add] sets the
// component back-reference that hyperlinks in system diagrams rely on.
package model
