// Package io loads and saves model bundles in JSON, YAML and TOML.
//
// # Overview
//
// A bundle file holds any number of repositories, systems, resource
// containers and allocations. Elements refer to each other by identifier,
// and [ReadBundle] resolves those references into the pointer graph of
// [model.Bundle]:
//
//	repositories:
//	  - id: shop
//	    name: Shop
//	    interfaces:
//	      - {id: i-order, name: IOrder}
//	    components:
//	      - id: c-order
//	        name: Order Service
//	        provided: [{id: r-order, name: Provided_IOrder, interface: i-order}]
//	      - id: c-web
//	        name: Web Shop
//	        required: [{id: r-web, name: Required_IOrder, interface: i-order}]
//	systems:
//	  - id: sys
//	    name: Shop System
//	    instances:
//	      - {id: x-order, name: Orders, component: c-order}
//	      - {id: x-web, name: Web, component: c-web}
//	    connectors:
//	      - {id: k1, name: web-orders, type: assembly, requiring: x-web,
//	         required_role: r-web, providing: x-order, provided_role: r-order}
//	containers:
//	  - {id: n1, name: AppServer}
//	allocations:
//	  - id: alloc
//	    system: sys
//	    contexts:
//	      - {id: a1, instance: x-order, container: n1}
//	      - {id: a2, instance: x-web, container: n1}
//
// Components default to type "basic"; composites set type "composite" and
// carry their own instances and connectors. Connector types are "assembly",
// "provided_delegation" and "required_delegation".
//
// # References
//
// Component, role, instance, system and container references must resolve,
// otherwise loading fails with a [perrors.ReferenceError] coded
// UNKNOWN_REFERENCE. Instance references are scoped: a connector sees the
// instances of its own composite or system, an allocation context sees the
// instances of its allocation's system. Role to interface references are
// kept as identifiers, so a role naming a missing interface still loads and
// is reported by the renderers. Identifiers must be unique across the whole
// bundle; elements without one get a random UUID.
//
// # Locations
//
// Every root remembers where it was loaded from. [ImportFile] derives the
// location from the file path: inside the workspace set by [WithWorkspace]
// it is a "platform:/resource/..." URI, elsewhere a "file://" URI. Readers
// without a file use [WithURI].
//
// # Export
//
// [WriteBundle] and [ExportFile] write a bundle back out. Loading the output
// again yields an equivalent bundle.
//
// [perrors.ReferenceError]: github.com/palladiosimulator/pcmuml/pkg/errors.ReferenceError
package io
