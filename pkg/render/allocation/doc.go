// Package allocation renders the deployment of a system onto resource
// containers.
//
// # Overview
//
// The diagram works at the component level. Every resource container that
// holds at least one valid allocation context becomes a node, and every
// component allocated to it is declared inside that node. A composite
// component is drawn as a block holding its inner components:
//
//	node AppServer {
//	[WebGUI] [[marker:/...]]
//	}
//	node DBServer {
//	component "Backend" {
//	[Store] [[marker:/...]]
//	}
//	}
//	[WebGUI] -(0- [Backend] : IData
//
// The first node (by label) holding a component declares it by name. Every
// later node holding it declares it again under the alias
// "<component>_<container id>", so each node lists what runs on it. Nodes take the escaped container name as label. An unnamed container is
// labeled "container" followed by the name of its first component.
//
// # Edges
//
// An assembly connector connects the nodes its two instances are allocated
// to. Connectors whose instances share a node are not drawn. The rest are
// collapsed to one edge per distinct pair of component declarations, so a
// component deployed twice is reached through the declaration in the node
// the connector actually targets. The edge label lists the distinct provided
// role names of the collapsed connectors.
package allocation
