// Package grammar is the token table of the diagram notation shared by every
// renderer. Keeping all literals here guarantees the component, system and
// allocation diagrams speak the same dialect.
package grammar

// Preamble directives emitted at the top of every non-empty diagram body.
const (
	SkinparamLabelOverlap = "skinparam fixCircleLabelOverlapping true"
	SkinparamUML2         = "skinparam componentStyle uml2"
)

// Document markers wrapped around a body by [github.com/palladiosimulator/pcmuml/pkg/render.Document].
const (
	StartUML = "@startuml"
	EndUML   = "@enduml"
)

// Element delimiters.
const (
	ComponentStart = "["
	ComponentEnd   = "]"
	QuoteStart     = `"`
	QuoteEnd       = `"`
	LinkStart      = "[["
	LinkEnd        = "]]"
	BlockStart     = "{"
	BlockEnd       = "}"
	Lollipop       = "()"
	Newline        = "\n"
	Space          = " "
	Colon          = " : "
)

// Keywords.
const (
	ComponentKeyword = "component"
	NodeKeyword      = "node"
	PortIn           = "portin"
	PortOut          = "portout"
	As               = "as"
	InterfacePrefix  = "interface "
	ContainerPrefix  = "container"
)

// Edges.
const (
	SimpleLink           = "--"
	RequiresLink         = "..>"
	ProvidesRequiresLink = "-(0-"
	RequiresLabel        = "requires"
	LabelSeparator       = ", "
)

// Port name infixes. A provided role enters a composite through an in-port
// named "<component>.requires.<interface>", a required role leaves through an
// out-port named "<component>.provides.<interface>".
const (
	InPortInfix  = ".requires."
	OutPortInfix = ".provides."
)
