package io

// Wire types mirror the bundle file layout. References are identifiers.

type bundle struct {
	Repositories []repository `json:"repositories,omitempty" yaml:"repositories,omitempty" toml:"repositories,omitempty"`
	Systems      []system     `json:"systems,omitempty" yaml:"systems,omitempty" toml:"systems,omitempty"`
	Containers   []named      `json:"containers,omitempty" yaml:"containers,omitempty" toml:"containers,omitempty"`
	Allocations  []allocation `json:"allocations,omitempty" yaml:"allocations,omitempty" toml:"allocations,omitempty"`
}

type named struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
}

type repository struct {
	ID         string      `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Interfaces []named     `json:"interfaces,omitempty" yaml:"interfaces,omitempty" toml:"interfaces,omitempty"`
	Components []component `json:"components,omitempty" yaml:"components,omitempty" toml:"components,omitempty"`
}

type role struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Interface string `json:"interface,omitempty" yaml:"interface,omitempty" toml:"interface,omitempty"`
}

const (
	typeBasic     = "basic"
	typeComposite = "composite"

	typeAssembly           = "assembly"
	typeProvidedDelegation = "provided_delegation"
	typeRequiredDelegation = "required_delegation"
)

type component struct {
	ID         string      `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type       string      `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Provided   []role      `json:"provided,omitempty" yaml:"provided,omitempty" toml:"provided,omitempty"`
	Required   []role      `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Instances  []instance  `json:"instances,omitempty" yaml:"instances,omitempty" toml:"instances,omitempty"`
	Connectors []connector `json:"connectors,omitempty" yaml:"connectors,omitempty" toml:"connectors,omitempty"`
}

type instance struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Component string `json:"component" yaml:"component" toml:"component"`
}

// connector carries the union of all connector fields; Type selects which
// of them apply.
type connector struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Type string `json:"type" yaml:"type" toml:"type"`

	Requiring    string `json:"requiring,omitempty" yaml:"requiring,omitempty" toml:"requiring,omitempty"`
	RequiredRole string `json:"required_role,omitempty" yaml:"required_role,omitempty" toml:"required_role,omitempty"`
	Providing    string `json:"providing,omitempty" yaml:"providing,omitempty" toml:"providing,omitempty"`
	ProvidedRole string `json:"provided_role,omitempty" yaml:"provided_role,omitempty" toml:"provided_role,omitempty"`

	Outer    string `json:"outer,omitempty" yaml:"outer,omitempty" toml:"outer,omitempty"`
	Inner    string `json:"inner,omitempty" yaml:"inner,omitempty" toml:"inner,omitempty"`
	Instance string `json:"instance,omitempty" yaml:"instance,omitempty" toml:"instance,omitempty"`
}

type system struct {
	ID         string      `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Instances  []instance  `json:"instances,omitempty" yaml:"instances,omitempty" toml:"instances,omitempty"`
	Connectors []connector `json:"connectors,omitempty" yaml:"connectors,omitempty" toml:"connectors,omitempty"`
	Provided   []role      `json:"provided,omitempty" yaml:"provided,omitempty" toml:"provided,omitempty"`
	Required   []role      `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
}

type allocation struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name     string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	System   string    `json:"system,omitempty" yaml:"system,omitempty" toml:"system,omitempty"`
	Contexts []context `json:"contexts,omitempty" yaml:"contexts,omitempty" toml:"contexts,omitempty"`
}

type context struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Instance  string `json:"instance,omitempty" yaml:"instance,omitempty" toml:"instance,omitempty"`
	Container string `json:"container,omitempty" yaml:"container,omitempty" toml:"container,omitempty"`
}
