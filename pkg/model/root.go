package model

// Kind names the root aggregate a diagram is rendered from.
type Kind string

const (
	KindRepository Kind = "repository"
	KindSystem     Kind = "system"
	KindAllocation Kind = "allocation"
)

// Root is a top-level aggregate that can be rendered on its own.
// The concrete type is one of *Repository, *System or *Allocation.
type Root interface {
	Named
	Kind() Kind
	// Location returns the absolute location of the root inside the model
	// store, or "" when the root was not loaded from one.
	Location() string
}

// Repository catalogs components and interfaces.
type Repository struct {
	Entity
	URI        string // Store location of the file holding the repository
	Components []Component
	Interfaces []*Interface
}

// Add appends components and records r as their owning repository.
func (r *Repository) Add(cs ...Component) {
	for _, c := range cs {
		if c == nil {
			continue
		}
		c.setRepository(r)
		r.Components = append(r.Components, c)
	}
}

// Kind returns KindRepository.
func (r *Repository) Kind() Kind { return KindRepository }

// Location returns the repository's store location.
func (r *Repository) Location() string { return location(r.URI, r.ID) }

// System assembles component instances into one deployable graph.
type System struct {
	Entity
	URI        string
	Instances  []*AssemblyInstance
	Connectors []Connector
	Provided   []*ProvidedRole
	Required   []*RequiredRole
}

// Kind returns KindSystem.
func (s *System) Kind() Kind { return KindSystem }

// Location returns the system's store location.
func (s *System) Location() string { return location(s.URI, s.ID) }

// Allocation maps the instances of one system onto resource containers.
type Allocation struct {
	Entity
	URI      string
	System   *System
	Contexts []*AllocationContext
}

// Kind returns KindAllocation.
func (a *Allocation) Kind() Kind { return KindAllocation }

// Location returns the allocation's store location.
func (a *Allocation) Location() string { return location(a.URI, a.ID) }

// Bundle groups the roots decoded from one model file.
type Bundle struct {
	Repositories []*Repository
	Systems      []*System
	Containers   []*ResourceContainer
	Allocations  []*Allocation
}

// Roots returns every root in the bundle: repositories first, then systems,
// then allocations, each in declaration order. Nil entries are skipped.
func (b *Bundle) Roots() []Root {
	if b == nil {
		return nil
	}
	roots := make([]Root, 0, len(b.Repositories)+len(b.Systems)+len(b.Allocations))
	for _, r := range b.Repositories {
		if r != nil {
			roots = append(roots, r)
		}
	}
	for _, s := range b.Systems {
		if s != nil {
			roots = append(roots, s)
		}
	}
	for _, a := range b.Allocations {
		if a != nil {
			roots = append(roots, a)
		}
	}
	return roots
}

// Empty reports whether the bundle holds no roots.
func (b *Bundle) Empty() bool {
	return b == nil || len(b.Repositories)+len(b.Systems)+len(b.Allocations) == 0
}

// location joins a resource URI and a fragment identifier the way model
// stores address elements inside a resource.
func location(uri, id string) string {
	switch {
	case uri == "":
		return ""
	case id == "":
		return uri
	default:
		return uri + "#" + id
	}
}
