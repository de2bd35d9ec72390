package model

// Named is implemented by every model entity.
type Named interface {
	EntityID() string
	EntityName() string
}

// Entity holds the identity shared by all model elements.
// It is meant to be embedded.
type Entity struct {
	ID   string // Opaque identifier, unique within a bundle
	Name string // Display name (may be blank)
}

// EntityID returns the identifier.
func (e Entity) EntityID() string { return e.ID }

// EntityName returns the display name.
func (e Entity) EntityName() string { return e.Name }

// Interface is a named contract referenced by roles.
type Interface struct {
	Entity
}

// IndexInterfaces maps interface identifiers to interfaces.
// Nil entries and entries with an empty ID are skipped; on duplicate IDs the
// first interface wins.
func IndexInterfaces(ifaces []*Interface) map[string]*Interface {
	idx := make(map[string]*Interface, len(ifaces))
	for _, iface := range ifaces {
		if iface == nil || iface.ID == "" {
			continue
		}
		if _, ok := idx[iface.ID]; !ok {
			idx[iface.ID] = iface
		}
	}
	return idx
}

// =============================================================================
// Roles
// =============================================================================

// Role is a component's declared provision or requirement of one interface.
// The concrete type is either *ProvidedRole or *RequiredRole.
type Role interface {
	Named
	// Interface returns the identifier of the referenced interface.
	Interface() string
	isRole()
}

// ProvidedRole declares that its owner offers an interface.
type ProvidedRole struct {
	Entity
	InterfaceID string
}

// Interface returns the referenced interface identifier.
func (r *ProvidedRole) Interface() string { return r.InterfaceID }

func (*ProvidedRole) isRole() {}

// RequiredRole declares that its owner consumes an interface.
type RequiredRole struct {
	Entity
	InterfaceID string
}

// Interface returns the referenced interface identifier.
func (r *RequiredRole) Interface() string { return r.InterfaceID }

func (*RequiredRole) isRole() {}

// =============================================================================
// Components
// =============================================================================

// Component is a reusable architectural unit.
// The concrete type is either *BasicComponent or *CompositeComponent.
type Component interface {
	Named
	ProvidedRoles() []*ProvidedRole
	RequiredRoles() []*RequiredRole
	// Repository returns the repository the component was added to, or nil.
	Repository() *Repository
	setRepository(*Repository)
}

// BasicComponent is a leaf component.
type BasicComponent struct {
	Entity
	Provided []*ProvidedRole
	Required []*RequiredRole

	repo *Repository
}

func (c *BasicComponent) ProvidedRoles() []*ProvidedRole { return c.Provided }
func (c *BasicComponent) RequiredRoles() []*RequiredRole { return c.Required }
func (c *BasicComponent) Repository() *Repository        { return c.repo }
func (c *BasicComponent) setRepository(r *Repository)    { c.repo = r }

// CompositeComponent is a component assembled from inner instances.
// Connectors are scoped to the composite: assembly connectors link two of
// its instances, delegation connectors link one of its own roles to a role
// of an inner instance.
type CompositeComponent struct {
	Entity
	Provided   []*ProvidedRole
	Required   []*RequiredRole
	Instances  []*AssemblyInstance
	Connectors []Connector

	repo *Repository
}

func (c *CompositeComponent) ProvidedRoles() []*ProvidedRole { return c.Provided }
func (c *CompositeComponent) RequiredRoles() []*RequiredRole { return c.Required }
func (c *CompositeComponent) Repository() *Repository        { return c.repo }
func (c *CompositeComponent) setRepository(r *Repository)    { c.repo = r }

// AssemblyInstance places one component inside a composite or system.
// The same component may be instantiated several times.
type AssemblyInstance struct {
	Entity
	Component Component
}

// Basic reports whether the instance wraps a basic component.
func (a *AssemblyInstance) Basic() bool {
	if a == nil {
		return false
	}
	b, ok := a.Component.(*BasicComponent)
	return ok && b != nil
}

// NilComponent reports whether c is nil or a typed nil pointer.
func NilComponent(c Component) bool {
	switch v := c.(type) {
	case *BasicComponent:
		return v == nil
	case *CompositeComponent:
		return v == nil
	}
	return c == nil
}

// =============================================================================
// Connectors
// =============================================================================

// Connector is a wiring element inside a composite or system.
// The concrete type is one of *AssemblyConnector,
// *ProvidedDelegationConnector or *RequiredDelegationConnector.
type Connector interface {
	Named
	isConnector()
}

// AssemblyConnector links a requiring instance to a providing instance.
type AssemblyConnector struct {
	Entity
	Requiring    *AssemblyInstance
	RequiredRole *RequiredRole
	Providing    *AssemblyInstance
	ProvidedRole *ProvidedRole
}

func (*AssemblyConnector) isConnector() {}

// ProvidedDelegationConnector forwards an outer provided role to the
// provided role of an inner instance.
type ProvidedDelegationConnector struct {
	Entity
	Outer    *ProvidedRole
	Inner    *ProvidedRole
	Instance *AssemblyInstance
}

func (*ProvidedDelegationConnector) isConnector() {}

// RequiredDelegationConnector forwards the required role of an inner
// instance to an outer required role.
type RequiredDelegationConnector struct {
	Entity
	Outer    *RequiredRole
	Inner    *RequiredRole
	Instance *AssemblyInstance
}

func (*RequiredDelegationConnector) isConnector() {}

// NilConnector reports whether c is nil or a typed nil pointer.
func NilConnector(c Connector) bool {
	switch v := c.(type) {
	case *AssemblyConnector:
		return v == nil
	case *ProvidedDelegationConnector:
		return v == nil
	case *RequiredDelegationConnector:
		return v == nil
	}
	return c == nil
}

// =============================================================================
// Deployment
// =============================================================================

// ResourceContainer is a deployment node.
type ResourceContainer struct {
	Entity
}

// AllocationContext binds one assembly instance to one container.
type AllocationContext struct {
	Entity
	Instance  *AssemblyInstance
	Container *ResourceContainer
}

// Valid reports whether both the instance and the container are set.
func (a *AllocationContext) Valid() bool {
	return a != nil && a.Instance != nil && a.Container != nil
}
