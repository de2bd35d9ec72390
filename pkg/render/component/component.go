package component

import (
	"fmt"
	"slices"
	"strings"

	"github.com/palladiosimulator/pcmuml/pkg/model"
	"github.com/palladiosimulator/pcmuml/pkg/naming"
	"github.com/palladiosimulator/pcmuml/pkg/render"
	"github.com/palladiosimulator/pcmuml/pkg/render/grammar"
)

// Render returns the component diagram body for repo, or "" when the
// repository has no renderable components.
func Render(repo *model.Repository, opts ...render.Option) (string, error) {
	if repo == nil {
		return "", fmt.Errorf("component diagram: %w", render.ErrNilModel)
	}
	d := newDiagram(repo, render.NewConfig(opts...))
	return d.render(), nil
}

// port is a synthesized composite port.
type port struct {
	id    string // e.g. Shop.requires.IOrder
	iface string // escaped interface name
}

type ports struct {
	in      map[*model.ProvidedRole]port
	out     map[*model.RequiredRole]port
	inList  []port // distinct ports ordered by id
	outList []port
}

// diagram is the state of one render pass. Nothing in it outlives the call
// to Render.
type diagram struct {
	cfg render.Config
	w   render.Writer

	ifaces map[string]*model.Interface
	names  map[string]bool // escaped names of every known component

	inner             map[model.Component]bool
	connectedProvided map[*model.ProvidedRole]bool
	connectedRequired map[*model.RequiredRole]bool

	all      []*model.CompositeComponent // every named composite in the repository
	topLevel []*model.CompositeComponent
	basics   []*model.BasicComponent // free basic components

	ports   map[*model.CompositeComponent]*ports
	scanned map[*model.CompositeComponent]bool
	emitted map[*model.CompositeComponent]bool
	diags   *render.Reporter
}

func newDiagram(repo *model.Repository, cfg render.Config) *diagram {
	d := &diagram{
		cfg:               cfg,
		ifaces:            model.IndexInterfaces(repo.Interfaces),
		names:             make(map[string]bool),
		inner:             make(map[model.Component]bool),
		connectedProvided: make(map[*model.ProvidedRole]bool),
		connectedRequired: make(map[*model.RequiredRole]bool),
		ports:             make(map[*model.CompositeComponent]*ports),
		scanned:           make(map[*model.CompositeComponent]bool),
		emitted:           make(map[*model.CompositeComponent]bool),
		diags:             render.NewReporter(cfg),
	}

	var comps []model.Component
	for _, c := range repo.Components {
		if model.NilComponent(c) || !d.named(c, "component") {
			continue
		}
		comps = append(comps, c)
		d.know(c, repo)
	}

	for _, c := range comps {
		if cc, ok := c.(*model.CompositeComponent); ok {
			d.scan(cc, repo)
		}
	}

	for _, c := range naming.Sorted(comps) {
		switch v := c.(type) {
		case *model.CompositeComponent:
			d.all = append(d.all, v)
			if !d.inner[v] {
				d.topLevel = append(d.topLevel, v)
			}
		case *model.BasicComponent:
			if !d.inner[v] {
				d.basics = append(d.basics, v)
			}
		}
	}
	return d
}

// know registers a component name for implicit interface detection and
// makes the interfaces of its own repository resolvable.
func (d *diagram) know(c model.Component, repo *model.Repository) {
	if name := naming.Escape(c.EntityName()); name != "" {
		d.names[name] = true
	}
	if own := c.Repository(); own != nil && own != repo {
		for id, iface := range model.IndexInterfaces(own.Interfaces) {
			if _, ok := d.ifaces[id]; !ok {
				d.ifaces[id] = iface
			}
		}
	}
}

// scan marks the components encapsulated by cc as inner and records the
// roles its assembly connectors satisfy. Nested composites are scanned too.
func (d *diagram) scan(cc *model.CompositeComponent, repo *model.Repository) {
	if d.scanned[cc] {
		return
	}
	d.scanned[cc] = true

	for _, conn := range cc.Connectors {
		if a, ok := conn.(*model.AssemblyConnector); ok && a != nil {
			if a.ProvidedRole != nil {
				d.connectedProvided[a.ProvidedRole] = true
			}
			if a.RequiredRole != nil {
				d.connectedRequired[a.RequiredRole] = true
			}
		}
	}

	for _, inst := range cc.Instances {
		if inst == nil || model.NilComponent(inst.Component) {
			continue
		}
		d.inner[inst.Component] = true
		d.know(inst.Component, repo)
		if nested, ok := inst.Component.(*model.CompositeComponent); ok {
			d.scan(nested, repo)
		}
	}
}

func (d *diagram) render() string {
	if len(d.all) == 0 && len(d.basics) == 0 {
		return ""
	}

	d.w.Preamble()

	for _, cc := range d.topLevel {
		d.writeTree(cc)
	}
	// Composites that only contain each other have no top-level ancestor.
	for _, cc := range d.all {
		if !d.emitted[cc] {
			d.writeTree(cc)
		}
	}

	for _, b := range d.basics {
		d.writeBasic(b)
	}
	return d.w.String()
}

// writeTree writes a composite block followed by the boundary lines of the
// composite and of every composite nested in it.
func (d *diagram) writeTree(cc *model.CompositeComponent) {
	for _, c := range d.writeComposite(cc) {
		d.writeBoundary(c)
	}
}

// writeComposite writes the block for cc and returns the composites it
// emitted, cc first.
func (d *diagram) writeComposite(cc *model.CompositeComponent) []*model.CompositeComponent {
	d.emitted[cc] = true
	ps := d.portsOf(cc)
	tree := []*model.CompositeComponent{cc}

	d.w.Line(grammar.ComponentKeyword, grammar.Space, render.Quote(naming.Escape(cc.Name)), grammar.Space, grammar.BlockStart)

	basics, composites := d.innerOf(cc)
	for _, b := range basics {
		d.w.Line(render.Box(naming.Escape(b.Name)))
	}
	for _, n := range composites {
		if !d.emitted[n] {
			tree = append(tree, d.writeComposite(n)...)
		}
	}

	for _, p := range ps.inList {
		d.w.Line(grammar.PortIn, grammar.Space, render.Quote(p.iface), grammar.Space, grammar.As, grammar.Space, p.id)
	}
	for _, p := range ps.outList {
		d.w.Line(grammar.PortOut, grammar.Space, render.Quote(p.iface), grammar.Space, grammar.As, grammar.Space, p.id)
	}

	var (
		assemblies []*model.AssemblyConnector
		provided   []*model.ProvidedDelegationConnector
		required   []*model.RequiredDelegationConnector
	)
	for _, conn := range d.connectorsOf(cc) {
		switch v := conn.(type) {
		case *model.AssemblyConnector:
			assemblies = append(assemblies, v)
		case *model.ProvidedDelegationConnector:
			provided = append(provided, v)
		case *model.RequiredDelegationConnector:
			required = append(required, v)
		}
	}

	for _, a := range assemblies {
		req, okReq := d.componentRef(a.Requiring)
		prov, okProv := d.componentRef(a.Providing)
		if !okReq || !okProv {
			d.diags.Report(render.IncompleteConnector, a.ID, "assembly connector %q in %q lacks a named endpoint", a.Name, cc.Name)
			continue
		}
		d.w.Line(render.Labeled(render.Edge(render.Box(req), grammar.RequiresLink, render.Box(prov)), grammar.RequiresLabel))
	}
	for _, pd := range provided {
		p, okPort := ps.in[pd.Outer]
		target, okTarget := d.componentRef(pd.Instance)
		if !okPort || !okTarget {
			d.diags.Report(render.UnresolvedDelegationTarget, pd.ID, "provided delegation %q in %q has no port or inner component", pd.Name, cc.Name)
			continue
		}
		d.w.Line(render.Labeled(render.Edge(render.Quote(p.id), grammar.RequiresLink, render.Box(target)), grammar.RequiresLabel))
	}
	for _, rd := range required {
		p, okPort := ps.out[rd.Outer]
		source, okSource := d.componentRef(rd.Instance)
		if !okPort || !okSource {
			d.diags.Report(render.UnresolvedDelegationTarget, rd.ID, "required delegation %q in %q has no port or inner component", rd.Name, cc.Name)
			continue
		}
		d.w.Line(render.Labeled(render.Edge(render.Box(source), grammar.RequiresLink, render.Quote(p.id)), grammar.RequiresLabel))
	}

	d.w.Line(grammar.BlockEnd)
	return tree
}

// writeBoundary links the ports of cc to the interfaces they expose.
func (d *diagram) writeBoundary(cc *model.CompositeComponent) {
	ps := d.portsOf(cc)
	for _, p := range ps.inList {
		d.w.Line(render.Edge(render.InterfaceRef(p.iface), grammar.SimpleLink, render.Quote(p.id)))
	}
	for _, p := range ps.outList {
		d.w.Line(render.Labeled(render.Edge(render.Quote(p.id), grammar.RequiresLink, render.InterfaceRef(p.iface)), grammar.RequiresLabel))
	}
}

// writeBasic writes a free basic component with its interfaces, or a bare
// box when no interface line applies.
func (d *diagram) writeBasic(b *model.BasicComponent) {
	name := naming.Escape(b.Name)
	wrote := false

	for _, r := range naming.Sorted(present(b.Provided)) {
		iface, ok := d.resolve(r)
		if !ok {
			continue
		}
		in := naming.Escape(iface.Name)
		if d.names[in] {
			continue
		}
		d.w.Line(render.Edge(render.InterfaceRef(in), grammar.SimpleLink, render.Box(name)))
		wrote = true
	}

	for _, r := range naming.Sorted(present(b.Required)) {
		iface, ok := d.resolve(r)
		if !ok {
			continue
		}
		in := naming.Escape(iface.Name)
		target := render.InterfaceRef(in)
		if d.names[in] {
			target = render.Box(in)
		}
		d.w.Line(render.Labeled(render.Edge(render.Box(name), grammar.RequiresLink, target), grammar.RequiresLabel))
		wrote = true
	}

	if !wrote {
		d.w.Line(render.Box(name))
	}
}

// portsOf synthesizes the ports of cc once per render pass. Roles satisfied
// by an enclosing assembly connector stay internal and get no port.
func (d *diagram) portsOf(cc *model.CompositeComponent) *ports {
	if ps, ok := d.ports[cc]; ok {
		return ps
	}
	ps := &ports{
		in:  make(map[*model.ProvidedRole]port),
		out: make(map[*model.RequiredRole]port),
	}
	owner := naming.Escape(cc.Name)

	seen := make(map[string]bool)
	for _, r := range naming.Sorted(present(cc.Provided)) {
		if d.connectedProvided[r] {
			continue
		}
		iface, ok := d.resolve(r)
		if !ok {
			continue
		}
		p := port{id: owner + grammar.InPortInfix + naming.Escape(iface.Name), iface: naming.Escape(iface.Name)}
		ps.in[r] = p
		if !seen[p.id] {
			seen[p.id] = true
			ps.inList = append(ps.inList, p)
		}
	}

	clear(seen)
	for _, r := range naming.Sorted(present(cc.Required)) {
		if d.connectedRequired[r] {
			continue
		}
		iface, ok := d.resolve(r)
		if !ok {
			continue
		}
		p := port{id: owner + grammar.OutPortInfix + naming.Escape(iface.Name), iface: naming.Escape(iface.Name)}
		ps.out[r] = p
		if !seen[p.id] {
			seen[p.id] = true
			ps.outList = append(ps.outList, p)
		}
	}

	byID := func(a, b port) int { return strings.Compare(a.id, b.id) }
	slices.SortFunc(ps.inList, byID)
	slices.SortFunc(ps.outList, byID)

	d.ports[cc] = ps
	return ps
}

// innerOf returns the distinct named components encapsulated by cc, split
// into basics and composites, each sorted by name.
func (d *diagram) innerOf(cc *model.CompositeComponent) ([]*model.BasicComponent, []*model.CompositeComponent) {
	var (
		basics     []*model.BasicComponent
		composites []*model.CompositeComponent
		seen       = make(map[model.Component]bool)
	)
	for _, inst := range cc.Instances {
		if inst == nil || model.NilComponent(inst.Component) || seen[inst.Component] {
			continue
		}
		seen[inst.Component] = true
		if !d.named(inst.Component, "component") {
			continue
		}
		switch v := inst.Component.(type) {
		case *model.BasicComponent:
			basics = append(basics, v)
		case *model.CompositeComponent:
			composites = append(composites, v)
		}
	}
	return naming.Sorted(basics), naming.Sorted(composites)
}

// connectorsOf returns the named connectors of cc sorted by name.
func (d *diagram) connectorsOf(cc *model.CompositeComponent) []model.Connector {
	var out []model.Connector
	for _, c := range cc.Connectors {
		if model.NilConnector(c) || !d.named(c, "connector") {
			continue
		}
		out = append(out, c)
	}
	return naming.Sorted(out)
}

// componentRef returns the escaped name of the component an instance wraps.
func (d *diagram) componentRef(inst *model.AssemblyInstance) (string, bool) {
	if inst == nil || model.NilComponent(inst.Component) {
		return "", false
	}
	name := naming.Escape(inst.Component.EntityName())
	return name, name != ""
}

// resolve looks up the interface a role references.
func (d *diagram) resolve(r model.Role) (*model.Interface, bool) {
	iface, ok := d.ifaces[r.Interface()]
	if !ok {
		d.diags.Report(render.DanglingRoleReference, r.EntityID(), "role %q references unknown interface %q", r.EntityName(), r.Interface())
		return nil, false
	}
	if naming.Blank(iface.Name) {
		d.diags.Report(render.BlankIdentity, iface.ID, "interface has no name")
		return nil, false
	}
	return iface, true
}

func (d *diagram) named(e model.Named, what string) bool {
	if naming.Blank(e.EntityName()) {
		d.diags.Report(render.BlankIdentity, e.EntityID(), "%s has no name", what)
		return false
	}
	return true
}

// present drops nil entries.
func present[E any](items []*E) []*E {
	out := make([]*E, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}
