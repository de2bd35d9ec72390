package system

import (
	"fmt"
	"strings"

	"github.com/palladiosimulator/pcmuml/pkg/model"
	"github.com/palladiosimulator/pcmuml/pkg/naming"
	"github.com/palladiosimulator/pcmuml/pkg/render"
	"github.com/palladiosimulator/pcmuml/pkg/render/grammar"
)

// PlaceholderName is the name the modelling workbench gives a freshly
// created system. A system still carrying it is labeled with the fallback
// name from [render.WithSystemName].
const PlaceholderName = "aName"

// Render returns the system diagram body for sys, or "" when the system has
// no named instance of a basic component.
func Render(sys *model.System, opts ...render.Option) (string, error) {
	if sys == nil {
		return "", fmt.Errorf("system diagram: %w", render.ErrNilModel)
	}
	d := newDiagram(sys, render.NewConfig(opts...))
	return d.render(), nil
}

type diagram struct {
	cfg render.Config
	w   render.Writer
	sys *model.System

	instances  []*model.AssemblyInstance // boxed instances, sorted
	boxed      map[*model.AssemblyInstance]bool
	connectors []model.Connector
	provided   []string // escaped provided role names, sorted

	diags *render.Reporter
}

func newDiagram(sys *model.System, cfg render.Config) *diagram {
	d := &diagram{
		cfg:   cfg,
		sys:   sys,
		boxed: make(map[*model.AssemblyInstance]bool),
		diags: render.NewReporter(cfg),
	}

	for _, inst := range sys.Instances {
		if inst == nil || d.boxed[inst] || !d.named(inst, "assembly instance") {
			continue
		}
		if !inst.Basic() {
			continue
		}
		d.boxed[inst] = true
		d.instances = append(d.instances, inst)
	}
	d.instances = naming.Sorted(d.instances)

	for _, c := range sys.Connectors {
		if model.NilConnector(c) || !d.named(c, "connector") {
			continue
		}
		d.connectors = append(d.connectors, c)
	}
	d.connectors = naming.Sorted(d.connectors)

	names := make([]string, 0, len(sys.Provided))
	for _, r := range sys.Provided {
		if r != nil {
			names = append(names, r.Name)
		}
	}
	d.provided = naming.SortedNames(names)

	return d
}

func (d *diagram) render() string {
	if len(d.instances) == 0 {
		return ""
	}

	d.w.Preamble()
	for _, role := range d.provided {
		d.w.Line(grammar.Lollipop, grammar.Space, role)
	}

	d.w.Line(grammar.ComponentKeyword, grammar.Space, render.Quote(d.label()), grammar.Space, grammar.BlockStart)
	for _, inst := range d.instances {
		d.w.Line(render.Box(naming.Escape(inst.Name)), render.Link(d.link(inst)))
	}
	for _, c := range d.connectors {
		switch v := c.(type) {
		case *model.AssemblyConnector:
			d.writeAssembly(v)
		case *model.ProvidedDelegationConnector:
			d.writeDelegation(v)
		case *model.RequiredDelegationConnector:
			// Requirements leaving the system are not drawn.
		}
	}
	d.w.Line(grammar.BlockEnd)

	return d.w.String()
}

// label returns the block name: the system's own name unless it is blank or
// still the workbench placeholder.
func (d *diagram) label() string {
	name := strings.TrimSpace(d.sys.Name)
	if name == "" || name == PlaceholderName {
		return naming.Escape(d.cfg.SystemName)
	}
	return naming.Escape(name)
}

// link points at the repository that declares the instance's component.
func (d *diagram) link(inst *model.AssemblyInstance) string {
	repo := inst.Component.Repository()
	if repo == nil {
		return ""
	}
	return naming.Hyperlink(repo.Location())
}

// writeAssembly draws "[requiring] -(0- [providing] : role".
func (d *diagram) writeAssembly(a *model.AssemblyConnector) {
	if a.Requiring == nil || a.Providing == nil || a.ProvidedRole == nil {
		d.diags.Report(render.IncompleteConnector, a.ID, "assembly connector %q lacks an endpoint or provided role", a.Name)
		return
	}
	if !d.boxed[a.Requiring] || !d.boxed[a.Providing] {
		d.cfg.Logger.Debug("assembly connector not drawn", "connector", a.Name, "reason", "endpoint is not a basic component instance")
		return
	}
	label := naming.Escape(a.ProvidedRole.Name)
	if label == "" {
		d.diags.Report(render.BlankIdentity, a.ProvidedRole.ID, "provided role of assembly connector %q has no name", a.Name)
		return
	}

	edge := render.Edge(
		render.Box(naming.Escape(a.Requiring.Name)),
		grammar.ProvidesRequiresLink,
		render.Box(naming.Escape(a.Providing.Name)),
	)
	d.w.Line(render.Labeled(edge, label))
}

// writeDelegation draws the chain "outer -- inner" and "inner -- [provider]".
func (d *diagram) writeDelegation(pd *model.ProvidedDelegationConnector) {
	if pd.Outer == nil || pd.Inner == nil || pd.Instance == nil {
		d.diags.Report(render.IncompleteConnector, pd.ID, "provided delegation %q lacks a role or instance", pd.Name)
		return
	}
	outer, inner := naming.Escape(pd.Outer.Name), naming.Escape(pd.Inner.Name)
	if outer == "" || inner == "" {
		d.diags.Report(render.BlankIdentity, pd.ID, "provided delegation %q links an unnamed role", pd.Name)
		return
	}

	target, ok := d.provider(pd.Instance, pd.Inner)
	if !ok {
		d.diags.Report(render.UnresolvedDelegationTarget, pd.ID, "provided delegation %q reaches no basic component", pd.Name)
		return
	}

	d.w.Line(render.Edge(outer, grammar.SimpleLink, inner))
	d.w.Line(render.Edge(inner, grammar.SimpleLink, render.Box(target)))
}

// provider follows provided delegations from role on inst down to a basic
// component and returns that component's escaped name.
func (d *diagram) provider(inst *model.AssemblyInstance, role *model.ProvidedRole) (string, bool) {
	visited := make(map[*model.CompositeComponent]bool)
	for {
		if inst == nil || role == nil || model.NilComponent(inst.Component) {
			return "", false
		}
		switch c := inst.Component.(type) {
		case *model.BasicComponent:
			name := naming.Escape(c.Name)
			return name, name != ""
		case *model.CompositeComponent:
			if visited[c] {
				return "", false
			}
			visited[c] = true

			next := delegationOf(c, role)
			if next == nil {
				return "", false
			}
			inst, role = next.Instance, next.Inner
		}
	}
}

// delegationOf returns the first provided delegation of c, by name, whose
// outer role is role.
func delegationOf(c *model.CompositeComponent, role *model.ProvidedRole) *model.ProvidedDelegationConnector {
	var matches []*model.ProvidedDelegationConnector
	for _, conn := range c.Connectors {
		if pd, ok := conn.(*model.ProvidedDelegationConnector); ok && pd != nil && pd.Outer == role {
			matches = append(matches, pd)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	return naming.Sorted(matches)[0]
}

func (d *diagram) named(e model.Named, what string) bool {
	if naming.Blank(e.EntityName()) {
		d.diags.Report(render.BlankIdentity, e.EntityID(), "%s has no name", what)
		return false
	}
	return true
}
