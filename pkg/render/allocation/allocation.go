package allocation

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/palladiosimulator/pcmuml/pkg/model"
	"github.com/palladiosimulator/pcmuml/pkg/naming"
	"github.com/palladiosimulator/pcmuml/pkg/render"
	"github.com/palladiosimulator/pcmuml/pkg/render/grammar"
)

// Render returns the allocation diagram body for alloc, or "" when no
// allocation context binds both an instance and a container.
func Render(alloc *model.Allocation, opts ...render.Option) (string, error) {
	if alloc == nil {
		return "", fmt.Errorf("allocation diagram: %w", render.ErrNilModel)
	}
	d := newDiagram(alloc, render.NewConfig(opts...))
	return d.render(), nil
}

// node is one resource container and the components allocated to it.
type node struct {
	container *model.ResourceContainer
	label     string
	comps     []model.Component           // distinct, sorted
	refs      map[model.Component]string // how edges refer to a component declared here
}

// edge is a collapsed set of assembly connectors between two declared
// component references.
type edge struct {
	requiring string
	providing string
}

type diagram struct {
	cfg   render.Config
	w     render.Writer
	diags *render.Reporter

	sys      *model.System
	link     string // hyperlink to the allocated system
	nodes    []*node
	hosts    map[*model.AssemblyInstance][]*node
	declared map[model.Component]bool
}

func newDiagram(alloc *model.Allocation, cfg render.Config) *diagram {
	d := &diagram{
		cfg:      cfg,
		diags:    render.NewReporter(cfg),
		sys:      alloc.System,
		hosts:    make(map[*model.AssemblyInstance][]*node),
		declared: make(map[model.Component]bool),
	}
	if alloc.System != nil {
		d.link = naming.Hyperlink(alloc.System.Location())
	}

	byContainer := make(map[*model.ResourceContainer]*node)
	for _, ctx := range alloc.Contexts {
		if !ctx.Valid() {
			continue
		}
		n, ok := byContainer[ctx.Container]
		if !ok {
			n = &node{container: ctx.Container, refs: make(map[model.Component]string)}
			byContainer[ctx.Container] = n
			d.nodes = append(d.nodes, n)
		}
		if !slices.Contains(d.hosts[ctx.Instance], n) {
			d.hosts[ctx.Instance] = append(d.hosts[ctx.Instance], n)
		}

		c := ctx.Instance.Component
		if model.NilComponent(c) {
			d.cfg.Logger.Debug("allocation context has no component", "context", ctx.ID)
			continue
		}
		if !d.named(c, "component") || slices.Contains(n.comps, c) {
			continue
		}
		n.comps = append(n.comps, c)
	}

	for _, n := range d.nodes {
		n.comps = naming.Sorted(n.comps)
		n.label = nodeLabel(n)
	}
	slices.SortStableFunc(d.nodes, func(a, b *node) int {
		if c := strings.Compare(a.label, b.label); c != 0 {
			return c
		}
		return cmp.Compare(a.container.ID, b.container.ID)
	})

	return d
}

// nodeLabel names a node after its container, or after its first component
// when the container has no name.
func nodeLabel(n *node) string {
	if name := naming.Escape(n.container.Name); name != "" {
		return name
	}
	suffix := naming.Escape(n.container.ID)
	if len(n.comps) > 0 {
		suffix = naming.Escape(n.comps[0].EntityName())
	}
	return grammar.ContainerPrefix + suffix
}

func (d *diagram) render() string {
	if len(d.nodes) == 0 {
		return ""
	}

	d.w.Preamble()
	for _, n := range d.nodes {
		d.w.Line(grammar.NodeKeyword, grammar.Space, n.label, grammar.Space, grammar.BlockStart)
		for _, c := range n.comps {
			d.writeComponent(c, n)
		}
		d.w.Line(grammar.BlockEnd)
	}
	d.writeEdges()
	return d.w.String()
}

// writeComponent declares c inside n. The first declaration in the diagram
// uses the plain name; later nodes declare the same component under an alias
// so that each node shows what runs on it.
func (d *diagram) writeComponent(c model.Component, n *node) {
	if _, ok := n.refs[c]; ok {
		return
	}
	name := naming.Escape(c.EntityName())
	ref, as := render.Box(name), ""
	if d.declared[c] {
		ref = alias(name, n)
		as = grammar.Space + grammar.As + grammar.Space + ref
	}
	d.declared[c] = true
	n.refs[c] = ref

	switch v := c.(type) {
	case *model.BasicComponent:
		d.w.Line(render.Box(name), as, render.Link(d.link))
	case *model.CompositeComponent:
		d.w.Line(grammar.ComponentKeyword, grammar.Space, render.Quote(name), as, grammar.Space, grammar.BlockStart)
		for _, inner := range d.innerOf(v) {
			d.writeComponent(inner, n)
		}
		d.w.Line(grammar.BlockEnd)
	}
}

// alias names a repeated declaration after the component and its container.
func alias(name string, n *node) string {
	key := naming.Escape(n.container.ID)
	if key == "" {
		key = n.label
	}
	return strings.ReplaceAll(name+"_"+key, ".", "_")
}

// innerOf returns the distinct named components encapsulated by cc, sorted.
func (d *diagram) innerOf(cc *model.CompositeComponent) []model.Component {
	var out []model.Component
	for _, inst := range cc.Instances {
		if inst == nil || model.NilComponent(inst.Component) || slices.Contains(out, inst.Component) {
			continue
		}
		if d.named(inst.Component, "component") {
			out = append(out, inst.Component)
		}
	}
	return naming.Sorted(out)
}

// writeEdges collapses the system's assembly connectors into component
// edges that cross node boundaries.
func (d *diagram) writeEdges() {
	if d.sys == nil {
		return
	}

	var connectors []model.Connector
	for _, c := range d.sys.Connectors {
		if model.NilConnector(c) || !d.named(c, "connector") {
			continue
		}
		connectors = append(connectors, c)
	}

	roles := make(map[edge][]string)
	for _, c := range naming.Sorted(connectors) {
		a, ok := c.(*model.AssemblyConnector)
		if !ok {
			continue
		}
		if a.Requiring == nil || a.Providing == nil ||
			model.NilComponent(a.Requiring.Component) || model.NilComponent(a.Providing.Component) {
			d.diags.Report(render.IncompleteConnector, a.ID, "assembly connector %q lacks an endpoint", a.Name)
			continue
		}

		from, to := d.hosts[a.Requiring], d.hosts[a.Providing]
		if len(from) == 0 || len(to) == 0 {
			d.cfg.Logger.Debug("assembly connector not drawn", "connector", a.Name, "reason", "endpoint is not allocated")
			continue
		}
		for _, fn := range from {
			for _, tn := range to {
				if fn == tn {
					continue
				}
				req, okReq := fn.refs[a.Requiring.Component]
				prov, okProv := tn.refs[a.Providing.Component]
				if !okReq || !okProv {
					continue
				}
				e := edge{requiring: req, providing: prov}
				if a.ProvidedRole != nil {
					roles[e] = append(roles[e], a.ProvidedRole.Name)
				} else if _, ok := roles[e]; !ok {
					roles[e] = nil
				}
			}
		}
	}

	edges := slices.SortedFunc(maps.Keys(roles), func(a, b edge) int {
		if c := strings.Compare(a.requiring, b.requiring); c != 0 {
			return c
		}
		return strings.Compare(a.providing, b.providing)
	})
	for _, e := range edges {
		line := render.Edge(e.requiring, grammar.ProvidesRequiresLink, e.providing)
		if names := naming.SortedNames(roles[e]); len(names) > 0 {
			line = render.Labeled(line, strings.Join(names, grammar.LabelSeparator))
		}
		d.w.Line(line)
	}
}

func (d *diagram) named(e model.Named, what string) bool {
	if naming.Blank(e.EntityName()) {
		d.diags.Report(render.BlankIdentity, e.EntityID(), "%s has no name", what)
		return false
	}
	return true
}
