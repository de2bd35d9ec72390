package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/model"
)

// ReadBundle decodes a bundle in the given format from r and resolves its
// references. ReadBundle does not close r.
//
// It fails with INVALID_FORMAT when r cannot be decoded, INVALID_MODEL when
// a component or connector has an unknown type, DUPLICATE_ID when two
// elements share an identifier and UNKNOWN_REFERENCE when a reference names
// no element. An empty document yields an empty bundle.
func ReadBundle(r io.Reader, format Format, opts ...Option) (*model.Bundle, error) {
	var data bundle
	if err := decode(r, format, &data); err != nil {
		return nil, err
	}
	return newResolver(newOptions(opts)).resolve(&data)
}

// ImportFile reads the bundle file at path. The format follows the file
// extension and every root records the file's location.
func ImportFile(path string, opts ...Option) (*model.Bundle, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	o := newOptions(opts)
	if o.uri == "" {
		opts = append(opts, WithURI(Location(path, o.workspace)))
	}
	return ReadBundle(f, format, opts...)
}

func decode(r io.Reader, format Format, v *bundle) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(v)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(v)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(v)
	default:
		return perrors.New(perrors.ErrCodeInvalidFormat, "unsupported model format %q", format)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return nil
}

// resolver turns wire elements into model elements. Identifiers are
// registered in a first pass so that references can point forward.
type resolver struct {
	opts options
	ids  map[string]bool

	components map[string]model.Component
	provided   map[string]*model.ProvidedRole
	required   map[string]*model.RequiredRole
	systems    map[string]*model.System
	containers map[string]*model.ResourceContainer

	// Instances visible to the connectors of each composite and system.
	scopes map[any]map[string]*model.AssemblyInstance
}

func newResolver(o options) *resolver {
	return &resolver{
		opts:       o,
		ids:        make(map[string]bool),
		components: make(map[string]model.Component),
		provided:   make(map[string]*model.ProvidedRole),
		required:   make(map[string]*model.RequiredRole),
		systems:    make(map[string]*model.System),
		containers: make(map[string]*model.ResourceContainer),
		scopes:     make(map[any]map[string]*model.AssemblyInstance),
	}
}

func (r *resolver) resolve(data *bundle) (*model.Bundle, error) {
	out := &model.Bundle{}

	type pendingComposite struct {
		wire component
		cc   *model.CompositeComponent
	}
	var composites []pendingComposite

	for _, wr := range data.Repositories {
		repo, err := r.repository(wr)
		if err != nil {
			return nil, err
		}
		for _, wc := range wr.Components {
			c, err := r.component(wc)
			if err != nil {
				return nil, err
			}
			repo.Add(c)
			if cc, ok := c.(*model.CompositeComponent); ok {
				composites = append(composites, pendingComposite{wc, cc})
			}
		}
		out.Repositories = append(out.Repositories, repo)
	}

	for _, wc := range data.Containers {
		rc := &model.ResourceContainer{}
		var err error
		if rc.Entity, err = r.entity(wc.ID, wc.Name); err != nil {
			return nil, err
		}
		r.containers[rc.ID] = rc
		out.Containers = append(out.Containers, rc)
	}

	// Composites and systems reference components, so they are wired once
	// every component is known.
	for _, p := range composites {
		insts, err := r.instances(p.cc, p.wire.Instances)
		if err != nil {
			return nil, err
		}
		p.cc.Instances = insts
		if p.cc.Connectors, err = r.connectors(p.cc, p.wire.Connectors); err != nil {
			return nil, err
		}
	}

	for _, ws := range data.Systems {
		sys, err := r.system(ws)
		if err != nil {
			return nil, err
		}
		out.Systems = append(out.Systems, sys)
	}

	for _, wa := range data.Allocations {
		alloc, err := r.allocation(wa)
		if err != nil {
			return nil, err
		}
		out.Allocations = append(out.Allocations, alloc)
	}

	return out, nil
}

// entity registers an identifier, generating one when id is empty.
func (r *resolver) entity(id, name string) (model.Entity, error) {
	if id == "" {
		id = r.opts.newID()
	}
	if r.ids[id] {
		return model.Entity{}, perrors.New(perrors.ErrCodeDuplicateID, "duplicate id %q", id)
	}
	r.ids[id] = true
	return model.Entity{ID: id, Name: name}, nil
}

func (r *resolver) repository(w repository) (*model.Repository, error) {
	e, err := r.entity(w.ID, w.Name)
	if err != nil {
		return nil, err
	}
	repo := &model.Repository{Entity: e, URI: r.opts.uri}
	for _, wi := range w.Interfaces {
		ie, err := r.entity(wi.ID, wi.Name)
		if err != nil {
			return nil, err
		}
		repo.Interfaces = append(repo.Interfaces, &model.Interface{Entity: ie})
	}
	return repo, nil
}

func (r *resolver) component(w component) (model.Component, error) {
	e, err := r.entity(w.ID, w.Name)
	if err != nil {
		return nil, err
	}
	provided, required, err := r.roles(w.Provided, w.Required)
	if err != nil {
		return nil, err
	}

	var c model.Component
	switch w.Type {
	case "", typeBasic:
		if len(w.Instances) > 0 || len(w.Connectors) > 0 {
			return nil, perrors.New(perrors.ErrCodeInvalidModel, "component %q: basic components cannot have instances or connectors", e.ID)
		}
		c = &model.BasicComponent{Entity: e, Provided: provided, Required: required}
	case typeComposite:
		c = &model.CompositeComponent{Entity: e, Provided: provided, Required: required}
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidModel, "component %q: unknown type %q", e.ID, w.Type)
	}
	r.components[e.ID] = c
	return c, nil
}

func (r *resolver) roles(prov, req []role) ([]*model.ProvidedRole, []*model.RequiredRole, error) {
	var (
		provided []*model.ProvidedRole
		required []*model.RequiredRole
	)
	for _, w := range prov {
		e, err := r.entity(w.ID, w.Name)
		if err != nil {
			return nil, nil, err
		}
		pr := &model.ProvidedRole{Entity: e, InterfaceID: w.Interface}
		r.provided[e.ID] = pr
		provided = append(provided, pr)
	}
	for _, w := range req {
		e, err := r.entity(w.ID, w.Name)
		if err != nil {
			return nil, nil, err
		}
		rr := &model.RequiredRole{Entity: e, InterfaceID: w.Interface}
		r.required[e.ID] = rr
		required = append(required, rr)
	}
	return provided, required, nil
}

// instances resolves the instances of owner and makes them visible to the
// owner's connectors.
func (r *resolver) instances(owner any, ws []instance) ([]*model.AssemblyInstance, error) {
	scope := make(map[string]*model.AssemblyInstance, len(ws))
	out := make([]*model.AssemblyInstance, 0, len(ws))
	for _, w := range ws {
		e, err := r.entity(w.ID, w.Name)
		if err != nil {
			return nil, err
		}
		c, ok := r.components[w.Component]
		if !ok {
			return nil, unknown(e.ID, "component", w.Component)
		}
		inst := &model.AssemblyInstance{Entity: e, Component: c}
		scope[e.ID] = inst
		out = append(out, inst)
	}
	r.scopes[owner] = scope
	return out, nil
}

func (r *resolver) connectors(owner any, ws []connector) ([]model.Connector, error) {
	out := make([]model.Connector, 0, len(ws))
	for _, w := range ws {
		e, err := r.entity(w.ID, w.Name)
		if err != nil {
			return nil, err
		}
		c, err := r.connector(owner, e, w)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *resolver) connector(owner any, e model.Entity, w connector) (model.Connector, error) {
	ref := refs{r: r, from: e.ID, scope: r.scopes[owner]}

	switch w.Type {
	case typeAssembly:
		c := &model.AssemblyConnector{
			Entity:       e,
			Requiring:    ref.instance("requiring", w.Requiring),
			RequiredRole: ref.required("required_role", w.RequiredRole),
			Providing:    ref.instance("providing", w.Providing),
			ProvidedRole: ref.provided("provided_role", w.ProvidedRole),
		}
		return c, ref.err
	case typeProvidedDelegation:
		c := &model.ProvidedDelegationConnector{
			Entity:   e,
			Outer:    ref.provided("outer", w.Outer),
			Inner:    ref.provided("inner", w.Inner),
			Instance: ref.instance("instance", w.Instance),
		}
		return c, ref.err
	case typeRequiredDelegation:
		c := &model.RequiredDelegationConnector{
			Entity:   e,
			Outer:    ref.required("outer", w.Outer),
			Inner:    ref.required("inner", w.Inner),
			Instance: ref.instance("instance", w.Instance),
		}
		return c, ref.err
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidModel, "connector %q: unknown type %q", e.ID, w.Type)
	}
}

func (r *resolver) system(w system) (*model.System, error) {
	e, err := r.entity(w.ID, w.Name)
	if err != nil {
		return nil, err
	}
	sys := &model.System{Entity: e, URI: r.opts.uri}
	if sys.Provided, sys.Required, err = r.roles(w.Provided, w.Required); err != nil {
		return nil, err
	}
	if sys.Instances, err = r.instances(sys, w.Instances); err != nil {
		return nil, err
	}
	if sys.Connectors, err = r.connectors(sys, w.Connectors); err != nil {
		return nil, err
	}
	r.systems[e.ID] = sys
	return sys, nil
}

func (r *resolver) allocation(w allocation) (*model.Allocation, error) {
	e, err := r.entity(w.ID, w.Name)
	if err != nil {
		return nil, err
	}
	alloc := &model.Allocation{Entity: e, URI: r.opts.uri}
	if w.System != "" {
		sys, ok := r.systems[w.System]
		if !ok {
			return nil, unknown(e.ID, "system", w.System)
		}
		alloc.System = sys
	}

	for _, wc := range w.Contexts {
		ce, err := r.entity(wc.ID, wc.Name)
		if err != nil {
			return nil, err
		}
		ref := refs{r: r, from: ce.ID, scope: r.scopes[alloc.System]}
		ctx := &model.AllocationContext{
			Entity:    ce,
			Instance:  ref.instance("instance", wc.Instance),
			Container: ref.container("container", wc.Container),
		}
		if ref.err != nil {
			return nil, ref.err
		}
		alloc.Contexts = append(alloc.Contexts, ctx)
	}
	return alloc, nil
}

// refs resolves the references of one element and keeps the first failure.
// Empty references resolve to nil.
type refs struct {
	r     *resolver
	from  string
	scope map[string]*model.AssemblyInstance
	err   error
}

func (f *refs) instance(field, id string) *model.AssemblyInstance {
	if id == "" || f.err != nil {
		return nil
	}
	inst, ok := f.scope[id]
	if !ok {
		f.err = unknown(f.from, field, id)
	}
	return inst
}

func (f *refs) provided(field, id string) *model.ProvidedRole {
	if id == "" || f.err != nil {
		return nil
	}
	role, ok := f.r.provided[id]
	if !ok {
		f.err = unknown(f.from, field, id)
	}
	return role
}

func (f *refs) required(field, id string) *model.RequiredRole {
	if id == "" || f.err != nil {
		return nil
	}
	role, ok := f.r.required[id]
	if !ok {
		f.err = unknown(f.from, field, id)
	}
	return role
}

func (f *refs) container(field, id string) *model.ResourceContainer {
	if id == "" || f.err != nil {
		return nil
	}
	rc, ok := f.r.containers[id]
	if !ok {
		f.err = unknown(f.from, field, id)
	}
	return rc
}

func unknown(from, field, to string) error {
	return perrors.Wrap(perrors.ErrCodeUnknownReference,
		&perrors.ReferenceError{From: from, Field: field, To: to}, "resolve model")
}
