package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/model"
)

// WriteBundle encodes b in the given format and writes it to w.
// The output can be read back with [ReadBundle].
func WriteBundle(w io.Writer, b *model.Bundle, format Format) error {
	if b == nil {
		return perrors.New(perrors.ErrCodeNilModel, "bundle is nil")
	}
	out := fromBundle(b)

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(out); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(out)
	default:
		return perrors.New(perrors.ErrCodeInvalidFormat, "unsupported model format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes b to path in the format given by the file extension.
func ExportFile(b *model.Bundle, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteBundle(f, b, format)
}

func fromBundle(b *model.Bundle) bundle {
	var out bundle
	for _, r := range b.Repositories {
		if r == nil {
			continue
		}
		wr := repository{ID: r.ID, Name: r.Name}
		for _, i := range r.Interfaces {
			if i != nil {
				wr.Interfaces = append(wr.Interfaces, named{ID: i.ID, Name: i.Name})
			}
		}
		for _, c := range r.Components {
			if !model.NilComponent(c) {
				wr.Components = append(wr.Components, fromComponent(c))
			}
		}
		out.Repositories = append(out.Repositories, wr)
	}

	for _, s := range b.Systems {
		if s == nil {
			continue
		}
		out.Systems = append(out.Systems, system{
			ID:         s.ID,
			Name:       s.Name,
			Instances:  fromInstances(s.Instances),
			Connectors: fromConnectors(s.Connectors),
			Provided:   fromProvided(s.Provided),
			Required:   fromRequired(s.Required),
		})
	}

	for _, rc := range b.Containers {
		if rc != nil {
			out.Containers = append(out.Containers, named{ID: rc.ID, Name: rc.Name})
		}
	}

	for _, a := range b.Allocations {
		if a == nil {
			continue
		}
		wa := allocation{ID: a.ID, Name: a.Name}
		if a.System != nil {
			wa.System = a.System.ID
		}
		for _, ctx := range a.Contexts {
			if ctx == nil {
				continue
			}
			wc := context{ID: ctx.ID, Name: ctx.Name, Instance: idOf(ctx.Instance)}
			if ctx.Container != nil {
				wc.Container = ctx.Container.ID
			}
			wa.Contexts = append(wa.Contexts, wc)
		}
		out.Allocations = append(out.Allocations, wa)
	}
	return out
}

func fromComponent(c model.Component) component {
	w := component{
		ID:       c.EntityID(),
		Name:     c.EntityName(),
		Provided: fromProvided(c.ProvidedRoles()),
		Required: fromRequired(c.RequiredRoles()),
	}
	switch v := c.(type) {
	case *model.BasicComponent:
		w.Type = typeBasic
	case *model.CompositeComponent:
		w.Type = typeComposite
		w.Instances = fromInstances(v.Instances)
		w.Connectors = fromConnectors(v.Connectors)
	}
	return w
}

func fromProvided(roles []*model.ProvidedRole) []role {
	var out []role
	for _, r := range roles {
		if r != nil {
			out = append(out, role{ID: r.ID, Name: r.Name, Interface: r.InterfaceID})
		}
	}
	return out
}

func fromRequired(roles []*model.RequiredRole) []role {
	var out []role
	for _, r := range roles {
		if r != nil {
			out = append(out, role{ID: r.ID, Name: r.Name, Interface: r.InterfaceID})
		}
	}
	return out
}

func fromInstances(insts []*model.AssemblyInstance) []instance {
	var out []instance
	for _, i := range insts {
		if i == nil {
			continue
		}
		w := instance{ID: i.ID, Name: i.Name}
		if !model.NilComponent(i.Component) {
			w.Component = i.Component.EntityID()
		}
		out = append(out, w)
	}
	return out
}

func fromConnectors(conns []model.Connector) []connector {
	var out []connector
	for _, c := range conns {
		if model.NilConnector(c) {
			continue
		}
		w := connector{ID: c.EntityID(), Name: c.EntityName()}
		switch v := c.(type) {
		case *model.AssemblyConnector:
			w.Type = typeAssembly
			w.Requiring = idOf(v.Requiring)
			w.Providing = idOf(v.Providing)
			if v.RequiredRole != nil {
				w.RequiredRole = v.RequiredRole.ID
			}
			if v.ProvidedRole != nil {
				w.ProvidedRole = v.ProvidedRole.ID
			}
		case *model.ProvidedDelegationConnector:
			w.Type = typeProvidedDelegation
			w.Instance = idOf(v.Instance)
			if v.Outer != nil {
				w.Outer = v.Outer.ID
			}
			if v.Inner != nil {
				w.Inner = v.Inner.ID
			}
		case *model.RequiredDelegationConnector:
			w.Type = typeRequiredDelegation
			w.Instance = idOf(v.Instance)
			if v.Outer != nil {
				w.Outer = v.Outer.ID
			}
			if v.Inner != nil {
				w.Inner = v.Inner.ID
			}
		}
		out = append(out, w)
	}
	return out
}

func idOf(i *model.AssemblyInstance) string {
	if i == nil {
		return ""
	}
	return i.ID
}
