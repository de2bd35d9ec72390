package pipeline

import (
	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/model"
	"github.com/palladiosimulator/pcmuml/pkg/render"
	"github.com/palladiosimulator/pcmuml/pkg/render/allocation"
	"github.com/palladiosimulator/pcmuml/pkg/render/component"
	"github.com/palladiosimulator/pcmuml/pkg/render/system"
)

// RenderRoot renders the diagram body of root: repositories as component
// diagrams, systems as system diagrams and allocations as allocation
// diagrams. The body is not wrapped in document markers.
func RenderRoot(root model.Root, opts ...render.Option) (string, error) {
	switch v := root.(type) {
	case nil:
		return "", render.ErrNilModel
	case *model.Repository:
		return component.Render(v, opts...)
	case *model.System:
		return system.Render(v, opts...)
	case *model.Allocation:
		return allocation.Render(v, opts...)
	default:
		return "", perrors.New(perrors.ErrCodeUnsupported, "no renderer for %T", root)
	}
}
