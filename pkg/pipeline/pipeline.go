// Package pipeline provides the load → render pipeline for pcmuml.
//
// The CLI, the file watcher and the render server all go through a [Runner]
// so that every entry point selects diagram kinds, wraps documents and
// collects diagnostics the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Decode a model bundle file and resolve its references
//  2. Render: Dispatch every root of the bundle to the renderer for its kind
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, "shop.yaml", pipeline.Options{
//	    Kinds: []string{"system"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range result.Diagrams {
//	    fmt.Print(d.Text)
//	}
//
// Run individual stages:
//
//	// Load only
//	bundle, err := runner.Load(ctx, "shop.yaml", opts)
//
//	// Render an already loaded bundle
//	result, err := runner.Render(ctx, bundle, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/model"
	"github.com/palladiosimulator/pcmuml/pkg/naming"
	"github.com/palladiosimulator/pcmuml/pkg/render"
)

// =============================================================================
// Diagram Kinds
// =============================================================================

const (
	KindComponent  = "component"
	KindSystem     = "system"
	KindAllocation = "allocation"
)

// Extension is the file extension of written diagrams.
const Extension = ".puml"

// DefaultKinds lists every diagram kind in rendering order.
var DefaultKinds = []string{KindComponent, KindSystem, KindAllocation}

var rootKinds = map[model.Kind]string{
	model.KindRepository: KindComponent,
	model.KindSystem:     KindSystem,
	model.KindAllocation: KindAllocation,
}

// KindOf returns the diagram kind rendered from root.
func KindOf(root model.Root) string {
	if root == nil {
		return ""
	}
	return rootKinds[root.Kind()]
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Kinds selects the diagram kinds to render. Empty means all of them.
	Kinds []string `json:"kinds,omitempty"`

	// Raw skips the @startuml/@enduml wrapper around each diagram.
	Raw bool `json:"raw,omitempty"`

	// SystemName labels systems without a usable name.
	SystemName string `json:"system_name,omitempty"`

	// Workspace maps model files below it to platform resource locations.
	Workspace string `json:"workspace,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the requested kinds and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Kinds) == 0 {
		o.Kinds = slices.Clone(DefaultKinds)
	}
	for _, k := range o.Kinds {
		if err := perrors.ValidateDiagramKind(k); err != nil {
			return err
		}
	}
	if o.SystemName == "" {
		o.SystemName = render.DefaultSystemName
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Wants reports whether kind was selected.
func (o *Options) Wants(kind string) bool {
	return len(o.Kinds) == 0 || slices.Contains(o.Kinds, kind)
}

// =============================================================================
// Results
// =============================================================================

// Diagram is the rendered text of one root.
type Diagram struct {
	Kind     string
	RootID   string
	RootName string
	Location string
	Text     string
}

// Filename returns the file name the diagram is written to:
// "<kind>-<escaped root name><Extension>". Unnamed roots use their ID.
func (d Diagram) Filename() string {
	name := naming.Escape(d.RootName)
	if name == "" {
		name = naming.Escape(d.RootID)
	}
	if name == "" {
		name = "unnamed"
	}
	return d.Kind + "-" + name + Extension
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Bundle is the loaded model.
	Bundle *model.Bundle

	// Diagrams holds one entry per rendered root with a non-empty diagram,
	// in bundle order.
	Diagrams []Diagram

	// Diagnostics lists the model elements the renderers dropped.
	Diagnostics []render.Diagnostic

	// Stats contains timing and size information.
	Stats Stats
}

// OfKind returns the diagrams of the given kind.
func (r *Result) OfKind(kind string) []Diagram {
	var out []Diagram
	for _, d := range r.Diagrams {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Roots      int // Roots of a selected kind
	Empty      int // Roots whose diagram had no content
	LoadTime   time.Duration
	RenderTime time.Duration
}
