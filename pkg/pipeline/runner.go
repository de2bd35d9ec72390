package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	modelio "github.com/palladiosimulator/pcmuml/pkg/io"
	"github.com/palladiosimulator/pcmuml/pkg/model"
	"github.com/palladiosimulator/pcmuml/pkg/observability"
	"github.com/palladiosimulator/pcmuml/pkg/render"
)

// Runner executes the pipeline and reports to the registered hooks.
//
// The Runner is stateless except for its logger. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → render pipeline for the model file at path.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	loadStart := time.Now()
	b, err := r.Load(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)

	result, err := r.Render(ctx, b, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// Load reads and resolves the model file at path.
func (r *Runner) Load(ctx context.Context, path string, opts Options) (*model.Bundle, error) {
	hooks := observability.Render()
	hooks.OnLoadStart(ctx, path)

	start := time.Now()
	b, err := modelio.ImportFile(path, modelio.WithWorkspace(opts.Workspace))
	duration := time.Since(start)

	roots := len(b.Roots())
	hooks.OnLoadComplete(ctx, path, roots, duration, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	r.applyLogger(&opts)
	opts.Logger.Info("loaded model",
		"path", path,
		"roots", roots,
		"duration", duration)
	return b, nil
}

// Render renders every root of b whose kind was selected. Roots whose
// diagram is empty are counted in Stats.Empty and produce no Diagram.
// Render stops with ctx's error when ctx is cancelled between roots.
func (r *Runner) Render(ctx context.Context, b *model.Bundle, opts Options) (*Result, error) {
	if b == nil {
		return nil, perrors.New(perrors.ErrCodeNilModel, "bundle is nil")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	hooks := observability.Render()

	result := &Result{Bundle: b}
	start := time.Now()

	for _, root := range b.Roots() {
		kind := KindOf(root)
		if !opts.Wants(kind) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Stats.Roots++

		collect := func(d render.Diagnostic) {
			result.Diagnostics = append(result.Diagnostics, d)
			hooks.OnDiagnostic(ctx, kind, string(d.Kind), d.EntityID)
		}

		hooks.OnRenderStart(ctx, kind, root.Location())
		renderStart := time.Now()
		text, err := RenderRoot(root,
			render.WithLogger(logger),
			render.WithDiagnostics(collect),
			render.WithSystemName(opts.SystemName))
		lines := strings.Count(text, "\n")
		hooks.OnRenderComplete(ctx, kind, root.Location(), lines, time.Since(renderStart), err)
		if err != nil {
			return nil, fmt.Errorf("render %s %q: %w", kind, root.EntityID(), err)
		}

		if text == "" {
			result.Stats.Empty++
			logger.Debug("empty diagram", "kind", kind, "root", root.EntityID())
			continue
		}
		if !opts.Raw {
			text = render.Document(text)
		}
		result.Diagrams = append(result.Diagrams, Diagram{
			Kind:     kind,
			RootID:   root.EntityID(),
			RootName: root.EntityName(),
			Location: root.Location(),
			Text:     text,
		})
	}

	result.Stats.RenderTime = time.Since(start)
	logger.Info("rendered diagrams",
		"diagrams", len(result.Diagrams),
		"empty", result.Stats.Empty,
		"dropped", len(result.Diagnostics),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
}
