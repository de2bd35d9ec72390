package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/naming"
	"github.com/palladiosimulator/pcmuml/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	modelFlags
	output string // output directory
	stdout bool   // print diagrams instead of writing files
}

// renderCommand creates the render command for writing diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <model>",
		Short: "Render a model bundle to PlantUML diagrams",
		Long: `Render reads a model bundle (.json, .yaml or .toml) and writes one
<kind>-<name>.puml file per repository, system and allocation.

Roots whose diagram would be empty are skipped. Elements that cannot be
drawn are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := perrors.ValidateModelFilename(path); err != nil {
				return err
			}
			_, err := c.runRender(cmd.Context(), path, c.pipelineOptions(cmd, &opts.modelFlags), output{
				dir:    c.outputDir(opts.output, path),
				stdout: opts.stdout,
			})
			return err
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: next to the model)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print diagrams to stdout instead of writing files")

	return cmd
}

// output says where rendered diagrams go.
type output struct {
	dir    string
	stdout bool
}

// status returns the writer for status lines, keeping stdout free for
// diagram text when diagrams are printed.
func (c *CLI) status(out output) io.Writer {
	if out.stdout {
		return c.Err
	}
	return c.Out
}

// runRender loads and renders the model at path and delivers the diagrams.
func (c *CLI) runRender(ctx context.Context, path string, opts pipeline.Options, out output) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	w := c.status(out)

	result, err := c.newRunner(ctx).Execute(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	if out.stdout {
		for _, d := range result.Diagrams {
			if _, err := io.WriteString(c.Out, d.Text); err != nil {
				return nil, err
			}
		}
	} else {
		files, err := writeDiagrams(out.dir, result.Diagrams)
		if err != nil {
			return nil, err
		}
		printSuccess(w, "Rendered %d %s from %s", len(files), plural(len(files), "diagram"), StyleHighlight.Render(filepath.Base(path)))
		for _, f := range files {
			printFile(w, f)
		}
	}

	printStats(w, result)
	printDiagnostics(w, result)
	prog.done(fmt.Sprintf("Rendered %d %s", len(result.Diagrams), plural(len(result.Diagrams), "diagram")))
	return result, nil
}

// writeDiagrams writes each diagram to dir under its file name and returns
// the written paths. Roots sharing a kind and name get their ID appended.
func writeDiagrams(dir string, diagrams []pipeline.Diagram) ([]string, error) {
	if len(diagrams) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}

	seen := make(map[string]bool, len(diagrams))
	paths := make([]string, 0, len(diagrams))
	for _, d := range diagrams {
		name := d.Filename()
		if seen[name] {
			name = strings.TrimSuffix(name, pipeline.Extension) + "-" + naming.Escape(d.RootID) + pipeline.Extension
		}
		if err := perrors.ValidateOutputName(name); err != nil {
			return paths, err
		}
		seen[name] = true

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(d.Text), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
