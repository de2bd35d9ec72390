package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/palladiosimulator/pcmuml/internal/watch"
	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
)

// watchCommand creates the watch command that re-renders on every change.
func (c *CLI) watchCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "watch <model>",
		Short: "Re-render a model bundle whenever it changes",
		Long: `Watch renders the model once and then again after every change to the
file, until interrupted. Load errors are reported and watching continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := perrors.ValidateModelFilename(path); err != nil {
				return err
			}
			ctx := cmd.Context()
			pipelineOpts := c.pipelineOptions(cmd, &opts.modelFlags)
			out := output{dir: c.outputDir(opts.output, path), stdout: opts.stdout}

			w, err := watch.New(watch.Config{
				Path:     path,
				Debounce: c.config().Watch.Debounce,
				Logger:   loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}
			changes, err := w.Start()
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			render := func(ctx context.Context) error {
				_, err := c.runRender(ctx, path, pipelineOpts, out)
				return err
			}
			return c.watchLoop(ctx, filepath.Base(path), changes, out, render)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: next to the model)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "print diagrams to stdout instead of writing files")

	return cmd
}

// watchLoop renders once, then once per value received on changes, until
// ctx is done. Render failures are printed and do not end the loop; an
// interrupt ends it without error.
func (c *CLI) watchLoop(ctx context.Context, name string, changes <-chan struct{}, out output, render func(context.Context) error) error {
	w := c.status(out)
	logger := loggerFromContext(ctx)

	if err := render(ctx); err != nil && ctx.Err() == nil {
		printError(w, "%s", perrors.UserMessage(err))
	}
	printInfo(w, "Watching %s %s", StyleHighlight.Render(name), StyleDim.Render("(ctrl+c to stop)"))

	for {
		select {
		case <-ctx.Done():
			printDetail(w, "Stopped watching %s", name)
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			printInfo(w, "%s changed", name)
			err := render(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				logger.Debug("render failed", "err", err)
				printError(w, "%s", perrors.UserMessage(err))
			}
		}
	}
}
