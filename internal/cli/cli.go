package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/palladiosimulator/pcmuml/internal/config"
	"github.com/palladiosimulator/pcmuml/pkg/buildinfo"
	"github.com/palladiosimulator/pcmuml/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pcmuml"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	// Out receives diagrams and status lines, Err receives status lines
	// whenever Out carries diagram text.
	Out io.Writer
	Err io.Writer

	cfgFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "pcmuml renders Palladio architecture models as PlantUML diagrams",
		Long:         `pcmuml reads a Palladio model bundle and writes PlantUML component diagrams for its repositories, systems and allocations.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.File != "" {
				c.Logger.Debug("loaded config", "file", cfg.File)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ./"+config.LocalFile+" or ~/.config/pcmuml/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner logging to the context's logger.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	return pipeline.NewRunner(loggerFromContext(ctx))
}

// config returns the loaded configuration, or the defaults when the
// command ran without the root's pre-run hook.
func (c *CLI) config() *config.Config {
	if c.Config == nil {
		cfg := config.Defaults()
		c.Config = &cfg
	}
	return c.Config
}

// =============================================================================
// Options Helpers
// =============================================================================

// modelFlags holds the flags shared by every command that renders a model.
type modelFlags struct {
	kinds     []string
	name      string
	noWrap    bool
	workspace string
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.kinds, "kinds", "k", nil, "diagram kinds: component, system, allocation (default all)")
	cmd.Flags().StringVar(&f.name, "name", "", "label for systems without a name (default \"System\")")
	cmd.Flags().BoolVar(&f.noWrap, "no-wrap", false, "omit @startuml/@enduml around each diagram")
	cmd.Flags().StringVar(&f.workspace, "workspace", "", "workspace root for platform:/resource hyperlinks")
}

// pipelineOptions starts from the configuration and applies the flags the
// user set explicitly.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *modelFlags) pipeline.Options {
	opts := c.config().PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("kinds") {
		opts.Kinds = f.kinds
	}
	if flags.Changed("name") {
		opts.SystemName = f.name
	}
	if flags.Changed("no-wrap") {
		opts.Raw = f.noWrap
	}
	if flags.Changed("workspace") {
		opts.Workspace = f.workspace
	}
	return opts
}

// outputDir picks the directory diagrams are written to: the flag, then the
// configuration, then the directory holding the model file.
func (c *CLI) outputDir(flag, modelPath string) string {
	switch {
	case flag != "":
		return flag
	case c.config().OutputDir != "":
		return c.config().OutputDir
	default:
		return filepath.Dir(modelPath)
	}
}
