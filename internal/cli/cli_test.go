package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/palladiosimulator/pcmuml/internal/config"
)

const shopModel = `
repositories:
  - id: repo
    name: Shop Repository
    interfaces: [{id: i1, name: IStore}]
    components:
      - id: c-store
        name: Store
        provided: [{id: p1, name: Provided_IStore, interface: i1}]
      - id: c-web
        name: Web
        required: [{id: q1, name: Required_IStore, interface: i1}]
      - id: c-ghost
        name: Ghost
        provided: [{id: p2, name: Provided_IGhost, interface: missing}]
systems:
  - id: sys
    name: Shop
    instances:
      - {id: x-store, name: Store, component: c-store}
      - {id: x-web, name: Web, component: c-web}
    connectors:
      - {id: k1, name: web-store, type: assembly, requiring: x-web, required_role: q1, providing: x-store, provided_role: p1}
containers: [{id: n1, name: Server}]
allocations:
  - id: alloc
    name: Deployment
    system: sys
    contexts:
      - {id: a1, instance: x-store, container: n1}
      - {id: a2, instance: x-web, container: n1}
`

// newTestCLI returns a CLI with captured output, a discarding logger and
// default configuration.
func newTestCLI() (*CLI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cfg := config.Defaults()
	c := &CLI{
		Logger: log.New(io.Discard),
		Config: &cfg,
		Out:    &out,
		Err:    &errOut,
	}
	return c, &out, &errOut
}

func testContext(c *CLI) context.Context {
	return withLogger(context.Background(), c.Logger)
}

// writeModel writes the shop model into a fresh directory.
func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.yaml")
	if err := os.WriteFile(path, []byte(shopModel), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c, _, _ := newTestCLI()
	root := c.RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"render", "watch", "serve", "browse", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("subcommand %q not registered (have %v)", want, names)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not registered")
	}
}

func TestRootCommandRender(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := writeModel(t)
	c, out, _ := newTestCLI()
	c.Config = nil

	root := c.RootCommand()
	root.SetArgs([]string{"render", path, "--stdout", "-k", "system", "--no-wrap"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if c.Config == nil || c.Config.File != "" {
		t.Errorf("Config = %+v, want defaults loaded by the root hook", c.Config)
	}
	got := out.String()
	if strings.Contains(got, "@startuml") {
		t.Errorf("--no-wrap output wrapped:\n%s", got)
	}
	if !strings.Contains(got, `component "Shop" {`) {
		t.Errorf("system diagram missing:\n%s", got)
	}
	if strings.Contains(got, "node Server") {
		t.Error("allocation rendered although only system was selected")
	}
}

func TestRootCommandBadConfig(t *testing.T) {
	c, _, _ := newTestCLI()
	root := c.RootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "render", "x.yaml"})
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("Execute() with a missing config file should fail")
	}
}

func TestPipelineOptionsMerge(t *testing.T) {
	c, _, _ := newTestCLI()
	c.Config.Wrap = false
	c.Config.SystemName = "FromConfig"
	c.Config.Kinds = []string{"component"}

	var f modelFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"-k", "system,allocation", "--workspace", "/ws"}); err != nil {
		t.Fatal(err)
	}

	opts := c.pipelineOptions(cmd, &f)

	if !slices.Equal(opts.Kinds, []string{"system", "allocation"}) {
		t.Errorf("Kinds = %v, want flag value", opts.Kinds)
	}
	if opts.Workspace != "/ws" {
		t.Errorf("Workspace = %q, want /ws", opts.Workspace)
	}
	// Values without a flag come from the configuration.
	if opts.SystemName != "FromConfig" || !opts.Raw {
		t.Errorf("SystemName/Raw = %q/%v, want FromConfig/true", opts.SystemName, opts.Raw)
	}
}

func TestOutputDir(t *testing.T) {
	c, _, _ := newTestCLI()
	model := filepath.Join("models", "shop.yaml")

	if got := c.outputDir("out", model); got != "out" {
		t.Errorf("outputDir(flag) = %q, want out", got)
	}
	if got := c.outputDir("", model); got != "models" {
		t.Errorf("outputDir(default) = %q, want models", got)
	}
	c.Config.OutputDir = "diagrams"
	if got := c.outputDir("", model); got != "diagrams" {
		t.Errorf("outputDir(config) = %q, want diagrams", got)
	}
}

func TestConfigFallsBackToDefaults(t *testing.T) {
	c := &CLI{}
	if got := c.config(); got.SystemName != "System" || !got.Wrap {
		t.Errorf("config() = %+v, want defaults", got)
	}
}

func TestCompletion(t *testing.T) {
	c, _, _ := newTestCLI()
	root := c.RootCommand()

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		if err := writeCompletion(root, &buf, shell); err != nil {
			t.Fatalf("writeCompletion(%s) error = %v", shell, err)
		}
		if !strings.Contains(buf.String(), appName) {
			t.Errorf("%s completion does not mention %s", shell, appName)
		}
	}
}
