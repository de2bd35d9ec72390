package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// DefaultSystemName labels a system block whose system has no usable name.
const DefaultSystemName = "System"

// Option configures a render call.
type Option func(*Config)

// Config is the resolved set of options for one render call.
type Config struct {
	Logger     *log.Logger
	SystemName string // Fallback label for unnamed systems

	report func(Diagnostic)
}

// NewConfig applies opts on top of the defaults: a discarding logger, no
// diagnostics sink and [DefaultSystemName].
func NewConfig(opts ...Option) Config {
	cfg := Config{
		Logger:     log.New(io.Discard),
		SystemName: DefaultSystemName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger routes renderer warnings to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithDiagnostics installs a sink that receives every dropped element.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(c *Config) { c.report = fn }
}

// WithSystemName overrides the fallback label for unnamed systems.
func WithSystemName(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.SystemName = name
		}
	}
}

// Report logs a diagnostic and forwards it to the installed sink.
func (c Config) Report(kind DiagnosticKind, id string, format string, args ...any) {
	d := Diagnostic{Kind: kind, EntityID: id, Detail: fmt.Sprintf(format, args...)}
	c.Logger.Warn("dropped model element", "kind", d.Kind, "entity", d.EntityID, "detail", d.Detail)
	if c.report != nil {
		c.report(d)
	}
}
