package render

import (
	"fmt"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
)

// ErrNilModel is returned when a renderer receives a nil root.
var ErrNilModel = perrors.New(perrors.ErrCodeNilModel, "model root is nil")

// DiagnosticKind classifies a model defect found while rendering.
type DiagnosticKind string

const (
	// DanglingRoleReference: a role references an interface that is not in
	// the catalog. The role is skipped.
	DanglingRoleReference DiagnosticKind = "dangling_role_reference"

	// BlankIdentity: an entity has no display name. It is filtered out.
	BlankIdentity DiagnosticKind = "blank_identity"

	// UnresolvedDelegationTarget: a delegation connector has no matching port
	// or provider. The connector is skipped.
	UnresolvedDelegationTarget DiagnosticKind = "unresolved_delegation_target"

	// IncompleteConnector: a connector lacks an endpoint or role. The
	// connector is skipped.
	IncompleteConnector DiagnosticKind = "incomplete_connector"
)

// Diagnostic describes one model element a renderer dropped.
type Diagnostic struct {
	Kind     DiagnosticKind
	EntityID string // Identifier of the dropped element
	Detail   string
}

func (d Diagnostic) String() string {
	if d.EntityID == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
	}
	return fmt.Sprintf("%s %s: %s", d.Kind, d.EntityID, d.Detail)
}

// Collector accumulates diagnostics. Its Add method can be passed to
// [WithDiagnostics].
type Collector struct {
	Items []Diagnostic
}

// Add records d.
func (c *Collector) Add(d Diagnostic) {
	c.Items = append(c.Items, d)
}

// Count returns the number of diagnostics of the given kind.
func (c *Collector) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range c.Items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Reporter forwards diagnostics to a [Config], at most once per kind and
// entity. Diagnostics without an entity are always forwarded.
type Reporter struct {
	cfg  Config
	seen map[string]bool
}

// NewReporter returns a Reporter for cfg.
func NewReporter(cfg Config) *Reporter {
	return &Reporter{cfg: cfg, seen: make(map[string]bool)}
}

// Report forwards the diagnostic unless it was already reported.
func (r *Reporter) Report(kind DiagnosticKind, id, format string, args ...any) {
	if id != "" {
		key := string(kind) + "/" + id
		if r.seen[key] {
			return
		}
		r.seen[key] = true
	}
	r.cfg.Report(kind, id, format, args...)
}
