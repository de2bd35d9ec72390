package render

import (
	"bytes"

	"github.com/palladiosimulator/pcmuml/pkg/render/grammar"
)

// Writer is the append-only line buffer a renderer emits into.
type Writer struct {
	buf bytes.Buffer
}

// Line writes the concatenation of parts followed by a newline.
func (w *Writer) Line(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
	w.buf.WriteString(grammar.Newline)
}

// Preamble writes the skinparam directives that open every diagram body.
func (w *Writer) Preamble() {
	w.Line(grammar.SkinparamLabelOverlap)
	w.Line(grammar.SkinparamUML2)
}

// String returns everything written so far.
func (w *Writer) String() string {
	return w.buf.String()
}

// Box renders a component reference: [name].
func Box(name string) string {
	return grammar.ComponentStart + name + grammar.ComponentEnd
}

// Quote renders a quoted element reference: "s".
func Quote(s string) string {
	return grammar.QuoteStart + s + grammar.QuoteEnd
}

// InterfaceRef renders an interface element reference: "interface name".
func InterfaceRef(name string) string {
	return Quote(grammar.InterfacePrefix + name)
}

// Link renders a hyperlink suffix: " [[uri]]". An empty uri yields "".
func Link(uri string) string {
	if uri == "" {
		return ""
	}
	return grammar.Space + grammar.LinkStart + uri + grammar.LinkEnd
}

// Edge renders "from op to" with single spaces between the parts.
func Edge(from, op, to string) string {
	return from + grammar.Space + op + grammar.Space + to
}

// Labeled appends " : label" to s.
func Labeled(s, label string) string {
	return s + grammar.Colon + label
}

// Document wraps a diagram body in start and end markers. An empty body
// yields "" so callers can tell that there is no diagram to show.
func Document(body string) string {
	if body == "" {
		return ""
	}
	var b bytes.Buffer
	b.WriteString(grammar.StartUML)
	b.WriteString(grammar.Newline)
	b.WriteString(body)
	if body[len(body)-1] != '\n' {
		b.WriteString(grammar.Newline)
	}
	b.WriteString(grammar.EndUML)
	b.WriteString(grammar.Newline)
	return b.String()
}
