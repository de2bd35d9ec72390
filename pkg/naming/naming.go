// Package naming turns model display names into identifiers that are safe to
// embed in diagram source, orders named entities deterministically, and
// builds hyperlinks back into the model store.
//
// # Escaping
//
// [Escape] trims the name, collapses every whitespace run into a single "."
// and replaces every remaining run of characters outside [A-Za-z0-9_.] with
// a single "_". The result never contains whitespace and escaping is
// idempotent:
//
//	naming.Escape("Web  Server/v2") // "Web.Server_v2"
//
// # Ordering
//
// [Compare] orders entities by their escaped display name and falls back to
// the identifier when two names escape to the same token. [Sorted] returns a
// sorted copy and never reorders the caller's slice, so model collections
// stay untouched.
//
// # Hyperlinks
//
// [Hyperlink] converts an element location such as
// "platform:/resource/shop/shop.repository#_x1" into the marker link format
// understood by the modelling workbench:
//
//	marker:/org.eclipse.emf.ecore.diagnostic/shop/shop.repository?uri=platform:/resource/shop/shop.repository%23_x1
//
// Locations outside the workspace are returned unchanged.
package naming

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/palladiosimulator/pcmuml/pkg/model"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordRun    = regexp.MustCompile(`[^\w.]+`)
)

// Escape converts a display name into a grammar-safe token.
// An empty or all-whitespace name escapes to "".
func Escape(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = whitespaceRun.ReplaceAllString(s, ".")
	return nonWordRun.ReplaceAllString(s, "_")
}

// Blank reports whether name has no visible characters.
func Blank(name string) bool {
	return strings.TrimSpace(name) == ""
}

// Compare orders two entities by escaped display name, then by identifier.
func Compare(a, b model.Named) int {
	if c := strings.Compare(Escape(a.EntityName()), Escape(b.EntityName())); c != 0 {
		return c
	}
	return cmp.Compare(a.EntityID(), b.EntityID())
}

// Sorted returns a copy of items ordered by [Compare].
// Items must be non-nil.
func Sorted[T model.Named](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int { return Compare(a, b) })
	return out
}

// SortedNames escapes names, drops blanks and duplicates, and returns the
// remaining tokens in lexicographic order.
func SortedNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		e := Escape(n)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}
