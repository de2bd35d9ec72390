package naming

import (
	"regexp"
	"testing"

	"pgregory.net/rapid"

	"github.com/palladiosimulator/pcmuml/pkg/model"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
		{"plain", "WebServer", "WebServer"},
		{"trimmed", "  WebServer  ", "WebServer"},
		{"inner space", "Web Server", "Web.Server"},
		{"whitespace run", "Web \t  Server", "Web.Server"},
		{"slash", "Media/Store", "Media_Store"},
		{"punctuation run", "a<>!b", "a_b"},
		{"dot kept", "org.shop", "org.shop"},
		{"mixed", " Access Control (v2) ", "Access.Control._v2_"},
		{"non ascii", "Größe", "Gr_e"},
		{"digits and underscore", "comp_01", "comp_01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.input); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

var escapedAlphabet = regexp.MustCompile(`^[A-Za-z0-9._]*$`)

func TestEscapeProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "name")
		once := Escape(s)

		if !escapedAlphabet.MatchString(once) {
			rt.Fatalf("Escape(%q) = %q contains characters outside [A-Za-z0-9._]", s, once)
		}
		if twice := Escape(once); twice != once {
			rt.Fatalf("Escape not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestBlank(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"a", false},
		{" a ", false},
	}

	for _, tt := range tests {
		if got := Blank(tt.input); got != tt.want {
			t.Errorf("Blank(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func named(id, name string) *model.Interface {
	return &model.Interface{Entity: model.Entity{ID: id, Name: name}}
}

func TestSorted(t *testing.T) {
	items := []*model.Interface{
		named("3", "Zeta"),
		named("2", "Alpha Beta"),
		named("1", "Alpha_Beta"),
		named("4", "Alpha.Beta"),
	}

	got := Sorted(items)

	wantIDs := []string{"2", "4", "1", "3"}
	for i, it := range got {
		if it.ID != wantIDs[i] {
			t.Errorf("Sorted()[%d].ID = %q, want %q", i, it.ID, wantIDs[i])
		}
	}

	// Input must stay in its original order.
	if items[0].ID != "3" {
		t.Errorf("Sorted mutated its input: items[0].ID = %q", items[0].ID)
	}
}

func TestSortedDeterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(rapid.StringMatching(`[a-c ]{0,3}`), 1, 8).Draw(rt, "names")
		items := make([]*model.Interface, len(names))
		for i, n := range names {
			items[i] = named(string(rune('a'+i)), n)
		}

		shuffled := rapid.Permutation(items).Draw(rt, "shuffled")

		a, b := Sorted(items), Sorted(shuffled)
		for i := range a {
			if a[i] != b[i] {
				rt.Fatalf("order depends on input order at %d: %q vs %q", i, a[i].ID, b[i].ID)
			}
		}
	})
}

func TestSortedNames(t *testing.T) {
	got := SortedNames([]string{"b", " ", "a b", "a.b", "", "B", "b"})
	want := []string{"B", "a.b", "b"}

	if len(got) != len(want) {
		t.Fatalf("SortedNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
