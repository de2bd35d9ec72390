package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit string
		want            string
	}{
		{"dev", "none", "dev"},
		{"v1.0.0", "", "v1.0.0"},
		{"v1.0.0", "3f2a9c1d8e", "v1.0.0 (3f2a9c1)"},
		{"v1.0.0", "abc", "v1.0.0 (abc)"},
	}

	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Short(); got != tt.want {
			t.Errorf("Short() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version ") {
		t.Errorf("Template() = %q, want cobra name placeholder", got)
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q, want commit line", String())
	}
}
