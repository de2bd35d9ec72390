package errors

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// ModelExtensions lists the file extensions a model bundle can be read from.
var ModelExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// DiagramKinds lists the diagram kinds that can be requested.
var DiagramKinds = []string{"component", "system", "allocation"}

// ValidateModelFilename checks that filename names a supported model file.
// Only the extension is inspected; the file is not opened.
func ValidateModelFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "model filename cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return New(ErrCodeInvalidFormat, "model file %q has no extension (want one of %s)",
			filename, strings.Join(ModelExtensions, ", "))
	}
	if !slices.Contains(ModelExtensions, ext) {
		return New(ErrCodeInvalidFormat, "unsupported model format %q (want one of %s)",
			ext, strings.Join(ModelExtensions, ", "))
	}
	return nil
}

// ValidateDiagramKind checks that kind is one of [DiagramKinds].
func ValidateDiagramKind(kind string) error {
	if kind == "" {
		return New(ErrCodeInvalidKind, "diagram kind cannot be empty")
	}
	if !slices.Contains(DiagramKinds, kind) {
		return New(ErrCodeInvalidKind, "unknown diagram kind %q (want one of %s)",
			kind, strings.Join(DiagramKinds, ", "))
	}
	return nil
}

// ValidateOutputName validates a generated output file name.
// It ensures the name is a simple basename that cannot escape the output
// directory.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 characters
//   - No null bytes or control characters
//   - No path separators
//   - No path traversal sequences (..)
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	}

	const maxNameLength = 255
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPath, "output name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output name contains invalid characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "output name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "output name cannot contain path traversal sequences (..)")
	}

	return nil
}
