package io

import (
	"mime"
	"path/filepath"
	"strings"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
)

// Format is a bundle file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var formatNames = map[string]Format{
	"json":               FormatJSON,
	"yaml":               FormatYAML,
	"yml":                FormatYAML,
	"toml":               FormatTOML,
	"application/json":   FormatJSON,
	"application/yaml":   FormatYAML,
	"application/x-yaml": FormatYAML,
	"text/yaml":          FormatYAML,
	"text/x-yaml":        FormatYAML,
	"application/toml":   FormatTOML,
}

// FormatOf returns the format of a bundle file from its extension.
func FormatOf(path string) (Format, error) {
	if err := perrors.ValidateModelFilename(path); err != nil {
		return "", err
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return formatNames[ext], nil
}

// ParseFormat resolves a format name ("json", "yml", ...) or a media type
// such as "application/yaml; charset=utf-8".
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if mt, _, err := mime.ParseMediaType(name); err == nil {
		name = mt
	}
	if f, ok := formatNames[name]; ok {
		return f, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidFormat, "unsupported model format %q", s)
}
