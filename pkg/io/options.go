package io

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Option configures how a bundle is read.
type Option func(*options)

type options struct {
	workspace string
	uri       string
	newID     func() string
}

func newOptions(opts []Option) options {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithWorkspace sets the workspace root. Files below it get
// "platform:/resource/<relative path>" locations.
func WithWorkspace(root string) Option {
	return func(o *options) { o.workspace = root }
}

// WithURI sets the location recorded on every root of the bundle.
func WithURI(uri string) Option {
	return func(o *options) { o.uri = uri }
}

// WithIDGenerator replaces the UUID generator used for elements without an
// identifier.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// Location returns the store location of the file at path. Files inside
// workspace map to "platform:/resource/<relative path>", all others to a
// "file://" URI. An empty workspace always yields a file URI.
func Location(path, workspace string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if workspace != "" {
		if root, err := filepath.Abs(workspace); err == nil {
			rel, err := filepath.Rel(root, abs)
			if err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return "platform:/resource/" + filepath.ToSlash(rel)
			}
		}
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
