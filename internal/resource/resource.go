// Package resource implements the stylesheet compilation context: a
// call-scoped engine that accumulates named sources and serves per-file
// artifacts plus a cross-file import index.
//
// A Resource is built fresh for each compilation and discarded afterwards.
// It is not safe for concurrent use and is never shared between calls.
// Operations are order-sensitive: prefixes bind before their source is
// registered, and the import index reflects only what has been registered
// when it is built.
package resource

import (
	"github.com/msojocs/pigment/internal/bincode"
	"github.com/msojocs/pigment/internal/css"
)

// Resource is one stylesheet compilation context.
type Resource struct {
	prefixes map[string]string
	sheets   map[string]*css.Sheet
}

// New creates an empty compilation context.
func New() *Resource {
	return &Resource{
		prefixes: make(map[string]string),
		sheets:   make(map[string]*css.Sheet),
	}
}

// BindPrefix associates a name-scope prefix with a file identity.
// The binding takes effect when that file's source is registered, so it
// must happen first. Rebinding the same name is a no-op (first binding
// wins), which makes the call idempotent per name.
func (r *Resource) BindPrefix(name, prefix string) {
	if _, ok := r.prefixes[name]; ok {
		return
	}
	r.prefixes[name] = prefix
}

// AddSource parses text and registers the resulting sheet under name.
// Any prefix bound to name is applied to the sheet's type selectors.
// AddSource never fails: every problem in the text comes back as an
// ordered diagnostic. Registering the same name again replaces the
// previous sheet.
func (r *Resource) AddSource(name, text string) []css.Diagnostic {
	sheet, diags := css.Parse(text)
	if prefix := r.prefixes[name]; prefix != "" {
		sheet.PrefixTypeSelectors(prefix)
	}
	r.sheets[name] = sheet
	return diags
}

// SerializeBincode encodes the named sheet as a binary artifact.
// The second return is false when name was never registered or when the
// sheet compiled to nothing (an empty source produces no artifact).
func (r *Resource) SerializeBincode(name string) ([]byte, bool) {
	sheet, ok := r.sheets[name]
	if !ok || sheet.Empty() {
		return nil, false
	}
	return bincode.EncodeSheet(name, sheet), true
}

// ImportIndexes computes the cross-file import index over every source
// registered so far. Call it only after all intended sources have been
// registered; it reflects full-batch knowledge.
func (r *Resource) ImportIndexes() *ImportIndex {
	files := make(map[string][]string, len(r.sheets))
	for name, sheet := range r.sheets {
		files[name] = sheet.Imports
	}
	return &ImportIndex{files: files}
}

// ImportIndex maps each registered file to the import targets it names,
// in source order. Targets are recorded verbatim, whether or not they
// match a registered file.
type ImportIndex struct {
	files map[string][]string
}

// Imports returns the import list recorded for name.
func (ix *ImportIndex) Imports(name string) ([]string, bool) {
	imports, ok := ix.files[name]
	return imports, ok
}

// Len returns the number of files in the index.
func (ix *ImportIndex) Len() int { return len(ix.files) }

// SerializeBincode encodes the index. The encoding is deterministic
// (file names sorted) regardless of registration order.
func (ix *ImportIndex) SerializeBincode() []byte {
	return bincode.EncodeImportIndex(ix.files)
}
