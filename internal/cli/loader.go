package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/msojocs/pigment/internal/pipeline"
)

// CLI error codes.
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeScanError   = "E002" // directory scan error
	ErrCodeNoFiles     = "E003" // no CSS sources found
	ErrCodeManifest    = "E004" // manifest load/build failed
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeWriteFailed = "E006" // writing output failed
	ErrCodeArchive     = "E007" // archive write failed
	ErrCodeInspect     = "E008" // artifact decode failed
)

// LoadError represents an error that occurred while building a batch
// request from disk.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadBatch builds a BatchRequest from path: either a directory of .css
// files or a CUE batch manifest. For a directory, outputKind and prefix
// come from the flags; a manifest's own fields win over the flags when
// present.
//
// Manifest shape:
//
//	batch: {
//		output_kind:     "bincode"
//		tag_name_prefix: "wx-"
//		sources: {
//			"a.css": "styles/a.css"
//		}
//	}
//
// Source paths are relative to the manifest's directory.
func LoadBatch(path, outputKind, prefix string) (*pipeline.BatchRequest, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
	}

	if info.IsDir() {
		return loadBatchDir(path, outputKind, prefix)
	}
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return loadBatchManifest(path, outputKind, prefix)
	}
	return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("not a directory or .cue manifest: %s", path)}
}

// loadBatchDir collects every .css file under dir (recursively). Names
// are slash-separated paths relative to dir, so the same tree always
// produces the same identity space on any platform.
func loadBatchDir(dir, outputKind, prefix string) (*pipeline.BatchRequest, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(p), ".css") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning %s: %v", dir, err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CSS files found in %s", dir)}
	}

	req := &pipeline.BatchRequest{
		OutputKind:    outputKind,
		TagNamePrefix: prefix,
		Sources:       make(map[string][]byte, len(files)),
	}
	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("resolving %s: %v", file, err)}
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("reading %s: %v", file, err)}
		}
		req.Sources[filepath.ToSlash(rel)] = data
	}
	return req, nil
}

func loadBatchManifest(path, outputKind, prefix string) (*pipeline.BatchRequest, error) {
	dir := filepath.Dir(path)
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{filepath.Base(path)}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeManifest, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("loading manifest: %v", inst.Err)}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("building manifest: %v", err)}
	}

	batch := value.LookupPath(cue.ParsePath("batch"))
	if !batch.Exists() {
		return nil, &LoadError{Code: ErrCodeManifest, Message: "manifest has no 'batch' field"}
	}

	req := &pipeline.BatchRequest{
		OutputKind:    outputKind,
		TagNamePrefix: prefix,
		Sources:       make(map[string][]byte),
	}
	if v := batch.LookupPath(cue.ParsePath("output_kind")); v.Exists() {
		kind, err := v.String()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("output_kind: %v", err)}
		}
		req.OutputKind = kind
	}
	if v := batch.LookupPath(cue.ParsePath("tag_name_prefix")); v.Exists() {
		p, err := v.String()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("tag_name_prefix: %v", err)}
		}
		req.TagNamePrefix = p
	}

	sources := batch.LookupPath(cue.ParsePath("sources"))
	if !sources.Exists() {
		return nil, &LoadError{Code: ErrCodeManifest, Message: "manifest has no 'batch.sources' field"}
	}
	iter, err := sources.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("iterating sources: %v", err)}
	}
	for iter.Next() {
		sel := iter.Selector()
		name := sel.String()
		if sel.Type() == cue.StringLabel {
			name = sel.Unquoted()
		}
		rel, err := iter.Value().String()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("source %q: %v", name, err)}
		}
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return nil, &LoadError{Code: ErrCodeManifest, Message: fmt.Sprintf("source %q: %v", name, err)}
		}
		req.Sources[name] = data
	}
	if len(req.Sources) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: "manifest lists no sources"}
	}
	return req, nil
}
