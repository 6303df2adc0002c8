package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/msojocs/pigment/internal/css"
	"github.com/msojocs/pigment/internal/resource"
)

// engine is the contract the pipeline drives. *resource.Resource is the
// production implementation; tests substitute faulting engines.
type engine interface {
	BindPrefix(name, prefix string)
	AddSource(name, text string) []css.Diagnostic
	SerializeBincode(name string) ([]byte, bool)
	ImportIndexes() *resource.ImportIndex
}

// newEngine constructs the engine for one call. Overridden in tests.
var newEngine = func() engine { return resource.New() }

// Compile runs one batch compilation synchronously on the caller's
// goroutine. See the package documentation for the phase contract.
//
// The returned error is non-nil only for an engine fault or a cancelled
// context; compilation problems in the sources come back as per-file
// diagnostics, never as an error.
func Compile(ctx context.Context, req BatchRequest) (result *BatchResult, err error) {
	result = &BatchResult{Files: make(map[string]FileResult, len(req.Sources))}
	if req.OutputKind != OutputKindBincode {
		return result, nil
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("compile batch: engine fault: %v", r)
		}
	}()

	eng := newEngine()

	if req.TagNamePrefix != "" {
		for name := range req.Sources {
			eng.BindPrefix(name, req.TagNamePrefix)
		}
	}

	for name, raw := range req.Sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("compile batch: %w", err)
		}
		diags := eng.AddSource(name, decodeLossy(raw))
		result.Files[name] = FileResult{Diagnostics: diagnosticStrings(diags)}
	}

	for name := range req.Sources {
		if data, ok := eng.SerializeBincode(name); ok {
			entry := result.Files[name]
			entry.Artifact = data
			result.Files[name] = entry
		}
	}

	result.ImportIndex = eng.ImportIndexes().SerializeBincode()
	return result, nil
}

// CompileSingle compiles exactly one source with the same decoding,
// prefix and registration policy as Compile. No import index is computed;
// a single file has nothing to cross-reference.
func CompileSingle(ctx context.Context, req SingleRequest) (result *FileResult, err error) {
	result = &FileResult{}
	if req.OutputKind != OutputKindBincode {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compile %s: %w", req.FileName, err)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("compile %s: engine fault: %v", req.FileName, r)
		}
	}()

	eng := newEngine()

	if req.Prefix != "" {
		eng.BindPrefix(req.FileName, req.Prefix)
	}
	result.Diagnostics = diagnosticStrings(eng.AddSource(req.FileName, decodeLossy(req.Content)))
	if data, ok := eng.SerializeBincode(req.FileName); ok {
		result.Artifact = data
	}
	return result, nil
}

// decodeLossy interprets raw bytes as UTF-8, replacing invalid sequences
// with U+FFFD. Invalid input is never an error.
func decodeLossy(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}

func diagnosticStrings(diags []css.Diagnostic) []string {
	if len(diags) == 0 {
		return nil
	}
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}
	return out
}
