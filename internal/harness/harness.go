package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/msojocs/pigment/internal/bincode"
	"github.com/msojocs/pigment/internal/pipeline"
)

// Result captures a scenario execution: the raw batch result plus any
// expectation failures.
type Result struct {
	Scenario *Scenario
	Batch    *pipeline.BatchResult
	Errors   []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Errors) == 0 }

// AddError records one expectation failure.
func (r *Result) AddError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Run executes a scenario through the real pipeline and evaluates its
// expectations. The returned error is non-nil only when the pipeline
// itself fails; expectation failures live in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // quiet in tests

	req := pipeline.BatchRequest{
		OutputKind:    scenario.OutputKind,
		TagNamePrefix: scenario.TagNamePrefix,
		Sources:       make(map[string][]byte, len(scenario.Sources)),
	}
	if req.OutputKind == "" {
		req.OutputKind = pipeline.OutputKindBincode
	}
	for name, text := range scenario.Sources {
		req.Sources[name] = []byte(text)
	}

	batch, err := pipeline.Compile(context.Background(), req)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	logger.Info("scenario compiled",
		"scenario", scenario.Name,
		"files", len(batch.Files),
		"index_bytes", len(batch.ImportIndex),
	)

	result := &Result{Scenario: scenario, Batch: batch}
	for _, exp := range scenario.Expect {
		evaluateExpectation(result, exp)
	}
	return result, nil
}

func evaluateExpectation(result *Result, exp Expectation) {
	file, ok := result.Batch.Files[exp.File]
	if !ok {
		result.AddError("%s: missing from result", exp.File)
		return
	}

	hasArtifact := len(file.Artifact) > 0
	if hasArtifact != exp.Artifact {
		result.AddError("%s: artifact = %v, want %v", exp.File, hasArtifact, exp.Artifact)
	}

	if len(exp.Imports) > 0 {
		info, err := bincode.InspectArtifact(file.Artifact)
		if err != nil {
			result.AddError("%s: decoding artifact: %v", exp.File, err)
		} else if !stringSlicesEqual(info.Imports, exp.Imports) {
			result.AddError("%s: imports = %v, want %v", exp.File, info.Imports, exp.Imports)
		}
	}

	// Diagnostics match in order: each expected substring must appear in
	// a later diagnostic than the previous match.
	next := 0
	for _, want := range exp.Diagnostics {
		found := false
		for ; next < len(file.Diagnostics); next++ {
			if strings.Contains(file.Diagnostics[next], want) {
				found = true
				next++
				break
			}
		}
		if !found {
			result.AddError("%s: diagnostic %q not found in %v", exp.File, want, file.Diagnostics)
		}
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortedFileNames returns the result's file names in byte order.
func sortedFileNames(batch *pipeline.BatchResult) []string {
	names := make([]string, 0, len(batch.Files))
	for name := range batch.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
