package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/msojocs/pigment/internal/bincode"
	"github.com/msojocs/pigment/internal/pipeline"
)

// Snapshot is the golden-file representation of a scenario result.
// It holds decode-level facts only, with file entries in byte order, so
// snapshots are stable across runs and reviewable by hand.
type Snapshot struct {
	Scenario   string          `json:"scenario"`
	OutputKind string          `json:"output_kind"`
	Prefix     string          `json:"tag_name_prefix,omitempty"`
	Files      []FileSnapshot  `json:"files"`
	Index      []IndexSnapshot `json:"import_index,omitempty"`
}

// FileSnapshot is one source file's entry in a snapshot.
type FileSnapshot struct {
	Name        string   `json:"name"`
	Artifact    bool     `json:"artifact"`
	Imports     []string `json:"imports,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// IndexSnapshot is one decoded import index entry.
type IndexSnapshot struct {
	Name    string   `json:"name"`
	Imports []string `json:"imports,omitempty"`
}

// BuildSnapshot converts a scenario result into its golden representation.
func BuildSnapshot(scenario *Scenario, batch *pipeline.BatchResult) (*Snapshot, error) {
	outputKind := scenario.OutputKind
	if outputKind == "" {
		outputKind = pipeline.OutputKindBincode
	}
	snapshot := &Snapshot{
		Scenario:   scenario.Name,
		OutputKind: outputKind,
		Prefix:     scenario.TagNamePrefix,
		Files:      []FileSnapshot{},
	}

	for _, name := range sortedFileNames(batch) {
		file := batch.Files[name]
		entry := FileSnapshot{
			Name:        name,
			Artifact:    len(file.Artifact) > 0,
			Diagnostics: file.Diagnostics,
		}
		if entry.Artifact {
			info, err := bincode.InspectArtifact(file.Artifact)
			if err != nil {
				return nil, fmt.Errorf("%s: decoding artifact: %w", name, err)
			}
			entry.Imports = info.Imports
		}
		snapshot.Files = append(snapshot.Files, entry)
	}

	if len(batch.ImportIndex) > 0 {
		info, err := bincode.InspectIndex(batch.ImportIndex)
		if err != nil {
			return nil, fmt.Errorf("decoding import index: %w", err)
		}
		for _, entry := range info.Files {
			snapshot.Index = append(snapshot.Index, IndexSnapshot{
				Name:    entry.Name,
				Imports: entry.Imports,
			})
		}
	}
	return snapshot, nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := BuildSnapshot(scenario, result.Batch)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
