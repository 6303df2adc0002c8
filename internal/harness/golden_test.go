package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioGoldens runs every scenario under testdata/scenarios and
// compares its snapshot against the matching golden file.
func TestScenarioGoldens(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Passed(), "errors: %v", result.Errors)
		})
	}
}

func TestBuildSnapshotOrdersFiles(t *testing.T) {
	scenario := &Scenario{
		Name:        "ordering",
		Description: "snapshot files come back in byte order",
		Sources: map[string]string{
			"z.css": `div { a: b }`,
			"a.css": `div { a: b }`,
			"m.css": `div { a: b }`,
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	snapshot, err := BuildSnapshot(scenario, result.Batch)
	require.NoError(t, err)
	require.Len(t, snapshot.Files, 3)
	assert.Equal(t, "a.css", snapshot.Files[0].Name)
	assert.Equal(t, "m.css", snapshot.Files[1].Name)
	assert.Equal(t, "z.css", snapshot.Files[2].Name)

	require.Len(t, snapshot.Index, 3)
	assert.Equal(t, "a.css", snapshot.Index[0].Name)
}
