package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compileFixture compiles one tiny batch and returns the output dir.
func compileFixture(t *testing.T) string {
	t.Helper()
	dir := writeSources(t, map[string]string{
		"a.css": `@import "b.css"; div { color: red }`,
		"b.css": `span { margin: 0 }`,
	})
	outDir := t.TempDir()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir, "--output", outDir})
	require.NoError(t, cmd.Execute())
	return outDir
}

func TestInspectArtifact(t *testing.T) {
	outDir := compileFixture(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewInspectCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(outDir, "a.css.bin")})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "artifact a.css")
	assert.Contains(t, output, "2 rule(s)")
	assert.Contains(t, output, "imports b.css")
	assert.Contains(t, output, "hash ")
}

func TestInspectImportIndex(t *testing.T) {
	outDir := compileFixture(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewInspectCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(outDir, "import_index.bin")})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "import index")
	assert.Contains(t, output, "2 file(s)")
	assert.Contains(t, output, "a.css -> b.css")
}

func TestInspectArtifactJSON(t *testing.T) {
	outDir := compileFixture(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewInspectCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(outDir, "b.css.bin")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	dataMap, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "artifact", dataMap["kind"])
	artifact, ok := dataMap["artifact"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "b.css", artifact["name"])
}

func TestInspectGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte("not an artifact"), 0o644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewInspectCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E008")
}

func TestInspectMissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewInspectCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/file.bin"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "E005")
}
