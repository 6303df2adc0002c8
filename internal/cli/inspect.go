package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msojocs/pigment/internal/bincode"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "inspect <file.bin>",
		Short:         "Decode the header of a compiled artifact or import index",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

// inspectOutput is the JSON payload for inspect.
type inspectOutput struct {
	Kind     string                `json:"kind"`
	Artifact *bincode.ArtifactInfo `json:"artifact,omitempty"`
	Index    *bincode.IndexInfo    `json:"index,omitempty"`
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("reading %s: %v", path, err), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	kind, err := bincode.Kind(data)
	if err != nil {
		formatter.Error(ErrCodeInspect, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	out := inspectOutput{Kind: kind}
	switch kind {
	case "artifact":
		out.Artifact, err = bincode.InspectArtifact(data)
	case "import-index":
		out.Index, err = bincode.InspectIndex(data)
	}
	if err != nil {
		formatter.Error(ErrCodeInspect, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	var b strings.Builder
	switch kind {
	case "artifact":
		fmt.Fprintf(&b, "artifact %s (v%d): %d rule(s)", out.Artifact.Name, out.Artifact.Version, out.Artifact.RuleCount)
		for _, imp := range out.Artifact.Imports {
			fmt.Fprintf(&b, "\nimports %s", imp)
		}
		fmt.Fprintf(&b, "\nhash %s", out.Artifact.Hash)
	case "import-index":
		fmt.Fprintf(&b, "import index (v%d): %d file(s)", out.Index.Version, len(out.Index.Files))
		for _, entry := range out.Index.Files {
			if len(entry.Imports) == 0 {
				fmt.Fprintf(&b, "\n%s", entry.Name)
				continue
			}
			fmt.Fprintf(&b, "\n%s -> %s", entry.Name, strings.Join(entry.Imports, ", "))
		}
	}
	return formatter.Success(b.String())
}
