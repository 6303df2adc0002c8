package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msojocs/pigment/internal/pipeline"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Prefix string
}

// checkOutput is the JSON payload for a check run.
type checkOutput struct {
	File         string   `json:"file"`
	ArtifactSize int      `json:"artifact_size"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file.css>",
		Short: "Compile a single file and report its diagnostics",
		Long: `Compile a single CSS file and report its diagnostics.

Exits 1 when the file has diagnostics, 0 when it is clean. The artifact
itself is discarded; use compile to write artifacts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "tag-name prefix bound to the file")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		formatter.Error(ErrCodeNotFound, fmt.Sprintf("reading %s: %v", path, err), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	result, err := pipeline.CompileSingle(context.Background(), pipeline.SingleRequest{
		FileName:   filepath.Base(path),
		Content:    content,
		OutputKind: pipeline.OutputKindBincode,
		Prefix:     opts.Prefix,
	})
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	out := checkOutput{
		File:         filepath.Base(path),
		ArtifactSize: len(result.Artifact),
		Diagnostics:  result.Diagnostics,
	}

	if formatter.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		var b strings.Builder
		if len(result.Diagnostics) == 0 {
			fmt.Fprintf(&b, "%s: clean (%d byte artifact)", out.File, out.ArtifactSize)
		} else {
			fmt.Fprintf(&b, "%s: %d diagnostic(s)", out.File, len(result.Diagnostics))
			for _, diag := range result.Diagnostics {
				fmt.Fprintf(&b, "\n%s", diag)
			}
		}
		if err := formatter.Success(b.String()); err != nil {
			return err
		}
	}

	if len(result.Diagnostics) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d diagnostic(s)", len(result.Diagnostics)))
	}
	return nil
}
