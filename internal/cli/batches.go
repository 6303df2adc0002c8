package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msojocs/pigment/internal/store"
)

// BatchesOptions holds flags for the batches command.
type BatchesOptions struct {
	*RootOptions
	DBPath string
}

// batchesOutput is the JSON payload for batches.
type batchesOutput struct {
	Batches []store.BatchSummary `json:"batches"`
}

// NewBatchesCommand creates the batches command.
func NewBatchesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "batches",
		Short:         "List batches archived in a sqlite database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatches(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "sqlite archive to read (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runBatches(opts *BatchesOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		formatter.Error(ErrCodeArchive, fmt.Sprintf("opening archive: %v", err), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer s.Close()

	batches, err := s.ListBatches(context.Background())
	if err != nil {
		formatter.Error(ErrCodeArchive, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(batchesOutput{Batches: batches})
	}

	if len(batches) == 0 {
		return formatter.Success("No archived batches")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d batch(es)", len(batches))
	for _, batch := range batches {
		fmt.Fprintf(&b, "\n%s  %s  %s  %d file(s)", batch.ID, batch.CreatedAt, batch.OutputKind, batch.FileCount)
	}
	return formatter.Success(b.String())
}
