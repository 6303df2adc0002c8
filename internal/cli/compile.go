package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/msojocs/pigment/internal/bincode"
	"github.com/msojocs/pigment/internal/pipeline"
	"github.com/msojocs/pigment/internal/pool"
	"github.com/msojocs/pigment/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output     string // output directory for artifacts
	OutputKind string
	Prefix     string
	DBPath     string // optional sqlite archive
	Async      bool   // drive the batch through the worker pool
	Workers    int
}

// compileFileOutput is the per-file portion of the JSON payload.
type compileFileOutput struct {
	Name         string   `json:"name"`
	ArtifactSize int      `json:"artifact_size"`
	ArtifactHash string   `json:"artifact_hash,omitempty"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
}

// compileOutput is the JSON payload for a successful compile.
type compileOutput struct {
	BatchID     string              `json:"batch_id,omitempty"`
	FileCount   int                 `json:"file_count"`
	Artifacts   int                 `json:"artifacts"`
	Diagnostics int                 `json:"diagnostics"`
	IndexSize   int                 `json:"index_size"`
	Files       []compileFileOutput `json:"files"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <dir|manifest.cue>",
		Short: "Compile a batch of CSS sources to binary artifacts",
		Long: `Compile a batch of CSS sources to binary artifacts plus an import index.

The argument is either a directory (every .css file underneath becomes a
source, named by its relative path) or a CUE batch manifest. Compilation
problems in the sources become per-file diagnostics, never a failure.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "directory to write artifacts into")
	cmd.Flags().StringVar(&opts.OutputKind, "output-kind", pipeline.OutputKindBincode, "artifact output kind")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "tag-name prefix bound to every source")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "sqlite archive to record the batch in")
	cmd.Flags().BoolVar(&opts.Async, "async", false, "run the batch on the worker pool")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "worker pool size for --async")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // verbose logs never corrupt JSON output
		Verbose:   opts.Verbose,
	}

	req, err := LoadBatch(path, opts.OutputKind, opts.Prefix)
	if err != nil {
		return outputCommandError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d source(s) from %s", len(req.Sources), path)

	result, err := compileBatch(opts, *req)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if opts.Output != "" {
		if err := writeArtifacts(opts.Output, result); err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		formatter.VerboseLog("Wrote artifacts to %s", opts.Output)
	}

	var batchID string
	if opts.DBPath != "" {
		batchID = uuid.NewString()
		if err := archiveBatch(opts.DBPath, batchID, *req, result); err != nil {
			formatter.Error(ErrCodeArchive, err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		formatter.VerboseLog("Archived batch %s in %s", batchID, opts.DBPath)
	}

	return outputCompileSuccess(formatter, batchID, result)
}

// compileBatch runs the pipeline in the requested execution mode. Both
// modes produce identical results; --async exists for callers that embed
// the CLI in build drivers and want the pool's scheduling.
func compileBatch(opts *CompileOptions, req pipeline.BatchRequest) (*pipeline.BatchResult, error) {
	if !opts.Async {
		return pipeline.Compile(context.Background(), req)
	}
	p := pool.New(opts.Workers)
	defer p.Close()
	return pipeline.CompileAsync(p, req).Wait(context.Background())
}

// writeArtifacts writes one .bin file per artifact plus import_index.bin.
// Files with no artifact are skipped; their absence is visible in the
// command output, not on disk.
func writeArtifacts(dir string, result *pipeline.BatchResult) error {
	for name, file := range result.Files {
		if len(file.Artifact) == 0 {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(name)+".bin")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, file.Artifact, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}
	if len(result.ImportIndex) > 0 {
		target := filepath.Join(dir, "import_index.bin")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		if err := os.WriteFile(target, result.ImportIndex, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}
	return nil
}

func archiveBatch(dbPath, batchID string, req pipeline.BatchRequest, result *pipeline.BatchResult) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer s.Close()

	rec := store.BatchRecord{
		ID:            batchID,
		OutputKind:    req.OutputKind,
		TagNamePrefix: req.TagNamePrefix,
		ImportIndex:   result.ImportIndex,
	}
	for name, file := range result.Files {
		rec.Files = append(rec.Files, store.FileRecord{
			Name:         name,
			Artifact:     file.Artifact,
			ArtifactHash: bincode.ArtifactHash(file.Artifact),
			Diagnostics:  file.Diagnostics,
		})
	}
	if err := s.WriteBatch(context.Background(), rec); err != nil {
		return fmt.Errorf("archiving batch: %w", err)
	}
	return nil
}

func outputCompileSuccess(formatter *OutputFormatter, batchID string, result *pipeline.BatchResult) error {
	out := compileOutput{
		BatchID:   batchID,
		FileCount: len(result.Files),
		IndexSize: len(result.ImportIndex),
	}
	names := make([]string, 0, len(result.Files))
	for name := range result.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file := result.Files[name]
		entry := compileFileOutput{
			Name:         name,
			ArtifactSize: len(file.Artifact),
			Diagnostics:  file.Diagnostics,
		}
		if len(file.Artifact) > 0 {
			entry.ArtifactHash = bincode.ArtifactHash(file.Artifact)
			out.Artifacts++
		}
		out.Diagnostics += len(file.Diagnostics)
		out.Files = append(out.Files, entry)
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Compiled %d file(s): %d artifact(s), %d diagnostic(s), index %d byte(s)",
		out.FileCount, out.Artifacts, out.Diagnostics, out.IndexSize)
	if batchID != "" {
		fmt.Fprintf(&b, "\nBatch: %s", batchID)
	}
	for _, entry := range out.Files {
		for _, diag := range entry.Diagnostics {
			fmt.Fprintf(&b, "\n%s: %s", entry.Name, diag)
		}
	}
	return formatter.Success(b.String())
}

// outputCommandError renders a load error and converts it to an exit
// code 2 failure.
func outputCommandError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code = loadErr.Code
	}
	formatter.Error(code, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}
