package store

import (
	"context"
	"fmt"
)

// WriteBatch archives a batch and all of its file rows in one
// transaction. Uses ON CONFLICT DO NOTHING for idempotency: archiving
// the same batch ID twice is a silent no-op, and a crash mid-write
// leaves no partial batch behind.
func (s *Store) WriteBatch(ctx context.Context, rec BatchRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write batch: begin: %w", err)
	}
	defer tx.Rollback()

	// Nil slices would bind as NULL; the schema wants empty blobs.
	index := rec.ImportIndex
	if index == nil {
		index = []byte{}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO batches (id, output_kind, tag_name_prefix, import_index)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.OutputKind,
		rec.TagNamePrefix,
		index,
	)
	if err != nil {
		return fmt.Errorf("write batch: %w", err)
	}

	// If the batch row already existed, the file rows do too.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	for _, file := range rec.Files {
		diagsJSON, err := marshalDiagnostics(file.Diagnostics)
		if err != nil {
			return fmt.Errorf("write batch file %s: %w", file.Name, err)
		}
		artifact := file.Artifact
		if artifact == nil {
			artifact = []byte{}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO batch_files (batch_id, name, artifact, artifact_hash, diagnostics)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(batch_id, name) DO NOTHING
		`,
			rec.ID,
			file.Name,
			artifact,
			file.ArtifactHash,
			diagsJSON,
		)
		if err != nil {
			return fmt.Errorf("write batch file %s: %w", file.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write batch: commit: %w", err)
	}
	return nil
}
