package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested batch or file does not exist.
var ErrNotFound = errors.New("not found")

// ReadBatch returns one archived batch with all of its file rows.
// File rows come back ordered by name so reads are deterministic.
func (s *Store) ReadBatch(ctx context.Context, id string) (*BatchRecord, error) {
	rec := &BatchRecord{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT created_at, output_kind, tag_name_prefix, import_index
		FROM batches
		WHERE id = ?
	`, id).Scan(&rec.CreatedAt, &rec.OutputKind, &rec.TagNamePrefix, &rec.ImportIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read batch %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, artifact, artifact_hash, diagnostics
		FROM batch_files
		WHERE batch_id = ?
		ORDER BY name COLLATE BINARY ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read batch %s files: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			file      FileRecord
			diagsJSON string
		)
		if err := rows.Scan(&file.Name, &file.Artifact, &file.ArtifactHash, &diagsJSON); err != nil {
			return nil, fmt.Errorf("scan batch file: %w", err)
		}
		if file.Diagnostics, err = unmarshalDiagnostics(diagsJSON); err != nil {
			return nil, fmt.Errorf("batch file %s: %w", file.Name, err)
		}
		rec.Files = append(rec.Files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch files: %w", err)
	}
	return rec, nil
}

// ReadFile returns a single file row from an archived batch.
func (s *Store) ReadFile(ctx context.Context, batchID, name string) (*FileRecord, error) {
	var (
		file      = FileRecord{Name: name}
		diagsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT artifact, artifact_hash, diagnostics
		FROM batch_files
		WHERE batch_id = ? AND name = ?
	`, batchID, name).Scan(&file.Artifact, &file.ArtifactHash, &diagsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s file %s: %w", batchID, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read batch %s file %s: %w", batchID, name, err)
	}
	if file.Diagnostics, err = unmarshalDiagnostics(diagsJSON); err != nil {
		return nil, fmt.Errorf("batch file %s: %w", name, err)
	}
	return &file, nil
}

// ListBatches returns summaries of every archived batch, newest first,
// with the batch ID as a tiebreaker for identical timestamps.
func (s *Store) ListBatches(ctx context.Context) ([]BatchSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.created_at, b.output_kind, COUNT(f.name)
		FROM batches b
		LEFT JOIN batch_files f ON f.batch_id = b.id
		GROUP BY b.id
		ORDER BY b.created_at DESC, b.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	batches := []BatchSummary{}
	for rows.Next() {
		var b BatchSummary
		if err := rows.Scan(&b.ID, &b.CreatedAt, &b.OutputKind, &b.FileCount); err != nil {
			return nil, fmt.Errorf("scan batch summary: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}
