package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msojocs/pigment/internal/bincode"
	"github.com/msojocs/pigment/internal/pipeline"
	"github.com/msojocs/pigment/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// recordFromResult builds the archive record the CLI writes.
func recordFromResult(t *testing.T, id string, req pipeline.BatchRequest, result *pipeline.BatchResult) BatchRecord {
	t.Helper()
	rec := BatchRecord{
		ID:            id,
		OutputKind:    req.OutputKind,
		TagNamePrefix: req.TagNamePrefix,
		ImportIndex:   result.ImportIndex,
	}
	for name, file := range result.Files {
		rec.Files = append(rec.Files, FileRecord{
			Name:         name,
			Artifact:     file.Artifact,
			ArtifactHash: bincode.ArtifactHash(file.Artifact),
			Diagnostics:  file.Diagnostics,
		})
	}
	return rec
}

func TestWriteReadBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sources := testutil.BasicSources()
	sources["bad.css"] = testutil.MalformedSource()
	req := pipeline.BatchRequest{
		OutputKind: pipeline.OutputKindBincode,
		Sources:    sources,
	}
	result, err := pipeline.Compile(ctx, req)
	require.NoError(t, err)

	id := uuid.NewString()
	require.NoError(t, s.WriteBatch(ctx, recordFromResult(t, id, req, result)))

	rec, err := s.ReadBatch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OutputKindBincode, rec.OutputKind)
	assert.Equal(t, result.ImportIndex, rec.ImportIndex)
	assert.NotEmpty(t, rec.CreatedAt)
	require.Len(t, rec.Files, 3)

	// Rows come back name-ordered.
	assert.Equal(t, "a.css", rec.Files[0].Name)
	assert.Equal(t, "b.css", rec.Files[1].Name)
	assert.Equal(t, "bad.css", rec.Files[2].Name)

	// Artifacts and diagnostics survive the round trip.
	assert.Equal(t, result.Files["a.css"].Artifact, rec.Files[0].Artifact)
	assert.Equal(t, result.Files["bad.css"].Diagnostics, rec.Files[2].Diagnostics)
}

func TestWriteBatchIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := BatchRecord{
		ID:         uuid.NewString(),
		OutputKind: "bincode",
		Files: []FileRecord{
			{Name: "a.css", Artifact: []byte{1, 2, 3}, ArtifactHash: "h1"},
		},
	}
	require.NoError(t, s.WriteBatch(ctx, rec))

	// Second write with different content under the same ID is ignored.
	rec.Files[0].Artifact = []byte{9, 9, 9}
	require.NoError(t, s.WriteBatch(ctx, rec))

	got, err := s.ReadBatch(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, got.Files, 1)
	assert.Equal(t, []byte{1, 2, 3}, got.Files[0].Artifact)
}

func TestReadFile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	require.NoError(t, s.WriteBatch(ctx, BatchRecord{
		ID:         id,
		OutputKind: "bincode",
		Files: []FileRecord{
			{Name: "a.css", Artifact: []byte{7}, ArtifactHash: "h", Diagnostics: []string{"[W104] line 1: x"}},
		},
	}))

	file, err := s.ReadFile(ctx, id, "a.css")
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, file.Artifact)
	assert.Equal(t, []string{"[W104] line 1: x"}, file.Diagnostics)

	_, err = s.ReadFile(ctx, id, "missing.css")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadBatchNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadBatch(context.Background(), "no-such-batch")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBatches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := uuid.NewString()
	second := uuid.NewString()
	require.NoError(t, s.WriteBatch(ctx, BatchRecord{ID: first, OutputKind: "bincode"}))
	require.NoError(t, s.WriteBatch(ctx, BatchRecord{
		ID:         second,
		OutputKind: "bincode",
		Files:      []FileRecord{{Name: "a.css", Artifact: []byte{1}, ArtifactHash: "h"}},
	}))

	batches, err := s.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	byID := map[string]BatchSummary{}
	for _, b := range batches {
		byID[b.ID] = b
	}
	assert.Equal(t, 0, byID[first].FileCount)
	assert.Equal(t, 1, byID[second].FileCount)
}

func TestEmptyArtifactRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	require.NoError(t, s.WriteBatch(ctx, BatchRecord{
		ID:         id,
		OutputKind: "bincode",
		Files:      []FileRecord{{Name: "empty.css", ArtifactHash: "h"}},
	}))

	file, err := s.ReadFile(ctx, id, "empty.css")
	require.NoError(t, err)
	assert.Empty(t, file.Artifact)
	assert.Nil(t, file.Diagnostics)
}
