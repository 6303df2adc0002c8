package store

// BatchRecord is one archived compile batch.
type BatchRecord struct {
	ID            string
	CreatedAt     string // set by the database on write
	OutputKind    string
	TagNamePrefix string
	ImportIndex   []byte
	Files         []FileRecord
}

// FileRecord is one source file's row within a batch.
type FileRecord struct {
	Name         string
	Artifact     []byte
	ArtifactHash string
	Diagnostics  []string
}

// BatchSummary is the listing row for an archived batch.
type BatchSummary struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"created_at"`
	OutputKind string `json:"output_kind"`
	FileCount  int    `json:"file_count"`
}
