package pipeline

// OutputKindBincode is the only recognized output kind. Any other value
// makes compilation a defined no-op (empty result, no error).
const OutputKindBincode = "bincode"

// BatchRequest describes one batch compilation. Sources maps file name
// to raw bytes; the key set is the authoritative file-identity space for
// the whole call.
type BatchRequest struct {
	OutputKind    string
	TagNamePrefix string
	Sources       map[string][]byte
}

// SingleRequest describes a single-file compilation: a batch of size one,
// minus the import index.
type SingleRequest struct {
	FileName   string
	Content    []byte
	OutputKind string
	Prefix     string
}

// FileResult is the outcome for one source file. An empty Artifact is a
// valid non-error state: the engine produced nothing for this file.
// Diagnostics preserve engine order and are never reordered or dropped.
type FileResult struct {
	Artifact    []byte
	Diagnostics []string
}

// BatchResult is the outcome of one batch compilation. Files has exactly
// the same key set as the request's Sources for every completed call.
type BatchResult struct {
	ImportIndex []byte
	Files       map[string]FileResult
}
