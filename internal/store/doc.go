// Package store provides SQLite-backed archival of compile batches.
//
// Each archived batch records the request parameters (output kind,
// tag-name prefix), the serialized import index, and one row per source
// file carrying its artifact, the artifact's content hash, and its
// diagnostics as a JSON array. Batches are identified by a caller-supplied
// ID (a uuid in the CLI).
//
// Writes are idempotent: re-archiving a batch under the same ID is a
// silent no-op via ON CONFLICT DO NOTHING, so a retried CLI run never
// duplicates rows.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: batch_files rows require their batch
//
// Artifact hashes are computed in internal/bincode using SHA-256 with
// domain separation.
package store
