// Package bincode implements the deterministic binary encoding for
// compiled stylesheet artifacts and the cross-file import index.
//
// The encoding is little-endian with length-prefixed strings. All strings
// are NFC normalized before encoding so that visually identical sources
// produce byte-identical artifacts. The import index sorts file names
// before encoding; per-file import lists keep their source order.
//
// Artifacts are content-addressable: ArtifactHash computes a
// domain-separated SHA-256 over the encoded bytes.
package bincode
