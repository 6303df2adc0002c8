package bincode

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash domains for content-addressed identity. The version suffix allows
// the hash construction to change without colliding with old hashes.
const (
	DomainArtifact = "pigment/artifact/v1"
	DomainIndex    = "pigment/import-index/v1"
)

// ArtifactHash computes the content address of an encoded artifact.
func ArtifactHash(data []byte) string {
	return hashWithDomain(DomainArtifact, data)
}

// IndexHash computes the content address of an encoded import index.
func IndexHash(data []byte) string {
	return hashWithDomain(DomainIndex, data)
}

// hashWithDomain computes SHA256(domain + 0x00 + data). The null byte
// separator removes any domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
