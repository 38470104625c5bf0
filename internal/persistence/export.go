// File: internal/persistence/export.go
// Project: UNIVERSE
// Description: Exported wrappers around the probe wire codec and blake3
//              digest, for callers outside this package that need
//              byte-identical snapshotting (internal/scenario) without
//              duplicating the protobuf field layout.
package persistence

import "github.com/JoshuaAFerguson/universe/internal/models"

// EncodeProbe serializes a probe to the same wire format used for storage.
func EncodeProbe(p *models.Probe) []byte {
	return encodeProbe(p)
}

// DecodeProbe deserializes a probe from EncodeProbe's wire format.
func DecodeProbe(data []byte) (*models.Probe, error) {
	return decodeProbe(data)
}

// Digest returns the blake3 content hash used to verify byte-identity
// between two encoded blobs.
func Digest(data []byte) [32]byte {
	return digest(data)
}
