// File: internal/persistence/store.go
// Project: UNIVERSE
// Description: The write-through persistence contract shared by the SQLite
//              and Postgres backends, plus the shared blob packing
//              (versioned protobuf, LZ4 compression, blake3 round-trip
//              digest) both backends call into.
package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JoshuaAFerguson/universe/internal/logger"
	"github.com/JoshuaAFerguson/universe/internal/models"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

var log = logger.WithComponent("Persistence")

// ErrNotFound is returned by LoadProbe (and, for backends that track it,
// LoadSector) when the requested row does not exist.
var ErrNotFound = errors.New("persistence: not found")

// Meta is the small universe-level metadata row.
type Meta struct {
	Seed              int64
	Tick              int64
	GenerationVersion int
}

// Store is the opaque, write-through persistence contract the engine
// depends on. Both concrete backends round-trip byte-identical state.
type Store interface {
	SaveMeta(ctx context.Context, m Meta) error
	LoadMeta(ctx context.Context) (Meta, bool, error)

	// SaveSector atomically persists every system generated for one
	// sector, tagged with the tick it was generated at.
	SaveSector(ctx context.Context, coord models.Sector, generatedTick int64, systems []models.System) error
	// SectorExists reports the stored system count for coord, or ok=false
	// if the sector has never been generated.
	SectorExists(ctx context.Context, coord models.Sector) (count int, ok bool, err error)
	LoadSector(ctx context.Context, coord models.Sector) ([]models.System, error)

	SaveProbe(ctx context.Context, p *models.Probe) error
	LoadProbe(ctx context.Context, id models.UID) (*models.Probe, error)

	Close() error
}

// generationVersion is bumped whenever the wire-format field layout in
// codec_probe.go / codec_system.go changes incompatibly.
const generationVersion = 1

// packBlob compresses a protobuf-encoded message with LZ4 and prefixes it
// with the format version, so the blob is self-describing on disk.
func packBlob(encoded []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(encoded); err != nil {
		return nil, fmt.Errorf("persistence: lz4 compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("persistence: lz4 close: %w", err)
	}

	out := make([]byte, 0, buf.Len()+1)
	out = append(out, byte(generationVersion))
	out = append(out, buf.Bytes()...)
	return out, nil
}

// unpackBlob reverses packBlob, returning the decompressed protobuf bytes.
func unpackBlob(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return nil, fmt.Errorf("persistence: empty blob")
	}
	version := int(stored[0])
	if version != generationVersion {
		return nil, fmt.Errorf("persistence: blob generation_version %d unsupported (want %d)", version, generationVersion)
	}

	zr := lz4.NewReader(bytes.NewReader(stored[1:]))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, fmt.Errorf("persistence: lz4 decompress: %w", err)
	}
	return buf.Bytes(), nil
}

// digest returns the blake3 content hash used to verify round-trip
// byte-identity in tests, following Vitadek-OwnWorld's hashBLAKE3 pattern.
func digest(data []byte) [32]byte {
	return blake3.Sum256(data)
}
