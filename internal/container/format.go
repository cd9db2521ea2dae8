// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

// Package container implements the XPACK file/chunk framing that wraps the
// codec for whole-file use: a small file header followed by a sequence of
// independently checksummed, independently decompressible chunks.
package container

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Magic identifies an XPACK container file.
var Magic = [8]byte{'X', 'P', 'A', 'C', 'K', 0, 0, 0}

const (
	fileHeaderSize  = 16
	chunkHeaderSize = 16

	minChunkSize = 1024
	maxChunkSize = 64 << 20

	formatVersion = 1
)

var (
	// ErrNotXPACK is returned when a file's magic bytes don't match.
	ErrNotXPACK = errors.New("container: not an xpack file")
	// ErrUnsupportedVersion is returned for a file header whose version this
	// package doesn't know how to read.
	ErrUnsupportedVersion = errors.New("container: unsupported format version")
	// ErrCorruptChunkHeader is returned when a chunk header's fields violate
	// the format's size invariants.
	ErrCorruptChunkHeader = errors.New("container: corrupt chunk header")
	// ErrChecksumMismatch is returned when a chunk's decompressed content
	// doesn't hash to the checksum recorded in its header.
	ErrChecksumMismatch = errors.New("container: chunk checksum mismatch")
)

// FileHeader is the 16-byte header at the start of every XPACK container.
type FileHeader struct {
	ChunkSize        uint32
	HeaderSize       uint16
	Version          uint8
	CompressionLevel uint8
}

func (h FileHeader) marshal() [fileHeaderSize]byte {
	var b [fileHeaderSize]byte
	copy(b[0:8], Magic[:])
	binary.LittleEndian.PutUint32(b[8:12], h.ChunkSize)
	binary.LittleEndian.PutUint16(b[12:14], h.HeaderSize)
	b[14] = h.Version
	b[15] = h.CompressionLevel
	return b
}

func unmarshalFileHeader(b []byte) (FileHeader, error) {
	if len(b) < fileHeaderSize {
		return FileHeader{}, errors.Wrap(ErrNotXPACK, "short header")
	}
	if string(b[0:8]) != string(Magic[:]) {
		return FileHeader{}, ErrNotXPACK
	}
	h := FileHeader{
		ChunkSize:        binary.LittleEndian.Uint32(b[8:12]),
		HeaderSize:       binary.LittleEndian.Uint16(b[12:14]),
		Version:          b[14],
		CompressionLevel: b[15],
	}
	if h.Version != formatVersion {
		return FileHeader{}, ErrUnsupportedVersion
	}
	if h.ChunkSize < minChunkSize || h.ChunkSize > maxChunkSize {
		return FileHeader{}, errors.Wrap(ErrCorruptChunkHeader, "chunk_size out of range")
	}
	return h, nil
}

// ChunkHeader precedes every chunk's stored bytes.
type ChunkHeader struct {
	StoredSize   uint32
	OriginalSize uint32
	Checksum     uint64
}

func (h ChunkHeader) marshal() [chunkHeaderSize]byte {
	var b [chunkHeaderSize]byte
	binary.LittleEndian.PutUint32(b[0:4], h.StoredSize)
	binary.LittleEndian.PutUint32(b[4:8], h.OriginalSize)
	binary.LittleEndian.PutUint64(b[8:16], h.Checksum)
	return b
}

func unmarshalChunkHeader(b []byte, chunkSize uint32) (ChunkHeader, error) {
	if len(b) < chunkHeaderSize {
		return ChunkHeader{}, errors.Wrap(ErrCorruptChunkHeader, "short chunk header")
	}
	h := ChunkHeader{
		StoredSize:   binary.LittleEndian.Uint32(b[0:4]),
		OriginalSize: binary.LittleEndian.Uint32(b[4:8]),
		Checksum:     binary.LittleEndian.Uint64(b[8:16]),
	}
	if h.StoredSize < 1 || h.StoredSize > h.OriginalSize || h.OriginalSize > chunkSize {
		return ChunkHeader{}, errors.Wrapf(ErrCorruptChunkHeader,
			"stored=%d original=%d chunk_size=%d", h.StoredSize, h.OriginalSize, chunkSize)
	}
	return h, nil
}
