// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package container

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	h := FileHeader{ChunkSize: 1 << 20, HeaderSize: fileHeaderSize, Version: formatVersion, CompressionLevel: 6}
	b := h.marshal()
	got, err := unmarshalFileHeader(b[:])
	assert.NilError(t, err)
	assert.DeepEqual(t, got, h)
}

func TestUnmarshalFileHeaderRejectsBadMagic(t *testing.T) {
	h := FileHeader{ChunkSize: 1 << 20, HeaderSize: fileHeaderSize, Version: formatVersion}
	b := h.marshal()
	b[0] = 'Z'
	_, err := unmarshalFileHeader(b[:])
	assert.ErrorIs(t, err, ErrNotXPACK)
}

func TestUnmarshalFileHeaderRejectsBadVersion(t *testing.T) {
	h := FileHeader{ChunkSize: 1 << 20, HeaderSize: fileHeaderSize, Version: 2}
	b := h.marshal()
	_, err := unmarshalFileHeader(b[:])
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestUnmarshalFileHeaderRejectsChunkSizeOutOfRange(t *testing.T) {
	h := FileHeader{ChunkSize: 16, HeaderSize: fileHeaderSize, Version: formatVersion}
	b := h.marshal()
	_, err := unmarshalFileHeader(b[:])
	assert.ErrorIs(t, err, ErrCorruptChunkHeader)
}

func TestChunkHeaderRoundTrip(t *testing.T) {
	h := ChunkHeader{StoredSize: 100, OriginalSize: 200, Checksum: 0xdeadbeef}
	b := h.marshal()
	got, err := unmarshalChunkHeader(b[:], 4096)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, h)
}

func TestUnmarshalChunkHeaderRejectsInvalidSizes(t *testing.T) {
	cases := []ChunkHeader{
		{StoredSize: 0, OriginalSize: 10},
		{StoredSize: 20, OriginalSize: 10},
		{StoredSize: 10, OriginalSize: 5000},
	}
	for _, h := range cases {
		b := h.marshal()
		_, err := unmarshalChunkHeader(b[:], 4096)
		assert.ErrorIs(t, err, ErrCorruptChunkHeader)
	}
}
