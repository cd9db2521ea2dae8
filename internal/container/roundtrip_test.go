// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package container

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/cespare/xxhash/v2"
	"gotest.tools/v3/assert"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":      {},
		"small":      []byte("hello, xpack"),
		"repeated":   bytes.Repeat([]byte("ab"), 5000),
		"incompress": randomBytes(20000, 1),
	}

	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, 6, minChunkSize, nil)
			assert.NilError(t, err)
			_, err = w.Write(data)
			assert.NilError(t, err)
			assert.NilError(t, w.Close())

			r, err := NewReader(&buf)
			assert.NilError(t, err)
			got, err := io.ReadAll(r)
			assert.NilError(t, err)
			assert.DeepEqual(t, got, data)
		})
	}
}

func TestReaderDetectsChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 6, minChunkSize, nil)
	assert.NilError(t, err)
	// Incompressible data, so the chunk is stored raw and only its checksum
	// can reveal a damaged body byte.
	_, err = w.Write(randomBytes(minChunkSize, 7))
	assert.NilError(t, err)
	assert.NilError(t, w.Close())

	raw := buf.Bytes()
	// Flip a byte inside the first chunk's body, after the file and chunk headers.
	raw[fileHeaderSize+chunkHeaderSize+2] ^= 0xFF

	r, err := NewReader(bytes.NewReader(raw))
	assert.NilError(t, err)
	_, err = io.ReadAll(r)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestReaderRejectsNonXPACKInput(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("not an xpack file")))
	assert.ErrorIs(t, err, ErrNotXPACK)
}

func TestWriterFallsBackToRawStorageForIncompressibleChunk(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 6, minChunkSize, nil)
	assert.NilError(t, err)
	data := randomBytes(minChunkSize, 42)
	_, err = w.Write(data)
	assert.NilError(t, err)
	assert.NilError(t, w.Close())

	hdr, err := unmarshalChunkHeader(buf.Bytes()[fileHeaderSize:fileHeaderSize+chunkHeaderSize], minChunkSize)
	assert.NilError(t, err)
	assert.Equal(t, hdr.StoredSize, hdr.OriginalSize)
	assert.Equal(t, hdr.Checksum, xxhash.Sum64(data))
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}
