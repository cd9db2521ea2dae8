// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package container

import (
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/xpack-go/xpack"
)

// Reader reads an XPACK container from an underlying io.Reader, decompressing
// and checksum-verifying each chunk as it is consumed.
type Reader struct {
	r      io.Reader
	Header FileHeader

	d   *xpack.Decompressor
	raw []byte // scratch for one chunk's stored (possibly compressed) bytes

	pending []byte // decoded bytes not yet returned to the caller
	err     error
}

// NewReader reads and validates the file header from r, returning a Reader
// positioned at the first chunk.
func NewReader(r io.Reader) (*Reader, error) {
	var hb [fileHeaderSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrNotXPACK
		}
		return nil, errors.Wrap(err, "container: reading file header")
	}
	h, err := unmarshalFileHeader(hb[:])
	if err != nil {
		return nil, err
	}
	if h.HeaderSize > fileHeaderSize {
		if _, err := io.CopyN(io.Discard, r, int64(h.HeaderSize-fileHeaderSize)); err != nil {
			return nil, errors.Wrap(err, "container: skipping extended file header")
		}
	}
	return &Reader{r: r, Header: h, d: xpack.NewDecompressor()}, nil
}

// Read implements io.Reader over the decompressed, checksum-verified chunk
// stream.
func (cr *Reader) Read(p []byte) (int, error) {
	if cr.err != nil {
		return 0, cr.err
	}
	for len(cr.pending) == 0 {
		if err := cr.readChunk(); err != nil {
			cr.err = err
			return 0, err
		}
	}
	n := copy(p, cr.pending)
	cr.pending = cr.pending[n:]
	return n, nil
}

func (cr *Reader) readChunk() error {
	var hb [chunkHeaderSize]byte
	_, err := io.ReadFull(cr.r, hb[:])
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return errors.Wrap(err, "container: reading chunk header")
	}
	hdr, err := unmarshalChunkHeader(hb[:], cr.Header.ChunkSize)
	if err != nil {
		return err
	}

	if cap(cr.raw) < int(hdr.StoredSize) {
		cr.raw = make([]byte, hdr.StoredSize)
	}
	stored := cr.raw[:hdr.StoredSize]
	if _, err := io.ReadFull(cr.r, stored); err != nil {
		return errors.Wrap(err, "container: reading chunk body")
	}

	var decoded []byte
	if hdr.StoredSize == hdr.OriginalSize {
		decoded = stored
	} else {
		decoded = make([]byte, hdr.OriginalSize)
		n, err := cr.d.Decompress(decoded, stored)
		if err != nil {
			return errors.Wrap(err, "container: decompressing chunk")
		}
		if uint32(n) != hdr.OriginalSize {
			return errors.Wrap(ErrCorruptChunkHeader, "decompressed size mismatch")
		}
	}

	if xxhash.Sum64(decoded) != hdr.Checksum {
		return ErrChecksumMismatch
	}
	cr.pending = decoded
	return nil
}
