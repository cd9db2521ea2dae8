// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package container

import (
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpack-go/xpack"
)

// Writer chunks data written to it, compresses each chunk with xpack, and
// writes the framed result to an underlying io.Writer.
type Writer struct {
	w         io.Writer
	chunkSize uint32
	level     int
	log       *logrus.Entry

	c   *xpack.Compressor
	buf []byte // accumulates up to chunkSize bytes of pending input
	out []byte // scratch for one chunk's compressed output

	headerWritten bool
	err           error
}

// NewWriter returns a Writer that compresses at level (1..9) with the given
// chunk size, writing the file header to w on the first Write call.
func NewWriter(w io.Writer, level int, chunkSize uint32, log *logrus.Entry) (*Writer, error) {
	if chunkSize < minChunkSize || chunkSize > maxChunkSize {
		return nil, errors.Errorf("container: chunk size %d out of range", chunkSize)
	}
	c, err := xpack.NewCompressor(int(chunkSize), level, xpack.CompressOptions{})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Writer{w: w, chunkSize: chunkSize, level: level, log: log, c: c}, nil
}

func (cw *Writer) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	if err := cw.ensureHeader(); err != nil {
		cw.err = err
		return 0, err
	}

	total := 0
	for len(p) > 0 {
		room := int(cw.chunkSize) - len(cw.buf)
		n := len(p)
		if n > room {
			n = room
		}
		cw.buf = append(cw.buf, p[:n]...)
		p = p[n:]
		total += n
		if len(cw.buf) == int(cw.chunkSize) {
			if err := cw.flushChunk(); err != nil {
				cw.err = err
				return total, err
			}
		}
	}
	return total, nil
}

// Close flushes any partial final chunk. It does not close the underlying
// writer.
func (cw *Writer) Close() error {
	if cw.err != nil {
		return cw.err
	}
	if err := cw.ensureHeader(); err != nil {
		return err
	}
	if len(cw.buf) > 0 {
		return cw.flushChunk()
	}
	return nil
}

func (cw *Writer) ensureHeader() error {
	if cw.headerWritten {
		return nil
	}
	h := FileHeader{
		ChunkSize:        cw.chunkSize,
		HeaderSize:       fileHeaderSize,
		Version:          formatVersion,
		CompressionLevel: uint8(cw.level),
	}
	b := h.marshal()
	if _, err := cw.w.Write(b[:]); err != nil {
		return errors.Wrap(err, "container: writing file header")
	}
	cw.headerWritten = true
	return nil
}

func (cw *Writer) flushChunk() error {
	chunk := cw.buf
	sum := xxhash.Sum64(chunk)

	if cap(cw.out) < len(chunk) {
		cw.out = make([]byte, len(chunk))
	}
	n, ok := cw.c.Compress(cw.out[:len(chunk)], chunk)

	stored := chunk
	storedSize := len(chunk)
	if ok && n < len(chunk) {
		stored = cw.out[:n]
		storedSize = n
	} else {
		cw.log.WithField("chunk_bytes", len(chunk)).Warn("chunk did not compress smaller than its raw form; storing raw")
	}

	hdr := ChunkHeader{StoredSize: uint32(storedSize), OriginalSize: uint32(len(chunk)), Checksum: sum}
	hb := hdr.marshal()
	if _, err := cw.w.Write(hb[:]); err != nil {
		return errors.Wrap(err, "container: writing chunk header")
	}
	if _, err := cw.w.Write(stored); err != nil {
		return errors.Wrap(err, "container: writing chunk body")
	}

	cw.buf = cw.buf[:0]
	return nil
}
