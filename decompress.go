// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import "errors"

// Decompressor carries no state between calls: the ROQ shared across the
// blocks of one Decompress call lives only for that call. It is not safe
// for concurrent use; create one per goroutine, or serialize access.
type Decompressor struct{}

// NewDecompressor returns a Decompressor. Unlike Compressor it carries no
// per-size scratch state: a block's symbol streams are bounded by the block
// caps in parser.go regardless of the overall stream length.
func NewDecompressor() *Decompressor {
	return &Decompressor{}
}

// Decompress reads a full compressed stream from src and writes its decoded
// form to dst, returning the number of bytes written. len(dst) must equal
// the original uncompressed length (a longer dst is reported as
// ErrShortInput, since the stream ends before dst is full); XPACK carries no internal
// length prefix, so callers (or a container format) are expected to know it
// ahead of time. Returns ErrShortOutput if dst is too small, ErrUnsupportedFeature
// if src was compressed with the x86 preprocessor on a build that lacks it,
// or an error wrapping ErrCorrupt/ErrShortInput if src is malformed or
// truncated.
//
// A violated internal invariant (a debugAssert failure) is recovered here
// and returned as an error wrapping errInternal rather than propagating as
// a panic; any other panic is not this package's to handle and continues
// unwinding.
func (d *Decompressor) Decompress(dst, src []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr && errors.Is(e, errInternal) {
				n, err = 0, e
				return
			}
			panic(r)
		}
	}()

	r := newBitReader(src)
	flags, err := r.GetRawByte()
	if err != nil {
		return 0, err
	}
	useX86Filter := flags&streamFlagX86Filter != 0
	if useX86Filter && !x86FilterBuilt {
		return 0, ErrUnsupportedFeature
	}

	roq := initialROQ
	outPos := 0
	for !r.exhausted() {
		n, err := decodeBlock(r, dst, outPos, &roq)
		if err != nil {
			return 0, err
		}
		outPos = n
	}

	if outPos != len(dst) {
		return 0, shortInputAt(outPos)
	}

	if useX86Filter {
		x86FilterDecode(dst[:outPos])
	}
	return outPos, nil
}

// DecompressExact allocates a buffer of exactly outLen bytes, decompresses
// src into it, and returns the result.
func DecompressExact(src []byte, outLen int) ([]byte, error) {
	d := NewDecompressor()
	dst := make([]byte, outLen)
	n, err := d.Decompress(dst, src)
	if err != nil {
		return nil, err
	}
	if n != outLen {
		return nil, shortOutputAt(n)
	}
	return dst, nil
}
