// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import "errors"

// streamFlagX86Filter marks, in the one-byte stream header Compress writes
// ahead of the block sequence, that the x86 CALL/JMP preprocessor was
// applied before compression and must be reversed after decompression.
const streamFlagX86Filter = 1 << 0

// Compressor holds the match-finder scratch tables and CompressOptions for
// repeated Compress calls. It is not safe for concurrent use; create one
// per goroutine, or serialize access.
type Compressor struct {
	level int
	opts  CompressOptions
	mf    *matchFinder
}

// NewCompressor returns a Compressor that can compress inputs up to
// maxBufferSize bytes at the given level (1..9), with opts applied. All of
// Compress's large allocations (the match finder's hash-chain tables) happen
// here, sized to maxBufferSize, and are reused by every subsequent Compress
// call on this Compressor. NewCompressor returns ErrInvalidLevel for a level
// outside 1..9, or ErrUnsupportedFeature when opts requests a build-time
// feature this binary lacks.
func NewCompressor(maxBufferSize, level int, opts CompressOptions) (*Compressor, error) {
	if level < 1 || level > 9 {
		return nil, ErrInvalidLevel
	}
	if opts.X86Filter && !x86FilterBuilt {
		return nil, ErrUnsupportedFeature
	}
	params := levelFor(level)
	return &Compressor{level: level, opts: opts, mf: newMatchFinder(maxBufferSize, params)}, nil
}

// Compress writes the compressed form of src to dst and reports the number
// of bytes written. ok is false when dst is too small to hold the output;
// dst's contents are unspecified in that case (the writer may have grown
// past dst's backing array partway through), and the caller should store
// src uncompressed or retry with a larger dst (CompressAppend does this
// automatically). src must not be longer than the maxBufferSize given to
// NewCompressor.
//
// A violated internal invariant (a debugAssert failure) is recovered here
// and reported as ok == false rather than propagating as a panic; any other
// panic is not this package's to handle and continues unwinding.
func (c *Compressor) Compress(dst, src []byte) (n int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr && errors.Is(e, errInternal) {
				n, ok = 0, false
				return
			}
			panic(r)
		}
	}()

	if c.opts.X86Filter {
		filtered := make([]byte, len(src))
		copy(filtered, src)
		x86FilterEncode(filtered)
		src = filtered
	}

	params := levelFor(c.level)
	c.mf.reset(src)
	roq := initialROQ

	w := newBitWriter(dst[:0])
	var flags byte
	if c.opts.X86Filter {
		flags |= streamFlagX86Filter
	}
	w.PutRawByte(flags)

	pos := 0
	for pos < len(src) {
		pr, newPos := parseBlock(c.mf, &roq, params, pos)
		plan := buildBlockPlan(src[pos:newPos], pr)
		encodeBlock(w, plan)
		if len(w.Bytes()) > len(dst) {
			return 0, false
		}
		pos = newPos
	}

	out := w.Flush()
	if len(out) > len(dst) {
		return 0, false
	}
	return len(out), true
}

// CompressAppend compresses src at level (1..9) and appends the result to
// dst, growing its buffer as needed, returning the extended slice. It never
// fails on account of capacity; it returns an error only if level is out of
// range.
func CompressAppend(dst, src []byte, level int) ([]byte, error) {
	c, err := NewCompressor(len(src), level, CompressOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(src)+len(src)/4+64)
	for {
		n, ok := c.Compress(out, src)
		if ok {
			return append(dst, out[:n]...), nil
		}
		out = make([]byte, len(out)*2)
	}
}
