// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

// bitReader reads LSB-first bits from a byte slice, refilling its
// accumulator in bulk so a single refill services several small reads
// rather than touching the source byte-by-byte. cpufeature.go's BMI2 flag
// selects a faster extraction path for Peek/Get without changing any
// decoded value.
type bitReader struct {
	src   []byte
	pos   int // next unread byte in src
	accum uint64
	nbits uint // number of valid low bits in accum
}

func newBitReader(src []byte) *bitReader {
	return &bitReader{src: src}
}

// refill tops up the accumulator from src until it holds more than 56 bits
// or the input is exhausted.
func (r *bitReader) refill() {
	for r.nbits <= 56 && r.pos < len(r.src) {
		r.accum |= uint64(r.src[r.pos]) << r.nbits
		r.pos++
		r.nbits += 8
	}
}

// Peek returns the next nbits bits without consuming them. ok is false if
// fewer than nbits bits remain in the stream.
func (r *bitReader) Peek(nbits uint) (value uint32, ok bool) {
	if nbits == 0 {
		return 0, true
	}
	if r.nbits < nbits {
		r.refill()
	}
	if r.nbits < nbits {
		return 0, false
	}
	if bmi2Available {
		return bzhi32(uint32(r.accum), nbits), true
	}
	mask := uint64(1)<<nbits - 1
	return uint32(r.accum & mask), true
}

// Consume discards nbits bits previously inspected via Peek.
func (r *bitReader) Consume(nbits uint) {
	debugAssert(nbits <= r.nbits, "bitReader.Consume: fewer bits buffered than requested")
	r.accum >>= nbits
	r.nbits -= nbits
}

// Get reads and consumes nbits bits, LSB first. It returns a shortInputAt
// error positioned at the reader's current byte offset when the stream runs
// out early.
func (r *bitReader) Get(nbits uint) (uint32, error) {
	v, ok := r.Peek(nbits)
	if !ok {
		return 0, shortInputAt(r.pos)
	}
	r.Consume(nbits)
	return v, nil
}

// AlignByte discards any bits remaining in the current byte.
func (r *bitReader) AlignByte() {
	drop := r.nbits % 8
	r.Consume(drop)
}

// GetRawByte reads one raw byte, bypassing the bit accumulator. Callers
// must be byte-aligned first.
func (r *bitReader) GetRawByte() (byte, error) {
	debugAssert(r.nbits%8 == 0, "bitReader.GetRawByte: not byte-aligned")
	if b, ok := r.Peek(8); ok {
		r.Consume(8)
		return byte(b), nil
	}
	return 0, shortInputAt(r.pos)
}

// GetRawBytes reads n raw bytes, bypassing the bit accumulator. Callers
// must be byte-aligned first.
func (r *bitReader) GetRawBytes(n int) ([]byte, error) {
	debugAssert(r.nbits%8 == 0, "bitReader.GetRawBytes: not byte-aligned")
	// Bits already buffered in accum must be drained back into the byte
	// stream view before a raw multi-byte slice read.
	buffered := int(r.nbits / 8)
	out := make([]byte, n)
	i := 0
	for ; i < buffered && i < n; i++ {
		out[i] = byte(r.accum)
		r.accum >>= 8
		r.nbits -= 8
	}
	remaining := n - i
	if remaining == 0 {
		return out, nil
	}
	if r.pos+remaining > len(r.src) {
		return nil, shortInputAt(r.pos)
	}
	copy(out[i:], r.src[r.pos:r.pos+remaining])
	r.pos += remaining
	return out, nil
}

// exhausted reports whether the reader has no more bits available at all
// (accumulator empty and source consumed), used by block decode to detect
// trailing garbage vs. a clean end of stream.
func (r *bitReader) exhausted() bool {
	return r.nbits == 0 && r.pos >= len(r.src)
}
