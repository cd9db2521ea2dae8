// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codec. Every malformed-input path returns an error
// wrapping one of these; callers should use errors.Is rather than comparing
// *CodecError values directly.
var (
	// ErrCorrupt is returned when the bit stream violates a structural
	// invariant: an FSE table whose counts don't sum to 2^L, an out-of-range
	// symbol, a match offset beyond the output produced so far, or a stream
	// that doesn't decode to a coherent literal/match sequence.
	ErrCorrupt = errors.New("xpack: corrupt stream")
	// ErrShortInput is returned when the bit stream ends before the
	// declared block contents have been read.
	ErrShortInput = errors.New("xpack: short input")
	// ErrShortOutput is returned when dst is smaller than the output the
	// stream would produce.
	ErrShortOutput = errors.New("xpack: output buffer too small")
	// ErrUnsupportedFeature is returned when the caller asks for a build
	// time feature (the x86 preprocessor) that this build was compiled
	// without.
	ErrUnsupportedFeature = errors.New("xpack: unsupported feature")
	// ErrInvalidLevel is returned by NewCompressor for a level outside 1..9.
	ErrInvalidLevel = errors.New("xpack: level must be between 1 and 9")

	// errInternal marks a violated encoder-side invariant: a programming
	// error, not a runtime condition. It is recovered at the public API
	// boundary and never escapes as a panic.
	errInternal = errors.New("xpack: internal invariant violated")
)

// CodecError wraps a sentinel error with the offset at which the problem
// was detected, for diagnostics. errors.Is(err, xpack.ErrCorrupt) and
// friends work on a *CodecError as they would on the sentinel itself.
type CodecError struct {
	Err    error
	Offset int
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Err, e.Offset)
}

func (e *CodecError) Unwrap() error { return e.Err }

func corruptAt(offset int) error {
	return &CodecError{Err: ErrCorrupt, Offset: offset}
}

func shortInputAt(offset int) error {
	return &CodecError{Err: ErrShortInput, Offset: offset}
}

func shortOutputAt(offset int) error {
	return &CodecError{Err: ErrShortOutput, Offset: offset}
}

// debugAssert panics with errInternal when cond is false. It documents an
// invariant the encoder relies on; violating it is a bug in this package,
// not a property of caller-supplied data. Recovered in Compress.
func debugAssert(cond bool, what string) {
	if !cond {
		panic(fmt.Errorf("%w: %s", errInternal, what))
	}
}
