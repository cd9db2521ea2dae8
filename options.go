// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

// CompressOptions configures the optional x86 preprocessor (see x86filter.go).
// X86Filter requires the xpack_x86filter build tag; on builds without it,
// NewCompressor returns ErrUnsupportedFeature for any request with it set.
type CompressOptions struct {
	X86Filter bool
}
