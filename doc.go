// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

/*
Package xpack implements the XPACK codec: an experimental LZ77-family
lossless compressor combining a sliding-window match finder with
recent-offset memory, a finite-state-entropy (tANS/FSE) symbol coder, and a
greedy/lazy parser pair.

# Compress

	c, err := xpack.NewCompressor(len(data), 6, xpack.CompressOptions{})
	if err != nil {
		// level out of range, or an unsupported build-time feature was requested
	}
	dst := make([]byte, len(data))
	n, ok := c.Compress(dst, data)
	if !ok {
		// data didn't compress well enough to fit dst; store it raw
	}

CompressAppend is a convenience wrapper that grows its buffer for the caller:

	out, err := xpack.CompressAppend(nil, data, 6)

# Decompress

The exact decompressed size must be known ahead of time (XPACK carries no
internal length prefix; callers/container formats are expected to record it):

	d := xpack.NewDecompressor()
	dst := make([]byte, len(data))
	n, err := d.Decompress(dst, compressed)

	out, err := xpack.DecompressExact(compressed, len(data))

A Compressor or Decompressor is not safe for concurrent use by multiple
goroutines; create one per goroutine, or serialize access.
*/
package xpack
