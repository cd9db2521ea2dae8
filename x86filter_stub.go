// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

//go:build !xpack_x86filter

package xpack

const x86FilterBuilt = false

// x86FilterEncode and x86FilterDecode are unreachable on this build:
// NewCompressor rejects CompressOptions with X86Filter set, and Decompress
// rejects a stream whose flags byte has streamFlagX86Filter set, before
// either function is ever called.
func x86FilterEncode(buf []byte) { debugAssert(false, "x86FilterEncode: not built with xpack_x86filter") }

func x86FilterDecode(buf []byte) { debugAssert(false, "x86FilterDecode: not built with xpack_x86filter") }
