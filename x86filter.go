// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

//go:build xpack_x86filter

package xpack

const x86FilterBuilt = true

// x86FilterEncode rewrites x86 CALL (0xE8) and JMP (0xE9) near relative
// displacements in buf to absolute addresses in place. Executable code
// tends to repeat the same call targets at many different relative
// displacements (one per call site); converting to absolute addresses turns
// those into a small set of repeated values the match finder can exploit.
// x86FilterDecode reverses the same transform.
func x86FilterEncode(buf []byte) { x86FilterTransform(buf, true) }

func x86FilterDecode(buf []byte) { x86FilterTransform(buf, false) }

// x86FilterTransform is a simplified variant of the classic x86 BCJ filter
// (LZMA SDK's Bra86.c): it drops that filter's prevMask false-positive
// suppression and its converged-high-byte retry loop, both of which only
// tune compression ratio on real executables. Reversibility instead comes
// from a simpler invariant: the opcode byte that triggers a rewrite is never
// itself modified, so a decode pass over the encoded stream finds the exact
// same trigger offsets, in the same order, that the encode pass did.
func x86FilterTransform(data []byte, encoding bool) {
	i := 0
	for i+5 <= len(data) {
		if data[i] != 0xE8 && data[i] != 0xE9 {
			i++
			continue
		}
		src := uint32(data[i+1]) | uint32(data[i+2])<<8 | uint32(data[i+3])<<16 | uint32(data[i+4])<<24
		var dest uint32
		if encoding {
			dest = src + uint32(i) + 5
		} else {
			dest = src - uint32(i) - 5
		}
		data[i+1] = byte(dest)
		data[i+2] = byte(dest >> 8)
		data[i+3] = byte(dest >> 16)
		data[i+4] = byte(dest >> 24)
		i += 5
	}
}
