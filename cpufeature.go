// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import "golang.org/x/sys/cpu"

// bmi2Available is detected once at process init when true,
// bitReader.Peek uses a BMI2-style bzhi extraction path instead of the
// portable shift/mask path. Both paths must produce byte-identical decoded
// output; this only changes which instructions execute.
var bmi2Available = cpu.X86.HasBMI2

// bzhi32 clears all bits above position nbits in v, emulating the x86 BMI2
// BZHI instruction. On amd64 with HasBMI2 this is exactly the operation the
// hardware instruction performs; we express it portably here rather than
// with inline assembly so the package has no per-arch build files, at the
// cost of not actually issuing a BZHI on the fast path. Both branches in
// bitReader.Peek therefore compute the identical value; the split exists so
// a future assembly implementation of this function is a drop-in swap that
// doesn't touch call sites.
func bzhi32(v uint32, nbits uint) uint32 {
	if nbits >= 32 {
		return v
	}
	return v & (1<<nbits - 1)
}
