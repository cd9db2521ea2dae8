// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import "math/bits"

// Table header layout: table log in a fixed 4-bit field (minTableLog and
// maxTableLog fit comfortably in that range), then one
// entry per alphabet symbol in order: a 1-bit marker selecting either "this
// symbol and the next few are zero, here's how many" (a short run length)
// or "here's this symbol's nonzero count," each value gamma-coded so small
// counts and short runs cost only a few bits.

const maxGammaBits = 24 // generous; tableSize tops out at 1<<maxTableLog = 4096

// writeGamma Elias-gamma encodes v (v >= 1): a unary prefix of (nbits-1)
// one-bits terminated by a zero, then the low (nbits-1) bits of v (its
// leading 1 bit is implicit from the prefix length).
func writeGamma(w *bitWriter, v uint32) {
	debugAssert(v >= 1, "writeGamma: value must be >= 1")
	nbits := uint(bits.Len32(v))
	for i := uint(0); i < nbits-1; i++ {
		w.Put(1, 1)
	}
	w.Put(0, 1)
	if nbits > 1 {
		w.Put(v&((1<<(nbits-1))-1), nbits-1)
	}
}

// readGamma decodes a value written by writeGamma.
func readGamma(r *bitReader) (uint32, error) {
	var ones uint
	for {
		b, err := r.Get(1)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		ones++
		if ones > maxGammaBits {
			return 0, corruptAt(r.pos)
		}
	}
	if ones == 0 {
		return 1, nil
	}
	low, err := r.Get(ones)
	if err != nil {
		return 0, err
	}
	return (1 << ones) | low, nil
}

// writeTableHeader serializes norm (length == alphabetSize) as described
// above.
func writeTableHeader(w *bitWriter, norm []uint32, tableLog uint8, alphabetSize int) {
	debugAssert(tableLog >= minTableLog && tableLog <= maxTableLog, "writeTableHeader: tableLog out of range")
	w.Put(uint32(tableLog-minTableLog), 4)

	i := 0
	for i < alphabetSize {
		if norm[i] == 0 {
			run := 0
			for i+run < alphabetSize && norm[i+run] == 0 {
				run++
			}
			w.Put(1, 1)
			writeGamma(w, uint32(run))
			i += run
			continue
		}
		w.Put(0, 1)
		writeGamma(w, norm[i])
		i++
	}
}

// readTableHeader parses a header written by writeTableHeader, validating
// that the resulting counts sum to exactly 2^tableLog and that no symbol
// index runs past alphabetSize.
func readTableHeader(r *bitReader, alphabetSize int) (norm []uint32, tableLog uint8, err error) {
	rawLog, err := r.Get(4)
	if err != nil {
		return nil, 0, err
	}
	tableLog = minTableLog + uint8(rawLog)
	if tableLog > maxTableLog {
		return nil, 0, corruptAt(r.pos)
	}
	tableSize := uint32(1) << tableLog

	norm = make([]uint32, alphabetSize)
	i := 0
	var sum uint64
	for i < alphabetSize {
		marker, err := r.Get(1)
		if err != nil {
			return nil, 0, err
		}
		if marker == 1 {
			run, err := readGamma(r)
			if err != nil {
				return nil, 0, err
			}
			if run == 0 || i+int(run) > alphabetSize {
				return nil, 0, corruptAt(r.pos)
			}
			i += int(run)
			continue
		}
		v, err := readGamma(r)
		if err != nil {
			return nil, 0, err
		}
		if v == 0 || v > tableSize {
			return nil, 0, corruptAt(r.pos)
		}
		norm[i] = v
		sum += uint64(v)
		i++
	}
	if sum != uint64(tableSize) {
		return nil, 0, corruptAt(r.pos)
	}
	return norm, tableLog, nil
}
