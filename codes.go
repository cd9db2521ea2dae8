// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

// Format-wide constants. windowSize is the maximum back-reference
// distance: a power of two comfortably larger than the largest block this
// package will ever close (see blockMaxInput in parser.go).
const (
	windowSize  = 1 << 20 // 1 MiB sliding window
	minMatchLen = 2       // minimum emitted match length

	roqCount = 3 // recent-offsets queue size
)

// codeEntry maps one alphabet symbol to the base value and extra-bit count
// needed to reconstruct it.
type codeEntry struct {
	base      uint32
	extraBits uint8
}

// buildCodeTable lays out consecutive codes over non-overlapping ranges:
// symbol i covers [base_i, base_i + 2^extraBits_i), and base_{i+1} follows
// immediately after symbol i's range.
func buildCodeTable(firstBase uint32, extraBits []uint8) []codeEntry {
	codes := make([]codeEntry, len(extraBits))
	base := firstBase
	for i, eb := range extraBits {
		codes[i] = codeEntry{base: base, extraBits: eb}
		base += 1 << eb
	}
	return codes
}

// lengthExtraBits defines the length-code alphabet: eight codes with no
// extra bits for the smallest matches, then a ramp of widening extra-bit
// groups, ending in one very wide code for long runs.
var lengthExtraBits = []uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1,
	2, 2, 2, 2,
	3, 3, 3, 3,
	4, 4, 4, 4,
	5, 5, 5, 5,
	6, 6, 6, 6,
	16,
}

// lengthCodes is indexed by length-code symbol; lengthCodes[s].base is the
// smallest length that symbol encodes, minimum match length first.
var lengthCodes = buildCodeTable(minMatchLen, lengthExtraBits)

// maxMatchLen is the longest length the length-code alphabet can express:
// the last symbol's base plus the span its extra bits cover.
var maxMatchLen = func() uint32 {
	last := lengthCodes[len(lengthCodes)-1]
	return last.base + (1 << last.extraBits) - 1
}()

// offsetExtraBits defines the verbatim-offset alphabet. Symbols 0..2 are
// reserved for ROQ references (offsets of 1-3 slots refer to the ROQ
// instead, via a dedicated tiny sub-alphabet) and carry no entry here;
// offsetCodes is indexed starting at symbol roqCount.
var offsetExtraBits = buildOffsetExtraBits()

func buildOffsetExtraBits() []uint8 {
	eb := make([]uint8, 0, 22)
	for bits := uint8(0); bits <= 20; bits++ {
		eb = append(eb, bits)
	}
	return eb
}

// offsetCodes[s] describes verbatim-offset symbol (s + roqCount); base
// values start at offset 1 since ROQ already owns the dedicated sub-alphabet
// for the three most recently used offsets.
var offsetCodes = buildCodeTable(1, offsetExtraBits)

// totalOffsetSymbols is the full offset alphabet size: roqCount ROQ symbols
// followed by len(offsetCodes) verbatim symbols.
var totalOffsetSymbols = roqCount + len(offsetCodes)

// litLenExtraBits defines the literal-run-length alphabet, shaped like
// lengthExtraBits except that its last code carries 18 extra bits instead
// of 16 (enough for a literal run spanning a whole blockMaxInput block), and
// based at zero since a sequence may carry no literals at all (back-to-back
// matches).
var litLenExtraBits = []uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1,
	2, 2, 2, 2,
	3, 3, 3, 3,
	4, 4, 4, 4,
	5, 5, 5, 5,
	6, 6, 6, 6,
	18,
}

var litLenCodes = buildCodeTable(0, litLenExtraBits)

// findLitLenCode returns the symbol and extra-bit value encoding a
// literal-run length.
func findLitLenCode(litLen uint32) (symbol int, extra uint32, extraBits uint8) {
	return findCode(litLenCodes, litLen)
}

const alignedAlphabetSize = 8 // low 3 bits of an offset's extra-bit payload

// findLengthCode returns the symbol and extra-bit value encoding length.
func findLengthCode(length uint32) (symbol int, extra uint32, extraBits uint8) {
	return findCode(lengthCodes, length)
}

// findOffsetCode returns the verbatim symbol (already offset by roqCount)
// and extra-bit value encoding a non-ROQ offset.
func findOffsetCode(offset uint32) (symbol int, extra uint32, extraBits uint8) {
	s, e, eb := findCode(offsetCodes, offset)
	return s + roqCount, e, eb
}

// findCode does a linear scan from the top of the table; alphabets here are
// small (at most ~33 entries) so this stays cheap and avoids a second,
// easy-to-desync copy of the range boundaries for a binary search.
func findCode(table []codeEntry, value uint32) (symbol int, extra uint32, extraBits uint8) {
	for i := len(table) - 1; i >= 0; i-- {
		if value >= table[i].base {
			return i, value - table[i].base, table[i].extraBits
		}
	}
	return 0, 0, table[0].extraBits
}
