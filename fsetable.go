// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import "math/bits"

// Table-log bounds. minTableLog keeps the spread step odd (required for the
// stepping permutation to touch every cell exactly once); maxTableLog
// bounds scratch-table size for the largest alphabet (256 literals).
const (
	minTableLog = 6
	maxTableLog = 12
)

// fseDecodeEntry is one state's row in the decode table: on entering this
// state, emit symbol, then read nbBits more bits and add them to
// newStateBase to get the next state.
type fseDecodeEntry struct {
	symbol       uint16
	nbBits       uint8
	newStateBase uint32
}

// fseTable is a built tANS decode table for one alphabet. Encoding uses the
// matching fseCTable built by buildFSECTable.
type fseTable struct {
	tableLog uint8
	norm     []uint32 // normalized counts, index = symbol
	decode   []fseDecodeEntry
	// for each symbol, the list of states assigned to it in the canonical
	// spread order; recorded by buildFSETable but not read by the encoder,
	// which works from fseCTable instead.
	encodeStates [][]uint32
}

// chooseTableLog picks a table log large enough to give every distinct
// symbol at least one state, and no larger than needed for the volume of
// symbols being coded. A table log is chosen per block, per alphabet.
func chooseTableLog(distinctSymbols int, total uint32) uint8 {
	log := uint8(minTableLog)
	for log < maxTableLog && (uint32(1)<<log) < total && (uint32(1)<<log) < uint32(distinctSymbols)*8 {
		log++
	}
	for (1 << log) < distinctSymbols {
		log++
	}
	if log > maxTableLog {
		log = maxTableLog
	}
	return log
}

// normalizeCounts scales freq (raw per-symbol occurrence counts) to sum to
// exactly 2^tableLog, per the Open Question resolved in DESIGN.md: every
// symbol with freq[i] > 0 keeps a normalized count >= 1; any rounding
// surplus or deficit is repeatedly taken from (or given to) the symbol that
// currently holds the largest normalized count.
func normalizeCounts(freq []uint32, tableLog uint8) []uint32 {
	target := uint32(1) << tableLog
	norm := make([]uint32, len(freq))

	var total uint64
	for _, f := range freq {
		total += uint64(f)
	}
	if total == 0 {
		return norm
	}

	var sum uint32
	for i, f := range freq {
		if f == 0 {
			continue
		}
		n := uint32(uint64(f) * uint64(target) / total)
		if n == 0 {
			n = 1
		}
		norm[i] = n
		sum += n
	}

	for sum > target {
		idx := argmaxNonzero(norm, freq)
		if norm[idx] <= 1 {
			break // every used symbol already pinned at the floor; shouldn't happen, but never go negative
		}
		norm[idx]--
		sum--
	}
	for sum < target {
		idx := argmaxNonzero(norm, freq)
		norm[idx]++
		sum++
	}
	return norm
}

// argmaxNonzero returns the index of the largest norm[i] among symbols that
// actually occur (freq[i] > 0). Ties favor the lowest index, which keeps
// the adjustment deterministic between encoder and any independent
// re-derivation (none occurs in this codec, but determinism costs nothing).
func argmaxNonzero(norm, freq []uint32) int {
	best := -1
	for i, f := range freq {
		if f == 0 {
			continue
		}
		if best == -1 || norm[i] > norm[best] {
			best = i
		}
	}
	return best
}

// buildFSETable constructs both the encode and decode sides of a tANS table
// from normalized counts. It panics via debugAssert if norm doesn't sum to
// 2^tableLog; callers only ever pass it the output of normalizeCounts.
func buildFSETable(norm []uint32, tableLog uint8) *fseTable {
	tableSize := uint32(1) << tableLog

	var sum uint32
	for _, n := range norm {
		sum += n
	}
	debugAssert(sum == tableSize, "buildFSETable: normalized counts don't sum to 2^tableLog")

	// Spread: assign each table cell (state) a symbol by walking every
	// symbol's occurrences in a fixed stride, exactly the permutation
	// spec.md describes (step = 5/8*tableSize + 3).
	step := (tableSize >> 1) + (tableSize >> 3) + 3
	mask := tableSize - 1
	cellSymbol := make([]uint16, tableSize)
	pos := uint32(0)
	for sym, n := range norm {
		for i := uint32(0); i < n; i++ {
			cellSymbol[pos] = uint16(sym)
			pos = (pos + step) & mask
		}
	}

	// Decode table: walking states in natural order 0..tableSize-1,
	// nextState for symbol s starts at norm[s] and counts up through
	// 2*norm[s]-1 as its occurrences are consumed.
	next := append([]uint32(nil), norm...)
	decode := make([]fseDecodeEntry, tableSize)
	encodeStates := make([][]uint32, len(norm))
	for state := uint32(0); state < tableSize; state++ {
		sym := cellSymbol[state]
		nb := next[sym]
		next[sym]++
		nbBits := uint8(int(tableLog) - (bits.Len32(nb) - 1))
		newStateBase := (nb << nbBits) - tableSize
		decode[state] = fseDecodeEntry{symbol: sym, nbBits: nbBits, newStateBase: newStateBase}
		encodeStates[sym] = append(encodeStates[sym], state)
	}

	return &fseTable{tableLog: tableLog, norm: norm, decode: decode, encodeStates: encodeStates}
}
