// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import "math/bits"

// fseCTable is the encode-side counterpart to fseTable's decode table: a
// symbol transition table plus, per symbol, the two deltas needed to find
// the next state in O(1) (the standard tANS encode-table construction).
type fseCTable struct {
	tableLog    uint8
	nextState   []uint32 // indexed by (virtual rank), gives an actual low-range state
	deltaNbBits []int32  // per symbol: packed (nbBitsOut<<16) - minStatePlus
	deltaFind   []int32  // per symbol: state-table index offset
}

// buildFSECTable builds the encode-side table from the same normalized
// counts and the same spread permutation buildFSETable uses for decoding,
// so the two sides agree on which state a symbol occurrence maps to.
func buildFSECTable(norm []uint32, tableLog uint8) *fseCTable {
	tableSize := uint32(1) << tableLog
	mask := tableSize - 1
	step := (tableSize >> 1) + (tableSize >> 3) + 3

	cellSymbol := make([]uint16, tableSize)
	pos := uint32(0)
	for sym, n := range norm {
		for i := uint32(0); i < n; i++ {
			cellSymbol[pos] = uint16(sym)
			pos = (pos + step) & mask
		}
	}

	cumul := make([]uint32, len(norm)+1)
	for s, n := range norm {
		cumul[s+1] = cumul[s] + n
	}
	cumulStart := append([]uint32(nil), cumul...)

	nextState := make([]uint32, tableSize)
	for u := uint32(0); u < tableSize; u++ {
		s := cellSymbol[u]
		nextState[cumul[s]] = tableSize + u
		cumul[s]++
	}

	deltaNbBits := make([]int32, len(norm))
	deltaFind := make([]int32, len(norm))
	for s, n := range norm {
		if n == 0 {
			continue
		}
		if n == 1 {
			deltaNbBits[s] = int32(tableLog)<<16 - int32(tableSize)
			deltaFind[s] = int32(cumulStart[s]) - 1
			continue
		}
		maxBitsOut := uint32(tableLog) - uint32(bits.Len32(n-1)-1)
		minStatePlus := n << maxBitsOut
		deltaNbBits[s] = int32(maxBitsOut)<<16 - int32(minStatePlus)
		deltaFind[s] = int32(cumulStart[s]) - int32(n)
	}

	return &fseCTable{tableLog: tableLog, nextState: nextState, deltaNbBits: deltaNbBits, deltaFind: deltaFind}
}

// fseEncoderState drives one FSE encode state across a stream of symbols;
// it does not write to a bitWriter itself. The caller must process symbols
// in reverse order and write the final state once all symbols are coded
// (fseEncodeSequence does both), per the tANS encode discipline: state carries information
// forward that only resolves once the stream is read forward by the
// decoder.
type fseEncoderState struct {
	table *fseCTable
	state uint32
}

func newFSEEncoderState(t *fseCTable) *fseEncoderState {
	return &fseEncoderState{table: t, state: uint32(1) << t.tableLog}
}

// transition advances the state machine by coding sym and returns the bits
// that a decoder must later consume to reverse the move. It does not write
// to a bitWriter directly: fseEncodeSequence collects these pairs and
// reorders them before emission, since encoding walks the symbol list
// backward while the resulting bitstream must be readable forward.
func (e *fseEncoderState) transition(sym uint16) (value uint32, nbits uint) {
	dnb := e.table.deltaNbBits[sym]
	nbBitsOut := uint((int32(e.state) + dnb) >> 16)
	value = e.state & (1<<nbBitsOut - 1)
	idx := int32(e.state>>nbBitsOut) + e.table.deltaFind[sym]
	e.state = e.table.nextState[idx]
	return value, nbBitsOut
}
