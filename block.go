// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import "math"

// Block modes, written as the first raw byte of every block.
const (
	modeVerbatim     byte = 0
	modeAligned      byte = 1
	modeUncompressed byte = 2
)

// blockPlan holds everything encodeBlock needs to write one block: the
// tallied alphabets with their built FSE tables, and the raw extra-bit
// payloads that ride alongside each coded symbol.
type blockPlan struct {
	mode     byte
	rawLen   int
	rawBytes []byte

	literalCount int
	literalSyms  []uint16
	literalTable *fseTable
	literalCT    *fseCTable

	litLenSyms      []uint16
	litLenExtraVal  []uint32
	litLenExtraBits []uint8
	litLenTable     *fseTable
	litLenCT        *fseCTable

	matchCount        int
	matchLenSyms      []uint16
	matchLenExtraVal  []uint32
	matchLenExtraBits []uint8
	matchLenTable     *fseTable
	matchLenCT        *fseCTable

	offsetSyms     []uint16
	offsetHighVal  []uint32
	offsetHighBits []uint8
	offsetTable    *fseTable
	offsetCT       *fseCTable

	alignedSyms  []uint16
	alignedTable *fseTable
	alignedCT    *fseCTable
}

// buildAlphabet tallies freq into a table log and normalized counts, then
// builds both the encode and decode sides. A stream with nothing to code
// (total == 0) still gets a usable, if trivial, table so the header writer
// always has something to emit.
func buildAlphabet(freq []uint32) (*fseTable, *fseCTable) {
	distinct := 0
	var total uint64
	for _, f := range freq {
		if f > 0 {
			distinct++
		}
		total += uint64(f)
	}
	if total == 0 {
		freq = append([]uint32(nil), freq...)
		freq[0] = 1
		distinct = 1
		total = 1
	}
	tableLog := chooseTableLog(distinct, uint32(total))
	norm := normalizeCounts(freq, tableLog)
	return buildFSETable(norm, tableLog), buildFSECTable(norm, tableLog)
}

// log2 is a small wrapper kept local so callers read as domain code rather
// than reaching into math inline.
func log2(x float64) float64 { return math.Log2(x) }

// streamBitsEstimate approximates the coded size of syms under table using
// each symbol's normalized probability, the same estimate an FSE encoder's
// actual output converges to.
func streamBitsEstimate(table *fseTable, syms []uint16) float64 {
	if table == nil || len(syms) == 0 {
		return 0
	}
	tableSize := float64(uint32(1) << table.tableLog)
	var bits float64
	for _, s := range syms {
		n := table.norm[s]
		if n == 0 {
			n = 1
		}
		bits += log2(tableSize / float64(n))
	}
	return bits
}

// estimatedBits approximates the bit-packed size of plan's compressed form,
// used to decide whether a block is worth compressing at all.
func estimatedBits(plan *blockPlan) float64 {
	total := streamBitsEstimate(plan.literalTable, plan.literalSyms)
	total += streamBitsEstimate(plan.litLenTable, plan.litLenSyms)
	total += streamBitsEstimate(plan.matchLenTable, plan.matchLenSyms)
	total += streamBitsEstimate(plan.offsetTable, plan.offsetSyms)
	total += streamBitsEstimate(plan.alignedTable, plan.alignedSyms)
	for _, b := range plan.litLenExtraBits {
		total += float64(b)
	}
	for _, b := range plan.matchLenExtraBits {
		total += float64(b)
	}
	for _, b := range plan.offsetHighBits {
		total += float64(b)
	}
	total += 512 // generous constant covering table-header overhead
	return total
}

// buildBlockPlan tallies rawBytes's parsed literal/sequence content into
// per-alphabet symbol streams, decides aligned vs. verbatim mode from
// whether any offset's extra-bit payload is wide enough to benefit from
// splitting off its low 3 bits, and falls back to uncompressed mode when
// the compressed estimate doesn't beat storing the block raw.
func buildBlockPlan(rawBytes []byte, pr parseResult) *blockPlan {
	plan := &blockPlan{rawLen: len(rawBytes), rawBytes: rawBytes}

	plan.literalCount = len(pr.literals)
	litFreq := make([]uint32, 256)
	plan.literalSyms = make([]uint16, len(pr.literals))
	for i, b := range pr.literals {
		plan.literalSyms[i] = uint16(b)
		litFreq[b]++
	}

	n := len(pr.seqs)
	matchCount := n - 1
	plan.matchCount = matchCount

	plan.litLenSyms = make([]uint16, n)
	plan.litLenExtraVal = make([]uint32, n)
	plan.litLenExtraBits = make([]uint8, n)
	litLenFreq := make([]uint32, len(litLenCodes))
	for i, s := range pr.seqs {
		sym, extra, eb := findLitLenCode(s.litLen)
		plan.litLenSyms[i] = uint16(sym)
		plan.litLenExtraVal[i] = extra
		plan.litLenExtraBits[i] = eb
		litLenFreq[sym]++
	}

	plan.matchLenSyms = make([]uint16, matchCount)
	plan.matchLenExtraVal = make([]uint32, matchCount)
	plan.matchLenExtraBits = make([]uint8, matchCount)
	matchLenFreq := make([]uint32, len(lengthCodes))

	plan.offsetSyms = make([]uint16, matchCount)
	plan.offsetHighVal = make([]uint32, matchCount)
	plan.offsetHighBits = make([]uint8, matchCount)
	offsetFreq := make([]uint32, totalOffsetSymbols)

	type alignedEntry struct {
		sym uint16
	}
	var alignedEntries []alignedEntry

	for i := 0; i < matchCount; i++ {
		s := pr.seqs[i]
		lsym, lextra, lbits := findLengthCode(s.length)
		plan.matchLenSyms[i] = uint16(lsym)
		plan.matchLenExtraVal[i] = lextra
		plan.matchLenExtraBits[i] = lbits
		matchLenFreq[lsym]++

		var osym int
		var oextra uint32
		var obits uint8
		if s.roqIdx >= 0 {
			osym = s.roqIdx
		} else {
			osym, oextra, obits = findOffsetCode(s.offset)
		}
		plan.offsetSyms[i] = uint16(osym)
		offsetFreq[osym]++

		if obits >= 3 {
			alignedEntries = append(alignedEntries, alignedEntry{uint16(oextra & 0x7)})
			plan.offsetHighVal[i] = oextra >> 3
			plan.offsetHighBits[i] = obits - 3
		} else {
			plan.offsetHighVal[i] = oextra
			plan.offsetHighBits[i] = obits
		}
	}

	if plan.literalCount > 0 {
		plan.literalTable, plan.literalCT = buildAlphabet(litFreq)
	}
	plan.litLenTable, plan.litLenCT = buildAlphabet(litLenFreq)
	if matchCount > 0 {
		plan.matchLenTable, plan.matchLenCT = buildAlphabet(matchLenFreq)
		plan.offsetTable, plan.offsetCT = buildAlphabet(offsetFreq)
	}

	if len(alignedEntries) > 0 {
		plan.mode = modeAligned
		alignedFreq := make([]uint32, alignedAlphabetSize)
		plan.alignedSyms = make([]uint16, len(alignedEntries))
		for i, e := range alignedEntries {
			plan.alignedSyms[i] = e.sym
			alignedFreq[e.sym]++
		}
		plan.alignedTable, plan.alignedCT = buildAlphabet(alignedFreq)
	} else {
		plan.mode = modeVerbatim
	}

	if estimatedBits(plan) >= float64(plan.rawLen)*8 {
		plan.mode = modeUncompressed
	}

	return plan
}

func putUint32LE(w *bitWriter, v uint32) {
	w.PutRawByte(byte(v))
	w.PutRawByte(byte(v >> 8))
	w.PutRawByte(byte(v >> 16))
	w.PutRawByte(byte(v >> 24))
}

// encodeBlock writes plan's content to w following the layout buildBlockPlan
// and blockdecode.go's decodeBlock agree on: a raw mode/length header, then
// (for compressed modes) per-alphabet table headers, the FSE-coded symbol
// streams, the raw extra-bit payloads in sequence order, and finally — only
// in aligned mode — the deferred low-bit offset tail stream.
func encodeBlock(w *bitWriter, plan *blockPlan) {
	w.AlignByte()
	w.PutRawByte(plan.mode)
	putUint32LE(w, uint32(plan.rawLen))

	if plan.mode == modeUncompressed {
		w.PutRawBytes(plan.rawBytes)
		return
	}

	putUint32LE(w, uint32(plan.literalCount))
	seqCount := len(plan.litLenSyms)
	putUint32LE(w, uint32(seqCount))

	if plan.literalCount > 0 {
		writeTableHeader(w, plan.literalTable.norm, plan.literalTable.tableLog, 256)
	}
	writeTableHeader(w, plan.litLenTable.norm, plan.litLenTable.tableLog, len(litLenCodes))
	if plan.matchCount > 0 {
		writeTableHeader(w, plan.matchLenTable.norm, plan.matchLenTable.tableLog, len(lengthCodes))
		writeTableHeader(w, plan.offsetTable.norm, plan.offsetTable.tableLog, totalOffsetSymbols)
		if plan.mode == modeAligned {
			writeTableHeader(w, plan.alignedTable.norm, plan.alignedTable.tableLog, alignedAlphabetSize)
		}
	}

	if plan.literalCount > 0 {
		fseEncodeLiterals(w, plan.literalCT, plan.literalSyms)
	}
	fseEncodeSequence(w, plan.litLenCT, plan.litLenSyms)
	if plan.matchCount > 0 {
		fseEncodeSequence(w, plan.matchLenCT, plan.matchLenSyms)
		fseEncodeSequence(w, plan.offsetCT, plan.offsetSyms)
	}

	for i := 0; i < seqCount; i++ {
		w.Put(plan.litLenExtraVal[i], uint(plan.litLenExtraBits[i]))
	}
	for i := 0; i < plan.matchCount; i++ {
		w.Put(plan.matchLenExtraVal[i], uint(plan.matchLenExtraBits[i]))
		w.Put(plan.offsetHighVal[i], uint(plan.offsetHighBits[i]))
	}

	if plan.mode == modeAligned {
		fseEncodeSequence(w, plan.alignedCT, plan.alignedSyms)
	}

	w.AlignByte()
}
