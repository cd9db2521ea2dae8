// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

func getUint32LE(r *bitReader) (uint32, error) {
	b, err := r.GetRawBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// pendingOffset carries one decoded offset symbol through to the point
// where any deferred aligned low-bits tail has been read.
type pendingOffset struct {
	symbol       uint16
	highVal      uint32
	readBits     uint8 // bits already consumed for this entry (0 when deferring to the aligned stream)
	deferredBits uint8 // full extra-bit width when deferring; 0 otherwise
}

// decodeBlock reads one block from r and materializes its output into
// dst[outPos:], returning the position just past the written bytes. roq is
// threaded through from the caller so it stays in sync across blocks.
func decodeBlock(r *bitReader, dst []byte, outPos int, roq *recentOffsets) (int, error) {
	startPos := outPos
	r.AlignByte()
	mode, err := r.GetRawByte()
	if err != nil {
		return 0, err
	}
	rawLen32, err := getUint32LE(r)
	if err != nil {
		return 0, err
	}
	rawLen := int(rawLen32)

	if mode == modeUncompressed {
		raw, err := r.GetRawBytes(rawLen)
		if err != nil {
			return 0, err
		}
		if outPos+rawLen > len(dst) {
			return 0, shortOutputAt(outPos)
		}
		copy(dst[outPos:], raw)
		return outPos + rawLen, nil
	}
	if mode != modeVerbatim && mode != modeAligned {
		return 0, corruptAt(r.pos)
	}

	literalCount32, err := getUint32LE(r)
	if err != nil {
		return 0, err
	}
	seqCount32, err := getUint32LE(r)
	if err != nil {
		return 0, err
	}
	literalCount := int(literalCount32)
	seqCount := int(seqCount32)
	matchCount := seqCount - 1
	if seqCount < 1 || literalCount < 0 {
		return 0, corruptAt(r.pos)
	}

	var literalTable *fseTable
	if literalCount > 0 {
		norm, log, err := readTableHeader(r, 256)
		if err != nil {
			return 0, err
		}
		literalTable = buildFSETable(norm, log)
	}

	litLenNorm, litLenLog, err := readTableHeader(r, len(litLenCodes))
	if err != nil {
		return 0, err
	}
	litLenTable := buildFSETable(litLenNorm, litLenLog)

	var matchLenTable, offsetTable, alignedTable *fseTable
	if matchCount > 0 {
		norm, log, err := readTableHeader(r, len(lengthCodes))
		if err != nil {
			return 0, err
		}
		matchLenTable = buildFSETable(norm, log)

		norm, log, err = readTableHeader(r, totalOffsetSymbols)
		if err != nil {
			return 0, err
		}
		offsetTable = buildFSETable(norm, log)

		if mode == modeAligned {
			norm, log, err = readTableHeader(r, alignedAlphabetSize)
			if err != nil {
				return 0, err
			}
			alignedTable = buildFSETable(norm, log)
		}
	}

	var literalSyms []uint16
	if literalCount > 0 {
		literalSyms, err = fseDecodeLiterals(r, literalTable, literalCount)
		if err != nil {
			return 0, err
		}
	}
	litLenSyms, err := fseDecodeSequence(r, litLenTable, seqCount)
	if err != nil {
		return 0, err
	}
	var matchLenSyms, offsetSyms []uint16
	if matchCount > 0 {
		matchLenSyms, err = fseDecodeSequence(r, matchLenTable, matchCount)
		if err != nil {
			return 0, err
		}
		offsetSyms, err = fseDecodeSequence(r, offsetTable, matchCount)
		if err != nil {
			return 0, err
		}
	}

	litLens := make([]uint32, seqCount)
	for i, sym := range litLenSyms {
		if int(sym) >= len(litLenCodes) {
			return 0, corruptAt(r.pos)
		}
		entry := litLenCodes[sym]
		extra, err := r.Get(uint(entry.extraBits))
		if err != nil {
			return 0, err
		}
		litLens[i] = entry.base + extra
	}

	matchLens := make([]uint32, matchCount)
	pending := make([]pendingOffset, matchCount)
	alignedCount := 0
	for i := 0; i < matchCount; i++ {
		lsym := matchLenSyms[i]
		if int(lsym) >= len(lengthCodes) {
			return 0, corruptAt(r.pos)
		}
		lentry := lengthCodes[lsym]
		extra, err := r.Get(uint(lentry.extraBits))
		if err != nil {
			return 0, err
		}
		matchLens[i] = lentry.base + extra

		osym := offsetSyms[i]
		if int(osym) < roqCount {
			pending[i] = pendingOffset{symbol: osym}
			continue
		}
		oidx := int(osym) - roqCount
		if oidx >= len(offsetCodes) {
			return 0, corruptAt(r.pos)
		}
		oentry := offsetCodes[oidx]
		if oentry.extraBits >= 3 {
			hv, err := r.Get(uint(oentry.extraBits - 3))
			if err != nil {
				return 0, err
			}
			pending[i] = pendingOffset{symbol: osym, highVal: hv, deferredBits: oentry.extraBits}
			alignedCount++
		} else {
			hv, err := r.Get(uint(oentry.extraBits))
			if err != nil {
				return 0, err
			}
			pending[i] = pendingOffset{symbol: osym, highVal: hv, readBits: oentry.extraBits}
		}
	}

	var alignedSyms []uint16
	if mode == modeAligned {
		alignedSyms, err = fseDecodeSequence(r, alignedTable, alignedCount)
		if err != nil {
			return 0, err
		}
	}

	offsets := make([]uint32, matchCount)
	alignedPos := 0
	for i, p := range pending {
		if int(p.symbol) < roqCount {
			offsets[i] = roq.useIndex(int(p.symbol))
			continue
		}
		oentry := offsetCodes[int(p.symbol)-roqCount]
		var extra uint32
		if p.deferredBits >= 3 {
			if alignedPos >= len(alignedSyms) {
				return 0, corruptAt(r.pos)
			}
			extra = p.highVal<<3 | uint32(alignedSyms[alignedPos])
			alignedPos++
		} else {
			extra = p.highVal
		}
		off := oentry.base + extra
		offsets[i] = off
		roq.insertVerbatim(off)
	}

	litPos := 0
	for i := 0; i < seqCount; i++ {
		n := int(litLens[i])
		if n > 0 {
			if litPos+n > len(literalSyms) {
				return 0, corruptAt(r.pos)
			}
			if outPos+n > len(dst) {
				return 0, shortOutputAt(outPos)
			}
			for j := 0; j < n; j++ {
				dst[outPos+j] = byte(literalSyms[litPos+j])
			}
			outPos += n
			litPos += n
		}
		if i == seqCount-1 {
			break
		}
		length := int(matchLens[i])
		offset := int(offsets[i])
		if offset <= 0 || offset > outPos {
			return 0, corruptAt(r.pos)
		}
		if outPos+length > len(dst) {
			return 0, shortOutputAt(outPos)
		}
		copyMatch(dst, outPos, offset, length)
		outPos += length
	}

	// Drop the zero padding encodeBlock writes after the block's last bits.
	r.AlignByte()

	if outPos-startPos != rawLen {
		return 0, corruptAt(r.pos)
	}

	return outPos, nil
}

// copyMatch copies length bytes from outPos-offset to outPos. When offset is
// at least length the ranges don't overlap and a single copy suffices;
// otherwise the copy must proceed byte by byte so the repeating pattern
// picks up bytes it just wrote, the classic LZ77 back-reference behavior.
func copyMatch(dst []byte, outPos, offset, length int) {
	src := outPos - offset
	if offset >= length {
		copy(dst[outPos:outPos+length], dst[src:src+length])
		return
	}
	for i := 0; i < length; i++ {
		dst[outPos+i] = dst[src+i]
	}
}
