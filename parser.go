// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

const (
	blockMaxInput = 128 << 10 // soft cap: close a block once this many input bytes are consumed
	blockMaxSeqs  = 1 << 16   // soft cap: close a block once this many sequences are buffered

	// roqLazyBias is the extra length a one-position-ahead candidate must
	// beat a ROQ-sourced current match by before the lazy parser gives up
	// the current match. ROQ matches code their offset for free, so a
	// same-or-marginally-longer fresh-offset match one byte later is often
	// a net loss even though it looks locally better.
	roqLazyBias = 2
)

// sequence is one literal-run-plus-match token produced by the parser.
// length == 0 marks the final, match-less literal run that trails a block.
type sequence struct {
	litLen uint32
	length uint32
	offset uint32
	roqIdx int // ROQ slot the offset came from, or -1 for a fresh offset
}

// parseResult is one block's worth of parser output: the concatenated
// literal bytes in position order, and the sequence list referencing them.
type parseResult struct {
	literals []byte
	seqs     []sequence
}

// parseBlock drives mf with the parser selected by params.lazy (greedy when
// 0, 1-ahead or 2-ahead lazy otherwise; see levels.go), starting at pos and
// closing once one of the soft caps is hit or the input is exhausted. It
// returns the block content and the position just past the consumed input.
func parseBlock(mf *matchFinder, roq *recentOffsets, params levelParams, pos int) (parseResult, int) {
	src := mf.src
	start := pos
	litStart := pos
	var res parseResult

	for pos < len(src) && pos-start < blockMaxInput && len(res.seqs) < blockMaxSeqs && len(res.literals) < blockMaxInput {
		cand := mf.find(pos, roq)
		mf.insert(pos)

		if cand.length < minMatchLen {
			pos++
			continue
		}

		bestPos, best := pos, cand
		indexed := pos
		for depth := 0; depth < params.lazy && bestPos+1 < len(src); depth++ {
			p := bestPos + 1
			c2 := mf.find(p, roq)
			mf.insert(p)
			indexed = p
			bias := 0
			if best.roqIdx >= 0 {
				bias = roqLazyBias
			}
			if c2.length <= best.length+bias {
				break
			}
			bestPos, best = p, c2
		}
		// Every position from pos+1 through indexed (bestPos, or bestPos+1
		// when the last probe lost) was already indexed by the probe loop
		// above, one new position per depth step.

		res.literals = append(res.literals, src[litStart:bestPos]...)
		var offset uint32
		if best.roqIdx >= 0 {
			offset = roq.useIndex(best.roqIdx)
		} else {
			offset = best.offset
			roq.insertVerbatim(offset)
		}
		res.seqs = append(res.seqs, sequence{
			litLen: uint32(bestPos - litStart),
			length: uint32(best.length),
			offset: offset,
			roqIdx: best.roqIdx,
		})

		newPos := bestPos + best.length
		for ip := indexed + 1; ip < newPos; ip++ {
			mf.insert(ip)
		}
		pos = newPos
		litStart = pos
	}

	res.literals = append(res.literals, src[litStart:pos]...)
	res.seqs = append(res.seqs, sequence{litLen: uint32(pos - litStart), length: 0})

	return res, pos
}
