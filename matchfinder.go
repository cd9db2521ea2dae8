// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

const (
	hash3Size = 1 << 16
	hash4Size = 1 << 16
)

// hash3 keys a 3-byte prefix for the optional auxiliary chain searched at
// higher compression levels, in addition to the always-on 4-byte chain.
func hash3(data []byte) uint32 {
	key := uint32(data[0])
	key = (key << 5) ^ uint32(data[1])
	key = (key << 5) ^ uint32(data[2])
	key = (key * 0x9e3779b1) >> 16
	return key & (hash3Size - 1)
}

// hash4 keys a 4-byte prefix for the main hash chain, searched at every
// level.
func hash4(data []byte) uint32 {
	key := uint32(data[0])
	key = (key << 5) ^ uint32(data[1])
	key = (key << 5) ^ uint32(data[2])
	key = (key << 5) ^ uint32(data[3])
	key = (key * 0x9e3779b1) >> 16
	return key & (hash4Size - 1)
}

// matchCandidate is one result from the match finder: a length/offset pair,
// plus which ROQ slot it came from (roqIdx >= 0) or -1 if it is a fresh
// offset the caller must insert into the ROQ itself.
type matchCandidate struct {
	length int
	offset uint32
	roqIdx int
}

// matchFinder walks hash chains over an entire in-memory input; it does not
// need to support streaming input. Positions and chain links are absolute
// indices into src.
//
// Its scratch tables (head3, head4, chain) are sized once, in newMatchFinder,
// to the Compressor's declared maximum buffer size, and rebound to a new src
// via reset, so that successive Compress calls on one Compressor reuse the
// same backing arrays instead of allocating fresh ones.
type matchFinder struct {
	src    []byte
	params levelParams

	head3 []int32 // single most-recent position per 3-byte hash (optional auxiliary probe)
	head4 []int32 // chain head per 4-byte hash (main chain)
	chain []int32 // chain[pos] = previous position hashing to the same hash4 bucket, or -1
}

func newMatchFinder(maxSize int, params levelParams) *matchFinder {
	head3 := make([]int32, hash3Size)
	head4 := make([]int32, hash4Size)
	chain := make([]int32, maxSize)
	mf := &matchFinder{params: params, head3: head3, head4: head4, chain: chain}
	mf.clearHeads()
	return mf
}

func (m *matchFinder) clearHeads() {
	for i := range m.head3 {
		m.head3[i] = -1
	}
	for i := range m.head4 {
		m.head4[i] = -1
	}
}

// reset rebinds the finder to src, reusing its existing scratch tables. src
// must not be longer than the maxSize newMatchFinder was given.
func (m *matchFinder) reset(src []byte) {
	debugAssert(len(src) <= len(m.chain), "matchFinder.reset: src exceeds the buffer size given to NewCompressor")
	m.src = src
	m.clearHeads()
	for i := range src {
		m.chain[i] = -1
	}
}

// matchLength returns how many bytes src[a:] and src[b:] agree on, capped at
// limit.
func (m *matchFinder) matchLength(a, b, limit int) int {
	src := m.src
	n := 0
	for n < limit && src[a+n] == src[b+n] {
		n++
	}
	return n
}

// insert indexes position pos into the hash chains, to be called once per
// position the parser advances past (whether by literal or by match).
func (m *matchFinder) insert(pos int) {
	src := m.src
	if pos+4 <= len(src) {
		h := hash4(src[pos:])
		m.chain[pos] = m.head4[h]
		m.head4[h] = int32(pos)
	}
	if pos+3 <= len(src) {
		m.head3[hash3(src[pos:])] = int32(pos)
	}
}

// find searches for the best match at pos, testing the ROQ offsets and the
// hash chain and returning the longest candidate (ties broken toward the
// ROQ, then toward the smaller offset among chain hits).
func (m *matchFinder) find(pos int, roq *recentOffsets) matchCandidate {
	src := m.src
	remaining := len(src) - pos
	limit := remaining
	if limit > int(maxMatchLen) {
		limit = int(maxMatchLen)
	}

	best := matchCandidate{roqIdx: -1}
	if limit < minMatchLen {
		return best
	}

	for idx, off := range roq {
		if off == 0 || int(off) > pos {
			continue
		}
		cand := pos - int(off)
		n := m.matchLength(pos, cand, limit)
		if n >= minMatchLen && n > best.length {
			best = matchCandidate{length: n, offset: off, roqIdx: idx}
		}
	}

	if m.params.use3ByteHash && limit >= 3 {
		if h := m.head3[hash3(src[pos:])]; h >= 0 && int(h) < pos && pos-int(h) <= windowSize {
			n := m.matchLength(pos, int(h), limit)
			if n > best.length {
				best = matchCandidate{length: n, offset: uint32(pos - int(h)), roqIdx: -1}
			}
		}
	}

	if limit >= 4 {
		node := m.head4[hash4(src[pos:])]
		chainLen := m.params.maxChainLen
		for node >= 0 && chainLen > 0 {
			if pos-int(node) > windowSize {
				break
			}
			n := m.matchLength(pos, int(node), limit)
			if n > best.length {
				best = matchCandidate{length: n, offset: uint32(pos - int(node)), roqIdx: -1}
				if best.length >= m.params.niceLength || best.length >= limit {
					break
				}
				if m.params.goodLength > 0 && best.length >= m.params.goodLength && chainLen > 4 {
					// A good-enough match was already found; spend much less
					// further effort looking for a marginally better one.
					chainLen = 4
				}
			} else if n == best.length && best.roqIdx < 0 && n > 0 {
				if off := uint32(pos - int(node)); off < best.offset {
					best.offset = off
				}
			}
			node = m.chain[node]
			chainLen--
		}
	}

	return best
}
