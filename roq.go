// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

// recentOffsets is an ordered triple of the three most recently emitted
// match offsets, shared mutable state between the parser (encoder side)
// and the block decoder (decoder side). Both must apply the exact same
// promotion rule after every match so their states stay in sync across
// block boundaries.
type recentOffsets [roqCount]uint32

// initialROQ is the implementation-defined starting triple both encoder and
// decoder assume at the start of every Compress/Decompress call (see
// DESIGN.md: {1, 2, 3}).
var initialROQ = recentOffsets{1, 2, 3}

// useIndex promotes roq[idx] to the front, shifting earlier entries back,
// and returns the offset that was referenced. Index 0 is a no-op shift.
func (r *recentOffsets) useIndex(idx int) uint32 {
	off := r[idx]
	for i := idx; i > 0; i-- {
		r[i] = r[i-1]
	}
	r[0] = off
	return off
}

// insertVerbatim records a newly used offset that did not come from the
// ROQ, pushing it to the front and dropping the oldest entry.
func (r *recentOffsets) insertVerbatim(offset uint32) {
	r[2] = r[1]
	r[1] = r[0]
	r[0] = offset
}

// matchIndex reports whether offset is currently one of the three ROQ
// entries, and which one (0 = most recent).
func (r *recentOffsets) matchIndex(offset uint32) (idx int, ok bool) {
	for i, v := range r {
		if v == offset {
			return i, true
		}
	}
	return 0, false
}
