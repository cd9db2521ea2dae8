// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

// fseDecoderState drives one FSE decode state across a stream of symbols:
// it emits the current state's symbol, then consumes that state's nbBits
// to compute the next one.
type fseDecoderState struct {
	table *fseTable
	state uint32
}

// newFSEDecoderState bootstraps a decode state by reading tableLog bits
// from r, mirroring the final-state write in fseEncodeSequence.
func newFSEDecoderState(r *bitReader, t *fseTable) (*fseDecoderState, error) {
	v, err := r.Get(uint(t.tableLog))
	if err != nil {
		return nil, err
	}
	if int(v) >= len(t.decode) {
		return nil, corruptAt(r.pos)
	}
	return &fseDecoderState{table: t, state: v}, nil
}

// Symbol returns the symbol for the current state without advancing it.
func (d *fseDecoderState) Symbol() uint16 {
	return d.table.decode[d.state].symbol
}

// Advance consumes the current state's bits from r and moves to the next
// state, to be called once per decoded symbol after Symbol has been read.
func (d *fseDecoderState) Advance(r *bitReader) error {
	entry := d.table.decode[d.state]
	extra, err := r.Get(uint(entry.nbBits))
	if err != nil {
		return err
	}
	next := entry.newStateBase + extra
	if int(next) >= len(d.table.decode) {
		return corruptAt(r.pos)
	}
	d.state = next
	return nil
}
