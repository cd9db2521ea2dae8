// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

// fseEncodeSequence FSE-codes syms (in their given order) into w using ct.
// tANS encoding is run backward over syms (each step needs the state that
// encoding the following symbol produced) while decoding reads forward, so
// the transitions are computed back-to-front here but written in forward
// order after the bootstrap state, letting fseDecodeSequence read the
// result with a single forward pass.
func fseEncodeSequence(w *bitWriter, ct *fseCTable, syms []uint16) {
	n := len(syms)
	if n == 0 {
		return
	}
	type pair struct {
		value uint32
		nbits uint
	}
	pairs := make([]pair, n-1)

	st := newFSEEncoderState(ct)
	for i := n - 1; i >= 0; i-- {
		v, nb := st.transition(syms[i])
		if i < n-1 {
			pairs[i] = pair{v, nb}
		}
	}
	w.Put(st.state-(1<<ct.tableLog), uint(ct.tableLog))
	for i := 0; i < n-1; i++ {
		w.Put(pairs[i].value, pairs[i].nbits)
	}
}

// fseDecodeSequence reads n symbols written by fseEncodeSequence.
func fseDecodeSequence(r *bitReader, t *fseTable, n int) ([]uint16, error) {
	syms := make([]uint16, n)
	if n == 0 {
		return syms, nil
	}
	ds, err := newFSEDecoderState(r, t)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		syms[i] = ds.Symbol()
		if i < n-1 {
			if err := ds.Advance(r); err != nil {
				return nil, err
			}
		}
	}
	return syms, nil
}

// fseEncodeLiterals codes syms as two interleaved FSE states sharing ct: the
// even-position literals form one independently-coded stream, the
// odd-position literals the other. Splitting literals by position parity
// this way lets the two streams' coded bits be produced (and later
// consumed) independently, rather than threading a single state through the
// whole literal run.
func fseEncodeLiterals(w *bitWriter, ct *fseCTable, syms []uint16) {
	even, odd := splitLiteralsByParity(syms)
	fseEncodeSequence(w, ct, even)
	fseEncodeSequence(w, ct, odd)
}

// fseDecodeLiterals reads n literals written by fseEncodeLiterals: the first
// ceil(n/2) decode as the even-position stream, the remaining floor(n/2) as
// the odd-position stream, then the two are recombined by position parity.
func fseDecodeLiterals(r *bitReader, t *fseTable, n int) ([]uint16, error) {
	evenLen := (n + 1) / 2
	oddLen := n / 2
	even, err := fseDecodeSequence(r, t, evenLen)
	if err != nil {
		return nil, err
	}
	odd, err := fseDecodeSequence(r, t, oddLen)
	if err != nil {
		return nil, err
	}
	syms := make([]uint16, n)
	for i, s := range even {
		syms[2*i] = s
	}
	for i, s := range odd {
		syms[2*i+1] = s
	}
	return syms, nil
}

func splitLiteralsByParity(syms []uint16) (even, odd []uint16) {
	even = make([]uint16, (len(syms)+1)/2)
	odd = make([]uint16, len(syms)/2)
	for i, s := range syms {
		if i%2 == 0 {
			even[i/2] = s
		} else {
			odd[i/2] = s
		}
	}
	return even, odd
}
