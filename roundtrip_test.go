// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	"pgregory.net/rapid"
)

func compressDecompress(t testing.TB, level int, src []byte) []byte {
	t.Helper()
	packed, err := CompressAppend(nil, src, level)
	assert.NilError(t, err)

	d := NewDecompressor()
	dst := make([]byte, len(src))
	n, err := d.Decompress(dst, packed)
	assert.NilError(t, err)
	assert.Equal(t, n, len(src))
	return dst[:n]
}

func TestRoundTripFixedCorpus(t *testing.T) {
	corpus := map[string][]byte{
		"empty":      {},
		"one-byte":   {0x42},
		"repeated":   bytes.Repeat([]byte("ab"), 5000),
		"all-zero":   make([]byte, 10000),
		"incompress": randomBytes(20000, 1),
		"text": bytes.Repeat([]byte(
			"the quick brown fox jumps over the lazy dog. "), 2000),
		"short-matches": bytes.Repeat([]byte{1, 2, 3, 1, 2, 4, 1, 2, 3, 5}, 3000),
	}

	for name, src := range corpus {
		for level := 1; level <= 9; level++ {
			src, level := src, level
			t.Run(name, func(t *testing.T) {
				got := compressDecompress(t, level, src)
				assert.DeepEqual(t, got, src)
			})
		}
	}
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := rapid.SliceOfN(rapid.Byte(), 0, 4096).Draw(t, "src")
		level := rapid.IntRange(1, 9).Draw(t, "level")

		packed, err := CompressAppend(nil, src, level)
		assert.NilError(t, err)

		out, err := DecompressExact(packed, len(src))
		assert.NilError(t, err)
		assert.DeepEqual(t, out, src)
	})
}

func TestCompressShortDstFallsBack(t *testing.T) {
	src := randomBytes(4096, 2)
	c, err := NewCompressor(len(src), 6, CompressOptions{})
	assert.NilError(t, err)
	dst := make([]byte, 4)
	_, ok := c.Compress(dst, src)
	assert.Equal(t, ok, false)
}

func TestNewCompressorRejectsBadLevel(t *testing.T) {
	_, err := NewCompressor(1024, 0, CompressOptions{})
	assert.ErrorIs(t, err, ErrInvalidLevel)
	_, err = NewCompressor(1024, 10, CompressOptions{})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

// TestRoundTripConsistentAcrossLevels compresses the same input at every
// level and checks that all nine decode back to byte-identical output,
// using cmp.Diff for a readable report of exactly where two runs diverge.
func TestRoundTripConsistentAcrossLevels(t *testing.T) {
	src := bytes.Repeat([]byte("xpack levels should agree on decoded content. "), 800)
	want := compressDecompress(t, 1, src)
	for level := 2; level <= 9; level++ {
		got := compressDecompress(t, level, src)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("level %d decoded output differs from level 1 (-want +got):\n%s", level, diff)
		}
	}
}

func TestDecompressRejectsCorruptStream(t *testing.T) {
	src := []byte("a reasonably long sentence repeated. a reasonably long sentence repeated.")
	packed, err := CompressAppend(nil, src, 6)
	assert.NilError(t, err)

	corrupt := append([]byte(nil), packed...)
	corrupt[1] = 0xFF // invalid mode byte (corrupt[0] is the stream flags byte)
	_, err = DecompressExact(corrupt, len(src))
	assert.ErrorIs(t, err, ErrCorrupt)
}
