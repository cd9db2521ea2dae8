// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package xpack

// levelParams holds the match-finder and parser tuning for one compression
// level how hard the hash chain is walked, when it's worth
// giving up early, and which parser drives the search.
type levelParams struct {
	use3ByteHash bool // also index/search the 3-byte hash chain
	lazy         int  // 0 = greedy, 1 = lazy (1-ahead), 2 = lazy (2-ahead)
	goodLength   int  // once a match reaches this length, cap remaining chain probes at this position
	niceLength   int  // accept immediately once a match reaches this length
	maxChainLen  int  // maximum hash-chain probes per position
}

// fixedLevels defines parameters for compression levels 1..9. Lower levels
// favor speed (greedy parsing, short chains); higher levels spend more time
// walking chains and look further ahead before committing to a match.
var fixedLevels = [9]levelParams{
	{use3ByteHash: false, lazy: 0, goodLength: 0, niceLength: 8, maxChainLen: 4},
	{use3ByteHash: false, lazy: 0, goodLength: 0, niceLength: 16, maxChainLen: 8},
	{use3ByteHash: false, lazy: 0, goodLength: 0, niceLength: 32, maxChainLen: 16},
	{use3ByteHash: true, lazy: 1, goodLength: 4, niceLength: 16, maxChainLen: 32},
	{use3ByteHash: true, lazy: 1, goodLength: 8, niceLength: 32, maxChainLen: 64},
	{use3ByteHash: true, lazy: 1, goodLength: 8, niceLength: 128, maxChainLen: 128},
	{use3ByteHash: true, lazy: 2, goodLength: 16, niceLength: 128, maxChainLen: 256},
	{use3ByteHash: true, lazy: 2, goodLength: 32, niceLength: int(maxMatchLen), maxChainLen: 1024},
	{use3ByteHash: true, lazy: 2, goodLength: 64, niceLength: int(maxMatchLen), maxChainLen: 4096},
}

// levelFor returns the tuning parameters for level (1..9), clamped.
func levelFor(level int) levelParams {
	if level < 1 {
		level = 1
	}
	if level > 9 {
		level = 9
	}
	return fixedLevels[level-1]
}
