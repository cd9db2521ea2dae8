// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

package cli

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
)

func TestOutputPath(t *testing.T) {
	compress := &options{suffix: "xpack"}
	assert.Equal(t, outputPath("report.txt", compress), "report.txt.xpack")

	decompress := &options{suffix: "xpack", decompress: true}
	assert.Equal(t, outputPath("report.txt.xpack", decompress), "report.txt")
}

func TestProcessStreamRoundTrip(t *testing.T) {
	opts := &options{level: 6, chunkSize: minTestChunkSize}
	src := bytes.Repeat([]byte("xpack cli round trip "), 500)

	var packed bytes.Buffer
	assert.NilError(t, processStream(bytes.NewReader(src), &packed, opts, nil))

	var out bytes.Buffer
	opts.decompress = true
	assert.NilError(t, processStream(&packed, &out, opts, nil))
	assert.DeepEqual(t, out.Bytes(), src)
}

const minTestChunkSize = 1024
