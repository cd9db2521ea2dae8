// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

// Command xunpack decompresses XPACK container files. It is the same tool
// as xpack with -d forced on, matching the gzip/gunzip convention.
package main

import (
	"os"

	"github.com/xpack-go/xpack/internal/cli"
)

func main() {
	os.Exit(cli.Run(true))
}
