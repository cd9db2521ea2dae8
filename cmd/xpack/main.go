// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

// Command xpack compresses files with the XPACK container format.
package main

import (
	"os"

	"github.com/xpack-go/xpack/internal/cli"
)

func main() {
	os.Exit(cli.Run(false))
}
