// SPDX-License-Identifier: MIT
// Source: github.com/xpack-go/xpack

// Package cli implements the xpack/xunpack command-line tools, shared by
// both entry points so that invoking the binary under either name drives
// the same flag set and container plumbing.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xpack-go/xpack/internal/container"
)

const version = "0.1.0"

type options struct {
	level      int
	decompress bool
	stdout     bool
	force      bool
	keep       bool
	list       bool
	chunkSize  uint32
	suffix     string
	verbose    bool

	exitCode int
}

// Run executes the command-line tool and returns a process exit code:
// 0 on success, 1 if any file failed or on an argument or usage error.
// Warnings that are only logged (such as an input file that could not be
// removed) leave the exit code at 0. forceDecompress selects the xunpack
// default (decompress unless -d=false is given); a binary invoked under the
// name xunpack also gets that default.
func Run(forceDecompress bool) int {
	if strings.TrimSuffix(filepath.Base(os.Args[0]), ".exe") == "xunpack" {
		forceDecompress = true
	}
	opts :=&options{suffix: "xpack", chunkSize: 4 << 20, level: 6, decompress: forceDecompress}
	cmd := newRootCmd(opts)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return opts.exitCode
}

func newRootCmd(opts *options) *cobra.Command {
	var showVersion bool

	cmd := &cobra.Command{
		Use:          "xpack [files...]",
		Short:        "Compress or decompress files with the XPACK format",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println("xpack", version)
				return nil
			}
			return run(args, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&showVersion, "version", "V", false, "print version and exit")

	levelFlags := make([]bool, 10)
	for level := 1; level <= 9; level++ {
		flags.BoolVar(&levelFlags[level], fmt.Sprintf("%d", level), false, fmt.Sprintf("compression level %d", level))
	}
	cmd.PreRunE = func(*cobra.Command, []string) error {
		for level := 9; level >= 1; level-- {
			if levelFlags[level] {
				opts.level = level
				break
			}
		}
		return nil
	}

	flags.BoolVarP(&opts.decompress, "decompress", "d", opts.decompress, "decompress")
	flags.BoolVarP(&opts.stdout, "stdout", "c", false, "write to standard output, keep input files")
	flags.BoolVarP(&opts.force, "force", "f", false, "overwrite existing output files")
	flags.BoolVarP(&opts.keep, "keep", "k", false, "keep (don't delete) input files")
	flags.BoolVarP(&opts.list, "list", "L", false, "list information about compressed files")
	flags.StringVarP(&opts.suffix, "suffix", "S", opts.suffix, "suffix for compressed files")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.Uint32VarP(&opts.chunkSize, "chunk-size", "s", opts.chunkSize, "chunk size in bytes")

	return cmd
}

func run(args []string, opts *options) error {
	log := logrus.New()
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	entry := log.WithField("component", "xpack")

	if len(args) == 0 {
		return processStream(os.Stdin, os.Stdout, opts, entry)
	}

	warned := false
	for _, path := range args {
		var err error
		if opts.list {
			err = listFile(path)
		} else {
			err = processFile(path, opts, entry)
		}
		if err != nil {
			entry.WithField("file", path).Error(err)
			warned = true
		}
	}
	if warned {
		opts.exitCode = 1
	}
	return nil
}

func listFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := container.NewReader(f)
	if err != nil {
		return err
	}
	fmt.Printf("%s: chunk_size=%s level=%d\n",
		path, humanize.Bytes(uint64(r.Header.ChunkSize)), r.Header.CompressionLevel)
	return nil
}

func processFile(path string, opts *options, log *logrus.Entry) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	outPath := outputPath(path, opts)
	var out *os.File
	if opts.stdout {
		out = os.Stdout
	} else {
		if !opts.force {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use -f to overwrite)", outPath)
			}
		}
		out, err = os.Create(outPath)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	if err := processStream(in, out, opts, log); err != nil {
		return err
	}

	if !opts.keep && !opts.stdout {
		if err := os.Remove(path); err != nil {
			log.WithField("file", path).Warn("compressed but could not remove original")
		}
	}
	return nil
}

func outputPath(path string, opts *options) string {
	if opts.decompress {
		return strings.TrimSuffix(path, "."+opts.suffix)
	}
	return path + "." + opts.suffix
}

func processStream(in io.Reader, out io.Writer, opts *options, log *logrus.Entry) error {
	if opts.decompress {
		r, err := container.NewReader(in)
		if err != nil {
			return err
		}
		n, err := io.Copy(out, r)
		if err != nil {
			return err
		}
		if opts.verbose {
			log.Infof("decompressed %s", humanize.Bytes(uint64(n)))
		}
		return nil
	}

	w, err := container.NewWriter(out, opts.level, opts.chunkSize, log)
	if err != nil {
		return err
	}
	n, err := io.Copy(w, in)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if opts.verbose {
		log.Infof("compressed %s at level %d", humanize.Bytes(uint64(n)), opts.level)
	}
	return nil
}
