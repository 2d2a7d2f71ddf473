// alphaconv converts an alpha plane between bit depths and sample ranges.
//
// The input and output formats are chosen from the file extensions:
//
//	.apln         raw plane
//	.aplz         raw plane, zlib compressed
//	.zst          raw plane, zstd compressed
//	.png          grayscale PNG (or the alpha channel of an RGBA PNG)
//	.tif, .tiff   grayscale TIFF
//	.j2k, .j2c    lossless JPEG 2000 codestream
//	.jhc          lossless HTJ2K codestream
//
// Usage:
//
//	alphaconv [options] infile outfile
//
// Options:
//
//	-depth N       destination bit depth, 1-16 (default: source depth)
//	-range R       destination range: full or limited (default: full)
//	-src-range R   source range, overriding the one stored in the input
//	-opaque        write a fully opaque plane the size of the input
//	-workers N     goroutines converting row bands (0: all CPUs)
//	-v             verbose output
//	-version       show version information
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mrjoshuak/go-alphaplane/alpha"
	"github.com/mrjoshuak/go-alphaplane/planeio"
)

const version = "1.0.0"

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// rangeFlag is a flag.Value holding an alpha.Range.
type rangeFlag struct {
	r   alpha.Range
	set bool
}

func (f *rangeFlag) String() string {
	if f == nil {
		return ""
	}
	return f.r.String()
}

func (f *rangeFlag) Set(s string) error {
	r, err := alpha.ParseRange(s)
	if err != nil {
		return err
	}
	f.r, f.set = r, true
	return nil
}

type options struct {
	depth    int
	dstRange rangeFlag
	srcRange rangeFlag
	opaque   bool
	workers  int
	verbose  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("alphaconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.depth, "depth", 0, "destination bit depth, 1-16 (default: source depth)")
	fs.Var(&opts.dstRange, "range", "destination range: full or limited")
	fs.Var(&opts.srcRange, "src-range", "source range, overriding the input's")
	fs.BoolVar(&opts.opaque, "opaque", false, "write a fully opaque plane")
	fs.IntVar(&opts.workers, "workers", 0, "goroutines converting row bands (0: all CPUs)")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	showVersion := fs.Bool("version", false, "show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: alphaconv [options] infile outfile\n\n")
		fmt.Fprintf(stderr, "Convert an alpha plane between bit depths and sample ranges.\n")
		fmt.Fprintf(stderr, "File formats are chosen by extension: .apln, .aplz, .zst, .png, .tif, .j2k, .jhc\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "alphaconv version %s\n", version)
		return exitOK
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}
	if opts.depth != 0 && (opts.depth < 1 || opts.depth > 16) {
		fmt.Fprintf(stderr, "Error: invalid depth %d, must be 1-16\n", opts.depth)
		return exitUsage
	}
	if opts.workers < 0 {
		fmt.Fprintf(stderr, "Error: invalid worker count %d\n", opts.workers)
		return exitUsage
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	alpha.SetLogger(logger)
	defer alpha.SetLogger(nil)

	if err := convert(fs.Arg(0), fs.Arg(1), &opts, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func convert(inFile, outFile string, opts *options, logger *slog.Logger) error {
	inFormat, err := planeio.FormatFromPath(inFile)
	if err != nil {
		return err
	}
	outFormat, err := planeio.FormatFromPath(outFile)
	if err != nil {
		return err
	}

	src, err := readPlane(inFile, inFormat)
	if err != nil {
		return err
	}
	if opts.srcRange.set {
		src.Range = opts.srcRange.r
	}
	logger.Debug("read plane", "file", inFile, "format", inFormat,
		"width", src.Width, "height", src.Height, "depth", src.Depth, "range", src.Range)

	depth := opts.depth
	if depth == 0 {
		depth = src.Depth
	}
	dstRange := alpha.RangeFull
	if opts.dstRange.set {
		dstRange = opts.dstRange.r
	}

	var dst *planeio.Plane
	if opts.opaque {
		dst = planeio.NewPlane(src.Width, src.Height, depth, dstRange)
		d := dst.Target()
		planeio.FillOpaqueParallel(&d, opts.workers)
	} else {
		dst, err = planeio.Convert(src, depth, dstRange, opts.workers)
		if err != nil {
			return err
		}
	}

	if err := writePlane(outFile, dst, outFormat); err != nil {
		return err
	}
	logger.Debug("wrote plane", "file", outFile, "format", outFormat,
		"depth", dst.Depth, "range", dst.Range)
	return nil
}

func readPlane(path string, f planeio.Format) (*planeio.Plane, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input file: %w", err)
	}
	defer in.Close()
	p, err := planeio.Read(in, f)
	if err != nil {
		return nil, fmt.Errorf("cannot read input file: %w", err)
	}
	return p, nil
}

func writePlane(path string, p *planeio.Plane, f planeio.Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if err := planeio.Write(out, p, f); err != nil {
		out.Close()
		return fmt.Errorf("cannot write output file: %w", err)
	}
	return out.Close()
}
