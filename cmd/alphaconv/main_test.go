package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrjoshuak/go-alphaplane/alpha"
	"github.com/mrjoshuak/go-alphaplane/planeio"
)

func writeInput(t *testing.T, path string, p *planeio.Plane) {
	t.Helper()
	f, err := planeio.FormatFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := planeio.Write(&buf, p, f); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readOutput(t *testing.T, path string) *planeio.Plane {
	t.Helper()
	f, err := planeio.FormatFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	in, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	p, err := planeio.Read(in, f)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunConvertsDepthAndRange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.apln")
	out := filepath.Join(dir, "out.aplz")

	src := planeio.NewPlane(2, 2, 8, alpha.RangeFull)
	src.Set(0, 0, 0)
	src.Set(1, 0, 128)
	src.Set(0, 1, 255)
	src.Set(1, 1, 255)
	writeInput(t, in, src)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-depth", "10", in, out}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}
	got := readOutput(t, out)
	want := []int{0, 514, 1023, 1023}
	for i, w := range want {
		if v := got.At(i%2, i/2); v != w {
			t.Errorf("sample %d = %d, want %d", i, v, w)
		}
	}
}

func TestRunSourceRangeOverride(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.apln")

	src := planeio.NewPlane(1, 1, 16, alpha.RangeFull)
	writeInput(t, in, src)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-src-range", "limited", "-range", "full", in, out}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}
	got := readOutput(t, out)
	if got.Depth != 16 || got.Range != alpha.RangeFull || got.At(0, 0) != 0 {
		t.Errorf("output = depth %d, range %v, sample %d; want 16, full, 0", got.Depth, got.Range, got.At(0, 0))
	}
}

func TestRunOpaque(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.apln")
	out := filepath.Join(dir, "out.zst")
	writeInput(t, in, planeio.NewPlane(3, 40, 8, alpha.RangeFull))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-opaque", "-depth", "10", "-range", "limited", "-workers", "2", in, out}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}
	got := readOutput(t, out)
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			if v := got.At(x, y); v != 940 {
				t.Fatalf("sample (%d,%d) = %d, want 940", x, y, v)
			}
		}
	}
}

func TestRunVerboseLogsKernel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.apln")
	out := filepath.Join(dir, "out.apln")
	writeInput(t, in, planeio.NewPlane(2, 2, 12, alpha.RangeLimited))

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v", "-depth", "8", in, out}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "tofull+rescale/wide->narrow") {
		t.Errorf("verbose output missing kernel name:\n%s", stderr.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no files", nil},
		{"one file", []string{"a.apln"}},
		{"bad depth", []string{"-depth", "17", "a.apln", "b.apln"}},
		{"bad range", []string{"-range", "wide", "a.apln", "b.apln"}},
		{"bad workers", []string{"-workers", "-1", "a.apln", "b.apln"}},
		{"unknown flag", []string{"-x", "a.apln", "b.apln"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != exitUsage {
				t.Errorf("run(%q) = %d, want %d", tt.args, code, exitUsage)
			}
		})
	}
}

func TestRunConversionErrors(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(dir, "missing.apln")
	if code := run([]string{missing, filepath.Join(dir, "out.apln")}, &stdout, &stderr); code != exitError {
		t.Errorf("missing input: run() = %d, want %d", code, exitError)
	}
	if code := run([]string{"in.exr", "out.apln"}, &stdout, &stderr); code != exitError {
		t.Errorf("unknown format: run() = %d, want %d", code, exitError)
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("run(-version) = %d", code)
	}
	if !strings.Contains(stdout.String(), version) {
		t.Errorf("version output = %q", stdout.String())
	}
}
