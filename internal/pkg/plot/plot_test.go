//
// Copyright (c) 2020-2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package plot

import (
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/pattern"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

func TestFindGnuplot(t *testing.T) {
	_, err := FindGnuplot(filepath.Join(t.TempDir(), "gnuplot"))
	if !errors.Is(err, errors.ErrImagingUnavailable) {
		t.Fatalf("FindGnuplot() with a missing binary returned %v", err)
	}

	_, lookupErr := exec.LookPath(GnuplotBinary)
	path, err := FindGnuplot("")
	if lookupErr != nil {
		if !errors.Is(err, errors.ErrImagingUnavailable) {
			t.Fatalf("FindGnuplot() returned %v while gnuplot is not in PATH", err)
		}
		return
	}
	if err != nil || path == "" {
		t.Fatalf("FindGnuplot() failed: %v", err)
	}
}

func TestWriteCoverageScript(t *testing.T) {
	dir := t.TempDir()
	script, err := WriteCoverageScript(dir)
	if err != nil {
		t.Fatalf("WriteCoverageScript() failed: %s", err)
	}
	content, err := ioutil.ReadFile(script)
	if err != nil {
		t.Fatalf("ReadFile() failed: %s", err)
	}
	for _, expected := range []string{
		"set output \"coverage.png\"",
		"plot \"coverage.dat\" using 2:3",
		"\"coverage.dat\" using 2:4 axes x1y2",
	} {
		if !strings.Contains(string(content), expected) {
			t.Fatalf("script does not contain %q:\n%s", expected, string(content))
		}
	}

	_, err = CoveragePlot(filepath.Join(dir, "nognuplot"), dir)
	if !errors.Is(err, errors.ErrImagingUnavailable) {
		t.Fatalf("CoveragePlot() without gnuplot returned %v", err)
	}
	if !util.FileExists(script) {
		t.Fatalf("script was removed")
	}
}

func TestPreviewScript(t *testing.T) {
	d, err := pattern.BuildRamp(0, 1, 2)
	if err != nil {
		t.Fatalf("BuildRamp() failed: %s", err)
	}

	tests := []struct {
		opts     pattern.PreviewOptions
		expected []string
	}{
		{
			opts:     pattern.PreviewOptions{WidthInches: 3, Gray: true},
			expected: []string{"set term png size 4,4", "set palette gray", "set yrange [3.5:-0.5]", "1 1 1\n", "plot $domain using 2:1:3 with image"},
		},
		{
			opts:     pattern.PreviewOptions{WidthInches: 1},
			expected: []string{"set palette rgbformulae 7,5,15", "0 3 0\n", "EOD\n"},
		},
	}

	for _, tt := range tests {
		script := previewScript("/tmp/out.png", d, tt.opts)
		for _, e := range tt.expected {
			if !strings.Contains(script, e) {
				t.Fatalf("script does not contain %q:\n%s", e, script)
			}
		}
	}
}

func TestHeatmapPreviewer(t *testing.T) {
	tests := []struct {
		halfWidth int
		tiles     int
		opts      pattern.PreviewOptions
	}{
		{halfWidth: 11, tiles: 1, opts: pattern.PreviewOptions{WidthInches: pattern.SinglePreviewWidth}},
		{halfWidth: 11, tiles: 2, opts: pattern.PreviewOptions{WidthInches: pattern.TiledPreviewWidth, Gray: true}},
		{halfWidth: 3, tiles: 4, opts: pattern.PreviewOptions{WidthInches: pattern.TiledPreviewWidth, Gray: true}},
	}

	dir := t.TempDir()
	for idx, tt := range tests {
		d, err := pattern.BuildRamp(0.65, 0.85, tt.halfWidth)
		if err != nil {
			t.Fatalf("BuildRamp() failed: %s", err)
		}
		d, err = d.Tile(tt.tiles, tt.tiles)
		if err != nil {
			t.Fatalf("Tile() failed: %s", err)
		}

		path := filepath.Join(dir, "preview"+string(rune('a'+idx))+".png")
		err = HeatmapPreviewer{}.Preview(path, d, tt.opts)
		if err != nil {
			t.Fatalf("Preview() failed: %s", err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("os.Open() failed: %s", err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("png.Decode() failed: %s", err)
		}
		if img.Bounds().Dx() != d.Cols() || img.Bounds().Dy() != d.Rows() {
			t.Fatalf("image is %dx%d instead of %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), d.Cols(), d.Rows())
		}
		if !tt.opts.Gray {
			continue
		}

		// Every tile is black on its border and white in its center
		last := d.Cols() - 1
		for k := 0; k <= last; k++ {
			for _, p := range [][2]int{{k, 0}, {0, k}, {k, last}, {last, k}} {
				if y := grayAt(img, p[0], p[1]); y != 0 {
					t.Fatalf("border pixel (%d, %d) is %d instead of 0", p[0], p[1], y)
				}
			}
		}
		size := 2 * tt.halfWidth
		for r := 0; r < tt.tiles; r++ {
			center := r*size + tt.halfWidth
			if y := grayAt(img, center, center); y != 255 {
				t.Fatalf("center pixel (%d, %d) is %d instead of 255", center, center, y)
			}
			if y := grayAt(img, r*size, r*size); y != 0 {
				t.Fatalf("corner pixel (%d, %d) is %d instead of 0", r*size, r*size, y)
			}
		}
		if y := grayAt(img, 1, 1); y == 0 || y == 255 {
			t.Fatalf("pixel (1, 1) is %d, expected an intermediate level", y)
		}
	}
}

func grayAt(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}

func TestColorIndex(t *testing.T) {
	tests := []struct {
		v        float64
		min      float64
		max      float64
		expected int
	}{
		{v: 0.65, min: 0.65, max: 0.85, expected: 0},
		{v: 0.85, min: 0.65, max: 0.85, expected: 255},
		{v: 1, min: 0, max: 10, expected: 25},
		{v: 5, min: 0, max: 10, expected: 128},
		{v: 2, min: 2, max: 2, expected: 0},
	}

	for _, tt := range tests {
		idx := colorIndex(tt.v, tt.min, tt.max, numColors)
		if idx != tt.expected {
			t.Fatalf("colorIndex(%g, %g, %g) = %d instead of %d", tt.v, tt.min, tt.max, idx, tt.expected)
		}
	}
}

func TestHeatmapPreviewerUniform(t *testing.T) {
	d, err := pattern.NewDomain(2, 3, []float64{0.7, 0.7, 0.7, 0.7, 0.7, 0.7})
	if err != nil {
		t.Fatalf("NewDomain() failed: %s", err)
	}
	img := domainImage(d, newGrayPalette(numColors))
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if y := grayAt(img, j, i); y != 0 {
				t.Fatalf("pixel (%d, %d) of a uniform domain is %d", j, i, y)
			}
		}
	}
}

func TestGnuplotPreviewerUnavailable(t *testing.T) {
	dir := t.TempDir()
	d, err := pattern.BuildRamp(0.65, 0.85, 2)
	if err != nil {
		t.Fatalf("BuildRamp() failed: %s", err)
	}
	path := filepath.Join(dir, "preview.png")
	p := GnuplotPreviewer{Bin: filepath.Join(dir, "gnuplot")}
	err = p.Preview(path, d, pattern.PreviewOptions{WidthInches: 1})
	if !errors.Is(err, errors.ErrImagingUnavailable) {
		t.Fatalf("Preview() without gnuplot returned %v", err)
	}
	if util.PathExists(path) {
		t.Fatalf("an image was created without gnuplot")
	}
}

func TestNewPreviewer(t *testing.T) {
	tests := []struct {
		name        string
		expectError bool
		expectNil   bool
	}{
		{name: "plot"},
		{name: "gnuplot"},
		{name: "none", expectNil: true},
		{name: "matplotlib", expectError: true},
	}

	for _, tt := range tests {
		p, err := NewPreviewer(tt.name)
		if tt.expectError {
			if err == nil {
				t.Fatalf("NewPreviewer(%s) succeeded while expected to fail", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewPreviewer() failed: %s", err)
		}
		if (p == nil) != tt.expectNil {
			t.Fatalf("NewPreviewer(%s) returned %v", tt.name, p)
		}
	}
}
