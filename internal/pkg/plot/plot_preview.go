//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/pattern"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
	"gonum.org/v1/plot/palette"
)

const numColors = 256

// grayPalette goes from black to white
type grayPalette []color.Color

func (p grayPalette) Colors() []color.Color {
	return p
}

func newGrayPalette(n int) grayPalette {
	p := make(grayPalette, n)
	for idx := range p {
		y := uint8(idx * 255 / (n - 1))
		p[idx] = color.Gray{Y: y}
	}
	return p
}

// colorIndex maps a value of [min, max] to one of n colors; a uniform domain gets the first one
func colorIndex(v, min, max float64, n int) int {
	if max <= min {
		return 0
	}
	idx := int((v - min) / (max - min) * float64(n))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// domainImage paints a domain with a palette, one pixel per cell: row i of the domain is row
// i of the image, the lowest energy gets the first color and the highest the last one.
func domainImage(d *pattern.Domain, pal palette.Palette) *image.RGBA {
	colors := pal.Colors()
	img := image.NewRGBA(image.Rect(0, 0, d.Cols(), d.Rows()))
	min := d.Min()
	max := d.Max()
	for i := 0; i < d.Rows(); i++ {
		for j := 0; j < d.Cols(); j++ {
			img.Set(j, i, colors[colorIndex(d.At(i, j), min, max, len(colors))])
		}
	}
	return img
}

// HeatmapPreviewer renders domains with gonum's palettes, one pixel per cell
type HeatmapPreviewer struct{}

func (p HeatmapPreviewer) Preview(path string, d *pattern.Domain, opts pattern.PreviewOptions) error {
	var pal palette.Palette
	if opts.Gray {
		pal = newGrayPalette(numColors)
	} else {
		pal = palette.Heat(numColors, 1)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	err = png.Encode(f, domainImage(d, pal))
	if err != nil {
		f.Close()
		return errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	err = f.Close()
	if err != nil {
		return errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	log.Printf("Preview %s: %dx%d pixels, %g in wide at %g dpi\n", path, d.Cols(), d.Rows(), opts.WidthInches, opts.DPI(d.Cols()))
	return nil
}

// GnuplotPreviewer renders domains by running gnuplot. Bin optionally overrides the lookup of
// the gnuplot binary in PATH.
type GnuplotPreviewer struct {
	Bin string
}

func previewScript(path string, d *pattern.Domain, opts pattern.PreviewOptions) string {
	var str strings.Builder
	str.WriteString(fmt.Sprintf("set term png size %d,%d\n", d.Cols(), d.Rows()))
	str.WriteString(fmt.Sprintf("set output \"%s\"\n", path))
	str.WriteString("unset key\nunset colorbox\nunset border\nunset tics\n")
	str.WriteString("set margins 0,0,0,0\n")
	if opts.Gray {
		str.WriteString("set palette gray\n")
	} else {
		str.WriteString("set palette rgbformulae 7,5,15\n")
	}
	str.WriteString(fmt.Sprintf("set xrange [-0.5:%g]\n", float64(d.Cols())-0.5))
	str.WriteString(fmt.Sprintf("set yrange [%g:-0.5]\n", float64(d.Rows())-0.5))
	str.WriteString("$domain << EOD\n")
	for i := 0; i < d.Rows(); i++ {
		for j := 0; j < d.Cols(); j++ {
			str.WriteString(fmt.Sprintf("%d %d %s\n", i, j, format.Float(d.At(i, j))))
		}
	}
	str.WriteString("EOD\n")
	str.WriteString("plot $domain using 2:1:3 with image\n")
	return str.String()
}

func (p GnuplotPreviewer) Preview(path string, d *pattern.Domain, opts pattern.PreviewOptions) error {
	gnuplotBin, err := FindGnuplot(p.Bin)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	tempDir, err := os.MkdirTemp("", "preview")
	if err != nil {
		return errors.New(errors.ErrFatal, err)
	}
	defer os.RemoveAll(tempDir)

	script := filepath.Join(tempDir, "preview.gp")
	err = os.WriteFile(script, []byte(previewScript(absPath, d, opts)), 0644)
	if err != nil {
		return errors.NewAt(errors.ErrFatal, err, script, 0)
	}

	return RunGnuplot(gnuplotBin, tempDir, script)
}

const (
	// PreviewPlot selects HeatmapPreviewer
	PreviewPlot = "plot"

	// PreviewGnuplot selects GnuplotPreviewer
	PreviewGnuplot = "gnuplot"

	// PreviewNone disables previews
	PreviewNone = "none"
)

// NewPreviewer returns the previewer matching a name; PreviewNone gives a nil previewer
func NewPreviewer(name string) (pattern.Previewer, error) {
	switch name {
	case PreviewPlot:
		return HeatmapPreviewer{}, nil
	case PreviewGnuplot:
		return GnuplotPreviewer{}, nil
	case PreviewNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown preview method %s", name)
}
