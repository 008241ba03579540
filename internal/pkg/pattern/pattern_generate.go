//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package pattern

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

const (
	// TiledPreviewWidth is the physical width in inches of the preview of a tiled substrate
	TiledPreviewWidth = 3.0

	// SinglePreviewWidth is the physical width in inches of the preview of a single domain
	SinglePreviewWidth = 1.0

	// SingleDomainBasename is the root of the files describing a single domain
	SingleDomainBasename = "singleDomain"

	griddedSuffix = ".gpdat"
	imageSuffix   = ".png"
)

// PreviewOptions describes how a domain is rendered
type PreviewOptions struct {
	// WidthInches is the physical width of the image; the resolution is chosen so that
	// every cell is one pixel
	WidthInches float64

	// Gray selects a grayscale colormap instead of the default one
	Gray bool
}

// DPI returns the resolution giving one pixel per cell for a domain with cols columns
func (o PreviewOptions) DPI(cols int) float64 {
	return float64(cols) / o.WidthInches
}

// Previewer renders a domain into a PNG image. Implementations that cannot render anything
// on the current system return an error of the errors.ErrImagingUnavailable class and
// create no file.
type Previewer interface {
	Preview(path string, d *Domain, opts PreviewOptions) error
}

// Energies are the parameters of the ramp of a domain
type Energies struct {
	EdgeEnergy float64
	MidEnergy  float64
	HalfWidth  int
}

// TiledConfig is the configuration of the generation of a tiled substrate
type TiledConfig struct {
	Energies

	// RowTiles and ColTiles are the number of domains along i and j
	RowTiles int
	ColTiles int

	// Source optionally names a flat domain file to tile instead of building a ramp
	Source string

	OutputDir string

	// Diagnostics receives the messages meant for the user
	Diagnostics io.Writer
}

// SingleConfig is the configuration of the generation of a single domain
type SingleConfig struct {
	Energies
	OutputDir   string
	Diagnostics io.Writer
}

// Result lists the files that were created
type Result struct {
	Domain      *Domain
	FlatFile    string
	GriddedFile string
	ImageFile   string
}

// TiledBasename returns the root of the names of the files describing a tiled substrate
func TiledBasename(rowTiles, colTiles int) string {
	return fmt.Sprintf("tiled%dx%dDomain", rowTiles, colTiles)
}

func (cfg *TiledConfig) setDefaults() {
	if cfg.RowTiles == 0 {
		cfg.RowTiles = DefaultTiles
	}
	if cfg.ColTiles == 0 {
		cfg.ColTiles = cfg.RowTiles
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = io.Discard
	}
}

func (cfg *SingleConfig) setDefaults() {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = io.Discard
	}
}

// preview renders the image of a domain. A missing imaging capability is reported to the
// user and is not an error; the returned path is empty when no image was created.
func preview(p Previewer, path string, d *Domain, opts PreviewOptions, diagnostics io.Writer) (string, error) {
	if p == nil {
		log.Printf("No previewer, %s is not created\n", path)
		return "", nil
	}

	err := p.Preview(path, d, opts)
	if err != nil {
		if errors.Is(err, errors.ErrImagingUnavailable) {
			fmt.Fprintf(diagnostics, "Imaging not available (%s). Not saving to PNG.\n", err)
			return "", nil
		}
		return "", err
	}
	log.Printf("Preview saved in %s\n", path)
	return path, nil
}

// GenerateTiled builds a ramp domain, or loads one, tiles it and writes the flat file, the
// gridded file and the grayscale preview of the result.
func GenerateTiled(cfg TiledConfig, p Previewer) (*Result, error) {
	cfg.setDefaults()

	var tile *Domain
	var err error
	if cfg.Source != "" {
		tile, err = ReadFlatFile(cfg.Source)
	} else {
		tile, err = BuildRamp(cfg.EdgeEnergy, cfg.MidEnergy, cfg.HalfWidth)
	}
	if err != nil {
		return nil, err
	}

	d, err := tile.Tile(cfg.RowTiles, cfg.ColTiles)
	if err != nil {
		return nil, err
	}
	log.Printf("Tiled domain is %dx%d\n", d.Rows(), d.Cols())

	res := new(Result)
	res.Domain = d
	base := filepath.Join(cfg.OutputDir, TiledBasename(cfg.RowTiles, cfg.ColTiles))
	res.FlatFile = base + format.DataFileSuffix
	err = writeFile(res.FlatFile, d, WriteFlat)
	if err != nil {
		return nil, err
	}
	res.GriddedFile = base + griddedSuffix
	err = writeFile(res.GriddedFile, d, WriteGridded)
	if err != nil {
		return nil, err
	}

	res.ImageFile, err = preview(p, base+imageSuffix, d, PreviewOptions{WidthInches: TiledPreviewWidth, Gray: true}, cfg.Diagnostics)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// GenerateSingle builds a ramp domain and writes its flat file and its preview
func GenerateSingle(cfg SingleConfig, p Previewer) (*Result, error) {
	cfg.setDefaults()

	d, err := BuildRamp(cfg.EdgeEnergy, cfg.MidEnergy, cfg.HalfWidth)
	if err != nil {
		return nil, err
	}

	res := new(Result)
	res.Domain = d
	base := filepath.Join(cfg.OutputDir, SingleDomainBasename)
	res.FlatFile = base + format.DataFileSuffix
	err = writeFile(res.FlatFile, d, WriteFlat)
	if err != nil {
		return nil, err
	}

	res.ImageFile, err = preview(p, base+imageSuffix, d, PreviewOptions{WidthInches: SinglePreviewWidth}, cfg.Diagnostics)
	if err != nil {
		return nil, err
	}

	return res, nil
}
