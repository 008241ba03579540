//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/grid"
)

// GrayImage converts a grid into a grayscale image, one pixel per cell: row i of the grid is
// row i of the image. Values are linearly scaled so the smallest value is black and the
// largest is white, with 256 equal-width gray levels; a uniform grid is entirely black.
func GrayImage(g *grid.Grid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Cols(), g.Rows()))
	min, max := g.MinMax()
	if min == max {
		return img
	}

	scale := 256.0 / float64(max-min)
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			v := int(float64(g.At(i, j)-min) * scale)
			if v > 255 {
				v = 255
			}
			img.SetGray(j, i, color.Gray{Y: uint8(v)})
		}
	}
	return img
}

// WritePNG saves the grayscale image of a grid
func WritePNG(path string, g *grid.Grid) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(file, GrayImage(g))
	if err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
