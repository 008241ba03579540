//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package pattern

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultEdgeEnergy is the energy at the edges of a domain
	DefaultEdgeEnergy = 0.65

	// DefaultMidEnergy is the energy at the center of a domain
	DefaultMidEnergy = 0.85

	// DefaultHalfWidth is the number of ramp values between the edge and the center of a domain
	DefaultHalfWidth = 11

	// DefaultTiles is the number of domains along each edge of a tiled substrate
	DefaultTiles = 16
)

// Domain is an immutable 2D array of substrate energies
type Domain struct {
	rows   int
	cols   int
	values []float64
}

// NewDomain creates a domain from row-major values
func NewDomain(rows, cols int, values []float64) (*Domain, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid domain size %dx%d", rows, cols)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("%d values for a %dx%d domain", len(values), rows, cols)
	}
	d := new(Domain)
	d.rows = rows
	d.cols = cols
	d.values = make([]float64, len(values))
	copy(d.values, values)
	return d, nil
}

// BuildRamp creates a 2*halfWidth x 2*halfWidth domain whose energy rises linearly from
// edgeEnergy on the border to midEnergy in the center. Each axis is folded around its middle
// and the smallest of the two folded indices selects the ramp value, which gives concentric
// square contours.
func BuildRamp(edgeEnergy float64, midEnergy float64, halfWidth int) (*Domain, error) {
	if halfWidth < 2 {
		return nil, fmt.Errorf("half-width must be at least 2 (got %d)", halfWidth)
	}

	spacing := 1.0 / float64(halfWidth-1)
	ramp := make([]float64, halfWidth)
	for k := range ramp {
		ramp[k] = float64(k) * spacing
	}

	size := 2 * halfWidth
	preFac := midEnergy - edgeEnergy
	d := new(Domain)
	d.rows = size
	d.cols = size
	d.values = make([]float64, size*size)
	for i := 0; i < size; i++ {
		wi := i
		if wi >= halfWidth {
			wi = size - 1 - wi
		}
		for j := 0; j < size; j++ {
			wj := j
			if wj >= halfWidth {
				wj = size - 1 - wj
			}
			idx := wi
			if wj < wi {
				idx = wj
			}
			d.values[i*size+j] = preFac*ramp[idx] + edgeEnergy
		}
	}

	return d, nil
}

func (d *Domain) Rows() int {
	return d.rows
}

func (d *Domain) Cols() int {
	return d.cols
}

// At returns the energy of the (i, j) cell
func (d *Domain) At(i, j int) float64 {
	return d.values[i*d.cols+j]
}

// Min returns the smallest energy of the domain
func (d *Domain) Min() float64 {
	return floats.Min(d.values)
}

// Max returns the largest energy of the domain
func (d *Domain) Max() float64 {
	return floats.Max(d.values)
}

// Tile repeats the domain rowReps times along i and colReps times along j
func (d *Domain) Tile(rowReps, colReps int) (*Domain, error) {
	if rowReps <= 0 || colReps <= 0 {
		return nil, fmt.Errorf("invalid tiling %dx%d", rowReps, colReps)
	}
	t := new(Domain)
	t.rows = d.rows * rowReps
	t.cols = d.cols * colReps
	t.values = make([]float64, t.rows*t.cols)
	for i := 0; i < t.rows; i++ {
		src := d.values[(i%d.rows)*d.cols : (i%d.rows+1)*d.cols]
		for r := 0; r < colReps; r++ {
			copy(t.values[i*t.cols+r*d.cols:], src)
		}
	}
	return t, nil
}
