//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package grid

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Bounds is the half-open planar bounding box [IStart,IEnd) x [JStart,JEnd) of a set of cells
type Bounds struct {
	IStart int
	IEnd   int
	JStart int
	JEnd   int
}

// Rows returns the extent of the bounds along i
func (b Bounds) Rows() int {
	return b.IEnd - b.IStart
}

// Cols returns the extent of the bounds along j
func (b Bounds) Cols() int {
	return b.JEnd - b.JStart
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", b.IStart, b.IEnd, b.JStart, b.JEnd)
}

// Union returns the smallest bounds including all the given bounds: the minimum of the
// starts and the maximum of the ends along each axis.
func Union(list []Bounds) (Bounds, error) {
	if len(list) == 0 {
		return Bounds{}, fmt.Errorf("no bounds to merge")
	}
	u := list[0]
	for _, b := range list[1:] {
		if b.IStart < u.IStart {
			u.IStart = b.IStart
		}
		if b.IEnd > u.IEnd {
			u.IEnd = b.IEnd
		}
		if b.JStart < u.JStart {
			u.JStart = b.JStart
		}
		if b.JEnd > u.JEnd {
			u.JEnd = b.JEnd
		}
	}
	return u, nil
}

// Grid is a 2D array of per-cell particle counts. Cells are addressed with absolute (i, j)
// indices starting at 0.
type Grid struct {
	rows  int
	cols  int
	cells []uint8
}

// New allocates a zeroed grid
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid size %dx%d", rows, cols)
	}
	g := new(Grid)
	g.rows = rows
	g.cols = cols
	g.cells = make([]uint8, rows*cols)
	return g, nil
}

// FromBounds allocates a zeroed grid with the size of the bounds
func FromBounds(b Bounds) (*Grid, error) {
	return New(b.Rows(), b.Cols())
}

func (g *Grid) Rows() int {
	return g.rows
}

func (g *Grid) Cols() int {
	return g.cols
}

// Size is the number of cells of the grid
func (g *Grid) Size() int {
	return g.rows * g.cols
}

func (g *Grid) inside(i, j int) bool {
	return i >= 0 && i < g.rows && j >= 0 && j < g.cols
}

// Set stores the value of the (i, j) cell
func (g *Grid) Set(i, j int, v uint8) error {
	if !g.inside(i, j) {
		return fmt.Errorf("cell (%d, %d) is outside of the %dx%d grid", i, j, g.rows, g.cols)
	}
	g.cells[i*g.cols+j] = v
	return nil
}

// At returns the value of the (i, j) cell; the cell must be inside the grid
func (g *Grid) At(i, j int) uint8 {
	return g.cells[i*g.cols+j]
}

// MinMax returns the smallest and largest cell values
func (g *Grid) MinMax() (uint8, uint8) {
	min, max := g.cells[0], g.cells[0]
	for _, v := range g.cells[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Coverage is the number of particles divided by the number of cells
func (g *Grid) Coverage(numParticles uint64) float64 {
	return float64(numParticles) / float64(g.Size())
}

// RMSHeight is the population standard deviation of the cell values
func (g *Grid) RMSHeight() float64 {
	values := make([]float64, len(g.cells))
	for idx, v := range g.cells {
		values[idx] = float64(v)
	}
	return stat.PopStdDev(values, nil)
}
