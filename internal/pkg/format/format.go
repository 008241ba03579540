//
// Copyright (c) 2020-2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package format

import (
	"strconv"
	"strings"
)

const (
	// CoverageFilename is the name of the file gathering the statistics of all the snapshots
	CoverageFilename = "coverage.dat"

	// CoverageHeader is the first line of the coverage file
	CoverageHeader = "# Snapshot.Num Simulation.Time Coverage Rms.Height"

	// ImageFilePrefix is the prefix of the image generated for each snapshot
	ImageFilePrefix = "img"

	// ImageIndexWidth is the minimum number of digits of the snapshot number in image file names
	ImageIndexWidth = 4

	// HeaderMarker is the first field of header lines in snapshot files
	HeaderMarker = "#"

	// TimeToken prefixes the simulation time in header lines
	TimeToken = "time:"

	// DataFileSuffix is the suffix of uncompressed snapshot and pattern files
	DataFileSuffix = ".dat"
)

// Float formats a value the way printf's %g does it, i.e., with 6 significant digits and
// without trailing zeros.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// PadIndex left-pads a snapshot number with zeros up to width characters. Numbers that are
// already wide enough are returned unchanged.
func PadIndex(index string, width int) string {
	if len(index) >= width {
		return index
	}
	return strings.Repeat("0", width-len(index)) + index
}

// ImageFilename returns the name of the image associated to a snapshot number
func ImageFilename(index string) string {
	return ImageFilePrefix + PadIndex(index, ImageIndexWidth) + ".png"
}
