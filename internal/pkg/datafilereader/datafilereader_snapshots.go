//
// Copyright (c) 2020-2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package datafilereader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/grid"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

const numHeaderFields = 6

// Header is the content of a header line: "# <i_start> <i_end> <j_start> <j_end> time:<t>"
type Header struct {
	Bounds grid.Bounds
	Time   float64
}

// Data gathers what was read from a snapshot or process file
type Data struct {
	Header       Header
	HasHeader    bool
	NumParticles uint64
}

// IsHeader tells whether a line is a header line
func IsHeader(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == format.HeaderMarker
}

// ParseHeader parses a header line
func ParseHeader(line string) (Header, error) {
	var h Header
	fields := strings.Fields(line)
	if len(fields) != numHeaderFields {
		return h, fmt.Errorf("%d fields instead of %d", len(fields), numHeaderFields)
	}
	if fields[0] != format.HeaderMarker {
		return h, fmt.Errorf("line does not start with %s", format.HeaderMarker)
	}

	var bounds [4]int
	for idx := range bounds {
		n, err := strconv.Atoi(fields[idx+1])
		if err != nil {
			return h, err
		}
		bounds[idx] = n
	}
	h.Bounds = grid.Bounds{IStart: bounds[0], IEnd: bounds[1], JStart: bounds[2], JEnd: bounds[3]}

	t, err := strconv.ParseFloat(strings.TrimPrefix(fields[5], format.TimeToken), 64)
	if err != nil {
		return h, err
	}
	h.Time = t

	return h, nil
}

// ParseCell parses a data line: "<i> <j> <value>"
func ParseCell(line string) (int, int, uint8, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("%d fields instead of 3", len(fields))
	}
	i, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, err
	}
	j, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, err
	}
	v, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return 0, 0, 0, err
	}
	return i, j, uint8(v), nil
}

func readFirstLine(path string) (string, error) {
	f, err := Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.NewAt(errors.ErrParse, err, path, 1)
	}
	if line == "" {
		return "", errors.NewAt(errors.ErrInvalidHeader, fmt.Errorf("empty file"), path, 1)
	}
	return line, nil
}

// ReadHeader reads the header from the first line of a file
func ReadHeader(path string) (Header, error) {
	line, err := readFirstLine(path)
	if err != nil {
		return Header{}, err
	}
	h, err := ParseHeader(line)
	if err != nil {
		return h, errors.NewAt(errors.ErrInvalidHeader, err, path, 1)
	}
	return h, nil
}

// HeaderCheck is called on every header line found while merging a process file
type HeaderCheck func(h Header) error

// FillFromSubdomain reads a process file and stores its cells into g. Header lines may
// appear anywhere and carry the simulation time; cells are set using absolute indices.
func FillFromSubdomain(path string, g *grid.Grid, check HeaderCheck) (Data, error) {
	var data Data

	f, err := Open(path)
	if err != nil {
		return data, err
	}
	defer f.Close()

	err = forEachLine(bufio.NewReader(f), func(lineNum int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		if IsHeader(line) {
			h, err := ParseHeader(line)
			if err != nil {
				return errors.NewAt(errors.ErrInvalidHeader, err, path, lineNum)
			}
			if check != nil {
				err = check(h)
				if err != nil {
					return errors.NewAt(errors.ErrInvalidHeader, err, path, lineNum)
				}
			}
			data.Header = h
			data.HasHeader = true
			return nil
		}

		i, j, v, err := ParseCell(line)
		if err != nil {
			return errors.NewAt(errors.ErrParse, err, path, lineNum)
		}
		err = g.Set(i, j, v)
		if err != nil {
			return errors.NewAt(errors.ErrParse, err, path, lineNum)
		}
		if v > 0 {
			data.NumParticles += uint64(v)
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*errors.PostError); ok {
			return data, err
		}
		return data, errors.NewAt(errors.ErrFatal, err, path, 0)
	}

	return data, nil
}

// ReadSnapshot reads a file holding an entire snapshot: the first line is the header giving
// the size of the grid and the time, all the following lines are cells.
func ReadSnapshot(path string) (*grid.Grid, Data, error) {
	var data Data
	var g *grid.Grid

	f, err := Open(path)
	if err != nil {
		return nil, data, err
	}
	defer f.Close()

	err = forEachLine(bufio.NewReader(f), func(lineNum int, line string) error {
		if lineNum == 1 {
			h, err := ParseHeader(line)
			if err != nil {
				return errors.NewAt(errors.ErrInvalidHeader, err, path, lineNum)
			}
			g, err = grid.FromBounds(h.Bounds)
			if err != nil {
				return errors.NewAt(errors.ErrInvalidHeader, err, path, lineNum)
			}
			data.Header = h
			data.HasHeader = true
			return nil
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}

		i, j, v, err := ParseCell(line)
		if err != nil {
			return errors.NewAt(errors.ErrParse, err, path, lineNum)
		}
		err = g.Set(i, j, v)
		if err != nil {
			return errors.NewAt(errors.ErrParse, err, path, lineNum)
		}
		if v > 0 {
			data.NumParticles += uint64(v)
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*errors.PostError); ok {
			return nil, data, err
		}
		return nil, data, errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	if !data.HasHeader {
		return nil, data, errors.NewAt(errors.ErrInvalidHeader, fmt.Errorf("empty file"), path, 1)
	}

	return g, data, nil
}
