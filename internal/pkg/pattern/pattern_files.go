//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package pattern

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

const griddedHeader = "# i j E_s"

// WriteFlat writes a domain in the format loaded by the simulation: "<rows> <cols>" followed
// by one "<i> <j> <energy>" line per cell in row-major order
func WriteFlat(w io.Writer, d *Domain) error {
	bw := bufio.NewWriter(w)
	_, err := fmt.Fprintf(bw, "%d %d\n", d.rows, d.cols)
	if err != nil {
		return err
	}
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			_, err = fmt.Fprintf(bw, "%d %d %s\n", i, j, format.Float(d.At(i, j)))
			if err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteGridded writes a domain for gnuplot's splot: a comment header, then the cells with a
// blank line after each row
func WriteGridded(w io.Writer, d *Domain) error {
	bw := bufio.NewWriter(w)
	_, err := fmt.Fprintf(bw, "%s\n", griddedHeader)
	if err != nil {
		return err
	}
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			_, err = fmt.Fprintf(bw, "%d %d %s\n", i, j, format.Float(d.At(i, j)))
			if err != nil {
				return err
			}
		}
		_, err = bw.WriteString("\n")
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeFile(path string, d *Domain, write func(io.Writer, *Domain) error) error {
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.NewAt(errors.ErrFatal, err, path, 0)
	}

	err = write(fd, d)
	if err != nil {
		fd.Close()
		return errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	err = fd.Close()
	if err != nil {
		return errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	return nil
}

func parseInts(fields []string) ([]int, error) {
	values := make([]int, len(fields))
	for idx, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		values[idx] = v
	}
	return values, nil
}

// ReadFlat parses a domain written by WriteFlat. The header gives the size of the domain
// and exactly rows*cols cells must follow.
func ReadFlat(reader io.Reader) (*Domain, error) {
	scanner := bufio.NewScanner(reader)
	lineNum := 0
	var d *Domain
	numCells := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if d == nil {
			if len(fields) != 2 {
				return nil, errors.NewAt(errors.ErrInvalidHeader, fmt.Errorf("%d fields instead of 2", len(fields)), "", lineNum)
			}
			size, err := parseInts(fields)
			if err != nil {
				return nil, errors.NewAt(errors.ErrInvalidHeader, err, "", lineNum)
			}
			if size[0] <= 0 || size[1] <= 0 {
				return nil, errors.NewAt(errors.ErrInvalidHeader, fmt.Errorf("invalid domain size %dx%d", size[0], size[1]), "", lineNum)
			}
			d = &Domain{rows: size[0], cols: size[1], values: make([]float64, size[0]*size[1])}
			continue
		}

		if len(fields) != 3 {
			return nil, errors.NewAt(errors.ErrParse, fmt.Errorf("%d fields instead of 3", len(fields)), "", lineNum)
		}
		if numCells == d.rows*d.cols {
			return nil, errors.NewAt(errors.ErrParse, fmt.Errorf("more than %d cells", numCells), "", lineNum)
		}
		idx, err := parseInts(fields[:2])
		if err != nil {
			return nil, errors.NewAt(errors.ErrParse, err, "", lineNum)
		}
		i, j := idx[0], idx[1]
		if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
			return nil, errors.NewAt(errors.ErrParse, fmt.Errorf("cell (%d, %d) is outside of the %dx%d domain", i, j, d.rows, d.cols), "", lineNum)
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.NewAt(errors.ErrParse, err, "", lineNum)
		}
		d.values[i*d.cols+j] = v
		numCells++
	}
	err := scanner.Err()
	if err != nil {
		return nil, err
	}

	if d == nil {
		return nil, errors.NewAt(errors.ErrInvalidHeader, fmt.Errorf("empty file"), "", 1)
	}
	if numCells != d.rows*d.cols {
		return nil, errors.NewAt(errors.ErrParse, fmt.Errorf("%d cells instead of %d", numCells, d.rows*d.cols), "", lineNum)
	}
	return d, nil
}

// ReadFlatFile parses a domain file
func ReadFlatFile(path string) (*Domain, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.NewAt(errors.ErrNotFound, err, path, 0)
	}
	defer fd.Close()

	d, err := ReadFlat(fd)
	if err != nil {
		if perr, ok := err.(*errors.PostError); ok {
			perr.File = path
			return nil, perr
		}
		return nil, errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	return d, nil
}
