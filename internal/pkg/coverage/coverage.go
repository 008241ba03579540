//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package coverage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

// Record gathers the statistics of a single snapshot
type Record struct {
	// Snapshot is the snapshot number as it appears in the name of the input file
	Snapshot string

	// Index is the integer value of Snapshot
	Index int

	Time      float64
	Coverage  float64
	RMSHeight float64
}

// Table gathers the records of all the snapshots, keyed by simulation time. It is safe for
// concurrent use.
type Table struct {
	lock    sync.Mutex
	records map[float64]Record
}

func NewTable() *Table {
	t := new(Table)
	t.records = make(map[float64]Record)
	return t
}

// Add stores a record. When a record with the same simulation time is already present, the
// record with the largest snapshot index is kept.
func (t *Table) Add(r Record) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if prev, ok := t.records[r.Time]; ok && prev.Index > r.Index {
		return
	}
	t.records[r.Time] = r
}

// Len returns the number of records in the table
func (t *Table) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.records)
}

// Sorted returns all the records by ascending simulation time
func (t *Table) Sorted() []Record {
	t.lock.Lock()
	defer t.lock.Unlock()
	var list []Record
	for _, r := range t.records {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Time < list[j].Time
	})
	return list
}

func (r Record) String() string {
	return strings.Join([]string{r.Snapshot, format.Float(r.Time), format.Float(r.Coverage), format.Float(r.RMSHeight)}, " ")
}

// Write writes the coverage file content to w
func Write(w io.Writer, records []Record) error {
	_, err := fmt.Fprintf(w, "%s\n", format.CoverageHeader)
	if err != nil {
		return err
	}
	for _, r := range records {
		_, err = fmt.Fprintf(w, "%s\n", r.String())
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes all the records of the table in the coverage file of a directory and
// returns the path to the file
func WriteFile(dir string, t *Table) (string, error) {
	path := filepath.Join(dir, format.CoverageFilename)
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.NewAt(errors.ErrFatal, err, path, 0)
	}

	w := bufio.NewWriter(fd)
	err = Write(w, t.Sorted())
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		fd.Close()
		return "", errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	err = fd.Close()
	if err != nil {
		return "", errors.NewAt(errors.ErrFatal, err, path, 0)
	}

	return path, nil
}

func parseRecord(line string) (Record, error) {
	var r Record
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return r, fmt.Errorf("%d fields instead of 4", len(fields))
	}

	var err error
	r.Snapshot = fields[0]
	r.Index, err = strconv.Atoi(fields[0])
	if err != nil {
		return r, err
	}
	r.Time, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return r, err
	}
	r.Coverage, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return r, err
	}
	r.RMSHeight, err = strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return r, err
	}
	return r, nil
}

// Read parses the content of a coverage file. Comment and blank lines are ignored.
func Read(reader io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(reader)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, format.HeaderMarker) {
			continue
		}
		r, err := parseRecord(line)
		if err != nil {
			return nil, errors.NewAt(errors.ErrParse, err, "", lineNum)
		}
		records = append(records, r)
	}
	err := scanner.Err()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile parses a coverage file
func ReadFile(path string) ([]Record, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.NewAt(errors.ErrNotFound, err, path, 0)
	}
	defer fd.Close()

	records, err := Read(fd)
	if err != nil {
		if perr, ok := err.(*errors.PostError); ok {
			perr.File = path
			return nil, perr
		}
		return nil, errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	return records, nil
}
