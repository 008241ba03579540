//
// Copyright (c) 2020-2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package datafilereader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

const (
	// SubdomainFilePrefix is the default root of the files created by each process of a
	// parallel simulation
	SubdomainFilePrefix = "outFile_ProcCoords"

	// SnapshotFilePrefix is the default root of the files created by a single writer
	SnapshotFilePrefix = "snapshot"

	subdomainSnapshotToken = "_snapshot"
)

// SubdomainFile describes a file written by one process for one snapshot
type SubdomainFile struct {
	Path     string
	Row      int
	Col      int
	Snapshot string // snapshot number as written in the file name
	Index    int
}

// Coords returns the process coordinates in the form used in file names
func (f SubdomainFile) Coords() string {
	return fmt.Sprintf("%d_%d", f.Row, f.Col)
}

// SnapshotFile describes a file holding an entire snapshot
type SnapshotFile struct {
	Path     string
	Snapshot string
	Index    int
}

const dataSuffixPattern = `\.dat(\.gz|\.zst)?$`

// SubdomainNames parses and creates names of the form <prefix><row>_<col>_snapshot<N>.dat
type SubdomainNames struct {
	prefix string
	re     *regexp.Regexp
}

// SnapshotNames parses and creates names of the form <prefix><N>.dat
type SnapshotNames struct {
	prefix string
	re     *regexp.Regexp
}

func NewSubdomainNames(prefix string) *SubdomainNames {
	if prefix == "" {
		prefix = SubdomainFilePrefix
	}
	n := new(SubdomainNames)
	n.prefix = prefix
	n.re = regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)_(\d+)` + regexp.QuoteMeta(subdomainSnapshotToken) + `(\d+)` + dataSuffixPattern)
	return n
}

func NewSnapshotNames(prefix string) *SnapshotNames {
	if prefix == "" {
		prefix = SnapshotFilePrefix
	}
	n := new(SnapshotNames)
	n.prefix = prefix
	n.re = regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)` + dataSuffixPattern)
	return n
}

// candidate tells whether a file name looks like a data file with the given prefix; such
// names must then parse, otherwise the directory content is considered corrupted.
func candidate(prefix string, name string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	for _, suffix := range []string{format.DataFileSuffix, format.DataFileSuffix + GzipSuffix, format.DataFileSuffix + ZstdSuffix} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Parse extracts the process coordinates and the snapshot number from a file name
func (n *SubdomainNames) Parse(name string) (SubdomainFile, error) {
	var f SubdomainFile
	base := filepath.Base(name)
	m := n.re.FindStringSubmatch(base)
	if m == nil {
		return f, errors.NewAt(errors.ErrParse, fmt.Errorf("name does not match %s<row>_<col>%s<N>%s", n.prefix, subdomainSnapshotToken, format.DataFileSuffix), name, 0)
	}
	var err error
	f.Path = name
	f.Row, err = strconv.Atoi(m[1])
	if err != nil {
		return f, errors.NewAt(errors.ErrParse, err, name, 0)
	}
	f.Col, err = strconv.Atoi(m[2])
	if err != nil {
		return f, errors.NewAt(errors.ErrParse, err, name, 0)
	}
	f.Snapshot = m[3]
	f.Index, err = strconv.Atoi(m[3])
	if err != nil {
		return f, errors.NewAt(errors.ErrParse, err, name, 0)
	}
	return f, nil
}

// Name returns the name of the uncompressed file of a process for a snapshot
func (n *SubdomainNames) Name(row, col int, snapshot string) string {
	return fmt.Sprintf("%s%d_%d%s%s%s", n.prefix, row, col, subdomainSnapshotToken, snapshot, format.DataFileSuffix)
}

// Parse extracts the snapshot number from a file name
func (n *SnapshotNames) Parse(name string) (SnapshotFile, error) {
	var f SnapshotFile
	base := filepath.Base(name)
	m := n.re.FindStringSubmatch(base)
	if m == nil {
		return f, errors.NewAt(errors.ErrParse, fmt.Errorf("name does not match %s<N>%s", n.prefix, format.DataFileSuffix), name, 0)
	}
	var err error
	f.Path = name
	f.Snapshot = m[1]
	f.Index, err = strconv.Atoi(m[1])
	if err != nil {
		return f, errors.NewAt(errors.ErrParse, err, name, 0)
	}
	return f, nil
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewAt(errors.ErrNotFound, err, dir, 0)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// FindSubdomainFiles returns all the process files of a directory, ordered by snapshot
// number then process coordinates.
func FindSubdomainFiles(dir string, names *SubdomainNames) ([]SubdomainFile, error) {
	list, err := listDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	var files []SubdomainFile
	for _, name := range list {
		if !candidate(names.prefix, name) {
			continue
		}
		f, err := names.Parse(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		key := f.Coords() + "/" + f.Snapshot
		if prev, ok := seen[key]; ok {
			return nil, errors.NewAt(errors.ErrFatal, fmt.Errorf("same process and snapshot as %s", prev), f.Path, 0)
		}
		seen[key] = f.Path
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Index != files[j].Index {
			return files[i].Index < files[j].Index
		}
		if files[i].Snapshot != files[j].Snapshot {
			return files[i].Snapshot < files[j].Snapshot
		}
		if files[i].Row != files[j].Row {
			return files[i].Row < files[j].Row
		}
		return files[i].Col < files[j].Col
	})
	log.Printf("Found %d process files in %s\n", len(files), dir)

	return files, nil
}

// FindSnapshotFiles returns all the snapshot files of a directory, ordered by snapshot number
func FindSnapshotFiles(dir string, names *SnapshotNames) ([]SnapshotFile, error) {
	list, err := listDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	var files []SnapshotFile
	for _, name := range list {
		if !candidate(names.prefix, name) {
			continue
		}
		f, err := names.Parse(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[f.Snapshot]; ok {
			return nil, errors.NewAt(errors.ErrFatal, fmt.Errorf("same snapshot as %s", prev), f.Path, 0)
		}
		seen[f.Snapshot] = f.Path
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Index != files[j].Index {
			return files[i].Index < files[j].Index
		}
		return files[i].Snapshot < files[j].Snapshot
	})
	log.Printf("Found %d snapshot files in %s\n", len(files), dir)

	return files, nil
}
