//
// Copyright (c) 2020-2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package datafilereader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/grid"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const subdomainContent = `# 0 2 0 3 time:1.5
0 0 1
0 1 0
1 2 3
# 0 2 0 3 time:2.5
1 0 2
`

func writeFile(t *testing.T, path string, content string) {
	var w io.Writer
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create() failed: %s", err)
	}
	defer f.Close()
	w = f

	switch {
	case strings.HasSuffix(path, GzipSuffix):
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	case strings.HasSuffix(path, ZstdSuffix):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			t.Fatalf("zstd.NewWriter() failed: %s", err)
		}
		defer zw.Close()
		w = zw
	}

	_, err = w.Write([]byte(content))
	if err != nil {
		t.Fatalf("Write() failed: %s", err)
	}
}

func TestSubdomainNames(t *testing.T) {
	tests := []struct {
		name        string
		prefix      string
		expectError bool
		row         int
		col         int
		snapshot    string
		index       int
	}{
		{name: "outFile_ProcCoords0_0_snapshot5.dat", row: 0, col: 0, snapshot: "5", index: 5},
		{name: "outFile_ProcCoords12_3_snapshot0042.dat", row: 12, col: 3, snapshot: "0042", index: 42},
		{name: "outFile_ProcCoords1_2_snapshot7.dat.zst", row: 1, col: 2, snapshot: "7", index: 7},
		{name: "/some/dir/outFile_ProcCoords1_0_snapshot3.dat.gz", row: 1, col: 0, snapshot: "3", index: 3},
		{name: "run_1_1_snapshot9.dat", prefix: "run_", row: 1, col: 1, snapshot: "9", index: 9},
		{name: "outFile_ProcCoords0_snapshot5.dat", expectError: true},
		{name: "outFile_ProcCoords0_0_snapshot.dat", expectError: true},
		{name: "outFile_ProcCoords0_0_snapshot5.txt", expectError: true},
		{name: "snapshot5.dat", expectError: true},
	}

	for _, tt := range tests {
		names := NewSubdomainNames(tt.prefix)
		f, err := names.Parse(tt.name)
		if tt.expectError {
			if err == nil {
				t.Fatalf("Parse(%s) succeeded while expected to fail", tt.name)
			}
			if !errors.Is(err, errors.ErrParse) {
				t.Fatalf("Parse(%s) returned %s instead of a parse error", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse() failed: %s", err)
		}
		if f.Row != tt.row || f.Col != tt.col || f.Snapshot != tt.snapshot || f.Index != tt.index {
			t.Fatalf("Parse(%s) returned %+v", tt.name, f)
		}
	}

	names := NewSubdomainNames("")
	if names.Name(2, 1, "10") != "outFile_ProcCoords2_1_snapshot10.dat" {
		t.Fatalf("Name() returned %s", names.Name(2, 1, "10"))
	}
}

func TestSnapshotNames(t *testing.T) {
	tests := []struct {
		name        string
		expectError bool
		snapshot    string
		index       int
	}{
		{name: "snapshot1.dat", snapshot: "1", index: 1},
		{name: "snapshot010.dat.gz", snapshot: "010", index: 10},
		{name: "snapshot.dat", expectError: true},
		{name: "snapshot1a.dat", expectError: true},
		{name: "outFile_ProcCoords0_0_snapshot5.dat", expectError: true},
	}

	names := NewSnapshotNames("")
	for _, tt := range tests {
		f, err := names.Parse(tt.name)
		if tt.expectError {
			if err == nil {
				t.Fatalf("Parse(%s) succeeded while expected to fail", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse() failed: %s", err)
		}
		if f.Snapshot != tt.snapshot || f.Index != tt.index {
			t.Fatalf("Parse(%s) returned %+v", tt.name, f)
		}
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"outFile_ProcCoords0_1_snapshot2.dat",
		"outFile_ProcCoords0_0_snapshot10.dat",
		"outFile_ProcCoords0_0_snapshot2.dat",
		"outFile_ProcCoords0_1_snapshot10.dat.gz",
		"coverage.dat",
		"img0002.png",
		"snapshot3.dat",
	} {
		writeFile(t, filepath.Join(dir, name), subdomainContent)
	}

	files, err := FindSubdomainFiles(dir, NewSubdomainNames(""))
	if err != nil {
		t.Fatalf("FindSubdomainFiles() failed: %s", err)
	}
	expected := []string{"0_0/2", "0_1/2", "0_0/10", "0_1/10"}
	if len(files) != len(expected) {
		t.Fatalf("FindSubdomainFiles() returned %d files instead of %d", len(files), len(expected))
	}
	for i, f := range files {
		if f.Coords()+"/"+f.Snapshot != expected[i] {
			t.Fatalf("file %d is %s instead of %s", i, f.Coords()+"/"+f.Snapshot, expected[i])
		}
	}

	snapshots, err := FindSnapshotFiles(dir, NewSnapshotNames(""))
	if err != nil {
		t.Fatalf("FindSnapshotFiles() failed: %s", err)
	}
	if len(snapshots) != 1 || snapshots[0].Snapshot != "3" {
		t.Fatalf("FindSnapshotFiles() returned %+v", snapshots)
	}

	writeFile(t, filepath.Join(dir, "outFile_ProcCoordsX_0_snapshot2.dat"), subdomainContent)
	_, err = FindSubdomainFiles(dir, NewSubdomainNames(""))
	if !errors.Is(err, errors.ErrParse) {
		t.Fatalf("FindSubdomainFiles() did not report the malformed file name: %v", err)
	}

	_, err = FindSnapshotFiles(filepath.Join(dir, "missing"), NewSnapshotNames(""))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("FindSnapshotFiles() on a missing directory returned %v", err)
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		line        string
		expectError bool
		expected    Header
	}{
		{
			line:     "# 0 4 4 8 time:1.5",
			expected: Header{Bounds: grid.Bounds{IStart: 0, IEnd: 4, JStart: 4, JEnd: 8}, Time: 1.5},
		},
		{
			line:     "#   2 3 5 7   time:1e-05\n",
			expected: Header{Bounds: grid.Bounds{IStart: 2, IEnd: 3, JStart: 5, JEnd: 7}, Time: 1e-05},
		},
		{line: "# 0 4 0 4", expectError: true},
		{line: "# 0 4 0 x time:1", expectError: true},
		{line: "# 0 4 0 4 time:abc", expectError: true},
		{line: "0 4 0 4 1 time:1", expectError: true},
	}

	for _, tt := range tests {
		h, err := ParseHeader(tt.line)
		if tt.expectError {
			if err == nil {
				t.Fatalf("ParseHeader(%q) succeeded while expected to fail", tt.line)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseHeader() failed: %s", err)
		}
		if h != tt.expected {
			t.Fatalf("ParseHeader(%q) returned %+v instead of %+v", tt.line, h, tt.expected)
		}
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		line        string
		expectError bool
		i           int
		j           int
		v           uint8
	}{
		{line: "3 4 10", i: 3, j: 4, v: 10},
		{line: "0 0 255\n", i: 0, j: 0, v: 255},
		{line: "0 0 256", expectError: true},
		{line: "0 0 -1", expectError: true},
		{line: "0 0", expectError: true},
		{line: "0 0 1 2", expectError: true},
		{line: "a 0 1", expectError: true},
	}

	for _, tt := range tests {
		i, j, v, err := ParseCell(tt.line)
		if tt.expectError {
			if err == nil {
				t.Fatalf("ParseCell(%q) succeeded while expected to fail", tt.line)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCell() failed: %s", err)
		}
		if i != tt.i || j != tt.j || v != tt.v {
			t.Fatalf("ParseCell(%q) returned (%d, %d, %d)", tt.line, i, j, v)
		}
	}
}

func TestFillFromSubdomain(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.dat", "b.dat.gz", "c.dat.zst"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, subdomainContent)

		h, err := ReadHeader(path)
		if err != nil {
			t.Fatalf("ReadHeader() failed: %s", err)
		}
		if h.Bounds != (grid.Bounds{IStart: 0, IEnd: 2, JStart: 0, JEnd: 3}) {
			t.Fatalf("%s: bounds are %s", name, h.Bounds)
		}

		g, err := grid.FromBounds(h.Bounds)
		if err != nil {
			t.Fatalf("FromBounds() failed: %s", err)
		}
		numHeaders := 0
		data, err := FillFromSubdomain(path, g, func(h Header) error {
			numHeaders++
			return nil
		})
		if err != nil {
			t.Fatalf("FillFromSubdomain() failed: %s", err)
		}
		if numHeaders != 2 {
			t.Fatalf("%s: %d headers instead of 2", name, numHeaders)
		}
		// The last header wins
		if data.Header.Time != 2.5 {
			t.Fatalf("%s: time is %g instead of 2.5", name, data.Header.Time)
		}
		if data.NumParticles != 6 {
			t.Fatalf("%s: %d particles instead of 6", name, data.NumParticles)
		}
		if g.At(0, 0) != 1 || g.At(1, 2) != 3 || g.At(1, 0) != 2 || g.At(1, 1) != 0 {
			t.Fatalf("%s: unexpected grid content", name)
		}
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		class   errors.InternalError
		line    int
	}{
		{name: "outside", content: "# 0 2 0 2 time:1\n0 0 1\n2 0 1\n", class: errors.ErrParse, line: 3},
		{name: "badValue", content: "# 0 2 0 2 time:1\n0 0 x\n", class: errors.ErrParse, line: 2},
		{name: "markerInBody", content: "# 0 2 0 2 time:1\n# 0 2 0 2 time:2\n", class: errors.ErrParse, line: 2},
		{name: "badHeader", content: "0 0 1\n", class: errors.ErrInvalidHeader, line: 1},
		{name: "emptyGrid", content: "# 2 2 0 2 time:1\n", class: errors.ErrInvalidHeader, line: 1},
		{name: "empty", content: "", class: errors.ErrInvalidHeader, line: 1},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name+".dat")
		writeFile(t, path, tt.content)
		_, _, err := ReadSnapshot(path)
		if err == nil {
			t.Fatalf("%s: ReadSnapshot() succeeded while expected to fail", tt.name)
		}
		if !errors.Is(err, tt.class) {
			t.Fatalf("%s: ReadSnapshot() returned %s, not a %s error", tt.name, err, tt.class)
		}
		perr, ok := err.(*errors.PostError)
		if !ok {
			t.Fatalf("%s: ReadSnapshot() returned a %T", tt.name, err)
		}
		if perr.File != path || perr.Line != tt.line {
			t.Fatalf("%s: error points to %s:%d instead of %s:%d", tt.name, perr.File, perr.Line, path, tt.line)
		}
	}

	_, _, err := ReadSnapshot(filepath.Join(dir, "missing.dat"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("ReadSnapshot() on a missing file returned %v", err)
	}
}

func TestCorruptCompressedFiles(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(subdomainContent))
	if err != nil {
		t.Fatalf("Write() failed: %s", err)
	}
	err = gz.Close()
	if err != nil {
		t.Fatalf("Close() failed: %s", err)
	}

	tests := []struct {
		name    string
		content []byte
		class   errors.InternalError
	}{
		{name: "outFile_ProcCoords0_0_snapshot1.dat.gz", content: []byte("# 0 2 0 3 time:1.5\n"), class: errors.ErrParse},
		{name: "outFile_ProcCoords0_0_snapshot2.dat.gz", content: buf.Bytes()[:5], class: errors.ErrParse},
		{name: "outFile_ProcCoords0_0_snapshot3.dat.zst", content: []byte("# 0 2 0 3 time:1.5\n"), class: errors.ErrParse},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		err := os.WriteFile(path, tt.content, 0644)
		if err != nil {
			t.Fatalf("WriteFile() failed: %s", err)
		}

		_, err = ReadHeader(path)
		if !errors.Is(err, tt.class) {
			t.Fatalf("%s: ReadHeader() returned %v instead of a %s error", tt.name, err, tt.class)
		}
		if errors.Is(err, errors.ErrNotFound) {
			t.Fatalf("%s: an existing file is reported as not found", tt.name)
		}
	}

	g, err := grid.New(2, 3)
	if err != nil {
		t.Fatalf("grid.New() failed: %s", err)
	}
	_, err = FillFromSubdomain(filepath.Join(dir, tests[0].name), g, nil)
	if !errors.Is(err, errors.ErrParse) {
		t.Fatalf("FillFromSubdomain() returned %v instead of a parse error", err)
	}
	_, err = FillFromSubdomain(filepath.Join(dir, "outFile_ProcCoords0_0_snapshot4.dat.gz"), g, nil)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("FillFromSubdomain() on a missing file returned %v", err)
	}
}

func TestReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot1.dat")
	writeFile(t, path, "# 0 3 0 2 time:0.25\n0 0 1\n2 1 4\n1 1 0\n")
	g, data, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot() failed: %s", err)
	}
	if g.Rows() != 3 || g.Cols() != 2 {
		t.Fatalf("grid is %dx%d instead of 3x2", g.Rows(), g.Cols())
	}
	if data.Header.Time != 0.25 || data.NumParticles != 5 {
		t.Fatalf("unexpected data %+v", data)
	}
}
