//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package report

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/coverage"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/hash"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/notation"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

const (
	// MarkdownFilename is the name of the markdown report
	MarkdownFilename = "coverage.md"

	// HTMLFilename is the name of the HTML rendering of the markdown report
	HTMLFilename = "coverage.html"
)

// Summary is the content of a report
type Summary struct {
	Title string

	// GridRows and GridCols are the size of the global grid; 0 when unknown
	GridRows int
	GridCols int

	Records []coverage.Record

	// ImageDir, when set, is the directory of the snapshot images, which are then linked
	ImageDir string

	// Plot is the optional path to the coverage plot
	Plot string

	// CoverageFile is the optional path to the coverage file the report describes; its
	// checksum is added to the report
	CoverageFile string

	checksum string
}

// Files lists the files created by Write
type Files struct {
	Markdown string
	HTML     string
}

func snapshotList(records []coverage.Record) string {
	var indexes []int
	for _, r := range records {
		indexes = append(indexes, r.Index)
	}
	sort.Ints(indexes)
	return notation.CompressIntArray(indexes)
}

// Markdown returns the markdown content of the report
func Markdown(s Summary) []byte {
	var buf bytes.Buffer
	title := s.Title
	if title == "" {
		title = "Coverage"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("Snapshots: %s\n\n", snapshotList(s.Records)))
	if s.GridRows > 0 && s.GridCols > 0 {
		buf.WriteString(fmt.Sprintf("Grid: %d x %d\n\n", s.GridRows, s.GridCols))
	}
	if s.checksum != "" {
		buf.WriteString(fmt.Sprintf("Coverage file: %s (SHA-256 %s)\n\n", filepath.Base(s.CoverageFile), s.checksum))
	}
	if s.Plot != "" {
		buf.WriteString(fmt.Sprintf("![coverage](%s)\n\n", filepath.Base(s.Plot)))
	}

	buf.WriteString("| Snapshot | Time | Coverage | RMS height |")
	if s.ImageDir != "" {
		buf.WriteString(" Image |")
	}
	buf.WriteString("\n|---|---|---|---|")
	if s.ImageDir != "" {
		buf.WriteString("---|")
	}
	buf.WriteString("\n")
	for _, r := range s.Records {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |", r.Snapshot, format.Float(r.Time), format.Float(r.Coverage), format.Float(r.RMSHeight)))
		if s.ImageDir != "" {
			img := format.ImageFilename(r.Snapshot)
			buf.WriteString(fmt.Sprintf(" [%s](%s) |", img, img))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// Write creates the markdown report and its HTML rendering in dir
func Write(dir string, s Summary) (*Files, error) {
	files := new(Files)
	if s.CoverageFile != "" {
		var err error
		s.checksum, err = hash.File(s.CoverageFile)
		if err != nil {
			return nil, errors.NewAt(errors.ErrNotFound, err, s.CoverageFile, 0)
		}
	}
	md := Markdown(s)

	files.Markdown = filepath.Join(dir, MarkdownFilename)
	err := ioutil.WriteFile(files.Markdown, md, 0644)
	if err != nil {
		return nil, errors.NewAt(errors.ErrFatal, err, files.Markdown, 0)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	html := markdown.ToHTML(md, p, nil)
	files.HTML = filepath.Join(dir, HTMLFilename)
	err = ioutil.WriteFile(files.HTML, html, 0644)
	if err != nil {
		return nil, errors.NewAt(errors.ErrFatal, err, files.HTML, 0)
	}
	log.Printf("Report saved in %s and %s\n", files.Markdown, files.HTML)

	return files, nil
}
