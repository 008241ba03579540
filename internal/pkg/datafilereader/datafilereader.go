//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package datafilereader

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// GzipSuffix is the suffix of gzip-compressed data files
	GzipSuffix = ".gz"

	// ZstdSuffix is the suffix of zstd-compressed data files
	ZstdSuffix = ".zst"
)

type fileReader struct {
	io.Reader
	closers []func() error
}

func (r *fileReader) Close() error {
	var firstErr error
	// Decompressors first, the file last
	for i := len(r.closers) - 1; i >= 0; i-- {
		err := r.closers[i]()
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open opens a data file for reading. Files with a .gz or .zst suffix are transparently
// decompressed. A missing file is an ErrNotFound error and a compressed file whose stream
// cannot be decoded is an ErrParse error.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewAt(errors.ErrNotFound, err, path, 0)
		}
		return nil, errors.NewAt(errors.ErrFatal, err, path, 0)
	}
	r := &fileReader{Reader: bufio.NewReader(f), closers: []func() error{f.Close}}

	switch {
	case strings.HasSuffix(path, GzipSuffix):
		gz, err := gzip.NewReader(r.Reader)
		if err != nil {
			f.Close()
			return nil, errors.NewAt(errors.ErrParse, err, path, 0)
		}
		r.Reader = gz
		r.closers = append(r.closers, gz.Close)
	case strings.HasSuffix(path, ZstdSuffix):
		zr, err := zstd.NewReader(r.Reader)
		if err != nil {
			f.Close()
			return nil, errors.NewAt(errors.ErrParse, err, path, 0)
		}
		r.Reader = zr
		r.closers = append(r.closers, func() error {
			zr.Close()
			return nil
		})
	}

	return r, nil
}

// forEachLine calls fn for every line of the reader; line numbers start at 1 and the
// trailing newline is removed.
func forEachLine(reader *bufio.Reader, fn func(lineNum int, line string) error) error {
	lineNum := 0
	for {
		line, readerErr := reader.ReadString('\n')
		if readerErr != nil && readerErr != io.EOF {
			return readerErr
		}

		if line != "" {
			lineNum++
			err := fn(lineNum, strings.TrimRight(line, "\r\n"))
			if err != nil {
				return err
			}
		}

		if readerErr == io.EOF {
			break
		}
	}
	return nil
}
