//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package aggregator

import (
	"context"
	"io"
	"log"
	"path/filepath"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/coverage"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/grid"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/progress"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/raster"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/timer"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Config is the configuration shared by both aggregators
type Config struct {
	// InputDir is the directory where the snapshot files are; defaults to the current directory
	InputDir string

	// OutputDir is where the images and the coverage file are written; defaults to InputDir
	OutputDir string

	// Prefix overrides the root of the names of the input files
	Prefix string

	// Workers is the number of snapshots processed concurrently, 1 by default
	Workers int

	// Snapshots restricts the processing to the listed snapshot numbers; all snapshots are
	// processed when empty
	Snapshots []int

	// Strict enables the verification of every header line against the bounds recorded for
	// the first snapshot
	Strict bool

	// Progress receives the progress bar; nil disables it
	Progress io.Writer
}

// Result describes what an aggregator produced
type Result struct {
	// Bounds is the extent of the global grid of the first processed snapshot
	Bounds grid.Bounds

	// Records are the statistics of the snapshots, by ascending simulation time
	Records []coverage.Record

	CoverageFile string

	// Images are the paths to the snapshot images, in snapshot order
	Images []string
}

func (cfg *Config) setDefaults() {
	if cfg.InputDir == "" {
		cfg.InputDir = "."
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.InputDir
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
}

func (cfg *Config) check() error {
	if !util.PathExists(cfg.InputDir) {
		return errors.NewAt(errors.ErrNotFound, nil, cfg.InputDir, 0)
	}
	if !util.PathExists(cfg.OutputDir) {
		return errors.NewAt(errors.ErrNotFound, nil, cfg.OutputDir, 0)
	}
	return nil
}

// selected tells whether a snapshot number is part of the selection
func (cfg *Config) selected(index int) bool {
	if len(cfg.Snapshots) == 0 {
		return true
	}
	for _, s := range cfg.Snapshots {
		if s == index {
			return true
		}
	}
	return false
}

// snapshotResult is what processing a single snapshot gives
type snapshotResult struct {
	record coverage.Record
	image  string
}

// finish computes the statistics of a filled grid and saves its image
func finish(cfg *Config, g *grid.Grid, snapshot string, index int, time float64, numParticles uint64) (snapshotResult, error) {
	var res snapshotResult
	res.record = coverage.Record{
		Snapshot:  snapshot,
		Index:     index,
		Time:      time,
		Coverage:  g.Coverage(numParticles),
		RMSHeight: g.RMSHeight(),
	}

	res.image = filepath.Join(cfg.OutputDir, format.ImageFilename(snapshot))
	err := raster.WritePNG(res.image, g)
	if err != nil {
		return res, errors.NewAt(errors.ErrFatal, err, res.image, 0)
	}
	log.Printf("Snapshot %s: time %s, coverage %s, image %s\n", snapshot, format.Float(time), format.Float(res.record.Coverage), res.image)

	return res, nil
}

// run processes n snapshots with up to cfg.Workers goroutines, then writes the coverage file.
// The first error stops the processing.
func run(ctx context.Context, cfg *Config, n int, process func(idx int) (snapshotResult, error)) (*Result, error) {
	t := timer.Start("all snapshots")
	bar := progress.NewBar(cfg.Progress, n, "Snapshots")
	results := make([]snapshotResult, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for idx := 0; idx < n; idx++ {
		idx := idx
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			snapshotTimer := timer.Start("snapshot")
			r, err := process(idx)
			if err != nil {
				return err
			}
			log.Printf("Processed %s\n", snapshotTimer.Stop())
			results[idx] = r
			bar.Increment(1)
			return nil
		})
	}
	err := g.Wait()
	progress.EndBar(bar)
	if err != nil {
		return nil, err
	}

	table := coverage.NewTable()
	res := new(Result)
	for _, r := range results {
		table.Add(r.record)
		res.Images = append(res.Images, r.image)
	}
	res.Records = table.Sorted()
	res.CoverageFile, err = coverage.WriteFile(cfg.OutputDir, table)
	if err != nil {
		return nil, err
	}
	log.Printf("Statistics of %d snapshots saved in %s (%s)\n", table.Len(), res.CoverageFile, t.Stop())

	return res, nil
}
