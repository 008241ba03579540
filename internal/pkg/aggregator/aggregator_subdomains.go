//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package aggregator

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/datafilereader"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/grid"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

// subdomain is a process of the simulation and the part of the grid it owns
type subdomain struct {
	row    int
	col    int
	bounds grid.Bounds
}

func (s subdomain) coords() string {
	return fmt.Sprintf("%d_%d", s.row, s.col)
}

// snapshotRef identifies a snapshot by its number as written in file names and its value
type snapshotRef struct {
	str   string
	index int
}

// MergeSubdomains assembles, for every snapshot, the files written by all the processes of a
// parallel simulation into a global grid. The snapshots are the ones of the (0,0) process and
// the processes are the ones having a file for the first snapshot; the global grid is the
// union of the bounds read from the first line of these files.
func MergeSubdomains(ctx context.Context, cfg Config) (*Result, error) {
	cfg.setDefaults()
	err := cfg.check()
	if err != nil {
		return nil, err
	}

	names := datafilereader.NewSubdomainNames(cfg.Prefix)
	files, err := datafilereader.FindSubdomainFiles(cfg.InputDir, names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]datafilereader.SubdomainFile)
	var snapshots []snapshotRef
	for _, f := range files {
		byName[f.Coords()+"/"+f.Snapshot] = f
		if f.Row == 0 && f.Col == 0 && cfg.selected(f.Index) {
			snapshots = append(snapshots, snapshotRef{str: f.Snapshot, index: f.Index})
		}
	}
	if len(snapshots) == 0 {
		return nil, errors.NewAt(errors.ErrNotFound, fmt.Errorf("no snapshot for process 0_0"), cfg.InputDir, 0)
	}

	// Files are sorted by snapshot then by process
	var subdomains []subdomain
	var allBounds []grid.Bounds
	for _, f := range files {
		if f.Snapshot != snapshots[0].str {
			continue
		}
		h, err := datafilereader.ReadHeader(f.Path)
		if err != nil {
			return nil, err
		}
		subdomains = append(subdomains, subdomain{row: f.Row, col: f.Col, bounds: h.Bounds})
		allBounds = append(allBounds, h.Bounds)
	}
	extent, err := grid.Union(allBounds)
	if err != nil {
		return nil, errors.New(errors.ErrFatal, err)
	}
	log.Printf("%d processes, %d snapshots, global grid %s\n", len(subdomains), len(snapshots), extent)

	process := func(idx int) (snapshotResult, error) {
		snap := snapshots[idx]
		g, err := grid.FromBounds(extent)
		if err != nil {
			return snapshotResult{}, errors.New(errors.ErrFatal, err)
		}

		var time float64
		var numParticles uint64
		for _, s := range subdomains {
			f, ok := byName[s.coords()+"/"+snap.str]
			if !ok {
				expected := filepath.Join(cfg.InputDir, names.Name(s.row, s.col, snap.str))
				return snapshotResult{}, errors.NewAt(errors.ErrNotFound, fmt.Errorf("no file for process %s and snapshot %s", s.coords(), snap.str), expected, 0)
			}

			var check datafilereader.HeaderCheck
			if cfg.Strict {
				expected := s.bounds
				check = func(h datafilereader.Header) error {
					if h.Bounds != expected {
						return fmt.Errorf("bounds %s differ from the bounds %s of the first snapshot", h.Bounds, expected)
					}
					return nil
				}
			}

			data, err := datafilereader.FillFromSubdomain(f.Path, g, check)
			if err != nil {
				return snapshotResult{}, err
			}
			if data.HasHeader {
				time = data.Header.Time
			}
			numParticles += data.NumParticles
		}

		return finish(&cfg, g, snap.str, snap.index, time, numParticles)
	}

	res, err := run(ctx, &cfg, len(snapshots), process)
	if err != nil {
		return nil, err
	}
	res.Bounds = extent
	return res, nil
}
