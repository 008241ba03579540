//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package aggregator

import (
	"context"
	"fmt"

	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/datafilereader"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

// CollectSnapshots processes the files of a simulation where a single process writes entire
// snapshots. The size of the grid is read from the first line of each file.
func CollectSnapshots(ctx context.Context, cfg Config) (*Result, error) {
	cfg.setDefaults()
	err := cfg.check()
	if err != nil {
		return nil, err
	}

	all, err := datafilereader.FindSnapshotFiles(cfg.InputDir, datafilereader.NewSnapshotNames(cfg.Prefix))
	if err != nil {
		return nil, err
	}
	var files []datafilereader.SnapshotFile
	for _, f := range all {
		if cfg.selected(f.Index) {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, errors.NewAt(errors.ErrNotFound, fmt.Errorf("no snapshot file"), cfg.InputDir, 0)
	}

	process := func(idx int) (snapshotResult, error) {
		f := files[idx]
		g, data, err := datafilereader.ReadSnapshot(f.Path)
		if err != nil {
			return snapshotResult{}, err
		}
		return finish(&cfg, g, f.Snapshot, f.Index, data.Header.Time, data.NumParticles)
	}

	res, err := run(ctx, &cfg, len(files), process)
	if err != nil {
		return nil, err
	}
	h, err := datafilereader.ReadHeader(files[0].Path)
	if err != nil {
		return nil, err
	}
	res.Bounds = h.Bounds
	return res, nil
}
