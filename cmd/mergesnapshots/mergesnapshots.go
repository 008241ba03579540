//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/aggregator"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/datafilereader"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/notation"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/plot"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/report"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose mode")
	prefix := flag.String("prefix", datafilereader.SubdomainFilePrefix, "Root of the names of the files created by the processes of the simulation")
	dir := flag.String("dir", "", "Output directory (default: the input directory)")
	workers := flag.Int("workers", 1, "Number of snapshots processed concurrently")
	snapshots := flag.String("snapshots", "", "Snapshots to process, e.g., 0-10,15 (default: all)")
	strict := flag.Bool("strict", false, "Check that the bounds of every process never change")
	showProgress := flag.Bool("progress", false, "Display a progress bar")
	createReport := flag.Bool("report", false, "Create a markdown and HTML report of the coverage")
	gnuplot := flag.Bool("gnuplot", false, "Plot the coverage with gnuplot")
	help := flag.Bool("h", false, "Help message")

	flag.Parse()

	cmdName := filepath.Base(os.Args[0])
	if *help {
		fmt.Printf("%s assembles the snapshots written by all the processes of a parallel simulation, creates an image of each snapshot and the coverage file", cmdName)
		fmt.Println("\nUsage:")
		fmt.Printf("\t%s [options] [input directory]\n", cmdName)
		flag.PrintDefaults()
		os.Exit(0)
	}

	logFile := util.OpenLogFile("kmcthinfilm", cmdName)
	defer logFile.Close()
	if *verbose {
		nultiWriters := io.MultiWriter(os.Stdout, logFile)
		log.SetOutput(nultiWriters)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	cfg := aggregator.Config{
		InputDir:  ".",
		OutputDir: *dir,
		Prefix:    *prefix,
		Workers:   *workers,
		Strict:    *strict,
	}
	if flag.NArg() > 0 {
		cfg.InputDir = flag.Arg(0)
	}
	if *snapshots != "" {
		list, err := notation.ConvertCompressedListToIntSlice(*snapshots)
		if err != nil {
			fmt.Printf("[ERROR] invalid list of snapshots %s: %s\n", *snapshots, err)
			os.Exit(errors.ExitCode(err))
		}
		cfg.Snapshots = list
	}
	if *showProgress {
		cfg.Progress = os.Stdout
	}

	res, err := aggregator.MergeSubdomains(context.Background(), cfg)
	if err != nil {
		fmt.Printf("[ERROR] %s\n", err)
		os.Exit(errors.ExitCode(err))
	}
	log.Printf("Coverage saved in %s\n", res.CoverageFile)

	outputDir := filepath.Dir(res.CoverageFile)
	plotFile := ""
	if *gnuplot {
		plotFile, err = plot.CoveragePlot("", outputDir)
		if err != nil {
			if !errors.Is(err, errors.ErrImagingUnavailable) {
				fmt.Printf("[ERROR] unable to plot the coverage: %s\n", err)
				os.Exit(errors.ExitCode(err))
			}
			fmt.Printf("gnuplot not available (%s), only the script was created\n", err)
		}
	}

	if *createReport {
		summary := report.Summary{
			GridRows: res.Bounds.Rows(),
			GridCols: res.Bounds.Cols(),
			Records:  res.Records,
			ImageDir: outputDir,
			Plot:     plotFile,

			CoverageFile: res.CoverageFile,
		}
		files, err := report.Write(outputDir, summary)
		if err != nil {
			fmt.Printf("[ERROR] unable to create the report: %s\n", err)
			os.Exit(errors.ExitCode(err))
		}
		fmt.Printf("Report available in %s\n", files.HTML)
	}
}
