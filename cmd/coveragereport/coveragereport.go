//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/coverage"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/plot"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/report"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose mode")
	title := flag.String("title", "", "Title of the report")
	gnuplot := flag.Bool("gnuplot", true, "Plot the coverage with gnuplot")
	gnuplotBin := flag.String("gnuplot-bin", "", "Path to the gnuplot binary (default: looked up in PATH)")
	help := flag.Bool("h", false, "Help message")

	flag.Parse()

	cmdName := filepath.Base(os.Args[0])
	if *help {
		fmt.Printf("%s creates a report from the coverage file of a directory", cmdName)
		fmt.Println("\nUsage:")
		fmt.Printf("\t%s [options] [directory]\n", cmdName)
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

	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	coverageFile := filepath.Join(dir, format.CoverageFilename)
	records, err := coverage.ReadFile(coverageFile)
	if err != nil {
		fmt.Printf("[ERROR] %s\n", err)
		os.Exit(errors.ExitCode(err))
	}
	log.Printf("%d records in %s\n", len(records), dir)

	plotFile := ""
	if *gnuplot {
		plotFile, err = plot.CoveragePlot(*gnuplotBin, dir)
		if err != nil {
			if !errors.Is(err, errors.ErrImagingUnavailable) {
				fmt.Printf("[ERROR] unable to plot the coverage: %s\n", err)
				os.Exit(errors.ExitCode(err))
			}
			fmt.Printf("gnuplot not available (%s), only the script was created\n", err)
		}
	}

	summary := report.Summary{
		Title:        *title,
		Records:      records,
		Plot:         plotFile,
		CoverageFile: coverageFile,
	}
	if len(records) > 0 && util.FileExists(filepath.Join(dir, format.ImageFilename(records[0].Snapshot))) {
		summary.ImageDir = dir
	}
	files, err := report.Write(dir, summary)
	if err != nil {
		fmt.Printf("[ERROR] unable to create the report: %s\n", err)
		os.Exit(errors.ExitCode(err))
	}
	fmt.Printf("Report available in %s\n", files.HTML)
}
