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
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/pattern"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/plot"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose mode")
	edgeEnergy := flag.Float64("edge", pattern.DefaultEdgeEnergy, "Energy at the edges of a domain")
	midEnergy := flag.Float64("mid", pattern.DefaultMidEnergy, "Energy at the center of a domain")
	halfWidth := flag.Int("halfwidth", pattern.DefaultHalfWidth, "Number of values between the edge and the center of a domain")
	tiles := flag.Int("tiles", pattern.DefaultTiles, "Number of domains along each edge of the substrate")
	from := flag.String("from", "", "Domain file to tile instead of building a new domain")
	preview := flag.String("preview", plot.PreviewPlot, "Preview method: plot, gnuplot or none")
	dir := flag.String("dir", "", "Output directory")
	help := flag.Bool("h", false, "Help message")

	flag.Parse()

	cmdName := filepath.Base(os.Args[0])
	if *help {
		fmt.Printf("%s creates a substrate made of identical domains whose energy ramps up from the edges to the center", cmdName)
		fmt.Println("\nUsage:")
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

	if *dir != "" && !util.PathExists(*dir) {
		fmt.Printf("[ERROR] %s does not exist\n", *dir)
		os.Exit(1)
	}
	if *from != "" && !util.FileExists(*from) {
		fmt.Printf("[ERROR] %s does not exist\n", *from)
		os.Exit(1)
	}

	previewer, err := plot.NewPreviewer(*preview)
	if err != nil {
		fmt.Printf("[ERROR] %s\n", err)
		os.Exit(errors.ExitCode(err))
	}

	cfg := pattern.TiledConfig{
		Energies: pattern.Energies{
			EdgeEnergy: *edgeEnergy,
			MidEnergy:  *midEnergy,
			HalfWidth:  *halfWidth,
		},
		RowTiles:    *tiles,
		ColTiles:    *tiles,
		Source:      *from,
		OutputDir:   *dir,
		Diagnostics: os.Stdout,
	}
	res, err := pattern.GenerateTiled(cfg, previewer)
	if err != nil {
		fmt.Printf("[ERROR] unable to create the tiled substrate: %s\n", err)
		os.Exit(errors.ExitCode(err))
	}
	log.Printf("Substrate saved in %s and %s\n", res.FlatFile, res.GriddedFile)
}
