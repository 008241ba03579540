//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package plot

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gvallee/go_exec/pkg/advexec"
	"github.com/gvallee/go_util/pkg/util"
	"github.com/jjramsey/KMCThinFilm-archive/tools/internal/pkg/format"
	"github.com/jjramsey/KMCThinFilm-archive/tools/pkg/errors"
)

const (
	// GnuplotBinary is the name of the binary looked up in PATH
	GnuplotBinary = "gnuplot"

	// CoverageScriptFilename is the name of the gnuplot script plotting the coverage file
	CoverageScriptFilename = "coverage.gp"

	// CoveragePlotFilename is the name of the image created by the coverage script
	CoveragePlotFilename = "coverage.png"

	plotScriptPrelude = "set term png size 800,600\nset key outside\nset key right top\n"
)

// FindGnuplot returns the path to the gnuplot binary. bin, when not empty, overrides the
// lookup in PATH.
func FindGnuplot(bin string) (string, error) {
	if bin != "" {
		if !util.FileExists(bin) {
			return "", errors.New(errors.ErrImagingUnavailable, fmt.Errorf("%s does not exist", bin))
		}
		return bin, nil
	}
	path, err := exec.LookPath(GnuplotBinary)
	if err != nil {
		return "", errors.New(errors.ErrImagingUnavailable, err)
	}
	return path, nil
}

// RunGnuplot executes a gnuplot script from dir
func RunGnuplot(bin string, dir string, script string) error {
	gnuplotBin, err := FindGnuplot(bin)
	if err != nil {
		return err
	}

	var cmd advexec.Advcmd
	cmd.BinPath = gnuplotBin
	cmd.CmdArgs = []string{script}
	cmd.ExecDir = dir
	res := cmd.Run()
	if res.Err != nil {
		return errors.NewAt(errors.ErrFatal, fmt.Errorf("%s failed: %s - stdout: %s - stderr: %s", gnuplotBin, res.Err, res.Stdout, res.Stderr), script, 0)
	}
	log.Printf("%s %s succeeded\n", gnuplotBin, script)

	return nil
}

// WriteCoverageScript creates in dir a gnuplot script plotting the coverage and the RMS height
// of the snapshots against the simulation time. It returns the path to the script.
func WriteCoverageScript(dir string) (string, error) {
	plotScriptFile := filepath.Join(dir, CoverageScriptFilename)
	fd, err := os.OpenFile(plotScriptFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.NewAt(errors.ErrFatal, err, plotScriptFile, 0)
	}

	var str strings.Builder
	str.WriteString(plotScriptPrelude)
	str.WriteString(fmt.Sprintf("set output \"%s\"\n\n", CoveragePlotFilename))
	str.WriteString("set xlabel \"Simulation time\"\n")
	str.WriteString("set ylabel \"Coverage\"\n")
	str.WriteString("set y2label \"RMS height\"\n")
	str.WriteString("set ytics nomirror\nset y2tics\n\n")
	str.WriteString(fmt.Sprintf("plot \"%s\" using 2:3 with linespoints title \"coverage\", \\\n", format.CoverageFilename))
	str.WriteString(fmt.Sprintf("\"%s\" using 2:4 axes x1y2 with linespoints title \"RMS height\"\n", format.CoverageFilename))

	_, err = fd.WriteString(str.String())
	if err != nil {
		fd.Close()
		return "", errors.NewAt(errors.ErrFatal, err, plotScriptFile, 0)
	}
	err = fd.Close()
	if err != nil {
		return "", errors.NewAt(errors.ErrFatal, err, plotScriptFile, 0)
	}

	return plotScriptFile, nil
}

// CoveragePlot creates the coverage script in dir and runs it; a missing gnuplot is reported
// with an error of the errors.ErrImagingUnavailable class after the script is written.
func CoveragePlot(bin string, dir string) (string, error) {
	script, err := WriteCoverageScript(dir)
	if err != nil {
		return "", err
	}
	err = RunGnuplot(bin, dir, script)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CoveragePlotFilename), nil
}
