// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package aseplot draws the aseRatio distribution of a cleaned site table.
package aseplot

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// NBins is the number of histogram bins spanning [0,1].
const NBins = 32

// Bins counts ratios into n equal-width bins over [0,1].  The last bin is
// closed, so a ratio of exactly 1 lands in it.  NaN and out-of-range values
// are not counted.
func Bins(ratios []float64, n int) []plotter.HistogramBin {
	bins := make([]plotter.HistogramBin, n)
	for i := range bins {
		bins[i].Min = float64(i) / float64(n)
		bins[i].Max = float64(i+1) / float64(n)
	}
	for _, r := range ratios {
		if math.IsNaN(r) || r < 0 || r > 1 {
			continue
		}
		i := int(r * float64(n))
		if i == n {
			i--
		}
		bins[i].Weight++
	}
	return bins
}

// NewHistogram returns a plot of the aseRatio histogram of sites.
func NewHistogram(sites []ase.Site) *plot.Plot {
	ratios := make([]float64, len(sites))
	for i := range sites {
		ratios[i] = sites[i].ASERatio
	}
	p := plot.New()
	p.X.Label.Text = "B-Allele Frequency"
	p.Y.Label.Text = "Number of Positions"
	p.X.Min, p.X.Max = 0, 1
	var ticks []plot.Tick
	for i := 0; i <= 8; i++ {
		v := float64(i) / 8
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.3f", v)})
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Add(&plotter.Histogram{
		Bins:      Bins(ratios, NBins),
		Width:     1.0 / NBins,
		FillColor: color.RGBA{R: 31, G: 119, B: 180, A: 255},
		LineStyle: plotter.DefaultLineStyle,
	})
	return p
}

// plotFormat returns the image format named by path's extension.
func plotFormat(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func writerTo(p *plot.Plot, path string) (io.WriterTo, error) {
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, plotFormat(path))
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "aseplot: unsupported plot format", path)
	}
	return wt, nil
}

// CheckFormat returns an error unless path's extension names an image format
// that WriteHistogram can render: png, svg, pdf, eps, jpg, tif or tex.
func CheckFormat(path string) error {
	_, err := writerTo(plot.New(), path)
	return err
}

// Render draws the histogram of sites in the format given by path's
// extension.  Nothing is written until WriteTo is called.
func Render(sites []ase.Site, path string) (io.WriterTo, error) {
	return writerTo(NewHistogram(sites), path)
}

// Write writes a rendered plot to path.
func Write(ctx context.Context, path string, wt io.WriterTo) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "aseplot: create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	_, err = wt.WriteTo(out.Writer(ctx))
	return err
}

// WriteHistogram renders the histogram of sites to path.  The image format
// is taken from the path extension.
func WriteHistogram(ctx context.Context, path string, sites []ase.Site) error {
	wt, err := Render(sites, path)
	if err != nil {
		return err
	}
	return Write(ctx, path, wt)
}
