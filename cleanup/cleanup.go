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
// Package cleanup runs the ASE filtering pipeline over files: it reads an
// allele count table, optionally restricts and annotates it with
// mappability, runs ase.Run, and writes the cleaned table together with its
// aseRatio histogram and a run summary.
package cleanup

import (
	"context"
	"io"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/ase/aseplot"
	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/ase/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Opts holds the file-level configuration on top of ase.Opts.
type Opts struct {
	ase.Opts
	// MappabilityPath, if set, is a mappability table to join to the sites.
	MappabilityPath string
	// PlotPath, if set, receives the aseRatio histogram of the kept sites.
	PlotPath string
	// SummaryPath, if set, receives the run Report as a metric/value table.
	SummaryPath string
	// Region, if set, restricts the run to sites in contig[:start[-end]].
	Region string
	// BedPath, if set, restricts the run to sites in the BED intervals.
	BedPath string
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{Opts: ase.DefaultOpts}

// Validate checks the pipeline options and the plot format.
func (o *Opts) Validate() error {
	if err := o.Opts.Validate(); err != nil {
		return err
	}
	if o.PlotPath != "" {
		return aseplot.CheckFormat(o.PlotPath)
	}
	return nil
}

// restriction decides which sites take part in a run.
type restriction struct {
	region *interval.Entry
	bed    *interval.Union
}

func newRestriction(ctx context.Context, opts *Opts) (r restriction, err error) {
	if opts.Region != "" {
		e, err := interval.ParseRegionString(opts.Region)
		if err != nil {
			return r, err
		}
		r.region = &e
	}
	if opts.BedPath != "" {
		u, err := interval.NewUnionFromBEDPath(ctx, opts.BedPath)
		if err != nil {
			return r, err
		}
		r.bed = &u
	}
	return r, nil
}

func (r restriction) active() bool { return r.region != nil || r.bed != nil }

// apply returns the sites passing both the region and the BED restriction.
func (r restriction) apply(sites []ase.Site) []ase.Site {
	if !r.active() {
		return sites
	}
	var kept []ase.Site
	for _, s := range sites {
		if r.region != nil && !r.region.Contains(s.Contig, s.Pos) {
			continue
		}
		if r.bed != nil && !r.bed.Contains(s.Contig, s.Pos) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// Cleanup reads the allele count table at asePath, runs the pipeline and
// writes the cleaned sites to outPath.  The plot and summary are rendered
// before anything is written, and the cleaned table is written last, so
// outPath exists only if the whole run succeeded.
func Cleanup(ctx context.Context, asePath, outPath string, opts *Opts) (ase.Report, error) {
	if err := opts.Validate(); err != nil {
		return ase.Report{}, err
	}
	restrict, err := newRestriction(ctx, opts)
	if err != nil {
		return ase.Report{}, err
	}
	sites, err := asetsv.ReadSites(ctx, asePath)
	if err != nil {
		return ase.Report{}, err
	}
	log.Printf("cleanup: read %d sites from %s", len(sites), asePath)
	if restrict.active() {
		n := len(sites)
		sites = restrict.apply(sites)
		log.Printf("cleanup: %d / %d sites in the requested regions", len(sites), n)
	}
	var mapp ase.Mappability
	if opts.MappabilityPath != "" {
		if mapp, err = asetsv.ReadMappability(ctx, opts.MappabilityPath); err != nil {
			return ase.Report{}, err
		}
		log.Printf("cleanup: read %d mappability scores from %s", len(mapp), opts.MappabilityPath)
	}

	kept, report, err := ase.Run(sites, mapp, &opts.Opts)
	if err != nil {
		if err == ase.ErrEmptyInput {
			return report, errors.E(err, asePath)
		}
		return report, err
	}
	for _, line := range report.Lines() {
		log.Printf("cleanup: %s", line)
	}

	var plotWriter io.WriterTo
	if opts.PlotPath != "" {
		if plotWriter, err = aseplot.Render(kept, opts.PlotPath); err != nil {
			return report, err
		}
	}
	checksum, err := asetsv.Checksum(kept)
	if err != nil {
		return report, err
	}

	if plotWriter != nil {
		if err := aseplot.Write(ctx, opts.PlotPath, plotWriter); err != nil {
			return report, err
		}
	}
	if opts.SummaryPath != "" {
		if err := WriteSummary(ctx, opts.SummaryPath, &report, checksum); err != nil {
			return report, err
		}
	}
	if err := asetsv.WriteSites(ctx, outPath, kept); err != nil {
		return report, err
	}
	log.Debug.Printf("cleanup: wrote %d sites to %s", len(kept), outPath)
	return report, nil
}
