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
package ase

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
)

// Opts holds the pipeline configuration.
type Opts struct {
	// RefBias, if in [0,1], is used as the reference bias of every allele
	// pair and the empirical estimation is skipped.  A negative value means
	// estimate the bias from the data.
	RefBias float64
	// MinDepth is the minimum TotalCount of an accepted site.  MinDepth/2 is
	// also the per-allele read count a site needs to join the bias
	// estimation cohort.
	MinDepth int
	// MinMappability is the minimum mappability of an accepted site.  Used
	// only when a mappability table is given.
	MinMappability float64
	// HetPError, if in [0,1], is the noise rate of the heterozygosity test.  A
	// negative value means use EstimatePError.
	HetPError float64
	// HetFDR is the FDR threshold of the heterozygosity test.
	HetFDR float64
	// ImbalanceFDR is the FDR threshold used to count sites without
	// allelic imbalance.  It does not filter.
	ImbalanceFDR float64
	// Parallelism bounds the number of concurrent shards of the per-site
	// tests.  0 means runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	RefBias:        -1,
	MinDepth:       20,
	MinMappability: 0.05,
	HetPError:      -1,
	HetFDR:         0.05,
	ImbalanceFDR:   0.05,
}

// Validate checks that the options are usable.
func (o *Opts) Validate() error {
	inUnit := func(v float64) bool { return v >= 0 && v <= 1 }
	switch {
	case math.IsNaN(o.RefBias) || o.RefBias > 1:
		return errors.E(errors.Invalid, fmt.Sprintf("ase: reference bias %v not in [0,1]", o.RefBias))
	case o.MinDepth < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("ase: negative minimum depth %d", o.MinDepth))
	case math.IsNaN(o.MinMappability):
		return errors.E(errors.Invalid, "ase: minimum mappability is NaN")
	case math.IsNaN(o.HetPError) || o.HetPError > 1:
		return errors.E(errors.Invalid, fmt.Sprintf("ase: heterozygosity perror %v not in [0,1]", o.HetPError))
	case !inUnit(o.HetFDR):
		return errors.E(errors.Invalid, fmt.Sprintf("ase: heterozygosity FDR %v not in [0,1]", o.HetFDR))
	case !inUnit(o.ImbalanceFDR):
		return errors.E(errors.Invalid, fmt.Sprintf("ase: imbalance FDR %v not in [0,1]", o.ImbalanceFDR))
	case o.Parallelism < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("ase: negative parallelism %d", o.Parallelism))
	}
	return nil
}

// Report collects the diagnostics of one Run.
type Report struct {
	// Loaded is the # of sites given to Run.
	Loaded int
	// ZeroCoverage is the # of sites dropped because TotalCount was 0.
	ZeroCoverage int
	// BiasEstimated is true if the bias table was estimated from the data,
	// false if Opts.RefBias was used.
	BiasEstimated bool
	// BiasCutoff is the per-allele read count needed to join the bias
	// estimation cohort.  Meaningful only if BiasEstimated.
	BiasCutoff int
	// Bias is the table joined to the sites.
	Bias *BiasTable
	// PEstimated is true if PError was estimated from the data.
	PEstimated bool
	// PError is the noise rate used by the heterozygosity test.
	PError float64
	// FilterOpts and Filter describe the SiteFilter step.
	FilterOpts FilterOpts
	Filter     FilterStats
}

// Lines renders the report as human readable diagnostics.
func (r *Report) Lines() []string {
	var lines []string
	lines = append(lines, fmt.Sprintf("%d sites loaded, %d dropped with zero coverage", r.Loaded, r.ZeroCoverage))
	if r.BiasEstimated {
		lines = append(lines, fmt.Sprintf("estimated mean reference bias: %.4f (%d allele pairs, cutoff %d reads)",
			r.Bias.Mean(), r.Bias.Len(), r.BiasCutoff))
	} else {
		lines = append(lines, fmt.Sprintf("provided mean reference bias: %.4f", r.Bias.Mean()))
	}
	if r.PEstimated {
		lines = append(lines, fmt.Sprintf("estimated heterozygosity perror: %.6f", r.PError))
	}
	return append(lines, r.Filter.Lines(r.FilterOpts, r.PError)...)
}

func checkSite(s *Site) error {
	if s.RefCount < 0 || s.AltCount < 0 || s.OtherBases < 0 || s.RawDepth < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("ase: %s:%d: negative read count", s.Contig, s.Pos))
	}
	if s.RefCount+s.AltCount != s.TotalCount {
		return errors.E(errors.Invalid, fmt.Sprintf("ase: %s:%d: refCount %d + altCount %d != totalCount %d",
			s.Contig, s.Pos, s.RefCount, s.AltCount, s.TotalCount))
	}
	return nil
}

// Run applies the whole cleanup pipeline to sites and returns the accepted
// sites with all derived fields set.  mapp may be nil, in which case the
// mappability predicate is skipped.  The input slice is not modified.
//
// Run fails with ErrEmptyInput if no site has nonzero TotalCount, and with an
// errors.Invalid error on inconsistent counts or options.  It never returns a
// partial result.
func Run(sites []Site, mapp Mappability, opts *Opts) ([]Site, Report, error) {
	var r Report
	if err := opts.Validate(); err != nil {
		return nil, r, err
	}
	r.Loaded = len(sites)
	if len(sites) == 0 {
		return nil, r, ErrEmptyInput
	}
	for i := range sites {
		if err := checkSite(&sites[i]); err != nil {
			return nil, r, err
		}
	}
	work, nZero := prepareSites(sites)
	r.ZeroCoverage = nZero
	if len(work) == 0 {
		return nil, r, ErrEmptyInput
	}
	if mapp != nil {
		joinMappability(work, mapp)
	}

	if opts.RefBias >= 0 {
		r.Bias = ConstantBias(opts.RefBias)
	} else {
		r.BiasEstimated = true
		r.BiasCutoff = opts.MinDepth / 2
		r.Bias = EstimateBias(work, r.BiasCutoff)
	}
	joinBias(work, r.Bias)

	if err := AnnotateImbalance(work, opts.Parallelism); err != nil {
		return nil, r, err
	}

	r.PError = opts.HetPError
	if r.PError < 0 {
		r.PEstimated = true
		r.PError = EstimatePError(work)
	}
	if err := AnnotateHeterozygosity(work, r.PError, opts.Parallelism); err != nil {
		return nil, r, err
	}

	r.FilterOpts = FilterOpts{
		MinDepth:       opts.MinDepth,
		HasMappability: mapp != nil,
		MinMappability: opts.MinMappability,
		HetFDR:         opts.HetFDR,
		ImbalanceFDR:   opts.ImbalanceFDR,
	}
	var kept []Site
	kept, r.Filter = Filter(work, r.FilterOpts)
	return kept, r, nil
}
