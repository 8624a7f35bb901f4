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
)

// FilterOpts holds the SiteFilter thresholds.
type FilterOpts struct {
	// MinDepth is the minimum TotalCount of an accepted site.
	MinDepth int
	// HasMappability enables the mappability predicate.  When false, every
	// site passes it regardless of MinMappability.
	HasMappability bool
	// MinMappability is the minimum mappability score of an accepted site.  A
	// site with unknown (NaN) mappability fails.
	MinMappability float64
	// HetFDR is the heterozygosity FDR threshold: a site is accepted only if
	// HetAdjPValue < HetFDR.
	HetFDR float64
	// ImbalanceFDR only sets the threshold of FilterStats.NoImbalance.  It is
	// never a filtering criterion.
	ImbalanceFDR float64
}

// FilterStats counts the sites failing each predicate.  Every count is taken
// over all Sites input sites, independently of the other predicates, so the
// counts may add up to more than Sites-Kept.
type FilterStats struct {
	// Sites is the number of sites given to Filter.
	Sites int
	// LowMappability is the # of sites with mappability below threshold.
	// Always 0 when mappability was not supplied.
	LowMappability int
	// LowDepth is the # of sites with TotalCount below MinDepth.
	LowDepth int
	// Homozygous is the # of sites with HetAdjPValue >= HetFDR.
	Homozygous int
	// NoImbalance is the # of sites with ImbalanceAdjPValue >= ImbalanceFDR.
	// Informational.
	NoImbalance int
	// Kept is the # of sites passing every predicate.
	Kept int
}

// Removed returns the number of sites rejected by Filter.
func (s FilterStats) Removed() int { return s.Sites - s.Kept }

// percent returns 100*n/total, or 0 for an empty population.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// Lines renders the stats as human readable diagnostics, one per line.
func (s FilterStats) Lines(opts FilterOpts, perror float64) []string {
	var lines []string
	if opts.HasMappability {
		lines = append(lines, fmt.Sprintf("%d / %d (%.2f%%) of sites removed due to mappability (mappability < %.2f)",
			s.LowMappability, s.Sites, percent(s.LowMappability, s.Sites), opts.MinMappability))
	}
	lines = append(lines,
		fmt.Sprintf("%d / %d (%.2f%%) of sites removed due to low totalCount (< %d reads)",
			s.LowDepth, s.Sites, percent(s.LowDepth, s.Sites), opts.MinDepth),
		fmt.Sprintf("%d / %d (%.2f%%) of sites removed as statistically homozygous (het FDR >= %.2f, perror %.4f)",
			s.Homozygous, s.Sites, percent(s.Homozygous, s.Sites), opts.HetFDR, perror),
		fmt.Sprintf("%d / %d (%.2f%%) of sites show no allelic imbalance (imbalance FDR >= %.2f)",
			s.NoImbalance, s.Sites, percent(s.NoImbalance, s.Sites), opts.ImbalanceFDR),
		fmt.Sprintf("%d / %d (%.2f%%) of sites removed in total",
			s.Removed(), s.Sites, percent(s.Removed(), s.Sites)))
	return lines
}

// passMappability is false for NaN scores.
func (o *FilterOpts) passMappability(s *Site) bool {
	return !o.HasMappability || s.Mappability >= o.MinMappability
}

func (o *FilterOpts) passDepth(s *Site) bool { return s.TotalCount >= o.MinDepth }

func (o *FilterOpts) passHeterozygosity(s *Site) bool { return s.HetAdjPValue < o.HetFDR }

// Filter returns the sites passing the mappability, depth and
// heterozygosity predicates, in input order, and the per-predicate counts.
// The input slice is not modified.  Imbalance never affects acceptance.
func Filter(sites []Site, opts FilterOpts) ([]Site, FilterStats) {
	stats := FilterStats{Sites: len(sites)}
	kept := make([]Site, 0, len(sites))
	for i := range sites {
		s := &sites[i]
		mapOK := opts.passMappability(s)
		depthOK := opts.passDepth(s)
		hetOK := opts.passHeterozygosity(s)
		if !mapOK {
			stats.LowMappability++
		}
		if !depthOK {
			stats.LowDepth++
		}
		if !hetOK {
			stats.Homozygous++
		}
		if !(s.ImbalanceAdjPValue < opts.ImbalanceFDR) {
			stats.NoImbalance++
		}
		if mapOK && depthOK && hetOK {
			kept = append(kept, *s)
		}
	}
	stats.Kept = len(kept)
	return kept, stats
}
