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

// EstimatePError returns the dataset-wide sequencing noise rate, the ratio of
// reads supporting neither allele to the raw depth, summed over all sites.  It
// returns 0 if the total raw depth is 0.
func EstimatePError(sites []Site) float64 {
	var other, raw int64
	for i := range sites {
		other += int64(sites[i].OtherBases)
		raw += int64(sites[i].RawDepth)
	}
	if raw <= 0 {
		return 0
	}
	return float64(other) / float64(raw)
}

// AnnotateHeterozygosity sets HetPValue and HetAdjPValue on every site.  The
// p-value is the one-sided exact binomial test of the minor allele count, or
// more, out of TotalCount under noise rate perror.  A small value means the
// minor allele is unlikely to be noise, so the site is confidently
// heterozygous.
//
// perror == 0 is allowed: a site with minor count 0 gets p-value 1 and any
// other site gets 0.
func AnnotateHeterozygosity(sites []Site, perror float64, parallelism int) error {
	pvals := make([]float64, len(sites))
	if err := eachSite(len(sites), parallelism, func(i int) {
		s := &sites[i]
		pvals[i] = BinomTestGreater(s.MinorCount(), s.TotalCount, perror)
	}); err != nil {
		return err
	}
	adj := AdjustBH(pvals)
	for i := range sites {
		sites[i].HetPValue = pvals[i]
		sites[i].HetAdjPValue = adj[i]
	}
	return nil
}
