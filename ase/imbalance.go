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

// AnnotateImbalance sets ImbalancePValue and ImbalanceAdjPValue on every
// site.  The p-value is the two-sided exact binomial test of RefCount
// successes out of TotalCount under the site's RefBias; the adjusted value is
// its Benjamini-Hochberg correction across all sites.
//
// The per-site tests run over parallelism shards.  Correction starts only once
// every shard has finished.
//
// REQUIRES: TotalCount > 0 and RefBias is set on every site.
func AnnotateImbalance(sites []Site, parallelism int) error {
	pvals := make([]float64, len(sites))
	if err := eachSite(len(sites), parallelism, func(i int) {
		s := &sites[i]
		pvals[i] = BinomTestTwoSided(s.RefCount, s.TotalCount, s.RefBias)
	}); err != nil {
		return err
	}
	adj := AdjustBH(pvals)
	for i := range sites {
		sites[i].ImbalancePValue = pvals[i]
		sites[i].ImbalanceAdjPValue = adj[i]
	}
	return nil
}
