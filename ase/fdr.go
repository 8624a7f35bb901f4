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
	"sort"
)

// AdjustBH returns Benjamini-Hochberg adjusted p-values for pvals, in the
// same order as pvals.  pvals is not modified.
//
// Ranks are assigned by a stable ascending sort, so tied p-values keep their
// input order and repeated runs give identical output.  The adjusted value
// at rank r is the minimum of p(s)/(s/m) over all ranks s >= r, clipped to 1.
// Dividing by s/m keeps every candidate >= p(s) under rounding, and exactly
// p(m) at the top rank.
// An empty input yields an empty output, and a single p-value is returned
// unchanged.
func AdjustBH(pvals []float64) []float64 {
	m := len(pvals)
	adj := make([]float64, m)
	if m == 0 {
		return adj
	}
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pvals[order[a]] < pvals[order[b]]
	})
	runMin := 1.0
	for r := m; r >= 1; r-- {
		i := order[r-1]
		if c := pvals[i] / (float64(r) / float64(m)); c < runMin {
			runMin = c
		}
		adj[i] = runMin
	}
	return adj
}
