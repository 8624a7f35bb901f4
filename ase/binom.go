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
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// pmfRelErr is the relative tolerance used when deciding whether an outcome
// is "at most as likely" as the observed one.  It matches the tolerance of
// the reference implementations, so that p-values computed for symmetric
// cases come out as exactly 1.
const pmfRelErr = 1 + 1e-7

// BinomTestTwoSided returns the p-value of the two-sided exact binomial test
// of k successes in n trials against success probability p.  The p-value is
// the total probability of all outcomes no more likely than k.
//
// REQUIRES: 0 <= k <= n, 0 <= p <= 1.
func BinomTestTwoSided(k, n int, p float64) float64 {
	if n <= 0 {
		return 1
	}
	// Degenerate nulls put all mass on one outcome.
	if p <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	if p >= 1 {
		if k == n {
			return 1
		}
		return 0
	}
	b := distuv.Binomial{N: float64(n), P: p}
	x := float64(k)
	mean := p * float64(n)
	if x == mean {
		return 1
	}
	d := b.Prob(x) * pmfRelErr
	var pval float64
	if x < mean {
		// The pmf is non-increasing on [ceil(mean), n]; find where it first
		// drops to d and count the tail from there.
		lo := int(math.Ceil(mean))
		ix := lo + sort.Search(n-lo+1, func(j int) bool {
			return b.Prob(float64(lo+j)) <= d
		})
		y := n - ix + 1
		pval = b.CDF(x) + b.Survival(float64(n-y))
	} else {
		// The pmf is non-decreasing on [0, floor(mean)].
		hi := int(math.Floor(mean))
		y := sort.Search(hi+1, func(j int) bool {
			return b.Prob(float64(j)) > d
		})
		pval = b.CDF(float64(y-1)) + b.Survival(x-1)
	}
	return clampProb(pval)
}

// BinomTestGreater returns the p-value of the one-sided exact binomial test
// of k or more successes in n trials against success probability p.
//
// p == 0 is allowed: any k > 0 is then impossible under the null and the
// p-value is 0.
func BinomTestGreater(k, n int, p float64) float64 {
	if k <= 0 {
		return 1
	}
	if p <= 0 {
		return 0
	}
	if p >= 1 || n <= 0 {
		return 1
	}
	b := distuv.Binomial{N: float64(n), P: p}
	return clampProb(b.Survival(float64(k - 1)))
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
