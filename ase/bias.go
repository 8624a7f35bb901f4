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

	"gonum.org/v1/gonum/stat"
)

// Bases lists the base symbols spanning the bias table domain.
const Bases = "ACGT"

// NoBias is the reference bias assumed for allele pairs which have no
// estimate.
const NoBias = 0.5

// AllelePair is a (reference, alternate) base combination.
type AllelePair struct {
	Ref, Alt byte
}

func (p AllelePair) String() string { return string([]byte{p.Ref, p.Alt}) }

// BiasTable maps allele pairs to reference-mapping bias, the expected
// refCount/totalCount ratio at a truly balanced heterozygous site.  It is
// immutable once built.
type BiasTable struct {
	bias map[AllelePair]float64
}

// Get returns the bias of the given pair, and whether the table holds an
// estimate for it.
func (t *BiasTable) Get(pair AllelePair) (float64, bool) {
	b, ok := t.bias[pair]
	return b, ok
}

// Lookup returns the bias for (ref, alt), or NoBias if the table has no
// estimate for the pair.
func (t *BiasTable) Lookup(ref, alt byte) float64 {
	if b, ok := t.bias[AllelePair{ref, alt}]; ok {
		return b
	}
	return NoBias
}

// Len returns the number of pairs with an estimate.
func (t *BiasTable) Len() int { return len(t.bias) }

// Pairs returns the pairs with an estimate, sorted.
func (t *BiasTable) Pairs() []AllelePair {
	pairs := make([]AllelePair, 0, len(t.bias))
	for p := range t.bias {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Ref != pairs[j].Ref {
			return pairs[i].Ref < pairs[j].Ref
		}
		return pairs[i].Alt < pairs[j].Alt
	})
	return pairs
}

// Mean returns the unweighted mean bias over the pairs in the table, or NaN
// for an empty table.
func (t *BiasTable) Mean() float64 {
	pairs := t.Pairs()
	vals := make([]float64, len(pairs))
	for i, p := range pairs {
		vals[i] = t.bias[p]
	}
	return stat.Mean(vals, nil)
}

// EstimateBias builds a bias table from the sites having at least cutoff
// reads on both alleles.  The bias of a pair is the mean ASERatio of those
// sites; pairs with no such site are left out of the table.
//
// REQUIRES: ASERatio is set on every site.
func EstimateBias(sites []Site, cutoff int) *BiasTable {
	ratios := map[AllelePair][]float64{}
	for i := range sites {
		s := &sites[i]
		if s.RefCount < cutoff || s.AltCount < cutoff {
			continue
		}
		pair := AllelePair{s.RefAllele, s.AltAllele}
		ratios[pair] = append(ratios[pair], s.ASERatio)
	}
	t := &BiasTable{bias: make(map[AllelePair]float64, len(ratios))}
	for pair, r := range ratios {
		t.bias[pair] = stat.Mean(r, nil)
	}
	return t
}

// ConstantBias returns a table mapping every pair over Bases to b.
func ConstantBias(b float64) *BiasTable {
	t := &BiasTable{bias: make(map[AllelePair]float64, len(Bases)*len(Bases))}
	for i := 0; i < len(Bases); i++ {
		for j := 0; j < len(Bases); j++ {
			t.bias[AllelePair{Bases[i], Bases[j]}] = b
		}
	}
	return t
}

// joinBias sets RefBias on every site from t.
func joinBias(sites []Site, t *BiasTable) {
	for i := range sites {
		sites[i].RefBias = t.Lookup(sites[i].RefAllele, sites[i].AltAllele)
	}
}
