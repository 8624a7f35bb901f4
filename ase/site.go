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
)

// Locus identifies a genomic position.  Pos is 1-based.
type Locus struct {
	Contig string
	Pos    int
}

// Site is one row of the working table.
//
// The count fields come straight from the allele counter.  TotalCount is
// RefCount+AltCount; OtherBases counts reads supporting neither allele and is
// tracked separately as noise.  The remaining fields are filled in by Run, in
// pipeline order.
type Site struct {
	Contig    string
	Pos       int
	RefAllele byte
	AltAllele byte

	RefCount   int
	AltCount   int
	TotalCount int
	OtherBases int
	RawDepth   int

	// Quality-tier breakdowns.  Carried from the input when present, never
	// written to the cleaned output.
	LowMAPQDepth  int
	LowBaseQDepth int
	ImproperPairs int

	// Mappability is NaN when no score is known for the site.
	Mappability float64

	ASERatio           float64
	RefBias            float64
	ImbalancePValue    float64
	ImbalanceAdjPValue float64
	HetPValue          float64
	HetAdjPValue       float64
}

// Locus returns the site's position.
func (s *Site) Locus() Locus { return Locus{s.Contig, s.Pos} }

// MinorCount returns the read count of the less supported allele.
func (s *Site) MinorCount() int {
	if s.AltCount < s.RefCount {
		return s.AltCount
	}
	return s.RefCount
}

// Mappability maps loci to mappability scores in [0,1].  A NaN score means
// the source value was present but not numeric.
type Mappability map[Locus]float64

// prepareSites copies the sites with nonzero TotalCount into a fresh slice
// and computes their ASERatio.  It returns the number of dropped sites.
func prepareSites(sites []Site) (kept []Site, nZero int) {
	kept = make([]Site, 0, len(sites))
	for _, s := range sites {
		if s.TotalCount <= 0 {
			nZero++
			continue
		}
		s.ASERatio = float64(s.RefCount) / float64(s.TotalCount)
		kept = append(kept, s)
	}
	return
}

// joinMappability sets Mappability for every site; sites missing from m get
// NaN and will therefore fail any mappability threshold.
func joinMappability(sites []Site, m Mappability) {
	for i := range sites {
		score, ok := m[sites[i].Locus()]
		if !ok {
			score = math.NaN()
		}
		sites[i].Mappability = score
	}
}
