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
package ase_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func site(contig string, pos int, ref, alt byte, refCount, altCount, other, raw int) ase.Site {
	return ase.Site{
		Contig:     contig,
		Pos:        pos,
		RefAllele:  ref,
		AltAllele:  alt,
		RefCount:   refCount,
		AltCount:   altCount,
		TotalCount: refCount + altCount,
		OtherBases: other,
		RawDepth:   raw,
	}
}

func TestRunEstimatedBias(t *testing.T) {
	sites := []ase.Site{
		site("chr1", 1000, 'A', 'G', 30, 25, 1, 60),
		site("chr1", 2000, 'A', 'G', 5, 3, 0, 10),
	}
	opts := ase.DefaultOpts
	opts.Parallelism = 1
	kept, r, err := ase.Run(sites, nil, &opts)
	require.NoError(t, err)

	assert.True(t, r.BiasEstimated)
	assert.Equal(t, 10, r.BiasCutoff)
	assert.Equal(t, 1, r.Bias.Len())
	bias, ok := r.Bias.Get(ase.AllelePair{Ref: 'A', Alt: 'G'})
	require.True(t, ok)
	assert.InDelta(t, 0.5455, bias, 1e-4)
	assert.Equal(t, ase.NoBias, r.Bias.Lookup('C', 'T'))

	assert.True(t, r.PEstimated)
	assert.InDelta(t, 1.0/70, r.PError, 1e-15)

	require.Len(t, kept, 1)
	s := kept[0]
	assert.Equal(t, 1000, s.Pos)
	assert.Equal(t, 30.0/55, s.ASERatio)
	assert.Equal(t, bias, s.RefBias)
	assert.InDelta(t, 1, s.ImbalancePValue, 1e-9)
	assert.True(t, s.HetAdjPValue < 0.05)
	assert.Equal(t, 1, r.Filter.LowDepth)
	assert.Equal(t, 0.0, sites[0].RefBias, "input modified")
}

func TestRunConstantBias(t *testing.T) {
	sites := []ase.Site{
		site("chr1", 1000, 'A', 'G', 30, 25, 1, 60),
		site("chr1", 2000, 'C', 'T', 50, 10, 0, 60),
	}
	opts := ase.DefaultOpts
	opts.RefBias = 0.5
	_, r, err := ase.Run(sites, nil, &opts)
	require.NoError(t, err)
	assert.False(t, r.BiasEstimated)
	assert.Equal(t, 16, r.Bias.Len())
	for _, p := range r.Bias.Pairs() {
		b, _ := r.Bias.Get(p)
		assert.Equal(t, 0.5, b, "pair %v", p)
	}
	assert.Equal(t, 0.5, r.Bias.Mean())
}

func TestRunZeroPError(t *testing.T) {
	sites := []ase.Site{
		site("chr1", 1, 'A', 'G', 20, 0, 0, 100),
		site("chr1", 2, 'A', 'G', 15, 10, 0, 100),
		site("chr1", 3, 'T', 'C', 0, 30, 0, 100),
	}
	opts := ase.DefaultOpts
	kept, r, err := ase.Run(sites, nil, &opts)
	require.NoError(t, err)
	assert.True(t, r.PEstimated)
	assert.Equal(t, 0.0, r.PError)
	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].Pos)
	assert.Equal(t, 0.0, kept[0].HetPValue)
	assert.Equal(t, 2, r.Filter.Homozygous)

	work := []ase.Site{sites[0], sites[1]}
	require.NoError(t, ase.AnnotateHeterozygosity(work, 0, 2))
	assert.Equal(t, 1.0, work[0].HetPValue)
	assert.Equal(t, 0.0, work[1].HetPValue)
}

func TestRunMappability(t *testing.T) {
	sites := []ase.Site{
		site("chr1", 1, 'A', 'G', 15, 10, 0, 100),
		site("chr1", 2, 'A', 'G', 15, 10, 0, 100),
		site("chr1", 3, 'A', 'G', 15, 10, 0, 100),
	}
	mapp := ase.Mappability{
		{Contig: "chr1", Pos: 1}: 1,
		{Contig: "chr1", Pos: 2}: 0.01,
	}
	opts := ase.DefaultOpts
	kept, r, err := ase.Run(sites, mapp, &opts)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].Pos)
	assert.Equal(t, 2, r.Filter.LowMappability)
	assert.True(t, r.FilterOpts.HasMappability)

	kept, r, err = ase.Run(sites, nil, &opts)
	require.NoError(t, err)
	assert.Len(t, kept, 3)
	assert.False(t, r.FilterOpts.HasMappability)
}

func TestRunParallelismDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var sites []ase.Site
	for i := 0; i < 1000; i++ {
		ref := ase.Bases[r.Intn(4)]
		alt := ase.Bases[r.Intn(4)]
		sites = append(sites, site("chr7", i+1, ref, alt, r.Intn(60), r.Intn(60), r.Intn(3), 130))
	}
	var outs [][]ase.Site
	for _, parallelism := range []int{1, 3, 16, 0} {
		opts := ase.DefaultOpts
		opts.Parallelism = parallelism
		kept, _, err := ase.Run(sites, nil, &opts)
		require.NoError(t, err)
		outs = append(outs, kept)
	}
	require.NotEmpty(t, outs[0])
	for _, kept := range outs[1:] {
		assert.Equal(t, outs[0], kept)
	}
	for _, s := range outs[0] {
		assert.True(t, s.ASERatio >= 0 && s.ASERatio <= 1)
		for _, p := range []float64{s.ImbalancePValue, s.ImbalanceAdjPValue, s.HetPValue, s.HetAdjPValue} {
			assert.True(t, p >= 0 && p <= 1, "p-value %v", p)
		}
		assert.True(t, s.ImbalanceAdjPValue >= s.ImbalancePValue)
	}
}

func TestRunErrors(t *testing.T) {
	opts := ase.DefaultOpts
	_, _, err := ase.Run(nil, nil, &opts)
	assert.Equal(t, ase.ErrEmptyInput, err)

	_, r, err := ase.Run([]ase.Site{site("chr1", 1, 'A', 'C', 0, 0, 3, 3)}, nil, &opts)
	assert.Equal(t, ase.ErrEmptyInput, err)
	assert.Equal(t, 1, r.ZeroCoverage)

	bad := site("chr1", 1, 'A', 'C', 3, 3, 0, 6)
	bad.TotalCount = 5
	_, _, err = ase.Run([]ase.Site{bad}, nil, &opts)
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))

	for _, mod := range []func(o *ase.Opts){
		func(o *ase.Opts) { o.RefBias = 1.5 },
		func(o *ase.Opts) { o.MinDepth = -1 },
		func(o *ase.Opts) { o.HetPError = 2 },
		func(o *ase.Opts) { o.HetFDR = -0.1 },
		func(o *ase.Opts) { o.Parallelism = -4 },
	} {
		o := ase.DefaultOpts
		mod(&o)
		_, _, err = ase.Run([]ase.Site{site("chr1", 1, 'A', 'C', 3, 3, 0, 6)}, nil, &o)
		assert.True(t, errors.Is(errors.Invalid, err), "opts %+v: %v", o, err)
	}
}
