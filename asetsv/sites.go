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
package asetsv

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/base/errors"
)

// Column names of the allele count table.
const (
	ColContig        = "contig"
	ColPosition      = "position"
	ColRefAllele     = "refAllele"
	ColAltAllele     = "altAllele"
	ColRefCount      = "refCount"
	ColAltCount      = "altCount"
	ColTotalCount    = "totalCount"
	ColRawDepth      = "rawDepth"
	ColOtherBases    = "otherBases"
	ColLowMAPQDepth  = "lowMAPQDepth"
	ColLowBaseQDepth = "lowBaseQDepth"
	ColImproperPairs = "improperPairs"
	ColMappability   = "mappability"
)

// siteColumns lists the columns stored in ase.Site, in input order.
var siteColumns = []struct {
	name     string
	required bool
}{
	{ColContig, true},
	{ColPosition, true},
	{ColRefAllele, true},
	{ColAltAllele, true},
	{ColRefCount, true},
	{ColAltCount, true},
	{ColTotalCount, true},
	{ColRawDepth, true},
	{ColOtherBases, true},
	{ColLowMAPQDepth, false},
	{ColLowBaseQDepth, false},
	{ColImproperPairs, false},
}

// siteParser maps a header to column indexes.  A missing optional column has
// index -1.
type siteParser struct {
	idx map[string]int
}

func newSiteParser(header []string) (*siteParser, error) {
	p := &siteParser{idx: map[string]int{}}
	for _, c := range siteColumns {
		p.idx[c.name] = -1
	}
	for i, h := range header {
		if _, ok := p.idx[h]; ok {
			p.idx[h] = i
		}
	}
	for _, c := range siteColumns {
		if c.required && p.idx[c.name] < 0 {
			return nil, &ase.SchemaError{Column: c.name}
		}
	}
	return p, nil
}

func (p *siteParser) parse(line int, rec []string) (s ase.Site, err error) {
	field := func(col string) (string, bool) {
		i := p.idx[col]
		if i < 0 {
			return "", false
		}
		if i >= len(rec) {
			err = errors.E(errors.Invalid, fmt.Sprintf("line %d: missing column %s", line, col))
			return "", false
		}
		return rec[i], true
	}
	count := func(col string) int {
		v, ok := field(col)
		if !ok || err != nil {
			return 0
		}
		n, e := strconv.Atoi(v)
		if e != nil {
			err = errors.E(errors.Invalid, e, fmt.Sprintf("line %d: column %s", line, col))
		}
		return n
	}
	allele := func(col string) byte {
		v, ok := field(col)
		if !ok || err != nil {
			return 0
		}
		if len(v) != 1 {
			err = errors.E(errors.Invalid, fmt.Sprintf("line %d: column %s: %q is not a single base", line, col, v))
			return 0
		}
		return v[0]
	}
	// contig is required, so newSiteParser guarantees its index.
	if i := p.idx[ColContig]; i < len(rec) {
		s.Contig = rec[i]
	} else {
		return s, errors.E(errors.Invalid, fmt.Sprintf("line %d: missing column %s", line, ColContig))
	}
	s.Pos = count(ColPosition)
	s.RefAllele = allele(ColRefAllele)
	s.AltAllele = allele(ColAltAllele)
	s.RefCount = count(ColRefCount)
	s.AltCount = count(ColAltCount)
	s.TotalCount = count(ColTotalCount)
	s.RawDepth = count(ColRawDepth)
	s.OtherBases = count(ColOtherBases)
	s.LowMAPQDepth = count(ColLowMAPQDepth)
	s.LowBaseQDepth = count(ColLowBaseQDepth)
	s.ImproperPairs = count(ColImproperPairs)
	s.Mappability = math.NaN()
	return s, err
}

// ParseSites reads an allele count table.  Columns are located by header
// name; unknown columns are ignored.  A missing required column yields a
// *ase.SchemaError, and a malformed field fails the whole read.  A table with
// a header and no rows yields no sites and no error; an empty file yields
// ase.ErrEmptyInput.
func ParseSites(in io.Reader) ([]ase.Site, error) {
	var (
		p     *siteParser
		sites []ase.Site
	)
	err := readRecords(in, func(line int, rec []string) error {
		if line == 1 {
			var err error
			p, err = newSiteParser(rec)
			return err
		}
		s, err := p.parse(line, rec)
		if err != nil {
			return err
		}
		sites = append(sites, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ase.ErrEmptyInput
	}
	return sites, nil
}

// ReadSites reads an allele count table from path.
func ReadSites(ctx context.Context, path string) (sites []ase.Site, err error) {
	in, closer, err := openReader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer closer(&err)
	sites, err = ParseSites(in)
	return sites, withPath(err, path)
}

// ParseMappability reads a mappability table.  The first two columns are the
// contig and the 1-based position, whatever their names; the score is read
// from the "mappability" column.  Scores that do not parse as numbers are
// stored as NaN.
func ParseMappability(in io.Reader) (ase.Mappability, error) {
	m := ase.Mappability{}
	col := -1
	err := readRecords(in, func(line int, rec []string) error {
		if line == 1 {
			for i, h := range rec {
				if h == ColMappability {
					col = i
				}
			}
			if col < 2 {
				return &ase.SchemaError{Column: ColMappability}
			}
			return nil
		}
		if len(rec) <= col {
			return errors.E(errors.Invalid, fmt.Sprintf("line %d: missing column %s", line, ColMappability))
		}
		pos, err := strconv.Atoi(rec[1])
		if err != nil {
			return errors.E(errors.Invalid, err, fmt.Sprintf("line %d: position", line))
		}
		score, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			score = math.NaN()
		}
		m[ase.Locus{Contig: rec[0], Pos: pos}] = score
		return nil
	})
	if err != nil {
		return nil, err
	}
	if col < 0 {
		return nil, ase.ErrEmptyInput
	}
	return m, nil
}

// ReadMappability reads a mappability table from path.
func ReadMappability(ctx context.Context, path string) (m ase.Mappability, err error) {
	in, closer, err := openReader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer closer(&err)
	m, err = ParseMappability(in)
	return m, withPath(err, path)
}
