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
// Package haptable sums allele counts per gene and parental haplotype, and
// tests each gene for haplotype expression imbalance.
package haptable

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/grailbio/ase/annotate"
	"github.com/grailbio/ase/ase"
	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/base/errors"
)

var (
	// ErrNoGenePositions is returned by Build when no row of the input table
	// has a gene.
	ErrNoGenePositions = errors.E(errors.NotExist, "haptable: no gene-annotated positions")
	// ErrNoGenotypedPositions is returned by Build when no gene-annotated
	// row has a phased heterozygous genotype.
	ErrNoGenotypedPositions = errors.E(errors.NotExist, "haptable: no phased heterozygous positions")
)

// Gene is one row of the haplotype table.
type Gene struct {
	GeneID string
	Contig string
	// Positions is the # of sites summed into the gene.
	Positions  int
	RefCount   int
	AltCount   int
	TotalCount int
	// Hap1 and Hap2 are the read counts of the first and second haplotype of
	// the phased genotypes.
	Hap1 int
	Hap2 int
	// HSERatio is Hap1/TotalCount.
	HSERatio float64
	// HEIPValue is the two-sided binomial test of Hap1 out of TotalCount
	// against 0.5, and HEIAdjPValue its BH correction over all genes.
	HEIPValue    float64
	HEIAdjPValue float64
}

// Stats counts the rows removed by Build.
type Stats struct {
	// Rows is the # of input rows.
	Rows int
	// Unmatched is the # of rows without a gene.
	Unmatched int
	// Ungenotyped is the # of gene rows without a phased heterozygous
	// genotype.
	Ungenotyped int
	// NonDiploid is the # of genotyped rows whose genotype is not 0|1 or 1|0.
	NonDiploid int
	// Used is the # of rows summed into genes.
	Used int
}

// Lines renders the stats as human readable diagnostics.
func (s Stats) Lines() []string {
	gene := s.Rows - s.Unmatched
	genotyped := gene - s.Ungenotyped
	return []string{
		fmt.Sprintf("removing %d/%d unmatched positions", s.Unmatched, s.Rows),
		fmt.Sprintf("removing %d/%d positions without a phased heterozygous genotype", s.Ungenotyped, gene),
		fmt.Sprintf("removing %d/%d non-diploid positions", s.NonDiploid, genotyped),
	}
}

type columns struct {
	contig, pos, geneID, ref, alt, total int
}

func findColumns(t *asetsv.Table) (c columns, err error) {
	for _, col := range []struct {
		dst  *int
		name string
	}{
		{&c.contig, asetsv.ColContig},
		{&c.pos, asetsv.ColPosition},
		{&c.geneID, annotate.ColGeneID},
		{&c.ref, asetsv.ColRefCount},
		{&c.alt, asetsv.ColAltCount},
		{&c.total, asetsv.ColTotalCount},
	} {
		if *col.dst, err = t.Index(col.name); err != nil {
			return
		}
	}
	return
}

// Build joins a gene-annotated site table with the phased genotypes gts, and
// returns the per-gene haplotype counts sorted by gene ID.  Only 0|1 and 1|0
// genotypes are used: for 0|1, the reference allele is on haplotype 1.
func Build(t *asetsv.Table, gts Genotypes) ([]Gene, Stats, error) {
	stats := Stats{Rows: len(t.Rows)}
	c, err := findColumns(t)
	if err != nil {
		return nil, stats, err
	}
	genes := map[string]*Gene{}
	nGeneRows := 0
	for i, row := range t.Rows {
		if row[c.geneID] == "" {
			stats.Unmatched++
			continue
		}
		nGeneRows++
		var n [4]int
		for j, col := range []int{c.pos, c.ref, c.alt, c.total} {
			if n[j], err = strconv.Atoi(row[col]); err != nil {
				return nil, stats, errors.E(errors.Invalid, err, fmt.Sprintf("haptable: row %d: %s", i+1, t.Header[col]))
			}
		}
		pos, ref, alt, total := n[0], n[1], n[2], n[3]
		gt, ok := gts[ase.Locus{Contig: row[c.contig], Pos: pos}]
		if !ok {
			stats.Ungenotyped++
			continue
		}
		var hap1, hap2 int
		switch gt {
		case "0|1":
			hap1, hap2 = ref, alt
		case "1|0":
			hap1, hap2 = alt, ref
		default:
			stats.NonDiploid++
			continue
		}
		g := genes[row[c.geneID]]
		if g == nil {
			g = &Gene{GeneID: row[c.geneID], Contig: row[c.contig]}
			genes[g.GeneID] = g
		}
		g.Positions++
		g.RefCount += ref
		g.AltCount += alt
		g.TotalCount += total
		g.Hap1 += hap1
		g.Hap2 += hap2
		stats.Used++
	}
	if nGeneRows == 0 {
		return nil, stats, ErrNoGenePositions
	}
	if len(genes) == 0 {
		return nil, stats, ErrNoGenotypedPositions
	}

	out := make([]Gene, 0, len(genes))
	for _, g := range genes {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneID < out[j].GeneID })
	pvals := make([]float64, len(out))
	for i := range out {
		g := &out[i]
		if g.TotalCount > 0 {
			g.HSERatio = float64(g.Hap1) / float64(g.TotalCount)
		}
		g.HEIPValue = ase.BinomTestTwoSided(g.Hap1, g.TotalCount, 0.5)
		pvals[i] = g.HEIPValue
	}
	for i, p := range ase.AdjustBH(pvals) {
		out[i].HEIAdjPValue = p
	}
	return out, stats, nil
}

// Header is the header of the haplotype table.
var Header = []string{
	"gene_id", "contig", "positions", "refCount", "altCount", "totalCount",
	"hap1", "hap2", "hseRatio", "heiPValue", "heiAdjPValue",
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// Table renders genes as a haplotype table.  Ratios and p-values are
// rounded to four decimals.
func Table(genes []Gene) *asetsv.Table {
	t := &asetsv.Table{Header: Header}
	for _, g := range genes {
		t.Rows = append(t.Rows, []string{
			g.GeneID, g.Contig,
			strconv.Itoa(g.Positions), strconv.Itoa(g.RefCount), strconv.Itoa(g.AltCount), strconv.Itoa(g.TotalCount),
			strconv.Itoa(g.Hap1), strconv.Itoa(g.Hap2),
			formatFloat(g.HSERatio), formatFloat(g.HEIPValue), formatFloat(g.HEIAdjPValue),
		})
	}
	return t
}

// Write writes the haplotype table to path.
func Write(ctx context.Context, path string, genes []Gene) error {
	return asetsv.WriteTable(ctx, path, Table(genes))
}
