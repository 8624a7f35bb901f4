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
package haptable_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/ase/haptable"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const vcf = `##fileformat=VCFv4.2
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	NORMAL	TUMOR
chr1	150	.	A	G	50	PASS	.	GT:DP	0|1:30	0|1:20
chr1	470	.	C	T	50	PASS	.	GT:DP	1|0:30	0|0:20
chr1	480	.	C	T	50	PASS	.	GT:DP	0/1:30	0|1:20
chr1	490	.	C	T	50	PASS	.	GT:DP	1|1:30	0|1:20
chr1	495	.	C	T,G	50	PASS	.	GT:DP	1|2:30	0|1:20
chr2	1550	.	G	A	50	PASS	.	DP:GT	30:./.	30:0|1
chr2	1560	.	G	A	50	PASS	.	DP	30	30
`

func TestParseVCF(t *testing.T) {
	gts, err := haptable.ParseVCF(strings.NewReader(vcf))
	assert.NoError(t, err)
	expect.EQ(t, gts, haptable.Genotypes{
		{Contig: "chr1", Pos: 150}:  "0|1",
		{Contig: "chr1", Pos: 470}:  "1|0",
		{Contig: "chr1", Pos: 490}:  "0|1",
		{Contig: "chr1", Pos: 495}:  "1|2",
		{Contig: "chr2", Pos: 1550}: "0|1",
	})
}

func annotatedTable() *asetsv.Table {
	return &asetsv.Table{
		Header: []string{"contig", "position", "refAllele", "altAllele", "refCount", "altCount", "totalCount", "aseRatio", "gene_id", "feature"},
		Rows: [][]string{
			{"chr1", "150", "A", "G", "30", "10", "40", "0.75", "GENE1", "exon"},
			{"chr1", "470", "C", "T", "12", "20", "32", "0.375", "GENE1", "exon"},
			{"chr1", "470", "C", "T", "12", "20", "32", "0.375", "GENE2", "exon"},
			{"chr1", "480", "C", "T", "5", "25", "30", "0.1667", "GENE2", "exon"},
			{"chr1", "495", "C", "T", "5", "25", "30", "0.1667", "GENE2", "exon"},
			{"chr1", "900", "C", "T", "5", "25", "30", "0.1667", "", ""},
			{"chr2", "1550", "G", "A", "10", "10", "20", "0.5", "GENE3", "intron"},
		},
	}
}

func TestBuild(t *testing.T) {
	gts, err := haptable.ParseVCF(strings.NewReader(vcf))
	assert.NoError(t, err)
	genes, stats, err := haptable.Build(annotatedTable(), gts)
	assert.NoError(t, err)
	expect.EQ(t, stats, haptable.Stats{Rows: 7, Unmatched: 1, Ungenotyped: 1, NonDiploid: 1, Used: 4})
	expect.EQ(t, len(stats.Lines()), 3)
	assert.EQ(t, len(genes), 3)

	g := genes[0]
	expect.EQ(t, g.GeneID, "GENE1")
	expect.EQ(t, g.Positions, 2)
	expect.EQ(t, g.RefCount, 42)
	expect.EQ(t, g.AltCount, 30)
	expect.EQ(t, g.TotalCount, 72)
	// 0|1 puts ref on haplotype 1, 1|0 puts alt on haplotype 1.
	expect.EQ(t, g.Hap1, 50)
	expect.EQ(t, g.Hap2, 22)
	expect.EQ(t, g.HSERatio, 50.0/72)
	expect.EQ(t, g.HEIPValue, ase.BinomTestTwoSided(50, 72, 0.5))

	expect.EQ(t, genes[1].GeneID, "GENE2")
	expect.EQ(t, genes[1].Hap1, 20)
	expect.EQ(t, genes[1].Positions, 1)
	expect.EQ(t, genes[2].GeneID, "GENE3")
	expect.EQ(t, genes[2].HEIPValue, 1.0)

	adj := ase.AdjustBH([]float64{genes[0].HEIPValue, genes[1].HEIPValue, genes[2].HEIPValue})
	for i := range genes {
		expect.EQ(t, genes[i].HEIAdjPValue, adj[i])
	}
}

func TestBuildEmpty(t *testing.T) {
	table := annotatedTable()
	for _, row := range table.Rows {
		row[8] = ""
	}
	_, _, err := haptable.Build(table, haptable.Genotypes{})
	expect.EQ(t, err, haptable.ErrNoGenePositions)

	_, _, err = haptable.Build(annotatedTable(), haptable.Genotypes{})
	expect.EQ(t, err, haptable.ErrNoGenotypedPositions)

	_, _, err = haptable.Build(&asetsv.Table{Header: []string{"contig", "position"}}, nil)
	_, ok := err.(*ase.SchemaError)
	expect.True(t, ok, err)
}

func TestWrite(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	path := filepath.Join(tmpdir, "hap.tsv")
	assert.NoError(t, haptable.Write(ctx, path, []haptable.Gene{{
		GeneID: "GENE1", Contig: "chr1", Positions: 2, RefCount: 42, AltCount: 30, TotalCount: 72,
		Hap1: 50, Hap2: 22, HSERatio: 50.0 / 72, HEIPValue: 0.00123456, HEIAdjPValue: 0.0037,
	}}))
	table, err := asetsv.ReadTable(ctx, path)
	assert.NoError(t, err)
	expect.EQ(t, table.Header, haptable.Header)
	expect.EQ(t, table.Rows, [][]string{{"GENE1", "chr1", "2", "42", "30", "72", "50", "22", "0.6944", "0.0012", "0.0037"}})
}
