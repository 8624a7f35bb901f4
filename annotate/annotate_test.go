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
package annotate_test

import (
	"strings"
	"testing"

	"github.com/grailbio/ase/annotate"
	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func readIndex(t *testing.T) *annotate.Index {
	ix, err := annotate.ReadGTF(vcontext.Background(), "testdata/annotation.gtf")
	assert.NoError(t, err)
	return ix
}

func TestLookup(t *testing.T) {
	ix := readIndex(t)
	expect.EQ(t, ix.Contigs(), 2)
	tests := []struct {
		contig string
		pos    int
		want   []annotate.Hit
	}{
		{"chr1", 99, nil},
		{"chr1", 100, []annotate.Hit{{"GENE1.1", true}}},
		{"chr1", 150, []annotate.Hit{{"GENE1.1", true}}},
		{"chr1", 201, []annotate.Hit{{"GENE1.1", false}}},
		{"chr1", 300, []annotate.Hit{{"GENE1.1", false}}},
		{"chr1", 470, []annotate.Hit{{"GENE1.1", true}, {"GENE2.3", true}}},
		{"chr1", 500, []annotate.Hit{{"GENE1.1", true}, {"GENE2.3", true}}},
		{"chr1", 501, []annotate.Hit{{"GENE2.3", true}}},
		{"chr1", 700, []annotate.Hit{{"GENE2.3", false}}},
		{"chr1", 901, nil},
		{"1", 300, []annotate.Hit{{"GENE1.1", false}}},
		{"chr2", 1550, []annotate.Hit{{"GENE3.1", true}}},
		{"2", 1999, []annotate.Hit{{"GENE3.1", false}}},
		{"chr3", 1550, nil},
	}
	for _, test := range tests {
		expect.EQ(t, ix.Lookup(test.contig, test.pos), test.want, "%s:%d", test.contig, test.pos)
	}
	expect.EQ(t, annotate.Hit{Exonic: true}.FeatureName(), "exon")
	expect.EQ(t, annotate.Hit{}.FeatureName(), "intron")
}

func TestAnnotateTable(t *testing.T) {
	ix := readIndex(t)
	in := &asetsv.Table{
		Header: []string{"contig", "position", "refCount"},
		Rows: [][]string{
			{"chr1", "150", "3"},
			{"chr1", "470", "4"},
			{"chr1", "5000", "5"},
			{"chr2", "1550", "6"},
		},
	}
	out, stats, err := annotate.AnnotateTable(in, ix, annotate.DefaultOpts)
	assert.NoError(t, err)
	expect.EQ(t, out.Header, []string{"contig", "position", "refCount", "gene_id", "feature"})
	expect.EQ(t, out.Rows, [][]string{
		{"chr1", "150", "3", "GENE1.1", "exon"},
		{"chr1", "470", "4", "GENE1.1", "exon"},
		{"chr1", "470", "4", "GENE2.3", "exon"},
		{"chr1", "5000", "5", "", ""},
		{"chr2", "1550", "6", "GENE3.1", "exon"},
	})
	expect.EQ(t, stats, annotate.Stats{Sites: 4, MultigeneSites: 1, Duplicates: 1, Lost: 1})
	expect.EQ(t, len(stats.Lines()), 4)
	expect.EQ(t, len(in.Header), 3)

	opts := annotate.DefaultOpts
	opts.KeepUnmatched = false
	out, _, err = annotate.AnnotateTable(in, ix, opts)
	assert.NoError(t, err)
	expect.EQ(t, len(out.Rows), 4)

	_, _, err = annotate.AnnotateTable(&asetsv.Table{Header: []string{"contig", "pos"}}, ix, opts)
	expect.NotNil(t, err)
	_, _, err = annotate.AnnotateTable(&asetsv.Table{
		Header: []string{"contig", "position"},
		Rows:   [][]string{{"chr1", "x"}},
	}, ix, opts)
	expect.NotNil(t, err)
}

func TestParseGTFErrors(t *testing.T) {
	_, err := annotate.ParseGTF(strings.NewReader("chr1\tX\tgene\t10\t20\t.\t+\t.\tgene_name \"A\";\n"))
	expect.NotNil(t, err)
	_, err = annotate.ParseGTF(strings.NewReader("chr1\tX\tgene\t20\t10\t.\t+\t.\tgene_id \"A\";\n"))
	expect.NotNil(t, err)
	ix, err := annotate.ParseGTF(strings.NewReader("#comment\nchr1\tX\tCDS\t20\t10\t.\t+\t.\tgene_id \"A\";\n"))
	assert.NoError(t, err)
	expect.EQ(t, ix.Contigs(), 0)
}
