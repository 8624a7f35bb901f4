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
package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/require"
)

const testVCF = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
	"chr1\t150\t.\tA\tG\t50\tPASS\t.\tGT\t0|1\n" +
	"chr1\t470\t.\tC\tT\t50\tPASS\t.\tGT\t1|0\n"

func writeFile(t *testing.T, ctx context.Context, path, data string) {
	f, err := file.Create(ctx, path)
	require.NoError(t, err)
	_, err = f.Writer(ctx).Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, f.Close(ctx))
}

func TestRun(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	vcfPath := filepath.Join(tmpdir, "sample.vcf")
	writeFile(t, ctx, vcfPath, testVCF)
	inPath := filepath.Join(tmpdir, "sample.genes.tsv")
	writeFile(t, ctx, inPath,
		"contig\tposition\trefCount\taltCount\ttotalCount\tgene_id\tfeature\n"+
			"chr1\t150\t10\t30\t40\tGENE1.1\texon\n"+
			"chr1\t470\t8\t2\t10\tGENE1.1\tintron\n"+
			"chr1\t5000\t3\t4\t7\t\t\n")
	outPath := filepath.Join(tmpdir, "sample.haplotypes.tsv")

	_, err := run(ctx, inPath, "", outPath)
	require.Error(t, err)

	written, err := run(ctx, inPath, vcfPath, outPath)
	require.NoError(t, err)
	require.True(t, written)
	out, err := asetsv.ReadTable(ctx, outPath)
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	hap1, err := out.Index("hap1")
	require.NoError(t, err)
	hap2, err := out.Index("hap2")
	require.NoError(t, err)
	require.Equal(t, "12", out.Rows[0][hap1])
	require.Equal(t, "38", out.Rows[0][hap2])

	// Nothing genotyped: a warning and no output.
	emptyVCF := filepath.Join(tmpdir, "empty.vcf")
	writeFile(t, ctx, emptyVCF, "##fileformat=VCFv4.2\n")
	skipOut := filepath.Join(tmpdir, "skipped.tsv")
	written, err = run(ctx, inPath, emptyVCF, skipOut)
	require.NoError(t, err)
	require.False(t, written)
	_, err = file.Stat(ctx, skipOut)
	require.Error(t, err)
}
