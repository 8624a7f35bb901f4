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

	"github.com/grailbio/ase/annotate"
	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, ctx context.Context, path, data string) {
	f, err := file.Create(ctx, path)
	require.NoError(t, err)
	_, err = f.Writer(ctx).Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, f.Close(ctx))
}

func TestFlagDefaults(t *testing.T) {
	require.Equal(t, annotate.DefaultOpts, flagOpts())
}

func TestRun(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	inPath := filepath.Join(tmpdir, "sample.clean.tsv")
	writeFile(t, ctx, inPath,
		"contig\tposition\trefCount\taltCount\ttotalCount\n"+
			"chr1\t150\t10\t12\t22\n"+
			"chr1\t470\t8\t9\t17\n"+
			"chr1\t5000\t3\t4\t7\n")
	gtfPath := filepath.Join("..", "..", "annotate", "testdata", "annotation.gtf")
	outPath := filepath.Join(tmpdir, "sample.genes.tsv")

	require.Error(t, run(ctx, inPath, "", outPath, annotate.DefaultOpts))
	require.Error(t, run(ctx, inPath, gtfPath, "", annotate.DefaultOpts))

	require.NoError(t, run(ctx, inPath, gtfPath, outPath, annotate.DefaultOpts))
	out, err := asetsv.ReadTable(ctx, outPath)
	require.NoError(t, err)
	geneCol, err := out.Index(annotate.ColGeneID)
	require.NoError(t, err)
	var genes []string
	for _, row := range out.Rows {
		genes = append(genes, row[geneCol])
	}
	// Position 470 overlaps two genes; 5000 overlaps none.
	require.Equal(t, []string{"GENE1.1", "GENE1.1", "GENE2.3", ""}, genes)

	opts := annotate.DefaultOpts
	opts.KeepUnmatched = false
	require.NoError(t, run(ctx, inPath, gtfPath, outPath, opts))
	out, err = asetsv.ReadTable(ctx, outPath)
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)
}
