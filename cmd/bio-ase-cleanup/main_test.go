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
	"path/filepath"
	"testing"

	"github.com/grailbio/ase/cleanup"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/require"
)

func TestFlagDefaults(t *testing.T) {
	require.Equal(t, cleanup.DefaultOpts, flagOpts())
}

func TestRun(t *testing.T) {
	tmpdir, cleanupDir := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanupDir, tmpdir)
	ctx := vcontext.Background()

	asePath := filepath.Join(tmpdir, "sample.ase.tsv")
	f, err := file.Create(ctx, asePath)
	require.NoError(t, err)
	_, err = f.Writer(ctx).Write([]byte(
		"contig\tposition\tvariantID\trefAllele\taltAllele\trefCount\taltCount\ttotalCount\tlowMAPQDepth\tlowBaseQDepth\trawDepth\totherBases\timproperPairs\n" +
			"chr1\t1000\trs1\tA\tG\t30\t25\t55\t0\t0\t57\t2\t0\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close(ctx))

	opts := cleanup.DefaultOpts
	require.Error(t, run(ctx, nil, "out.tsv", &opts))
	require.Error(t, run(ctx, []string{asePath}, "", &opts))

	outPath := filepath.Join(tmpdir, "sample.clean.tsv")
	require.NoError(t, run(ctx, []string{asePath}, outPath, &opts))
	_, err = file.Stat(ctx, outPath)
	require.NoError(t, err)
}
