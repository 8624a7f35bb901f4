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
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/ase/annotate"
	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	gtfPath       = flag.String("gtf", "", "Gene annotation in GTF format (required)")
	outPath       = flag.String("out", "", "Output path of the gene table (required)")
	keepUnmatched = flag.Bool("keep-unmatched", annotate.DefaultOpts.KeepUnmatched, "Keep positions overlapping no gene, with empty gene columns")
	progress      = flag.Int("progress-interval", annotate.DefaultOpts.ProgressInterval, "Log progress every this many positions; 0 disables")
)

func flagOpts() annotate.Opts {
	opts := annotate.DefaultOpts
	opts.KeepUnmatched = *keepUnmatched
	opts.ProgressInterval = *progress
	return opts
}

func run(ctx context.Context, inPath, gtf, out string, opts annotate.Opts) error {
	if gtf == "" || out == "" {
		return errors.E(errors.Invalid, "-gtf and -out are required")
	}
	ix, err := annotate.ReadGTF(ctx, gtf)
	if err != nil {
		return err
	}
	log.Printf("read genes on %d contigs from %s", ix.Contigs(), gtf)
	in, err := asetsv.ReadTable(ctx, inPath)
	if err != nil {
		return err
	}
	result, stats, err := annotate.AnnotateTable(in, ix, opts)
	if err != nil {
		return errors.E(err, inPath)
	}
	for _, line := range stats.Lines() {
		log.Printf("%s", line)
	}
	log.Printf("exporting data to file %s", out)
	return asetsv.WriteTable(ctx, out, result)
}

func main() {
	flag.Usage = func() {
		fmt.Printf("Usage: %s [OPTIONS] -gtf genes.gtf -out genes.tsv positions.tsv\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()
	if flag.NArg() != 1 {
		log.Fatalf("exactly one positional argument (the position table) expected, got %d", flag.NArg())
	}
	if err := run(vcontext.Background(), flag.Arg(0), *gtfPath, *outPath, flagOpts()); err != nil {
		log.Fatalf("%v", err)
	}
}
