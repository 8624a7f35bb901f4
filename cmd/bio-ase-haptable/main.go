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

	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/ase/haptable"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	vcfPath = flag.String("vcf", "", "Phased VCF with GT (required)")
	outPath = flag.String("out", "", "Output path of the haplotype table (required)")
)

// run returns whether an output table was written.
func run(ctx context.Context, inPath, vcf, out string) (bool, error) {
	if vcf == "" || out == "" {
		return false, errors.E(errors.Invalid, "-vcf and -out are required")
	}
	in, err := asetsv.ReadTable(ctx, inPath)
	if err != nil {
		return false, err
	}
	gts, err := haptable.ReadVCF(ctx, vcf)
	if err != nil {
		return false, err
	}
	genes, stats, err := haptable.Build(in, gts)
	for _, line := range stats.Lines() {
		log.Printf("%s", line)
	}
	if err == haptable.ErrNoGenePositions || err == haptable.ErrNoGenotypedPositions {
		log.Error.Printf("%v; skipping haplotype table", err)
		return false, nil
	}
	if err != nil {
		return false, errors.E(err, inPath)
	}
	log.Printf("exporting %d genes to file %s", len(genes), out)
	return true, haptable.Write(ctx, out, genes)
}

func main() {
	flag.Usage = func() {
		fmt.Printf("Usage: %s [OPTIONS] -vcf phased.vcf -out haplotypes.tsv genes.tsv\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()
	if flag.NArg() != 1 {
		log.Fatalf("exactly one positional argument (the gene-annotated ASE table) expected, got %d", flag.NArg())
	}
	if _, err := run(vcontext.Background(), flag.Arg(0), *vcfPath, *outPath); err != nil {
		log.Fatalf("%v", err)
	}
}
