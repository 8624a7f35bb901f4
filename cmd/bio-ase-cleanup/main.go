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
	"strings"

	"github.com/grailbio/ase/cleanup"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	outPath         = flag.String("out", "", "Output path of the cleaned site table; .gz outputs are block-gzipped")
	refRatio        = flag.Float64("ref-ratio", cleanup.DefaultOpts.RefBias, "Reference bias used for every allele pair; negative = estimate from the data")
	minDepth        = flag.Int("min-depth", cleanup.DefaultOpts.MinDepth, "Minimum totalCount of a kept site; half of it is the per-allele read count needed for bias estimation")
	mappabilityPath = flag.String("mappability", cleanup.DefaultOpts.MappabilityPath, "Optional mappability table (contig, position, mappability)")
	minMappability  = flag.Float64("min-mappability", cleanup.DefaultOpts.MinMappability, "Minimum mappability of a kept site; only used with -mappability")
	hetPError       = flag.Float64("het-perror", cleanup.DefaultOpts.HetPError, "Noise rate of the heterozygosity test; negative = sum(otherBases)/sum(rawDepth)")
	hetFDR          = flag.Float64("het-fdr", cleanup.DefaultOpts.HetFDR, "Heterozygosity test FDR threshold")
	imbalanceFDR    = flag.Float64("imbalance-fdr", cleanup.DefaultOpts.ImbalanceFDR, "Imbalance FDR threshold used in the logged summary only")
	parallelism     = flag.Int("parallelism", cleanup.DefaultOpts.Parallelism, "Maximum number of simultaneous test shards; 0 = runtime.NumCPU()")
	plotPath        = flag.String("plot", cleanup.DefaultOpts.PlotPath, "Optional aseRatio histogram output (.png, .svg, .pdf, ...)")
	summaryPath     = flag.String("summary", cleanup.DefaultOpts.SummaryPath, "Optional run summary TSV output")
	region          = flag.String("region", cleanup.DefaultOpts.Region, "Restrict the run to the specified region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>")
	bedPath         = flag.String("bed", cleanup.DefaultOpts.BedPath, "Restrict the run to the intervals of this BED file")
)

func bioASECleanupUsage() {
	fmt.Printf("Usage: %s [OPTIONS] -out clean.tsv ase.tsv\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func flagOpts() cleanup.Opts {
	opts := cleanup.DefaultOpts
	opts.RefBias = *refRatio
	opts.MinDepth = *minDepth
	opts.MinMappability = *minMappability
	opts.HetPError = *hetPError
	opts.HetFDR = *hetFDR
	opts.ImbalanceFDR = *imbalanceFDR
	opts.Parallelism = *parallelism
	opts.MappabilityPath = *mappabilityPath
	opts.PlotPath = *plotPath
	opts.SummaryPath = *summaryPath
	opts.Region = *region
	opts.BedPath = *bedPath
	return opts
}

func run(ctx context.Context, args []string, out string, opts *cleanup.Opts) error {
	if len(args) != 1 {
		return errors.E(errors.Invalid, fmt.Sprintf("exactly one positional argument (the ASE table path) expected, got '%s'", strings.Join(args, " ")))
	}
	if out == "" {
		return errors.E(errors.Invalid, "-out is required")
	}
	_, err := cleanup.Cleanup(ctx, args[0], out, opts)
	return err
}

func main() {
	flag.Usage = bioASECleanupUsage
	shutdown := grail.Init()
	defer shutdown()

	opts := flagOpts()
	if err := run(vcontext.Background(), flag.Args(), *outPath, &opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
