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

/*
Package ase decides which heterozygous positions in an RNA-seq allele count
table carry trustworthy evidence of allele-specific expression.

Given one row per site (reference/alternate read counts, raw depth, and the
number of reads supporting neither allele), Run

 1. drops sites with no ref/alt coverage and computes the reference ratio
    refCount/totalCount,
 2. attaches an optional mappability score per site,
 3. estimates the reference mapping bias for every (ref, alt) base pair from
    the sites with enough reads on both alleles (or broadcasts a caller
    supplied constant),
 4. tests each site for allelic imbalance against its bias-adjusted null with
    a two-sided exact binomial test,
 5. tests each site's minor allele support against the dataset-wide
    sequencing noise rate with a one-sided exact binomial test,
 6. corrects both families of p-values with Benjamini-Hochberg, and
 7. keeps the sites which pass the mappability, depth and heterozygosity
    filters.

The imbalance adjusted p-value is reported but never used as a filter: the
imbalance is what downstream consumers study, while an unsupported minor
allele is noise.

Per-site tests run in parallel over contiguous shards of the site vector.
The FDR correction needs every raw p-value of the run, so each tester
finishes its parallel phase before correcting.
*/
package ase
