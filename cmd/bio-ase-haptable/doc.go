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
bio-ase-haptable sums the allele counts of a gene-annotated ASE table (the
output of bio-ase-annotate) per gene and parental haplotype, using the phased
genotypes of a VCF.  For each record only the first heterozygous sample is
used, and only 0|1 and 1|0 calls are counted.  Each gene is tested for
haplotype expression imbalance against 0.5 (two-sided exact binomial test,
BH-corrected).

If no position survives the gene or genotype filters, a warning is logged and
no output is written.

Sample usage:
bio-ase-haptable \
    -vcf sample.phased.vcf.gz \
    -out sample.haplotypes.tsv \
    sample.genes.tsv
*/
package main
