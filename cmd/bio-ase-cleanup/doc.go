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
Given an allele count table produced by GATK ASEReadCounter, bio-ase-cleanup
keeps the heterozygous sites with trustworthy allele-specific expression
evidence.

Reference-mapping bias is estimated per (ref, alt) base pair from the sites
with enough reads on both alleles, unless -ref-ratio is given.  Every site is
then tested for allelic imbalance against its pair's bias (two-sided exact
binomial test, BH-corrected), and for heterozygosity against the background
sequencing noise rate (one-sided exact binomial test, BH-corrected).  A site
is kept if it has enough reads, is confidently heterozygous, and, when a
mappability table is given, is mappable enough.  Imbalance is reported but
never used to drop sites.

Sample usage:
bio-ase-cleanup \
    -mappability mappability.tsv \
    -plot sample.vaf.png \
    -out sample.clean.tsv \
    sample.ase.tsv
*/
package main
