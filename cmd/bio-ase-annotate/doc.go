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
bio-ase-annotate adds gene_id and feature (exon or intron) columns to a
position table with contig and position columns, such as the output of
bio-ase-cleanup.  Positions overlapping several genes are written once per
gene.  Contig names are matched with and without a "chr" prefix.

Sample usage:
bio-ase-annotate \
    -gtf gencode.annotation.gtf.gz \
    -out sample.genes.tsv \
    sample.clean.tsv
*/
package main
