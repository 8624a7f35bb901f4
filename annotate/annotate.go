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
// Package annotate maps genomic positions to the genes overlapping them.  A
// site overlapping several genes is reported once per gene.
package annotate

import (
	"fmt"
	"strconv"

	"github.com/grailbio/ase/asetsv"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Columns added by AnnotateTable.
const (
	ColGeneID  = "gene_id"
	ColFeature = "feature"
)

// Opts controls AnnotateTable.
type Opts struct {
	// KeepUnmatched keeps sites overlapping no gene, with empty gene columns.
	// Otherwise they are dropped.
	KeepUnmatched bool
	// ProgressInterval is the number of sites between progress log lines.  0
	// disables them.
	ProgressInterval int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	KeepUnmatched:    true,
	ProgressInterval: 10000,
}

// Stats counts what AnnotateTable did.
type Stats struct {
	// Sites is the # of input rows.
	Sites int
	// MultigeneSites is the # of sites overlapping more than one gene.
	MultigeneSites int
	// Duplicates is the # of rows added for the second and later genes of
	// multigene sites.
	Duplicates int
	// Lost is the # of sites overlapping no gene.
	Lost int
}

// Lines renders the stats as human readable diagnostics.
func (s Stats) Lines() []string {
	return []string{
		fmt.Sprintf("%d sites processed", s.Sites),
		fmt.Sprintf("%d multigene sites found", s.MultigeneSites),
		fmt.Sprintf("%d position duplicates added at multigene sites", s.Duplicates),
		fmt.Sprintf("%d sites lost", s.Lost),
	}
}

// AnnotateTable joins the rows of t with the genes of ix, on t's contig and
// position columns.  The result has t's columns followed by gene_id and
// feature, with one row per (site, overlapping gene) in input order.  t is
// not modified.
func AnnotateTable(t *asetsv.Table, ix *Index, opts Opts) (*asetsv.Table, Stats, error) {
	var stats Stats
	contigCol, err := t.Index(asetsv.ColContig)
	if err != nil {
		return nil, stats, err
	}
	posCol, err := t.Index(asetsv.ColPosition)
	if err != nil {
		return nil, stats, err
	}
	out := &asetsv.Table{Header: append(append([]string(nil), t.Header...), ColGeneID, ColFeature)}
	extend := func(row []string, extra ...string) []string {
		return append(append(make([]string, 0, len(row)+len(extra)), row...), extra...)
	}
	for i, row := range t.Rows {
		pos, err := strconv.Atoi(row[posCol])
		if err != nil {
			return nil, stats, errors.E(errors.Invalid, err, fmt.Sprintf("annotate: row %d: position", i+1))
		}
		hits := ix.Lookup(row[contigCol], pos)
		switch {
		case len(hits) == 0:
			stats.Lost++
			if opts.KeepUnmatched {
				out.Rows = append(out.Rows, extend(row, "", ""))
			}
		case len(hits) > 1:
			stats.MultigeneSites++
			stats.Duplicates += len(hits) - 1
		}
		for _, h := range hits {
			out.Rows = append(out.Rows, extend(row, h.GeneID, h.FeatureName()))
		}
		stats.Sites++
		if opts.ProgressInterval > 0 && stats.Sites%opts.ProgressInterval == 0 {
			log.Printf("annotate: %d sites (%.2f%%) processed", stats.Sites, 100*float64(stats.Sites)/float64(len(t.Rows)))
		}
	}
	return out, stats, nil
}
