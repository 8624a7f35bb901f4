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
package annotate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/biogo/store/interval"
	"github.com/grailbio/base/errors"
)

// Kind is the type of an annotation feature.
type Kind int

const (
	// Gene spans a whole gene, introns included.
	Gene Kind = iota
	// Exon is one exon of a gene.
	Exon
)

// Feature is an annotated interval.  Start and End are 1-based and
// inclusive, as in GTF.
type Feature struct {
	Kind   Kind
	Contig string
	Start  int
	End    int
	GeneID string
}

// Hit is a gene overlapping a position.
type Hit struct {
	GeneID string
	// Exonic is true if an exon of the gene also overlaps the position.
	Exonic bool
}

// FeatureName returns "exon" for exonic hits and "intron" otherwise.
func (h Hit) FeatureName() string {
	if h.Exonic {
		return "exon"
	}
	return "intron"
}

// node is a Feature stored in an IntTree, with a 0-based half-open range.
type node struct {
	uid    uintptr
	start0 int
	end    int
	geneID string
}

func (n node) Overlap(b interval.IntRange) bool { return n.start0 < b.End && b.Start < n.end }
func (n node) ID() uintptr                      { return n.uid }
func (n node) Range() interval.IntRange         { return interval.IntRange{Start: n.start0, End: n.end} }

// point is a 0-based position query.
type point int

func (p point) Overlap(b interval.IntRange) bool { return b.Start <= int(p) && int(p) < b.End }
func (p point) ID() uintptr                      { return 0 }
func (p point) Range() interval.IntRange         { return interval.IntRange{Start: int(p), End: int(p) + 1} }

// Index answers "which genes overlap this position" queries.  It holds one
// interval tree per (kind, contig).
type Index struct {
	trees  [2]map[string]*interval.IntTree
	nextID uintptr
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{trees: [2]map[string]*interval.IntTree{{}, {}}}
}

// Add inserts f.  AdjustRanges must be called once all features are added.
func (ix *Index) Add(f Feature) error {
	if f.Kind != Gene && f.Kind != Exon {
		return errors.E(errors.Invalid, fmt.Sprintf("annotate: unknown feature kind %d", f.Kind))
	}
	if f.Start <= 0 || f.End < f.Start {
		return errors.E(errors.Invalid, fmt.Sprintf("annotate: invalid feature %s %s:%d-%d", f.GeneID, f.Contig, f.Start, f.End))
	}
	trees := ix.trees[f.Kind]
	tree := trees[f.Contig]
	if tree == nil {
		tree = &interval.IntTree{}
		trees[f.Contig] = tree
	}
	ix.nextID++
	return tree.Insert(node{uid: ix.nextID, start0: f.Start - 1, end: f.End, geneID: f.GeneID}, true)
}

// AdjustRanges finalizes the trees after a series of Add calls.
func (ix *Index) AdjustRanges() {
	for _, trees := range ix.trees {
		for _, tree := range trees {
			tree.AdjustRanges()
		}
	}
}

// Contigs returns the number of contigs with at least one gene.
func (ix *Index) Contigs() int { return len(ix.trees[Gene]) }

// tree returns the tree of the given kind for contig, trying the contig name
// with the "chr" prefix toggled if there is no exact match.
func (ix *Index) tree(kind Kind, contig string) *interval.IntTree {
	trees := ix.trees[kind]
	if t, ok := trees[contig]; ok {
		return t
	}
	if strings.HasPrefix(contig, "chr") {
		return trees[contig[3:]]
	}
	return trees["chr"+contig]
}

func (ix *Index) geneIDs(kind Kind, contig string, pos1 int) []string {
	t := ix.tree(kind, contig)
	if t == nil {
		return nil
	}
	var ids []string
	for _, e := range t.Get(point(pos1 - 1)) {
		ids = append(ids, e.(node).geneID)
	}
	return ids
}

// Lookup returns the genes overlapping the 1-based position pos1 on contig,
// sorted by gene ID.  Each gene appears once.
func (ix *Index) Lookup(contig string, pos1 int) []Hit {
	genes := ix.geneIDs(Gene, contig, pos1)
	if len(genes) == 0 {
		return nil
	}
	exonic := map[string]bool{}
	for _, id := range ix.geneIDs(Exon, contig, pos1) {
		exonic[id] = true
	}
	sort.Strings(genes)
	hits := make([]Hit, 0, len(genes))
	for i, id := range genes {
		if i > 0 && id == genes[i-1] {
			continue
		}
		hits = append(hits, Hit{GeneID: id, Exonic: exonic[id]})
	}
	return hits
}
