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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// gtfRecord stores one line of a GTF file.
type gtfRecord struct {
	Chrom    string
	Source   string
	Molecule string
	Start    int
	Stop     int
	Score    string // unused floating point value, but may be "."
	Strand   string
	Frame    string
	Fields   string
}

// parseAttributes parses the GTF attribute column, e.g.
//   gene_id "ENSG00000223972.5"; gene_type "transcribed_unprocessed_pseudogene";
// into attrs, which is cleared first.
func parseAttributes(attrs map[string]string, info string) {
	for k := range attrs {
		delete(attrs, k)
	}
	for _, field := range strings.Split(strings.TrimSpace(info), ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		pair := strings.SplitN(field, " ", 2)
		if len(pair) < 2 {
			attrs[pair[0]] = ""
			continue
		}
		attrs[pair[0]] = strings.Trim(strings.TrimSpace(pair[1]), "\"")
	}
}

// ParseGTF reads the gene and exon records of a GTF file into a new Index.
// Other record types are ignored.  Records without a gene_id attribute are
// an error.
func ParseGTF(in io.Reader) (*Index, error) {
	scanner := tsv.NewReader(bufio.NewReaderSize(in, 64<<10))
	scanner.Comment = '#'
	scanner.LazyQuotes = true
	ix := NewIndex()
	attrs := map[string]string{}
	var rec gtfRecord
	for {
		if err := scanner.Read(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "annotate.ParseGTF")
		}
		var kind Kind
		switch rec.Molecule {
		case "gene":
			kind = Gene
		case "exon":
			kind = Exon
		default:
			continue
		}
		parseAttributes(attrs, rec.Fields)
		geneID := attrs["gene_id"]
		if geneID == "" {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("annotate.ParseGTF: %s record at %s:%d has no gene_id", rec.Molecule, rec.Chrom, rec.Start))
		}
		if err := ix.Add(Feature{Kind: kind, Contig: rec.Chrom, Start: rec.Start, End: rec.Stop, GeneID: geneID}); err != nil {
			return nil, err
		}
	}
	ix.AdjustRanges()
	return ix, nil
}

// ReadGTF reads a GTF file, optionally compressed, into a new Index.
func ReadGTF(ctx context.Context, path string) (ix *Index, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "annotate.ReadGTF", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr = u
	}
	if ix, err = ParseGTF(inr); err != nil {
		return nil, errors.E(err, path)
	}
	return ix, nil
}
