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
package haptable

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// VCF column indexes.
const (
	vcfChrom  = 0
	vcfPos    = 1
	vcfFormat = 8
	vcfSample = 9
)

// splitGT splits a GT field into its alleles, reporting whether it is
// phased.  Mixed separators count as unphased.
func splitGT(gt string) (alleles []string, phased bool) {
	if strings.ContainsRune(gt, '/') {
		return strings.FieldsFunc(gt, func(r rune) bool { return r == '/' || r == '|' }), false
	}
	return strings.Split(gt, "|"), true
}

// isHet reports whether a called genotype carries two different alleles.
func isHet(alleles []string) bool {
	for _, a := range alleles {
		if a == "." {
			return false
		}
	}
	for _, a := range alleles[1:] {
		if a != alleles[0] {
			return true
		}
	}
	return false
}

// Genotypes maps a locus to the GT of the first heterozygous sample of its
// VCF record.
type Genotypes map[ase.Locus]string

// ParseVCF reads the genotypes of a VCF file.  For each record, only the
// first sample with a heterozygous call is considered, and the record is
// kept only if that call is phased.
func ParseVCF(in io.Reader) (Genotypes, error) {
	r := tsv.NewReader(in)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	gts := Genotypes{}
	for {
		rec, err := r.Reader.Read()
		if err == io.EOF {
			return gts, nil
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "haptable.ParseVCF")
		}
		if len(rec) <= vcfSample {
			continue
		}
		pos, err := strconv.Atoi(rec[vcfPos])
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("haptable.ParseVCF: %s: POS", rec[vcfChrom]))
		}
		gtIdx := -1
		for i, key := range strings.Split(rec[vcfFormat], ":") {
			if key == "GT" {
				gtIdx = i
				break
			}
		}
		if gtIdx < 0 {
			continue
		}
		for _, sample := range rec[vcfSample:] {
			fields := strings.Split(sample, ":")
			if gtIdx >= len(fields) {
				continue
			}
			alleles, phased := splitGT(fields[gtIdx])
			if !isHet(alleles) {
				continue
			}
			if phased {
				gts[ase.Locus{Contig: rec[vcfChrom], Pos: pos}] = fields[gtIdx]
			}
			break
		}
	}
}

// ReadVCF reads the genotypes of a VCF file, optionally compressed.
func ReadVCF(ctx context.Context, path string) (gts Genotypes, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "haptable.ReadVCF", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr = u
	}
	if gts, err = ParseVCF(inr); err != nil {
		return nil, errors.E(err, path)
	}
	return gts, nil
}
