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
package asetsv

import (
	"context"
	"strconv"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/ase/ase"
	"github.com/grailbio/base/tsv"
)

// Columns of the cleaned site table beyond those of the input.
const (
	ColASERatio           = "aseRatio"
	ColReferenceBias      = "referenceBias"
	ColImbalancePValue    = "imbalancePValue"
	ColImbalanceAdjPValue = "imbalanceAdjPValue"
)

// OutputHeader is the header of the cleaned site table.
var OutputHeader = []string{
	ColContig, ColPosition, ColRefAllele, ColAltAllele,
	ColRefCount, ColAltCount, ColTotalCount,
	ColASERatio, ColReferenceBias, ColImbalancePValue, ColImbalanceAdjPValue,
}

// FormatFloat formats v with the fewest digits that round-trip.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatSites writes the cleaned site table to w.  Noise and quality columns,
// the heterozygosity p-values and mappability are not written.
func FormatSites(w *tsv.Writer, sites []ase.Site) error {
	for _, h := range OutputHeader {
		w.WriteString(h)
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	for i := range sites {
		s := &sites[i]
		w.WriteString(s.Contig)
		w.WriteString(strconv.Itoa(s.Pos))
		w.WriteByte(s.RefAllele)
		w.WriteByte(s.AltAllele)
		w.WriteString(strconv.Itoa(s.RefCount))
		w.WriteString(strconv.Itoa(s.AltCount))
		w.WriteString(strconv.Itoa(s.TotalCount))
		w.WriteString(FormatFloat(s.ASERatio))
		w.WriteString(FormatFloat(s.RefBias))
		w.WriteString(FormatFloat(s.ImbalancePValue))
		w.WriteString(FormatFloat(s.ImbalanceAdjPValue))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// WriteSites writes the cleaned site table to path.
func WriteSites(ctx context.Context, path string, sites []ase.Site) (err error) {
	w, closer, err := createWriter(ctx, path)
	if err != nil {
		return err
	}
	defer closer(&err)
	return FormatSites(w, sites)
}

// Checksum returns the seahash of the uncompressed cleaned site table of
// sites.  Two runs producing byte-identical tables have equal checksums.
func Checksum(sites []ase.Site) (uint64, error) {
	h := seahash.New()
	w := tsv.NewWriter(h)
	if err := FormatSites(w, sites); err != nil {
		return 0, err
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
