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
package interval

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// PosType is the type of all interval coordinates.
type PosType = int32

const posTypeMax = math.MaxInt32

// Entry represents a single interval, with 0-based half-open coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// Contains returns whether the 1-based position pos1 on chrName falls in e.
func (e Entry) Contains(chrName string, pos1 int) bool {
	return chrName == e.ChrName && int64(pos1) > int64(e.Start0) && int64(pos1) <= int64(e.End)
}

func (e Entry) String() string {
	return fmt.Sprintf("%s:%d-%d", e.ChrName, e.Start0+1, e.End)
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, posTypeMax - 1) is returned if there is no positional restriction.
func ParseRegionString(region string) (Entry, error) {
	var result Entry
	if len(region) == 0 {
		return result, errors.E(errors.Invalid, "interval.ParseRegionString: empty region string")
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.End = posTypeMax - 1
		return result, nil
	}
	if colonPos == 0 {
		return result, errors.E(errors.Invalid, "interval.ParseRegionString: empty contig ID")
	}
	result.ChrName = region[:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	parsePos := func(s string) (PosType, error) {
		pos1, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, errors.E(errors.Invalid, err, fmt.Sprintf("interval.ParseRegionString: region %q", region))
		}
		if pos1 <= 0 || pos1 >= posTypeMax {
			return 0, errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: position %v in region %q out of range", s, region))
		}
		return PosType(pos1), nil
	}
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		pos1, err := parsePos(rangeStr)
		if err != nil {
			return result, err
		}
		result.Start0 = pos1 - 1
		result.End = pos1
		return result, nil
	}
	start1, err := parsePos(rangeStr[:dashPos])
	if err != nil {
		return result, err
	}
	end, err := parsePos(rangeStr[dashPos+1:])
	if err != nil {
		return result, err
	}
	if end < start1 {
		return result, errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: invalid range %q", rangeStr))
	}
	result.Start0 = start1 - 1
	result.End = end
	return result, nil
}

// Union is a set of genomic positions, stored as per-contig sorted arrays of
// interval endpoints [start0, end, start0, end, ...].  The zero Union is empty.
type Union struct {
	nameMap map[string][]PosType
}

// NewUnion returns the union of entries.  Entries need not be sorted.
func NewUnion(entries []Entry) (Union, error) {
	byChr := map[string][]Entry{}
	for _, e := range entries {
		if e.Start0 < 0 || e.End < e.Start0 || e.End >= posTypeMax {
			return Union{}, errors.E(errors.Invalid, fmt.Sprintf("interval.NewUnion: invalid coordinate pair [%d, %d)", e.Start0, e.End))
		}
		if e.End == e.Start0 {
			continue
		}
		byChr[e.ChrName] = append(byChr[e.ChrName], e)
	}
	u := Union{nameMap: make(map[string][]PosType, len(byChr))}
	for chr, es := range byChr {
		sort.Slice(es, func(i, j int) bool { return es[i].Start0 < es[j].Start0 })
		endpoints := make([]PosType, 0, 2*len(es))
		for _, e := range es {
			if n := len(endpoints); n > 0 && e.Start0 <= endpoints[n-1] {
				if e.End > endpoints[n-1] {
					endpoints[n-1] = e.End
				}
				continue
			}
			endpoints = append(endpoints, e.Start0, e.End)
		}
		u.nameMap[chr] = endpoints
	}
	return u, nil
}

// ContainsByName returns whether the 0-based position pos0 on chrName is in
// the union.
func (u Union) ContainsByName(chrName string, pos0 PosType) bool {
	endpoints := u.nameMap[chrName]
	// An odd number of endpoints <= pos0 means pos0 is inside an interval.
	n := sort.Search(len(endpoints), func(i int) bool { return endpoints[i] > pos0 })
	return n&1 == 1
}

// Contains is ContainsByName for a 1-based position.
func (u Union) Contains(chrName string, pos1 int) bool {
	if pos1 <= 0 || pos1 > posTypeMax {
		return false
	}
	return u.ContainsByName(chrName, PosType(pos1-1))
}

// Empty returns whether the union holds no position.
func (u Union) Empty() bool { return len(u.nameMap) == 0 }

// ReadBED reads the first three columns of a BED file.  Blank, '#', "track"
// and "browser" lines are skipped.
func ReadBED(in io.Reader) ([]Entry, error) {
	r := tsv.NewReader(in)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var entries []Entry
	for line := 1; ; line++ {
		rec, err := r.Reader.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "interval.ReadBED")
		}
		if strings.HasPrefix(rec[0], "track") || strings.HasPrefix(rec[0], "browser") {
			continue
		}
		if len(rec) < 3 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.ReadBED: line %d: expected at least 3 columns, got %d", line, len(rec)))
		}
		start0, err := strconv.ParseInt(rec[1], 10, 32)
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("interval.ReadBED: line %d", line))
		}
		end, err := strconv.ParseInt(rec[2], 10, 32)
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("interval.ReadBED: line %d", line))
		}
		entries = append(entries, Entry{ChrName: rec[0], Start0: PosType(start0), End: PosType(end)})
	}
}

// NewUnionFromBEDPath reads a BED file, optionally gzipped, and returns the
// union of its intervals.
func NewUnionFromBEDPath(ctx context.Context, path string) (u Union, err error) {
	infile, err := file.Open(ctx, path)
	if err != nil {
		return u, errors.E(err, "interval.NewUnionFromBEDPath", path)
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader := io.Reader(infile.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return u, errors.E(err, path)
		}
	}
	entries, err := ReadBED(reader)
	if err != nil {
		return u, errors.E(err, path)
	}
	return NewUnion(entries)
}
