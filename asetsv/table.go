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
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// Table is a tab-separated table with a header row, held as strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the named column, or a *ase.SchemaError.
func (t *Table) Index(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, &ase.SchemaError{Column: name}
}

// newReader returns a tsv reader configured for the ASE tables.
func newReader(in io.Reader) *tsv.Reader {
	r := tsv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

// readRecords reads in record by record, calling fn with 1-based line
// numbers.  The header is the first record.  fn must not retain rec.
func readRecords(in io.Reader, fn func(line int, rec []string) error) error {
	r := newReader(in)
	for line := 1; ; line++ {
		rec, err := r.Reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.E(errors.Invalid, err)
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

// ParseTable reads a whole table from in.
func ParseTable(in io.Reader) (*Table, error) {
	t := &Table{}
	err := readRecords(in, func(line int, rec []string) error {
		row := append([]string(nil), rec...)
		if line == 1 {
			t.Header = row
			return nil
		}
		if len(row) != len(t.Header) {
			return errors.E(errors.Invalid, fmt.Sprintf("line %d: %d columns, header has %d", line, len(row), len(t.Header)))
		}
		t.Rows = append(t.Rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if t.Header == nil {
		return nil, ase.ErrEmptyInput
	}
	return t, nil
}

// openReader opens path for reading, decompressing gzip files.  The returned
// closer must be called with the final error.
func openReader(ctx context.Context, path string) (io.Reader, func(*error), error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "asetsv: open", path)
	}
	closer := func(errp *error) { file.CloseAndReport(ctx, f, errp) }
	reader := io.Reader(f.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			closer(&err)
			return nil, nil, errors.E(err, path)
		}
	}
	return reader, closer, nil
}

// withPath attaches path to a parse error, filling in SchemaError.Path.
func withPath(err error, path string) error {
	if err == nil || err == ase.ErrEmptyInput {
		return err
	}
	if se, ok := err.(*ase.SchemaError); ok {
		se.Path = path
		return se
	}
	return errors.E(err, path)
}

// ReadTable reads a whole table from path.
func ReadTable(ctx context.Context, path string) (t *Table, err error) {
	in, closer, err := openReader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer closer(&err)
	t, err = ParseTable(in)
	return t, withPath(err, path)
}

// createWriter creates path and returns a tsv writer on it, block-gzipped if
// path ends in .gz.  The returned closer flushes and closes everything, and
// must be called with the final error.
func createWriter(ctx context.Context, path string) (*tsv.Writer, func(*error), error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "asetsv: create", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		w := tsv.NewWriter(f.Writer(ctx))
		return w, func(errp *error) {
			if e := w.Flush(); e != nil && *errp == nil {
				*errp = e
			}
			file.CloseAndReport(ctx, f, errp)
		}, nil
	}
	bgzfWriter := bgzf.NewWriter(f.Writer(ctx), 1)
	w := tsv.NewWriter(bgzfWriter)
	return w, func(errp *error) {
		if e := w.Flush(); e != nil && *errp == nil {
			*errp = e
		}
		if e := bgzfWriter.Close(); e != nil && *errp == nil {
			*errp = e
		}
		file.CloseAndReport(ctx, f, errp)
	}, nil
}

// FormatTable writes t to w.
func FormatTable(w *tsv.Writer, t *Table) error {
	for _, row := range append([][]string{t.Header}, t.Rows...) {
		for _, field := range row {
			w.WriteString(field)
		}
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable writes t to path.
func WriteTable(ctx context.Context, path string, t *Table) (err error) {
	w, closer, err := createWriter(ctx, path)
	if err != nil {
		return err
	}
	defer closer(&err)
	return FormatTable(w, t)
}
