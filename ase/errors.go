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
package ase

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// ErrEmptyInput is returned by Run when the site table holds no site with
// nonzero total coverage.
var ErrEmptyInput = errors.E(errors.Invalid, "ase: the site table is empty")

// SchemaError reports a required column missing from an input table.
type SchemaError struct {
	// Path of the table, if known.
	Path string
	// Column is the missing column name.
	Column string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("ase: required column %q is missing", e.Column)
	}
	return fmt.Sprintf("ase: %s: required column %q is missing", e.Path, e.Column)
}
