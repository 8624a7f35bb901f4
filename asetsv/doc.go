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
// Package asetsv reads and writes the tab-separated tables exchanged by the
// ASE tools: allele count tables in the GATK ASEReadCounter layout,
// mappability tables, and cleaned site tables.  Paths ending in .gz are
// decompressed on read and block-gzipped on write.
package asetsv
