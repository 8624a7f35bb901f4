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
package cleanup

import (
	"context"
	"strconv"

	"github.com/grailbio/ase/ase"
	"github.com/grailbio/ase/asetsv"
)

// Summary renders r as a two-column metric/value table.  keptChecksum is the
// asetsv.Checksum of the kept sites.
func Summary(r *ase.Report, keptChecksum uint64) *asetsv.Table {
	t := &asetsv.Table{Header: []string{"metric", "value"}}
	add := func(name, value string) { t.Rows = append(t.Rows, []string{name, value}) }
	addInt := func(name string, v int) { add(name, strconv.Itoa(v)) }

	addInt("loaded", r.Loaded)
	addInt("zeroCoverage", r.ZeroCoverage)
	add("biasEstimated", strconv.FormatBool(r.BiasEstimated))
	if r.BiasEstimated {
		addInt("biasCutoff", r.BiasCutoff)
	}
	add("meanReferenceBias", asetsv.FormatFloat(r.Bias.Mean()))
	for _, pair := range r.Bias.Pairs() {
		b, _ := r.Bias.Get(pair)
		add("referenceBias."+pair.String(), asetsv.FormatFloat(b))
	}
	add("perrorEstimated", strconv.FormatBool(r.PEstimated))
	add("perror", asetsv.FormatFloat(r.PError))
	addInt("sites", r.Filter.Sites)
	if r.FilterOpts.HasMappability {
		addInt("lowMappability", r.Filter.LowMappability)
	}
	addInt("lowDepth", r.Filter.LowDepth)
	addInt("homozygous", r.Filter.Homozygous)
	addInt("noImbalance", r.Filter.NoImbalance)
	addInt("removed", r.Filter.Removed())
	addInt("kept", r.Filter.Kept)
	add("keptChecksum", strconv.FormatUint(keptChecksum, 16))
	return t
}

// WriteSummary writes Summary(r, keptChecksum) to path.
func WriteSummary(ctx context.Context, path string, r *ase.Report, keptChecksum uint64) error {
	return asetsv.WriteTable(ctx, path, Summary(r, keptChecksum))
}
