// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/symtab"
)

// Stats is the aggregate shape spec.md §4.3's public contract asks for:
// { total, resolved, unresolved, rate }. It's a thin, separately
// computed aggregation rather than a reshaping of pipeline's internal
// per-strategy breakdown, mirroring the teacher's own CallResolver.Stats()
// keeping its own counters rather than reaching into another layer's.
type Stats struct {
	Total      int
	Resolved   int
	Unresolved int
	Rate       float64
}

// AggregateStats sums every ResolvedFile's call-site counts into a
// single project-wide Stats, with Rate = Resolved/Total (0 when there
// were no call sites at all, rather than NaN).
func AggregateStats(resolved []*astmodel.ResolvedFile) Stats {
	var s Stats
	for _, rf := range resolved {
		s.Total += rf.Stats.TotalCallSites
		s.Resolved += rf.Stats.ResolvedCallSites
		s.Unresolved += rf.Stats.UnresolvedCallSites
	}
	if s.Total > 0 {
		s.Rate = float64(s.Resolved) / float64(s.Total)
	}
	return s
}

// Lookup finds the symbol declared under an exact fully-qualified name.
func Lookup(table *symtab.SymbolTable, fqn string) (*symtab.Symbol, bool) {
	return table.ByFQN(fqn)
}

// FindSymbols returns every symbol whose FQN matches glob (doublestar
// syntax over dot-separated segments: "com.example.*" for one segment,
// "com.example.**" for any depth), sorted by FQN for a deterministic
// listing.
func FindSymbols(table *symtab.SymbolTable, glob string) []*symtab.Symbol {
	var matches []*symtab.Symbol
	pattern := strings.ReplaceAll(glob, ".", "/")
	for _, sym := range table.All() {
		if ok, _ := doublestar.Match(pattern, strings.ReplaceAll(sym.FQN, ".", "/")); ok {
			matches = append(matches, sym)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].FQN < matches[j].FQN })
	return matches
}
