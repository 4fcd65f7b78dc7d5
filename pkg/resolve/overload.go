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
	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/symtab"
	"github.com/kraklabs/codegraph/pkg/typesurface"
)

// pickOverload chooses which of a symbol's merged signatures (see
// spec.md §4.1) best matches a call site, returning the FQN every
// signature shares. A symbol with no Overloads just returns its own
// FQN; the scoring only matters for picking a representative when
// diagnostics need to report argument-type mismatches, and for future
// per-signature edges should the graph ever need them.
func pickOverload(sym *symtab.Symbol, call astmodel.ParsedCall) string {
	if len(sym.Overloads) == 0 {
		return sym.FQN
	}
	best := sym
	bestScore := scoreSignature(sym, call)
	for _, ov := range sym.Overloads {
		if s := scoreSignature(ov, call); s > bestScore {
			best, bestScore = ov, s
		}
	}
	return best.FQN
}

// scoreSignature rates how well one signature matches a call's argument
// count and (when captured) argument types. Arity match dominates;
// argument-type agreement only breaks ties between equally-arity
// candidates.
func scoreSignature(sym *symtab.Symbol, call astmodel.ParsedCall) int {
	score := 0
	if len(sym.Parameters) == call.ArgumentCount {
		score += 100
	} else if hasVararg(sym.Parameters) && call.ArgumentCount >= len(sym.Parameters)-1 {
		score += 50
	} else {
		score -= 100
	}
	if len(call.ArgumentTypes) == 0 {
		return score
	}
	for i, argType := range call.ArgumentTypes {
		if i >= len(sym.Parameters) {
			break
		}
		if typesurface.Normalize(argType) == typesurface.Normalize(sym.Parameters[i].SurfaceType) {
			score += 10
		}
	}
	return score
}

func hasVararg(params []astmodel.ParsedParameter) bool {
	for _, p := range params {
		if p.Vararg {
			return true
		}
	}
	return false
}
