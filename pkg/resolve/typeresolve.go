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
	"github.com/kraklabs/codegraph/pkg/symtab"
	"github.com/kraklabs/codegraph/pkg/typesurface"
)

// maxAliasDepth bounds typealias/type-alias following. A handful of
// languages in scope allow `type A = B` chains; this is generous enough
// for any real chain while still guaranteeing termination on a cycle.
const maxAliasDepth = 8

// resolveClassThroughAliases normalizes a surface type name and, if it
// names a type alias rather than a class directly, follows the alias
// chain until it bottoms out at a class symbol or a cycle is detected.
func resolveClassThroughAliases(t *symtab.SymbolTable, surfaceType string) *symtab.Symbol {
	name := typesurface.Normalize(surfaceType)
	seen := make(map[string]bool)
	for depth := 0; depth < maxAliasDepth; depth++ {
		if seen[name] {
			return nil
		}
		seen[name] = true

		var classMatch, aliasMatch *symtab.Symbol
		for _, sym := range t.ByName(name) {
			switch sym.Kind {
			case symtab.SymbolClass:
				classMatch = sym
			case symtab.SymbolTypeAlias:
				aliasMatch = sym
			}
		}
		if classMatch != nil {
			return classMatch
		}
		if aliasMatch == nil {
			return nil
		}
		name = typesurface.Normalize(aliasMatch.AliasedType)
	}
	return nil
}
