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

// Package resolve is stage C of the pipeline: for every call site stage
// A captured and stage B gave an owning FQN, it walks an ordered
// strategy ladder (strategies.go) until one rung produces a callee FQN,
// falling back to a stdlib stub or an unresolved call site rather than
// raising an error, per spec.md §7.
package resolve

import (
	"strings"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/symtab"
)

// ResolutionContext carries everything a strategy step needs about the
// call site beyond the astmodel.ParsedCall itself: which function the
// call occurs in, which class (if any) encloses that function, and the
// file's own import list, since imports are a per-file concern the
// flattened SymbolTable does not retain.
type ResolutionContext struct {
	Caller            *symtab.Symbol
	EnclosingClassFQN string
	File              *astmodel.ParsedFile
	NamedImports      map[string]astmodel.ParsedImport // import simple-name/alias -> import
	WildcardImports   []string                         // declared + language-default package paths
}

// newContext builds a ResolutionContext for one function symbol, given
// the ParsedFile it came from.
func newContext(fn *symtab.Symbol, pf *astmodel.ParsedFile, defaultWildcards []string) *ResolutionContext {
	ctx := &ResolutionContext{
		Caller:            fn,
		EnclosingClassFQN: fn.EnclosingFQN,
		File:              pf,
		NamedImports:      make(map[string]astmodel.ParsedImport),
	}
	ctx.WildcardImports = append(ctx.WildcardImports, defaultWildcards...)
	if pf == nil {
		return ctx
	}
	for _, imp := range pf.Imports {
		if imp.Wildcard {
			ctx.WildcardImports = append(ctx.WildcardImports, imp.ImportPath)
			continue
		}
		name := imp.Alias
		if name == "" {
			name = imp.ImportedName
		}
		if name == "" {
			name = lastSegment(imp.ImportPath)
		}
		ctx.NamedImports[name] = imp
	}
	return ctx
}

func lastSegment(s string) string {
	if idx := strings.LastIndex(s, "."); idx != -1 {
		return s[idx+1:]
	}
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		return s[idx+1:]
	}
	return s
}

func qualify(packageName, ownerFQN, name string) string {
	if ownerFQN != "" {
		return ownerFQN + "." + name
	}
	if packageName != "" {
		return packageName + "." + name
	}
	return name
}
