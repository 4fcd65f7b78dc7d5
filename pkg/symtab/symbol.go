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

// Package symtab builds the project-wide symbol table (stage B): it
// takes every file's independently-parsed astmodel.ParsedFile and
// assigns each declaration a fully-qualified name, so stage C (pkg/resolve)
// never has to reopen a file to figure out what something is named.
package symtab

import "github.com/kraklabs/codegraph/pkg/astmodel"

// SymbolKind discriminates the Symbol variants a declaration can become.
type SymbolKind string

const (
	SymbolClass      SymbolKind = "class"
	SymbolFunction   SymbolKind = "function"
	SymbolProperty   SymbolKind = "property"
	SymbolTypeAlias  SymbolKind = "type_alias"
)

// Symbol is one globally-addressable declaration. FQN is the dotted
// path used as the primary index key; it is never recomputed after
// BuildTable returns.
type Symbol struct {
	FQN         string
	Name        string
	Kind        SymbolKind
	Language    astmodel.Language
	FilePath    string
	PackageName string
	Loc         astmodel.SourceLocation

	// Class-only fields.
	ClassKind    astmodel.ClassKind
	SuperClass   string   // surface string as written, resolved later by pkg/resolve
	Interfaces   []string // surface strings
	OwnerFQN     string   // enclosing class FQN, empty for top-level classes

	// Function-only fields.
	Parameters    []astmodel.ParsedParameter
	ReturnType    string
	IsExtension   bool
	ReceiverType  string
	IsConstructor bool
	Overloads     []*Symbol // additional signatures sharing this FQN, see spec.md §4.1

	// Property-only fields.
	SurfaceType string
	Immutable   bool

	// Function-or-property owner: the class FQN a member belongs to,
	// empty for file-scope declarations.
	EnclosingFQN string

	// TypeAlias-only field.
	AliasedType string

	Calls []astmodel.ParsedCall
}
