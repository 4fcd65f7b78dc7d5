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

package stdlib

var kotlinBuiltinTypes = map[string]bool{
	"Int": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Boolean": true, "Char": true,
	"String": true, "Unit": true, "Any": true, "Nothing": true,
	"Array": true, "List": true, "MutableList": true,
	"Map": true, "MutableMap": true, "Set": true, "MutableSet": true,
	"Pair": true, "Triple": true, "Sequence": true,
}

var kotlinKnownSymbols = map[string]bool{
	"println": true, "print": true, "readLine": true,
	"listOf": true, "mutableListOf": true, "mapOf": true, "mutableMapOf": true,
	"setOf": true, "mutableSetOf": true, "arrayOf": true, "emptyList": true,
	"emptyMap": true, "emptySet": true, "require": true, "requireNotNull": true,
	"check": true, "checkNotNull": true, "error": true, "lazy": true,
	"run": true, "let": true, "also": true, "apply": true, "with": true,
	"TODO": true,
}

var kotlinWildcardImports = []string{
	"kotlin", "kotlin.annotation", "kotlin.collections", "kotlin.comparisons",
	"kotlin.io", "kotlin.ranges", "kotlin.sequences", "kotlin.text",
}

type kotlinProvider struct{}

func (kotlinProvider) IsBuiltinType(t string) bool        { return kotlinBuiltinTypes[t] }
func (kotlinProvider) IsKnownSymbol(name string) bool      { return kotlinKnownSymbols[name] }
func (kotlinProvider) DefaultWildcardImports() []string    { return kotlinWildcardImports }
