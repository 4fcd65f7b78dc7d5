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

// jsProvider backs both TypeScript and JavaScript: TypeScript's
// built-ins and globals are a strict superset of JavaScript's, the
// same relationship the parser package relies on for node walking.
type jsProvider struct{}

var jsBuiltinTypes = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true,
	"unknown": true, "void": true, "never": true, "object": true,
	"undefined": true, "null": true, "symbol": true, "bigint": true,
	"Array": true, "Object": true, "String": true, "Number": true,
	"Boolean": true, "Symbol": true, "Promise": true, "Map": true,
	"Set": true, "WeakMap": true, "WeakSet": true, "Error": true,
	"Record": true, "Partial": true, "Readonly": true, "Pick": true, "Omit": true,
}

var jsKnownSymbols = map[string]bool{
	"console": true, "window": true, "document": true, "process": true,
	"require": true, "module": true, "exports": true, "global": true,
	"globalThis": true, "JSON": true, "Math": true, "Date": true, "RegExp": true,
	"parseInt": true, "parseFloat": true, "isNaN": true, "isFinite": true,
	"setTimeout": true, "setInterval": true, "clearTimeout": true, "clearInterval": true,
	"fetch": true, "Promise": true,
}

func (jsProvider) IsBuiltinType(t string) bool       { return jsBuiltinTypes[t] }
func (jsProvider) IsKnownSymbol(name string) bool    { return jsKnownSymbols[name] }
func (jsProvider) DefaultWildcardImports() []string  { return nil }
