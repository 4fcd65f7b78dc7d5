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

var javaBuiltinTypes = map[string]bool{
	"int": true, "long": true, "short": true, "byte": true,
	"float": true, "double": true, "boolean": true, "char": true, "void": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Boolean": true, "Character": true,
	"String": true, "Object": true, "List": true, "ArrayList": true,
	"Map": true, "HashMap": true, "Set": true, "HashSet": true, "Optional": true,
}

var javaKnownSymbols = map[string]bool{
	"System": true, "Math": true, "Objects": true, "Arrays": true,
	"Collections": true, "List": true, "Map": true, "Set": true,
	"Thread": true, "Runnable": true, "Exception": true, "RuntimeException": true,
}

var javaWildcardImports = []string{"java.lang", "java.util"}

type javaProvider struct{}

func (javaProvider) IsBuiltinType(t string) bool     { return javaBuiltinTypes[t] }
func (javaProvider) IsKnownSymbol(name string) bool  { return javaKnownSymbols[name] }
func (javaProvider) DefaultWildcardImports() []string { return javaWildcardImports }
