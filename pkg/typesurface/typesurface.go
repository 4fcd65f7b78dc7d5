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

// Package typesurface normalizes the as-written type strings captured
// by pkg/parse (generics, nullability, arrays, qualification) down to
// a bare type name the resolver can look up in the symbol table. It is
// a dependency-free package, the same role pkg/sigparse plays for the
// Go-only teacher, generalized from one language's signature grammar
// to the surface-type conventions of all four supported languages.
package typesurface

import "strings"

// Normalize strips everything from a surface type string that does not
// affect which declaration it names:
//
//	"List<User>"   -> "List"   (Kotlin/Java generics)
//	"User[]"       -> "User"   (Java/TS arrays)
//	"Array<User>"  -> "Array"  (TS generic array)
//	"User?"        -> "User"   (Kotlin/TS nullable suffix)
//	"com.acme.User"-> "User"   (dotted qualification)
//	"...User"      -> "User"   (Kotlin vararg prefix is handled by the
//	                            parser already; kept here for callers
//	                            that pass raw annotation text)
func Normalize(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimPrefix(t, "...")
	t = strings.TrimSuffix(t, "?")
	t = strings.TrimSuffix(t, "[]")

	if idx := strings.Index(t, "<"); idx != -1 {
		t = t[:idx]
	}
	t = strings.TrimSpace(t)

	if dot := strings.LastIndex(t, "."); dot != -1 {
		t = t[dot+1:]
	}
	return t
}

// GenericArgs returns the comma-separated type arguments of a generic
// surface type, e.g. "Map<String, User>" -> ["String", "User"]. Nested
// generics are kept intact as a single argument.
func GenericArgs(t string) []string {
	start := strings.Index(t, "<")
	if start == -1 {
		return nil
	}
	end := strings.LastIndex(t, ">")
	if end == -1 || end < start {
		return nil
	}
	inner := t[start+1 : end]
	return splitTopLevelCommas(inner)
}

// IsNullable reports whether a Kotlin or TypeScript surface type
// carries the "?" nullability suffix.
func IsNullable(t string) bool {
	return strings.HasSuffix(strings.TrimSpace(t), "?")
}

// IsArray reports whether a surface type is an array/list shorthand:
// Java/TS's "T[]" or Kotlin/TS's "Array<T>"/"List<T>".
func IsArray(t string) bool {
	t = strings.TrimSpace(t)
	if strings.HasSuffix(t, "[]") {
		return true
	}
	base := t
	if idx := strings.Index(t, "<"); idx != -1 {
		base = t[:idx]
	}
	switch base {
	case "Array", "List", "MutableList", "ArrayList":
		return true
	}
	return false
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
