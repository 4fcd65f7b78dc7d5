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

import (
	"testing"

	"github.com/kraklabs/codegraph/pkg/astmodel"
)

func TestForReturnsRegisteredProviders(t *testing.T) {
	for _, lang := range []astmodel.Language{astmodel.Kotlin, astmodel.Java, astmodel.TypeScript, astmodel.JavaScript} {
		if For(lang) == nil {
			t.Errorf("For(%q) = nil, want a registered provider", lang)
		}
	}
}

func TestForUnknownLanguageReturnsNil(t *testing.T) {
	if p := For(astmodel.Language("cobol")); p != nil {
		t.Errorf("For(cobol) = %v, want nil", p)
	}
}

func TestKotlinProviderKnownSymbols(t *testing.T) {
	p := For(astmodel.Kotlin)
	if !p.IsKnownSymbol("println") {
		t.Error("println should be a known Kotlin symbol")
	}
	if p.IsKnownSymbol("myCustomFunction") {
		t.Error("myCustomFunction should not be a known Kotlin symbol")
	}
	if !p.IsBuiltinType("String") {
		t.Error("String should be a builtin Kotlin type")
	}
	if p.IsBuiltinType("MyClass") {
		t.Error("MyClass should not be a builtin Kotlin type")
	}
	if len(p.DefaultWildcardImports()) == 0 {
		t.Error("Kotlin should declare default wildcard imports")
	}
}

func TestJavaProviderKnownSymbols(t *testing.T) {
	p := For(astmodel.Java)
	if !p.IsBuiltinType("int") {
		t.Error("int should be a builtin Java type")
	}
	if p.IsBuiltinType("MyClass") {
		t.Error("MyClass should not be a builtin Java type")
	}
}

func TestJSProviderSharedBetweenTSAndJS(t *testing.T) {
	ts := For(astmodel.TypeScript)
	js := For(astmodel.JavaScript)
	if !ts.IsKnownSymbol("console") {
		t.Error("console should be a known TypeScript symbol")
	}
	if !js.IsKnownSymbol("console") {
		t.Error("console should be a known JavaScript symbol")
	}
}
