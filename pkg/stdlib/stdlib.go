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

// Package stdlib answers one narrow question for the last rung of the
// resolver's strategy ladder: is this name part of the language's own
// standard library, and if so what wildcard-import packages does the
// language implicitly make visible everywhere. It never produces
// FQNs for standard library calls — those resolve to a stub, see
// pkg/resolve — it only tells the resolver when to stop looking.
package stdlib

import "github.com/kraklabs/codegraph/pkg/astmodel"

// Provider answers standard-library membership questions for one
// language. Implementations are read-only maps built once at init.
type Provider interface {
	// IsBuiltinType reports whether t names a primitive or built-in
	// type that should never generate an external stub (e.g. Kotlin's
	// "Int", Java's "int", TypeScript's "string").
	IsBuiltinType(t string) bool

	// IsKnownSymbol reports whether name is a standard-library
	// function, class, or top-level value reachable without an
	// explicit import (e.g. Kotlin's "println", JS's "console").
	IsKnownSymbol(name string) bool

	// DefaultWildcardImports lists the packages implicitly imported
	// into every file of this language, consulted by the resolver's
	// wildcard-import strategy step even when the file declares none
	// itself (e.g. Kotlin implicitly imports kotlin.*).
	DefaultWildcardImports() []string
}

// For returns the Provider for language, or nil if none is registered.
func For(language astmodel.Language) Provider {
	return providers[language]
}

var providers = map[astmodel.Language]Provider{
	astmodel.Kotlin:     kotlinProvider{},
	astmodel.Java:       javaProvider{},
	astmodel.TypeScript: jsProvider{},
	astmodel.JavaScript: jsProvider{},
}
