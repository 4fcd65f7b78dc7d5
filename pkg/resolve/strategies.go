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
	"strings"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/stdlib"
	"github.com/kraklabs/codegraph/pkg/symtab"
	"github.com/kraklabs/codegraph/pkg/typesurface"
)

// step is one rung of the strategy ladder. It returns ok=false when the
// step does not apply or finds nothing, letting the caller fall through
// to the next rung.
type step func(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (calleeFQN string, ok bool)

// ladder is consulted top to bottom; the first step to succeed wins.
// Order follows spec.md §5: the more specific a strategy's evidence,
// the earlier it runs, so an unqualified call that happens to share a
// name with a wildcard-imported symbol never shadows a local one.
var ladder = []struct {
	strategy astmodel.ResolutionStrategy
	run      step
}{
	{astmodel.StrategyQualifiedCall, resolveQualifiedCall},
	{astmodel.StrategyConstructorCall, resolveConstructorCall},
	{astmodel.StrategyExplicitReceiver, resolveExplicitReceiverType},
	{astmodel.StrategyLocalVariable, resolveLocalVariableReceiver},
	{astmodel.StrategyClassProperty, resolveClassPropertyReceiver},
	{astmodel.StrategyExtensionFunction, resolveExtensionFunction},
	{astmodel.StrategyCurrentClass, resolveCurrentClassMethod},
	{astmodel.StrategyNamedImport, resolveNamedImport},
	{astmodel.StrategySamePackage, resolveSamePackage},
	{astmodel.StrategyWildcardImport, resolveWildcardImport},
}

// resolveQualifiedCall handles a dotted receiver that is itself a known
// FQN or class, e.g. `Outer.Companion.create()` or a fully-qualified
// static call: `com.acme.Utils.helper()` once the package prefix is
// stripped down to the class simple name.
func resolveQualifiedCall(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if call.Receiver == "" || !strings.Contains(call.Receiver, ".") {
		return "", false
	}
	if sym, ok := t.ByFQN(call.Receiver + "." + call.Name); ok {
		return pickOverload(sym, call), true
	}
	last := lastSegment(call.Receiver)
	for _, sym := range t.ByName(last) {
		if sym.Kind != symtab.SymbolClass {
			continue
		}
		if target, ok := t.ByFQN(sym.FQN + "." + call.Name); ok {
			return pickOverload(target, call), true
		}
	}
	return "", false
}

// resolveConstructorCall resolves `new Foo(...)`/`Foo()` construction to
// Foo's constructor symbol, or to the class itself when no explicit
// constructor was declared (an implicit default constructor). Kotlin
// has no `new` keyword, so its extractor never sets IsConstructorCall;
// per spec.md §4.3 strategy 2, an unqualified call also counts as a
// constructor call when its name starts upper-case and no same-named
// function is in scope to shadow it.
func resolveConstructorCall(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if !call.IsConstructorCall && !looksLikeConstructorCall(t, call) {
		return "", false
	}
	cls := findClassByName(t, ctx, call.Name)
	if cls == nil {
		return "", false
	}
	if ctor, ok := t.ByFQN(cls.FQN + ".<init>"); ok {
		return pickOverload(ctor, call), true
	}
	return cls.FQN, true
}

// looksLikeConstructorCall implements the upper-case-name fallback
// heuristic for languages without a `new` keyword: an unqualified call
// whose name starts upper-case, with no function of that exact name
// anywhere in the symbol table to take precedence.
func looksLikeConstructorCall(t *symtab.SymbolTable, call astmodel.ParsedCall) bool {
	if call.Receiver != "" || call.Name == "" {
		return false
	}
	if call.Name[0] < 'A' || call.Name[0] > 'Z' {
		return false
	}
	for _, sym := range t.ByName(call.Name) {
		if sym.Kind == symtab.SymbolFunction {
			return false
		}
	}
	return true
}

// resolveExplicitReceiverType uses a receiver type the parser already
// annotated on the call (e.g. from a typed `val`/parameter declaration
// visible at the call site itself, rather than inferred by this stage).
func resolveExplicitReceiverType(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if call.ReceiverType == "" {
		return "", false
	}
	return resolveMemberOfType(t, call.ReceiverType, call)
}

// resolveLocalVariableReceiver matches a single-segment receiver against
// the caller function's own parameters. The parser does not model
// function-body-local declarations as symbols, so this only covers
// parameter receivers, the most common shape in practice.
func resolveLocalVariableReceiver(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if call.Receiver == "" || strings.Contains(call.Receiver, ".") || ctx.Caller == nil {
		return "", false
	}
	for _, p := range ctx.Caller.Parameters {
		if p.Name == call.Receiver && p.SurfaceType != "" {
			return resolveMemberOfType(t, p.SurfaceType, call)
		}
	}
	return "", false
}

// resolveClassPropertyReceiver matches a single-segment receiver against
// a property declared on the caller's enclosing class.
func resolveClassPropertyReceiver(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if call.Receiver == "" || strings.Contains(call.Receiver, ".") || ctx.EnclosingClassFQN == "" {
		return "", false
	}
	for _, sym := range t.All() {
		if sym.Kind == symtab.SymbolProperty && sym.EnclosingFQN == ctx.EnclosingClassFQN && sym.Name == call.Receiver {
			if sym.SurfaceType == "" {
				return "", false
			}
			return resolveMemberOfType(t, sym.SurfaceType, call)
		}
	}
	return "", false
}

// resolveExtensionFunction matches a call that has a receiver against an
// extension function (Kotlin `fun Foo.bar()` or a TS `this`-parameter
// function) of the same name declared in the caller's own package. The
// call's receiver type is not compared with the extension's receiver
// type: the first same-named extension in the caller's package wins, and
// extensions declared in other packages are not considered.
func resolveExtensionFunction(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if call.Receiver == "" {
		return "", false
	}
	for _, sym := range t.FunctionsByName(call.Name) {
		if !sym.IsExtension {
			continue
		}
		if ctx.Caller != nil && sym.PackageName == ctx.Caller.PackageName {
			return pickOverload(sym, call), true
		}
	}
	return "", false
}

// resolveCurrentClassMethod handles an implicit-`this` call: no receiver
// text at all, so the callee is looked up first directly on the
// enclosing class, then up its nominal supertype chain for an inherited
// method.
func resolveCurrentClassMethod(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if call.Receiver != "" || ctx.EnclosingClassFQN == "" {
		return "", false
	}
	if sym, ok := t.ByFQN(ctx.EnclosingClassFQN + "." + call.Name); ok {
		return pickOverload(sym, call), true
	}
	seen := map[string]bool{}
	queue := []string{ctx.EnclosingClassFQN}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, super := range t.Hierarchy().SuperTypesOf(cur) {
			if sym, ok := t.ByFQN(super + "." + call.Name); ok {
				return pickOverload(sym, call), true
			}
			queue = append(queue, super)
		}
	}
	return "", false
}

// resolveNamedImport matches the callee name against the file's own
// named imports, resolving the import path down to a package/class and
// looking up the member there.
func resolveNamedImport(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	lookupName := call.Name
	if call.Receiver != "" && !strings.Contains(call.Receiver, ".") {
		lookupName = call.Receiver
	}
	imp, ok := ctx.NamedImports[lookupName]
	if !ok {
		return "", false
	}
	base := lastSegment(imp.ImportPath)
	if call.Receiver != "" {
		if cls, ok := t.ByFQN(base + "." + call.Receiver); ok {
			if target, ok := t.ByFQN(cls.FQN + "." + call.Name); ok {
				return pickOverload(target, call), true
			}
		}
	}
	for _, sym := range t.ByName(base) {
		if target, ok := t.ByFQN(sym.FQN + "." + call.Name); ok {
			return pickOverload(target, call), true
		}
	}
	if sym, ok := t.ByFQN(base + "." + call.Name); ok {
		return pickOverload(sym, call), true
	}
	return "", false
}

// resolveSamePackage matches a call by name against the top-level
// functions declared directly in the caller's own package. The call's
// receiver text is not consulted.
func resolveSamePackage(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	if ctx.Caller == nil || ctx.Caller.PackageName == "" {
		return "", false
	}
	for _, sym := range t.ByPackage(ctx.Caller.PackageName) {
		if sym.Kind == symtab.SymbolFunction && sym.Name == call.Name && sym.EnclosingFQN == "" {
			return pickOverload(sym, call), true
		}
	}
	return "", false
}

// resolveWildcardImport matches a call against any symbol declared in a
// package reached through a wildcard import (`import kotlin.collections.*`,
// or a language's implicit default wildcard imports).
func resolveWildcardImport(t *symtab.SymbolTable, ctx *ResolutionContext, call astmodel.ParsedCall) (string, bool) {
	for _, pkg := range ctx.WildcardImports {
		for _, sym := range t.ByPackage(pkg) {
			if sym.Kind == symtab.SymbolFunction && sym.Name == call.Name {
				return pickOverload(sym, call), true
			}
		}
	}
	return "", false
}

// resolveStdlib is the ladder's final rung: it reports a call whose name
// the language's stdlib provider knows as a standard-library symbol, and
// returns false otherwise, leaving the call unresolved.
func resolveStdlib(lang astmodel.Language, call astmodel.ParsedCall) (calleeFQN string, isStdlib bool) {
	p := stdlib.For(lang)
	if p == nil {
		return "", false
	}
	if p.IsKnownSymbol(call.Name) {
		return "stdlib:" + string(lang) + ":" + call.Name, true
	}
	return "", false
}

// resolveMemberOfType normalizes a surface type string to a bare type
// name, finds the class it names, and looks up call.Name as a member of
// that class.
func resolveMemberOfType(t *symtab.SymbolTable, surfaceType string, call astmodel.ParsedCall) (string, bool) {
	sym := resolveClassThroughAliases(t, surfaceType)
	if sym == nil {
		return "", false
	}
	if target, ok := t.ByFQN(sym.FQN + "." + call.Name); ok {
		return pickOverload(target, call), true
	}
	for _, super := range t.Hierarchy().SuperTypesOf(sym.FQN) {
		if target, ok := t.ByFQN(super + "." + call.Name); ok {
			return pickOverload(target, call), true
		}
	}
	return "", false
}

// findClassByName resolves a constructor call's type name to a class
// symbol, preferring the caller's own package.
func findClassByName(t *symtab.SymbolTable, ctx *ResolutionContext, name string) *symtab.Symbol {
	typeName := typesurface.Normalize(name)
	if ctx.Caller != nil {
		if sym, ok := t.ByFQN(ctx.Caller.PackageName + "." + typeName); ok && sym.Kind == symtab.SymbolClass {
			return sym
		}
	}
	return resolveClassThroughAliases(t, typeName)
}
