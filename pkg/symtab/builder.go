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

package symtab

import (
	"fmt"
	"sort"

	"github.com/kraklabs/codegraph/pkg/astmodel"
)

// SymbolTable is the project-wide index produced by Build. It is
// immutable once returned: pkg/resolve only ever reads from it.
type SymbolTable struct {
	byFQN           map[string]*Symbol
	byName          map[string][]*Symbol
	functionsByName map[string][]*Symbol
	byPackage       map[string][]*Symbol
	hierarchy       *Hierarchy
	insertionOrder  map[string][]*Symbol

	// Diagnostics accumulated while building, e.g. duplicate FQNs
	// (spec.md §7's DuplicateFQN case: last declaration wins in byFQN).
	Diagnostics []astmodel.Diagnostic
}

// ByFQN looks up the single symbol with an exact fully-qualified name.
func (t *SymbolTable) ByFQN(fqn string) (*Symbol, bool) {
	s, ok := t.byFQN[fqn]
	return s, ok
}

// ByName returns every symbol (in any package) whose simple name
// matches, used by same-package and wildcard-import resolution steps.
func (t *SymbolTable) ByName(name string) []*Symbol {
	return t.byName[name]
}

// FunctionsByName returns only function/constructor symbols matching
// name, used by the overload-resolution step.
func (t *SymbolTable) FunctionsByName(name string) []*Symbol {
	return t.functionsByName[name]
}

// ByPackage returns every symbol declared directly within a package.
func (t *SymbolTable) ByPackage(packageName string) []*Symbol {
	return t.byPackage[packageName]
}

// Hierarchy returns the computed class-extends/implements graph.
func (t *SymbolTable) Hierarchy() *Hierarchy {
	return t.hierarchy
}

// All returns every symbol recorded by insert, file by file in sorted
// file-path order and, within a file, in insertion order. Used by tests,
// by pkg/resolve, and by pkg/pipeline to emit symbol nodes. Destructuring
// components (see addDestructuring) are reachable through ByFQN and
// ByName but are not listed here.
func (t *SymbolTable) All() []*Symbol {
	paths := make([]string, 0, len(t.insertionOrder))
	for path := range t.insertionOrder {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	out := make([]*Symbol, 0, len(t.byFQN))
	for _, path := range paths {
		out = append(out, t.insertionOrder[path]...)
	}
	return out
}

// builder accumulates state across Build's single pass over all files.
type builder struct {
	table          *SymbolTable
	insertionOrder map[string][]*Symbol // keyed by file path, preserves file-then-declaration order
	anonCounter    int
}

// Build constructs the project-wide SymbolTable from every file's
// independently-parsed ParsedFile. Build never fails: unparseable
// input simply contributes no symbols, recorded as a diagnostic instead
// of aborting the whole project per spec.md §7.
func Build(files []*astmodel.ParsedFile) *SymbolTable {
	b := &builder{
		table: &SymbolTable{
			byFQN:           make(map[string]*Symbol),
			byName:          make(map[string][]*Symbol),
			functionsByName: make(map[string][]*Symbol),
			byPackage:       make(map[string][]*Symbol),
		},
		insertionOrder: make(map[string][]*Symbol),
	}

	for _, pf := range files {
		b.addFile(pf)
	}
	b.table.insertionOrder = b.insertionOrder
	b.table.hierarchy = buildHierarchy(b.table)
	return b.table
}

func (b *builder) addFile(pf *astmodel.ParsedFile) {
	if pf == nil {
		return
	}
	for i := range pf.Functions {
		b.addFunction(&pf.Functions[i], pf, "", "")
	}
	for i := range pf.Properties {
		b.addProperty(&pf.Properties[i], pf, "", "")
	}
	for i := range pf.TypeAliases {
		b.addTypeAlias(&pf.TypeAliases[i], pf, "")
	}
	for i := range pf.Classes {
		b.addClass(&pf.Classes[i], pf, "")
	}
	for i := range pf.ObjectExprs {
		b.addObjectExpression(&pf.ObjectExprs[i], pf)
	}
	for i := range pf.Destructurings {
		b.addDestructuring(&pf.Destructurings[i], pf)
	}
}

func (b *builder) addClass(c *astmodel.ParsedClass, pf *astmodel.ParsedFile, ownerFQN string) {
	fqn := qualify(pf.PackageName, ownerFQN, c.Name)
	sym := &Symbol{
		FQN: fqn, Name: c.Name, Kind: SymbolClass, Language: pf.Language,
		FilePath: pf.FilePath, PackageName: pf.PackageName, Loc: c.Loc,
		ClassKind: c.Kind, SuperClass: c.SuperClass, Interfaces: c.Interfaces, OwnerFQN: ownerFQN,
	}
	b.insert(sym, pf)

	for i := range c.Functions {
		b.addFunction(&c.Functions[i], pf, fqn, fqn)
	}
	for i := range c.SecondaryCtors {
		ctor := c.SecondaryCtors[i]
		ctor.Name = "<init>"
		b.addFunction(&ctor, pf, fqn, fqn)
	}
	for i := range c.Properties {
		b.addProperty(&c.Properties[i], pf, fqn, fqn)
	}
	for i := range c.NestedClasses {
		b.addClass(&c.NestedClasses[i], pf, fqn)
	}
	if c.CompanionObject != nil {
		// A companion nests under its outer class like any other
		// member, so its members are addressed as Outer.Companion.member.
		b.addClass(c.CompanionObject, pf, fqn)
	}
}

func (b *builder) addFunction(f *astmodel.ParsedFunction, pf *astmodel.ParsedFile, ownerFQN, enclosingFQN string) {
	name := f.Name
	if f.IsConstructor {
		name = "<init>"
	}
	fqn := qualify(pf.PackageName, ownerFQN, name)
	sym := &Symbol{
		FQN: fqn, Name: name, Kind: SymbolFunction, Language: pf.Language,
		FilePath: pf.FilePath, PackageName: pf.PackageName, Loc: f.Loc,
		Parameters: f.Parameters, ReturnType: f.ReturnType, IsExtension: f.IsExtension,
		ReceiverType: f.ReceiverType, IsConstructor: f.IsConstructor, EnclosingFQN: enclosingFQN,
		Calls: f.Calls,
	}
	if existing, ok := b.table.byFQN[fqn]; ok && existing.Kind == SymbolFunction {
		// Overload: spec.md §4.1 merges same-FQN function declarations
		// instead of letting the later one shadow the earlier.
		existing.Overloads = append(existing.Overloads, sym)
		b.table.functionsByName[name] = append(b.table.functionsByName[name], sym)
		b.table.byName[name] = append(b.table.byName[name], sym)
		return
	}
	b.insert(sym, pf)
	b.table.functionsByName[name] = append(b.table.functionsByName[name], sym)
}

func (b *builder) addProperty(p *astmodel.ParsedProperty, pf *astmodel.ParsedFile, ownerFQN, enclosingFQN string) {
	fqn := qualify(pf.PackageName, ownerFQN, p.Name)
	sym := &Symbol{
		FQN: fqn, Name: p.Name, Kind: SymbolProperty, Language: pf.Language,
		FilePath: pf.FilePath, PackageName: pf.PackageName, Loc: p.Loc,
		SurfaceType: p.SurfaceType, Immutable: p.Immutable, EnclosingFQN: enclosingFQN,
	}
	b.insert(sym, pf)
}

func (b *builder) addTypeAlias(a *astmodel.ParsedTypeAlias, pf *astmodel.ParsedFile, ownerFQN string) {
	fqn := qualify(pf.PackageName, ownerFQN, a.Name)
	sym := &Symbol{
		FQN: fqn, Name: a.Name, Kind: SymbolTypeAlias, Language: pf.Language,
		FilePath: pf.FilePath, PackageName: pf.PackageName, Loc: a.Loc,
		AliasedType: a.AliasedType,
	}
	b.insert(sym, pf)
}

// addObjectExpression assigns an anonymous object/class expression a
// synthetic FQN ("$object_N" under the file's package, N counted across
// the whole Build) so its methods are
// still addressable by the resolver even though the source names
// nothing, the same convention the teacher uses for anonymous arrow
// functions ("$arrow_N").
func (b *builder) addObjectExpression(o *astmodel.ParsedObjectExpression, pf *astmodel.ParsedFile) {
	b.anonCounter++
	name := fmt.Sprintf("$object_%d", b.anonCounter)
	fqn := qualify(pf.PackageName, "", name)
	sym := &Symbol{
		FQN: fqn, Name: name, Kind: SymbolClass, Language: pf.Language,
		FilePath: pf.FilePath, PackageName: pf.PackageName, Loc: o.Loc,
		ClassKind: astmodel.KindObject, Interfaces: o.SuperTypes,
	}
	b.insert(sym, pf)
	for i := range o.Functions {
		b.addFunction(&o.Functions[i], pf, fqn, fqn)
	}
	for i := range o.Properties {
		b.addProperty(&o.Properties[i], pf, fqn, fqn)
	}
}

// addDestructuring registers each named destructuring component as its
// own property-like symbol, scoped to the file (not the enclosing
// function) since destructured locals never escape file-local lookup.
func (b *builder) addDestructuring(d *astmodel.ParsedDestructuring, pf *astmodel.ParsedFile) {
	for i, name := range d.ComponentNames {
		if name == "" || name == "_" {
			continue
		}
		surfaceType := ""
		if i < len(d.ComponentTypes) {
			surfaceType = d.ComponentTypes[i]
		}
		fqn := qualify(pf.PackageName, "", name)
		sym := &Symbol{
			FQN: fqn, Name: name, Kind: SymbolProperty, Language: pf.Language,
			FilePath: pf.FilePath, PackageName: pf.PackageName, Loc: d.Loc,
			SurfaceType: surfaceType, Immutable: d.Immutable,
		}
		// Destructured locals are file-scoped and commonly collide in
		// name (every file might destructure an "id"); don't clobber
		// byFQN for an earlier same-named local, just extend byName.
		if _, exists := b.table.byFQN[fqn]; !exists {
			b.table.byFQN[fqn] = sym
		}
		b.table.byName[name] = append(b.table.byName[name], sym)
	}
}

// insert registers sym under every index. Per spec.md §7's taxonomy,
// a duplicate FQN is last-writer-wins: the newest declaration replaces
// the earlier one in byFQN (and so is what every FQN-keyed lookup and
// downstream call resolution sees), while the earlier symbol is left
// in place in byName/byPackage rather than evicted, so name-based
// lookups still see every declaration that ever used the FQN.
func (b *builder) insert(sym *Symbol, pf *astmodel.ParsedFile) {
	if existing, ok := b.table.byFQN[sym.FQN]; ok && existing != sym {
		b.table.Diagnostics = append(b.table.Diagnostics, astmodel.Diagnostic{
			Kind: astmodel.DiagDuplicateFQN, Path: pf.FilePath,
			Message: fmt.Sprintf("duplicate FQN %q, keeping last declaration", sym.FQN),
		})
	}
	b.table.byFQN[sym.FQN] = sym
	b.table.byName[sym.Name] = append(b.table.byName[sym.Name], sym)
	b.table.byPackage[pf.PackageName] = append(b.table.byPackage[pf.PackageName], sym)
	b.insertionOrder[pf.FilePath] = append(b.insertionOrder[pf.FilePath], sym)
}

// qualify builds a dotted FQN from a package name, an optional owner
// class FQN, and a leaf declaration name.
func qualify(packageName, ownerFQN, name string) string {
	if ownerFQN != "" {
		return ownerFQN + "." + name
	}
	if packageName != "" {
		return packageName + "." + name
	}
	return name
}
