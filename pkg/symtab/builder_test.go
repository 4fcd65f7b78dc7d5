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
	"testing"

	"github.com/kraklabs/codegraph/pkg/astmodel"
)

func TestQualifyRules(t *testing.T) {
	cases := []struct {
		pkg, owner, name, want string
	}{
		{"com.example", "com.example.Foo", "bar", "com.example.Foo.bar"},
		{"com.example", "", "bar", "com.example.bar"},
		{"", "", "bar", "bar"},
	}
	for _, c := range cases {
		if got := qualify(c.pkg, c.owner, c.name); got != c.want {
			t.Errorf("qualify(%q, %q, %q) = %q, want %q", c.pkg, c.owner, c.name, got, c.want)
		}
	}
}

func TestBuildNestedClassFQN(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Outer.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "Outer", Kind: astmodel.KindClass,
			NestedClasses: []astmodel.ParsedClass{{
				Name: "Inner", Kind: astmodel.KindClass,
				Functions: []astmodel.ParsedFunction{{Name: "run"}},
			}},
		}},
	}
	table := Build([]*astmodel.ParsedFile{pf})

	if _, ok := table.ByFQN("com.example.Outer.Inner"); !ok {
		t.Fatal("nested class FQN com.example.Outer.Inner not found")
	}
	if sym, ok := table.ByFQN("com.example.Outer.Inner.run"); !ok {
		t.Fatal("nested class method FQN com.example.Outer.Inner.run not found")
	} else if sym.EnclosingFQN != "com.example.Outer.Inner" {
		t.Errorf("EnclosingFQN = %q, want com.example.Outer.Inner", sym.EnclosingFQN)
	}
}

// TestBuildCompanionSharesOuterFQN covers the documented convention that
// a companion object nests under its outer class's FQN, so its members
// are addressed as Outer.Companion.member rather than hoisted onto the
// outer class itself.
func TestBuildCompanionSharesOuterFQN(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Factory.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "Factory", Kind: astmodel.KindClass,
			CompanionObject: &astmodel.ParsedClass{
				Name: "Companion", Kind: astmodel.KindObject,
				Functions: []astmodel.ParsedFunction{{Name: "create"}},
			},
		}},
	}
	table := Build([]*astmodel.ParsedFile{pf})

	if _, ok := table.ByFQN("com.example.Factory.Companion.create"); !ok {
		t.Fatal("companion method should nest under the outer class FQN: com.example.Factory.Companion.create not found")
	}
	if _, ok := table.ByFQN("com.example.Factory.create"); ok {
		t.Fatal("companion members must not be hoisted onto the outer class")
	}
}

// TestBuildOverloadsMerge covers spec.md §4.1: same-FQN function
// declarations merge into one symbol's Overloads rather than producing
// separate byFQN entries, and the earlier declaration's FQN wins.
func TestBuildOverloadsMerge(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Calc.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "Calculator", Kind: astmodel.KindClass,
			Functions: []astmodel.ParsedFunction{
				{Name: "add", Parameters: []astmodel.ParsedParameter{{Name: "a", SurfaceType: "Int"}}},
				{Name: "add", Parameters: []astmodel.ParsedParameter{{Name: "a", SurfaceType: "Int"}, {Name: "b", SurfaceType: "Int"}}},
			},
		}},
	}
	table := Build([]*astmodel.ParsedFile{pf})

	sym, ok := table.ByFQN("com.example.Calculator.add")
	if !ok {
		t.Fatal("com.example.Calculator.add not found")
	}
	if len(sym.Overloads) != 1 {
		t.Fatalf("Overloads = %d, want 1", len(sym.Overloads))
	}
	if len(sym.Parameters) != 1 {
		t.Fatalf("first-declared symbol has %d parameters, want 1", len(sym.Parameters))
	}
	if len(sym.Overloads[0].Parameters) != 2 {
		t.Fatalf("merged overload has %d parameters, want 2", len(sym.Overloads[0].Parameters))
	}
}

// TestBuildDuplicateFQNLastWriterWins covers spec.md §7's DuplicateFQN
// case for non-function collisions: the last declaration wins in
// byFQN and a diagnostic is recorded, rather than the table silently
// losing data or panicking. The earlier declaration is still reachable
// by name, just no longer the one an FQN lookup returns.
func TestBuildDuplicateFQNLastWriterWins(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Dup.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{
			{Name: "Widget", Kind: astmodel.KindClass, Loc: astmodel.SourceLocation{StartLine: 1}},
			{Name: "Widget", Kind: astmodel.KindClass, Loc: astmodel.SourceLocation{StartLine: 50}},
		},
	}
	table := Build([]*astmodel.ParsedFile{pf})

	sym, ok := table.ByFQN("com.example.Widget")
	if !ok {
		t.Fatal("com.example.Widget not found")
	}
	if sym.Loc.StartLine != 50 {
		t.Errorf("kept symbol StartLine = %d, want 50 (last declaration)", sym.Loc.StartLine)
	}
	named := table.ByName("Widget")
	if len(named) != 2 {
		t.Fatalf("ByName(Widget) = %d symbols, want 2 (both declarations still listed)", len(named))
	}
	found := false
	for _, d := range table.Diagnostics {
		if d.Kind == astmodel.DiagDuplicateFQN {
			found = true
		}
	}
	if !found {
		t.Error("expected a DiagDuplicateFQN diagnostic")
	}
}

// TestBuildDestructuringSkipsUnderscore covers the "_" skip-marker and
// registers every named component as a lookup-by-name target.
func TestBuildDestructuringSkipsUnderscore(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Main.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Destructurings: []astmodel.ParsedDestructuring{{
			ComponentNames: []string{"first", "_", "third"},
			ComponentTypes: []string{"String", "", "Int"},
		}},
	}
	table := Build([]*astmodel.ParsedFile{pf})

	if len(table.ByName("first")) != 1 {
		t.Error("destructured component 'first' not registered")
	}
	if len(table.ByName("third")) != 1 {
		t.Error("destructured component 'third' not registered")
	}
	if len(table.ByName("_")) != 0 {
		t.Error("'_' skip marker must not be registered as a symbol")
	}
}

// TestBuildInsertionOrderPreserved covers spec.md §8's source-order
// property: All() must return symbols from the same file in declaration
// order.
func TestBuildInsertionOrderPreserved(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Order.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Functions: []astmodel.ParsedFunction{{Name: "first"}, {Name: "second"}, {Name: "third"}},
	}
	table := Build([]*astmodel.ParsedFile{pf})

	var names []string
	for _, sym := range table.All() {
		names = append(names, sym.Name)
	}
	want := []string{"first", "second", "third"}
	if len(names) != len(want) {
		t.Fatalf("got %d symbols, want %d", len(names), len(want))
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("position %d = %q, want %q", i, names[i], n)
		}
	}
}
