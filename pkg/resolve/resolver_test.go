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
	"testing"
	"time"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/symtab"
)

// findCall returns the single resolved call whose caller FQN matches, or
// fails the test if there isn't exactly one.
func findCall(t *testing.T, resolved []*astmodel.ResolvedFile, callerFQN string) astmodel.ResolvedCall {
	t.Helper()
	var matches []astmodel.ResolvedCall
	for _, rf := range resolved {
		for _, c := range rf.Calls {
			if c.CallerFQN == callerFQN {
				matches = append(matches, c)
			}
		}
	}
	if len(matches) != 1 {
		t.Fatalf("caller %q: got %d resolved calls, want 1 (%v)", callerFQN, len(matches), matches)
	}
	return matches[0]
}

// TestResolveInheritedMethodCall is S1: a subclass method calling an
// implicit-this method declared only on its base class must resolve up
// the hierarchy via resolveCurrentClassMethod.
func TestResolveInheritedMethodCall(t *testing.T) {
	base := &astmodel.ParsedFile{
		FilePath: "Base.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "BaseService", Kind: astmodel.KindClass,
			Functions: []astmodel.ParsedFunction{{
				Name: "log", Parameters: []astmodel.ParsedParameter{{Name: "msg", SurfaceType: "String"}},
			}},
		}},
	}
	sub := &astmodel.ParsedFile{
		FilePath: "User.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "UserService", Kind: astmodel.KindClass, SuperClass: "BaseService",
			Functions: []astmodel.ParsedFunction{{
				Name: "process",
				Calls: []astmodel.ParsedCall{{Name: "log", ArgumentCount: 1, Loc: astmodel.SourceLocation{FilePath: "User.kt"}}},
			}},
		}},
	}

	table := symtab.Build([]*astmodel.ParsedFile{base, sub})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{base, sub})

	call := findCall(t, resolved, "com.example.UserService.process")
	if call.CalleeFQN != "com.example.BaseService.log" {
		t.Fatalf("CalleeFQN = %q, want com.example.BaseService.log", call.CalleeFQN)
	}
	if call.Strategy != astmodel.StrategyCurrentClass {
		t.Fatalf("Strategy = %q, want %q", call.Strategy, astmodel.StrategyCurrentClass)
	}
}

// TestResolveConstructorVsFunction is S2: a constructor call must not be
// confused with a same-named top-level function.
func TestResolveConstructorVsFunction(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "User.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "User", Kind: astmodel.KindClass,
			Functions: []astmodel.ParsedFunction{{
				Name: "User", IsConstructor: true,
				Parameters: []astmodel.ParsedParameter{{Name: "name", SurfaceType: "String"}},
			}},
		}},
		Functions: []astmodel.ParsedFunction{
			{Name: "user", ReturnType: "String"},
			{
				Name: "test",
				Calls: []astmodel.ParsedCall{
					{Name: "User", IsConstructorCall: true, ArgumentCount: 1, Loc: astmodel.SourceLocation{FilePath: "User.kt"}},
					{Name: "user", ArgumentCount: 0, Loc: astmodel.SourceLocation{FilePath: "User.kt"}},
				},
			},
		},
	}

	table := symtab.Build([]*astmodel.ParsedFile{pf})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})

	var gotCtor, gotFn bool
	for _, rf := range resolved {
		for _, c := range rf.Calls {
			if c.CallerFQN != "com.example.test" {
				continue
			}
			switch c.CalleeFQN {
			case "com.example.User.<init>":
				gotCtor = true
				if c.Strategy != astmodel.StrategyConstructorCall {
					t.Fatalf("constructor call strategy = %q, want %q", c.Strategy, astmodel.StrategyConstructorCall)
				}
			case "com.example.user":
				gotFn = true
				if c.Strategy != astmodel.StrategySamePackage {
					t.Fatalf("function call strategy = %q, want %q", c.Strategy, astmodel.StrategySamePackage)
				}
			}
		}
	}
	if !gotCtor {
		t.Fatal("constructor call to com.example.User.<init> not resolved")
	}
	if !gotFn {
		t.Fatal("function call to com.example.user not resolved")
	}
}

// TestResolveConstructorCallWithoutFlag covers the Kotlin path of S2:
// no `new` keyword means the extractor never sets IsConstructorCall, so
// resolveConstructorCall must also catch an unqualified, upper-case-
// named call with no same-named function in scope.
func TestResolveConstructorCallWithoutFlag(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "User.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "User", Kind: astmodel.KindClass,
			Functions: []astmodel.ParsedFunction{{
				Name: "User", IsConstructor: true,
				Parameters: []astmodel.ParsedParameter{{Name: "name", SurfaceType: "String"}},
			}},
		}},
		Functions: []astmodel.ParsedFunction{{
			Name: "test",
			Calls: []astmodel.ParsedCall{
				{Name: "User", ArgumentCount: 1, Loc: astmodel.SourceLocation{FilePath: "User.kt"}},
			},
		}},
	}

	table := symtab.Build([]*astmodel.ParsedFile{pf})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})

	call := findCall(t, resolved, "com.example.test")
	if call.CalleeFQN != "com.example.User.<init>" {
		t.Fatalf("CalleeFQN = %q, want com.example.User.<init>", call.CalleeFQN)
	}
	if call.Strategy != astmodel.StrategyConstructorCall {
		t.Fatalf("Strategy = %q, want %q", call.Strategy, astmodel.StrategyConstructorCall)
	}
}

// TestResolveConstructorHeuristicYieldsToSameNameFunction covers the
// heuristic's guard: an upper-case call name that also names a real
// function must not be misread as a constructor.
func TestResolveConstructorHeuristicYieldsToSameNameFunction(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Shape.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Functions: []astmodel.ParsedFunction{
			{Name: "Shape", ReturnType: "String"},
			{
				Name: "test",
				Calls: []astmodel.ParsedCall{
					{Name: "Shape", ArgumentCount: 0, Loc: astmodel.SourceLocation{FilePath: "Shape.kt"}},
				},
			},
		},
	}

	table := symtab.Build([]*astmodel.ParsedFile{pf})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})

	call := findCall(t, resolved, "com.example.test")
	if call.CalleeFQN != "com.example.Shape" {
		t.Fatalf("CalleeFQN = %q, want com.example.Shape", call.CalleeFQN)
	}
	if call.Strategy != astmodel.StrategySamePackage {
		t.Fatalf("Strategy = %q, want %q (should not take the constructor heuristic)", call.Strategy, astmodel.StrategySamePackage)
	}
}

// TestResolveOverloadByArity is S3: three same-named methods distinguished
// only by arity must all resolve to the same merged FQN.
func TestResolveOverloadByArity(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Calc.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{
			{
				Name: "Calculator", Kind: astmodel.KindClass,
				Functions: []astmodel.ParsedFunction{
					{Name: "add", Parameters: []astmodel.ParsedParameter{{Name: "a", SurfaceType: "Int"}}},
					{Name: "add", Parameters: []astmodel.ParsedParameter{{Name: "a", SurfaceType: "Int"}, {Name: "b", SurfaceType: "Int"}}},
					{Name: "add", Parameters: []astmodel.ParsedParameter{{Name: "a", SurfaceType: "Int"}, {Name: "b", SurfaceType: "Int"}, {Name: "c", SurfaceType: "Int"}}},
				},
			},
			{
				Name: "Client", Kind: astmodel.KindClass,
				Properties: []astmodel.ParsedProperty{{Name: "calc", SurfaceType: "Calculator"}},
				Functions: []astmodel.ParsedFunction{{
					Name: "run",
					Calls: []astmodel.ParsedCall{
						{Name: "add", Receiver: "calc", ArgumentCount: 1, Loc: astmodel.SourceLocation{FilePath: "Calc.kt"}},
						{Name: "add", Receiver: "calc", ArgumentCount: 2, Loc: astmodel.SourceLocation{FilePath: "Calc.kt"}},
						{Name: "add", Receiver: "calc", ArgumentCount: 3, Loc: astmodel.SourceLocation{FilePath: "Calc.kt"}},
					},
				}},
			},
		},
	}

	table := symtab.Build([]*astmodel.ParsedFile{pf})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})

	count := 0
	for _, rf := range resolved {
		for _, c := range rf.Calls {
			if c.CallerFQN != "com.example.Client.run" {
				continue
			}
			count++
			if c.CalleeFQN != "com.example.Calculator.add" {
				t.Fatalf("CalleeFQN = %q, want com.example.Calculator.add", c.CalleeFQN)
			}
			if c.Strategy != astmodel.StrategyClassProperty {
				t.Fatalf("Strategy = %q, want %q", c.Strategy, astmodel.StrategyClassProperty)
			}
		}
	}
	if count != 3 {
		t.Fatalf("resolved %d calls from Client.run, want 3", count)
	}
}

// TestResolveTypeAliasFollowThrough is S4: a parameter typed by a type
// alias must resolve member calls through to the aliased class.
func TestResolveTypeAliasFollowThrough(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Users.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{{
			Name: "UserList", Kind: astmodel.KindClass,
			Functions: []astmodel.ParsedFunction{{
				Name: "add", Parameters: []astmodel.ParsedParameter{{Name: "user", SurfaceType: "String"}},
			}},
		}},
		TypeAliases: []astmodel.ParsedTypeAlias{{Name: "Users", AliasedType: "UserList"}},
		Functions: []astmodel.ParsedFunction{{
			Name:       "process",
			Parameters: []astmodel.ParsedParameter{{Name: "users", SurfaceType: "Users"}},
			Calls: []astmodel.ParsedCall{
				{Name: "add", Receiver: "users", ArgumentCount: 1, Loc: astmodel.SourceLocation{FilePath: "Users.kt"}},
			},
		}},
	}

	table := symtab.Build([]*astmodel.ParsedFile{pf})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})

	call := findCall(t, resolved, "com.example.process")
	if call.CalleeFQN != "com.example.UserList.add" {
		t.Fatalf("CalleeFQN = %q, want com.example.UserList.add", call.CalleeFQN)
	}
	if call.Strategy != astmodel.StrategyLocalVariable {
		t.Fatalf("Strategy = %q, want %q", call.Strategy, astmodel.StrategyLocalVariable)
	}
}

// TestResolveQualifiedExternalCall is S5: a fully-dotted call against an
// object declared in another package resolves via resolveQualifiedCall.
func TestResolveQualifiedExternalCall(t *testing.T) {
	utils := &astmodel.ParsedFile{
		FilePath: "StringUtils.kt", Language: astmodel.Kotlin, PackageName: "com.example.utils",
		Classes: []astmodel.ParsedClass{{
			Name: "StringUtils", Kind: astmodel.KindObject,
			Functions: []astmodel.ParsedFunction{{
				Name: "format", Parameters: []astmodel.ParsedParameter{{Name: "s", SurfaceType: "String"}}, ReturnType: "String",
			}},
		}},
	}
	caller := &astmodel.ParsedFile{
		FilePath: "Main.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Functions: []astmodel.ParsedFunction{{
			Name: "run",
			Calls: []astmodel.ParsedCall{{
				Name: "format", Receiver: "com.example.utils.StringUtils", ArgumentCount: 1,
				Loc: astmodel.SourceLocation{FilePath: "Main.kt"},
			}},
		}},
	}

	table := symtab.Build([]*astmodel.ParsedFile{utils, caller})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{utils, caller})

	call := findCall(t, resolved, "com.example.run")
	if call.CalleeFQN != "com.example.utils.StringUtils.format" {
		t.Fatalf("CalleeFQN = %q, want com.example.utils.StringUtils.format", call.CalleeFQN)
	}
	if call.Strategy != astmodel.StrategyQualifiedCall {
		t.Fatalf("Strategy = %q, want %q", call.Strategy, astmodel.StrategyQualifiedCall)
	}
}

// TestResolveUnresolvedCallStats is S6: one resolvable call and one call
// to a name nothing declares must be split correctly between Calls and
// UnresolvedCalls, and ResolutionStats must count both.
func TestResolveUnresolvedCallStats(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "S.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{
			{Name: "H", Kind: astmodel.KindClass, Functions: []astmodel.ParsedFunction{{Name: "help"}}},
			{
				Name: "S", Kind: astmodel.KindClass,
				Properties: []astmodel.ParsedProperty{{Name: "h", SurfaceType: "H"}},
				Functions: []astmodel.ParsedFunction{{
					Name: "go",
					Calls: []astmodel.ParsedCall{
						{Name: "help", Receiver: "h", ArgumentCount: 0, Loc: astmodel.SourceLocation{FilePath: "S.kt"}},
						{Name: "unknown", ArgumentCount: 0, Loc: astmodel.SourceLocation{FilePath: "S.kt"}},
					},
				}},
			},
		},
	}

	table := symtab.Build([]*astmodel.ParsedFile{pf})
	resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})
	if len(resolved) != 1 {
		t.Fatalf("got %d resolved files, want 1", len(resolved))
	}
	stats := resolved[0].Stats
	if stats.TotalCallSites != 2 {
		t.Fatalf("TotalCallSites = %d, want 2", stats.TotalCallSites)
	}
	if stats.ResolvedCallSites != 1 {
		t.Fatalf("ResolvedCallSites = %d, want 1", stats.ResolvedCallSites)
	}
	if stats.UnresolvedCallSites != 1 {
		t.Fatalf("UnresolvedCallSites = %d, want 1", stats.UnresolvedCallSites)
	}
	if len(resolved[0].UnresolvedCalls) != 1 || resolved[0].UnresolvedCalls[0].CalleeName != "unknown" {
		t.Fatalf("UnresolvedCalls = %+v, want one entry named %q", resolved[0].UnresolvedCalls, "unknown")
	}
}

// TestResolutionIsDeterministic covers spec.md §8's determinism property:
// resolving the same input twice must produce identical output.
func TestResolutionIsDeterministic(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "S.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{
			{Name: "H", Kind: astmodel.KindClass, Functions: []astmodel.ParsedFunction{{Name: "help"}}},
			{
				Name: "S", Kind: astmodel.KindClass,
				Properties: []astmodel.ParsedProperty{{Name: "h", SurfaceType: "H"}},
				Functions: []astmodel.ParsedFunction{{
					Name: "go",
					Calls: []astmodel.ParsedCall{
						{Name: "help", Receiver: "h", ArgumentCount: 0, Loc: astmodel.SourceLocation{FilePath: "S.kt"}},
					},
				}},
			},
		},
	}

	run := func() string {
		table := symtab.Build([]*astmodel.ParsedFile{pf})
		resolved := New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})
		return findCall(t, resolved, "com.example.S.go").CalleeFQN
	}

	first := run()
	second := run()
	if first != second {
		t.Fatalf("resolution not deterministic: %q then %q", first, second)
	}
	if first != "com.example.H.help" {
		t.Fatalf("CalleeFQN = %q, want com.example.H.help", first)
	}
}

// TestHierarchyHasNoCycle covers spec.md §8's hierarchy-acyclicity
// property: a class declaring itself as its own ancestor (directly or
// transitively) must never send SuperTypesOf into an infinite chain, and
// resolveCurrentClassMethod's BFS must still terminate and miss cleanly.
func TestHierarchyHasNoCycle(t *testing.T) {
	pf := &astmodel.ParsedFile{
		FilePath: "Cyc.kt", Language: astmodel.Kotlin, PackageName: "com.example",
		Classes: []astmodel.ParsedClass{
			{Name: "A", Kind: astmodel.KindClass, SuperClass: "B", Functions: []astmodel.ParsedFunction{{
				Name: "loop",
				Calls: []astmodel.ParsedCall{{Name: "missing", Loc: astmodel.SourceLocation{FilePath: "Cyc.kt"}}},
			}}},
			{Name: "B", Kind: astmodel.KindClass, SuperClass: "A"},
		},
	}

	table := symtab.Build([]*astmodel.ParsedFile{pf})
	done := make(chan []*astmodel.ResolvedFile, 1)
	go func() {
		done <- New(table, nil).ResolveAll([]*astmodel.ParsedFile{pf})
	}()
	select {
	case resolved := <-done:
		if resolved[0].Stats.UnresolvedCallSites != 1 {
			t.Fatalf("UnresolvedCallSites = %d, want 1", resolved[0].Stats.UnresolvedCallSites)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ResolveAll did not terminate on a cyclic hierarchy")
	}
}
