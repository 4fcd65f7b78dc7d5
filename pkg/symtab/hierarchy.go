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

import "github.com/kraklabs/codegraph/pkg/astmodel"

// Hierarchy is the class-extends/implements graph, used by the
// resolver's current-class and member-of-type steps to find inherited
// members, and by pkg/pipeline to emit EXTENDS/IMPLEMENTS edges.
//
// Resolution is nominal: a class's SuperClass/Interfaces surface
// strings are matched by simple name against known class symbols in
// scope. TypeScript's structural interfaces (a class satisfies an
// interface merely by having a matching method/property shape, with no
// `implements` clause at all) can never be caught this way, so
// Hierarchy also keeps a structural index built the way the teacher's
// implementsIndex matched Go receiver-method sets against
// interface-declared methods. That index is exposed through
// StructuralImplementers; no resolver step consults it.
type Hierarchy struct {
	// supertypesOf: class FQN -> FQNs of declared super types (nominal).
	supertypesOf map[string][]string
	// subtypesOf: class FQN -> FQNs of classes declaring it as a super type.
	subtypesOf map[string][]string
	// structuralImplementers: interface FQN -> FQNs of classes whose
	// method/property names are a superset of the interface's, used
	// only for TypeScript structural typing.
	structuralImplementers map[string][]string
}

// SuperTypesOf returns the FQNs of fqn's declared super classes and
// interfaces, resolved nominally.
func (h *Hierarchy) SuperTypesOf(fqn string) []string { return h.supertypesOf[fqn] }

// SubTypesOf returns the FQNs of every class declaring fqn as a super
// type, the reverse of SuperTypesOf.
func (h *Hierarchy) SubTypesOf(fqn string) []string { return h.subtypesOf[fqn] }

// StructuralImplementers returns classes whose shape satisfies the
// named TypeScript interface without a nominal `implements` clause.
func (h *Hierarchy) StructuralImplementers(interfaceFQN string) []string {
	return h.structuralImplementers[interfaceFQN]
}

func buildHierarchy(t *SymbolTable) *Hierarchy {
	h := &Hierarchy{
		supertypesOf:           make(map[string][]string),
		subtypesOf:             make(map[string][]string),
		structuralImplementers: make(map[string][]string),
	}

	var classes []*Symbol
	for _, sym := range t.byFQN {
		if sym.Kind == SymbolClass {
			classes = append(classes, sym)
		}
	}

	for _, cls := range classes {
		var supers []string
		if cls.SuperClass != "" {
			if target := resolveNominal(t, cls, cls.SuperClass); target != "" {
				supers = append(supers, target)
			}
		}
		for _, iface := range cls.Interfaces {
			if target := resolveNominal(t, cls, iface); target != "" {
				supers = append(supers, target)
			}
		}
		if len(supers) == 0 {
			continue
		}
		h.supertypesOf[cls.FQN] = supers
		for _, superFQN := range supers {
			h.subtypesOf[superFQN] = append(h.subtypesOf[superFQN], cls.FQN)
		}
	}

	buildStructuralIndex(t, classes, h)
	return h
}

// resolveNominal matches a surface super-type string (e.g. "BaseRepo"
// or "com.acme.BaseRepo") against known class symbols, preferring a
// class in the same package before falling back to any same-named
// class project-wide.
func resolveNominal(t *SymbolTable, from *Symbol, surface string) string {
	name := lastSegment(stripGenerics(surface))
	if sym, ok := t.ByFQN(from.PackageName + "." + name); ok && sym.Kind == SymbolClass {
		return sym.FQN
	}
	for _, sym := range t.ByName(name) {
		if sym.Kind == SymbolClass {
			return sym.FQN
		}
	}
	return ""
}

// buildStructuralIndex matches every TypeScript interface against
// every class with no nominal relationship to it, the generalized
// analogue of the teacher's Go-receiver-method-set matching: there a
// concrete type's methods (named "Type.Method") were compared against
// an interface's declared method names; here a class's declared
// function and property names are compared the same way.
func buildStructuralIndex(t *SymbolTable, classes []*Symbol, h *Hierarchy) {
	interfaces := make([]*Symbol, 0)
	for _, cls := range classes {
		if cls.Language == astmodel.TypeScript && cls.ClassKind == astmodel.KindInterface {
			interfaces = append(interfaces, cls)
		}
	}
	if len(interfaces) == 0 {
		return
	}

	memberNames := make(map[string]map[string]bool, len(classes))
	for _, cls := range classes {
		names := make(map[string]bool)
		for _, sym := range t.All() {
			if sym.EnclosingFQN == cls.FQN {
				names[sym.Name] = true
			}
		}
		memberNames[cls.FQN] = names
	}

	for _, iface := range interfaces {
		required := memberNames[iface.FQN]
		if len(required) == 0 {
			continue
		}
		for _, cls := range classes {
			if cls.FQN == iface.FQN || cls.ClassKind == astmodel.KindInterface {
				continue
			}
			if alreadyNominal(h, cls.FQN, iface.FQN) {
				continue
			}
			if hasAllMembers(memberNames[cls.FQN], required) {
				h.structuralImplementers[iface.FQN] = append(h.structuralImplementers[iface.FQN], cls.FQN)
			}
		}
	}
}

func alreadyNominal(h *Hierarchy, classFQN, ifaceFQN string) bool {
	for _, s := range h.supertypesOf[classFQN] {
		if s == ifaceFQN {
			return true
		}
	}
	return false
}

func hasAllMembers(have, want map[string]bool) bool {
	if have == nil {
		return false
	}
	for name := range want {
		if !have[name] {
			return false
		}
	}
	return true
}

func lastSegment(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[i+1:]
		}
	}
	return s
}

// stripGenerics drops a trailing `<...>` type-argument list so
// "Repository<User>" resolves against the class named "Repository".
func stripGenerics(s string) string {
	if idx := indexByte(s, '<'); idx != -1 {
		return s[:idx]
	}
	return s
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
