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

package pipeline

import (
	"context"
	"fmt"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/graphwriter"
	"github.com/kraklabs/codegraph/pkg/symtab"
)

// classNodeKind maps a ParsedClass shape to the Node vocabulary.
var classNodeKind = map[astmodel.ClassKind]graphwriter.NodeKind{
	astmodel.KindClass:      graphwriter.NodeClass,
	astmodel.KindInterface:  graphwriter.NodeInterface,
	astmodel.KindObject:     graphwriter.NodeObject,
	astmodel.KindEnum:       graphwriter.NodeEnum,
	astmodel.KindAnnotation: graphwriter.NodeAnnotation,
}

// writeGraph translates every symbol table entry and resolved call into
// graphwriter nodes and edges. Packages are synthesized nodes (the
// symbol table has no package symbol of its own); everything else maps
// one-to-one off a *symtab.Symbol.
//
// unchanged, when non-nil, names source file paths whose content
// hasn't moved since the prior run's Manifest was taken (see
// manifest.go). Symbols and call sites owned by an unchanged file are
// skipped entirely - their nodes/edges are already sitting in the
// writer's backing store from the run that wrote them. A nil/empty set
// writes everything, the same as before Manifest existed.
func writeGraph(ctx context.Context, w graphwriter.Writer, table *symtab.SymbolTable, resolved []*astmodel.ResolvedFile, unchanged map[string]bool) error {
	packages := make(map[string]bool)

	for _, sym := range table.All() {
		if unchanged[sym.FilePath] {
			continue
		}

		if sym.PackageName != "" && !packages[sym.PackageName] {
			packages[sym.PackageName] = true
			if err := w.WriteNode(ctx, graphwriter.Node{
				ID:   sym.PackageName,
				Kind: graphwriter.NodePackage,
				Name: sym.PackageName,
			}); err != nil {
				return fmt.Errorf("write package node %s: %w", sym.PackageName, err)
			}
		}

		if err := writeSymbolNode(ctx, w, sym); err != nil {
			return err
		}
		if err := writeContainment(ctx, w, table, sym); err != nil {
			return err
		}
	}

	for _, rf := range resolved {
		if unchanged[rf.FilePath] {
			continue
		}
		for _, call := range rf.Calls {
			if err := w.WriteEdge(ctx, graphwriter.Edge{
				Kind: graphwriter.EdgeCalls,
				From: call.CallerFQN,
				To:   call.CalleeFQN,
			}); err != nil {
				return fmt.Errorf("write calls edge %s -> %s: %w", call.CallerFQN, call.CalleeFQN, err)
			}
		}
	}

	return nil
}

func writeSymbolNode(ctx context.Context, w graphwriter.Writer, sym *symtab.Symbol) error {
	kind := symbolNodeKind(sym)
	if kind == "" {
		return nil
	}
	return w.WriteNode(ctx, graphwriter.Node{
		ID:        sym.FQN,
		Kind:      kind,
		Name:      sym.Name,
		FilePath:  sym.FilePath,
		Language:  string(sym.Language),
		Package:   sym.PackageName,
		StartLine: sym.Loc.StartLine,
		EndLine:   sym.Loc.EndLine,
	})
}

func symbolNodeKind(sym *symtab.Symbol) graphwriter.NodeKind {
	switch sym.Kind {
	case symtab.SymbolClass:
		if kind, ok := classNodeKind[sym.ClassKind]; ok {
			return kind
		}
		return graphwriter.NodeClass
	case symtab.SymbolFunction:
		return graphwriter.NodeFunction
	case symtab.SymbolProperty:
		return graphwriter.NodeProperty
	case symtab.SymbolTypeAlias:
		return graphwriter.NodeTypeAlias
	default:
		return ""
	}
}

// writeContainment emits the structural edges a symbol implies: package
// CONTAINS class, class DECLARES member, class EXTENDS/IMPLEMENTS its
// nominally-resolved super types, and function HAS_PARAMETER its
// parameters (synthesized Parameter nodes, since params have no FQN of
// their own).
func writeContainment(ctx context.Context, w graphwriter.Writer, table *symtab.SymbolTable, sym *symtab.Symbol) error {
	switch sym.Kind {
	case symtab.SymbolClass:
		if sym.OwnerFQN == "" {
			if sym.PackageName != "" {
				if err := w.WriteEdge(ctx, graphwriter.Edge{Kind: graphwriter.EdgeContains, From: sym.PackageName, To: sym.FQN}); err != nil {
					return err
				}
			}
		} else {
			if err := w.WriteEdge(ctx, graphwriter.Edge{Kind: graphwriter.EdgeDeclares, From: sym.OwnerFQN, To: sym.FQN}); err != nil {
				return err
			}
		}
		return writeSuperTypeEdges(ctx, w, table, sym)

	case symtab.SymbolFunction, symtab.SymbolProperty, symtab.SymbolTypeAlias:
		if sym.EnclosingFQN != "" {
			if err := w.WriteEdge(ctx, graphwriter.Edge{Kind: graphwriter.EdgeDeclares, From: sym.EnclosingFQN, To: sym.FQN}); err != nil {
				return err
			}
		}
		if sym.Kind == symtab.SymbolFunction {
			return writeParameterNodes(ctx, w, sym)
		}
	}
	return nil
}

func writeSuperTypeEdges(ctx context.Context, w graphwriter.Writer, table *symtab.SymbolTable, sym *symtab.Symbol) error {
	superFQNs := table.Hierarchy().SuperTypesOf(sym.FQN)
	if len(superFQNs) == 0 {
		return nil
	}
	declaredInterfaces := make(map[string]bool, len(sym.Interfaces))
	for _, iface := range sym.Interfaces {
		declaredInterfaces[lastSegmentOf(iface)] = true
	}

	for _, superFQN := range superFQNs {
		kind := graphwriter.EdgeExtends
		if declaredInterfaces[lastSegmentOf(superFQN)] {
			kind = graphwriter.EdgeImplements
		}
		if err := w.WriteEdge(ctx, graphwriter.Edge{Kind: kind, From: sym.FQN, To: superFQN}); err != nil {
			return fmt.Errorf("write %s edge %s -> %s: %w", kind, sym.FQN, superFQN, err)
		}
	}
	return nil
}

func writeParameterNodes(ctx context.Context, w graphwriter.Writer, sym *symtab.Symbol) error {
	for i, param := range sym.Parameters {
		paramID := fmt.Sprintf("%s#%d", sym.FQN, i)
		if err := w.WriteNode(ctx, graphwriter.Node{
			ID:       paramID,
			Kind:     graphwriter.NodeParameter,
			Name:     param.Name,
			FilePath: sym.FilePath,
			Language: string(sym.Language),
		}); err != nil {
			return fmt.Errorf("write parameter node %s: %w", paramID, err)
		}
		if err := w.WriteEdge(ctx, graphwriter.Edge{Kind: graphwriter.EdgeHasParameter, From: sym.FQN, To: paramID}); err != nil {
			return fmt.Errorf("write has_parameter edge %s: %w", paramID, err)
		}
	}
	return nil
}

func lastSegmentOf(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[i+1:]
		}
	}
	return s
}
