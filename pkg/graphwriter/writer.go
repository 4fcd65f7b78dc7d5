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

// Package graphwriter defines the property-graph vocabulary the
// pipeline persists to, and two implementations of it: a CozoDB-backed
// writer for real runs and an in-memory one for dry-run/tests. Nothing
// upstream of this package ever imports a storage library directly —
// graph persistence is an external collaborator, not core pipeline
// logic.
package graphwriter

import "context"

// NodeKind enumerates the entity vocabulary the graph stores.
type NodeKind string

const (
	NodePackage    NodeKind = "Package"
	NodeClass      NodeKind = "Class"
	NodeInterface  NodeKind = "Interface"
	NodeObject     NodeKind = "Object"
	NodeEnum       NodeKind = "Enum"
	NodeAnnotation NodeKind = "Annotation"
	NodeFunction   NodeKind = "Function"
	NodeProperty   NodeKind = "Property"
	NodeParameter  NodeKind = "Parameter"
	NodeTypeAlias  NodeKind = "TypeAlias"
)

// EdgeKind enumerates the relationship vocabulary the graph stores.
type EdgeKind string

const (
	EdgeContains       EdgeKind = "CONTAINS"
	EdgeDeclares       EdgeKind = "DECLARES"
	EdgeExtends        EdgeKind = "EXTENDS"
	EdgeImplements     EdgeKind = "IMPLEMENTS"
	EdgeHasParameter   EdgeKind = "HAS_PARAMETER"
	EdgeAnnotatedWith  EdgeKind = "ANNOTATED_WITH"
	EdgeCalls          EdgeKind = "CALLS"
)

// Node is one graph vertex. ID is the FQN for every kind except
// Parameter (which has no FQN of its own: ID is "<ownerFQN>#<index>").
type Node struct {
	ID       string
	Kind     NodeKind
	Name     string
	FilePath string
	Language string
	Package  string
	StartLine int
	EndLine   int
}

// Edge is one graph relationship. Count is only meaningful for CALLS,
// per spec.md §6.1: repeated call sites between the same two functions
// increment the edge's count rather than duplicating the edge.
type Edge struct {
	Kind EdgeKind
	From string
	To   string
	Count int
}

// Writer is the persistence seam. A pipeline run opens one, calls
// WriteNode/WriteEdge for everything stage A-C produced, then Flush
// before Close.
type Writer interface {
	WriteNode(ctx context.Context, n Node) error
	WriteEdge(ctx context.Context, e Edge) error
	Flush(ctx context.Context) error
	Close() error
}
