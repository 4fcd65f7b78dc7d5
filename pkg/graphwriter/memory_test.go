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

package graphwriter

import (
	"context"
	"testing"
)

func TestMemoryWriterNodeDedup(t *testing.T) {
	w := NewMemoryWriter()
	ctx := context.Background()

	n := Node{ID: "com.example.Foo", Kind: NodeClass, Name: "Foo"}
	if err := w.WriteNode(ctx, n); err != nil {
		t.Fatal(err)
	}
	n.Name = "FooRenamed"
	if err := w.WriteNode(ctx, n); err != nil {
		t.Fatal(err)
	}

	if w.NodeCount() != 1 {
		t.Fatalf("NodeCount = %d, want 1", w.NodeCount())
	}
	if w.Nodes()[0].Name != "FooRenamed" {
		t.Fatalf("second write should win, got Name = %q", w.Nodes()[0].Name)
	}
}

func TestMemoryWriterCallsEdgeCountMerges(t *testing.T) {
	w := NewMemoryWriter()
	ctx := context.Background()

	e := Edge{Kind: EdgeCalls, From: "com.example.A.run", To: "com.example.B.help"}
	for i := 0; i < 3; i++ {
		if err := w.WriteEdge(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	if w.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1 (same kind/from/to must merge)", w.EdgeCount())
	}
	got := w.Edges()[0]
	if got.Count != 3 {
		t.Fatalf("Count = %d, want 3", got.Count)
	}
}

func TestMemoryWriterNonCallsEdgesDoNotAccumulateCount(t *testing.T) {
	w := NewMemoryWriter()
	ctx := context.Background()

	e := Edge{Kind: EdgeContains, From: "com.example", To: "com.example.Foo"}
	for i := 0; i < 2; i++ {
		if err := w.WriteEdge(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	if w.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", w.EdgeCount())
	}
	if got := w.Edges()[0].Count; got != 1 {
		t.Fatalf("CONTAINS edge Count = %d, want 1 (repeats are idempotent, not accumulated)", got)
	}
}

func TestMemoryWriterDistinctEdgeKeys(t *testing.T) {
	w := NewMemoryWriter()
	ctx := context.Background()

	_ = w.WriteEdge(ctx, Edge{Kind: EdgeCalls, From: "A", To: "B"})
	_ = w.WriteEdge(ctx, Edge{Kind: EdgeCalls, From: "A", To: "C"})
	_ = w.WriteEdge(ctx, Edge{Kind: EdgeExtends, From: "A", To: "B"})

	if w.EdgeCount() != 3 {
		t.Fatalf("EdgeCount = %d, want 3", w.EdgeCount())
	}
}

func TestMemoryWriterCloseIsIdempotent(t *testing.T) {
	w := NewMemoryWriter()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}
