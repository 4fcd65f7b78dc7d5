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
	"sync"
)

// MemoryWriter accumulates nodes and edges in memory instead of a real
// database, used by `--dry-run` and by pkg/pipeline's own tests so they
// never need a CGO-backed CozoDB to exercise the pipeline.
type MemoryWriter struct {
	mu     sync.Mutex
	nodes  map[string]Node
	edges  map[edgeKey]*Edge
	closed bool
}

type edgeKey struct {
	kind EdgeKind
	from string
	to   string
}

// NewMemoryWriter constructs an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		nodes: make(map[string]Node),
		edges: make(map[edgeKey]*Edge),
	}
}

func (w *MemoryWriter) WriteNode(_ context.Context, n Node) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nodes[n.ID] = n
	return nil
}

// WriteEdge merges repeated CALLS edges between the same pair into one,
// incrementing Count, per spec.md §6.1; every other edge kind is
// idempotent on (kind, from, to).
func (w *MemoryWriter) WriteEdge(_ context.Context, e Edge) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := edgeKey{kind: e.Kind, from: e.From, to: e.To}
	if existing, ok := w.edges[key]; ok {
		if e.Kind == EdgeCalls {
			existing.Count++
		}
		return nil
	}
	if e.Count == 0 {
		e.Count = 1
	}
	stored := e
	w.edges[key] = &stored
	return nil
}

func (w *MemoryWriter) Flush(_ context.Context) error { return nil }

func (w *MemoryWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Nodes returns every node written so far, for test assertions.
func (w *MemoryWriter) Nodes() []Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Node, 0, len(w.nodes))
	for _, n := range w.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns every edge written so far, for test assertions.
func (w *MemoryWriter) Edges() []Edge {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Edge, 0, len(w.edges))
	for _, e := range w.edges {
		out = append(out, *e)
	}
	return out
}

// NodeCount returns the number of distinct nodes written.
func (w *MemoryWriter) NodeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.nodes)
}

// EdgeCount returns the number of distinct (kind, from, to) edges
// written, not counting repeated CALLS occurrences folded into Count.
func (w *MemoryWriter) EdgeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.edges)
}
