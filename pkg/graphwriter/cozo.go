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

	"github.com/kraklabs/codegraph/pkg/storage"
)

// batchSize caps how many rows one :put statement carries, keeping a
// single CozoScript call from growing unbounded on a large project.
const batchSize = 500

// CozoWriter batches node/edge writes and flushes them into CozoDB as
// parameterized `:put` statements against the schema storage.EmbeddedBackend
// creates. Repeated CALLS edges between the same pair are folded into
// one row with an incrementing count before they ever reach the database.
type CozoWriter struct {
	backend storage.Backend

	mu    sync.Mutex
	nodes map[string]Node
	edges map[edgeKey]*Edge
}

// NewCozoWriter wraps an already-open backend with EnsureSchema already
// having been called.
func NewCozoWriter(backend storage.Backend) *CozoWriter {
	return &CozoWriter{
		backend: backend,
		nodes:   make(map[string]Node),
		edges:   make(map[edgeKey]*Edge),
	}
}

func (w *CozoWriter) WriteNode(_ context.Context, n Node) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nodes[n.ID] = n
	return nil
}

func (w *CozoWriter) WriteEdge(_ context.Context, e Edge) error {
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

// Flush writes every buffered node and edge to the backend in batches,
// then clears the buffers so a subsequent Flush is a no-op until more
// writes arrive.
func (w *CozoWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	nodes := make([]Node, 0, len(w.nodes))
	for _, n := range w.nodes {
		nodes = append(nodes, n)
	}
	edges := make([]Edge, 0, len(w.edges))
	for _, e := range w.edges {
		edges = append(edges, *e)
	}
	w.nodes = make(map[string]Node)
	w.edges = make(map[edgeKey]*Edge)
	w.mu.Unlock()

	if err := w.flushNodes(ctx, nodes); err != nil {
		return err
	}
	return w.flushEdges(ctx, edges)
}

func (w *CozoWriter) flushNodes(ctx context.Context, nodes []Node) error {
	const script = `?[id, kind, name, file_path, language, package, start_line, end_line] <- $rows
		:put codegraph_node { id => kind, name, file_path, language, package, start_line, end_line }`

	for start := 0; start < len(nodes); start += batchSize {
		end := start + batchSize
		if end > len(nodes) {
			end = len(nodes)
		}
		rows := make([][]any, 0, end-start)
		for _, n := range nodes[start:end] {
			rows = append(rows, []any{n.ID, string(n.Kind), n.Name, n.FilePath, n.Language, n.Package, n.StartLine, n.EndLine})
		}
		if err := w.backend.Execute(ctx, script, map[string]any{"rows": rows}); err != nil {
			return err
		}
	}
	return nil
}

func (w *CozoWriter) flushEdges(ctx context.Context, edges []Edge) error {
	const script = `?[kind, from_id, to_id, count] <- $rows
		:put codegraph_edge { kind, from_id, to_id => count }`

	for start := 0; start < len(edges); start += batchSize {
		end := start + batchSize
		if end > len(edges) {
			end = len(edges)
		}
		rows := make([][]any, 0, end-start)
		for _, e := range edges[start:end] {
			rows = append(rows, []any{string(e.Kind), e.From, e.To, e.Count})
		}
		if err := w.backend.Execute(ctx, script, map[string]any{"rows": rows}); err != nil {
			return err
		}
	}
	return nil
}

// Close leaves the backend open: one backend is shared by every writer
// built on it, and whoever opened it closes it.
func (w *CozoWriter) Close() error {
	return nil
}
