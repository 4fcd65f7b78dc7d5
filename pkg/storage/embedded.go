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

// Package storage wraps an embedded CozoDB instance behind a narrow
// Backend interface, the thing pkg/graphwriter's CozoWriter depends on
// instead of pkg/cozodb directly, so the CGO binding stays reachable
// from exactly one place in the tree.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cozo "github.com/kraklabs/codegraph/pkg/cozodb"
)

// QueryResult mirrors cozo.NamedRows without leaking the cozodb package
// to callers of Backend.
type QueryResult struct {
	Headers []string
	Rows    [][]any
}

// Backend is the narrow read/write/close surface graphwriter needs.
type Backend interface {
	Query(ctx context.Context, script string, params map[string]any) (*QueryResult, error)
	Execute(ctx context.Context, script string, params map[string]any) error
	Close() error
}

// EmbeddedBackend implements Backend using a local CozoDB instance.
type EmbeddedBackend struct {
	db     *cozo.CozoDB
	mu     sync.RWMutex
	closed bool
}

// EmbeddedConfig configures the embedded backend.
type EmbeddedConfig struct {
	// DataDir is the directory where CozoDB stores its data. Defaults
	// to ~/.codegraph/data/<project_id>.
	DataDir string

	// Engine is the CozoDB storage engine: "rocksdb", "sqlite", or "mem".
	// Defaults to "rocksdb" for persistence.
	Engine string

	// ProjectID namespaces the data directory.
	ProjectID string
}

// NewEmbeddedBackend creates a new embedded CozoDB backend.
func NewEmbeddedBackend(config EmbeddedConfig) (*EmbeddedBackend, error) {
	if config.Engine == "" {
		config.Engine = "rocksdb"
	}
	if config.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		config.DataDir = filepath.Join(homeDir, ".codegraph", "data")
		if config.ProjectID != "" {
			config.DataDir = filepath.Join(config.DataDir, config.ProjectID)
		}
	}

	if config.Engine != "mem" {
		if err := os.MkdirAll(config.DataDir, 0750); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := cozo.New(config.Engine, config.DataDir, nil)
	if err != nil {
		return nil, fmt.Errorf("open cozodb: %w", err)
	}

	return &EmbeddedBackend{db: &db}, nil
}

// Query executes a read-only CozoScript query.
func (b *EmbeddedBackend) Query(ctx context.Context, script string, params map[string]any) (*QueryResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("backend is closed")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := b.db.RunReadOnly(script, params)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &QueryResult{Headers: result.Headers, Rows: result.Rows}, nil
}

// Execute runs a CozoScript mutation.
func (b *EmbeddedBackend) Execute(ctx context.Context, script string, params map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("backend is closed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if _, err := b.db.Run(script, params); err != nil {
		return fmt.Errorf("execute failed: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (b *EmbeddedBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.db.Close()
	return nil
}

// EnsureSchema creates the graph tables if they don't exist. Idempotent.
func (b *EmbeddedBackend) EnsureSchema() error {
	tables := []string{
		`:create codegraph_node { id: String => kind: String, name: String, file_path: String, language: String, package: String, start_line: Int default 0, end_line: Int default 0 }`,
		`:create codegraph_edge { kind: String, from_id: String, to_id: String => count: Int default 1 }`,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, table := range tables {
		if _, err := b.db.Run(table, nil); err != nil {
			errStr := err.Error()
			if strings.Contains(errStr, "already exists") || strings.Contains(errStr, "conflicts with an existing one") {
				continue
			}
			return fmt.Errorf("create table failed: %w", err)
		}
	}
	return nil
}
