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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codegraph/pkg/storage"
)

// statusResult is the JSON-serializable shape of the 'status' command.
type statusResult struct {
	DataDir   string           `json:"data_dir"`
	Nodes     int64            `json:"nodes"`
	Edges     int64            `json:"edges"`
	ByKind    map[string]int64 `json:"by_kind"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// runStatus reports node/edge counts for an already-indexed project.
func runStatus(args []string, globals GlobalFlags, dataDirFlag string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: codegraph status [options] [path]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	dataDir, err := projectDataDir(dataDirFlag, root)
	if err != nil {
		emitStatusError(globals, statusResult{Timestamp: time.Now()}, fmt.Errorf("resolve data dir: %w", err))
		return
	}

	result := statusResult{DataDir: dataDir, ByKind: map[string]int64{}, Timestamp: time.Now()}

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{DataDir: dataDir})
	if err != nil {
		emitStatusError(globals, result, fmt.Errorf("open backend: %w", err))
		return
	}
	defer backend.Close()

	ctx := context.Background()

	if rows, err := backend.Query(ctx, `?[count(id)] := *codegraph_node{id}`, nil); err == nil && len(rows.Rows) > 0 {
		result.Nodes = toInt64(rows.Rows[0][0])
	}
	if rows, err := backend.Query(ctx, `?[count(kind)] := *codegraph_edge{kind}`, nil); err == nil && len(rows.Rows) > 0 {
		result.Edges = toInt64(rows.Rows[0][0])
	}
	if rows, err := backend.Query(ctx, `?[kind, count(id)] := *codegraph_node{id, kind}`, nil); err == nil {
		for _, row := range rows.Rows {
			if len(row) == 2 {
				if kind, ok := row[0].(string); ok {
					result.ByKind[kind] = toInt64(row[1])
				}
			}
		}
	}

	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	fmt.Printf("data dir: %s\n", result.DataDir)
	fmt.Printf("nodes:    %d\n", result.Nodes)
	fmt.Printf("edges:    %d\n", result.Edges)
	for kind, count := range result.ByKind {
		fmt.Printf("  %-12s %d\n", kind, count)
	}
}

func emitStatusError(globals GlobalFlags, result statusResult, err error) {
	result.Error = err.Error()
	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		os.Exit(1)
	}
	logError(globals, "%v", err)
	os.Exit(1)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
