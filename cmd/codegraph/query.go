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
	"strings"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codegraph/pkg/storage"
)

// runQuery executes the 'query' command, running a CozoScript query
// against the indexed graph.
//
// Examples:
//
//	codegraph query '?[name] := *codegraph_node{name, kind: "Function"}'
//	codegraph --data-dir ~/.codegraph/data/myproj query --limit 10 '?[name, kind] := *codegraph_node{name, kind}'
func runQuery(args []string, globals GlobalFlags, dataDirFlag string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	timeout := fs.Duration("timeout", 30*time.Second, "Query timeout")
	limit := fs.Int("limit", 0, "Add :limit to query (0 = no limit)")
	root := fs.String("root", ".", "Project root used to resolve the data directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codegraph query [options] <cozoscript>

Execute a CozoScript query against the indexed code graph.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	script := strings.Join(fs.Args(), " ")
	if *limit > 0 {
		script = fmt.Sprintf("%s :limit %d", script, *limit)
	}

	dataDir, err := projectDataDir(dataDirFlag, *root)
	if err != nil {
		logError(globals, "resolve data dir: %v", err)
		os.Exit(1)
	}

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{DataDir: dataDir})
	if err != nil {
		logError(globals, "open backend: %v", err)
		os.Exit(1)
	}
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := backend.Query(ctx, script, nil)
	if err != nil {
		logError(globals, "query failed: %v", err)
		os.Exit(1)
	}

	if globals.JSON {
		rows := make([]map[string]any, 0, len(result.Rows))
		for _, row := range result.Rows {
			entry := make(map[string]any, len(result.Headers))
			for i, header := range result.Headers {
				if i < len(row) {
					entry[header] = row[i]
				}
			}
			rows = append(rows, entry)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(rows)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Headers, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
}
