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

// Package main implements the codegraph CLI for extracting a structural
// code graph from a Kotlin/Java/TypeScript/JavaScript project.
//
// Usage:
//
//	codegraph index [path]          Extract the graph and persist it
//	codegraph [--json] status       Show graph node/edge counts
//	codegraph query <script>        Execute a CozoScript query
//	codegraph watch [path]          Re-index on file changes
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the flags that apply to every subcommand.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Verbose int
	Quiet   bool
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		dataDir     = flag.String("data-dir", "", "Override the CozoDB data directory (default: ~/.codegraph/data/<project>)")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)

	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `codegraph - structural code graph extractor

Walks a Kotlin/Java/TypeScript/JavaScript project, extracts symbols and
call sites, resolves calls against a project-wide symbol table, and
persists the result as a property graph.

Usage:
  codegraph <command> [options]

Commands:
  index    Extract the graph for one or more project roots
  status   Show graph node/edge counts for an already-indexed project
  query    Execute a CozoScript query against the graph
  watch    Re-run index whenever a watched file changes

Global Options:
  --json          Output in JSON format (for applicable commands)
  --no-color      Disable color output (respects NO_COLOR env var)
  --data-dir      Override the CozoDB data directory
  -v, --verbose   Increase verbosity (-v for info, -vv for debug)
  -q, --quiet     Suppress non-essential output
  -V, --version   Show version and exit

Examples:
  codegraph index .
  codegraph --json index ./services/payments
  codegraph --json status
  codegraph query "?[name] := *codegraph_node{name, kind: \"Function\"}"
  codegraph watch .
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("codegraph version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	if *quiet && *verbose > 0 {
		fmt.Fprintln(os.Stderr, "Error: cannot use --quiet and --verbose together")
		os.Exit(1)
	}
	if *jsonOutput {
		*quiet = true
	}

	color.NoColor = *noColor || !isatty.IsTerminal(os.Stdout.Fd())

	globals := GlobalFlags{
		JSON:    *jsonOutput,
		NoColor: *noColor,
		Verbose: *verbose,
		Quiet:   *quiet,
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]

	switch command {
	case "index":
		runIndex(cmdArgs, globals, *dataDir)
	case "status":
		runStatus(cmdArgs, globals, *dataDir)
	case "query":
		runQuery(cmdArgs, globals, *dataDir)
	case "watch":
		runWatch(cmdArgs, globals, *dataDir)
	default:
		fmt.Fprintf(os.Stderr, "codegraph: unknown command %q\n\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func logInfo(globals GlobalFlags, format string, args ...interface{}) {
	if !globals.Quiet && globals.Verbose >= 1 {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

func logError(globals GlobalFlags, format string, args ...interface{}) {
	if !globals.Quiet {
		fmt.Fprintf(os.Stderr, color.RedString("[ERROR] "+format), args...)
		fmt.Fprintln(os.Stderr)
	}
}
