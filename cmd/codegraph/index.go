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
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codegraph/pkg/graphwriter"
	"github.com/kraklabs/codegraph/pkg/pipeline"
	"github.com/kraklabs/codegraph/pkg/pipelinecfg"
	"github.com/kraklabs/codegraph/pkg/storage"
)

// indexSummary is the JSON-serializable shape of one index run, across
// every domain processed.
type indexSummary struct {
	Domains []domainSummary `json:"domains"`
}

type domainSummary struct {
	Name                string  `json:"name"`
	Root                string  `json:"root"`
	FilesDiscovered     int     `json:"files_discovered"`
	FilesParsed         int     `json:"files_parsed"`
	ParseErrors         int     `json:"parse_errors"`
	TotalCallSites      int     `json:"total_call_sites"`
	ResolvedCallSites   int     `json:"resolved_call_sites"`
	UnresolvedCallSites int     `json:"unresolved_call_sites"`
	ResolutionRate      float64 `json:"resolution_rate"`
	DurationMS          int64   `json:"duration_ms"`
}

// runIndex executes the 'index' command: discover, parse, build the
// symbol table, resolve calls, and write the resulting graph.
//
// Flags:
//
//	--exclude <glob>       Additional exclude glob (repeatable)
//	--exclude-tests        Skip files under test-only paths (spec.md §6.4)
//	--dry-run              Hold the graph in memory instead of writing to CozoDB
//	--full                 Ignore the saved manifest, re-write every file
//	--parse-workers <n>    Parallel file-parsing workers (default 4)
//	--debug                Enable debug logging
//	--metrics-addr <addr>  Expose Prometheus metrics (empty disables)
func runIndex(args []string, globals GlobalFlags, dataDirFlag string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	excludes := fs.StringArray("exclude", nil, "Additional exclude glob (repeatable)")
	excludeTests := fs.Bool("exclude-tests", false, "Skip files under test-only paths")
	dryRun := fs.Bool("dry-run", false, "Hold the graph in memory instead of writing to CozoDB")
	full := fs.Bool("full", false, "Ignore the saved manifest and re-write every file's graph output")
	parseWorkers := fs.Int("parse-workers", 4, "Parallel file-parsing workers")
	debug := fs.Bool("debug", false, "Enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codegraph index [options] [path]

Extract the code graph for the project rooted at path (default ".") and
persist it to CozoDB, unless --dry-run is set.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			logger.Info("metrics.http.start", "addr", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics.http.failed", "err", err)
			}
		}()
	}

	domains := resolveDomains(root, *excludes, *excludeTests)

	dataDir, err := projectDataDir(dataDirFlag, root)
	if err != nil {
		logError(globals, "resolve data dir: %v", err)
		os.Exit(1)
	}

	var backend *storage.EmbeddedBackend
	if !*dryRun {
		backend, err = storage.NewEmbeddedBackend(storage.EmbeddedConfig{DataDir: dataDir})
		if err != nil {
			logError(globals, "open backend: %v", err)
			os.Exit(1)
		}
		defer backend.Close()
		if err := backend.EnsureSchema(); err != nil {
			logError(globals, "ensure schema: %v", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	bar := progressbar.NewOptions(len(domains),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSetVisibility(!globals.Quiet),
	)

	summary := indexSummary{Domains: make([]domainSummary, 0, len(domains))}
	for _, d := range domains {
		writer, writerErr := newWriter(backend, *dryRun)
		if writerErr != nil {
			logError(globals, "open writer for domain %s: %v", d.Name, writerErr)
			os.Exit(1)
		}

		// Incremental writes only make sense against a persisted
		// backend: a --dry-run's MemoryWriter starts empty every time,
		// so skipping "unchanged" files there would just drop them
		// from the in-memory result with nothing backing them up.
		var prior pipeline.Manifest
		manifestPath := manifestPath(dataDir, d.Name)
		if !*dryRun && !*full {
			prior = loadManifest(manifestPath)
		}

		result, runErr := pipeline.Run(ctx, pipeline.Config{
			Root:          d.Root,
			ExcludeGlobs:  d.ExcludeGlobs,
			ExcludeTests:  *excludeTests,
			ParseWorkers:  *parseWorkers,
			PriorManifest: prior,
		}, writer, logger)
		if runErr != nil {
			logError(globals, "index domain %s: %v", d.Name, runErr)
			_ = writer.Close()
			os.Exit(1)
		}
		if err := writer.Close(); err != nil {
			logError(globals, "close writer for domain %s: %v", d.Name, err)
		}
		if !*dryRun {
			if err := saveManifest(manifestPath, result.Manifest); err != nil {
				logError(globals, "save manifest for domain %s: %v", d.Name, err)
			}
		}

		summary.Domains = append(summary.Domains, domainSummary{
			Name:                d.Name,
			Root:                d.Root,
			FilesDiscovered:     result.FilesDiscovered,
			FilesParsed:         result.FilesParsed,
			ParseErrors:         result.ParseErrors,
			TotalCallSites:      result.Stats.TotalCallSites,
			ResolvedCallSites:   result.Stats.ResolvedCallSites,
			UnresolvedCallSites: result.Stats.UnresolvedCallSites,
			ResolutionRate:      result.Rate,
			DurationMS:          result.TotalDuration.Milliseconds(),
		})
		_ = bar.Add(1)
		logInfo(globals, "domain %s: %d files, %d/%d calls resolved", d.Name, result.FilesParsed,
			result.Stats.ResolvedCallSites, result.Stats.TotalCallSites)
	}

	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
		return
	}

	for _, d := range summary.Domains {
		fmt.Printf("%s: %d files parsed (%d errors), %d/%d calls resolved (%.1f%%), %dms\n",
			d.Name, d.FilesParsed, d.ParseErrors, d.ResolvedCallSites, d.TotalCallSites, d.ResolutionRate*100, d.DurationMS)
	}
}

// domain is one root the index command processes independently.
type domain struct {
	Name         string
	Root         string
	ExcludeGlobs []string
}

// resolveDomains expands pkg/pipelinecfg's optional domain partitioning,
// read from a config file in the working directory, into concrete roots,
// falling back to a single domain covering root when no config file is
// present.
func resolveDomains(root string, extraExcludes []string, excludeTests bool) []domain {
	configs := pipelinecfg.Load(".")
	if len(configs) == 0 {
		return []domain{{Name: "default", Root: root, ExcludeGlobs: extraExcludes}}
	}

	domains := make([]domain, 0, len(configs))
	for _, c := range configs {
		excludes := append(append([]string{}, c.ExcludeGlobs...), extraExcludes...)
		roots := c.Roots
		if len(roots) == 0 {
			roots = []string{root}
		}
		for _, r := range roots {
			domains = append(domains, domain{Name: c.Name, Root: r, ExcludeGlobs: excludes})
		}
	}
	return domains
}

// manifestPath is where a domain's content-hash manifest is cached
// between runs, keyed by domain name so a monorepo's domains never
// clobber each other's manifest.
func manifestPath(dataDir, domainName string) string {
	return filepath.Join(dataDir, "manifest-"+domainName+".json")
}

// loadManifest reads a previously saved manifest, returning nil (a
// full write, no files skipped) on any read or parse failure - a
// missing or corrupt manifest file is never fatal, it just means the
// next run writes everything, exactly like the first run ever does.
func loadManifest(path string) pipeline.Manifest {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var m pipeline.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// saveManifest persists the manifest a run just computed so the next
// run over the same domain can skip unchanged files.
func saveManifest(path string, m pipeline.Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// newWriter opens the graphwriter.Writer a domain run persists through:
// a CozoWriter sharing the open backend, or an in-memory one under
// --dry-run.
func newWriter(backend *storage.EmbeddedBackend, dryRun bool) (graphwriter.Writer, error) {
	if dryRun || backend == nil {
		return graphwriter.NewMemoryWriter(), nil
	}
	return graphwriter.NewCozoWriter(backend), nil
}
