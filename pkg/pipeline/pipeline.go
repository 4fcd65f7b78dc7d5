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

// Package pipeline wires stages A through D together: discover source
// files, parse each one, build the project-wide symbol table, resolve
// call sites, then persist the result through a graphwriter.Writer.
// Nothing downstream of Run ever touches the filesystem or a storage
// backend directly — those seams belong to pkg/discover and
// pkg/graphwriter respectively.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/discover"
	"github.com/kraklabs/codegraph/pkg/graphwriter"
	"github.com/kraklabs/codegraph/pkg/parse"
	"github.com/kraklabs/codegraph/pkg/resolve"
	"github.com/kraklabs/codegraph/pkg/symtab"
)

// Config configures one pipeline run over a single root directory. A
// monorepo with several pkg/pipelinecfg.DomainConfig entries runs one
// Config per domain; nothing here aggregates across domains.
type Config struct {
	Root         string
	ExcludeGlobs []string
	ExcludeTests bool

	// ParseWorkers bounds file-parsing concurrency. Defaults to 4,
	// mirroring the teacher's parseFilesParallel default.
	ParseWorkers int

	// PriorManifest is the Manifest returned by a previous Run against
	// the same writer, if the caller kept one around. When set, files
	// whose content hash hasn't changed are skipped during the write
	// stage - they're still parsed and resolved (the symbol table
	// needs every file to resolve correctly), only their graph nodes
	// and edges are left untouched. Nil runs the write stage in full,
	// exactly like the teacher's pipeline does when no delta detector
	// is configured.
	PriorManifest Manifest
}

// Result summarizes one completed run.
type Result struct {
	FilesDiscovered int
	FilesParsed     int
	ParseErrors     int

	Stats astmodel.ResolutionStats
	// Rate is resolve.AggregateStats's resolved/total fraction over
	// this run's call sites (0 when there were none).
	Rate float64

	Diagnostics []astmodel.Diagnostic

	ParseDuration    time.Duration
	ResolveDuration  time.Duration
	WriteDuration    time.Duration
	TotalDuration    time.Duration

	// Manifest is the content-hash snapshot of every discovered file
	// taken during this run. A caller that wants incremental writes on
	// the next run persists this and passes it back as
	// Config.PriorManifest.
	Manifest Manifest
	// FilesSkipped counts files whose write-stage output was skipped
	// because PriorManifest showed their content unchanged.
	FilesSkipped int
}

// Run executes discover -> parse -> symtab.Build -> resolve.ResolveAll
// -> writer, flushing before returning. The writer is left open; the
// caller owns Close.
func Run(ctx context.Context, cfg Config, writer graphwriter.Writer, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	found, err := discover.Run(cfg.Root, discover.Options{
		ExcludeGlobs: cfg.ExcludeGlobs,
		ExcludeTests: cfg.ExcludeTests,
	})
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	logger.Info("pipeline.discover.complete", "root", cfg.Root, "file_count", len(found))

	workers := cfg.ParseWorkers
	if workers <= 0 {
		workers = 4
	}

	parseStart := time.Now()
	files, diagnostics, parseErrors := parseFilesParallel(found, workers, logger)
	parseDuration := time.Since(parseStart)
	logger.Info("pipeline.parse.complete",
		"files_parsed", len(files),
		"parse_errors", parseErrors,
		"duration_ms", parseDuration.Milliseconds(),
	)

	table := symtab.Build(files)

	resolveStart := time.Now()
	resolved := resolve.New(table, logger).ResolveAll(files)
	resolveDuration := time.Since(resolveStart)

	stats := aggregateStats(resolved)
	rate := resolve.AggregateStats(resolved).Rate
	logger.Info("pipeline.resolve.complete",
		"total_call_sites", stats.TotalCallSites,
		"resolved", stats.ResolvedCallSites,
		"unresolved", stats.UnresolvedCallSites,
		"duration_ms", resolveDuration.Milliseconds(),
	)

	manifest, err := ComputeManifest(found)
	if err != nil {
		return nil, fmt.Errorf("compute manifest: %w", err)
	}

	var skip map[string]bool
	if cfg.PriorManifest != nil {
		skip = unchangedFiles(cfg.PriorManifest, manifest)
	}

	writeStart := time.Now()
	if err := writeGraph(ctx, writer, table, resolved, skip); err != nil {
		return nil, fmt.Errorf("write graph: %w", err)
	}
	if err := writer.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush graph: %w", err)
	}
	writeDuration := time.Since(writeStart)
	logger.Info("pipeline.write.complete",
		"duration_ms", writeDuration.Milliseconds(),
		"files_skipped", len(skip),
	)

	for _, rf := range resolved {
		for _, uc := range rf.UnresolvedCalls {
			diagnostics = append(diagnostics, astmodel.Diagnostic{
				Kind:    astmodel.DiagUnresolvedCall,
				Path:    uc.FilePath,
				Message: fmt.Sprintf("line %d: %s: %s", uc.Line, uc.CalleeName, uc.Reason),
			})
		}
	}

	return &Result{
		FilesDiscovered: len(found),
		FilesParsed:     len(files),
		ParseErrors:     parseErrors,
		Stats:           stats,
		Rate:            rate,
		Diagnostics:     diagnostics,
		ParseDuration:   parseDuration,
		ResolveDuration: resolveDuration,
		WriteDuration:   writeDuration,
		TotalDuration:   time.Since(start),
		Manifest:        manifest,
		FilesSkipped:    len(skip),
	}, nil
}

// parseFilesParallel parses every discovered file across a fixed worker
// pool, mirroring LocalPipeline.parseFilesParallel: a file-read failure
// is logged as a diagnostic and skipped rather than aborting the run.
func parseFilesParallel(found []discover.File, workers int, logger *slog.Logger) ([]*astmodel.ParsedFile, []astmodel.Diagnostic, int) {
	type outcome struct {
		file *astmodel.ParsedFile
		diag *astmodel.Diagnostic
	}

	jobs := make(chan discover.File)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := parse.New(logger)
			for f := range jobs {
				pf, err := p.ParseFile(f.Path, f.Language)
				if err != nil {
					results <- outcome{diag: &astmodel.Diagnostic{
						Kind:    astmodel.DiagFileIOFailure,
						Path:    f.Path,
						Message: err.Error(),
					}}
					continue
				}
				results <- outcome{file: pf}
			}
		}()
	}

	go func() {
		for _, f := range found {
			jobs <- f
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var files []*astmodel.ParsedFile
	var diagnostics []astmodel.Diagnostic
	errCount := 0
	for o := range results {
		if o.diag != nil {
			diagnostics = append(diagnostics, *o.diag)
			errCount++
			continue
		}
		files = append(files, o.file)
		diagnostics = append(diagnostics, o.file.Diagnostics...)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].FilePath < files[j].FilePath })
	return files, diagnostics, errCount
}

func aggregateStats(resolved []*astmodel.ResolvedFile) astmodel.ResolutionStats {
	total := astmodel.ResolutionStats{StrategyCounts: make(map[astmodel.ResolutionStrategy]int)}
	for _, rf := range resolved {
		total.TotalCallSites += rf.Stats.TotalCallSites
		total.ResolvedCallSites += rf.Stats.ResolvedCallSites
		total.UnresolvedCallSites += rf.Stats.UnresolvedCallSites
		for strategy, count := range rf.Stats.StrategyCounts {
			total.StrategyCounts[strategy] += count
		}
	}
	return total
}
