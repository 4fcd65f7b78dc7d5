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

package resolve

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/stdlib"
	"github.com/kraklabs/codegraph/pkg/symtab"
)

// parallelThreshold is the call-site count above which Resolver spreads
// work across a worker pool; below it, goroutine setup costs more than
// it saves.
const parallelThreshold = 1000

// maxWorkers bounds the resolution worker pool regardless of core
// count, so a resolve run never starves the rest of the pipeline.
const maxWorkers = 8

// Resolver runs the strategy ladder over every call site stage B's
// SymbolTable carries, producing one ResolvedFile per input ParsedFile.
type Resolver struct {
	table  *symtab.SymbolTable
	logger *slog.Logger
}

// New constructs a Resolver over an already-built SymbolTable.
func New(table *symtab.SymbolTable, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{table: table, logger: logger}
}

// callJob is one call site queued for resolution, with enough context
// captured up front that workers never touch shared maps.
type callJob struct {
	call     astmodel.ParsedCall
	ctx      *ResolutionContext
	language astmodel.Language
	filePath string
}

// ResolveAll runs the strategy ladder over every function captured in
// files, returning one ResolvedFile per input file in the same order.
func (r *Resolver) ResolveAll(files []*astmodel.ParsedFile) []*astmodel.ResolvedFile {
	var jobs []callJob
	byFile := make(map[string]*astmodel.ResolvedFile, len(files))
	order := make([]string, 0, len(files))
	functionsByPath := r.functionsByFilePath()

	for _, pf := range files {
		if pf == nil {
			continue
		}
		if _, exists := byFile[pf.FilePath]; !exists {
			order = append(order, pf.FilePath)
			byFile[pf.FilePath] = &astmodel.ResolvedFile{
				FilePath: pf.FilePath,
				Stats:    astmodel.ResolutionStats{StrategyCounts: make(map[astmodel.ResolutionStrategy]int)},
			}
		}
		defaultWildcards := []string{}
		if p := stdlib.For(pf.Language); p != nil {
			defaultWildcards = p.DefaultWildcardImports()
		}
		for _, fn := range functionsByPath[pf.FilePath] {
			ctx := newContext(fn, pf, defaultWildcards)
			for _, call := range fn.Calls {
				if call.Loc.FilePath == "" {
					call.Loc.FilePath = pf.FilePath
				}
				jobs = append(jobs, callJob{call: call, ctx: ctx, language: pf.Language, filePath: pf.FilePath})
			}
		}
	}

	var results []astmodel.ResolvedCall
	var unresolved []astmodel.UnresolvedCallSite
	if len(jobs) < parallelThreshold {
		results, unresolved = r.resolveSequential(jobs)
	} else {
		results, unresolved = r.resolveParallel(jobs)
	}

	for _, rc := range results {
		rf := byFile[rc.Loc.FilePath]
		if rf == nil {
			continue
		}
		rf.Calls = append(rf.Calls, rc)
		rf.Stats.TotalCallSites++
		rf.Stats.ResolvedCallSites++
		rf.Stats.StrategyCounts[rc.Strategy]++
	}
	for _, uc := range unresolved {
		rf := byFile[uc.FilePath]
		if rf == nil {
			continue
		}
		rf.UnresolvedCalls = append(rf.UnresolvedCalls, uc)
		rf.Stats.TotalCallSites++
		rf.Stats.UnresolvedCallSites++
	}

	out := make([]*astmodel.ResolvedFile, 0, len(order))
	for _, path := range order {
		out = append(out, byFile[path])
	}
	return out
}

func (r *Resolver) resolveSequential(jobs []callJob) ([]astmodel.ResolvedCall, []astmodel.UnresolvedCallSite) {
	var resolved []astmodel.ResolvedCall
	var unresolved []astmodel.UnresolvedCallSite
	for _, j := range jobs {
		if rc, ok := r.resolveOne(j); ok {
			resolved = append(resolved, rc)
		} else {
			unresolved = append(unresolved, r.toUnresolved(j))
		}
	}
	return resolved, unresolved
}

func (r *Resolver) resolveParallel(jobs []callJob) ([]astmodel.ResolvedCall, []astmodel.UnresolvedCallSite) {
	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	jobCh := make(chan callJob, len(jobs))
	type outcome struct {
		call astmodel.ResolvedCall
		uc   astmodel.UnresolvedCallSite
		ok   bool
	}
	resultCh := make(chan outcome, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if rc, ok := r.resolveOne(j); ok {
					resultCh <- outcome{call: rc, ok: true}
				} else {
					resultCh <- outcome{uc: r.toUnresolved(j), ok: false}
				}
			}
		}()
	}
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var resolved []astmodel.ResolvedCall
	var unresolved []astmodel.UnresolvedCallSite
	for o := range resultCh {
		if o.ok {
			resolved = append(resolved, o.call)
		} else {
			unresolved = append(unresolved, o.uc)
		}
	}
	return resolved, unresolved
}

// resolveOne runs the strategy ladder for one call site, falling back
// to the stdlib rung when every structural strategy misses.
func (r *Resolver) resolveOne(j callJob) (astmodel.ResolvedCall, bool) {
	callerFQN := ""
	if j.ctx.Caller != nil {
		callerFQN = j.ctx.Caller.FQN
	}

	for _, rung := range ladder {
		if fqn, ok := rung.run(r.table, j.ctx, j.call); ok {
			return astmodel.ResolvedCall{
				CallerFQN: callerFQN,
				CalleeFQN: fqn,
				Strategy:  rung.strategy,
				Loc:       j.call.Loc,
			}, true
		}
	}

	if fqn, isStdlib := resolveStdlib(j.language, j.call); isStdlib {
		return astmodel.ResolvedCall{
			CallerFQN: callerFQN,
			CalleeFQN: fqn,
			Strategy:  astmodel.StrategyStdlib,
			IsStdlib:  true,
			Loc:       j.call.Loc,
		}, true
	}
	return astmodel.ResolvedCall{}, false
}

func (r *Resolver) toUnresolved(j callJob) astmodel.UnresolvedCallSite {
	callerFQN := ""
	if j.ctx.Caller != nil {
		callerFQN = j.ctx.Caller.FQN
	}
	r.logger.Debug("resolve.call.unresolved",
		"caller", callerFQN, "callee", j.call.Name, "file", j.filePath, "line", j.call.Loc.StartLine)
	return astmodel.UnresolvedCallSite{
		CallerFQN:  callerFQN,
		CalleeName: j.call.Name,
		FilePath:   j.filePath,
		Line:       j.call.Loc.StartLine,
		Reason:     "exhausted strategy ladder",
	}
}

// functionsByFilePath groups every function symbol in the table by its
// source file, covering top-level functions, class methods (including
// nested classes and companions), and anonymous object expression
// methods alike since symtab.Build already flattened them.
func (r *Resolver) functionsByFilePath() map[string][]*symtab.Symbol {
	out := make(map[string][]*symtab.Symbol)
	for _, sym := range r.table.All() {
		if sym.Kind == symtab.SymbolFunction {
			out[sym.FilePath] = append(out[sym.FilePath], sym)
		}
	}
	return out
}
