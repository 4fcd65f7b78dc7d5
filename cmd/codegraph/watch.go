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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codegraph/pkg/graphwriter"
	"github.com/kraklabs/codegraph/pkg/pipeline"
	"github.com/kraklabs/codegraph/pkg/storage"
)

// watchSkipDirs are never watched: dependency trees and VCS metadata
// generate far more churn than a developer's own edits.
var watchSkipDirs = map[string]bool{
	".git": true, "node_modules": true, "build": true,
	"dist": true, ".gradle": true, "target": true,
}

const watchDebounce = 2 * time.Second

// runWatch re-runs the index pipeline whenever a file under root
// changes, coalescing bursts of events with a debounce timer.
func runWatch(args []string, globals GlobalFlags, dataDirFlag string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	excludeTests := fs.Bool("exclude-tests", false, "Skip files under test-only paths")
	parseWorkers := fs.Int("parse-workers", 4, "Parallel file-parsing workers")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: codegraph watch [options] [path]\n\nOptions:\n")
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
		logError(globals, "resolve data dir: %v", err)
		os.Exit(1)
	}

	backend, err := storage.NewEmbeddedBackend(storage.EmbeddedConfig{DataDir: dataDir})
	if err != nil {
		logError(globals, "open backend: %v", err)
		os.Exit(1)
	}
	defer backend.Close()
	if err := backend.EnsureSchema(); err != nil {
		logError(globals, "ensure schema: %v", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	reindex := func() {
		writer := graphwriter.NewCozoWriter(backend)
		defer writer.Close()
		cfg := pipeline.Config{Root: root, ExcludeTests: *excludeTests, ParseWorkers: *parseWorkers}
		result, err := pipeline.Run(context.Background(), cfg, writer, logger)
		if err != nil {
			logError(globals, "reindex: %v", err)
			return
		}
		logInfo(globals, "reindexed: %d files, %d/%d calls resolved",
			result.FilesParsed, result.Stats.ResolvedCallSites, result.Stats.TotalCallSites)
	}

	reindex()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logError(globals, "start watcher: %v", err)
		os.Exit(1)
	}
	defer watcher.Close()

	watchCount := addWatchedDirs(watcher, root)
	logInfo(globals, "watching %d directories under %s", watchCount, root)

	var debounceTimer *time.Timer
	var timerCh <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(watchDebounce)
			timerCh = debounceTimer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logError(globals, "watcher: %v", err)
		case <-timerCh:
			timerCh = nil
			reindex()
		}
	}
}

// addWatchedDirs recursively registers root's directory tree with the
// watcher, skipping watchSkipDirs and hidden directories, and returns
// the number of directories added.
func addWatchedDirs(watcher *fsnotify.Watcher, root string) int {
	count := 0
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if watchSkipDirs[base] || (strings.HasPrefix(base, ".") && base != ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err == nil {
			count++
		}
		return nil
	})
	return count
}
