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

// Package discover walks a project directory and returns the source
// files the pipeline should parse, honoring exclude globs and the
// optional test-path filter of spec.md §6.4.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kraklabs/codegraph/pkg/astmodel"
)

// defaultExcludeGlobs are always applied, on top of any caller-supplied
// excludeGlobs, so a plain run never walks into dependency directories.
var defaultExcludeGlobs = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/build/**",
	"**/dist/**",
	"**/.gradle/**",
	"**/target/**",
}

// languageExtensions maps a lowercase file extension to the language it
// signals, mirroring pkg/parse.LanguageForExt so discovery only queues
// files the parser can actually handle.
var languageExtensions = map[string]astmodel.Language{
	".kt":  astmodel.Kotlin,
	".kts": astmodel.Kotlin,
	".java": astmodel.Java,
	".ts":   astmodel.TypeScript,
	".tsx":  astmodel.TypeScript,
	".js":   astmodel.JavaScript,
	".jsx":  astmodel.JavaScript,
	".mjs":  astmodel.JavaScript,
	".cjs":  astmodel.JavaScript,
}

// Options configures one discovery pass.
type Options struct {
	ExcludeGlobs []string
	ExcludeTests bool
}

// File is one discovered source file queued for parsing.
type File struct {
	Path     string
	Language astmodel.Language
}

// Run walks root and returns every file with a recognized extension, in
// deterministic sorted-path order, applying Options.ExcludeGlobs (plus
// the built-in defaults) and, when requested, spec.md §6.4's test-path
// filter.
func Run(root string, opts Options) ([]File, error) {
	excludes := append(append([]string{}, defaultExcludeGlobs...), opts.ExcludeGlobs...)
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	var files []File
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // best-effort: skip unreadable entries, never abort the walk
		}

		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range excludes {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		lang, ok := languageExtensions[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		if opts.ExcludeTests && IsTestPath(relPath) {
			return nil
		}

		files = append(files, File{Path: path, Language: lang})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
