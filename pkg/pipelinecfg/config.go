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

// Package pipelinecfg loads the optional domain-partitioning config
// file. Unlike the teacher's .cie/project.yaml (which fails loudly on
// a missing or malformed file, since CIE can't run without it), this
// config is genuinely optional: a missing or invalid file yields an
// empty domain list rather than an error, since the pipeline runs
// perfectly well against a single unpartitioned project.
package pipelinecfg

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// candidateNames are searched, in order, in the directory passed to
// Load; the CLI passes its working directory.
var candidateNames = []string{"codegraph.yaml", ".codegraph.yaml", "codegraph.yml"}

// DomainConfig scopes one named subset of the project to its own set of
// root directories, so a monorepo can be indexed as several logical
// codebases without several separate CLI invocations.
type DomainConfig struct {
	Name         string   `yaml:"name"`
	Roots        []string `yaml:"roots"`
	ExcludeGlobs []string `yaml:"excludeGlobs"`
}

// fileSchema mirrors the on-disk shape; Load never returns it directly
// so callers can't depend on anything beyond the Domains slice.
type fileSchema struct {
	Domains []DomainConfig `yaml:"domains"`
}

// Load searches dir for a config file and returns its domains. A
// missing file, unreadable file, or one that fails to parse as YAML
// all yield a nil slice and a nil error: the config is advisory, never
// load-bearing.
func Load(dir string) []DomainConfig {
	path := find(dir)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil
	}
	return schema.Domains
}

func find(dir string) string {
	for _, name := range candidateNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
