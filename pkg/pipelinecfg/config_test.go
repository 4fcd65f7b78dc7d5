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

package pipelinecfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsNil(t *testing.T) {
	dir := t.TempDir()
	if domains := Load(dir); domains != nil {
		t.Fatalf("Load on a dir with no config = %v, want nil", domains)
	}
}

func TestLoadMalformedYAMLYieldsNil(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "codegraph.yaml"), []byte("not: valid: yaml: [["), 0o644); err != nil {
		t.Fatal(err)
	}
	if domains := Load(dir); domains != nil {
		t.Fatalf("Load on malformed YAML = %v, want nil", domains)
	}
}

func TestLoadParsesDomains(t *testing.T) {
	dir := t.TempDir()
	content := `
domains:
  - name: backend
    roots: ["services/api", "services/worker"]
    excludeGlobs: ["**/generated/**"]
  - name: frontend
    roots: ["apps/web"]
`
	if err := os.WriteFile(filepath.Join(dir, "codegraph.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	domains := Load(dir)
	if len(domains) != 2 {
		t.Fatalf("got %d domains, want 2", len(domains))
	}
	if domains[0].Name != "backend" || len(domains[0].Roots) != 2 {
		t.Errorf("domains[0] = %+v, want backend with 2 roots", domains[0])
	}
	if len(domains[0].ExcludeGlobs) != 1 {
		t.Errorf("domains[0].ExcludeGlobs = %v, want 1 entry", domains[0].ExcludeGlobs)
	}
	if domains[1].Name != "frontend" || len(domains[1].Roots) != 1 {
		t.Errorf("domains[1] = %+v, want frontend with 1 root", domains[1])
	}
}

func TestLoadPrefersFirstCandidateName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "codegraph.yaml"), []byte("domains:\n  - name: first\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".codegraph.yaml"), []byte("domains:\n  - name: second\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	domains := Load(dir)
	if len(domains) != 1 || domains[0].Name != "first" {
		t.Fatalf("domains = %+v, want a single domain named 'first'", domains)
	}
}
