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

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kraklabs/codegraph/pkg/astmodel"
	"github.com/kraklabs/codegraph/pkg/discover"
)

func TestComputeManifestHashesContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "A.kt")
	if err := os.WriteFile(path, []byte("package a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ComputeManifest([]discover.File{{Path: path, Language: astmodel.Kotlin}})
	if err != nil {
		t.Fatal(err)
	}
	if m[path] == "" {
		t.Fatalf("expected a non-empty hash for %s", path)
	}
}

func TestComputeManifestDiffersOnContentChange(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "A.kt")
	if err := os.WriteFile(path, []byte("package a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	files := []discover.File{{Path: path, Language: astmodel.Kotlin}}

	before, err := ComputeManifest(files)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("package a\n\nclass X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	after, err := ComputeManifest(files)
	if err != nil {
		t.Fatal(err)
	}

	if before[path] == after[path] {
		t.Fatalf("expected hash to change after content changed, both were %q", before[path])
	}
}

func TestUnchangedFilesSkipsMatchingHashesOnly(t *testing.T) {
	prior := Manifest{
		"a.kt": "hash-a",
		"b.kt": "hash-b",
	}
	current := Manifest{
		"a.kt": "hash-a",    // unchanged
		"b.kt": "hash-b-new", // modified
		"c.kt": "hash-c",    // new, never seen before
	}

	unchanged := unchangedFiles(prior, current)
	if !unchanged["a.kt"] {
		t.Error("expected a.kt to be unchanged")
	}
	if unchanged["b.kt"] {
		t.Error("expected b.kt (modified) to not be unchanged")
	}
	if unchanged["c.kt"] {
		t.Error("expected c.kt (new) to not be unchanged")
	}
}

func TestUnchangedFilesNilPriorSkipsNothing(t *testing.T) {
	current := Manifest{"a.kt": "hash-a"}
	if got := unchangedFiles(nil, current); len(got) != 0 {
		t.Errorf("expected no unchanged files against a nil prior manifest, got %v", got)
	}
}
