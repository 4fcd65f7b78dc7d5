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

package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kraklabs/codegraph/pkg/astmodel"
)

func writeFile(t *testing.T, root, relPath string) {
	t.Helper()
	full := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("// fixture"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunFiltersByExtensionAndDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main/Service.kt")
	writeFile(t, root, "src/main/README.md")
	writeFile(t, root, "node_modules/dep/index.js")
	writeFile(t, root, ".git/HEAD")

	files, err := Run(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %+v", len(files), files)
	}
	if files[0].Language != astmodel.Kotlin {
		t.Errorf("Language = %q, want kotlin", files[0].Language)
	}
}

func TestRunExcludeTests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main/Service.kt")
	writeFile(t, root, "src/test/ServiceTest.kt")

	withTests, err := Run(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(withTests) != 2 {
		t.Fatalf("without ExcludeTests: got %d files, want 2", len(withTests))
	}

	withoutTests, err := Run(root, Options{ExcludeTests: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(withoutTests) != 1 {
		t.Fatalf("with ExcludeTests: got %d files, want 1", len(withoutTests))
	}
}

func TestRunCustomExcludeGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main/Service.kt")
	writeFile(t, root, "vendor/Lib.kt")

	files, err := Run(root, Options{ExcludeGlobs: []string{"**/vendor/**"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %+v", len(files), files)
	}
}

func TestRunDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/Two.kt")
	writeFile(t, root, "a/One.kt")
	writeFile(t, root, "c/Three.kt")

	files, err := Run(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].Path > files[i].Path {
			t.Fatalf("files not sorted: %q before %q", files[i-1].Path, files[i].Path)
		}
	}
}
