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
	"path/filepath"
	"testing"
)

func TestProjectDataDirExplicitOverride(t *testing.T) {
	got, err := projectDataDir("/tmp/custom-data", ".")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Clean("/tmp/custom-data") {
		t.Errorf("projectDataDir() = %q, want /tmp/custom-data", got)
	}
}

func TestProjectDataDirDerivedFromRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root := t.TempDir()
	got, err := projectDataDir("", root)
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(home, ".codegraph", "data")
	if filepath.Dir(got) != want {
		t.Errorf("projectDataDir() = %q, want a child of %q", got, want)
	}
}

func TestProjectDataDirStableForSameRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	first, err := projectDataDir("", root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := projectDataDir("", root)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("projectDataDir() not stable: %q then %q", first, second)
	}
}

func TestProjectDataDirDiffersForDifferentRoots(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	rootA := t.TempDir()
	rootB := t.TempDir()

	a, err := projectDataDir("", rootA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := projectDataDir("", rootB)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("projectDataDir() collided for distinct roots: %q", a)
	}
}
