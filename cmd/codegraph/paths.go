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
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// projectDataDir resolves the directory codegraph stores its CozoDB
// data in: an explicit --data-dir override, else
// ~/.codegraph/data/<project-id>, where project-id is derived from the
// absolute root path so two different projects never collide.
func projectDataDir(explicit, root string) (string, error) {
	if explicit != "" {
		return filepath.Clean(explicit), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(absRoot))
	projectID := filepath.Base(absRoot) + "-" + hex.EncodeToString(sum[:6])

	return filepath.Join(home, ".codegraph", "data", projectID), nil
}
