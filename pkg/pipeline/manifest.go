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
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/kraklabs/codegraph/pkg/discover"
)

// Manifest maps a discovered file's path to the hex-encoded SHA256 of
// its last-seen content. A caller that persists the Manifest from one
// Run and passes it back in as Config.PriorManifest on the next lets
// the write stage skip re-emitting graph nodes and edges for files
// whose content hasn't changed since that hash was recorded.
//
// This never changes what a file resolves to - it only decides what
// gets re-written. Two runs over an unchanged tree, one with a prior
// manifest and one without, produce identical symbol tables and
// resolved calls; the manifest only prunes the graphwriter traffic.
type Manifest map[string]string

// ComputeManifest hashes every discovered file's current content.
func ComputeManifest(files []discover.File) (Manifest, error) {
	m := make(Manifest, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256(content)
		m[f.Path] = hex.EncodeToString(sum[:])
	}
	return m, nil
}

// unchangedFiles returns the set of paths present in both manifests
// with an identical hash. A file missing from prior (new) or with a
// different hash (modified) is never unchanged; a file missing from
// current (deleted) has nothing to compare against and is dropped
// silently - a deleted file's nodes are not removed from the writer's
// store, since nothing here tracks them for deletion, matching the teacher's
// HashDeltaDetector.DetectChanges split of added/modified/deleted,
// simplified here to only the bit writeGraph needs: what to skip.
func unchangedFiles(prior, current Manifest) map[string]bool {
	unchanged := make(map[string]bool)
	for path, hash := range current {
		if priorHash, ok := prior[path]; ok && priorHash == hash {
			unchanged[path] = true
		}
	}
	return unchanged
}
