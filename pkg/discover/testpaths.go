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
	"path"
	"regexp"
	"strings"
)

// testDirSegments are directory names that mark everything beneath them
// as test code, per spec.md §6.4.
var testDirSegments = map[string]bool{
	"test":            true,
	"tests":           true,
	"__tests__":       true,
	"androidTest":     true,
	"integrationTest": true,
	"functionalTest":  true,
	"testFixtures":    true,
}

// testNamePatterns are the file-name shapes spec.md §6.4 lists, each
// translated from its glob-style original into an anchored regexp.
var testNamePatterns = compileTestNamePatterns([]string{
	`.*Test\..*`, `.*Tests\..*`, `.*Spec\..*`,
	`.*\.test\..*`, `.*\.spec\..*`,
	`.*IT\..*`, `.*E2E\..*`,
	`Mock.*\..*`, `Fake.*\..*`, `Stub.*\..*`,
	`TestUtils.*\..*`, `TestHelper\..*`, `TestFixture.*\..*`,
})

func compileTestNamePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("^"+p+"$"))
	}
	return out
}

// IsTestPath reports whether a slash-separated relative path should be
// treated as test code when --exclude-tests is set: either a directory
// segment names a known test directory, or the file's own name matches
// one of the test-name shapes.
func IsTestPath(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if testDirSegments[segment] {
			return true
		}
	}
	name := path.Base(relPath)
	for _, re := range testNamePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
