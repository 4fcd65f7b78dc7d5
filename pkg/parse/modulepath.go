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

package parse

import "strings"

// kotlinJavaSourceRoots lists conventional source-root prefixes for
// Gradle/Maven-shaped repositories. When a Kotlin or Java file has no
// textual package declaration (rare, but legal for default-package
// Java), the path relative to one of these roots stands in for it.
var kotlinJavaSourceRoots = []string{
	"src/main/kotlin/",
	"src/test/kotlin/",
	"src/main/java/",
	"src/test/java/",
	"src/",
}

// inferJVMPackageFromPath derives a dotted package name from a file path
// when the file itself declares none, following the same source-root
// convention Gradle/Maven use for both Kotlin and Java.
func inferJVMPackageFromPath(filePath string) string {
	filePath = strings.ReplaceAll(filePath, "\\", "/")
	for _, root := range kotlinJavaSourceRoots {
		idx := strings.Index(filePath, root)
		if idx == -1 {
			continue
		}
		rest := filePath[idx+len(root):]
		lastSlash := strings.LastIndex(rest, "/")
		if lastSlash == -1 {
			return ""
		}
		return strings.ReplaceAll(rest[:lastSlash], "/", ".")
	}
	return ""
}

// isJVMStdlibImport reports whether importPath belongs to the Kotlin or
// Java standard library, mirroring the kotlin./kotlinx./java./javax.
// prefix convention used to decide whether an import is worth tracking
// as an inter-project dependency.
func isJVMStdlibImport(importPath string) bool {
	for _, prefix := range []string{"kotlin.", "kotlinx.", "java.", "javax."} {
		if strings.HasPrefix(importPath, prefix) {
			return true
		}
	}
	return false
}

// moduleBaseName derives a bare file-basename-as-module identifier for
// TypeScript/JavaScript relative imports, stripping the extension so
// `./user` and `./user.ts` resolve to the same module key.
func moduleBaseName(importPath string) string {
	for _, ext := range []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"} {
		if strings.HasSuffix(importPath, ext) {
			return strings.TrimSuffix(importPath, ext)
		}
	}
	return importPath
}

// isRelativeImport reports whether a JS/TS import path is
// repository-relative (`./...` or `../...`) rather than a package
// specifier resolved through node_modules.
func isRelativeImport(importPath string) bool {
	return strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../")
}
