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

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/codegraph/pkg/astmodel"
)

// countErrors counts ERROR nodes anywhere in the subtree, the same
// recursive walk the teacher runs after every parse to decide whether a
// syntax-error warning is worth logging.
func countErrors(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.Type() == "ERROR" {
		count++
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += countErrors(node.Child(i))
	}
	return count
}

// findNodeAtPosition finds the deepest node containing the given
// 0-based row/column.
func findNodeAtPosition(node *sitter.Node, row, col uint32) *sitter.Node {
	if node == nil {
		return nil
	}
	startRow, startCol := node.StartPoint().Row, node.StartPoint().Column
	endRow, endCol := node.EndPoint().Row, node.EndPoint().Column

	inNode := false
	switch {
	case row > startRow && row < endRow:
		inNode = true
	case row == startRow && row == endRow:
		inNode = col >= startCol && col <= endCol
	case row == startRow:
		inNode = col >= startCol
	case row == endRow:
		inNode = col <= endCol
	}
	if !inNode {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findNodeAtPosition(node.Child(i), row, col); found != nil {
			return found
		}
	}
	return node
}

// nodeText slices the raw source text covered by node.
func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

// locOf converts a tree-sitter node's 0-based span into a 1-based
// SourceLocation attributed to path.
func locOf(path string, node *sitter.Node) astmodel.SourceLocation {
	return astmodel.SourceLocation{
		FilePath:  path,
		StartLine: int(node.StartPoint().Row) + 1,
		StartCol:  int(node.StartPoint().Column) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		EndCol:    int(node.EndPoint().Column) + 1,
	}
}

// childOfType returns the first direct child of node matching typ, or
// nil. Used where a grammar doesn't expose a field name for a child we
// need (e.g. Kotlin's `modifiers` node).
func childOfType(node *sitter.Node, typ string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == typ {
			return child
		}
	}
	return nil
}

// childrenOfType returns every direct child of node matching typ.
func childrenOfType(node *sitter.Node, typ string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == typ {
			out = append(out, child)
		}
	}
	return out
}

// isInside reports whether node has an ancestor of one of the given
// types. Used to skip re-extracting a method as a free function when a
// walk already descends into a class body.
func isInside(node *sitter.Node, types ...string) bool {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		t := cur.Type()
		for _, want := range types {
			if t == want {
				return true
			}
		}
	}
	return false
}

// leadingComment returns the single comment block immediately preceding
// node among its siblings, stripped of comment syntax. The /** ... */
// shape it strips is the one KDoc, Javadoc and JSDoc share.
func leadingComment(node *sitter.Node, content []byte) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}
	idx := -1
	for i := 0; i < int(parent.ChildCount()); i++ {
		if parent.Child(i) == node {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return ""
	}
	sib := parent.Child(idx - 1)
	if sib.Type() != "comment" && sib.Type() != "block_comment" && sib.Type() != "line_comment" {
		return ""
	}
	text := nodeText(sib, content)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// splitDotted splits a dotted-path expression's text on "." for
// building Receiver strings on ParsedCall. Generic arguments get no
// special handling: a "." inside <...> splits like any other.
func splitDotted(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}
