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

	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/codegraph/pkg/astmodel"
)

// parseTypeScript extracts the same JavaScript declaration shapes as
// parseJavaScript, plus TypeScript-only constructs: interfaces, type
// aliases, enums, and decorators. It reuses walkJSModule rather than
// duplicating the JS traversal, since TypeScript's grammar is a
// superset of JavaScript's for every node type parseJavaScript handles.
func (p *Parser) parseTypeScript(parser *sitter.Parser, path string, content []byte) (*astmodel.ParsedFile, error) {
	tree, err := p.parseTree(parser, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	pf := &astmodel.ParsedFile{FilePath: path, Language: astmodel.TypeScript}
	if root.HasError() {
		if n := countErrors(root); n > 0 {
			p.logger.Warn("parse.typescript.syntax_errors", slog.String("path", path), slog.Int("error_count", n))
			pf.Diagnostics = append(pf.Diagnostics, astmodel.Diagnostic{
				Kind: astmodel.DiagParseFailure, Path: path, Message: "typescript syntax errors recovered",
			})
		}
	}
	walkJSModule(root, content, path, pf, true)
	walkTSEnums(root, content, path, pf)
	return pf, nil
}

func walkTSEnums(node *sitter.Node, content []byte, path string, pf *astmodel.ParsedFile) {
	if node == nil {
		return
	}
	if node.Type() == "enum_declaration" {
		pf.Classes = append(pf.Classes, extractTSEnum(node, content, path))
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTSEnums(node.Child(i), content, path, pf)
	}
}

func extractTSEnum(node *sitter.Node, content []byte, path string) astmodel.ParsedClass {
	cls := astmodel.ParsedClass{Kind: astmodel.KindEnum, Visibility: jsExportVisibility(node, content), Loc: locOf(path, node)}
	if name := node.ChildByFieldName("name"); name != nil {
		cls.Name = nodeText(name, content)
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		if child.Type() != "property_identifier" && child.Type() != "enum_assignment" {
			continue
		}
		name := child
		if child.Type() == "enum_assignment" {
			name = child.ChildByFieldName("name")
		}
		if name != nil {
			cls.Properties = append(cls.Properties, astmodel.ParsedProperty{
				Name: nodeText(name, content), Immutable: true, Visibility: astmodel.VisPublic, Loc: locOf(path, child),
			})
		}
	}
	return cls
}

func extractTSInterface(node *sitter.Node, content []byte, path string) astmodel.ParsedClass {
	cls := astmodel.ParsedClass{Kind: astmodel.KindInterface, Visibility: jsExportVisibility(node, content), Loc: locOf(path, node)}
	if name := node.ChildByFieldName("name"); name != nil {
		cls.Name = nodeText(name, content)
	}
	if heritage := childOfType(node, "extends_type_clause"); heritage != nil {
		for i := 0; i < int(heritage.ChildCount()); i++ {
			child := heritage.Child(i)
			if child.Type() == "type_identifier" || child.Type() == "generic_type" {
				cls.Interfaces = append(cls.Interfaces, nodeText(child, content))
			}
		}
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "property_signature":
			if name := child.ChildByFieldName("name"); name != nil {
				prop := astmodel.ParsedProperty{Name: nodeText(name, content), Visibility: astmodel.VisPublic, Loc: locOf(path, child)}
				if typ := childOfType(child, "type_annotation"); typ != nil {
					prop.SurfaceType = strings.TrimSpace(strings.TrimPrefix(nodeText(typ, content), ":"))
				}
				cls.Properties = append(cls.Properties, prop)
			}
		case "method_signature":
			fn := astmodel.ParsedFunction{Visibility: astmodel.VisPublic, IsOverloadSignature: true, Loc: locOf(path, child)}
			if name := child.ChildByFieldName("name"); name != nil {
				fn.Name = nodeText(name, content)
			}
			fn.Parameters = jsParameters(child, content)
			if ret := childOfType(child, "type_annotation"); ret != nil {
				fn.ReturnType = strings.TrimSpace(strings.TrimPrefix(nodeText(ret, content), ":"))
			}
			cls.Functions = append(cls.Functions, fn)
		}
	}
	return cls
}

func extractTSTypeAlias(node *sitter.Node, content []byte, path string) astmodel.ParsedTypeAlias {
	alias := astmodel.ParsedTypeAlias{Visibility: jsExportVisibility(node, content), Loc: locOf(path, node)}
	if name := node.ChildByFieldName("name"); name != nil {
		alias.Name = nodeText(name, content)
	}
	if value := node.ChildByFieldName("value"); value != nil {
		alias.AliasedType = nodeText(value, content)
	}
	if params := childOfType(node, "type_parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			if tp := params.Child(i); tp.Type() == "type_parameter" {
				alias.TypeParameters = append(alias.TypeParameters, nodeText(tp, content))
			}
		}
	}
	return alias
}
