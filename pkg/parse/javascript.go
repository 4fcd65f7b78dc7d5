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

// parseJavaScript extracts imports, functions (declarations, arrow
// functions, method definitions), classes, and call sites from
// JavaScript source using tree-sitter-javascript.
func (p *Parser) parseJavaScript(parser *sitter.Parser, path string, content []byte) (*astmodel.ParsedFile, error) {
	tree, err := p.parseTree(parser, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	pf := &astmodel.ParsedFile{FilePath: path, Language: astmodel.JavaScript}
	if root.HasError() {
		if n := countErrors(root); n > 0 {
			p.logger.Warn("parse.javascript.syntax_errors", slog.String("path", path), slog.Int("error_count", n))
			pf.Diagnostics = append(pf.Diagnostics, astmodel.Diagnostic{
				Kind: astmodel.DiagParseFailure, Path: path, Message: "javascript syntax errors recovered",
			})
		}
	}
	walkJSModule(root, content, path, pf, false)
	return pf, nil
}

// walkJSModule performs the shared JS/TS module-level walk. typescript
// enables TS-only constructs (interfaces, type aliases, enums) so
// parseTypeScript can reuse this exact traversal.
func walkJSModule(node *sitter.Node, content []byte, path string, pf *astmodel.ParsedFile, typescript bool) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "import_statement":
		if imp, ok := extractJSImport(node, content); ok {
			pf.Imports = append(pf.Imports, imp)
		}
		return
	case "function_declaration":
		if !isInside(node, "class_body") {
			pf.Functions = append(pf.Functions, extractJSFunctionDecl(node, content, path))
		}
	case "variable_declarator":
		if fn, ok := extractJSVariableFunction(node, content, path); ok {
			pf.Functions = append(pf.Functions, fn)
		} else if destr, ok := extractJSDestructuring(node, content, path); ok {
			pf.Destructurings = append(pf.Destructurings, destr)
		}
	case "class_declaration":
		pf.Classes = append(pf.Classes, extractJSClass(node, content, path, typescript))
		return
	case "interface_declaration":
		if typescript {
			pf.Classes = append(pf.Classes, extractTSInterface(node, content, path))
			return
		}
	case "type_alias_declaration":
		if typescript {
			pf.TypeAliases = append(pf.TypeAliases, extractTSTypeAlias(node, content, path))
			return
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkJSModule(node.Child(i), content, path, pf, typescript)
	}
}

func extractJSImport(node *sitter.Node, content []byte) (astmodel.ParsedImport, bool) {
	src := childOfType(node, "string")
	if src == nil {
		return astmodel.ParsedImport{}, false
	}
	importPath := strings.Trim(nodeText(src, content), `'"`)
	imp := astmodel.ParsedImport{ImportPath: importPath, Loc: locOf("", node)}

	if clause := childOfType(node, "import_clause"); clause != nil {
		text := nodeText(clause, content)
		imp.Wildcard = strings.Contains(text, "*")
		if def := firstNamedChild(clause); def != nil && def.Type() == "identifier" {
			imp.ImportedName = nodeText(def, content)
		}
	}
	if strings.HasPrefix(strings.TrimSpace(nodeText(node, content)), "import type") {
		imp.TypeOnly = true
	}
	return imp, true
}

func extractJSFunctionDecl(node *sitter.Node, content []byte, path string) astmodel.ParsedFunction {
	fn := astmodel.ParsedFunction{Loc: locOf(path, node)}
	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = nodeText(name, content)
	}
	fn.Parameters = jsParameters(node, content)
	fn.Calls = jsCalls(node, content)
	fn.Modifiers.Async = strings.HasPrefix(strings.TrimSpace(nodeText(node, content)), "async")
	fn.Visibility = astmodel.VisPublic
	return fn
}

func extractJSVariableFunction(node *sitter.Node, content []byte, path string) (astmodel.ParsedFunction, bool) {
	nameNode := node.ChildByFieldName("name")
	valueNode := node.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return astmodel.ParsedFunction{}, false
	}
	if nameNode.Type() != "identifier" {
		return astmodel.ParsedFunction{}, false
	}
	switch valueNode.Type() {
	case "arrow_function", "function_expression", "function":
	default:
		return astmodel.ParsedFunction{}, false
	}
	fn := astmodel.ParsedFunction{
		Name: nodeText(nameNode, content),
		Loc:  locOf(path, node),
	}
	fn.Parameters = jsParameters(valueNode, content)
	fn.Calls = jsCalls(valueNode, content)
	fn.Modifiers.Async = strings.Contains(nodeText(valueNode, content), "async")
	fn.Visibility = astmodel.VisPublic
	return fn, true
}

func extractJSDestructuring(node *sitter.Node, content []byte, path string) (astmodel.ParsedDestructuring, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return astmodel.ParsedDestructuring{}, false
	}
	var names []string
	switch nameNode.Type() {
	case "object_pattern":
		for i := 0; i < int(nameNode.ChildCount()); i++ {
			child := nameNode.Child(i)
			switch child.Type() {
			case "shorthand_property_identifier_pattern":
				names = append(names, nodeText(child, content))
			case "pair_pattern":
				if value := child.ChildByFieldName("value"); value != nil {
					names = append(names, nodeText(value, content))
				}
			}
		}
	case "array_pattern":
		for i := 0; i < int(nameNode.ChildCount()); i++ {
			child := nameNode.Child(i)
			if child.Type() == "identifier" {
				names = append(names, nodeText(child, content))
			} else if child.Type() == "," {
				continue
			}
		}
	default:
		return astmodel.ParsedDestructuring{}, false
	}
	if len(names) == 0 {
		return astmodel.ParsedDestructuring{}, false
	}
	return astmodel.ParsedDestructuring{
		ComponentNames: names,
		ComponentTypes: make([]string, len(names)),
		Loc:            locOf(path, node),
	}, true
}

func extractJSClass(node *sitter.Node, content []byte, path string, typescript bool) astmodel.ParsedClass {
	cls := astmodel.ParsedClass{Kind: astmodel.KindClass, Loc: locOf(path, node)}
	if name := node.ChildByFieldName("name"); name != nil {
		cls.Name = nodeText(name, content)
	}
	cls.Visibility = jsExportVisibility(node, content)
	if heritage := node.ChildByFieldName("heritage") ; heritage != nil {
		extractJSHeritage(heritage, content, &cls)
	} else if heritage := childOfType(node, "class_heritage"); heritage != nil {
		extractJSHeritage(heritage, content, &cls)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		body = childOfType(node, "class_body")
	}
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "method_definition":
			fn := extractJSMethod(child, content, path)
			if fn.Name == "constructor" {
				fn.IsConstructor = true
				fn.Name = "<init>"
			}
			cls.Functions = append(cls.Functions, fn)
		case "field_definition":
			if prop, ok := extractJSField(child, content, path, typescript); ok {
				cls.Properties = append(cls.Properties, prop)
			}
		}
	}
	return cls
}

func extractJSHeritage(heritage *sitter.Node, content []byte, cls *astmodel.ParsedClass) {
	for i := 0; i < int(heritage.ChildCount()); i++ {
		child := heritage.Child(i)
		switch child.Type() {
		case "class_heritage":
			extractJSHeritage(child, content, cls)
		case "extends_clause":
			if expr := firstNamedChild(child); expr != nil {
				cls.SuperClass = nodeText(expr, content)
			}
		case "implements_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				if t := child.Child(j); t.Type() == "type_identifier" || t.Type() == "generic_type" {
					cls.Interfaces = append(cls.Interfaces, nodeText(t, content))
				}
			}
		}
	}
}

func extractJSMethod(node *sitter.Node, content []byte, path string) astmodel.ParsedFunction {
	fn := astmodel.ParsedFunction{Loc: locOf(path, node)}
	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = nodeText(name, content)
	}
	fn.Parameters = jsParameters(node, content)
	fn.Calls = jsCalls(node, content)
	text := nodeText(node, content)
	fn.Modifiers.Async = strings.Contains(text, "async ")
	fn.Modifiers.Static = strings.HasPrefix(strings.TrimSpace(text), "static")
	fn.Visibility = astmodel.VisPublic
	if strings.Contains(text, "#"+fn.Name) || strings.HasPrefix(fn.Name, "#") {
		fn.Visibility = astmodel.VisPrivate
	}
	return fn
}

func extractJSField(node *sitter.Node, content []byte, path string, typescript bool) (astmodel.ParsedProperty, bool) {
	name := node.ChildByFieldName("property")
	if name == nil {
		name = childOfType(node, "property_identifier")
	}
	if name == nil {
		return astmodel.ParsedProperty{}, false
	}
	prop := astmodel.ParsedProperty{Name: nodeText(name, content), Visibility: astmodel.VisPublic, Loc: locOf(path, node)}
	if typescript {
		if typ := childOfType(node, "type_annotation"); typ != nil {
			prop.SurfaceType = strings.TrimPrefix(strings.TrimSpace(nodeText(typ, content)), ":")
			prop.SurfaceType = strings.TrimSpace(prop.SurfaceType)
		}
		if strings.Contains(nodeText(node, content), "readonly") {
			prop.Immutable = true
		}
	}
	if value := node.ChildByFieldName("value"); value != nil {
		prop.Initializer = nodeText(value, content)
	}
	return prop, true
}

func jsParameters(node *sitter.Node, content []byte) []astmodel.ParsedParameter {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		params = node.ChildByFieldName("parameter")
		if params == nil {
			return nil
		}
		return []astmodel.ParsedParameter{{Name: nodeText(params, content)}}
	}
	var out []astmodel.ParsedParameter
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		switch child.Type() {
		case "identifier":
			out = append(out, astmodel.ParsedParameter{Name: nodeText(child, content)})
		case "required_parameter", "optional_parameter":
			param := astmodel.ParsedParameter{}
			if pattern := child.ChildByFieldName("pattern"); pattern != nil {
				param.Name = nodeText(pattern, content)
			}
			if typ := childOfType(child, "type_annotation"); typ != nil {
				param.SurfaceType = strings.TrimSpace(strings.TrimPrefix(nodeText(typ, content), ":"))
			}
			out = append(out, param)
		case "rest_pattern":
			if id := firstNamedChild(child); id != nil {
				out = append(out, astmodel.ParsedParameter{Name: nodeText(id, content), Vararg: true})
			}
		case "assignment_pattern":
			param := astmodel.ParsedParameter{}
			if left := child.ChildByFieldName("left"); left != nil {
				param.Name = nodeText(left, content)
			}
			if right := child.ChildByFieldName("right"); right != nil {
				param.DefaultValue = nodeText(right, content)
			}
			out = append(out, param)
		}
	}
	return out
}

// jsCalls finds call_expression sites inside node's body, resolving the
// callee through identifier or member-expression shape just like the
// production JS extractor.
func jsCalls(node *sitter.Node, content []byte) []astmodel.ParsedCall {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var calls []astmodel.ParsedCall
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call_expression" {
			fnNode := n.ChildByFieldName("function")
			argc := 0
			if args := n.ChildByFieldName("arguments"); args != nil {
				argc = countNamedArgs(args)
			}
			if fnNode != nil {
				switch fnNode.Type() {
				case "identifier":
					calls = append(calls, astmodel.ParsedCall{Name: nodeText(fnNode, content), ArgumentCount: argc, Loc: locOf("", n)})
				case "member_expression":
					prop := fnNode.ChildByFieldName("property")
					obj := fnNode.ChildByFieldName("object")
					if prop != nil {
						call := astmodel.ParsedCall{Name: nodeText(prop, content), ArgumentCount: argc, Loc: locOf("", n)}
						if obj != nil {
							call.Receiver = nodeText(obj, content)
						}
						calls = append(calls, call)
					}
				}
			}
		}
		if n.Type() == "new_expression" {
			if ctor := n.ChildByFieldName("constructor"); ctor != nil {
				argc := 0
				if args := n.ChildByFieldName("arguments"); args != nil {
					argc = countNamedArgs(args)
				}
				calls = append(calls, astmodel.ParsedCall{
					Name: nodeText(ctor, content), IsConstructorCall: true, ArgumentCount: argc, Loc: locOf("", n),
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)
	return calls
}

func countNamedArgs(args *sitter.Node) int {
	count := 0
	for i := 0; i < int(args.ChildCount()); i++ {
		t := args.Child(i).Type()
		if t != "(" && t != ")" && t != "," {
			count++
		}
	}
	return count
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			return child
		}
	}
	return nil
}

// jsExportVisibility treats an exported top-level declaration as public
// and everything else as module-private, the closest JS analogue to
// Kotlin/Java visibility modifiers.
func jsExportVisibility(node *sitter.Node, content []byte) astmodel.Visibility {
	parent := node.Parent()
	if parent != nil && (parent.Type() == "export_statement" || parent.Type() == "export_default_declaration") {
		return astmodel.VisPublic
	}
	if grandparent := parent; grandparent != nil && grandparent.Parent() != nil && grandparent.Parent().Type() == "export_statement" {
		return astmodel.VisPublic
	}
	return astmodel.VisPrivate
}
