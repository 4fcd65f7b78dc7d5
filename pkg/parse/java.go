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

// parseJava extracts packages, imports, classes/interfaces/enums,
// methods, fields and call sites from Java source using
// tree-sitter-java.
func (p *Parser) parseJava(parser *sitter.Parser, path string, content []byte) (*astmodel.ParsedFile, error) {
	tree, err := p.parseTree(parser, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	pf := &astmodel.ParsedFile{FilePath: path, Language: astmodel.Java}

	if root.HasError() {
		if n := countErrors(root); n > 0 {
			p.logger.Warn("parse.java.syntax_errors", slog.String("path", path), slog.Int("error_count", n))
			pf.Diagnostics = append(pf.Diagnostics, astmodel.Diagnostic{
				Kind: astmodel.DiagParseFailure, Path: path, Message: "java syntax errors recovered",
			})
		}
	}

	pf.PackageName = javaPackageName(root, content)
	if pf.PackageName == "" {
		pf.PackageName = inferJVMPackageFromPath(path)
	}
	pf.Imports = javaImports(root, content)

	for i := 0; i < int(root.ChildCount()); i++ {
		walkJavaTopLevel(root.Child(i), content, path, pf)
	}
	return pf, nil
}

func javaPackageName(root *sitter.Node, content []byte) string {
	decl := childOfType(root, "package_declaration")
	if decl == nil {
		return ""
	}
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return nodeText(child, content)
		}
	}
	return ""
}

func javaImports(root *sitter.Node, content []byte) []astmodel.ParsedImport {
	var out []astmodel.ParsedImport
	for _, decl := range childrenOfType(root, "import_declaration") {
		text := nodeText(decl, content)
		wildcard := strings.Contains(text, ".*")
		static := strings.Contains(text, "static ")
		var pathNode *sitter.Node
		for i := 0; i < int(decl.ChildCount()); i++ {
			child := decl.Child(i)
			if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
				pathNode = child
			}
		}
		if pathNode == nil {
			continue
		}
		importPath := nodeText(pathNode, content)
		if wildcard {
			importPath = strings.TrimSuffix(importPath, ".*")
		}
		out = append(out, astmodel.ParsedImport{
			ImportPath: importPath,
			Wildcard:   wildcard,
			ImportedName: func() string {
				if static {
					return "static"
				}
				return ""
			}(),
			Loc: locOf("", decl),
		})
	}
	return out
}

func walkJavaTopLevel(node *sitter.Node, content []byte, path string, pf *astmodel.ParsedFile) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration", "annotation_type_declaration":
		pf.Classes = append(pf.Classes, extractJavaClass(node, content, path))
	default:
		for i := 0; i < int(node.ChildCount()); i++ {
			walkJavaTopLevel(node.Child(i), content, path, pf)
		}
	}
}

func extractJavaClass(node *sitter.Node, content []byte, path string) astmodel.ParsedClass {
	cls := astmodel.ParsedClass{Loc: locOf(path, node)}
	if name := childOfType(node, "identifier"); name != nil {
		cls.Name = nodeText(name, content)
	}
	switch node.Type() {
	case "interface_declaration":
		cls.Kind = astmodel.KindInterface
	case "enum_declaration":
		cls.Kind = astmodel.KindEnum
	case "annotation_type_declaration":
		cls.Kind = astmodel.KindAnnotation
	default:
		cls.Kind = astmodel.KindClass
	}

	if mods := childOfType(node, "modifiers"); mods != nil {
		modText := nodeText(mods, content)
		cls.Modifiers.Abstract = strings.Contains(modText, "abstract")
		cls.Modifiers.Final = strings.Contains(modText, "final")
		cls.Visibility = javaVisibility(modText)
		cls.Annotations = javaAnnotations(mods, content, path)
	} else {
		cls.Visibility = javaDefaultVisibility()
	}

	if super := childOfType(node, "superclass"); super != nil {
		if typ := childOfType(super, "type_identifier"); typ != nil {
			cls.SuperClass = nodeText(typ, content)
		} else {
			cls.SuperClass = strings.TrimSpace(strings.TrimPrefix(nodeText(super, content), "extends"))
		}
	}
	if interfaces := childOfType(node, "super_interfaces"); interfaces != nil {
		if list := childOfType(interfaces, "type_list"); list != nil {
			for i := 0; i < int(list.ChildCount()); i++ {
				child := list.Child(i)
				if child.Type() == "type_identifier" || child.Type() == "generic_type" {
					cls.Interfaces = append(cls.Interfaces, nodeText(child, content))
				}
			}
		}
	}
	if node.Type() == "interface_declaration" {
		if ext := childOfType(node, "extends_interfaces"); ext != nil {
			if list := childOfType(ext, "type_list"); list != nil {
				for i := 0; i < int(list.ChildCount()); i++ {
					child := list.Child(i)
					if child.Type() == "type_identifier" {
						cls.Interfaces = append(cls.Interfaces, nodeText(child, content))
					}
				}
			}
		}
	}

	var body *sitter.Node
	for _, t := range []string{"class_body", "interface_body", "enum_body"} {
		if b := childOfType(node, t); b != nil {
			body = b
			break
		}
	}
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "method_declaration":
			cls.Functions = append(cls.Functions, extractJavaMethod(child, content, path, cls.Name))
		case "constructor_declaration":
			fn := extractJavaMethod(child, content, path, cls.Name)
			fn.IsConstructor = true
			fn.Name = "<init>"
			cls.Functions = append(cls.Functions, fn)
		case "field_declaration":
			cls.Properties = append(cls.Properties, extractJavaFields(child, content, path)...)
		case "class_declaration", "interface_declaration", "enum_declaration":
			nested := extractJavaClass(child, content, path)
			if hasModifier(child, content, "static") {
				cls.NestedClasses = append(cls.NestedClasses, nested)
			} else {
				cls.NestedClasses = append(cls.NestedClasses, nested)
			}
		}
	}
	return cls
}

func extractJavaMethod(node *sitter.Node, content []byte, path, className string) astmodel.ParsedFunction {
	fn := astmodel.ParsedFunction{Loc: locOf(path, node)}
	if name := childOfType(node, "identifier"); name != nil {
		fn.Name = nodeText(name, content)
	} else {
		fn.Name = className
	}
	if ret := childOfType(node, "type_identifier"); ret != nil {
		fn.ReturnType = nodeText(ret, content)
	}
	fn.Parameters = javaParameters(node, content)
	fn.Calls = javaCalls(node, content)

	if mods := childOfType(node, "modifiers"); mods != nil {
		modText := nodeText(mods, content)
		fn.Modifiers.Abstract = strings.Contains(modText, "abstract")
		fn.Modifiers.Static = strings.Contains(modText, "static")
		fn.Visibility = javaVisibility(modText)
		fn.Annotations = javaAnnotations(mods, content, path)
	} else {
		fn.Visibility = javaDefaultVisibility()
	}
	return fn
}

func javaParameters(node *sitter.Node, content []byte) []astmodel.ParsedParameter {
	params := childOfType(node, "formal_parameters")
	if params == nil {
		return nil
	}
	var out []astmodel.ParsedParameter
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child.Type() != "formal_parameter" && child.Type() != "spread_parameter" {
			continue
		}
		param := astmodel.ParsedParameter{Vararg: child.Type() == "spread_parameter"}
		if name := childOfType(child, "identifier"); name != nil {
			param.Name = nodeText(name, content)
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			sub := child.Child(j)
			switch sub.Type() {
			case "type_identifier", "generic_type", "array_type", "integral_type", "boolean_type":
				param.SurfaceType = nodeText(sub, content)
			}
		}
		out = append(out, param)
	}
	return out
}

func extractJavaFields(node *sitter.Node, content []byte, path string) []astmodel.ParsedProperty {
	var typeText string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier", "generic_type", "array_type", "integral_type", "boolean_type":
			typeText = nodeText(child, content)
		}
	}
	visibility := javaDefaultVisibility()
	isFinal := false
	if mods := childOfType(node, "modifiers"); mods != nil {
		modText := nodeText(mods, content)
		visibility = javaVisibility(modText)
		isFinal = strings.Contains(modText, "final")
	}
	var out []astmodel.ParsedProperty
	for _, decl := range childrenOfType(node, "variable_declarator") {
		if name := childOfType(decl, "identifier"); name != nil {
			out = append(out, astmodel.ParsedProperty{
				Name:        nodeText(name, content),
				SurfaceType: typeText,
				Visibility:  visibility,
				Immutable:   isFinal,
				Loc:         locOf(path, decl),
			})
		}
	}
	return out
}

func javaCalls(node *sitter.Node, content []byte) []astmodel.ParsedCall {
	body := childOfType(node, "block")
	if body == nil {
		return nil
	}
	var calls []astmodel.ParsedCall
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "method_invocation" {
			var name, receiver string
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				name = nodeText(nameNode, content)
			}
			if obj := n.ChildByFieldName("object"); obj != nil {
				receiver = nodeText(obj, content)
			}
			argc := 0
			if args := childOfType(n, "argument_list"); args != nil {
				argc = countCommaSeparated(args)
			}
			if name != "" {
				calls = append(calls, astmodel.ParsedCall{Name: name, Receiver: receiver, ArgumentCount: argc, Loc: locOf("", n)})
			}
		}
		if n.Type() == "object_creation_expression" {
			if typ := childOfType(n, "type_identifier"); typ != nil {
				argc := 0
				if args := childOfType(n, "argument_list"); args != nil {
					argc = countCommaSeparated(args)
				}
				calls = append(calls, astmodel.ParsedCall{
					Name: nodeText(typ, content), IsConstructorCall: true, ArgumentCount: argc, Loc: locOf("", n),
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

func countCommaSeparated(args *sitter.Node) int {
	count := 0
	for i := 0; i < int(args.ChildCount()); i++ {
		t := args.Child(i).Type()
		if t != "(" && t != ")" && t != "," {
			count++
		}
	}
	return count
}

func javaAnnotations(mods *sitter.Node, content []byte, path string) []astmodel.Annotation {
	var out []astmodel.Annotation
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		if child.Type() != "marker_annotation" && child.Type() != "annotation" {
			continue
		}
		if name := childOfType(child, "identifier"); name != nil {
			out = append(out, astmodel.Annotation{Name: nodeText(name, content), Loc: locOf(path, child)})
		}
	}
	return out
}

func javaVisibility(modText string) astmodel.Visibility {
	switch {
	case strings.Contains(modText, "private"):
		return astmodel.VisPrivate
	case strings.Contains(modText, "protected"):
		return astmodel.VisProtected
	case strings.Contains(modText, "public"):
		return astmodel.VisPublic
	default:
		return astmodel.VisPackage
	}
}

func javaDefaultVisibility() astmodel.Visibility { return astmodel.VisPackage }

func hasModifier(node *sitter.Node, content []byte, modifier string) bool {
	mods := childOfType(node, "modifiers")
	if mods == nil {
		return false
	}
	return strings.Contains(nodeText(mods, content), modifier)
}
