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

// parseKotlin extracts packages, imports, classes, functions, properties
// and calls from Kotlin source using tree-sitter-kotlin.
//
// Extracts:
//   - package_header / import_header
//   - class_declaration (class, data class, sealed class, object, interface)
//   - function_declaration, including extension functions and `suspend fun`
//   - property_declaration (top-level and member `val`/`var`)
//   - call_expression and navigation_expression (method-call) call sites
func (p *Parser) parseKotlin(parser *sitter.Parser, path string, content []byte) (*astmodel.ParsedFile, error) {
	tree, err := p.parseTree(parser, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	pf := &astmodel.ParsedFile{FilePath: path, Language: astmodel.Kotlin}

	if root.HasError() {
		if n := countErrors(root); n > 0 {
			p.logger.Warn("parse.kotlin.syntax_errors", slog.String("path", path), slog.Int("error_count", n))
			pf.Diagnostics = append(pf.Diagnostics, astmodel.Diagnostic{
				Kind: astmodel.DiagParseFailure, Path: path, Message: "kotlin syntax errors recovered",
			})
		}
	}

	pf.PackageName = kotlinPackageName(root, content)
	if pf.PackageName == "" {
		pf.PackageName = inferJVMPackageFromPath(path)
	}
	pf.Imports = kotlinImports(root, content)

	walkKotlin(root, content, path, pf)
	return pf, nil
}

func kotlinPackageName(root *sitter.Node, content []byte) string {
	header := childOfType(root, "package_header")
	if header == nil {
		return ""
	}
	if id := childOfType(header, "identifier"); id != nil {
		return nodeText(id, content)
	}
	return ""
}

func kotlinImports(root *sitter.Node, content []byte) []astmodel.ParsedImport {
	var out []astmodel.ParsedImport
	for _, header := range childrenOfType(root, "import_header") {
		id := childOfType(header, "identifier")
		if id == nil {
			continue
		}
		path := nodeText(id, content)
		wildcard := strings.Contains(nodeText(header, content), ".*")
		alias := ""
		if aliasNode := childOfType(header, "import_alias"); aliasNode != nil {
			if simple := childOfType(aliasNode, "type_identifier"); simple != nil {
				alias = nodeText(simple, content)
			}
		}
		out = append(out, astmodel.ParsedImport{
			ImportPath: path,
			Alias:      alias,
			Wildcard:   wildcard,
			Loc:        locOf("", header),
		})
	}
	return out
}

// walkKotlin recursively descends the file, populating pf's top-level
// declarations. Class bodies recurse into extractKotlinClass instead of
// falling through to the generic walk, so members are attributed to
// their class rather than hoisted to file scope.
func walkKotlin(node *sitter.Node, content []byte, path string, pf *astmodel.ParsedFile) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "class_declaration":
		pf.Classes = append(pf.Classes, extractKotlinClass(node, content, path))
		return
	case "object_declaration":
		cls := extractKotlinClass(node, content, path)
		cls.Kind = astmodel.KindObject
		pf.Classes = append(pf.Classes, cls)
		return
	case "function_declaration":
		if !isInside(node, "class_body") {
			pf.Functions = append(pf.Functions, extractKotlinFunction(node, content, path))
		}
	case "property_declaration":
		if !isInside(node, "class_body") {
			if prop, ok := extractKotlinProperty(node, content, path); ok {
				pf.Properties = append(pf.Properties, prop)
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkKotlin(node.Child(i), content, path, pf)
	}
}

func extractKotlinClass(node *sitter.Node, content []byte, path string) astmodel.ParsedClass {
	cls := astmodel.ParsedClass{Loc: locOf(path, node)}
	if name := childOfType(node, "type_identifier"); name != nil {
		cls.Name = nodeText(name, content)
	}
	cls.Kind = astmodel.KindClass

	mods := childOfType(node, "modifiers")
	text := nodeText(node, content)
	if strings.Contains(text, "interface ") {
		cls.Kind = astmodel.KindInterface
	}
	if strings.Contains(text, "enum class") {
		cls.Kind = astmodel.KindEnum
	}
	if mods != nil {
		modText := nodeText(mods, content)
		cls.Modifiers.Abstract = strings.Contains(modText, "abstract")
		cls.Modifiers.Sealed = strings.Contains(modText, "sealed")
		cls.Modifiers.Data = strings.Contains(modText, "data")
		cls.Visibility = kotlinVisibility(modText)
	} else {
		cls.Visibility = astmodel.VisPublic
	}
	cls.Annotations = kotlinAnnotations(node, content, path)

	for _, spec := range childrenOfType(node, "delegation_specifier") {
		specText := strings.TrimSpace(nodeText(spec, content))
		if specText == "" {
			continue
		}
		if cls.SuperClass == "" && !strings.Contains(specText, ",") {
			cls.SuperClass = firstTypeToken(specText)
		}
		cls.Interfaces = append(cls.Interfaces, firstTypeToken(specText))
	}

	if ctor := childOfType(node, "primary_constructor"); ctor != nil {
		for _, param := range childrenOfType(ctor, "class_parameter") {
			if name := childOfType(param, "simple_identifier"); name != nil {
				prop := astmodel.ParsedProperty{
					Name: nodeText(name, content),
					Loc:  locOf(path, param),
				}
				if typ := childOfType(param, "user_type"); typ != nil {
					prop.SurfaceType = nodeText(typ, content)
				}
				prop.Immutable = strings.Contains(nodeText(param, content), "val ")
				cls.Properties = append(cls.Properties, prop)
			}
		}
	}

	body := childOfType(node, "class_body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "function_declaration":
			cls.Functions = append(cls.Functions, extractKotlinFunction(child, content, path))
		case "property_declaration":
			if prop, ok := extractKotlinProperty(child, content, path); ok {
				cls.Properties = append(cls.Properties, prop)
			}
		case "secondary_constructor":
			cls.SecondaryCtors = append(cls.SecondaryCtors, astmodel.ParsedFunction{
				Name: "<init>", IsConstructor: true, Loc: locOf(path, child),
			})
		case "companion_object":
			companion := extractKotlinClass(child, content, path)
			companion.Kind = astmodel.KindObject
			if name := childOfType(child, "type_identifier"); name != nil {
				companion.Name = nodeText(name, content)
			} else {
				companion.Name = "Companion"
			}
			cls.CompanionObject = &companion
		case "class_declaration", "object_declaration":
			nested := extractKotlinClass(child, content, path)
			if child.Type() == "object_declaration" {
				nested.Kind = astmodel.KindObject
			}
			cls.NestedClasses = append(cls.NestedClasses, nested)
		}
	}
	return cls
}

func extractKotlinFunction(node *sitter.Node, content []byte, path string) astmodel.ParsedFunction {
	fn := astmodel.ParsedFunction{Loc: locOf(path, node)}
	if name := childOfType(node, "simple_identifier"); name != nil {
		fn.Name = nodeText(name, content)
	}
	fn.Parameters = kotlinParameters(node, content)
	fn.Calls = kotlinCalls(node, content)
	fn.Annotations = kotlinAnnotations(node, content, path)

	if recv := childOfType(node, "receiver_type"); recv != nil {
		fn.ReceiverType = strings.TrimSuffix(nodeText(recv, content), ".")
		fn.IsExtension = true
	}
	if ret := childOfType(node, "user_type"); ret != nil && isInside(ret, "function_declaration") && ret.Parent() == node {
		fn.ReturnType = nodeText(ret, content)
	}
	if mods := childOfType(node, "modifiers"); mods != nil {
		modText := nodeText(mods, content)
		fn.Modifiers.Abstract = strings.Contains(modText, "abstract")
		fn.Modifiers.Async = strings.Contains(modText, "suspend")
		fn.Modifiers.Inline = strings.Contains(modText, "inline")
		fn.Modifiers.Infix = strings.Contains(modText, "infix")
		fn.Modifiers.Operator = strings.Contains(modText, "operator")
		fn.Visibility = kotlinVisibility(modText)
	} else {
		fn.Visibility = astmodel.VisPublic
	}
	return fn
}

func kotlinParameters(node *sitter.Node, content []byte) []astmodel.ParsedParameter {
	params := childOfType(node, "function_value_parameters")
	if params == nil {
		return nil
	}
	var out []astmodel.ParsedParameter
	for _, p := range childrenOfType(params, "parameter") {
		param := astmodel.ParsedParameter{}
		if name := childOfType(p, "simple_identifier"); name != nil {
			param.Name = nodeText(name, content)
		}
		if typ := childOfType(p, "user_type"); typ != nil {
			param.SurfaceType = nodeText(typ, content)
		}
		out = append(out, param)
	}
	return out
}

// kotlinCalls finds call_expression and navigation_expression (method
// call) sites inside node's body, the same two query shapes the
// reference Kotlin extractor in the corpus uses.
func kotlinCalls(node *sitter.Node, content []byte) []astmodel.ParsedCall {
	body := childOfType(node, "function_body")
	if body == nil {
		return nil
	}
	var calls []astmodel.ParsedCall
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "call_expression":
			callee := firstChild(n)
			if callee == nil {
				break
			}
			args := childOfType(n, "call_suffix")
			argc := 0
			if args != nil {
				argc = len(childrenOfType(args, "value_argument"))
			}
			switch callee.Type() {
			case "simple_identifier":
				calls = append(calls, astmodel.ParsedCall{
					Name: nodeText(callee, content), ArgumentCount: argc, Loc: locOf("", n),
				})
			case "navigation_expression":
				text := nodeText(callee, content)
				parts := splitDotted(text)
				if len(parts) > 0 {
					calls = append(calls, astmodel.ParsedCall{
						Name:          parts[len(parts)-1],
						Receiver:      strings.Join(parts[:len(parts)-1], "."),
						ArgumentCount: argc,
						Loc:           locOf("", n),
					})
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)
	return calls
}

func extractKotlinProperty(node *sitter.Node, content []byte, path string) (astmodel.ParsedProperty, bool) {
	decl := childOfType(node, "variable_declaration")
	if decl == nil {
		return astmodel.ParsedProperty{}, false
	}
	name := childOfType(decl, "simple_identifier")
	if name == nil {
		return astmodel.ParsedProperty{}, false
	}
	prop := astmodel.ParsedProperty{
		Name:      nodeText(name, content),
		Immutable: strings.HasPrefix(strings.TrimSpace(nodeText(node, content)), "val"),
		Loc:       locOf(path, node),
	}
	if typ := childOfType(decl, "user_type"); typ != nil {
		prop.SurfaceType = nodeText(typ, content)
	}
	if mods := childOfType(node, "modifiers"); mods != nil {
		prop.Visibility = kotlinVisibility(nodeText(mods, content))
	} else {
		prop.Visibility = astmodel.VisPublic
	}
	return prop, true
}

func kotlinAnnotations(node *sitter.Node, content []byte, path string) []astmodel.Annotation {
	mods := childOfType(node, "modifiers")
	if mods == nil {
		return nil
	}
	var out []astmodel.Annotation
	for _, ann := range childrenOfType(mods, "annotation") {
		if typ := childOfType(ann, "user_type"); typ != nil {
			out = append(out, astmodel.Annotation{Name: nodeText(typ, content), Loc: locOf(path, ann)})
		}
	}
	return out
}

func kotlinVisibility(modText string) astmodel.Visibility {
	switch {
	case strings.Contains(modText, "private"):
		return astmodel.VisPrivate
	case strings.Contains(modText, "protected"):
		return astmodel.VisProtected
	case strings.Contains(modText, "internal"):
		return astmodel.VisInternal
	default:
		return astmodel.VisPublic
	}
}

func firstChild(n *sitter.Node) *sitter.Node {
	if n == nil || n.ChildCount() == 0 {
		return nil
	}
	return n.Child(0)
}

// firstTypeToken trims constructor-call parens off a delegation
// specifier, e.g. "BaseClass(arg)" -> "BaseClass".
func firstTypeToken(specText string) string {
	if idx := strings.Index(specText, "("); idx != -1 {
		return strings.TrimSpace(specText[:idx])
	}
	return strings.TrimSpace(specText)
}
