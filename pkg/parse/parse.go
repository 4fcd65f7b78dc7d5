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

// Package parse implements stage A of the pipeline: turning one source
// file's bytes into an astmodel.ParsedFile. Each language gets its own
// tree-sitter grammar and its own extraction walk; none of them know
// about each other or about any other file.
package parse

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/codegraph/pkg/astmodel"
)

// LanguageForExt maps a lowercase file extension (without the dot) to a
// supported language. Files with unrecognized extensions are skipped by
// callers before they ever reach Parser.
var LanguageForExt = map[string]astmodel.Language{
	"kt":  astmodel.Kotlin,
	"kts": astmodel.Kotlin,
	"java": astmodel.Java,
	"ts":  astmodel.TypeScript,
	"tsx": astmodel.TypeScript,
	"js":  astmodel.JavaScript,
	"jsx": astmodel.JavaScript,
	"mjs": astmodel.JavaScript,
	"cjs": astmodel.JavaScript,
}

// Parser turns source bytes into a language-neutral ParsedFile. A single
// Parser instance is safe for concurrent use by multiple goroutines; the
// underlying tree-sitter parsers are pooled per language internally.
type Parser struct {
	logger *slog.Logger

	kotlinPool     sitterPool
	javaPool       sitterPool
	javascriptPool sitterPool
	typescriptPool sitterPool
	poolInit       initOnce
}

// New creates a Parser. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseFile reads path from disk, parses it with the grammar matching
// language, and returns the extracted ParsedFile. Parse failures are
// never fatal: a syntax error produces a ParsedFile carrying whatever
// was recovered plus a astmodel.DiagParseFailure diagnostic, per
// spec.md §7.
func (p *Parser) ParseFile(path string, language astmodel.Language) (*astmodel.ParsedFile, error) {
	p.initPools()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ParseSource(path, language, content)
}

// ParseSource parses already-read source bytes. Exposed separately so
// callers (and tests) can avoid round-tripping through the filesystem.
func (p *Parser) ParseSource(path string, language astmodel.Language, content []byte) (*astmodel.ParsedFile, error) {
	p.initPools()

	switch language {
	case astmodel.Kotlin:
		parser := p.kotlinPool.get()
		defer p.kotlinPool.put(parser)
		return p.parseKotlin(parser, path, content)
	case astmodel.Java:
		parser := p.javaPool.get()
		defer p.javaPool.put(parser)
		return p.parseJava(parser, path, content)
	case astmodel.JavaScript:
		parser := p.javascriptPool.get()
		defer p.javascriptPool.put(parser)
		return p.parseJavaScript(parser, path, content)
	case astmodel.TypeScript:
		parser := p.typescriptPool.get()
		defer p.typescriptPool.put(parser)
		return p.parseTypeScript(parser, path, content)
	default:
		return nil, fmt.Errorf("parse %s: unsupported language %q", path, language)
	}
}

// parseTree runs a pooled parser over content and returns the resulting
// tree. Syntax errors do not fail it (tree-sitter still yields a tree
// with ERROR nodes) and it does not log them; only a failure of the
// parse call itself is returned as an error.
func (p *Parser) parseTree(parser *sitter.Parser, content []byte) (*sitter.Tree, error) {
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	return tree, nil
}
