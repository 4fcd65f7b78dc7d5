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
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// sitterPool wraps a sync.Pool of *sitter.Parser for one language.
// tree-sitter parsers carry mutable internal state and are not safe for
// concurrent use, so every call site must borrow one from its pool and
// return it when done — the same pattern the teacher's TreeSitterParser
// uses for its per-language goPool/pyPool/jsPool/tsPool fields.
type sitterPool struct {
	pool sync.Pool
}

func (s *sitterPool) get() *sitter.Parser {
	return s.pool.Get().(*sitter.Parser)
}

func (s *sitterPool) put(p *sitter.Parser) {
	s.pool.Put(p)
}

type initOnce struct {
	once sync.Once
}

// initPools lazily constructs the four language pools on first use.
func (p *Parser) initPools() {
	p.poolInit.once.Do(func() {
		p.kotlinPool.pool.New = func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(kotlin.GetLanguage())
			return parser
		}
		p.javaPool.pool.New = func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(java.GetLanguage())
			return parser
		}
		p.javascriptPool.pool.New = func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(javascript.GetLanguage())
			return parser
		}
		p.typescriptPool.pool.New = func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(typescript.GetLanguage())
			return parser
		}
	})
}
