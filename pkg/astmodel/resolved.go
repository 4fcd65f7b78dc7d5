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

package astmodel

// ResolutionStrategy names which rung of the resolver's strategy ladder
// produced a ResolvedCall, kept on the edge for explainability and for
// the TESTABLE PROPERTIES scenarios that assert a specific strategy fired.
type ResolutionStrategy string

const (
	StrategyQualifiedCall     ResolutionStrategy = "qualified_call"
	StrategyConstructorCall   ResolutionStrategy = "constructor_call"
	StrategyExplicitReceiver  ResolutionStrategy = "explicit_receiver_type"
	StrategyLocalVariable     ResolutionStrategy = "local_variable_receiver"
	StrategyClassProperty     ResolutionStrategy = "class_property_receiver"
	StrategyExtensionFunction ResolutionStrategy = "extension_function"
	StrategyCurrentClass      ResolutionStrategy = "current_class_method"
	StrategyNamedImport       ResolutionStrategy = "named_import"
	StrategySamePackage       ResolutionStrategy = "same_package"
	StrategyWildcardImport    ResolutionStrategy = "wildcard_import"
	StrategyStdlib            ResolutionStrategy = "stdlib"
)

// ResolvedCall is one call site the resolver matched to a concrete
// declaration (or to a stdlib/external stub).
type ResolvedCall struct {
	CallerFQN string
	CalleeFQN string
	Strategy  ResolutionStrategy
	IsStdlib  bool
	Loc       SourceLocation
}

// UnresolvedCallSite is a call the strategy ladder exhausted without a
// match, carried forward instead of raised as an error per spec.md §7.
type UnresolvedCallSite struct {
	CallerFQN  string
	CalleeName string
	FilePath   string
	Line       int
	Reason     string
}

// ResolutionStats summarizes one file's (or one project's) resolution
// pass, the generalized analogue of the teacher's IngestionResult
// counters, scoped down to what stage C itself produces.
type ResolutionStats struct {
	TotalCallSites      int
	ResolvedCallSites    int
	UnresolvedCallSites  int
	StrategyCounts      map[ResolutionStrategy]int
}

// ResolvedFile is stage C's output for one source file: every call site
// the file's functions contain, each either resolved to a callee FQN or
// carried forward as unresolved.
type ResolvedFile struct {
	FilePath        string
	Calls           []ResolvedCall
	UnresolvedCalls []UnresolvedCallSite
	Stats           ResolutionStats
}
