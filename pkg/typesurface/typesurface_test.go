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

package typesurface

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"List<User>":      "List",
		"User[]":          "User",
		"Array<User>":     "Array",
		"User?":           "User",
		"com.acme.User":   "User",
		"...User":         "User",
		"Map<String,User>": "Map",
		"  User  ":        "User",
		"String":          "String",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenericArgs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Map<String, User>", []string{"String", "User"}},
		{"List<Map<String, User>>", []string{"Map<String, User>"}},
		{"User", nil},
	}
	for _, c := range cases {
		if got := GenericArgs(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("GenericArgs(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsNullable(t *testing.T) {
	if !IsNullable("User?") {
		t.Error("User? should be nullable")
	}
	if IsNullable("User") {
		t.Error("User should not be nullable")
	}
}

func TestIsArray(t *testing.T) {
	cases := map[string]bool{
		"User[]":     true,
		"Array<User>": true,
		"List<User>": true,
		"User":       false,
		"Map<String, User>": false,
	}
	for in, want := range cases {
		if got := IsArray(in); got != want {
			t.Errorf("IsArray(%q) = %v, want %v", in, got, want)
		}
	}
}
