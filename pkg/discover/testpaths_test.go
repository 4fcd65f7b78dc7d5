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

package discover

import "testing"

func TestIsTestPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"src/main/kotlin/com/example/Service.kt", false},
		{"src/test/kotlin/com/example/ServiceTest.kt", true},
		{"src/androidTest/java/com/example/FlowIT.java", true},
		{"pkg/__tests__/widget.test.ts", true},
		{"pkg/integrationTest/suite.kt", true},
		{"src/main/java/com/example/UserServiceTest.java", true},
		{"src/main/java/com/example/PaymentSpec.java", true},
		{"src/main/ts/feature.spec.ts", true},
		{"src/main/java/com/example/MockUserRepo.java", true},
		{"src/main/java/com/example/FakeClock.java", true},
		{"src/main/java/com/example/StubGateway.java", true},
		{"src/main/java/com/example/TestUtilsForUsers.java", true},
		{"src/main/java/com/example/TestHelper.java", true},
		{"src/main/java/com/example/TestFixtureBase.java", true},
		{"src/main/java/com/example/UserRepository.java", false},
		{"src/main/java/com/example/Contestant.java", false},
	}
	for _, c := range cases {
		if got := IsTestPath(c.path); got != c.want {
			t.Errorf("IsTestPath(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}
