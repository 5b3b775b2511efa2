// This file is part of CortexHAL.
//
// CortexHAL is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// CortexHAL is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with CortexHAL.  If not, see <https://www.gnu.org/licenses/>.

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a failed expectation with t.Errorf() and
// allow the test to continue. The Demand*() functions use t.Fatalf() and are
// for values that later parts of the test depend on.
//
// ExpectSuccess() and ExpectFailure() test for success or failure under
// generic conditions. It is worth describing how they handle nil because it
// is not obvious. The nil type is considered a success and so will cause
// ExpectFailure() to fail and ExpectSuccess() to succeed. This is because of
// how errors usually work, with nil indicating no error.
//
// The Writer type implements io.Writer and is used to capture output for
// comparison with an expected string.
package test
