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

//go:build windows

package monitor

import (
	"os"

	"github.com/jetsetilly/cortexhal/curated"
)

// Terminal is not supported on windows.
type Terminal struct{}

// Initialise always fails on windows.
func (pt *Terminal) Initialise(_ *os.File, _ *os.File) error {
	return curated.Errorf(TerminalError, "raw terminal not supported on windows")
}

func (pt *Terminal) RawMode() error              { return nil }
func (pt *Terminal) CanonicalMode() error        { return nil }
func (pt *Terminal) Flush() error                { return nil }
func (pt *Terminal) Read(_ []byte) (int, error)  { return 0, os.ErrInvalid }
func (pt *Terminal) Write(p []byte) (int, error) { return len(p), nil }
