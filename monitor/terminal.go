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

//go:build !windows

package monitor

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/jetsetilly/cortexhal/curated"
)

// Terminal is a wrapper for "github.com/pkg/term/termios". It switches the
// input terminal between canonical and raw mode.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr unix.Termios
	rawAttr unix.Termios
}

// Initialise the Terminal. Input must be a terminal device.
func (pt *Terminal) Initialise(input *os.File, output *os.File) error {
	if input == nil || output == nil {
		return curated.Errorf(TerminalError, "input and output files are required")
	}

	pt.input = input
	pt.output = output

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return curated.Errorf(TerminalError, err)
	}
	pt.rawAttr = pt.canAttr
	termios.Cfmakeraw(&pt.rawAttr)

	return nil
}

// RawMode puts the terminal into raw mode. Key presses are available
// immediately and are not echoed.
func (pt *Terminal) RawMode() error {
	if err := termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.rawAttr); err != nil {
		return curated.Errorf(TerminalError, err)
	}
	return nil
}

// CanonicalMode restores the terminal to the mode it was in when Initialise()
// was called.
func (pt *Terminal) CanonicalMode() error {
	if err := termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr); err != nil {
		return curated.Errorf(TerminalError, err)
	}
	return nil
}

// Flush discards unread input.
func (pt *Terminal) Flush() error {
	return termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH)
}

// Read implements the io.Reader interface.
func (pt *Terminal) Read(p []byte) (int, error) {
	return pt.input.Read(p)
}

// Write implements the io.Writer interface. In raw mode a newline does not
// return the cursor so every newline is written as CR LF.
func (pt *Terminal) Write(p []byte) (int, error) {
	for _, b := range p {
		var err error
		if b == '\n' {
			_, err = pt.output.Write([]byte{'\r', '\n'})
		} else {
			_, err = pt.output.Write([]byte{b})
		}
		if err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
