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

// Package modalflag wraps the flag package of the standard library so that a
// program can have modes, each mode with its own flags and arguments.
//
// Where flag.FlagSet takes the arguments in its Parse() function, a Modes
// value is given the arguments with NewArgs() and Parse() takes no
// arguments. This is so that the same argument list can be parsed a layer at
// a time:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("run", "hwtest", "monitor", "dump")
//	echo := md.AddBool("echo", false, "echo log to stdout")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
// The first argument after the flags is compared with the list of sub-modes.
// If it matches, Mode() returns the sub-mode. If it does not, Mode() returns
// the first sub-mode in the list, which is the default. Comparisons are not
// case sensitive and modes are always returned in upper case.
//
// After a mode has been selected, NewMode() starts a new layer. Flags for the
// selected mode are added and Parse() is called again:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		ticks := md.AddInt("ticks", 16, "number of RTC ticks")
//		_, _ = md.Parse()
//		run(*ticks, md.RemainingArgs())
//	}
//
// Path() returns every mode selected so far, separated by a slash. It is
// useful in help and error messages.
package modalflag
