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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and are created with the
// Errorf() function, which takes a formatting pattern and placeholder values.
//
// The pattern is remembered by the error and is what distinguishes one
// curated error from another. Packages that want callers to be able to react
// to a specific failure export the pattern as a const string:
//
//	const RangeError = "nvic: irq %d out of range"
//
//	func (t *Table) Dispatch(irqn IRQ) error {
//		...
//		return curated.Errorf(RangeError, irqn)
//	}
//
// The caller can then test for the failure with Is():
//
//	if curated.Is(err, nvic.RangeError) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain, for errors that have been wrapped by another curated
// error:
//
//	err := curated.Errorf("board: %v", curated.Errorf(nvic.RangeError, 99))
//	curated.Has(err, nvic.RangeError) // true
//	curated.Is(err, nvic.RangeError)  // false
//
// The IsAny() function answers whether the error was created by Errorf() at
// all. Uncurated errors are unexpected errors.
//
// The Error() implementation normalises the message so that the chain does
// not contain duplicate adjacent parts. A chain is made up of parts
// separated by the sub-string ": ". Wrapping "nvic: foo" with the pattern
// "nvic: %v" produces "nvic: foo" and not "nvic: nvic: foo".
package curated
