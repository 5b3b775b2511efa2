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

// Package nvic is the interrupt controller abstraction. It is made up of a
// software dispatch table, which maps exception numbers to installable
// handlers, and a handful of operations on the NVIC registers (enable,
// disable, pend and priority).
//
// Exception numbers are of type IRQ. System exceptions are negative and
// device interrupts are zero or positive. The most negative valid number is
// Offset, which is used to normalise an IRQ into an index into the table:
//
//	index = irqn - Offset
//
// An IRQ that normalises to an index outside the table is a caller error and
// is reported with a RangeError. The table never indexes out of bounds and
// never calls a nil handler.
//
// Init() should be called once during startup. It relocates the vector table
// to the address given in the Config and installs a blocking handler on
// every system exception, so that an unexpected fault halts rather than
// returning to code in an unknown state.
package nvic
