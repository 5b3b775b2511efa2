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

// Package board assembles the drivers for a development board. It replaces
// the file-scope peripheral singletons of a traditional HAL with a Board
// value that owns the interrupt table and every peripheral, so that the order
// of initialisation is explicit.
//
// Boards are described in YAML. A number of descriptions are built in (see
// Builtin()) and others can be loaded from a file with Load(). A description
// looks like this:
//
//	name: nrf52dk
//	chip: nrf52832
//	num_irqs: 39
//	vector_base: 0x20000000
//	leds: [17, 18, 19, 20]
//	peripherals:
//	  - power
//	  - rtc0
//
// The Simulation type runs a Board on simulated memory and a simulated
// processor core. It is used by the cortexhal command and by tests.
package board
