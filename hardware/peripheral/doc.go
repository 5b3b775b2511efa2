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

// Package peripheral is the base for hardware peripheral drivers. A
// Peripheral has a fixed register base address and a fixed IRQ number.
//
// Many peripherals raise a single physical interrupt for several logical
// conditions. Such a peripheral is created with NewWithEvents() and an event
// table, one slot per hardware event bit. The peripheral's HandleEvents()
// function is then installed as the IRQ handler and fans the interrupt out to
// the EventHandler registered for each active event.
//
// Concrete drivers supply the register knowledge through the EventSource
// interface: whether an event is active and how to clear it. The scan loop
// itself lives here and is shared by every driver.
package peripheral
