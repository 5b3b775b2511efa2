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

// Package nrf52 contains drivers for peripherals of the Nordic nRF52 family.
//
// Every nRF52 peripheral occupies a 4KB register block. The peripheral ID is
// also the IRQ number, so that peripheral n has its registers at
// 0x40000000+n*0x1000 and raises IRQn. Within the block, tasks are triggered
// by writing one to the task register and events are reported by registers
// starting at offset 0x100. An event register reads as non-zero when the
// event has happened and is cleared by writing zero.
//
// Drivers are not singletons. They are created with an explicit memio.Bus
// and interrupt controller and are owned by whatever created them, usually
// the board package.
package nrf52
