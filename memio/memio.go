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

// Package memio defines the memory-mapped I/O accessor used by every driver
// in CortexHAL.
//
// Drivers never dereference register addresses themselves. Instead they are
// given an implementation of the Bus interface. On real hardware (builds with
// the tinygo tag) the Raw type performs volatile loads and stores at the
// address. In tests the mock.Memory type stands in with identical method
// signatures, so that all driver logic can run on the host.
//
// Addresses are opaque integers. The Bus performs no validation and has no
// side effects beyond the memory transaction itself.
package memio

// Bus is the set of typed read and write operations over memory-mapped
// registers.
type Bus interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
}

// Bit returns a 32bit mask with only bit n set.
func Bit(n int) uint32 {
	return 1 << (uint(n) & 31)
}

// SetBits performs a read-modify-write of the 32bit register at addr, setting
// the bits in mask.
func SetBits(bus Bus, addr uint32, mask uint32) {
	bus.Write32(addr, bus.Read32(addr)|mask)
}

// ClearBits performs a read-modify-write of the 32bit register at addr,
// clearing the bits in mask.
func ClearBits(bus Bus, addr uint32, mask uint32) {
	bus.Write32(addr, bus.Read32(addr)&^mask)
}

// Toggle performs a read-modify-write of the 32bit register at addr,
// inverting the bits in mask.
func Toggle(bus Bus, addr uint32, mask uint32) {
	bus.Write32(addr, bus.Read32(addr)^mask)
}
