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

// Package syscontrol gives access to the Cortex-M System Control Block and
// implements relocation of the exception vector table.
package syscontrol

import (
	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/logger"
	"github.com/jetsetilly/cortexhal/memio"
)

// System Control Block register addresses.
const (
	SCBBase = 0xe000ed00
	ICSR    = SCBBase + 0x04
	VTOR    = SCBBase + 0x08
)

// Interrupt Control and State Register bits.
const (
	ICSRNMIPendSet = 1 << 31
	ICSRPendSVSet  = 1 << 28
	ICSRPendSVClr  = 1 << 27
	ICSRPendSTSet  = 1 << 26
	ICSRPendSTClr  = 1 << 25
)

// WordSize is the size in bytes of one vector table slot.
const WordSize = 4

// minAlignment is the smallest alignment VTOR accepts on any Cortex-M.
const minAlignment = 128

// MaxCount is the largest count accepted by Relocate(). The table it
// describes is half the 32bit address space, the largest table that has an
// alignment.
const MaxCount = 1<<31/WordSize - 1

// CountError is returned by Relocate() when the number of vectors is negative
// or describes a table larger than MaxCount allows.
const CountError = "syscontrol: invalid number of vectors (%d)"

// AlignmentError is returned by Relocate() when the new address does not
// satisfy the alignment required by VTOR.
const AlignmentError = "syscontrol: vector table at %08x must be aligned to %d bytes"

// Alignment returns the alignment required for a vector table holding count
// vectors plus the initial stack pointer. The table must be aligned to its
// size rounded up to the next power of two, and never less than 128 bytes.
//
// Returns zero if count is outside the range 0 to MaxCount.
func Alignment(count int) uint32 {
	if count < 0 || count > MaxCount {
		return 0
	}
	size := uint32(count+1) * WordSize
	align := uint32(minAlignment)
	for align < size {
		align <<= 1
	}
	return align
}

// VectorTable returns the address of the active vector table.
func VectorTable(bus memio.Bus) uint32 {
	return bus.Read32(VTOR)
}

// Relocate copies the active vector table to newBase and makes the copy
// authoritative by writing newBase to VTOR.
//
// The count argument is the number of vectors, not including the initial
// stack pointer in slot zero. count+1 words are copied in order.
//
// Relocate should be called once, early in startup and before interrupts are
// unmasked. If count is out of range a CountError is returned and if newBase
// is not suitably aligned an AlignmentError is returned. In both cases no
// memory is accessed.
func Relocate(bus memio.Bus, newBase uint32, count int) error {
	if count < 0 || count > MaxCount {
		return curated.Errorf(CountError, count)
	}

	align := Alignment(count)
	if newBase%align != 0 {
		return curated.Errorf(AlignmentError, newBase, align)
	}

	oldBase := bus.Read32(VTOR)

	src := oldBase
	dst := newBase
	for i := 0; i <= count; i++ {
		bus.Write32(dst, bus.Read32(src))
		src += WordSize
		dst += WordSize
	}

	bus.Write32(VTOR, newBase)

	logger.Logf(logger.Allow, "syscontrol", "vector table relocated from %08x to %08x (%d vectors)", oldBase, newBase, count)

	return nil
}
