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

// Package mock provides a simulated memory space that implements the
// memio.Bus interface. It allows driver code to be exercised without real
// hardware.
//
// Memory is sparse and word addressed. Addresses that have never been written
// read as zero. 16bit and 8bit accesses operate on the containing 32bit word
// in little-endian order. Unaligned 16bit accesses are not supported.
//
// Every access made through the Bus methods is recorded in a journal. The
// SetValueAt() and ValueAt() functions are for the test itself and bypass
// both the journal and any IO handlers.
//
// IO handlers can be attached to individual word addresses to intercept reads
// and writes. They are used to model registers that do not behave like plain
// memory: set/clear register pairs, write-one-to-clear status registers and
// event flags that fire once.
package mock

import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/jetsetilly/cortexhal/memio"
)

// Op identifies the type of access in a journal entry.
type Op int

// List of valid Op values.
const (
	OpRead32 Op = iota
	OpRead16
	OpRead8
	OpWrite32
	OpWrite16
	OpWrite8
)

func (op Op) String() string {
	switch op {
	case OpRead32:
		return "read32"
	case OpRead16:
		return "read16"
	case OpRead8:
		return "read8"
	case OpWrite32:
		return "write32"
	case OpWrite16:
		return "write16"
	case OpWrite8:
		return "write8"
	}
	return "unknown"
}

// IsWrite returns true if the Op is one of the write operations.
func (op Op) IsWrite() bool {
	return op >= OpWrite32
}

// Entry is a single access in the journal. Value is the value written or,
// for reads, the value returned.
type Entry struct {
	Op    Op
	Addr  uint32
	Value uint32
}

func (e Entry) String() string {
	return fmt.Sprintf("%-7s %08x %08x", e.Op, e.Addr, e.Value)
}

// IOHandler intercepts 32bit accesses to the word addresses it is attached
// to. The stored argument is the value currently held by the memory at that
// address. The value returned by Read32() is the result of the read; the
// value returned by Write32() is the value that the memory will store.
type IOHandler interface {
	Read32(mem *Memory, addr uint32, stored uint32) uint32
	Write32(mem *Memory, addr uint32, stored uint32, value uint32) uint32
}

// Memory is a simulated memory space. Use NewMemory() to create one.
type Memory struct {
	words    map[uint32]uint32
	handlers map[uint32]IOHandler
	journal  []Entry
}

var _ memio.Bus = (*Memory)(nil)

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory() *Memory {
	return &Memory{
		words:    make(map[uint32]uint32),
		handlers: make(map[uint32]IOHandler),
	}
}

// Reset clears memory, the journal and all IO handlers.
func (mem *Memory) Reset() {
	clear(mem.words)
	clear(mem.handlers)
	mem.journal = mem.journal[:0]
}

func (mem *Memory) read(addr uint32) uint32 {
	stored := mem.words[addr]
	if h, ok := mem.handlers[addr]; ok {
		return h.Read32(mem, addr, stored)
	}
	return stored
}

func (mem *Memory) write(addr uint32, value uint32) {
	if h, ok := mem.handlers[addr]; ok {
		mem.words[addr] = h.Write32(mem, addr, mem.words[addr], value)
		return
	}
	mem.words[addr] = value
}

// Read32 implements the memio.Bus interface.
func (mem *Memory) Read32(addr uint32) uint32 {
	v := mem.read(addr)
	mem.journal = append(mem.journal, Entry{Op: OpRead32, Addr: addr, Value: v})
	return v
}

// Write32 implements the memio.Bus interface.
func (mem *Memory) Write32(addr uint32, value uint32) {
	mem.journal = append(mem.journal, Entry{Op: OpWrite32, Addr: addr, Value: value})
	mem.write(addr, value)
}

// Read16 implements the memio.Bus interface.
func (mem *Memory) Read16(addr uint32) uint16 {
	shift := 8 * (addr & 2)
	v := uint16(mem.read(addr&^3) >> shift)
	mem.journal = append(mem.journal, Entry{Op: OpRead16, Addr: addr, Value: uint32(v)})
	return v
}

// Write16 implements the memio.Bus interface.
func (mem *Memory) Write16(addr uint32, value uint16) {
	mem.journal = append(mem.journal, Entry{Op: OpWrite16, Addr: addr, Value: uint32(value)})
	word := addr &^ 3
	shift := 8 * (addr & 2)
	v := mem.read(word)&^(0xffff<<shift) | uint32(value)<<shift
	mem.write(word, v)
}

// Read8 implements the memio.Bus interface.
func (mem *Memory) Read8(addr uint32) uint8 {
	shift := 8 * (addr & 3)
	v := uint8(mem.read(addr&^3) >> shift)
	mem.journal = append(mem.journal, Entry{Op: OpRead8, Addr: addr, Value: uint32(v)})
	return v
}

// Write8 implements the memio.Bus interface.
func (mem *Memory) Write8(addr uint32, value uint8) {
	mem.journal = append(mem.journal, Entry{Op: OpWrite8, Addr: addr, Value: uint32(value)})
	word := addr &^ 3
	shift := 8 * (addr & 3)
	v := mem.read(word)&^(0xff<<shift) | uint32(value)<<shift
	mem.write(word, v)
}

// SetValueAt stores value at addr without journaling and without consulting
// any IO handler.
func (mem *Memory) SetValueAt(addr uint32, value uint32) {
	mem.words[addr] = value
}

// ValueAt returns the value stored at addr without journaling and without
// consulting any IO handler.
func (mem *Memory) ValueAt(addr uint32) uint32 {
	return mem.words[addr]
}

// SetIOHandler attaches an IO handler to a single word address. Any existing
// handler at that address is replaced.
func (mem *Memory) SetIOHandler(addr uint32, h IOHandler) {
	mem.handlers[addr] = h
}

// SetIOHandlerRange attaches an IO handler to every word address in the range
// start (inclusive) to end (exclusive).
func (mem *Memory) SetIOHandlerRange(start uint32, end uint32, h IOHandler) {
	for addr := start &^ 3; addr < end; addr += 4 {
		mem.handlers[addr] = h
	}
}

// RemoveIOHandler detaches the IO handler at addr, if there is one.
func (mem *Memory) RemoveIOHandler(addr uint32) {
	delete(mem.handlers, addr)
}

// Journal returns the ordered list of accesses made through the Bus methods
// since the last Reset() or ClearJournal(). The returned slice must not be
// modified.
func (mem *Memory) Journal() []Entry {
	return mem.journal
}

// ClearJournal empties the journal but leaves memory and IO handlers intact.
func (mem *Memory) ClearJournal() {
	mem.journal = mem.journal[:0]
}

// OpCount returns the number of journal entries of the specified Op.
func (mem *Memory) OpCount(op Op) int {
	var n int
	for _, e := range mem.journal {
		if e.Op == op {
			n++
		}
	}
	return n
}

// OpCountAt returns the number of journal entries of the specified Op at
// the specified address.
func (mem *Memory) OpCountAt(op Op, addr uint32) int {
	var n int
	for _, e := range mem.journal {
		if e.Op == op && e.Addr == addr {
			n++
		}
	}
	return n
}

// Find returns the first journal entry with the specified Op and address.
func (mem *Memory) Find(op Op, addr uint32) (Entry, bool) {
	i := slices.IndexFunc(mem.journal, func(e Entry) bool {
		return e.Op == op && e.Addr == addr
	})
	if i == -1 {
		return Entry{}, false
	}
	return mem.journal[i], true
}

// LastWrite returns the most recent write of any width to the word containing
// addr.
func (mem *Memory) LastWrite(addr uint32) (Entry, bool) {
	for i := len(mem.journal) - 1; i >= 0; i-- {
		e := mem.journal[i]
		if e.Op.IsWrite() && e.Addr&^3 == addr&^3 {
			return e, true
		}
	}
	return Entry{}, false
}

// WriteJournal writes the journal to io.Writer, one entry per line.
func (mem *Memory) WriteJournal(output io.Writer) {
	for _, e := range mem.journal {
		io.WriteString(output, e.String())
		io.WriteString(output, "\n")
	}
}
