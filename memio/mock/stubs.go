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

package mock

// SetClearPair models two registers that share one underlying state. Writing
// a one to a bit of the Set register sets that bit in the state, writing a
// one to a bit of the Clear register clears it. Zero bits have no effect.
// Reading either register returns the state.
//
// The NVIC ISER/ICER registers behave in this way.
type SetClearPair struct {
	Set   uint32
	Clear uint32
	state uint32
}

// Attach the pair to both of its addresses.
func (p *SetClearPair) Attach(mem *Memory) {
	mem.SetIOHandler(p.Set, p)
	mem.SetIOHandler(p.Clear, p)
}

// State returns the shared register state.
func (p *SetClearPair) State() uint32 {
	return p.state
}

func (p *SetClearPair) Read32(_ *Memory, _ uint32, _ uint32) uint32 {
	return p.state
}

func (p *SetClearPair) Write32(mem *Memory, addr uint32, _ uint32, value uint32) uint32 {
	switch addr {
	case p.Set:
		p.state |= value
	case p.Clear:
		p.state &^= value
	}

	// both addresses report the state to ValueAt()
	mem.SetValueAt(p.Set, p.state)
	mem.SetValueAt(p.Clear, p.state)

	return p.state
}

// WriteOneToClear models a status register where writing a one to a bit
// clears it. Zero bits are left unchanged. Use SetValueAt() to raise bits.
type WriteOneToClear struct{}

func (WriteOneToClear) Read32(_ *Memory, _ uint32, stored uint32) uint32 {
	return stored
}

func (WriteOneToClear) Write32(_ *Memory, _ uint32, stored uint32, value uint32) uint32 {
	return stored &^ value
}

// OneShot models an event flag that reads back as set exactly once. The read
// that observes the value also clears it.
type OneShot struct{}

func (OneShot) Read32(mem *Memory, addr uint32, stored uint32) uint32 {
	mem.SetValueAt(addr, 0)
	return stored
}

func (OneShot) Write32(_ *Memory, _ uint32, _ uint32, value uint32) uint32 {
	return value
}

// Fixed models a register that always reads as Value. Writes are counted but
// otherwise have no effect.
type Fixed struct {
	Value  uint32
	Writes int
}

func (f *Fixed) Read32(_ *Memory, _ uint32, _ uint32) uint32 {
	return f.Value
}

func (f *Fixed) Write32(_ *Memory, _ uint32, stored uint32, _ uint32) uint32 {
	f.Writes++
	return stored
}

// IOFuncs adapts a pair of functions to the IOHandler interface. A nil
// function behaves like plain memory.
type IOFuncs struct {
	ReadFn  func(mem *Memory, addr uint32, stored uint32) uint32
	WriteFn func(mem *Memory, addr uint32, stored uint32, value uint32) uint32
}

func (f IOFuncs) Read32(mem *Memory, addr uint32, stored uint32) uint32 {
	if f.ReadFn == nil {
		return stored
	}
	return f.ReadFn(mem, addr, stored)
}

func (f IOFuncs) Write32(mem *Memory, addr uint32, stored uint32, value uint32) uint32 {
	if f.WriteFn == nil {
		return value
	}
	return f.WriteFn(mem, addr, stored, value)
}
