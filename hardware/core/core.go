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

// Package core simulates the parts of a Cortex-M processor that take an
// interrupt: the NVIC enable and pending registers, the pending bits in the
// ICSR, the interrupt priorities and PRIMASK.
//
// The simulated registers are attached to a mock.Memory as IO handlers, so
// that drivers using the memory as their memio.Bus see the same behaviour as
// they would on real hardware. Writes of one to a set register set the bit
// and writes of one to a clear register clear it.
//
// The Service() function does the work of the hardware vector stub. It takes
// pending and enabled exceptions in priority order and dispatches them to
// the nvic.Table.
package core

import (
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/hardware/syscontrol"
	"github.com/jetsetilly/cortexhal/logger"
	"github.com/jetsetilly/cortexhal/memio"
	"github.com/jetsetilly/cortexhal/memio/mock"
)

// SHPR3 holds the priorities of PendSV (bits 16 to 23) and SysTick (bits 24
// to 31).
const SHPR3 = syscontrol.SCBBase + 0x20

// ICSR bits that are read-only in hardware.
const (
	icsrVectActiveMask = 0x1ff
	icsrISRPending     = 1 << 22
)

// MaxService is the most exceptions Service() will dispatch in one call. A
// handler that pends its own interrupt every time would otherwise never let
// Service() return.
const MaxService = 1024

// Dispatcher is the part of the nvic.Table used by Service().
type Dispatcher interface {
	Dispatch(irqn nvic.IRQ) error
}

// Core is the simulated processor. It implements the nvic.Masker interface.
type Core struct {
	mem     *mock.Memory
	numIRQs int

	enabled []uint32
	pending []uint32

	nmi     bool
	pendSV  bool
	sysTick bool

	// PRIMASK. interrupts other than NMI are not taken when true
	masked bool

	// the exception currently being serviced. zero when in thread mode
	active nvic.IRQ
	inISR  bool
}

// New attaches a simulated core to the memory, for a chip with the number of
// device interrupts.
func New(mem *mock.Memory, numIRQs int) *Core {
	words := (numIRQs + 31) / 32

	c := &Core{
		mem:     mem,
		numIRQs: numIRQs,
		enabled: make([]uint32, words),
		pending: make([]uint32, words),
	}

	end := uint32(words * 4)
	mem.SetIOHandlerRange(nvic.ISER, nvic.ISER+end, registers{c: c, bits: c.enabled, set: true, base: nvic.ISER})
	mem.SetIOHandlerRange(nvic.ICER, nvic.ICER+end, registers{c: c, bits: c.enabled, base: nvic.ICER})
	mem.SetIOHandlerRange(nvic.ISPR, nvic.ISPR+end, registers{c: c, bits: c.pending, set: true, base: nvic.ISPR})
	mem.SetIOHandlerRange(nvic.ICPR, nvic.ICPR+end, registers{c: c, bits: c.pending, base: nvic.ICPR})
	mem.SetIOHandler(syscontrol.ICSR, icsr{c: c})

	return c
}

// registers is the IO handler for one of the NVIC bit arrays.
type registers struct {
	c    *Core
	bits []uint32
	set  bool
	base uint32
}

func (r registers) Read32(_ *mock.Memory, addr uint32, _ uint32) uint32 {
	return r.bits[(addr-r.base)/4]
}

func (r registers) Write32(_ *mock.Memory, addr uint32, _ uint32, value uint32) uint32 {
	i := (addr - r.base) / 4
	if r.set {
		r.bits[i] |= value
	} else {
		r.bits[i] &^= value
	}
	return r.bits[i]
}

// icsr is the IO handler for the Interrupt Control and State Register.
type icsr struct {
	c *Core
}

func (r icsr) Read32(_ *mock.Memory, _ uint32, _ uint32) uint32 {
	var v uint32
	if r.c.nmi {
		v |= syscontrol.ICSRNMIPendSet
	}
	if r.c.pendSV {
		v |= syscontrol.ICSRPendSVSet
	}
	if r.c.sysTick {
		v |= syscontrol.ICSRPendSTSet
	}
	if r.c.anyPending() {
		v |= icsrISRPending
	}
	if r.c.inISR {
		v |= uint32(r.c.active-nvic.Offset) & icsrVectActiveMask
	}
	return v
}

func (r icsr) Write32(_ *mock.Memory, _ uint32, stored uint32, value uint32) uint32 {
	if value&syscontrol.ICSRNMIPendSet != 0 {
		r.c.nmi = true
	}
	if value&syscontrol.ICSRPendSVSet != 0 {
		r.c.pendSV = true
	}
	if value&syscontrol.ICSRPendSVClr != 0 {
		r.c.pendSV = false
	}
	if value&syscontrol.ICSRPendSTSet != 0 {
		r.c.sysTick = true
	}
	if value&syscontrol.ICSRPendSTClr != 0 {
		r.c.sysTick = false
	}
	return stored
}

// EnableInterrupts implements the nvic.Masker interface.
func (c *Core) EnableInterrupts() {
	c.masked = false
}

// DisableInterrupts implements the nvic.Masker interface.
func (c *Core) DisableInterrupts() {
	c.masked = true
}

// Masked returns true if PRIMASK is set.
func (c *Core) Masked() bool {
	return c.masked
}

// Active returns the exception being serviced. The boolean is false when no
// exception is being serviced.
func (c *Core) Active() (nvic.IRQ, bool) {
	return c.active, c.inISR
}

func (c *Core) device(irq nvic.IRQ) (int, uint32, bool) {
	if irq < 0 || int(irq) >= c.numIRQs {
		return 0, 0, false
	}
	return int(irq) / 32, memio.Bit(int(irq) % 32), true
}

// Raise asserts the interrupt line, making the exception pending. Of the
// system exceptions only NMI, PendSV and SysTick can be raised. Returns false
// if the exception can not be raised.
func (c *Core) Raise(irq nvic.IRQ) bool {
	switch irq {
	case nvic.NMI:
		c.nmi = true
		return true
	case nvic.PendSV:
		c.pendSV = true
		return true
	case nvic.SysTick:
		c.sysTick = true
		return true
	}

	i, bit, ok := c.device(irq)
	if !ok {
		return false
	}
	c.pending[i] |= bit
	return true
}

// IsPending returns true if the exception is pending.
func (c *Core) IsPending(irq nvic.IRQ) bool {
	switch irq {
	case nvic.NMI:
		return c.nmi
	case nvic.PendSV:
		return c.pendSV
	case nvic.SysTick:
		return c.sysTick
	}

	i, bit, ok := c.device(irq)
	return ok && c.pending[i]&bit != 0
}

// IsEnabled returns true if the device interrupt is enabled. The system
// exceptions are always enabled.
func (c *Core) IsEnabled(irq nvic.IRQ) bool {
	if irq < 0 {
		return true
	}
	i, bit, ok := c.device(irq)
	return ok && c.enabled[i]&bit != 0
}

func (c *Core) anyPending() bool {
	if c.nmi || c.pendSV || c.sysTick {
		return true
	}
	for i := range c.pending {
		if c.pending[i]&c.enabled[i] != 0 {
			return true
		}
	}
	return false
}

// priority returns the configured priority of the exception. lower values
// are more urgent
func (c *Core) priority(irq nvic.IRQ) int {
	switch irq {
	case nvic.NMI:
		return -2
	case nvic.PendSV:
		return int(uint8(c.mem.ValueAt(SHPR3) >> 16))
	case nvic.SysTick:
		return int(uint8(c.mem.ValueAt(SHPR3) >> 24))
	}
	word := c.mem.ValueAt(nvic.IPR + uint32(irq)&^3)
	return int(uint8(word >> (8 * (uint32(irq) & 3))))
}

// next returns the pending exception to be taken next.
func (c *Core) next() (nvic.IRQ, bool) {
	if c.nmi {
		return nvic.NMI, true
	}
	if c.masked {
		return 0, false
	}

	var best nvic.IRQ
	var found bool

	consider := func(irq nvic.IRQ) {
		if !found || c.priority(irq) < c.priority(best) {
			best = irq
			found = true
		}
	}

	// system exceptions have lower exception numbers than device interrupts
	// so they win when priorities are equal
	if c.pendSV {
		consider(nvic.PendSV)
	}
	if c.sysTick {
		consider(nvic.SysTick)
	}
	for i := range c.pending {
		w := c.pending[i] & c.enabled[i]
		for b := 0; w != 0; b++ {
			if w&1 == 1 {
				consider(nvic.IRQ(i*32 + b))
			}
			w >>= 1
		}
	}

	return best, found
}

func (c *Core) clear(irq nvic.IRQ) {
	switch irq {
	case nvic.NMI:
		c.nmi = false
	case nvic.PendSV:
		c.pendSV = false
	case nvic.SysTick:
		c.sysTick = false
	default:
		if i, bit, ok := c.device(irq); ok {
			c.pending[i] &^= bit
		}
	}
}

// Service takes every pending exception that is allowed by PRIMASK and by
// the enable registers. The pending state of each exception is cleared
// before it is dispatched, so a handler can pend its own exception again.
// Returns the number of exceptions dispatched.
//
// Nested preemption is not simulated. Each handler runs to completion before
// the next exception is chosen.
func (c *Core) Service(d Dispatcher) int {
	var n int
	for n < MaxService {
		irq, ok := c.next()
		if !ok {
			return n
		}

		c.clear(irq)
		c.active = irq
		c.inISR = true

		if err := d.Dispatch(irq); err != nil {
			logger.Logf(logger.Allow, "core", "spurious: %v", err)
		}

		c.inISR = false
		c.active = 0
		n++
	}

	logger.Logf(logger.Allow, "core", "service limit reached (%d exceptions)", MaxService)
	return n
}
