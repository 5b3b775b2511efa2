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

package nvic

import (
	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/hardware/syscontrol"
	"github.com/jetsetilly/cortexhal/logger"
	"github.com/jetsetilly/cortexhal/memio"
)

// NVIC register addresses. Each of the bit registers is an array of 32bit
// registers, one bit per device interrupt.
const (
	ISER = 0xe000e100
	ICER = 0xe000e180
	ISPR = 0xe000e200
	ICPR = 0xe000e280
	IPR  = 0xe000e400
)

// MaxIRQs is the largest number of device interrupts an NVIC can support.
const MaxIRQs = 496

// Sentinel patterns for errors returned by the Table.
const (
	RangeError  = "nvic: %v out of range"
	NoHandler   = "nvic: no handler for %v"
	NotPendable = "nvic: %v cannot be pended"
	ConfigError = "nvic: invalid number of device interrupts (%d)"
)

// Handler is called when an exception or interrupt is dispatched.
type Handler func()

// Config for NewTable().
type Config struct {
	// number of device interrupts supported by the chip
	NumIRQs int

	// address the vector table is relocated to during Init(). must satisfy
	// the alignment rules of syscontrol.Relocate()
	Base uint32

	// processor interrupt mask. if nil the table's EnableIRQs() and
	// DisableIRQs() do nothing
	Mask Masker

	// called by the blocking handler installed on system exceptions. if nil
	// the handler spins forever
	Trap func(IRQ)
}

// Table is the software dispatch table that sits behind the hardware vector
// table. The hardware vector stub calls Dispatch() with the number of the
// exception that fired.
//
// The table is not safe for concurrent use. Handlers should be installed
// during initialisation, before interrupts are unmasked.
type Table struct {
	bus      memio.Bus
	base     uint32
	numIRQs  int
	handlers []Handler
	mask     Masker
	trap     func(IRQ)
}

// NewTable is the preferred method of initialisation for the Table type.
func NewTable(bus memio.Bus, cfg Config) (*Table, error) {
	if cfg.NumIRQs <= 0 || cfg.NumIRQs > MaxIRQs {
		return nil, curated.Errorf(ConfigError, cfg.NumIRQs)
	}

	t := &Table{
		bus:      bus,
		base:     cfg.Base,
		numIRQs:  cfg.NumIRQs,
		handlers: make([]Handler, cfg.NumIRQs-int(Offset)),
		mask:     cfg.Mask,
		trap:     cfg.Trap,
	}

	if t.mask == nil {
		t.mask = noMask{}
	}
	if t.trap == nil {
		t.trap = spin
	}

	return t, nil
}

// spin is the default trap. the halt is visible to a debugger or watchdog
func spin(_ IRQ) {
	for {
	}
}

// Size returns the number of slots in the table, including the stack pointer
// slot.
func (t *Table) Size() int {
	return len(t.handlers)
}

// NumIRQs returns the number of device interrupts.
func (t *Table) NumIRQs() int {
	return t.numIRQs
}

// Base returns the address of the vector table in memory.
func (t *Table) Base() uint32 {
	return t.base
}

// offset normalises irqn to an index into the handlers slice.
func (t *Table) offset(irqn IRQ) (int, error) {
	o := int(irqn) - int(Offset)
	if o < 0 || o >= len(t.handlers) {
		return 0, curated.Errorf(RangeError, irqn)
	}
	return o, nil
}

// Init empties the table, relocates the vector table to the configured base
// address and installs the blocking handler for every system exception.
//
// The relocation is given Size()-1 vectors because syscontrol.Relocate()
// also copies the stack pointer slot. Passing Size() would copy one word past
// the end of the table.
func (t *Table) Init() error {
	clear(t.handlers)

	// the count excludes the stack pointer slot so that exactly Size() words
	// are copied
	err := syscontrol.Relocate(t.bus, t.base, len(t.handlers)-1)
	if err != nil {
		return curated.Errorf("nvic: %v", err)
	}

	for _, irq := range SystemExceptions {
		t.handlers[irq-Offset] = t.blocking(irq)
	}

	logger.Logf(logger.Allow, "nvic", "initialised with %d device interrupts at %08x", t.numIRQs, t.base)

	return nil
}

// blocking returns the handler for an exception nobody expected. an
// unexpected core fault must halt rather than return
func (t *Table) blocking(irq IRQ) Handler {
	return func() {
		logger.Logf(logger.Allow, "nvic", "unexpected exception: %v", irq)
		t.trap(irq)
	}
}

// SetHandler installs the handler for irqn. Any previous handler is replaced.
// A nil handler empties the slot.
func (t *Table) SetHandler(irqn IRQ, handler Handler) error {
	o, err := t.offset(irqn)
	if err != nil {
		return err
	}
	t.handlers[o] = handler
	return nil
}

// Handler returns the handler installed for irqn, which may be nil.
func (t *Table) Handler(irqn IRQ) (Handler, error) {
	o, err := t.offset(irqn)
	if err != nil {
		return nil, err
	}
	return t.handlers[o], nil
}

// Dispatch calls the handler installed for irqn. If irqn is out of range a
// RangeError is returned. If there is no handler a NoHandler error is
// returned and nothing else happens.
func (t *Table) Dispatch(irqn IRQ) error {
	o, err := t.offset(irqn)
	if err != nil {
		return err
	}

	h := t.handlers[o]
	if h == nil {
		return curated.Errorf(NoHandler, irqn)
	}

	h()
	return nil
}

// device returns the register offset and bit mask for a device interrupt.
func (t *Table) device(irqn IRQ) (uint32, uint32, error) {
	if irqn < 0 || int(irqn) >= t.numIRQs {
		return 0, 0, curated.Errorf(RangeError, irqn)
	}
	return uint32(irqn/32) * 4, memio.Bit(int(irqn % 32)), nil
}

// EnableIRQ enables the device interrupt in the NVIC.
func (t *Table) EnableIRQ(irqn IRQ) error {
	reg, bit, err := t.device(irqn)
	if err != nil {
		return err
	}
	t.bus.Write32(ISER+reg, bit)
	return nil
}

// DisableIRQ disables the device interrupt in the NVIC.
func (t *Table) DisableIRQ(irqn IRQ) error {
	reg, bit, err := t.device(irqn)
	if err != nil {
		return err
	}
	t.bus.Write32(ICER+reg, bit)
	return nil
}

// IRQSet forces irqn to become pending. Of the system exceptions only NMI,
// PendSV and SysTick can be pended.
func (t *Table) IRQSet(irqn IRQ) error {
	switch irqn {
	case NMI:
		t.bus.Write32(syscontrol.ICSR, syscontrol.ICSRNMIPendSet)
		return nil
	case PendSV:
		t.bus.Write32(syscontrol.ICSR, syscontrol.ICSRPendSVSet)
		return nil
	case SysTick:
		t.bus.Write32(syscontrol.ICSR, syscontrol.ICSRPendSTSet)
		return nil
	}

	if irqn < 0 {
		return curated.Errorf(NotPendable, irqn)
	}

	reg, bit, err := t.device(irqn)
	if err != nil {
		return err
	}
	t.bus.Write32(ISPR+reg, bit)
	return nil
}

// ClearPending removes the pending state of irqn. Of the system exceptions
// only PendSV and SysTick can be cleared.
func (t *Table) ClearPending(irqn IRQ) error {
	switch irqn {
	case PendSV:
		t.bus.Write32(syscontrol.ICSR, syscontrol.ICSRPendSVClr)
		return nil
	case SysTick:
		t.bus.Write32(syscontrol.ICSR, syscontrol.ICSRPendSTClr)
		return nil
	}

	if irqn < 0 {
		return curated.Errorf(NotPendable, irqn)
	}

	reg, bit, err := t.device(irqn)
	if err != nil {
		return err
	}
	t.bus.Write32(ICPR+reg, bit)
	return nil
}

// SetPriority sets the priority of a device interrupt. Lower values are more
// urgent.
func (t *Table) SetPriority(irqn IRQ, priority uint8) error {
	if _, _, err := t.device(irqn); err != nil {
		return err
	}
	t.bus.Write8(IPR+uint32(irqn), priority)
	return nil
}

// EnableIRQs unmasks interrupts at the processor level.
func (t *Table) EnableIRQs() {
	t.mask.EnableInterrupts()
}

// DisableIRQs masks interrupts at the processor level.
func (t *Table) DisableIRQs() {
	t.mask.DisableInterrupts()
}
