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

package peripheral

import (
	"fmt"

	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/logger"
)

// EventRangeError is returned by AddEventHandler() when the event index is
// outside the event table.
const EventRangeError = "peripheral: event %d out of range (table size %d)"

// Controller is the part of the interrupt controller used by a peripheral.
// It is satisfied by *nvic.Table.
type Controller interface {
	SetHandler(irqn nvic.IRQ, handler nvic.Handler) error
	EnableIRQ(irqn nvic.IRQ) error
	DisableIRQ(irqn nvic.IRQ) error
}

// Peripheral is the common base of all hardware peripheral drivers. The base
// address and IRQ never change after construction.
type Peripheral struct {
	ctrl   Controller
	base   uint32
	irq    nvic.IRQ
	events []EventHandler
}

// New creates a peripheral without an event table.
func New(ctrl Controller, base uint32, irq nvic.IRQ) *Peripheral {
	return &Peripheral{
		ctrl: ctrl,
		base: base,
		irq:  irq,
	}
}

// NewWithEvents creates a peripheral that can fan out its interrupt to an
// EventHandler per hardware event. The table is owned by the caller and its
// length must be the number of events the peripheral can raise. All slots are
// emptied.
func NewWithEvents(ctrl Controller, base uint32, irq nvic.IRQ, table []EventHandler) *Peripheral {
	clear(table)
	return &Peripheral{
		ctrl:   ctrl,
		base:   base,
		irq:    irq,
		events: table,
	}
}

func (p *Peripheral) String() string {
	return fmt.Sprintf("%08x (%v)", p.base, p.irq)
}

// Base returns the register base address.
func (p *Peripheral) Base() uint32 {
	return p.base
}

// IRQ returns the interrupt number.
func (p *Peripheral) IRQ() nvic.IRQ {
	return p.irq
}

// NumEvents returns the size of the event table. Zero if the peripheral was
// created without one.
func (p *Peripheral) NumEvents() int {
	return len(p.events)
}

// SetIRQHandler installs the handler for the peripheral's interrupt.
func (p *Peripheral) SetIRQHandler(handler nvic.Handler) error {
	return p.ctrl.SetHandler(p.irq, handler)
}

// EnableIRQ enables the peripheral's interrupt in the interrupt controller.
func (p *Peripheral) EnableIRQ() error {
	return p.ctrl.EnableIRQ(p.irq)
}

// DisableIRQ disables the peripheral's interrupt in the interrupt controller.
func (p *Peripheral) DisableIRQ() error {
	return p.ctrl.DisableIRQ(p.irq)
}

// AddEventHandler registers the handler for the event. A handler already
// registered for the event is replaced. A nil handler empties the slot.
//
// Handlers should be registered before the peripheral's interrupt is enabled.
func (p *Peripheral) AddEventHandler(evt int, handler EventHandler) error {
	if evt < 0 || evt >= len(p.events) {
		return curated.Errorf(EventRangeError, evt, len(p.events))
	}
	p.events[evt] = handler
	logger.Logf(logger.Allow, "peripheral", "%v: handler for event %d", p, evt)
	return nil
}

// HandleEvents scans the event table in ascending order. For every event that
// has a registered handler and is active in hardware, the handler is called
// and then the event is cleared.
//
// An active event without a handler is left active. Events are only checked
// if there is a handler because reading an event register can have side
// effects.
func (p *Peripheral) HandleEvents(src EventSource) {
	payload, _ := src.(PayloadSource)

	for evt, h := range p.events {
		if h == nil {
			continue
		}
		if !src.IsEventActive(evt) {
			continue
		}

		info := EventInfo{IRQ: p.irq, Event: evt}
		if payload != nil {
			info.Payload = payload.EventPayload(evt)
		}

		h.HandleEvent(&info)
		src.ClearEvent(evt)
	}
}
