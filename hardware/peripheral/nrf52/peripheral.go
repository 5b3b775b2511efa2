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

package nrf52

import (
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/hardware/peripheral"
	"github.com/jetsetilly/cortexhal/memio"
)

// PeripheralBase is the address of the register block of peripheral zero.
const PeripheralBase = 0x40000000

// EventsOffset is the offset of the first event register in a register block.
const EventsOffset = 0x100

// IDToBase returns the register base address of the peripheral with the ID.
func IDToBase(id int) uint32 {
	return PeripheralBase + uint32(id)*0x1000
}

// Peripheral is the nRF52 specialisation of peripheral.Peripheral. It
// implements the peripheral.EventSource interface for the standard nRF52
// event registers.
type Peripheral struct {
	*peripheral.Peripheral
	bus memio.Bus

	// the IRQ handler is installed once, by the first call to Request()
	requested bool

	// the source passed to HandleEvents(). usually the concrete driver that
	// embeds this Peripheral
	src peripheral.EventSource
}

func newPeripheral(bus memio.Bus, ctrl peripheral.Controller, id int, table []peripheral.EventHandler) Peripheral {
	return Peripheral{
		Peripheral: peripheral.NewWithEvents(ctrl, IDToBase(id), nvic.IRQ(id), table),
		bus:        bus,
	}
}

func (p *Peripheral) eventAddr(evt int) uint32 {
	return p.Base() + EventsOffset + uint32(evt)*4
}

// IsEventActive implements the peripheral.EventSource interface.
func (p *Peripheral) IsEventActive(evt int) bool {
	return p.bus.Read32(p.eventAddr(evt)) != 0
}

// ClearEvent implements the peripheral.EventSource interface.
func (p *Peripheral) ClearEvent(evt int) {
	p.bus.Write32(p.eventAddr(evt), 0)
}

// TriggerTask starts the task with the index.
func (p *Peripheral) TriggerTask(task int) {
	p.bus.Write32(p.Base()+uint32(task)*4, 1)
}

// BusyWaitAndClearEvent spins until the event is active and then clears it.
// It never returns if the event does not happen.
func (p *Peripheral) BusyWaitAndClearEvent(evt int) {
	for !p.IsEventActive(evt) {
	}
	p.ClearEvent(evt)
}

// Request installs the peripheral's event fan-out as the IRQ handler. Only
// the first call has any effect.
func (p *Peripheral) Request() error {
	if p.requested {
		return nil
	}

	src := p.src
	if src == nil {
		src = p
	}

	err := p.SetIRQHandler(func() {
		p.HandleEvents(src)
	})
	if err != nil {
		return err
	}

	p.requested = true
	return nil
}
