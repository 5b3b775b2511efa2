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

import "github.com/jetsetilly/cortexhal/memio"

// GPIO register addresses for port zero.
const (
	GPIOBase   = 0x50000000
	GPIOOut    = GPIOBase + 0x504
	GPIOOutSet = GPIOBase + 0x508
	GPIOOutClr = GPIOBase + 0x50c
	GPIOIn     = GPIOBase + 0x510
	GPIODirSet = GPIOBase + 0x518
	GPIODirClr = GPIOBase + 0x51c
)

// GPIO is general purpose I/O port zero. Pins are selected with a mask, one
// bit per pin.
//
// GPIO has no interrupt of its own. Pin events are the concern of GPIOTE.
type GPIO struct {
	bus memio.Bus
}

// NewGPIO is the preferred method of initialisation for the GPIO type.
func NewGPIO(bus memio.Bus) *GPIO {
	return &GPIO{bus: bus}
}

// Output configures the pins in the mask as outputs.
func (g *GPIO) Output(mask uint32) {
	g.bus.Write32(GPIODirSet, mask)
}

// Input configures the pins in the mask as inputs.
func (g *GPIO) Input(mask uint32) {
	g.bus.Write32(GPIODirClr, mask)
}

// Set drives the pins in the mask high.
func (g *GPIO) Set(mask uint32) {
	g.bus.Write32(GPIOOutSet, mask)
}

// Clear drives the pins in the mask low.
func (g *GPIO) Clear(mask uint32) {
	g.bus.Write32(GPIOOutClr, mask)
}

// Toggle inverts the output level of the pins in the mask.
func (g *GPIO) Toggle(mask uint32) {
	memio.Toggle(g.bus, GPIOOut, mask)
}

// Out returns the output register.
func (g *GPIO) Out() uint32 {
	return g.bus.Read32(GPIOOut)
}

// In returns the input register.
func (g *GPIO) In() uint32 {
	return g.bus.Read32(GPIOIn)
}
