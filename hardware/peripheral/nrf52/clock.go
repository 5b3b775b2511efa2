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
	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/logger"
	"github.com/jetsetilly/cortexhal/memio"
)

// Clock register addresses. The CLOCK peripheral shares its register block
// with POWER.
const (
	ClockBase = PeripheralBase
	LFCLKSTAT = ClockBase + 0x418
	LFCLKSRC  = ClockBase + 0x518
)

// LFCLKSTAT bits.
const LFCLKStatRunning = 1 << 16

// Clock tasks.
const (
	TaskHFClkStart = iota
	TaskHFClkStop
	TaskLFClkStart
	TaskLFClkStop
	TaskCal
	TaskCTStart
	TaskCTStop
)

// LFClockSource is a source for the low frequency clock.
type LFClockSource int

// List of valid LFClockSource values.
const (
	LFClockRC LFClockSource = iota
	LFClockXtal
	LFClockSynth
)

func (src LFClockSource) String() string {
	switch src {
	case LFClockRC:
		return "RC"
	case LFClockXtal:
		return "XTAL"
	case LFClockSynth:
		return "SYNTH"
	}
	return "unknown"
}

// UnsupportedClock is returned by RequestLF() for a clock source that the
// driver cannot start.
const UnsupportedClock = "nrf52: unsupported LF clock source (%v)"

// Clock controls the nRF52 clock sources. All peripherals that need the low
// frequency clock should share the same Clock.
type Clock struct {
	bus       memio.Bus
	lfRunning bool
}

// NewClock is the preferred method of initialisation for the Clock type.
func NewClock(bus memio.Bus) *Clock {
	return &Clock{bus: bus}
}

// LFRunning returns true if RequestLF() has started the low frequency clock.
func (clk *Clock) LFRunning() bool {
	return clk.lfRunning
}

// RequestLF selects the source for the low frequency clock and starts it. It
// busy-waits until the clock reports that it is running.
func (clk *Clock) RequestLF(src LFClockSource) error {
	switch src {
	case LFClockRC, LFClockXtal:
	default:
		return curated.Errorf(UnsupportedClock, src)
	}

	clk.bus.Write32(LFCLKSRC, uint32(src))
	clk.bus.Write32(ClockBase+TaskLFClkStart*4, 1)
	for clk.bus.Read32(LFCLKSTAT)&LFCLKStatRunning == 0 {
	}

	clk.lfRunning = true
	logger.Logf(logger.Allow, "nrf52", "LF clock running from %v", src)

	return nil
}
