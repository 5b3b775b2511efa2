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

package board

import (
	"github.com/jetsetilly/cortexhal/hardware/core"
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/hardware/peripheral/nrf52"
	"github.com/jetsetilly/cortexhal/memio/mock"
)

// RTC register offsets used by the simulation.
const (
	rtcIntenSet = 0x304
	rtcIntenClr = 0x308
	rtcEvtenSet = 0x344
	rtcEvtenClr = 0x348
	rtcCounter  = 0x504
	rtcCC       = 0x540
)

// rtcCounterMask is the width of the RTC counter.
const rtcCounterMask = 0x00ffffff

// Simulation runs a Board on simulated memory and a simulated core. Drivers
// see register behaviour close enough to the real chip for the interrupt and
// event paths to be exercised.
type Simulation struct {
	Mem   *mock.Memory
	Core  *core.Core
	Board *Board

	rtcs []*simRTC
	out  *mock.SetClearPair

	// the exception that reached the default handler, if any
	halted    nvic.IRQ
	hasHalted bool
}

// simRTC is the simulated state of one real time counter.
type simRTC struct {
	rtc     *nrf52.RTC
	running bool
	inten   *mock.SetClearPair
	evten   *mock.SetClearPair
}

// NewSimulation creates the board described by desc on simulated hardware.
// The board's Init() function has not been called.
func NewSimulation(desc Description) (*Simulation, error) {
	sim := &Simulation{
		Mem: mock.NewMemory(),
	}
	sim.Core = core.New(sim.Mem, desc.NumIRQs)

	var err error
	sim.Board, err = New(sim.Mem, desc, Options{
		Mask: sim.Core,
		Trap: sim.trap,
	})
	if err != nil {
		return nil, err
	}

	// the LF clock reports running once it has been started
	var lfStarted bool
	sim.Mem.SetIOHandler(nrf52.ClockBase+nrf52.TaskLFClkStart*4, mock.IOFuncs{
		WriteFn: func(_ *mock.Memory, _ uint32, _ uint32, value uint32) uint32 {
			lfStarted = lfStarted || value != 0
			return value
		},
	})
	sim.Mem.SetIOHandler(nrf52.LFCLKSTAT, mock.IOFuncs{
		ReadFn: func(_ *mock.Memory, _ uint32, _ uint32) uint32 {
			if lfStarted {
				return nrf52.LFCLKStatRunning
			}
			return 0
		},
	})

	// GPIO OUT and its set and clear aliases share one state
	sim.out = &mock.SetClearPair{Set: nrf52.GPIOOutSet, Clear: nrf52.GPIOOutClr}
	sim.out.Attach(sim.Mem)
	sim.Mem.SetIOHandler(nrf52.GPIOOut, mock.IOFuncs{
		ReadFn: func(_ *mock.Memory, _ uint32, _ uint32) uint32 {
			return sim.out.State()
		},
		WriteFn: func(mem *mock.Memory, _ uint32, _ uint32, value uint32) uint32 {
			sim.out.Write32(mem, sim.out.Clear, 0, ^uint32(0))
			sim.out.Write32(mem, sim.out.Set, 0, value)
			return value
		},
	})

	for _, rtc := range sim.Board.RTCs() {
		sim.rtcs = append(sim.rtcs, sim.attachRTC(rtc))
	}

	return sim, nil
}

func (sim *Simulation) attachRTC(rtc *nrf52.RTC) *simRTC {
	s := &simRTC{
		rtc:   rtc,
		inten: &mock.SetClearPair{Set: rtc.Base() + rtcIntenSet, Clear: rtc.Base() + rtcIntenClr},
		evten: &mock.SetClearPair{Set: rtc.Base() + rtcEvtenSet, Clear: rtc.Base() + rtcEvtenClr},
	}
	s.inten.Attach(sim.Mem)
	s.evten.Attach(sim.Mem)

	task := func(n int) uint32 {
		return rtc.Base() + uint32(n)*4
	}

	sim.Mem.SetIOHandler(task(nrf52.RTCTaskStart), mock.IOFuncs{
		WriteFn: func(_ *mock.Memory, _ uint32, _ uint32, value uint32) uint32 {
			s.running = s.running || value != 0
			return value
		},
	})
	sim.Mem.SetIOHandler(task(nrf52.RTCTaskStop), mock.IOFuncs{
		WriteFn: func(_ *mock.Memory, _ uint32, _ uint32, value uint32) uint32 {
			s.running = s.running && value == 0
			return value
		},
	})
	sim.Mem.SetIOHandler(task(nrf52.RTCTaskClear), mock.IOFuncs{
		WriteFn: func(mem *mock.Memory, _ uint32, _ uint32, value uint32) uint32 {
			if value != 0 {
				mem.SetValueAt(rtc.Base()+rtcCounter, 0)
			}
			return value
		},
	})

	return s
}

// event sets the event register and raises the interrupt if it is enabled.
func (s *simRTC) event(sim *Simulation, evt int) {
	sim.Mem.SetValueAt(s.rtc.Base()+nrf52.EventsOffset+uint32(evt)*4, 1)
	if s.inten.State()&(1<<evt) != 0 {
		sim.Core.Raise(s.rtc.IRQ())
	}
}

// tick advances the counter by one and generates the events that result.
func (s *simRTC) tick(sim *Simulation) {
	if !s.running {
		return
	}

	counterAddr := s.rtc.Base() + rtcCounter
	counter := (sim.Mem.ValueAt(counterAddr) + 1) & rtcCounterMask
	sim.Mem.SetValueAt(counterAddr, counter)

	routed := s.inten.State() | s.evten.State()

	if routed&nrf52.RTCIntTick != 0 {
		s.event(sim, nrf52.RTCEventTick)
	}
	if counter == 0 && routed&nrf52.RTCIntOverflow != 0 {
		s.event(sim, nrf52.RTCEventOverflow)
	}
	for n := 0; n < 4; n++ {
		if sim.Mem.ValueAt(s.rtc.Base()+rtcCC+uint32(n)*4)&rtcCounterMask == counter {
			s.event(sim, nrf52.RTCEventCompare0+n)
		}
	}
}

// trap stands in for the halt of a real processor. The first exception to
// reach it is recorded.
func (sim *Simulation) trap(irq nvic.IRQ) {
	if !sim.hasHalted {
		sim.halted = irq
		sim.hasHalted = true
	}
}

// Halted returns the first unexpected exception to reach a default handler.
// The boolean is false if there has been no such exception.
func (sim *Simulation) Halted() (nvic.IRQ, bool) {
	return sim.halted, sim.hasHalted
}

// Service dispatches every pending interrupt. Returns the number of
// interrupts dispatched.
func (sim *Simulation) Service() int {
	return sim.Core.Service(sim.Board.NVIC())
}

// Tick advances every running RTC by one tick and then services the
// interrupts that result. Returns the number of interrupts dispatched.
func (sim *Simulation) Tick() int {
	for _, s := range sim.rtcs {
		s.tick(sim)
	}
	return sim.Service()
}

// Raise asserts the interrupt line and services the interrupts that result.
// Returns false if the line can not be raised.
func (sim *Simulation) Raise(irq nvic.IRQ) (int, bool) {
	if !sim.Core.Raise(irq) {
		return 0, false
	}
	return sim.Service(), true
}

// Running returns true if the RTC has been started.
func (sim *Simulation) Running(id nrf52.RTCID) bool {
	for _, s := range sim.rtcs {
		if s.rtc.ID() == id {
			return s.running
		}
	}
	return false
}

// LEDs returns the output level of the board's LED pins.
func (sim *Simulation) LEDs() uint32 {
	return sim.out.State() & sim.Board.Desc.LEDMask()
}
