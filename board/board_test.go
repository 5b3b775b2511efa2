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

package board_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/cortexhal/board"
	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/hardware/peripheral"
	"github.com/jetsetilly/cortexhal/hardware/peripheral/nrf52"
	"github.com/jetsetilly/cortexhal/memio/mock"
	"github.com/jetsetilly/cortexhal/test"
)

func TestBuiltin(t *testing.T) {
	names := board.Builtin().Names()
	test.ExpectEquality(t, len(names), 3)

	desc, err := board.Builtin().Find("NRF52DK")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, desc.Name, "nrf52dk")
	test.ExpectEquality(t, desc.Chip, "nrf52832")
	test.ExpectEquality(t, desc.NumIRQs, 39)
	test.ExpectEquality(t, desc.VectorBase, 0x20000000)
	test.ExpectEquality(t, desc.LEDMask(), 0x001e0000)
	test.ExpectSuccess(t, desc.Has("RTC0"))
	test.ExpectSuccess(t, desc.Has("power"))
	test.ExpectFailure(t, desc.Has("uarte0"))

	_, err = board.Builtin().Find("arduino")
	test.ExpectSuccess(t, curated.Is(err, board.UnknownBoard))
}

func TestParse(t *testing.T) {
	desc, err := board.Parse([]byte(`
name: Custom
chip: nrf52840
num_irqs: 48
vector_base: 0x20001000
leds: [6]
peripherals: [RTC1]
`))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, desc.Name, "custom")
	test.ExpectEquality(t, desc.VectorBase, 0x20001000)
	test.ExpectEquality(t, desc.LEDMask(), 1<<6)
	test.ExpectSuccess(t, desc.Has("rtc1"))

	_, err = board.Parse([]byte("chip: nrf52840\n"))
	test.ExpectSuccess(t, curated.Is(err, board.DescriptionError))

	_, err = board.Parse([]byte("name: [unterminated\n"))
	test.ExpectSuccess(t, curated.Is(err, board.DescriptionError))
}

func TestLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "myboard.yaml")
	err := os.WriteFile(filename, []byte("name: myboard\nchip: nrf52833\nnum_irqs: 48\n"), 0o644)
	test.DemandSuccess(t, err)

	desc, err := board.Lookup(filename)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, desc.Name, "myboard")

	desc, err = board.Lookup("feather")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, desc.Name, "feather")

	_, err = board.Lookup(filepath.Join(t.TempDir(), "missing.yaml"))
	test.ExpectSuccess(t, curated.Is(err, board.UnknownBoard))
}

func TestNew(t *testing.T) {
	mem := mock.NewMemory()

	desc, err := board.Builtin().Find("feather")
	test.DemandSuccess(t, err)

	b, err := board.New(mem, desc, board.Options{})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b.NVIC().NumIRQs(), 39)
	test.ExpectEquality(t, len(b.RTCs()), 2)

	_, err = b.Power()
	test.ExpectSuccess(t, curated.Is(err, board.MissingPeripheral))
	_, err = b.RTC(nrf52.RTC2)
	test.ExpectSuccess(t, curated.Is(err, board.MissingPeripheral))
	rtc, err := b.RTC(nrf52.RTC1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rtc.Base(), 0x40011000)

	desc.Peripherals = append(desc.Peripherals, "uarte0")
	_, err = board.New(mem, desc, board.Options{})
	test.ExpectSuccess(t, curated.Is(err, board.UnknownPeripheral))

	desc.Peripherals = []string{"rtc2"}
	desc.NumIRQs = 32
	_, err = board.New(mem, desc, board.Options{})
	test.ExpectSuccess(t, curated.Is(err, board.MissingPeripheral))

	desc.Chip = "sam4s"
	_, err = board.New(mem, desc, board.Options{})
	test.ExpectSuccess(t, curated.Is(err, board.UnsupportedChip))
}

func newSimulation(t *testing.T, name string) *board.Simulation {
	t.Helper()
	desc, err := board.Builtin().Find(name)
	test.DemandSuccess(t, err)
	sim, err := board.NewSimulation(desc)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, sim.Board.Init())
	return sim
}

func TestBlinker(t *testing.T) {
	sim := newSimulation(t, "nrf52dk")
	b := sim.Board

	b.GPIO().Output(b.Desc.LEDMask())

	rtc, err := b.RTC(nrf52.RTC0)
	test.DemandSuccess(t, err)

	var counter int
	rtc.Stop()
	test.DemandSuccess(t, rtc.SetPrescaler(0xffd))
	test.DemandSuccess(t, rtc.AddEventHandler(nrf52.RTCEventTick, peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) {
		b.GPIO().Toggle(1 << (17 + (counter & 3)))
		counter++
	})))
	test.DemandSuccess(t, rtc.EnableTickInterrupt())

	// nothing happens until the RTC is started
	test.ExpectEquality(t, sim.Tick(), 0)
	test.ExpectFailure(t, sim.Running(nrf52.RTC0))

	test.DemandSuccess(t, rtc.Start())
	test.ExpectSuccess(t, sim.Running(nrf52.RTC0))
	test.ExpectSuccess(t, b.Clock().LFRunning())
	test.ExpectEquality(t, rtc.Rate(), 8)

	expected := []uint32{
		0x00020000,
		0x00060000,
		0x000e0000,
		0x001e0000,
		0x001c0000,
	}
	for i, leds := range expected {
		test.ExpectEquality(t, sim.Tick(), 1, i)
		test.ExpectEquality(t, sim.LEDs(), leds, i)
	}
	test.ExpectEquality(t, rtc.Counter(), uint32(len(expected)))

	rtc.Stop()
	test.ExpectEquality(t, sim.Tick(), 0)
	test.ExpectEquality(t, counter, len(expected))
}

func TestTickWithoutInterrupt(t *testing.T) {
	sim := newSimulation(t, "nrf52dk")

	rtc, err := sim.Board.RTC(nrf52.RTC1)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, rtc.Start())

	// the counter runs but no interrupt is raised
	test.ExpectEquality(t, sim.Tick(), 0)
	test.ExpectEquality(t, sim.Tick(), 0)
	test.ExpectEquality(t, rtc.Counter(), 2)
	test.ExpectFailure(t, rtc.IsEventActive(nrf52.RTCEventTick))

	rtc.Clear()
	test.ExpectEquality(t, rtc.Counter(), 0)
}

func TestInterruptTest(t *testing.T) {
	sim := newSimulation(t, "nrf52840dk")
	tbl := sim.Board.NVIC()

	var counter int
	handler := func() {
		counter++
	}

	test.DemandSuccess(t, tbl.SetHandler(nvic.PendSV, handler))
	tbl.EnableIRQs()
	test.DemandSuccess(t, tbl.SetHandler(1, handler))
	test.DemandSuccess(t, tbl.EnableIRQ(1))
	test.DemandSuccess(t, tbl.IRQSet(nvic.PendSV))
	test.DemandSuccess(t, tbl.IRQSet(1))

	test.ExpectEquality(t, sim.Service(), 2)
	test.ExpectEquality(t, counter, 2)
}

func TestPowerEvents(t *testing.T) {
	sim := newSimulation(t, "nrf52dk")

	pwr, err := sim.Board.Power()
	test.DemandSuccess(t, err)

	var detected int
	test.DemandSuccess(t, pwr.AddEventHandler(nrf52.PowerEventUSBDetected, peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) {
		detected++
	})))
	test.DemandSuccess(t, pwr.Request())
	test.DemandSuccess(t, pwr.EnableIRQ())

	sim.Mem.SetValueAt(nrf52.PeripheralBase+nrf52.EventsOffset+nrf52.PowerEventUSBDetected*4, 1)
	test.ExpectSuccess(t, pwr.IsUSBDetected())

	n, ok := sim.Raise(pwr.IRQ())
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, detected, 1)
	test.ExpectFailure(t, pwr.IsUSBDetected())

	_, ok = sim.Raise(nvic.HardFault)
	test.ExpectFailure(t, ok)
}

func TestDump(t *testing.T) {
	sim := newSimulation(t, "feather")

	w := &test.Writer{}
	sim.Board.Dump(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "digraph"))
}

func TestHalted(t *testing.T) {
	sim := newSimulation(t, "nrf52dk")

	_, halted := sim.Halted()
	test.ExpectFailure(t, halted)

	n, ok := sim.Raise(nvic.NMI)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, n, 1)

	irq, halted := sim.Halted()
	test.ExpectSuccess(t, halted)
	test.ExpectEquality(t, irq, nvic.NMI)

	// the first exception is the one that is kept
	sim.Raise(nvic.SysTick)
	irq, _ = sim.Halted()
	test.ExpectEquality(t, irq, nvic.NMI)
}
