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
	"fmt"
	"io"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/exp/slices"

	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/hardware/peripheral/nrf52"
	"github.com/jetsetilly/cortexhal/logger"
	"github.com/jetsetilly/cortexhal/memio"
)

// Sentinel patterns for errors returned by the Board.
const (
	UnknownPeripheral = "board: unknown peripheral (%s)"
	MissingPeripheral = "board: %s has no %s"
	UnsupportedChip   = "board: unsupported chip (%s)"
)

// list of chips that the board package can assemble
var chips = []string{"nrf52832", "nrf52833", "nrf52840"}

// Board owns the interrupt table and the peripheral drivers of a development
// board.
type Board struct {
	Desc Description

	bus   memio.Bus
	nvic  *nvic.Table
	clock *nrf52.Clock
	gpio  *nrf52.GPIO
	power *nrf52.Power
	rtc   [3]*nrf52.RTC
}

// Options for New(). The zero value is suitable for boards without an
// interrupt capable processor.
type Options struct {
	// processor interrupt mask
	Mask nvic.Masker

	// called by the default handler of an unexpected system exception
	Trap func(nvic.IRQ)
}

// New creates the drivers for the board described by desc.
//
// The vector table is not relocated until Init() is called.
func New(bus memio.Bus, desc Description, opts Options) (*Board, error) {
	if !slices.Contains(chips, desc.Chip) {
		return nil, curated.Errorf(UnsupportedChip, desc.Chip)
	}

	tbl, err := nvic.NewTable(bus, nvic.Config{
		NumIRQs: desc.NumIRQs,
		Base:    desc.VectorBase,
		Mask:    opts.Mask,
		Trap:    opts.Trap,
	})
	if err != nil {
		return nil, curated.Errorf("board: %v", err)
	}

	b := &Board{
		Desc:  desc,
		bus:   bus,
		nvic:  tbl,
		clock: nrf52.NewClock(bus),
		gpio:  nrf52.NewGPIO(bus),
	}

	for _, p := range desc.Peripherals {
		switch p {
		case "power":
			b.power = nrf52.NewPower(bus, tbl)
		case "rtc0", "rtc1", "rtc2":
			id := nrf52.RTCID(p[3] - '0')
			b.rtc[id], err = nrf52.NewRTC(bus, tbl, b.clock, id)
			if err != nil {
				return nil, curated.Errorf("board: %v", err)
			}
			if int(b.rtc[id].IRQ()) >= desc.NumIRQs {
				return nil, curated.Errorf(MissingPeripheral, desc.Name, fmt.Sprintf("interrupt for %s", p))
			}
		default:
			return nil, curated.Errorf(UnknownPeripheral, p)
		}
	}

	return b, nil
}

// Init relocates the vector table and installs the default handlers. It
// should be called once, before interrupts are enabled.
func (b *Board) Init() error {
	if err := b.nvic.Init(); err != nil {
		return curated.Errorf("board: %v", err)
	}
	logger.Logf(logger.Allow, "board", "%s (%s) ready", b.Desc.Name, b.Desc.Chip)
	return nil
}

func (b *Board) String() string {
	return fmt.Sprintf("%s (%s)", b.Desc.Name, b.Desc.Chip)
}

// NVIC returns the board's interrupt table.
func (b *Board) NVIC() *nvic.Table {
	return b.nvic
}

// Clock returns the clock driver.
func (b *Board) Clock() *nrf52.Clock {
	return b.clock
}

// GPIO returns the driver for GPIO port zero.
func (b *Board) GPIO() *nrf52.GPIO {
	return b.gpio
}

// Power returns the POWER peripheral.
func (b *Board) Power() (*nrf52.Power, error) {
	if b.power == nil {
		return nil, curated.Errorf(MissingPeripheral, b.Desc.Name, "power")
	}
	return b.power, nil
}

// RTC returns the real time counter with the ID.
func (b *Board) RTC(id nrf52.RTCID) (*nrf52.RTC, error) {
	if id < 0 || int(id) >= len(b.rtc) || b.rtc[id] == nil {
		return nil, curated.Errorf(MissingPeripheral, b.Desc.Name, fmt.Sprintf("rtc%d", id))
	}
	return b.rtc[id], nil
}

// RTCs returns every real time counter on the board.
func (b *Board) RTCs() []*nrf52.RTC {
	var r []*nrf52.RTC
	for _, rtc := range b.rtc {
		if rtc != nil {
			r = append(r, rtc)
		}
	}
	return r
}

// Dump writes a graphviz description of the board and everything it owns.
func (b *Board) Dump(w io.Writer) {
	memviz.Map(w, b)
}
