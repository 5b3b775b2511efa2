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

// Package monitor is an interactive session with a simulated board. Each key
// press raises an interrupt or advances the simulation, and the result is
// printed.
//
// Keys are read on a separate goroutine and forwarded over a channel. All
// calls into the board happen on the goroutine that called Run().
package monitor

import (
	"context"
	"fmt"
	"io"

	"github.com/jetsetilly/cortexhal/board"
	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/logger"
)

// TerminalError is returned by Terminal functions.
const TerminalError = "monitor: terminal: %v"

// list of control keys
const (
	keyCtrlC = 3
	keyCtrlD = 4
)

// Monitor handles key presses for a simulated board.
type Monitor struct {
	sim    *board.Simulation
	output io.Writer
}

// New is the preferred method of initialisation for the Monitor type.
func New(sim *board.Simulation, output io.Writer) *Monitor {
	return &Monitor{
		sim:    sim,
		output: output,
	}
}

// Help prints the list of keys.
func (mon *Monitor) Help() {
	fmt.Fprintf(mon.output, "%v\n", mon.sim.Board)
	fmt.Fprintln(mon.output, "  0-9  raise device interrupt")
	fmt.Fprintln(mon.output, "  n    raise NMI")
	fmt.Fprintln(mon.output, "  p    raise PendSV")
	fmt.Fprintln(mon.output, "  s    raise SysTick")
	fmt.Fprintln(mon.output, "  t    tick the RTCs")
	fmt.Fprintln(mon.output, "  l    show recent log entries")
	fmt.Fprintln(mon.output, "  q    quit")
}

// raise an interrupt and report the result
func (mon *Monitor) raise(irq nvic.IRQ) {
	n, ok := mon.sim.Raise(irq)
	if !ok {
		fmt.Fprintf(mon.output, "%v: cannot be raised\n", irq)
		return
	}
	fmt.Fprintf(mon.output, "%v: %d dispatched\n", irq, n)

	if h, ok := mon.sim.Halted(); ok {
		fmt.Fprintf(mon.output, "processor halted by unexpected %v\n", h)
	}
}

// Handle a single key press. Returns true if the key asks for the session to
// end.
func (mon *Monitor) Handle(key byte) bool {
	switch {
	case key >= '0' && key <= '9':
		mon.raise(nvic.IRQ(key - '0'))
	case key == 'n':
		mon.raise(nvic.NMI)
	case key == 'p':
		mon.raise(nvic.PendSV)
	case key == 's':
		mon.raise(nvic.SysTick)
	case key == 't':
		n := mon.sim.Tick()
		fmt.Fprintf(mon.output, "tick: %d dispatched, leds %08x\n", n, mon.sim.LEDs())
	case key == 'l':
		logger.Tail(mon.output, 10)
	case key == 'h' || key == '?':
		mon.Help()
	case key == 'q' || key == keyCtrlC || key == keyCtrlD:
		return true
	}
	return false
}

// Run reads keys from input until the quit key is pressed, input ends or the
// context is cancelled.
func (mon *Monitor) Run(ctx context.Context, input io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan byte)
	errs := make(chan error, 1)

	go func() {
		b := make([]byte, 1)
		for {
			_, err := input.Read(b)
			if err != nil {
				errs <- err
				return
			}
			select {
			case keys <- b[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	mon.Help()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if err == io.EOF {
				return nil
			}
			return curated.Errorf(TerminalError, err)
		case k := <-keys:
			if mon.Handle(k) {
				return nil
			}
		}
	}
}
