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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jetsetilly/cortexhal/board"
	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/hardware/peripheral"
	"github.com/jetsetilly/cortexhal/hardware/peripheral/nrf52"
	"github.com/jetsetilly/cortexhal/logger"
	"github.com/jetsetilly/cortexhal/modalflag"
	"github.com/jetsetilly/cortexhal/monitor"
	"github.com/jetsetilly/cortexhal/statsview"
)

// exit values returned by launch()
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	exitVal := launch(ctx, os.Args[1:], os.Stdout)
	stop()

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch parses the command line and runs the selected mode. returns the
// value to use with os.Exit()
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "HWTEST", "MONITOR", "DUMP")
	boardName := md.AddString("board", "nrf52dk", "name of builtin board or path to board description")
	echo := md.AddBool("echo", false, "echo log entries to output")
	stats := md.AddBool("statsview", false, "run stats server")
	md.AdditionalHelp(fmt.Sprintf("  builtin boards: %s", strings.Join(board.Builtin().Names(), ", ")))

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	if *echo {
		logger.SetEcho(output)
		defer logger.SetEcho(nil)
	}

	if *stats && statsview.Available() {
		defer statsview.Launch(output)()
	}

	desc, err := board.Lookup(*boardName)
	if err != nil {
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, desc, output)

	case "HWTEST":
		err = hwtest(md, desc, output)

	case "MONITOR":
		err = monitorMode(ctx, md, desc)

	case "DUMP":
		err = dump(md, desc, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitModeError
	}

	return exitOK
}

// prepare a simulation of the board and initialise it
func simulate(desc board.Description) (*board.Simulation, error) {
	sim, err := board.NewSimulation(desc)
	if err != nil {
		return nil, err
	}
	if err := sim.Board.Init(); err != nil {
		return nil, err
	}
	return sim, nil
}

// ledString renders the state of each LED on the board.
func ledString(desc board.Description, leds uint32) string {
	var s strings.Builder
	for _, pin := range desc.LEDs {
		if leds&(1<<pin) != 0 {
			s.WriteRune('*')
		} else {
			s.WriteRune('.')
		}
	}
	return s.String()
}

func run(ctx context.Context, md *modalflag.Modes, desc board.Description, output io.Writer) error {
	md.NewMode()
	ticks := md.AddInt("ticks", 16, "number of RTC ticks to simulate")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	if len(desc.LEDs) == 0 {
		return curated.Errorf("blinker: %s has no LEDs", desc.Name)
	}

	sim, err := simulate(desc)
	if err != nil {
		return err
	}

	err = blinker(sim.Board)
	if err != nil {
		return err
	}

	for i := 0; i < *ticks; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		sim.Tick()
		fmt.Fprintf(output, "%4d %s\n", i, ledString(desc, sim.LEDs()))
	}

	return nil
}

// blinker walks a toggle across the board's LEDs, one LED for every RTC0
// tick. the RTC is prescaled to tick eight times a second.
func blinker(b *board.Board) error {
	rtc, err := b.RTC(nrf52.RTC0)
	if err != nil {
		return err
	}

	leds := b.Desc.LEDs
	b.GPIO().Output(b.Desc.LEDMask())

	var counter int
	rtc.Stop()
	err = rtc.SetPrescaler(0xffd)
	if err != nil {
		return err
	}

	err = rtc.AddEventHandler(nrf52.RTCEventTick, peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) {
		b.GPIO().Toggle(1 << leds[counter%len(leds)])
		counter++
	}))
	if err != nil {
		return err
	}

	err = rtc.EnableTickInterrupt()
	if err != nil {
		return err
	}

	return rtc.Start()
}

// hwtest installs a handler on PendSV and on IRQ1, pends both and checks
// that each handler ran once.
func hwtest(md *modalflag.Modes, desc board.Description, output io.Writer) error {
	md.NewMode()

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	sim, err := simulate(desc)
	if err != nil {
		return err
	}

	tbl := sim.Board.NVIC()

	var pendSV, irq1 int
	err = tbl.SetHandler(nvic.PendSV, func() { pendSV++ })
	if err != nil {
		return err
	}
	err = tbl.SetHandler(1, func() { irq1++ })
	if err != nil {
		return err
	}

	tbl.EnableIRQs()
	if err := tbl.EnableIRQ(1); err != nil {
		return err
	}
	if err := tbl.IRQSet(nvic.PendSV); err != nil {
		return err
	}
	if err := tbl.IRQSet(1); err != nil {
		return err
	}

	n := sim.Service()
	fmt.Fprintf(output, "%d dispatched: %v %d, %v %d\n", n, nvic.PendSV, pendSV, nvic.IRQ(1), irq1)

	if pendSV != 1 || irq1 != 1 {
		return curated.Errorf("hwtest: unexpected handler count")
	}

	fmt.Fprintln(output, "ok")
	return nil
}

func monitorMode(ctx context.Context, md *modalflag.Modes, desc board.Description) error {
	md.NewMode()

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	sim, err := simulate(desc)
	if err != nil {
		return err
	}

	term := &monitor.Terminal{}
	err = term.Initialise(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	err = term.RawMode()
	if err != nil {
		return err
	}
	defer term.CanonicalMode()

	// RTC0 blinks the LEDs when ticked from the monitor
	if len(desc.LEDs) > 0 {
		if err := blinker(sim.Board); err != nil {
			return err
		}
	}

	return monitor.New(sim, term).Run(ctx, term)
}

func dump(md *modalflag.Modes, desc board.Description, output io.Writer) error {
	md.NewMode()

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	sim, err := simulate(desc)
	if err != nil {
		return err
	}

	filename := md.GetArg(0)
	if filename == "" {
		sim.Board.Dump(output)
		return nil
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("dump: %v", err)
	}
	defer f.Close()

	sim.Board.Dump(f)
	return nil
}
