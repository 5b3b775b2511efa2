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

package peripheral_test

import (
	"testing"

	"github.com/jetsetilly/cortexhal/curated"
	"github.com/jetsetilly/cortexhal/hardware/nvic"
	"github.com/jetsetilly/cortexhal/hardware/peripheral"
	"github.com/jetsetilly/cortexhal/memio/mock"
	"github.com/jetsetilly/cortexhal/test"
)

const (
	testBase = 0x40001000
	testIRQ  = 1
)

// testPeripheral keeps one event flag per word, starting at base+0x100.
// Clearing an event writes zero to its flag.
type testPeripheral struct {
	*peripheral.Peripheral
	mem    *mock.Memory
	events [3]peripheral.EventHandler
}

func newTestPeripheral(ctrl peripheral.Controller, mem *mock.Memory) *testPeripheral {
	tp := &testPeripheral{mem: mem}
	tp.Peripheral = peripheral.NewWithEvents(ctrl, testBase, testIRQ, tp.events[:])
	return tp
}

func (tp *testPeripheral) eventAddr(evt int) uint32 {
	return tp.Base() + 0x100 + uint32(evt)*4
}

func (tp *testPeripheral) IsEventActive(evt int) bool {
	return tp.mem.Read32(tp.eventAddr(evt)) != 0
}

func (tp *testPeripheral) ClearEvent(evt int) {
	tp.mem.Write32(tp.eventAddr(evt), 0)
}

// controller records the calls made by the peripheral.
type controller struct {
	handlers map[nvic.IRQ]nvic.Handler
	enabled  map[nvic.IRQ]bool
}

func newController() *controller {
	return &controller{
		handlers: make(map[nvic.IRQ]nvic.Handler),
		enabled:  make(map[nvic.IRQ]bool),
	}
}

func (c *controller) SetHandler(irqn nvic.IRQ, handler nvic.Handler) error {
	c.handlers[irqn] = handler
	return nil
}

func (c *controller) EnableIRQ(irqn nvic.IRQ) error {
	c.enabled[irqn] = true
	return nil
}

func (c *controller) DisableIRQ(irqn nvic.IRQ) error {
	c.enabled[irqn] = false
	return nil
}

func TestIdentity(t *testing.T) {
	ctrl := newController()
	p := peripheral.New(ctrl, 0x40011000, 17)
	test.ExpectEquality(t, p.Base(), 0x40011000)
	test.ExpectEquality(t, p.IRQ(), 17)
	test.ExpectEquality(t, p.NumEvents(), 0)
	test.ExpectEquality(t, p.String(), "40011000 (IRQ17)")

	var called bool
	test.ExpectSuccess(t, p.SetIRQHandler(func() { called = true }))
	ctrl.handlers[17]()
	test.ExpectSuccess(t, called)

	test.ExpectSuccess(t, p.EnableIRQ())
	test.ExpectSuccess(t, ctrl.enabled[17])
	test.ExpectSuccess(t, p.DisableIRQ())
	test.ExpectFailure(t, ctrl.enabled[17])
}

func TestEventRange(t *testing.T) {
	mem := mock.NewMemory()
	tp := newTestPeripheral(newController(), mem)

	h := peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) {})
	test.ExpectSuccess(t, tp.AddEventHandler(0, h))
	test.ExpectSuccess(t, tp.AddEventHandler(2, h))

	err := tp.AddEventHandler(3, h)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, peripheral.EventRangeError))
	test.ExpectSuccess(t, curated.Is(tp.AddEventHandler(-1, h), peripheral.EventRangeError))

	// a peripheral without an event table accepts no handlers
	p := peripheral.New(newController(), testBase, testIRQ)
	test.ExpectSuccess(t, curated.Is(p.AddEventHandler(0, h), peripheral.EventRangeError))

	// and handling events does nothing
	p.HandleEvents(tp)
	test.ExpectEquality(t, len(mem.Journal()), 0)
}

func TestTableCleared(t *testing.T) {
	var table [4]peripheral.EventHandler
	for i := range table {
		table[i] = peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) {
			t.Errorf("stale handler called")
		})
	}

	mem := mock.NewMemory()
	p := peripheral.NewWithEvents(newController(), testBase, testIRQ, table[:])
	test.ExpectEquality(t, p.NumEvents(), 4)
	for i := range table {
		test.ExpectSuccess(t, table[i] == nil, i)
	}

	tp := &testPeripheral{Peripheral: p, mem: mem}
	for evt := 0; evt < 4; evt++ {
		mem.SetValueAt(tp.eventAddr(evt), 1)
	}
	p.HandleEvents(tp)
}

func TestFanOut(t *testing.T) {
	mem := mock.NewMemory()
	tp := newTestPeripheral(newController(), mem)

	var order []int
	record := peripheral.EventHandlerFunc(func(info *peripheral.EventInfo) {
		test.ExpectEquality(t, info.IRQ, testIRQ)
		order = append(order, info.Event)
	})

	test.DemandSuccess(t, tp.AddEventHandler(2, record))
	test.DemandSuccess(t, tp.AddEventHandler(0, record))

	for evt := 0; evt < 3; evt++ {
		mem.SetValueAt(tp.eventAddr(evt), 1)
	}

	tp.HandleEvents(tp)

	test.DemandEquality(t, len(order), 2)
	test.ExpectEquality(t, order[0], 0)
	test.ExpectEquality(t, order[1], 2)

	test.ExpectEquality(t, mem.ValueAt(tp.eventAddr(0)), 0)
	test.ExpectEquality(t, mem.ValueAt(tp.eventAddr(1)), 1)
	test.ExpectEquality(t, mem.ValueAt(tp.eventAddr(2)), 0)

	// the event without a handler is never read or written
	test.ExpectEquality(t, mem.OpCountAt(mock.OpRead32, tp.eventAddr(1)), 0)
	test.ExpectEquality(t, mem.OpCountAt(mock.OpWrite32, tp.eventAddr(1)), 0)

	// nothing is active now so a second scan calls nothing
	tp.HandleEvents(tp)
	test.ExpectEquality(t, len(order), 2)
}

func TestHandlerBeforeClear(t *testing.T) {
	mem := mock.NewMemory()
	tp := newTestPeripheral(newController(), mem)

	test.DemandSuccess(t, tp.AddEventHandler(1, peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) {
		// the event is still active while the handler runs
		test.ExpectEquality(t, mem.ValueAt(tp.eventAddr(1)), 1)
	})))

	mem.SetValueAt(tp.eventAddr(1), 1)
	tp.HandleEvents(tp)

	read, _ := mem.Find(mock.OpRead32, tp.eventAddr(1))
	test.ExpectEquality(t, read.Value, 1)
	e, ok := mem.LastWrite(tp.eventAddr(1))
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, e.Value, 0)
}

func TestLastWriteWins(t *testing.T) {
	mem := mock.NewMemory()
	tp := newTestPeripheral(newController(), mem)

	var first, second int
	test.DemandSuccess(t, tp.AddEventHandler(0, peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) { first++ })))
	test.DemandSuccess(t, tp.AddEventHandler(0, peripheral.EventHandlerFunc(func(_ *peripheral.EventInfo) { second++ })))

	mem.SetValueAt(tp.eventAddr(0), 1)
	tp.HandleEvents(tp)
	test.ExpectEquality(t, first, 0)
	test.ExpectEquality(t, second, 1)

	// removing the handler leaves the event active
	test.DemandSuccess(t, tp.AddEventHandler(0, nil))
	mem.SetValueAt(tp.eventAddr(0), 1)
	tp.HandleEvents(tp)
	test.ExpectEquality(t, second, 1)
	test.ExpectEquality(t, mem.ValueAt(tp.eventAddr(0)), 1)
}

// payloadPeripheral reports the event index multiplied by ten as the payload.
type payloadPeripheral struct {
	*testPeripheral
}

func (pp payloadPeripheral) EventPayload(evt int) any {
	return evt * 10
}

func TestPayload(t *testing.T) {
	mem := mock.NewMemory()
	pp := payloadPeripheral{newTestPeripheral(newController(), mem)}

	var payload any
	test.DemandSuccess(t, pp.AddEventHandler(2, peripheral.EventHandlerFunc(func(info *peripheral.EventInfo) {
		payload = info.Payload
	})))

	mem.SetValueAt(pp.eventAddr(2), 1)
	pp.HandleEvents(pp)
	test.ExpectEquality(t, payload, any(20))
}

func TestDispatchEndToEnd(t *testing.T) {
	mem := mock.NewMemory()
	tbl, err := nvic.NewTable(mem, nvic.Config{NumIRQs: 8, Base: 0x20000000})
	test.DemandSuccess(t, err)

	tp := newTestPeripheral(tbl, mem)

	// event 1 is always active. writes to it are counted
	flag := &mock.Fixed{Value: 1}
	mem.SetIOHandler(tp.eventAddr(1), flag)

	var counter int
	test.DemandSuccess(t, tp.AddEventHandler(1, peripheral.EventHandlerFunc(func(info *peripheral.EventInfo) {
		test.ExpectEquality(t, info.Event, 1)
		counter++
	})))
	test.DemandSuccess(t, tp.SetIRQHandler(func() {
		tp.HandleEvents(tp)
	}))

	test.ExpectSuccess(t, tbl.Dispatch(testIRQ))
	test.ExpectEquality(t, counter, 1)
	test.ExpectEquality(t, flag.Writes, 1)

	e, ok := mem.LastWrite(tp.eventAddr(1))
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, e.Value, 0)

	// the interrupt for another line does not reach the peripheral
	test.ExpectSuccess(t, curated.Is(tbl.Dispatch(testIRQ+1), nvic.NoHandler))
	test.ExpectEquality(t, counter, 1)
}
