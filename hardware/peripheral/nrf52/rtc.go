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
	"github.com/jetsetilly/cortexhal/hardware/peripheral"
	"github.com/jetsetilly/cortexhal/logger"
	"github.com/jetsetilly/cortexhal/memio"
)

// RTCID identifies one of the real time counters.
type RTCID int

// List of valid RTCID values.
const (
	RTC0 RTCID = iota
	RTC1
	RTC2
)

// rtcPeripheralID maps an RTCID to the nRF52 peripheral ID, which is also
// the IRQ number.
var rtcPeripheralID = [...]int{11, 17, 36}

// UnknownRTC is returned by NewRTC() for an RTCID that does not exist.
const UnknownRTC = "nrf52: no such RTC (%d)"

// PrescalerError is returned by SetPrescaler() for a divider outside the
// range 1 to MaxPrescaler.
const PrescalerError = "nrf52: RTC prescaler out of range (%d)"

// MaxPrescaler is the largest divider the 12bit PRESCALER register allows.
const MaxPrescaler = 4096

// RTC event indexes.
const (
	RTCEventTick     = 0
	RTCEventOverflow = 1
	RTCEventCompare0 = 16
	RTCEventCompare1 = 17
	RTCEventCompare2 = 18
	RTCEventCompare3 = 19
)

// RTCEventTable has one slot for every RTC event.
type RTCEventTable [RTCEventCompare3 + 1]peripheral.EventHandler

// RTC interrupt mask bits for EnableInterrupts() and DisableInterrupts(). The
// bit for each event is the same as its event index.
const (
	RTCIntTick     = 1 << RTCEventTick
	RTCIntOverflow = 1 << RTCEventOverflow
	RTCIntCompare0 = 1 << RTCEventCompare0
	RTCIntCompare1 = 1 << RTCEventCompare1
	RTCIntCompare2 = 1 << RTCEventCompare2
	RTCIntCompare3 = 1 << RTCEventCompare3
)

// RTC tasks.
const (
	RTCTaskStart = iota
	RTCTaskStop
	RTCTaskClear
	RTCTaskTrigOvrflw
)

// RTC register offsets.
const (
	rtcIntenSet  = 0x304
	rtcIntenClr  = 0x308
	rtcEvtenSet  = 0x344
	rtcEvtenClr  = 0x348
	rtcCounter   = 0x504
	rtcPrescaler = 0x508
)

// RTCBaseRate is the frequency of the low frequency clock that drives the
// RTC.
const RTCBaseRate = 32768

// RTCClockSource is the LF clock source requested by the first call to
// Start().
const RTCClockSource = LFClockXtal

// RTC is the real time counter. It counts ticks of the low frequency clock,
// divided by the prescaler.
type RTC struct {
	Peripheral
	id     RTCID
	clock  *Clock
	events RTCEventTable
}

// NewRTC is the preferred method of initialisation for the RTC type. The
// Clock is shared with other peripherals that need the low frequency clock.
func NewRTC(bus memio.Bus, ctrl peripheral.Controller, clock *Clock, id RTCID) (*RTC, error) {
	if id < 0 || int(id) >= len(rtcPeripheralID) {
		return nil, curated.Errorf(UnknownRTC, id)
	}

	rtc := &RTC{
		id:    id,
		clock: clock,
	}
	rtc.Peripheral = newPeripheral(bus, ctrl, rtcPeripheralID[id], rtc.events[:])
	rtc.src = rtc

	return rtc, nil
}

// ID returns the RTCID of the RTC.
func (rtc *RTC) ID() RTCID {
	return rtc.id
}

// Start the counter. The low frequency clock is started if necessary.
func (rtc *RTC) Start() error {
	if !rtc.clock.LFRunning() {
		if err := rtc.clock.RequestLF(RTCClockSource); err != nil {
			return err
		}
	}
	rtc.TriggerTask(RTCTaskStart)
	return nil
}

// Stop the counter.
func (rtc *RTC) Stop() {
	rtc.TriggerTask(RTCTaskStop)
}

// Clear sets the counter to zero.
func (rtc *RTC) Clear() {
	rtc.TriggerTask(RTCTaskClear)
}

// Counter returns the current value of the 24bit counter.
func (rtc *RTC) Counter() uint32 {
	return rtc.bus.Read32(rtc.Base()+rtcCounter) & 0x00ffffff
}

// Rate returns the tick frequency in Hz.
func (rtc *RTC) Rate() uint32 {
	presc := rtc.bus.Read32(rtc.Base() + rtcPrescaler)
	return RTCBaseRate / ((presc & 0xfff) + 1)
}

// SetPrescaler sets the divider applied to the base rate. The divider must be
// in the range 1 to MaxPrescaler. The prescaler can only be changed while the
// RTC is stopped.
func (rtc *RTC) SetPrescaler(presc uint32) error {
	if presc == 0 || presc > MaxPrescaler {
		return curated.Errorf(PrescalerError, presc)
	}
	rtc.bus.Write32(rtc.Base()+rtcPrescaler, presc-1)
	return nil
}

// EnableInterrupts routes the events in the mask to the interrupt line and
// enables the interrupt. The RTC's event fan-out is installed as the IRQ
// handler the first time this is called.
func (rtc *RTC) EnableInterrupts(mask uint32) error {
	if err := rtc.Request(); err != nil {
		return err
	}
	rtc.bus.Write32(rtc.Base()+rtcIntenSet, mask)
	rtc.bus.Write32(rtc.Base()+rtcEvtenSet, mask)
	logger.Logf(logger.Allow, "nrf52", "RTC%d: interrupts %08x", rtc.id, mask)
	return rtc.EnableIRQ()
}

// DisableInterrupts stops the events in the mask from raising the interrupt.
// The events are still recorded in the event registers.
func (rtc *RTC) DisableInterrupts(mask uint32) {
	rtc.bus.Write32(rtc.Base()+rtcIntenClr, mask)
}

// EnableTickInterrupt is shorthand for EnableInterrupts(RTCIntTick).
func (rtc *RTC) EnableTickInterrupt() error {
	return rtc.EnableInterrupts(RTCIntTick)
}

// EventPayload implements the peripheral.PayloadSource interface. The
// payload is the counter value at the time the event is handled.
func (rtc *RTC) EventPayload(_ int) any {
	return rtc.Counter()
}
