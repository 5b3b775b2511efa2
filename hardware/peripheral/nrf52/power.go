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
	"github.com/jetsetilly/cortexhal/hardware/peripheral"
	"github.com/jetsetilly/cortexhal/memio"
)

// POWER event indexes.
const (
	PowerEventPOFWarn     = 2
	PowerEventSleepEnter  = 5
	PowerEventSleepExit   = 6
	PowerEventUSBDetected = 7
	PowerEventUSBRemoved  = 8
	PowerEventUSBPwrRdy   = 9
)

// PowerEventTable has one slot for every POWER event.
type PowerEventTable [PowerEventUSBPwrRdy + 1]peripheral.EventHandler

// USBREGSTATUS register.
const (
	usbRegStatus          = 0x438
	usbRegStatusVbus      = 1 << 0
	usbRegStatusOutputRdy = 1 << 1
)

// Power is the POWER peripheral. It is peripheral zero.
type Power struct {
	Peripheral
	events PowerEventTable
}

// NewPower is the preferred method of initialisation for the Power type.
func NewPower(bus memio.Bus, ctrl peripheral.Controller) *Power {
	pwr := &Power{}
	pwr.Peripheral = newPeripheral(bus, ctrl, 0, pwr.events[:])
	return pwr
}

// IsUSBDetected returns true if VBUS has been detected.
func (pwr *Power) IsUSBDetected() bool {
	status := pwr.bus.Read32(pwr.Base() + usbRegStatus)
	return pwr.IsEventActive(PowerEventUSBDetected) || status&usbRegStatusVbus != 0
}

// IsUSBPowerReady returns true if the USB supply regulator is ready.
func (pwr *Power) IsUSBPowerReady() bool {
	status := pwr.bus.Read32(pwr.Base() + usbRegStatus)
	return pwr.IsEventActive(PowerEventUSBPwrRdy) || status&usbRegStatusOutputRdy != 0
}
