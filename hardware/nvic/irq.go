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

package nvic

import "fmt"

// IRQ identifies an exception or interrupt. Negative values are the core
// system exceptions, non-negative values are device interrupts.
type IRQ int

// List of valid system exception values. Offset is the most negative valid
// number and corresponds to the initial stack pointer slot of the vector
// table.
const (
	Offset         IRQ = -16
	Reset          IRQ = -15
	NMI            IRQ = -14
	HardFault      IRQ = -13
	MemManageFault IRQ = -12
	BusFault       IRQ = -11
	UsageFault     IRQ = -10
	SVCall         IRQ = -5
	DebugMonitor   IRQ = -4
	PendSV         IRQ = -2
	SysTick        IRQ = -1
	IRQ0           IRQ = 0
)

// SystemExceptions lists the system exceptions that receive the blocking
// default handler during Init().
var SystemExceptions = []IRQ{
	NMI, HardFault, MemManageFault, BusFault, UsageFault,
	SVCall, DebugMonitor, PendSV, SysTick,
}

// IsSystem returns true if the IRQ is a core system exception.
func (irq IRQ) IsSystem() bool {
	return irq < 0
}

func (irq IRQ) String() string {
	switch irq {
	case Offset:
		return "SP"
	case Reset:
		return "Reset"
	case NMI:
		return "NMI"
	case HardFault:
		return "HardFault"
	case MemManageFault:
		return "MemManage"
	case BusFault:
		return "BusFault"
	case UsageFault:
		return "UsageFault"
	case SVCall:
		return "SVCall"
	case DebugMonitor:
		return "DebugMonitor"
	case PendSV:
		return "PendSV"
	case SysTick:
		return "SysTick"
	}
	if irq < 0 {
		return fmt.Sprintf("reserved(%d)", int(irq))
	}
	return fmt.Sprintf("IRQ%d", int(irq))
}
