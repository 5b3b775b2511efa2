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

package peripheral

import (
	"fmt"

	"github.com/jetsetilly/cortexhal/hardware/nvic"
)

// EventInfo describes the event being handled. It is only valid for the
// duration of the call to HandleEvent().
type EventInfo struct {
	IRQ   nvic.IRQ
	Event int

	// optional peripheral specific information
	Payload any
}

func (info *EventInfo) String() string {
	return fmt.Sprintf("%v event %d", info.IRQ, info.Event)
}

// EventHandler processes one peripheral event.
type EventHandler interface {
	HandleEvent(info *EventInfo)
}

// EventHandlerFunc allows an ordinary function to be used as an EventHandler.
type EventHandlerFunc func(info *EventInfo)

// HandleEvent implements the EventHandler interface.
func (f EventHandlerFunc) HandleEvent(info *EventInfo) {
	f(info)
}

// EventSource is implemented by concrete drivers. It reports the state of the
// hardware event flags.
type EventSource interface {
	// IsEventActive returns true if the hardware flag for the event is set.
	IsEventActive(evt int) bool

	// ClearEvent acknowledges the event in hardware.
	ClearEvent(evt int)
}

// PayloadSource can optionally be implemented by an EventSource. The value is
// placed in the Payload field of the EventInfo passed to the handler.
type PayloadSource interface {
	EventPayload(evt int) any
}
