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

//go:build tinygo

package memio

import (
	"runtime/volatile"
	"unsafe"
)

// Raw accesses memory directly. The zero value is ready to use.
type Raw struct{}

func (Raw) Read32(addr uint32) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (Raw) Write32(addr uint32, value uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), value)
}

func (Raw) Read16(addr uint32) uint16 {
	return volatile.LoadUint16((*uint16)(unsafe.Pointer(uintptr(addr))))
}

func (Raw) Write16(addr uint32, value uint16) {
	volatile.StoreUint16((*uint16)(unsafe.Pointer(uintptr(addr))), value)
}

func (Raw) Read8(addr uint32) uint8 {
	return volatile.LoadUint8((*uint8)(unsafe.Pointer(uintptr(addr))))
}

func (Raw) Write8(addr uint32, value uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(uintptr(addr))), value)
}
