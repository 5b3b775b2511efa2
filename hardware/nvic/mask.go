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

// Masker controls the processor level interrupt mask (PRIMASK).
type Masker interface {
	EnableInterrupts()
	DisableInterrupts()
}

// noMask is used when there is no interrupt capable processor.
type noMask struct{}

func (noMask) EnableInterrupts()  {}
func (noMask) DisableInterrupts() {}
