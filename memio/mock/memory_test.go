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

package mock_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/cortexhal/memio"
	"github.com/jetsetilly/cortexhal/memio/mock"
	"github.com/jetsetilly/cortexhal/test"
)

const testAddr = 0x40000000

func TestBasicReadWrite(t *testing.T) {
	mem := mock.NewMemory()

	test.ExpectEquality(t, mem.Read32(testAddr), 0)
	test.ExpectEquality(t, mem.Read16(testAddr), 0)
	test.ExpectEquality(t, mem.Read8(testAddr), 0)

	mem.Write32(testAddr, 0xdeadbeef)
	test.ExpectEquality(t, mem.Read32(testAddr), 0xdeadbeef)

	// narrow reads are little endian
	test.ExpectEquality(t, mem.Read16(testAddr), 0xbeef)
	test.ExpectEquality(t, mem.Read16(testAddr+2), 0xdead)
	test.ExpectEquality(t, mem.Read8(testAddr), 0xef)
	test.ExpectEquality(t, mem.Read8(testAddr+1), 0xbe)
	test.ExpectEquality(t, mem.Read8(testAddr+2), 0xad)
	test.ExpectEquality(t, mem.Read8(testAddr+3), 0xde)

	// narrow writes only affect their own part of the word
	mem.Write16(testAddr, 0xcafe)
	test.ExpectEquality(t, mem.Read32(testAddr), 0xdeadcafe)
	mem.Write16(testAddr+2, 0x1234)
	test.ExpectEquality(t, mem.Read32(testAddr), 0x1234cafe)
	mem.Write8(testAddr+1, 0x00)
	test.ExpectEquality(t, mem.Read32(testAddr), 0x123400fe)

	mem.Reset()
	test.ExpectEquality(t, mem.Read32(testAddr), 0)
}

func TestBitHelpers(t *testing.T) {
	mem := mock.NewMemory()

	memio.SetBits(mem, testAddr, memio.Bit(3)|memio.Bit(31))
	test.ExpectEquality(t, mem.ValueAt(testAddr), 0x80000008)
	memio.ClearBits(mem, testAddr, memio.Bit(31))
	test.ExpectEquality(t, mem.ValueAt(testAddr), 0x00000008)
	memio.Toggle(mem, testAddr, 0x0c)
	test.ExpectEquality(t, mem.ValueAt(testAddr), 0x00000004)
}

func TestJournal(t *testing.T) {
	mem := mock.NewMemory()

	test.ExpectEquality(t, mem.Read16(0x20000000), 0)
	mem.Write32(0x20000004, 1)
	mem.Write32(0x20000004, 2)
	mem.Write8(0x20000005, 3)

	test.DemandEquality(t, len(mem.Journal()), 4)

	e, ok := mem.Find(mock.OpRead16, 0x20000000)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, e.Value, 0)

	_, ok = mem.Find(mock.OpRead32, 0x20000000)
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, mem.OpCount(mock.OpWrite32), 2)
	test.ExpectEquality(t, mem.OpCountAt(mock.OpWrite32, 0x20000004), 2)
	test.ExpectEquality(t, mem.OpCountAt(mock.OpWrite32, 0x20000000), 0)

	e, ok = mem.LastWrite(0x20000004)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, e.Op, mock.OpWrite8)
	test.ExpectEquality(t, e.Value, 3)

	// direct access does not appear in the journal
	mem.SetValueAt(0x20000008, 10)
	test.ExpectEquality(t, mem.ValueAt(0x20000008), 10)
	test.ExpectEquality(t, len(mem.Journal()), 4)

	w := &strings.Builder{}
	mem.WriteJournal(w)
	test.ExpectEquality(t, strings.Count(w.String(), "\n"), 4)

	mem.ClearJournal()
	test.ExpectEquality(t, len(mem.Journal()), 0)
	test.ExpectEquality(t, mem.ValueAt(0x20000008), 10)
}

func TestSetClearPair(t *testing.T) {
	mem := mock.NewMemory()

	p := &mock.SetClearPair{Set: 0xe000e100, Clear: 0xe000e180}
	p.Attach(mem)

	mem.Write32(p.Set, memio.Bit(4))
	mem.Write32(p.Set, memio.Bit(7))
	test.ExpectEquality(t, p.State(), 0x90)
	test.ExpectEquality(t, mem.Read32(p.Clear), 0x90)
	test.ExpectEquality(t, mem.ValueAt(p.Set), 0x90)

	mem.Write32(p.Clear, memio.Bit(4))
	test.ExpectEquality(t, mem.Read32(p.Set), 0x80)
	test.ExpectEquality(t, mem.ValueAt(p.Clear), 0x80)

	// zero bits have no effect
	mem.Write32(p.Clear, 0)
	test.ExpectEquality(t, p.State(), 0x80)
}

func TestWriteOneToClear(t *testing.T) {
	mem := mock.NewMemory()
	mem.SetIOHandler(testAddr, mock.WriteOneToClear{})

	mem.SetValueAt(testAddr, 0x0f)
	mem.Write32(testAddr, 0x05)
	test.ExpectEquality(t, mem.Read32(testAddr), 0x0a)
}

func TestOneShot(t *testing.T) {
	mem := mock.NewMemory()
	mem.SetIOHandler(testAddr, mock.OneShot{})

	mem.SetValueAt(testAddr, 1)
	test.ExpectEquality(t, mem.Read32(testAddr), 1)
	test.ExpectEquality(t, mem.Read32(testAddr), 0)
}

func TestFixedAndRange(t *testing.T) {
	mem := mock.NewMemory()
	f := &mock.Fixed{Value: 0xaa}
	mem.SetIOHandlerRange(testAddr, testAddr+0x10, f)

	for addr := uint32(testAddr); addr < testAddr+0x10; addr += 4 {
		test.ExpectEquality(t, mem.Read32(addr), 0xaa)
	}
	test.ExpectEquality(t, mem.Read32(testAddr+0x10), 0)

	mem.Write32(testAddr+4, 1)
	test.ExpectEquality(t, f.Writes, 1)
	test.ExpectEquality(t, mem.Read32(testAddr+4), 0xaa)

	mem.RemoveIOHandler(testAddr + 4)
	test.ExpectEquality(t, mem.Read32(testAddr+4), 0)
}

func TestIOFuncs(t *testing.T) {
	mem := mock.NewMemory()

	var seen uint32
	mem.SetIOHandler(testAddr, mock.IOFuncs{
		WriteFn: func(_ *mock.Memory, _ uint32, stored uint32, value uint32) uint32 {
			seen = value
			return stored + value
		},
	})

	mem.Write32(testAddr, 3)
	mem.Write32(testAddr, 4)
	test.ExpectEquality(t, seen, 4)
	test.ExpectEquality(t, mem.Read32(testAddr), 7)
}
