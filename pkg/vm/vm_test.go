// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- bytecode builder helpers -----------------------------------------------

type asmBuilder struct{ buf []byte }

func asm() *asmBuilder { return &asmBuilder{} }

func (a *asmBuilder) op(o Opcode) *asmBuilder { a.buf = append(a.buf, byte(o)); return a }
func (a *asmBuilder) u8(v byte) *asmBuilder   { a.buf = append(a.buf, v); return a }
func (a *asmBuilder) u32(v uint32) *asmBuilder {
	a.buf = append(a.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	return a
}
func (a *asmBuilder) u64(v uint64) *asmBuilder {
	for i := 0; i < 8; i++ {
		a.buf = append(a.buf, byte(v>>(8*uint(i))))
	}
	return a
}
func (a *asmBuilder) push1(v byte) *asmBuilder { return a.op(OpPush1).u8(v) }
func (a *asmBuilder) bytes() []byte            { return a.buf }

// stubHost is a minimal in-memory Host for tests: it keeps balances and
// capability bits in maps, records transfers and logs, counts invocations,
// and reports ErrReentrancyDetected from Invoke when reenter is set.
type stubHost struct {
	balances  map[uint32]uint64
	owners    map[uint32][32]byte
	writable  map[uint32]bool
	signer    map[uint32]bool
	transfers []struct{ src, dst uint32; amount uint64 }
	logs      []uint64
	invokes   int
	reenter   bool
	now       uint64
}

func newStubHost() *stubHost {
	return &stubHost{
		balances: make(map[uint32]uint64),
		owners:   make(map[uint32][32]byte),
		writable: make(map[uint32]bool),
		signer:   make(map[uint32]bool),
	}
}

func (h *stubHost) AccountBalance(idx uint32) (uint64, ErrorKind) {
	b, ok := h.balances[idx]
	if !ok {
		return 0, ErrInvalidAccount
	}
	return b, 0
}
func (h *stubHost) AccountOwner(idx uint32) ([32]byte, ErrorKind) {
	o, ok := h.owners[idx]
	if !ok {
		return [32]byte{}, ErrInvalidAccount
	}
	return o, 0
}
func (h *stubHost) AccountIsWritable(idx uint32) (bool, ErrorKind) { return h.writable[idx], 0 }
func (h *stubHost) AccountIsSigner(idx uint32) (bool, ErrorKind)   { return h.signer[idx], 0 }
func (h *stubHost) Transfer(src, dst uint32, amount uint64) ErrorKind {
	if !h.writable[dst] {
		return ErrAccountNotWritable
	}
	if h.balances[src] < amount {
		return ErrInsufficientFunds
	}
	h.balances[src] -= amount
	h.balances[dst] += amount
	h.transfers = append(h.transfers, struct {
		src, dst uint32
		amount   uint64
	}{src, dst, amount})
	return 0
}
func (h *stubHost) TokenOp(kind byte, args []uint64) ErrorKind { return 0 }
func (h *stubHost) Invoke(programID [32]byte, accounts []uint32, data []byte) ErrorKind {
	h.invokes++
	if h.reenter {
		return ErrReentrancyDetected
	}
	return 0
}
func (h *stubHost) Log(v uint64) { h.logs = append(h.logs, v) }
func (h *stubHost) Now() uint64  { return h.now }

func runProgram(t *testing.T, code []byte) Result {
	t.Helper()
	res, err := Execute(code, nil, [32]byte{}, newStubHost(), 0)
	require.NoError(t, err)
	return res
}

// ---- opcode metadata ---------------------------------------------------------

func TestOpcodeStringKnown(t *testing.T) {
	assert.Equal(t, "ADD", OpAdd.String())
	assert.Equal(t, "HALT", OpHalt.String())
	assert.Equal(t, "UNKNOWN", Opcode(0x0F).String())
}

// ---- end-to-end scenarios (literal encodings) --------------------------------

func TestAddition(t *testing.T) {
	code := asm().push1(5).push1(3).op(OpAdd).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateHalted, res.State)
	assert.Equal(t, []uint64{8}, res.Stack)
	assert.Equal(t, uint64(4), res.GasUsed)
}

func TestDivisionByZeroLeavesStackIntact(t *testing.T) {
	code := asm().push1(5).push1(0).op(OpDiv).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateFaulted, res.State)
	require.NotNil(t, res.Fault)
	assert.Equal(t, ErrDivisionByZero, res.Fault.Kind)
	assert.Equal(t, []uint64{5, 0}, res.Stack)
}

func TestMemoryRoundTrip(t *testing.T) {
	code := asm().push1(42).push1(0).op(OpStore).push1(0).op(OpLoad).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateHalted, res.State)
	assert.Equal(t, []uint64{42}, res.Stack)
}

func TestJump(t *testing.T) {
	b := asm().push1(1).op(OpJumpI).u32(9).push1(0xFF).push1(7).op(OpHalt).bytes()
	res := runProgram(t, b)
	require.Equal(t, StateHalted, res.State)
	assert.Equal(t, []uint64{7}, res.Stack)
}

func TestGasExhaustion(t *testing.T) {
	code := make([]byte, 200_001)
	for i := range code {
		code[i] = byte(OpNop)
	}
	res, err := Execute(code, nil, [32]byte{}, newStubHost(), 0)
	require.NoError(t, err)
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrOutOfGas, res.Fault.Kind)
	assert.Equal(t, DefaultGasLimit, res.GasUsed)
}

func TestReentrancyDetected(t *testing.T) {
	host := newStubHost()
	host.reenter = true
	code := asm().
		push1(0).  // data len
		push1(0).  // data offset
		push1(0).  // account count
		push1(0).  // program_idx (top, popped first)
		op(OpCPI).
		op(OpHalt).bytes()
	res, err := Execute(code, []AccountHandle{{Index: 0}}, [32]byte{}, host, 0)
	require.NoError(t, err)
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrReentrancyDetected, res.Fault.Kind)
}

// ---- universal invariants -----------------------------------------------------

func TestStackOverflowLeavesStackUnchanged(t *testing.T) {
	b := asm()
	for i := 0; i < 32; i++ {
		b.push1(byte(i))
	}
	b.push1(99)
	res := runProgram(t, b.bytes())
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrStackOverflow, res.Fault.Kind)
	assert.Equal(t, 32, res.Fault.StackDepth)
}

func TestPopUnderflow(t *testing.T) {
	code := asm().op(OpPop).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrStackUnderflow, res.Fault.Kind)
}

func TestStoreOutOfBounds(t *testing.T) {
	code := asm().push1(1).u32Push(MemCap - 4).op(OpStore).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrMemoryStoreOutOfBounds, res.Fault.Kind)
}

func (a *asmBuilder) u32Push(v uint64) *asmBuilder { return a.op(OpPush8).u64(v) }

// TestStoreOutOfGasDuringGrowthLeavesMemoryUntouched exercises a STORE whose
// address span is in bounds but whose growth charge alone exceeds the
// remaining gas. It must fault with ErrOutOfGas before mem.Store ever runs,
// so memory size stays at zero rather than reflecting the rejected growth.
func TestStoreOutOfGasDuringGrowthLeavesMemoryUntouched(t *testing.T) {
	code := asm().push1(42).push1(100).op(OpStore).op(OpHalt).bytes()
	// Per-opcode gasBase: 2 (PUSH1s) + 1 (STORE) = 3, plus memChunkCost(8) = 3,
	// for 6 gas charged before growth is ever priced. growthCost for offset
	// 100 (end=108) from size 0 is 4 words * gasMemGrowthWord(2) = 8. A limit
	// of 6 covers everything except the growth charge itself.
	v := &VM{
		prog: program{code: code},
		mem:  newLinearMemory(),
		gas:  newMeter(6),
	}
	res := v.run()
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrOutOfGas, res.Fault.Kind)
	assert.Equal(t, uint64(0), v.mem.Size())
}

func TestDupZeroThenPopIsIdentity(t *testing.T) {
	code := asm().push1(9).op(OpDup).u8(0).op(OpPop).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateHalted, res.State)
	assert.Equal(t, []uint64{9}, res.Stack)
}

func TestSwapTwiceIsIdentity(t *testing.T) {
	code := asm().push1(1).push1(2).op(OpSwap).u8(1).op(OpSwap).u8(1).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateHalted, res.State)
	assert.Equal(t, []uint64{1, 2}, res.Stack)
}

// ---- auxiliary data structures ------------------------------------------------

func TestBTreeInsertGet(t *testing.T) {
	code := asm().
		push1(7).push1(77).op(OpBTreeInsert).u64(0).
		push1(7).op(OpBTreeGet).u64(0).
		op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateHalted, res.State)
	assert.Equal(t, []uint64{77, 1}, res.Stack)
}

func TestBTreeGetMissingSlotFaults(t *testing.T) {
	code := asm().push1(1).op(OpBTreeGet).u64(5).op(OpHalt).bytes()
	res := runProgram(t, code)
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrInvalidDataStructureOperation, res.Fault.Kind)
}

func TestBarSeriesOutOfOrderTimestamp(t *testing.T) {
	addBar := func(b *asmBuilder, ts, o, h, l, c, vol byte) *asmBuilder {
		return b.push1(ts).push1(o).push1(h).push1(l).push1(c).push1(vol).op(OpBarAdd).u64(0)
	}
	b := asm()
	addBar(b, 10, 1, 2, 0, 1, 5)
	addBar(b, 5, 1, 2, 0, 1, 5) // non-monotonic
	b.op(OpHalt)
	res := runProgram(t, b.bytes())
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrOutOfOrderTimestamp, res.Fault.Kind)
}

func TestVecAdd(t *testing.T) {
	b := asm()
	for i := byte(1); i <= 16; i++ {
		b.push1(i)
	}
	b.op(OpVecAdd).op(OpHalt)
	res := runProgram(t, b.bytes())
	require.Equal(t, StateHalted, res.State)
	require.Len(t, res.Stack, 8)
	// A = [9..16], B = [1..8] (bottom to top push order), componentwise sum.
	assert.Equal(t, []uint64{10, 12, 14, 16, 18, 20, 22, 24}, res.Stack)
}

// ---- account capability checks -------------------------------------------------

func TestTransferRejectsNonWritableSource(t *testing.T) {
	host := newStubHost()
	host.writable[1] = true
	code := asm().push1(0).push1(1).push1(5).op(OpTransfer).op(OpHalt).bytes()
	accounts := []AccountHandle{
		{Index: 0, Capabilities: 0}, // src: not writable
		{Index: 1, Capabilities: CapWritable},
	}
	res, err := Execute(code, accounts, [32]byte{}, host, 0)
	require.NoError(t, err)
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrAccountNotWritable, res.Fault.Kind)
	assert.Empty(t, host.transfers)
}

func TestTransferSucceedsWithWritableSource(t *testing.T) {
	host := newStubHost()
	host.writable[0] = true
	host.writable[1] = true
	host.balances[0] = 10
	code := asm().push1(0).push1(1).push1(4).op(OpTransfer).op(OpHalt).bytes()
	accounts := []AccountHandle{
		{Index: 0, Capabilities: CapWritable},
		{Index: 1, Capabilities: CapWritable},
	}
	res, err := Execute(code, accounts, [32]byte{}, host, 0)
	require.NoError(t, err)
	require.Equal(t, StateHalted, res.State)
	require.Len(t, host.transfers, 1)
	assert.Equal(t, uint64(4), host.transfers[0].amount)
}

func TestTransferRejectsOutOfRangeDestination(t *testing.T) {
	host := newStubHost()
	code := asm().push1(0).push1(9).push1(1).op(OpTransfer).op(OpHalt).bytes()
	accounts := []AccountHandle{{Index: 0, Capabilities: CapWritable}}
	res, err := Execute(code, accounts, [32]byte{}, host, 0)
	require.NoError(t, err)
	require.Equal(t, StateFaulted, res.State)
	assert.Equal(t, ErrInvalidAccount, res.Fault.Kind)
}
