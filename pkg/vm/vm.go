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
	"github.com/holiman/uint256"

	"github.com/openSVM/lessvm-sub001/pkg/aux"
)

// State is the VM's lifecycle state. Once Faulted or Halted, no further
// opcode executes.
type State uint8

const (
	StateRunning State = iota
	StateHalted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateHalted:
		return "Halted"
	case StateFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// Result is what Execute returns on completion, success or failure alike.
type Result struct {
	State   State
	Fault   *Fault // nil unless State == StateFaulted
	GasUsed uint64
	Stack   []uint64 // final stack contents, bottom to top, for diagnostics/tests
}

// VM is a single, strictly sequential execution of one program against a
// borrowed set of account handles. A VM instance is not reused across calls
// to Execute; construct one per call.
type VM struct {
	prog      program
	stack     evalStack
	mem       *linearMemory
	gas       *meter
	store     *aux.Store
	accounts  []AccountHandle
	programID [32]byte
	host      Host
	entered   bool
	hook      TraceHook
}

// TraceEvent describes one completed opcode step, for diagnostics only. It
// is emitted after the step has already taken effect and never influences
// execution.
type TraceEvent struct {
	PC         uint32
	Opcode     Opcode
	StackDepth int
	GasUsed    uint64
}

// TraceHook observes TraceEvents as they occur. Implementations must not
// block meaningfully or mutate VM-visible state; they exist purely for
// observability.
type TraceHook interface {
	OnStep(TraceEvent)
}

// Execute runs program to completion against accounts, charging gas against
// gasLimit (DefaultGasLimit if zero), and returns the terminal Result. It
// never panics on adversarial bytecode; every failure surfaces as a Fault.
func Execute(program_ []byte, accounts []AccountHandle, programID [32]byte, host Host, gasLimit uint64) (Result, error) {
	return ExecuteTraced(program_, accounts, programID, host, gasLimit, nil)
}

// ExecuteTraced is Execute with an optional TraceHook invoked once per
// completed opcode step.
func ExecuteTraced(program_ []byte, accounts []AccountHandle, programID [32]byte, host Host, gasLimit uint64, hook TraceHook) (Result, error) {
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}
	v := &VM{
		prog:      program{code: program_},
		mem:       newLinearMemory(),
		gas:       newMeter(gasLimit),
		store:     aux.NewStore(),
		accounts:  accounts,
		programID: programID,
		host:      host,
		hook:      hook,
	}
	return v.run(), nil
}

func (v *VM) run() Result {
	for {
		startPC := v.prog.pc
		op, kind := v.prog.fetchOpcode()
		if kind != 0 {
			return v.fault(kind, startPC, 0)
		}
		if kind := v.gas.charge(gasBase); kind != 0 {
			return v.fault(kind, startPC, byte(op))
		}
		halted, kind := v.dispatch(op, startPC)
		if kind != 0 {
			return v.fault(kind, startPC, byte(op))
		}
		if v.hook != nil {
			v.hook.OnStep(TraceEvent{PC: startPC, Opcode: op, StackDepth: v.stack.depth, GasUsed: v.gas.used})
		}
		if halted {
			return v.success()
		}
	}
}

func (v *VM) fault(kind ErrorKind, pc uint32, opcode byte) Result {
	f := newFault(kind, pc, opcode, v.stack.depth, v.gas.used)
	return Result{State: StateFaulted, Fault: f, GasUsed: v.gas.used, Stack: v.snapshotStack()}
}

func (v *VM) success() Result {
	return Result{State: StateHalted, GasUsed: v.gas.used, Stack: v.snapshotStack()}
}

func (v *VM) snapshotStack() []uint64 {
	out := make([]uint64, v.stack.depth)
	copy(out, v.stack.values[:v.stack.depth])
	return out
}

// dispatch executes a single decoded opcode. It returns (true, 0) on HALT,
// (false, 0) to continue, or (_, kind) on failure.
func (v *VM) dispatch(op Opcode, pc uint32) (halted bool, kind ErrorKind) {
	switch op {
	case OpNop:
		return false, 0

	case OpPush1:
		return v.execPushN(1)
	case OpPush2:
		return v.execPushN(2)
	case OpPush4:
		return v.execPushN(4)
	case OpPush8:
		return v.execPushN(8)

	case OpPop:
		_, k := v.stack.pop()
		return false, k

	case OpDup:
		n, k := v.prog.fetchByte()
		if k != 0 {
			return false, k
		}
		return false, v.stack.dup(int(n))

	case OpSwap:
		n, k := v.prog.fetchByte()
		if k != 0 {
			return false, k
		}
		return false, v.stack.swap(int(n))

	case OpAdd:
		return v.execBinary(func(a, b uint64) (uint64, ErrorKind) { return a + b, 0 })
	case OpSub:
		return v.execBinary(func(a, b uint64) (uint64, ErrorKind) { return a - b, 0 })
	case OpMul:
		return v.execBinary(func(a, b uint64) (uint64, ErrorKind) { return a * b, 0 })
	case OpDiv:
		return v.execDiv()
	case OpMulDiv:
		return v.execMulDiv()
	case OpMin:
		return v.execBinary(func(a, b uint64) (uint64, ErrorKind) {
			if a < b {
				return a, 0
			}
			return b, 0
		})
	case OpMax:
		return v.execBinary(func(a, b uint64) (uint64, ErrorKind) {
			if a > b {
				return a, 0
			}
			return b, 0
		})

	case OpLoad:
		return v.execLoad()
	case OpStore:
		return v.execStore()
	case OpLoadN:
		return v.execLoadN()
	case OpStoreN:
		return v.execStoreN()
	case OpMSize:
		k := v.stack.push(v.mem.Size())
		return false, k

	case OpJump:
		return v.execJump()
	case OpJumpI:
		return v.execJumpI()
	case OpCall:
		return v.execCall()
	case OpReturn:
		return v.execReturn()

	case OpTransfer:
		return v.execTransfer()
	case OpSplop:
		return v.execSplop()
	case OpCPI:
		return v.execCPI()
	case OpLog:
		return v.execLog()

	case OpGetBalance:
		return v.execAccountQuery(func(idx uint32) (uint64, ErrorKind) { return v.host.AccountBalance(idx) })
	case OpGetOwner:
		return v.execAccountQuery(func(idx uint32) (uint64, ErrorKind) {
			id, k := v.host.AccountOwner(idx)
			return ownerIDToU64(id), k
		})
	case OpIsWritable:
		return v.execAccountQuery(func(idx uint32) (uint64, ErrorKind) {
			b, k := v.host.AccountIsWritable(idx)
			return boolToU64(b), k
		})
	case OpIsSigner:
		return v.execAccountQuery(func(idx uint32) (uint64, ErrorKind) {
			b, k := v.host.AccountIsSigner(idx)
			return boolToU64(b), k
		})

	case OpBTreeInsert:
		return v.execBTreeInsert()
	case OpBTreeGet:
		return v.execBTreeGet()
	case OpBTreeRemove:
		return v.execBTreeRemove()
	case OpBTreeRange:
		return v.execBTreeRange()

	case OpTrieInsert:
		return v.execTrieInsert()
	case OpTrieGet:
		return v.execTrieGet()
	case OpTriePrefixCount:
		return v.execTriePrefixCount()

	case OpGraphAddNode:
		return v.execGraphAddNode()
	case OpGraphSetNode:
		return v.execGraphSetNode()
	case OpGraphGetNode:
		return v.execGraphGetNode()
	case OpGraphAddEdge:
		return v.execGraphAddEdge()
	case OpGraphNeighbs:
		return v.execGraphNeighbors()
	case OpGraphBFS:
		return v.execGraphBFS()
	case OpGraphClear:
		return v.execGraphClear()

	case OpBarAdd:
		return v.execBarAdd()
	case OpBarGet:
		return v.execBarGet()
	case OpBarSMA:
		return v.execBarSMA()

	case OpHyperAddNode:
		return v.execHyperAddNode()
	case OpHyperAddEdge:
		return v.execHyperAddEdge()
	case OpHyperAddNodeEdge:
		return v.execHyperAddNodeEdge()

	case OpVecAdd:
		return v.execVecAdd()

	case OpHalt:
		return true, 0

	default:
		return false, ErrInvalidOpcode
	}
}

// ---- stack / arithmetic ----------------------------------------------------

func (v *VM) execPushN(n int) (bool, ErrorKind) {
	val, k := v.prog.fetchN(n)
	if k != 0 {
		return false, k
	}
	return false, v.stack.push(val)
}

func (v *VM) execBinary(f func(a, b uint64) (uint64, ErrorKind)) (bool, ErrorKind) {
	b, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	a, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	res, k := f(a, b)
	if k != 0 {
		return false, k
	}
	return false, v.stack.push(res)
}

// execDiv peeks the divisor before popping anything, so a zero divisor
// leaves the stack untouched.
func (v *VM) execDiv() (bool, ErrorKind) {
	if v.stack.depth < 2 {
		return false, ErrStackUnderflow
	}
	b := v.stack.peek(0)
	if b == 0 {
		return false, ErrDivisionByZero
	}
	b, _ = v.stack.pop()
	a, _ := v.stack.pop()
	return false, v.stack.push(a / b)
}

// execMulDiv computes (a*b)/c in a wide intermediate, peeking c first so a
// zero divisor leaves the stack untouched. The product of two u64 values
// can exceed 64 bits, so the intermediate is carried in a uint256.Int
// rather than risking overflow or a bits.Div64 panic when the quotient
// itself doesn't fit back into 64 bits.
func (v *VM) execMulDiv() (bool, ErrorKind) {
	if v.stack.depth < 3 {
		return false, ErrStackUnderflow
	}
	c := v.stack.peek(0)
	if c == 0 {
		return false, ErrDivisionByZero
	}
	c, _ = v.stack.pop()
	b, _ := v.stack.pop()
	a, _ := v.stack.pop()

	var aw, bw, cw, product, quotient uint256.Int
	aw.SetUint64(a)
	bw.SetUint64(b)
	cw.SetUint64(c)
	product.Mul(&aw, &bw)
	quotient.Div(&product, &cw)
	if !quotient.IsUint64() {
		return false, ErrOverflow
	}
	return false, v.stack.push(quotient.Uint64())
}

// ---- memory -----------------------------------------------------------------

// memChunkCost prices a length-byte access at 3 gas per 32-byte chunk (at
// least one chunk). Memory growth is priced separately via mem.growthCost.
func (v *VM) memChunkCost(length uint64) uint64 {
	chunks := (length + 31) / 32
	if chunks == 0 {
		chunks = 1
	}
	return chunks * gasMemChunk
}

func (v *VM) execLoad() (bool, ErrorKind) {
	offset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(v.memChunkCost(8)); k != 0 {
		return false, k
	}
	val, k := v.mem.Load(offset)
	if k != 0 {
		return false, k
	}
	return false, v.stack.push(val)
}

// execStore expects the stack, top to bottom, as [offset, value] — i.e. value
// is pushed first, offset last, matching PUSH1 42; PUSH1 0; STORE storing 42
// at offset 0. Growth cost is computed and charged against mem.growthCost
// before mem.Store ever runs, so a failed charge never leaves memory already
// grown — Store itself no longer carries any of the gas-charging.
func (v *VM) execStore() (bool, ErrorKind) {
	offset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	val, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(v.memChunkCost(8)); k != 0 {
		return false, k
	}
	end, overflow := span(offset, 8)
	if overflow {
		return false, ErrOverflow
	}
	growth, k := v.mem.growthCost(end)
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(growth); k != 0 {
		return false, k
	}
	return false, v.mem.Store(offset, val)
}

func (v *VM) execLoadN() (bool, ErrorKind) {
	length, k := v.prog.fetchByte()
	if k != 0 {
		return false, k
	}
	offset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(v.memChunkCost(uint64(length))); k != 0 {
		return false, k
	}
	bytes, k := v.mem.LoadN(offset, uint64(length))
	if k != 0 {
		return false, k
	}
	return false, v.pushBytes(bytes)
}

// execStoreN expects the stack, top to bottom, as [offset, bytes...], the
// same push order as execStore generalized to multi-word spans. As with
// execStore, growth cost is charged before mem.StoreN runs.
func (v *VM) execStoreN() (bool, ErrorKind) {
	length, k := v.prog.fetchByte()
	if k != 0 {
		return false, k
	}
	offset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	bytes, k := v.popBytes(int(length))
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(v.memChunkCost(uint64(length))); k != 0 {
		return false, k
	}
	end, overflow := span(offset, uint64(length))
	if overflow {
		return false, ErrOverflow
	}
	growth, k := v.mem.growthCost(end)
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(growth); k != 0 {
		return false, k
	}
	return false, v.mem.StoreN(offset, bytes)
}

// pushBytes packs up to 8 bytes little-endian into one value and pushes it;
// for longer spans it pushes one u64 per 8-byte chunk, least significant
// chunk first.
func (v *VM) pushBytes(b []byte) ErrorKind {
	for i := 0; i < len(b); i += 8 {
		end := i + 8
		if end > len(b) {
			end = len(b)
		}
		var word uint64
		for j, c := range b[i:end] {
			word |= uint64(c) << (8 * uint(j))
		}
		if k := v.stack.push(word); k != 0 {
			return k
		}
	}
	return 0
}

// popBytes pops enough u64 words to cover n bytes and packs them little
// endian, inverse of pushBytes.
func (v *VM) popBytes(n int) ([]byte, ErrorKind) {
	words := (n + 7) / 8
	out := make([]byte, words*8)
	for i := words - 1; i >= 0; i-- {
		val, k := v.stack.pop()
		if k != 0 {
			return nil, k
		}
		for j := 0; j < 8; j++ {
			out[i*8+j] = byte(val >> (8 * uint(j)))
		}
	}
	return out[:n], 0
}

// ---- control flow ------------------------------------------------------------

func (v *VM) execJump() (bool, ErrorKind) {
	target, k := v.prog.fetchU32()
	if k != 0 {
		return false, k
	}
	if uint64(target) >= uint64(len(v.prog.code)) {
		return false, ErrInvalidJumpTarget
	}
	v.prog.pc = target
	return false, 0
}

func (v *VM) execJumpI() (bool, ErrorKind) {
	target, k := v.prog.fetchU32()
	if k != 0 {
		return false, k
	}
	cond, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if cond == 0 {
		return false, 0
	}
	if uint64(target) >= uint64(len(v.prog.code)) {
		return false, ErrInvalidJumpITarget
	}
	v.prog.pc = target
	return false, 0
}

func (v *VM) execCall() (bool, ErrorKind) {
	target, k := v.prog.fetchU32()
	if k != 0 {
		return false, k
	}
	if k := v.stack.push(uint64(v.prog.pc)); k != 0 {
		return false, k
	}
	v.prog.pc = target
	return false, 0
}

func (v *VM) execReturn() (bool, ErrorKind) {
	addr, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	v.prog.pc = uint32(addr)
	return false, 0
}

// ---- host-mediated opcodes ----------------------------------------------------

func (v *VM) execTransfer() (bool, ErrorKind) {
	amount, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	dst, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	src, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if k := v.requireWritable(src); k != 0 {
		return false, k
	}
	if _, k := v.borrowedAccount(dst); k != 0 {
		return false, k
	}
	v.gas.markObserved()
	return false, v.host.Transfer(uint32(src), uint32(dst), amount)
}

func (v *VM) execSplop() (bool, ErrorKind) {
	kindByte, k := v.prog.fetchByte()
	if k != 0 {
		return false, k
	}
	argc, k := v.prog.fetchByte()
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(gasTokenOp); k != 0 {
		return false, k
	}
	args := make([]uint64, argc)
	for i := int(argc) - 1; i >= 0; i-- {
		val, k := v.stack.pop()
		if k != 0 {
			return false, k
		}
		args[i] = val
	}
	v.gas.markObserved()
	return false, v.host.TokenOp(kindByte, args)
}

func (v *VM) execCPI() (bool, ErrorKind) {
	if v.entered {
		return false, ErrReentrancyDetected
	}
	programIdx, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	count, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if count > uint64(v.stack.depth) {
		return false, ErrStackUnderflow
	}
	idxs := make([]uint32, count)
	for i := uint64(0); i < count; i++ {
		val, k := v.stack.pop()
		if k != 0 {
			return false, k
		}
		idxs[i] = uint32(val)
	}
	dataOffset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	dataLen, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(gasCPI); k != 0 {
		return false, k
	}
	data, k := v.mem.LoadN(dataOffset, dataLen)
	if k != 0 {
		return false, k
	}
	if programIdx >= uint64(len(v.accounts)) {
		return false, ErrInvalidAccount
	}
	callee := v.accounts[programIdx].OwnerID
	v.entered = true
	v.gas.markObserved()
	kind := v.host.Invoke(callee, idxs, data)
	v.entered = false
	return false, kind
}

func (v *VM) execLog() (bool, ErrorKind) {
	val, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	v.gas.markObserved()
	v.host.Log(val)
	return false, 0
}

func (v *VM) execAccountQuery(f func(idx uint32) (uint64, ErrorKind)) (bool, ErrorKind) {
	idx, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if k := v.gas.charge(gasAccountQuery); k != 0 {
		return false, k
	}
	val, k := f(uint32(idx))
	if k != 0 {
		return false, k
	}
	return false, v.stack.push(val)
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func ownerIDToU64(id [32]byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(id[i]) << (8 * uint(i))
	}
	return v
}

// ---- auxiliary data structures ------------------------------------------------

func (v *VM) execBTreeInsert() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	val, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	key, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	v.store.BTreeEnsure(id).Insert(key, val)
	return false, 0
}

func (v *VM) execBTreeGet() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	key, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	bt, ok := v.store.BTreeGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	val, found := bt.Get(key)
	if k := v.stack.push(val); k != 0 {
		return false, k
	}
	return false, v.stack.push(boolToU64(found))
}

func (v *VM) execBTreeRemove() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	key, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	bt, ok := v.store.BTreeGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	removed := bt.Remove(key)
	return false, v.stack.push(boolToU64(removed))
}

func (v *VM) execBTreeRange() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	hi, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	lo, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	bt, ok := v.store.BTreeGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	kvs := bt.Range(lo, hi)
	if k := v.stack.push(uint64(len(kvs))); k != 0 {
		return false, k
	}
	for _, kv := range kvs {
		if k := v.stack.push(kv.Key); k != 0 {
			return false, k
		}
		if k := v.stack.push(kv.Value); k != 0 {
			return false, k
		}
	}
	return false, 0
}

func (v *VM) execTrieInsert() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	val, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	length, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	offset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	keyBytes, k := v.mem.LoadN(offset, length)
	if k != 0 {
		return false, k
	}
	v.store.TrieEnsure(id).Insert(keyBytes, val)
	return false, 0
}

func (v *VM) execTrieGet() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	length, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	offset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	keyBytes, k := v.mem.LoadN(offset, length)
	if k != 0 {
		return false, k
	}
	t, ok := v.store.TrieGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	val, found := t.Get(keyBytes)
	if k := v.stack.push(val); k != 0 {
		return false, k
	}
	return false, v.stack.push(boolToU64(found))
}

func (v *VM) execTriePrefixCount() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	length, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	offset, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	prefix, k := v.mem.LoadN(offset, length)
	if k != 0 {
		return false, k
	}
	t, ok := v.store.TrieGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	return false, v.stack.push(t.PrefixCount(prefix))
}

func (v *VM) execGraphAddNode() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	val, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	nodeID := v.store.GraphEnsure(id).AddNode(val)
	return false, v.stack.push(nodeID)
}

func (v *VM) execGraphSetNode() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	val, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	node, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	g, ok := v.store.GraphGet(id)
	if !ok || !g.SetNode(node, val) {
		return false, ErrInvalidDataStructureOperation
	}
	return false, 0
}

func (v *VM) execGraphGetNode() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	node, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	g, ok := v.store.GraphGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	val, ok := g.GetNode(node)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	return false, v.stack.push(val)
}

func (v *VM) execGraphAddEdge() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	weight, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	to, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	from, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	g, ok := v.store.GraphGet(id)
	if !ok || !g.AddEdge(from, to, weight) {
		return false, ErrInvalidDataStructureOperation
	}
	return false, 0
}

func (v *VM) execGraphNeighbors() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	node, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	g, ok := v.store.GraphGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	edges, ok := g.Neighbors(node)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	if k := v.stack.push(uint64(len(edges))); k != 0 {
		return false, k
	}
	for _, e := range edges {
		if k := v.stack.push(e.To); k != 0 {
			return false, k
		}
		if k := v.stack.push(e.Weight); k != 0 {
			return false, k
		}
	}
	return false, 0
}

func (v *VM) execGraphBFS() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	start, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	g, ok := v.store.GraphGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	order, ok := g.BFS(start)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	if k := v.stack.push(uint64(len(order))); k != 0 {
		return false, k
	}
	for _, n := range order {
		if k := v.stack.push(n); k != 0 {
			return false, k
		}
	}
	return false, 0
}

func (v *VM) execGraphClear() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	g, ok := v.store.GraphGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	g.Clear()
	return false, 0
}

func (v *VM) execBarAdd() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	vol, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	c, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	l, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	h, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	o, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	ts, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	if !v.store.BarsEnsure(id).AddBar(ts, o, h, l, c, vol) {
		return false, ErrOutOfOrderTimestamp
	}
	return false, 0
}

func (v *VM) execBarGet() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	idx, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	bs, ok := v.store.BarsGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	bar, ok := bs.GetBar(idx)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	for _, val := range []uint64{bar.Timestamp, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume} {
		if k := v.stack.push(val); k != 0 {
			return false, k
		}
	}
	return false, 0
}

func (v *VM) execBarSMA() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	window, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	bs, ok := v.store.BarsGet(id)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	sma, ok := bs.SMA(window)
	if !ok {
		return false, ErrInvalidDataStructureOperation
	}
	return false, v.stack.push(sma)
}

func (v *VM) execHyperAddNode() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	val, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	return false, v.stack.push(v.store.HypergraphEnsure(id).AddNode(val))
}

func (v *VM) execHyperAddEdge() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	return false, v.stack.push(v.store.HypergraphEnsure(id).AddEdge())
}

func (v *VM) execHyperAddNodeEdge() (bool, ErrorKind) {
	id, k := v.prog.fetchU64Imm()
	if k != 0 {
		return false, k
	}
	node, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	edge, k := v.stack.pop()
	if k != 0 {
		return false, k
	}
	h, ok := v.store.HypergraphGet(id)
	if !ok || !h.AddNodeToEdge(edge, node) {
		return false, ErrInvalidDataStructureOperation
	}
	return false, 0
}

// ---- vector -------------------------------------------------------------------

// execVecAdd sums the top two 8-lane vectors in place: with the stack
// bottom to top as [B0..B7, A0..A7], it collapses the 16-entry window to
// [A0+B0 .. A7+B7] through the same bulkWrite window every vectorized
// opcode is expected to use, rather than popping and pushing lane by lane.
func (v *VM) execVecAdd() (bool, ErrorKind) {
	w, k := v.stack.bulkWrite(16)
	if k != 0 {
		return false, k
	}
	for i := 0; i < 8; i++ {
		w[i] += w[i+8]
	}
	v.stack.depth -= 8
	return false, 0
}
