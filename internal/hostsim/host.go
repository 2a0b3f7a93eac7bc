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

package hostsim

import (
	"github.com/openSVM/lessvm-sub001/pkg/vm"
)

// Host is a reference vm.Host backed by a Ledger. CPI is simulated by
// invoking a registered callback for the target program's owner id rather
// than recursing into a second VM, which keeps the simulator independent of
// any particular program registry.
type Host struct {
	ledger   Ledger
	clock    func() uint64
	invokers map[[32]byte]InvokeFunc
	logs     []uint64
}

// InvokeFunc simulates a cross-program invocation's effect.
type InvokeFunc func(accounts []uint32, data []byte) vm.ErrorKind

// New returns a Host over ledger. clock supplies the value Now() returns;
// pass nil to use a fixed zero clock (deterministic replay).
func New(ledger Ledger, clock func() uint64) *Host {
	if clock == nil {
		clock = func() uint64 { return 0 }
	}
	return &Host{ledger: ledger, clock: clock, invokers: make(map[[32]byte]InvokeFunc)}
}

// RegisterInvoker binds a callee program id to the function invoked on CPI.
func (h *Host) RegisterInvoker(programID [32]byte, fn InvokeFunc) {
	h.invokers[programID] = fn
}

// Logs returns every value logged so far, in program order.
func (h *Host) Logs() []uint64 { return h.logs }

func (h *Host) AccountBalance(idx uint32) (uint64, vm.ErrorKind) {
	a, ok := h.ledger.Get(idx)
	if !ok {
		return 0, vm.ErrInvalidAccount
	}
	return a.Lamports, 0
}

func (h *Host) AccountOwner(idx uint32) ([32]byte, vm.ErrorKind) {
	a, ok := h.ledger.Get(idx)
	if !ok {
		return [32]byte{}, vm.ErrInvalidAccount
	}
	return a.OwnerID, 0
}

func (h *Host) AccountIsWritable(idx uint32) (bool, vm.ErrorKind) {
	a, ok := h.ledger.Get(idx)
	if !ok {
		return false, vm.ErrInvalidAccount
	}
	return a.Writable, 0
}

func (h *Host) AccountIsSigner(idx uint32) (bool, vm.ErrorKind) {
	a, ok := h.ledger.Get(idx)
	if !ok {
		return false, vm.ErrInvalidAccount
	}
	return a.Signer, 0
}

func (h *Host) Transfer(srcIdx, dstIdx uint32, lamports uint64) vm.ErrorKind {
	src, ok := h.ledger.Get(srcIdx)
	if !ok {
		return vm.ErrInvalidAccount
	}
	dst, ok := h.ledger.Get(dstIdx)
	if !ok {
		return vm.ErrInvalidAccount
	}
	if !dst.Writable || !src.Writable {
		return vm.ErrAccountNotWritable
	}
	if src.Lamports < lamports {
		return vm.ErrInsufficientFunds
	}
	if dst.Lamports+lamports < dst.Lamports {
		return vm.ErrOverflow
	}
	src.Lamports -= lamports
	dst.Lamports += lamports
	h.ledger.Put(srcIdx, src)
	h.ledger.Put(dstIdx, dst)
	return 0
}

// TokenOp recognizes no sub-kinds itself; it only validates the account
// referenced by the first argument is writable, then succeeds. Real token
// semantics (mint/burn/approve/...) belong to a host that models a token
// program, which this simulator does not.
func (h *Host) TokenOp(kind byte, args []uint64) vm.ErrorKind {
	if len(args) == 0 {
		return vm.ErrInvalidTokenOp
	}
	acc, ok := h.ledger.Get(uint32(args[0]))
	if !ok || !acc.Writable {
		return vm.ErrInvalidTokenOp
	}
	return 0
}

func (h *Host) Invoke(programID [32]byte, accounts []uint32, data []byte) vm.ErrorKind {
	fn, ok := h.invokers[programID]
	if !ok {
		return vm.ErrCpiFailed
	}
	return fn(accounts, data)
}

func (h *Host) Log(v uint64) { h.logs = append(h.logs, v) }

func (h *Host) Now() uint64 { return h.clock() }
