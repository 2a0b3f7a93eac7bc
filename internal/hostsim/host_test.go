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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openSVM/lessvm-sub001/pkg/vm"
)

func TestTransferMovesLamportsBetweenWritableAccounts(t *testing.T) {
	ledger := NewMemLedger()
	ledger.Put(0, Account{Lamports: 100, Writable: true})
	ledger.Put(1, Account{Lamports: 0, Writable: true})
	h := New(ledger, nil)

	kind := h.Transfer(0, 1, 40)
	require.Equal(t, vm.ErrorKind(0), kind)

	src, _ := ledger.Get(0)
	dst, _ := ledger.Get(1)
	assert.Equal(t, uint64(60), src.Lamports)
	assert.Equal(t, uint64(40), dst.Lamports)
}

func TestTransferInsufficientFunds(t *testing.T) {
	ledger := NewMemLedger()
	ledger.Put(0, Account{Lamports: 5, Writable: true})
	ledger.Put(1, Account{Lamports: 0, Writable: true})
	h := New(ledger, nil)

	kind := h.Transfer(0, 1, 40)
	assert.Equal(t, vm.ErrInsufficientFunds, kind)
}

func TestTransferRejectsLamportOverflow(t *testing.T) {
	ledger := NewMemLedger()
	ledger.Put(0, Account{Lamports: ^uint64(0), Writable: true})
	ledger.Put(1, Account{Lamports: ^uint64(0), Writable: true})
	h := New(ledger, nil)

	kind := h.Transfer(0, 1, 1)
	assert.Equal(t, vm.ErrOverflow, kind)

	src, _ := ledger.Get(0)
	dst, _ := ledger.Get(1)
	assert.Equal(t, ^uint64(0), src.Lamports)
	assert.Equal(t, ^uint64(0), dst.Lamports)
}

func TestInvokeWithoutRegisteredInvokerFails(t *testing.T) {
	h := New(NewMemLedger(), nil)
	kind := h.Invoke([32]byte{1}, nil, nil)
	assert.Equal(t, vm.ErrCpiFailed, kind)
}

func TestInvokeDispatchesRegisteredInvoker(t *testing.T) {
	h := New(NewMemLedger(), nil)
	var gotData []byte
	h.RegisterInvoker([32]byte{1}, func(accounts []uint32, data []byte) vm.ErrorKind {
		gotData = data
		return 0
	})

	kind := h.Invoke([32]byte{1}, nil, []byte("payload"))
	require.Equal(t, vm.ErrorKind(0), kind)
	assert.Equal(t, []byte("payload"), gotData)
}

func TestNowUsesSuppliedClock(t *testing.T) {
	h := New(NewMemLedger(), func() uint64 { return 42 })
	assert.Equal(t, uint64(42), h.Now())
}
