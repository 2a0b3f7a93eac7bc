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

// borrowedAccount looks up idx in the accounts borrowed for this Execute
// call. The host remains the source of truth for balances and ownership;
// this only checks that idx names a handle the VM was actually given, and
// the capability bits attached to it, before the opcode ever reaches the
// host.
func (v *VM) borrowedAccount(idx uint64) (*AccountHandle, ErrorKind) {
	if idx >= uint64(len(v.accounts)) {
		return nil, ErrInvalidAccount
	}
	return &v.accounts[idx], 0
}

// requireWritable fails with AccountNotWritable unless the borrowed handle
// at idx carries the writable capability.
func (v *VM) requireWritable(idx uint64) ErrorKind {
	acc, kind := v.borrowedAccount(idx)
	if kind != 0 {
		return kind
	}
	if !acc.Capabilities.Has(CapWritable) {
		return ErrAccountNotWritable
	}
	return 0
}

// requireSigner fails with MissingSigner unless the borrowed handle at idx
// carries the signer capability.
func (v *VM) requireSigner(idx uint64) ErrorKind {
	acc, kind := v.borrowedAccount(idx)
	if kind != 0 {
		return kind
	}
	if !acc.Capabilities.Has(CapSigner) {
		return ErrMissingSigner
	}
	return 0
}
