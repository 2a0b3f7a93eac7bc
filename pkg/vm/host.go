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

// AccountCapability is one bit of what a borrowed account handle permits.
type AccountCapability uint8

const (
	CapReadable AccountCapability = 1 << iota
	CapWritable
	CapSigner
)

// Has reports whether cap is present in the set.
func (c AccountCapability) Has(cap AccountCapability) bool { return c&cap != 0 }

// AccountHandle is an opaque reference to an on-chain account borrowed for
// the duration of a single Execute call. The VM never forges one; the host
// constructs the slice passed into Execute.
type AccountHandle struct {
	Index        uint32
	Capabilities AccountCapability
	OwnerID      [32]byte
	Lamports     uint64
	Data         []byte
}

// Host is the narrow capability surface the VM requests side effects
// through. Every method is synchronous from the VM's perspective: the host
// may block internally, but the VM observes only a return value or error.
// Implementations must never panic; a recoverable failure is reported
// through the ErrorKind return.
type Host interface {
	AccountBalance(idx uint32) (uint64, ErrorKind)
	AccountOwner(idx uint32) (ownerID [32]byte, kind ErrorKind)
	AccountIsWritable(idx uint32) (bool, ErrorKind)
	AccountIsSigner(idx uint32) (bool, ErrorKind)

	// Transfer moves lamports from src to dst. Both indices refer to handles
	// borrowed by the running VM.
	Transfer(srcIdx, dstIdx uint32, lamports uint64) ErrorKind

	// TokenOp executes one SPLOP sub-operation. kind and args are marshaled
	// verbatim from the opcode's operands; the host interprets them.
	TokenOp(kind byte, args []uint64) ErrorKind

	// Invoke performs a cross-program invocation. accountIdx is the set of
	// borrowed account indices visible to the callee, and data is the raw
	// payload read from VM memory.
	Invoke(programID [32]byte, accountIdx []uint32, data []byte) ErrorKind

	// Log records a single observed value. Never fails observably.
	Log(v uint64)

	// Now returns the host-provided timestamp. Never fails.
	Now() uint64
}
