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

// Fixed per-opcode gas costs. These are part of the wire contract and must
// never vary at runtime.
const (
	gasBase           uint64 = 1
	gasMemChunk       uint64 = 3   // per 32-byte chunk touched by LOAD/STORE family
	gasMemGrowthWord  uint64 = 2   // per new 32-byte word grown
	gasAccountQuery   uint64 = 100 // GETBALANCE/GETOWNER/ISWRITABLE/ISSIGNER
	gasTokenOp        uint64 = 200 // SPLOP
	gasCPI            uint64 = 500 // CPI

	// DefaultGasLimit is the default budget used when a caller does not
	// supply one explicitly.
	DefaultGasLimit uint64 = 200_000
)

// meter is the VM's gas accounting unit. It charges monotonically and faults
// on exhaustion; it never grants gas back except through the checkpoint
// bookkeeping below, which no opcode in this VM currently drives but which
// exists so a host embedding speculative sub-execution has somewhere to
// hook in.
type meter struct {
	used        uint64
	limit       uint64
	checkpoints []uint64
	observed    bool // set once any host-mediated side effect has occurred
}

func newMeter(limit uint64) *meter {
	return &meter{limit: limit}
}

// charge deducts n from the remaining budget. It returns ErrOutOfGas without
// mutating `used` beyond the limit: gas is checked before an opcode's effects
// are committed, never after.
func (m *meter) charge(n uint64) ErrorKind {
	next := m.used + n
	if next < m.used {
		// charged amount overflowed u64; can only happen with adversarial
		// gas arithmetic, treat as exhaustion.
		return ErrOutOfGas
	}
	if next > m.limit {
		return ErrOutOfGas
	}
	m.used = next
	return 0
}

func (m *meter) pushCheckpoint() {
	m.checkpoints = append(m.checkpoints, m.used)
}

// rewindToLastCheckpoint restores `used` to the most recent checkpoint. It is
// forbidden once any observable host effect has occurred during this
// execution (transfers, CPIs, logs): those cannot be undone, so the gas spent
// reaching them cannot either.
func (m *meter) rewindToLastCheckpoint() ErrorKind {
	if m.observed {
		return ErrIrrevocable
	}
	if len(m.checkpoints) == 0 {
		return ErrIrrevocable
	}
	last := len(m.checkpoints) - 1
	m.used = m.checkpoints[last]
	m.checkpoints = m.checkpoints[:last]
	return 0
}

func (m *meter) markObserved() { m.observed = true }
