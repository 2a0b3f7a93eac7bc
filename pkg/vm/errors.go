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
	"fmt"

	"github.com/go-stack/stack"
)

// ErrorKind is the closed set of failure kinds the VM can report. Every
// fallible operation either succeeds or fails with exactly one of these.
type ErrorKind uint8

const (
	ErrStackOverflow ErrorKind = iota + 1
	ErrStackUnderflow
	ErrInvalidDupDepth
	ErrInvalidSwapDepth
	ErrMemoryStoreOutOfBounds
	ErrMemoryLoadOutOfBounds
	ErrInvalidInstructionFetch
	ErrInvalidByteFetch
	ErrInvalidU64Fetch
	ErrInvalidJumpTarget
	ErrInvalidJumpITarget
	ErrInvalidOpcode
	ErrOutOfGas
	ErrDivisionByZero
	ErrOverflow
	ErrInvalidAccount
	ErrAccountNotWritable
	ErrInvalidAccountOwner
	ErrMissingSigner
	ErrInsufficientFunds
	ErrInvalidTokenOp
	ErrCpiFailed
	ErrReentrancyDetected
	ErrInvalidDataStructureOperation
	ErrOutOfOrderTimestamp
	ErrIrrevocable
)

var kindNames = map[ErrorKind]string{
	ErrStackOverflow:                 "StackOverflow",
	ErrStackUnderflow:                "StackUnderflow",
	ErrInvalidDupDepth:               "InvalidDupDepth",
	ErrInvalidSwapDepth:              "InvalidSwapDepth",
	ErrMemoryStoreOutOfBounds:        "MemoryStoreOutOfBounds",
	ErrMemoryLoadOutOfBounds:         "MemoryLoadOutOfBounds",
	ErrInvalidInstructionFetch:       "InvalidInstructionFetch",
	ErrInvalidByteFetch:              "InvalidByteFetch",
	ErrInvalidU64Fetch:               "InvalidU64Fetch",
	ErrInvalidJumpTarget:             "InvalidJumpTarget",
	ErrInvalidJumpITarget:            "InvalidJumpITarget",
	ErrInvalidOpcode:                 "InvalidOpcode",
	ErrOutOfGas:                      "OutOfGas",
	ErrDivisionByZero:                "DivisionByZero",
	ErrOverflow:                      "Overflow",
	ErrInvalidAccount:                "InvalidAccount",
	ErrAccountNotWritable:            "AccountNotWritable",
	ErrInvalidAccountOwner:           "InvalidAccountOwner",
	ErrMissingSigner:                 "MissingSigner",
	ErrInsufficientFunds:             "InsufficientFunds",
	ErrInvalidTokenOp:                "InvalidTokenOp",
	ErrCpiFailed:                     "CpiFailed",
	ErrReentrancyDetected:            "ReentrancyDetected",
	ErrInvalidDataStructureOperation: "InvalidDataStructureOperation",
	ErrOutOfOrderTimestamp:           "OutOfOrderTimestamp",
	ErrIrrevocable:                   "Irrevocable",
}

// String returns the canonical name of the error kind, as used in host-facing
// diagnostics and test assertions.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownErrorKind"
}

// Error lets a bare ErrorKind be used as an errors.Is/errors.As target, so
// callers can write `errors.Is(err, vm.ErrDivisionByZero)` without needing a
// *Fault on both sides of the comparison.
func (k ErrorKind) Error() string { return k.String() }

// Fault is the diagnostic record attached to a terminal VM failure. It never
// alters the ErrorKind the host observes; it only adds context for
// debugging: last pc, opcode, stack depth, and gas used.
type Fault struct {
	Kind       ErrorKind
	PC         uint32
	Opcode     byte
	StackDepth int
	GasUsed    uint64

	// callers is a short capture of the Go call stack at fault time, used
	// only for internal debug logging; it is never part of the host-visible
	// contract and is omitted from Error().
	callers stack.CallStack
}

func newFault(kind ErrorKind, pc uint32, opcode byte, stackDepth int, gasUsed uint64) *Fault {
	return &Fault{
		Kind:       kind,
		PC:         pc,
		Opcode:     opcode,
		StackDepth: stackDepth,
		GasUsed:    gasUsed,
		callers:    stack.Trace().TrimRuntime(),
	}
}

func (f *Fault) Error() string {
	return fmt.Sprintf("vm: %s at pc=%d opcode=0x%02x depth=%d gas=%d", f.Kind, f.PC, f.Opcode, f.StackDepth, f.GasUsed)
}

// Is allows errors.Is(err, ErrDivisionByZero) style comparisons against a
// bare ErrorKind.
func (f *Fault) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == f.Kind
}
