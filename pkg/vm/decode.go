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

// program wraps the read-only code slice and the program counter cursor used
// while decoding. It never mutates code.
type program struct {
	code []byte
	pc   uint32
}

// fetchOpcode reads the byte at pc and advances pc by one.
func (p *program) fetchOpcode() (Opcode, ErrorKind) {
	if uint64(p.pc) >= uint64(len(p.code)) {
		return 0, ErrInvalidInstructionFetch
	}
	op := p.code[p.pc]
	p.pc++
	return Opcode(op), 0
}

// fetchByte reads and consumes a single immediate byte.
func (p *program) fetchByte() (byte, ErrorKind) {
	if uint64(p.pc) >= uint64(len(p.code)) {
		return 0, ErrInvalidByteFetch
	}
	b := p.code[p.pc]
	p.pc++
	return b, 0
}

// fetchN reads and consumes n little-endian bytes, zero-extended into a u64.
// Used for PUSH1/PUSH2/PUSH4/PUSH8 immediates.
func (p *program) fetchN(n int) (uint64, ErrorKind) {
	end := uint64(p.pc) + uint64(n)
	if end > uint64(len(p.code)) {
		return 0, ErrInvalidU64Fetch
	}
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(p.code[int(p.pc)+i]) << (8 * uint(i))
	}
	p.pc += uint32(n)
	return v, 0
}

// fetchU32 reads a little-endian u32 jump target immediate.
func (p *program) fetchU32() (uint32, ErrorKind) {
	v, kind := p.fetchN(4)
	return uint32(v), kind
}

// fetchU64Imm reads a little-endian u64 immediate, used by aux-structure
// opcodes to carry a slot id.
func (p *program) fetchU64Imm() (uint64, ErrorKind) {
	return p.fetchN(8)
}
