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

// MemCap is the hard ceiling on linear memory size.
const MemCap uint64 = 65_536

const maxInlineLen = 32 // upper bound on LOADN/STOREN byte spans

// linearMemory is the VM's single bounded byte-addressable region. There is
// no allocator and no free list: the region is [0, size) and grows under a
// 1.5x policy as stores touch bytes past the current size, capped at MemCap.
// Freshly grown bytes read as zero.
//
// The zero value is ready to use.
type linearMemory struct {
	data []byte
	size uint64
}

func newLinearMemory() *linearMemory {
	return &linearMemory{}
}

func (m *linearMemory) Size() uint64 { return m.size }

// nextMemSize computes the 1.5x-growth target for a region currently sized
// at size that must cover upto, capped at MemCap. Pure: callers decide
// whether and when to actually apply it.
func nextMemSize(size, upto uint64) uint64 {
	next := size * 3 / 2
	if next < upto {
		next = upto
	}
	if next > MemCap {
		next = MemCap
	}
	return next
}

// grow raises size to max(upto, size*3/2), capped at MemCap, zero-filling the
// newly visible bytes. It fails if upto itself exceeds the cap.
func (m *linearMemory) grow(upto uint64) ErrorKind {
	if upto <= m.size {
		return 0
	}
	if upto > MemCap {
		return ErrMemoryStoreOutOfBounds
	}
	next := nextMemSize(m.size, upto)
	if next > uint64(len(m.data)) {
		grown := make([]byte, next)
		copy(grown, m.data)
		m.data = grown
	}
	m.size = next
	return 0
}

// growthCost reports the gas cost of growing memory to cover [0, upto), and
// any bounds fault that growth would hit, without mutating anything. Callers
// must charge this before the corresponding Store/StoreN call so a failed
// charge never leaves memory already grown.
func (m *linearMemory) growthCost(upto uint64) (uint64, ErrorKind) {
	if upto <= m.size {
		return 0, 0
	}
	if upto > MemCap {
		return 0, ErrMemoryStoreOutOfBounds
	}
	next := nextMemSize(m.size, upto)
	oldWords := (m.size + 31) / 32
	newWords := (next + 31) / 32
	return (newWords - oldWords) * gasMemGrowthWord, 0
}

// span computes offset+length, detecting overflow without ever wrapping.
func span(offset, length uint64) (end uint64, overflowed bool) {
	end = offset + length
	return end, end < offset
}

// Load reads 8 little-endian bytes from [offset, offset+8).
func (m *linearMemory) Load(offset uint64) (uint64, ErrorKind) {
	end, overflow := span(offset, 8)
	if overflow {
		return 0, ErrOverflow
	}
	if end > m.size {
		return 0, ErrMemoryLoadOutOfBounds
	}
	d := m.data[offset:end]
	v := uint64(d[0]) | uint64(d[1])<<8 | uint64(d[2])<<16 | uint64(d[3])<<24 |
		uint64(d[4])<<32 | uint64(d[5])<<40 | uint64(d[6])<<48 | uint64(d[7])<<56
	return v, 0
}

// Store writes v as 8 little-endian bytes at offset, growing memory as needed.
func (m *linearMemory) Store(offset uint64, v uint64) ErrorKind {
	end, overflow := span(offset, 8)
	if overflow {
		return ErrOverflow
	}
	if end > MemCap {
		return ErrMemoryStoreOutOfBounds
	}
	if kind := m.grow(end); kind != 0 {
		return kind
	}
	d := m.data[offset:end]
	d[0] = byte(v)
	d[1] = byte(v >> 8)
	d[2] = byte(v >> 16)
	d[3] = byte(v >> 24)
	d[4] = byte(v >> 32)
	d[5] = byte(v >> 40)
	d[6] = byte(v >> 48)
	d[7] = byte(v >> 56)
	return 0
}

// LoadN returns a copy of length bytes starting at offset. length must be
// at most 32.
func (m *linearMemory) LoadN(offset, length uint64) ([]byte, ErrorKind) {
	if length > maxInlineLen {
		return nil, ErrMemoryLoadOutOfBounds
	}
	end, overflow := span(offset, length)
	if overflow {
		return nil, ErrOverflow
	}
	if end > m.size {
		return nil, ErrMemoryLoadOutOfBounds
	}
	out := make([]byte, length)
	copy(out, m.data[offset:end])
	return out, 0
}

// StoreN writes bytes at offset, growing memory as needed. len(bytes) must
// be at most 32.
func (m *linearMemory) StoreN(offset uint64, bytes []byte) ErrorKind {
	length := uint64(len(bytes))
	if length > maxInlineLen {
		return ErrMemoryStoreOutOfBounds
	}
	end, overflow := span(offset, length)
	if overflow {
		return ErrOverflow
	}
	if end > MemCap {
		return ErrMemoryStoreOutOfBounds
	}
	if kind := m.grow(end); kind != 0 {
		return kind
	}
	copy(m.data[offset:end], bytes)
	return 0
}
