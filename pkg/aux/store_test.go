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

package aux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetOnUntouchedSlotReportsAbsent(t *testing.T) {
	s := NewStore()
	_, ok := s.BTreeGet(3)
	assert.False(t, ok)
	_, ok = s.GraphGet(0)
	assert.False(t, ok)
}

func TestStoreEnsureIsIdempotentAndSkipsOverInterveningSlots(t *testing.T) {
	s := NewStore()
	first := s.BTreeEnsure(5)
	require.NotNil(t, first)

	// Slots 0..4 exist as unoccupied placeholders, not BTreeMaps.
	for i := uint64(0); i < 5; i++ {
		_, ok := s.BTreeGet(i)
		assert.False(t, ok, "slot %d must stay unoccupied", i)
	}

	again := s.BTreeEnsure(5)
	assert.Same(t, first, again, "Ensure must not replace an already-instantiated slot")
}
