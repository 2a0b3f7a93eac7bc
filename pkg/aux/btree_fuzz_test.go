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

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

// TestBTreeMapInsertKeepsAscendingOrder feeds a batch of randomly generated
// keys through Insert and checks the ascending-key invariant Range and
// iteration both depend on, rather than hand-picking a handful of cases.
func TestBTreeMapInsertKeepsAscendingOrder(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 200)

	var keys []uint64
	f.Fuzz(&keys)

	m := newBTreeMap()
	seen := make(map[uint64]uint64, len(keys))
	for i, k := range keys {
		v := uint64(i)
		m.Insert(k, v)
		seen[k] = v
	}

	require.True(t, len(m.keys) == len(seen))
	for i := 1; i < len(m.keys); i++ {
		require.Less(t, m.keys[i-1], m.keys[i], "keys must stay strictly ascending after Insert")
	}
	for k, want := range seen {
		got, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}
