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
)

func TestEncodeDecodeAccountRoundTrip(t *testing.T) {
	want := Account{
		OwnerID:  [32]byte{1, 2, 3},
		Lamports: 12345,
		Writable: true,
		Signer:   false,
		Data:     []byte("some account payload data, repeated repeated repeated"),
	}
	got, ok := decodeAccount(encodeAccount(want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestDecodeAccountRejectsTruncatedBuffer(t *testing.T) {
	_, ok := decodeAccount([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestMemLedgerGetMissing(t *testing.T) {
	l := NewMemLedger()
	_, ok := l.Get(7)
	assert.False(t, ok)
}
