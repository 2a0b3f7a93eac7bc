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

func TestHypergraphAddNodeToEdge(t *testing.T) {
	h := newHypergraph()
	n0 := h.AddNode(10)
	n1 := h.AddNode(20)
	e := h.AddEdge()

	require.True(t, h.AddNodeToEdge(e, n0))
	require.True(t, h.AddNodeToEdge(e, n1))
	assert.True(t, h.edges[e].Contains(n0))
	assert.True(t, h.edges[e].Contains(n1))
}

func TestHypergraphAddNodeToEdgeRejectsOutOfRange(t *testing.T) {
	h := newHypergraph()
	e := h.AddEdge()
	assert.False(t, h.AddNodeToEdge(e, 99), "node 99 was never added")
	assert.False(t, h.AddNodeToEdge(99, 0), "edge 99 was never added")
}
