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

func TestGraphAddEdgeRejectsUnknownEndpoint(t *testing.T) {
	g := newGraph()
	a := g.AddNode(10)
	assert.False(t, g.AddEdge(a, 99, 1), "99 was never added as a node")
}

func TestGraphNeighborsSortedByTarget(t *testing.T) {
	g := newGraph()
	a := g.AddNode(0)
	b := g.AddNode(1)
	c := g.AddNode(2)
	d := g.AddNode(3)

	require.True(t, g.AddEdge(a, d, 1))
	require.True(t, g.AddEdge(a, b, 1))
	require.True(t, g.AddEdge(a, c, 1))

	edges, ok := g.Neighbors(a)
	require.True(t, ok)
	require.Len(t, edges, 3)
	assert.Equal(t, []uint64{b, c, d}, []uint64{edges[0].To, edges[1].To, edges[2].To})
}

func TestGraphBFSBreaksTiesByAscendingID(t *testing.T) {
	g := newGraph()
	a := g.AddNode(0)
	b := g.AddNode(1)
	c := g.AddNode(2)
	d := g.AddNode(3)

	require.True(t, g.AddEdge(a, c, 1))
	require.True(t, g.AddEdge(a, b, 1))
	require.True(t, g.AddEdge(b, d, 1))

	order, ok := g.BFS(a)
	require.True(t, ok)
	assert.Equal(t, []uint64{a, b, c, d}, order)
}

func TestGraphClearResetsState(t *testing.T) {
	g := newGraph()
	a := g.AddNode(0)
	b := g.AddNode(1)
	require.True(t, g.AddEdge(a, b, 5))

	g.Clear()

	_, ok := g.GetNode(a)
	assert.False(t, ok)
	assert.False(t, g.AddEdge(0, 1, 1))
}
