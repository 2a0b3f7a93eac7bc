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

import mapset "github.com/deckarep/golang-set"

// Hypergraph is a set of u64-valued nodes plus hyperedges, each hyperedge
// being an unordered set of member node ids. Membership is modeled with
// mapset.Set since a hyperedge is precisely "a set of node ids" and nothing
// about iteration order is load-bearing here.
type Hypergraph struct {
	values []uint64
	edges  []mapset.Set
}

func newHypergraph() *Hypergraph {
	return &Hypergraph{}
}

// AddNode appends a node with value v and returns its assigned id.
func (h *Hypergraph) AddNode(v uint64) uint64 {
	id := uint64(len(h.values))
	h.values = append(h.values, v)
	return id
}

// AddEdge creates a new, initially empty hyperedge and returns its id.
func (h *Hypergraph) AddEdge() uint64 {
	id := uint64(len(h.edges))
	h.edges = append(h.edges, mapset.NewThreadUnsafeSet())
	return id
}

// AddNodeToEdge inserts node into the membership set of edge. Reports false
// if either id is out of range.
func (h *Hypergraph) AddNodeToEdge(edge, node uint64) bool {
	if edge >= uint64(len(h.edges)) || node >= uint64(len(h.values)) {
		return false
	}
	h.edges[edge].Add(node)
	return true
}
