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

import "sort"

// Edge is one outgoing connection from a Graph node.
type Edge struct {
	To     uint64
	Weight uint64
}

// Graph is a directed weighted graph over u64 node ids assigned in
// insertion order, with u64 values on nodes and u64 weights on edges.
type Graph struct {
	values    []uint64
	adjacency map[uint64][]Edge
}

func newGraph() *Graph {
	return &Graph{adjacency: make(map[uint64][]Edge)}
}

// AddNode appends a node with value v and returns its assigned id.
func (g *Graph) AddNode(v uint64) uint64 {
	id := uint64(len(g.values))
	g.values = append(g.values, v)
	return id
}

// SetNode overwrites the value at node, reporting whether it exists.
func (g *Graph) SetNode(node, v uint64) bool {
	if node >= uint64(len(g.values)) {
		return false
	}
	g.values[node] = v
	return true
}

// GetNode returns the value at node and whether it exists.
func (g *Graph) GetNode(node uint64) (uint64, bool) {
	if node >= uint64(len(g.values)) {
		return 0, false
	}
	return g.values[node], true
}

// AddEdge adds a directed edge from->to with the given weight. Both
// endpoints must already exist.
func (g *Graph) AddEdge(from, to, weight uint64) bool {
	if from >= uint64(len(g.values)) || to >= uint64(len(g.values)) {
		return false
	}
	g.adjacency[from] = append(g.adjacency[from], Edge{To: to, Weight: weight})
	return true
}

// Neighbors returns node's outgoing edges ordered by ascending target id.
func (g *Graph) Neighbors(node uint64) ([]Edge, bool) {
	if node >= uint64(len(g.values)) {
		return nil, false
	}
	edges := append([]Edge(nil), g.adjacency[node]...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
	return edges, true
}

// BFS returns node ids reachable from start in breadth-first order, with
// ties at each frontier broken by ascending node id.
func (g *Graph) BFS(start uint64) ([]uint64, bool) {
	if start >= uint64(len(g.values)) {
		return nil, false
	}
	visited := map[uint64]bool{start: true}
	order := []uint64{start}
	queue := []uint64{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		next := append([]Edge(nil), g.adjacency[cur]...)
		sort.Slice(next, func(i, j int) bool { return next[i].To < next[j].To })
		for _, e := range next {
			if !visited[e.To] {
				visited[e.To] = true
				order = append(order, e.To)
				queue = append(queue, e.To)
			}
		}
	}
	return order, true
}

// Clear removes all nodes and edges, resetting the graph to empty.
func (g *Graph) Clear() {
	g.values = nil
	g.adjacency = make(map[uint64][]Edge)
}
