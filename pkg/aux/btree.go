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

// BTreeMap is an ordered u64->u64 map with ascending-key iteration, backed
// by a sorted key slice rather than a real B-tree: slot counts in practice
// are small and determinism matters far more than asymptotics here.
type BTreeMap struct {
	keys   []uint64
	values map[uint64]uint64
}

func newBTreeMap() *BTreeMap {
	return &BTreeMap{values: make(map[uint64]uint64)}
}

func (t *BTreeMap) search(k uint64) int {
	return sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= k })
}

// Insert adds or overwrites the value at k.
func (t *BTreeMap) Insert(k, v uint64) {
	i := t.search(k)
	if i < len(t.keys) && t.keys[i] == k {
		t.values[k] = v
		return
	}
	t.keys = append(t.keys, 0)
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = k
	t.values[k] = v
}

// Get returns the value at k and whether it was present.
func (t *BTreeMap) Get(k uint64) (uint64, bool) {
	v, ok := t.values[k]
	return v, ok
}

// Remove deletes k, reporting whether it was present.
func (t *BTreeMap) Remove(k uint64) bool {
	i := t.search(k)
	if i >= len(t.keys) || t.keys[i] != k {
		return false
	}
	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	delete(t.values, k)
	return true
}

// Range returns the (key, value) pairs with lo <= key <= hi, ascending.
func (t *BTreeMap) Range(lo, hi uint64) []KV {
	start := t.search(lo)
	var out []KV
	for i := start; i < len(t.keys) && t.keys[i] <= hi; i++ {
		out = append(out, KV{Key: t.keys[i], Value: t.values[t.keys[i]]})
	}
	return out
}

// KV is an ordered key/value pair returned from Range.
type KV struct {
	Key   uint64
	Value uint64
}
