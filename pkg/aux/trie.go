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
	lru "github.com/hashicorp/golang-lru"
)

type trieNode struct {
	children map[byte]*trieNode
	has      bool
	value    uint64
	count    int // number of terminal keys in this subtree, inclusive
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

// Trie is a byte-keyed prefix trie mapping arbitrary key slices to u64
// values. prefix_count answers are memoized in a small LRU cache keyed by
// the prefix bytes and the trie's generation counter; the cache only ever
// shortcuts recomputation, never alters the deterministic result, so it
// cannot affect observable VM behavior.
type Trie struct {
	root       *trieNode
	generation uint64
	countCache *lru.Cache
}

const trieCacheSize = 256

func newTrie() *Trie {
	c, _ := lru.New(trieCacheSize)
	return &Trie{root: newTrieNode(), countCache: c}
}

// Insert sets key to v, creating intermediate nodes as needed.
func (t *Trie) Insert(key []byte, v uint64) {
	n := t.root
	path := []*trieNode{n}
	for _, b := range key {
		child, ok := n.children[b]
		if !ok {
			child = newTrieNode()
			n.children[b] = child
		}
		n = child
		path = append(path, n)
	}
	if !n.has {
		for _, anc := range path {
			anc.count++
		}
	}
	n.has = true
	n.value = v
	t.generation++
}

// Get returns the value at key and whether it is present.
func (t *Trie) Get(key []byte) (uint64, bool) {
	n := t.root
	for _, b := range key {
		child, ok := n.children[b]
		if !ok {
			return 0, false
		}
		n = child
	}
	if !n.has {
		return 0, false
	}
	return n.value, true
}

type prefixCacheKey struct {
	prefix     string
	generation uint64
}

// PrefixCount returns the number of keys having prefix as a prefix.
func (t *Trie) PrefixCount(prefix []byte) uint64 {
	ck := prefixCacheKey{prefix: string(prefix), generation: t.generation}
	if v, ok := t.countCache.Get(ck); ok {
		return v.(uint64)
	}
	n := t.root
	for _, b := range prefix {
		child, ok := n.children[b]
		if !ok {
			t.countCache.Add(ck, uint64(0))
			return 0
		}
		n = child
	}
	v := uint64(n.count)
	t.countCache.Add(ck, v)
	return v
}
