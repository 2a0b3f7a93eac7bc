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

// Package hostsim is a reference Host implementation used to drive the VM
// outside of any real blockchain runtime: in test harnesses, benchmarks, and
// local simulation. It is not part of the VM's protocol surface.
package hostsim

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"
)

// Account is the ledger's view of one on-chain account.
type Account struct {
	OwnerID  [32]byte
	Lamports uint64
	Writable bool
	Signer   bool
	Data     []byte
}

// Ledger stores account state keyed by account index. The in-memory form is
// used for short-lived simulations; OpenLevelDB backs the same interface
// with an on-disk store so multi-process or persisted scenarios can reuse
// the same Host.
type Ledger interface {
	Get(idx uint32) (Account, bool)
	Put(idx uint32, acc Account)
}

// MemLedger is a process-local Ledger backed by a map.
type MemLedger struct {
	accounts map[uint32]Account
}

// NewMemLedger returns an empty in-memory ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{accounts: make(map[uint32]Account)}
}

func (l *MemLedger) Get(idx uint32) (Account, bool) {
	a, ok := l.accounts[idx]
	return a, ok
}

func (l *MemLedger) Put(idx uint32, acc Account) {
	l.accounts[idx] = acc
}

// LevelLedger persists accounts in a goleveldb database, one key per
// account index, value-encoded as a fixed layout: [owner:32][lamports:8]
// [writable:1][signer:1][data...]. The data segment is snappy-compressed
// on disk, the same framing goleveldb's own block compressor uses, since
// account data can carry sizable aux-structure snapshots.
type LevelLedger struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a goleveldb-backed ledger at path.
func OpenLevelDB(path string) (*LevelLedger, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("hostsim: open leveldb: %w", err)
	}
	return &LevelLedger{db: db}, nil
}

func (l *LevelLedger) Close() error { return l.db.Close() }

func accountKey(idx uint32) []byte {
	k := make([]byte, 4)
	binary.LittleEndian.PutUint32(k, idx)
	return k
}

func encodeAccount(a Account) []byte {
	compressed := snappy.Encode(nil, a.Data)
	buf := make([]byte, 32+8+1+1+len(compressed))
	copy(buf[0:32], a.OwnerID[:])
	binary.LittleEndian.PutUint64(buf[32:40], a.Lamports)
	if a.Writable {
		buf[40] = 1
	}
	if a.Signer {
		buf[41] = 1
	}
	copy(buf[42:], compressed)
	return buf
}

func decodeAccount(buf []byte) (Account, bool) {
	if len(buf) < 42 {
		return Account{}, false
	}
	var a Account
	copy(a.OwnerID[:], buf[0:32])
	a.Lamports = binary.LittleEndian.Uint64(buf[32:40])
	a.Writable = buf[40] == 1
	a.Signer = buf[41] == 1
	data, err := snappy.Decode(nil, buf[42:])
	if err != nil {
		return Account{}, false
	}
	a.Data = data
	return a, true
}

func (l *LevelLedger) Get(idx uint32) (Account, bool) {
	buf, err := l.db.Get(accountKey(idx), nil)
	if err != nil {
		return Account{}, false
	}
	return decodeAccount(buf)
}

func (l *LevelLedger) Put(idx uint32, acc Account) {
	_ = l.db.Put(accountKey(idx), encodeAccount(acc), nil)
}
