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

import "golang.org/x/crypto/ed25519"

// SignerSet verifies ed25519 signatures against borrowed account public keys
// before the simulator marks an account's Signer bit. The VM itself never
// touches signatures; it only ever reads the bit through AccountIsSigner, so
// all verification work stays on the host side of that boundary.
type SignerSet struct {
	pubkeys map[uint32]ed25519.PublicKey
}

// NewSignerSet returns an empty verifier.
func NewSignerSet() *SignerSet {
	return &SignerSet{pubkeys: make(map[uint32]ed25519.PublicKey)}
}

// Register associates account idx with its public key.
func (s *SignerSet) Register(idx uint32, pub ed25519.PublicKey) {
	s.pubkeys[idx] = pub
}

// Verify reports whether sig is a valid ed25519 signature over msg under
// idx's registered key. An unregistered idx never verifies.
func (s *SignerSet) Verify(idx uint32, msg, sig []byte) bool {
	pub, ok := s.pubkeys[idx]
	if !ok {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}

// MarkVerifiedSigners sets Signer=true on ledger for every idx in accounts
// whose signature over msg verifies, leaving all others untouched. Intended
// to run once before Execute, outside the VM's view.
func MarkVerifiedSigners(ledger Ledger, s *SignerSet, accounts []uint32, msg []byte, sigs map[uint32][]byte) {
	for _, idx := range accounts {
		sig, ok := sigs[idx]
		if !ok || !s.Verify(idx, msg, sig) {
			continue
		}
		acc, ok := ledger.Get(idx)
		if !ok {
			continue
		}
		acc.Signer = true
		ledger.Put(idx, acc)
	}
}
